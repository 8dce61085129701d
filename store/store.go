package store

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/grindlist/grindlist/internal/profile"
	"github.com/grindlist/grindlist/store/cache"
)

// ErrQuotaOutOfRange is returned when a per-tier quota falls outside [QuotaMin, QuotaMax].
var ErrQuotaOutOfRange = errors.Errorf("quota must be between %d and %d", QuotaMin, QuotaMax)

// Store provides database access to all raw objects.
type Store struct {
	profile *profile.Profile
	driver  Driver

	// Cache settings
	cacheConfig cache.Config

	// progressCache fronts per-user progress records keyed by user id.
	progressCache *cache.Cache
}

// New creates a new instance of Store.
func New(driver Driver, profile *profile.Profile) *Store {
	cacheConfig := cache.Config{
		DefaultTTL:      10 * time.Minute,
		CleanupInterval: 5 * time.Minute,
		MaxItems:        1000,
		OnEviction:      nil,
	}

	return &Store{
		driver:        driver,
		profile:       profile,
		cacheConfig:   cacheConfig,
		progressCache: cache.New(cacheConfig),
	}
}

func (s *Store) GetDriver() Driver {
	return s.driver
}

func (s *Store) Close() error {
	s.progressCache.Close()
	return s.driver.Close()
}

// CreateQuestions inserts a batch of catalog questions.
func (s *Store) CreateQuestions(ctx context.Context, creates []*Question) ([]*Question, error) {
	return s.driver.CreateQuestions(ctx, creates)
}

// ListQuestions returns catalog questions matching find.
func (s *Store) ListQuestions(ctx context.Context, find *FindQuestion) ([]*Question, error) {
	return s.driver.ListQuestions(ctx, find)
}

// GetQuestionsByIDs resolves the given ids against the catalog, preserving the
// order of ids. Dangling ids are silently dropped.
func (s *Store) GetQuestionsByIDs(ctx context.Context, ids []string) ([]*Question, error) {
	if len(ids) == 0 {
		return []*Question{}, nil
	}
	list, err := s.driver.ListQuestions(ctx, &FindQuestion{IDs: ids})
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*Question, len(list))
	for _, q := range list {
		byID[q.ID] = q
	}
	ordered := make([]*Question, 0, len(ids))
	for _, id := range ids {
		if q, ok := byID[id]; ok {
			ordered = append(ordered, q)
		}
	}
	return ordered, nil
}

// GetOrCreateProgressRecord returns the user's progress record, lazily
// creating an empty one with unset quotas on first use. Concurrent first-time
// callers may race the insert; the unique constraint on user_id makes the
// loser fall back to re-reading the winner's row.
func (s *Store) GetOrCreateProgressRecord(ctx context.Context, userID string) (*ProgressRecord, error) {
	if v, ok := s.progressCache.Get(userID); ok {
		if record, ok := v.(*ProgressRecord); ok {
			return record, nil
		}
	}

	record, err := s.driver.GetProgressRecord(ctx, &FindProgressRecord{UserID: &userID})
	if err != nil {
		return nil, errors.Wrap(err, "failed to get progress record")
	}
	if record == nil {
		now := time.Now().Unix()
		record, err = s.driver.CreateProgressRecord(ctx, &ProgressRecord{
			UserID:               userID,
			CompletedQuestionIDs: []string{},
			StarredQuestionIDs:   []string{},
			CreatedTs:            now,
			UpdatedTs:            now,
		})
		if err != nil {
			// Another request may have created the row first.
			existing, getErr := s.driver.GetProgressRecord(ctx, &FindProgressRecord{UserID: &userID})
			if getErr != nil || existing == nil {
				return nil, errors.Wrap(err, "failed to create progress record")
			}
			record = existing
		}
	}

	s.progressCache.Set(userID, record)
	return record, nil
}

// ApplyProgressOperations applies toggle operations to the user's starred and
// completed sets in arrival order and persists the result.
func (s *Store) ApplyProgressOperations(ctx context.Context, userID string, operations []*ProgressOperation) (*ProgressRecord, error) {
	record, err := s.GetOrCreateProgressRecord(ctx, userID)
	if err != nil {
		return nil, err
	}

	starred := newIDSet(record.StarredQuestionIDs)
	completed := newIDSet(record.CompletedQuestionIDs)
	for _, op := range operations {
		target := completed
		if op.Kind == OperationStar {
			target = starred
		}
		if op.Value {
			target.add(op.QuestionID)
		} else {
			target.remove(op.QuestionID)
		}
	}

	starredIDs := starred.list()
	completedIDs := completed.list()
	updated, err := s.driver.UpdateProgressRecord(ctx, &UpdateProgressRecord{
		UserID:               userID,
		StarredQuestionIDs:   &starredIDs,
		CompletedQuestionIDs: &completedIDs,
	})
	if err != nil {
		s.progressCache.Delete(userID)
		return nil, errors.Wrap(err, "failed to update progress record")
	}

	s.progressCache.Set(userID, updated)
	return updated, nil
}

// SetQuotas updates the user's per-tier quotas, creating the record if absent.
func (s *Store) SetQuotas(ctx context.Context, userID string, easy, medium, hard int) (*ProgressRecord, error) {
	for _, quota := range []int{easy, medium, hard} {
		if quota < QuotaMin || quota > QuotaMax {
			return nil, ErrQuotaOutOfRange
		}
	}

	if _, err := s.GetOrCreateProgressRecord(ctx, userID); err != nil {
		return nil, err
	}
	updated, err := s.driver.UpdateProgressRecord(ctx, &UpdateProgressRecord{
		UserID:      userID,
		EasyQuota:   &easy,
		MediumQuota: &medium,
		HardQuota:   &hard,
	})
	if err != nil {
		s.progressCache.Delete(userID)
		return nil, errors.Wrap(err, "failed to update quotas")
	}

	s.progressCache.Set(userID, updated)
	return updated, nil
}

// GetDailySelection returns the user's cached selection, or nil if absent.
func (s *Store) GetDailySelection(ctx context.Context, userID string) (*DailySelection, error) {
	return s.driver.GetDailySelection(ctx, &FindDailySelection{UserID: &userID})
}

// UpsertDailySelection replaces the user's selection wholesale.
func (s *Store) UpsertDailySelection(ctx context.Context, upsert *UpsertDailySelection) (*DailySelection, error) {
	return s.driver.UpsertDailySelection(ctx, upsert)
}

// idSet is an insertion-ordered string set. Order is kept so persisted arrays
// stay stable across read/modify/write cycles.
type idSet struct {
	seen  map[string]struct{}
	items []string
}

func newIDSet(ids []string) *idSet {
	s := &idSet{seen: make(map[string]struct{}, len(ids))}
	for _, id := range ids {
		s.add(id)
	}
	return s
}

func (s *idSet) add(id string) {
	if _, ok := s.seen[id]; ok {
		return
	}
	s.seen[id] = struct{}{}
	s.items = append(s.items, id)
}

func (s *idSet) remove(id string) {
	if _, ok := s.seen[id]; !ok {
		return
	}
	delete(s.seen, id)
	for i, existing := range s.items {
		if existing == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			break
		}
	}
}

func (s *idSet) list() []string {
	out := make([]string, len(s.items))
	copy(out, s.items)
	return out
}
