// Package daily implements daily-question selection: per-tier sampling under
// user quotas and the cache-or-regenerate resolution of "today's questions".
//
// A user's selection is cached in the daily_selection row and considered
// valid for the staleness window. Completed questions are excluded from
// regeneration; starred questions stay eligible so an unfinished starred
// problem can resurface.
package daily

import (
	"context"
	"time"

	apierrors "github.com/grindlist/grindlist/server/internal/errors"
	"github.com/grindlist/grindlist/store"
)

// StalenessWindow is how long a cached daily selection stays valid.
const StalenessWindow = 24 * time.Hour

// Result is a resolved daily selection. Starred/completed enrichment happens
// in the caller; the resolver returns bare questions plus the refresh time.
type Result struct {
	Questions   []*store.Question
	RefreshedAt int64
}

// Service resolves the daily question set for a user.
type Service interface {
	// ResolveDailyQuestions returns today's questions for the user,
	// regenerating the selection when forced, absent, empty, or stale.
	ResolveDailyQuestions(ctx context.Context, userID string, forceRefresh bool) (*Result, error)
}

// Store is the interface for store operations needed by the daily service.
type Store interface {
	GetOrCreateProgressRecord(ctx context.Context, userID string) (*store.ProgressRecord, error)
	GetDailySelection(ctx context.Context, userID string) (*store.DailySelection, error)
	UpsertDailySelection(ctx context.Context, upsert *store.UpsertDailySelection) (*store.DailySelection, error)
	ListQuestions(ctx context.Context, find *store.FindQuestion) ([]*store.Question, error)
	GetQuestionsByIDs(ctx context.Context, ids []string) ([]*store.Question, error)
}

type service struct {
	store Store
	now   func() time.Time
}

// NewService creates a new daily service.
func NewService(store Store) Service {
	return &service{store: store, now: time.Now}
}

func (s *service) ResolveDailyQuestions(ctx context.Context, userID string, forceRefresh bool) (*Result, error) {
	record, err := s.store.GetOrCreateProgressRecord(ctx, userID)
	if err != nil {
		return nil, apierrors.StorageFailure("failed to load progress record", err)
	}

	selection, err := s.store.GetDailySelection(ctx, userID)
	if err != nil {
		return nil, apierrors.StorageFailure("failed to load daily selection", err)
	}

	now := s.now()
	needsRegeneration := forceRefresh ||
		selection == nil ||
		len(selection.QuestionIDs) == 0 ||
		now.Unix()-selection.UpdatedTs >= int64(StalenessWindow.Seconds())

	if !needsRegeneration {
		questions, err := s.store.GetQuestionsByIDs(ctx, selection.QuestionIDs)
		if err != nil {
			return nil, apierrors.StorageFailure("failed to resolve cached selection", err)
		}
		// All cached ids may dangle after catalog changes. Treat that the
		// same as a stale selection and regenerate.
		if len(questions) > 0 {
			return &Result{Questions: questions, RefreshedAt: selection.UpdatedTs}, nil
		}
	}

	return s.regenerate(ctx, userID, record, now)
}

func (s *service) regenerate(ctx context.Context, userID string, record *store.ProgressRecord, now time.Time) (*Result, error) {
	// Only completed questions are excluded. Starred-but-not-completed
	// questions remain eligible for re-selection.
	excludeIDs := record.CompletedQuestionIDs

	var questions []*store.Question
	for _, difficulty := range store.Difficulties {
		sampled, err := s.sampleTier(ctx, difficulty, record.QuotaFor(difficulty), excludeIDs)
		if err != nil {
			return nil, apierrors.StorageFailure("failed to sample questions", err)
		}
		questions = append(questions, sampled...)
	}

	if len(questions) == 0 {
		return nil, apierrors.NoQuestionsAvailable("no eligible questions for the requested quotas")
	}

	questionIDs := make([]string, 0, len(questions))
	for _, q := range questions {
		questionIDs = append(questionIDs, q.ID)
	}
	if _, err := s.store.UpsertDailySelection(ctx, &store.UpsertDailySelection{
		UserID:      userID,
		QuestionIDs: questionIDs,
		UpdatedTs:   now.Unix(),
	}); err != nil {
		return nil, apierrors.StorageFailure("failed to persist daily selection", err)
	}

	return &Result{Questions: questions, RefreshedAt: now.Unix()}, nil
}
