package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/grindlist/grindlist/store"
)

func (d *DB) CreateProgressRecord(ctx context.Context, create *store.ProgressRecord) (*store.ProgressRecord, error) {
	completed, err := marshalIDList(create.CompletedQuestionIDs)
	if err != nil {
		return nil, err
	}
	starred, err := marshalIDList(create.StarredQuestionIDs)
	if err != nil {
		return nil, err
	}

	stmt := `INSERT INTO user_progress (user_id, completed_question_ids, starred_question_ids, easy_quota, medium_quota, hard_quota, created_ts, updated_ts)
		VALUES (` + placeholders(8) + `)`
	if _, err := d.db.ExecContext(ctx, stmt,
		create.UserID, completed, starred,
		nullableInt(create.EasyQuota), nullableInt(create.MediumQuota), nullableInt(create.HardQuota),
		create.CreatedTs, create.UpdatedTs,
	); err != nil {
		return nil, errors.Wrap(err, "failed to create progress record")
	}
	return create, nil
}

func (d *DB) GetProgressRecord(ctx context.Context, find *store.FindProgressRecord) (*store.ProgressRecord, error) {
	where, args := []string{"1 = 1"}, []any{}
	if v := find.UserID; v != nil {
		where, args = append(where, "user_id = "+placeholder(len(args)+1)), append(args, *v)
	}

	query := `SELECT user_id, completed_question_ids, starred_question_ids, easy_quota, medium_quota, hard_quota, created_ts, updated_ts
		FROM user_progress WHERE ` + strings.Join(where, " AND ") + ` LIMIT 1`

	var record store.ProgressRecord
	var completed, starred string
	var easy, medium, hard sql.NullInt64
	if err := d.db.QueryRowContext(ctx, query, args...).Scan(
		&record.UserID,
		&completed,
		&starred,
		&easy,
		&medium,
		&hard,
		&record.CreatedTs,
		&record.UpdatedTs,
	); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, errors.Wrap(err, "failed to get progress record")
	}

	completedIDs, err := unmarshalIDList(completed)
	if err != nil {
		return nil, err
	}
	starredIDs, err := unmarshalIDList(starred)
	if err != nil {
		return nil, err
	}
	record.CompletedQuestionIDs = completedIDs
	record.StarredQuestionIDs = starredIDs
	record.EasyQuota = intPtr(easy)
	record.MediumQuota = intPtr(medium)
	record.HardQuota = intPtr(hard)
	return &record, nil
}

func (d *DB) UpdateProgressRecord(ctx context.Context, update *store.UpdateProgressRecord) (*store.ProgressRecord, error) {
	set, args := []string{}, []any{}

	if v := update.CompletedQuestionIDs; v != nil {
		raw, err := marshalIDList(*v)
		if err != nil {
			return nil, err
		}
		set, args = append(set, "completed_question_ids = "+placeholder(len(args)+1)), append(args, raw)
	}
	if v := update.StarredQuestionIDs; v != nil {
		raw, err := marshalIDList(*v)
		if err != nil {
			return nil, err
		}
		set, args = append(set, "starred_question_ids = "+placeholder(len(args)+1)), append(args, raw)
	}
	if v := update.EasyQuota; v != nil {
		set, args = append(set, "easy_quota = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.MediumQuota; v != nil {
		set, args = append(set, "medium_quota = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.HardQuota; v != nil {
		set, args = append(set, "hard_quota = "+placeholder(len(args)+1)), append(args, *v)
	}
	set, args = append(set, "updated_ts = "+placeholder(len(args)+1)), append(args, time.Now().Unix())
	args = append(args, update.UserID)

	stmt := `UPDATE user_progress SET ` + strings.Join(set, ", ") + ` WHERE user_id = ` + placeholder(len(args))
	if _, err := d.db.ExecContext(ctx, stmt, args...); err != nil {
		return nil, errors.Wrap(err, "failed to update progress record")
	}

	record, err := d.GetProgressRecord(ctx, &store.FindProgressRecord{UserID: &update.UserID})
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, errors.Errorf("progress record not found for user %s", update.UserID)
	}
	return record, nil
}

func nullableInt(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}

func intPtr(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	i := int(v.Int64)
	return &i
}
