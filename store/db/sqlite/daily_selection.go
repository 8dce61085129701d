package sqlite

import (
	"context"
	"database/sql"
	"strings"

	"github.com/pkg/errors"

	"github.com/grindlist/grindlist/store"
)

func (d *DB) GetDailySelection(ctx context.Context, find *store.FindDailySelection) (*store.DailySelection, error) {
	where, args := []string{"1 = 1"}, []any{}
	if v := find.UserID; v != nil {
		where, args = append(where, "user_id = "+placeholder(len(args)+1)), append(args, *v)
	}

	query := `SELECT user_id, question_ids, updated_ts FROM daily_selection WHERE ` +
		strings.Join(where, " AND ") + ` LIMIT 1`

	var selection store.DailySelection
	var questionIDs string
	if err := d.db.QueryRowContext(ctx, query, args...).Scan(
		&selection.UserID,
		&questionIDs,
		&selection.UpdatedTs,
	); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, errors.Wrap(err, "failed to get daily selection")
	}

	ids, err := unmarshalIDList(questionIDs)
	if err != nil {
		return nil, err
	}
	selection.QuestionIDs = ids
	return &selection, nil
}

func (d *DB) UpsertDailySelection(ctx context.Context, upsert *store.UpsertDailySelection) (*store.DailySelection, error) {
	questionIDs, err := marshalIDList(upsert.QuestionIDs)
	if err != nil {
		return nil, err
	}

	stmt := `INSERT INTO daily_selection (user_id, question_ids, updated_ts)
		VALUES (` + placeholders(3) + `)
		ON CONFLICT (user_id) DO UPDATE SET
			question_ids = excluded.question_ids,
			updated_ts = excluded.updated_ts`
	if _, err := d.db.ExecContext(ctx, stmt, upsert.UserID, questionIDs, upsert.UpdatedTs); err != nil {
		return nil, errors.Wrap(err, "failed to upsert daily selection")
	}

	return &store.DailySelection{
		UserID:      upsert.UserID,
		QuestionIDs: upsert.QuestionIDs,
		UpdatedTs:   upsert.UpdatedTs,
	}, nil
}
