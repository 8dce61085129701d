package sqlite

import (
	"context"
	"strings"

	"github.com/pkg/errors"

	"github.com/grindlist/grindlist/store"
)

func (d *DB) CreateQuestions(ctx context.Context, creates []*store.Question) ([]*store.Question, error) {
	if len(creates) == 0 {
		return []*store.Question{}, nil
	}

	valueClauses := make([]string, 0, len(creates))
	args := make([]any, 0, len(creates)*5)
	for _, create := range creates {
		valueClauses = append(valueClauses, "("+placeholders(5)+")")
		args = append(args, create.ID, create.QuestionID, create.Title, create.Link, string(create.Difficulty))
	}

	stmt := `INSERT INTO question (id, question_id, title, link, difficulty) VALUES ` + strings.Join(valueClauses, ", ")
	if _, err := d.db.ExecContext(ctx, stmt, args...); err != nil {
		return nil, errors.Wrap(err, "failed to create questions")
	}
	return creates, nil
}

func (d *DB) ListQuestions(ctx context.Context, find *store.FindQuestion) ([]*store.Question, error) {
	where, args := []string{"1 = 1"}, []any{}

	if len(find.IDs) > 0 {
		inArgs := make([]any, 0, len(find.IDs))
		for _, id := range find.IDs {
			inArgs = append(inArgs, id)
		}
		where = append(where, "question.id IN ("+placeholders(len(inArgs))+")")
		args = append(args, inArgs...)
	}
	if v := find.Difficulty; v != nil {
		where, args = append(where, "question.difficulty = "+placeholder(len(args)+1)), append(args, string(*v))
	}
	if len(find.ExcludeIDs) > 0 {
		exArgs := make([]any, 0, len(find.ExcludeIDs))
		for _, id := range find.ExcludeIDs {
			exArgs = append(exArgs, id)
		}
		where = append(where, "question.id NOT IN ("+placeholders(len(exArgs))+")")
		args = append(args, exArgs...)
	}

	orderBy := "ORDER BY question.id ASC"
	if find.Random {
		orderBy = "ORDER BY RANDOM()"
	}

	query := `SELECT id, question_id, title, link, difficulty FROM question WHERE ` +
		strings.Join(where, " AND ") + ` ` + orderBy
	if find.Limit != nil {
		query += " LIMIT " + placeholder(len(args)+1)
		args = append(args, *find.Limit)
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query questions")
	}
	defer rows.Close()

	list := make([]*store.Question, 0)
	for rows.Next() {
		var question store.Question
		var difficulty string
		if err := rows.Scan(
			&question.ID,
			&question.QuestionID,
			&question.Title,
			&question.Link,
			&difficulty,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan question")
		}
		question.Difficulty = store.Difficulty(difficulty)
		list = append(list, &question)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to iterate questions")
	}
	return list, nil
}
