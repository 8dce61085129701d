package test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/grindlist/grindlist/store"
)

func seedQuestions(ctx context.Context, t *testing.T, ts *store.Store, difficulty store.Difficulty, count int) []*store.Question {
	t.Helper()
	creates := make([]*store.Question, 0, count)
	for i := 0; i < count; i++ {
		creates = append(creates, &store.Question{
			ID:         fmt.Sprintf("%s-%d", difficulty, i),
			QuestionID: fmt.Sprintf("%d", i),
			Title:      fmt.Sprintf("%s problem %d", difficulty, i),
			Link:       fmt.Sprintf("https://example.com/%s/%d", difficulty, i),
			Difficulty: difficulty,
		})
	}
	created, err := ts.CreateQuestions(ctx, creates)
	require.NoError(t, err)
	return created
}

func TestListQuestionsByDifficulty(t *testing.T) {
	ctx := context.Background()
	ts := NewTestingStore(ctx, t)

	seedQuestions(ctx, t, ts, store.Easy, 4)
	seedQuestions(ctx, t, ts, store.Medium, 2)

	easy := store.Easy
	list, err := ts.ListQuestions(ctx, &store.FindQuestion{Difficulty: &easy})
	require.NoError(t, err)
	require.Len(t, list, 4)
	for _, q := range list {
		require.Equal(t, store.Easy, q.Difficulty)
	}
}

func TestListQuestionsExcludeAndLimit(t *testing.T) {
	ctx := context.Background()
	ts := NewTestingStore(ctx, t)

	seedQuestions(ctx, t, ts, store.Easy, 5)

	easy := store.Easy
	limit := 10
	list, err := ts.ListQuestions(ctx, &store.FindQuestion{
		Difficulty: &easy,
		ExcludeIDs: []string{"Easy-0", "Easy-1"},
		Random:     true,
		Limit:      &limit,
	})
	require.NoError(t, err)
	require.Len(t, list, 3)
	for _, q := range list {
		require.NotContains(t, []string{"Easy-0", "Easy-1"}, q.ID)
	}
}

func TestGetQuestionsByIDsPreservesOrder(t *testing.T) {
	ctx := context.Background()
	ts := NewTestingStore(ctx, t)

	seedQuestions(ctx, t, ts, store.Hard, 3)

	// Dangling ids are dropped; requested order is preserved.
	list, err := ts.GetQuestionsByIDs(ctx, []string{"Hard-2", "missing", "Hard-0"})
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, "Hard-2", list[0].ID)
	require.Equal(t, "Hard-0", list[1].ID)
}
