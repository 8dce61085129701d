package test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/grindlist/grindlist/store"
)

func TestGetOrCreateProgressRecord(t *testing.T) {
	ctx := context.Background()
	ts := NewTestingStore(ctx, t)

	record, err := ts.GetOrCreateProgressRecord(ctx, "user-1")
	require.NoError(t, err)
	require.Equal(t, "user-1", record.UserID)
	require.Empty(t, record.CompletedQuestionIDs)
	require.Empty(t, record.StarredQuestionIDs)

	// Quotas are unset on a fresh record and resolve to the defaults.
	require.Nil(t, record.EasyQuota)
	easy, medium, hard := record.Quotas()
	require.Equal(t, store.DefaultEasyQuota, easy)
	require.Equal(t, store.DefaultMediumQuota, medium)
	require.Equal(t, store.DefaultHardQuota, hard)

	// A second call returns the same record, not a duplicate.
	again, err := ts.GetOrCreateProgressRecord(ctx, "user-1")
	require.NoError(t, err)
	require.Equal(t, record.UserID, again.UserID)
	require.Equal(t, record.CreatedTs, again.CreatedTs)
}

func TestSetQuotasRoundTrip(t *testing.T) {
	ctx := context.Background()
	ts := NewTestingStore(ctx, t)

	rapid.Check(t, func(rt *rapid.T) {
		easy := rapid.IntRange(0, 5).Draw(rt, "easy")
		medium := rapid.IntRange(0, 5).Draw(rt, "medium")
		hard := rapid.IntRange(0, 5).Draw(rt, "hard")

		_, err := ts.SetQuotas(ctx, "quota-user", easy, medium, hard)
		if err != nil {
			rt.Fatalf("SetQuotas failed: %v", err)
		}

		record, err := ts.GetOrCreateProgressRecord(ctx, "quota-user")
		if err != nil {
			rt.Fatalf("GetOrCreateProgressRecord failed: %v", err)
		}
		gotEasy, gotMedium, gotHard := record.Quotas()
		if gotEasy != easy || gotMedium != medium || gotHard != hard {
			rt.Fatalf("quotas did not round-trip: want (%d,%d,%d), got (%d,%d,%d)",
				easy, medium, hard, gotEasy, gotMedium, gotHard)
		}
	})
}

func TestSetQuotasZeroIsNotDefault(t *testing.T) {
	ctx := context.Background()
	ts := NewTestingStore(ctx, t)

	// All-zero quotas must persist as zero, not fall back to 3/2/1.
	_, err := ts.SetQuotas(ctx, "user-zero", 0, 0, 0)
	require.NoError(t, err)

	record, err := ts.GetOrCreateProgressRecord(ctx, "user-zero")
	require.NoError(t, err)
	easy, medium, hard := record.Quotas()
	require.Zero(t, easy)
	require.Zero(t, medium)
	require.Zero(t, hard)
}

func TestSetQuotasValidation(t *testing.T) {
	ctx := context.Background()
	ts := NewTestingStore(ctx, t)

	for _, quotas := range [][3]int{{-1, 2, 1}, {3, 6, 1}, {3, 2, 100}} {
		_, err := ts.SetQuotas(ctx, "user-bad", quotas[0], quotas[1], quotas[2])
		require.ErrorIs(t, err, store.ErrQuotaOutOfRange)
	}

	// A failed update must not have created partial quota state.
	record, err := ts.GetOrCreateProgressRecord(ctx, "user-bad")
	require.NoError(t, err)
	easy, medium, hard := record.Quotas()
	require.Equal(t, store.DefaultEasyQuota, easy)
	require.Equal(t, store.DefaultMediumQuota, medium)
	require.Equal(t, store.DefaultHardQuota, hard)
}

func TestApplyProgressOperations(t *testing.T) {
	ctx := context.Background()
	ts := NewTestingStore(ctx, t)

	record, err := ts.ApplyProgressOperations(ctx, "user-ops", []*store.ProgressOperation{
		{QuestionID: "q1", Kind: store.OperationStar, Value: true},
		{QuestionID: "q2", Kind: store.OperationComplete, Value: true},
		{QuestionID: "q3", Kind: store.OperationStar, Value: true},
	})
	require.NoError(t, err)
	require.Equal(t, []string{"q1", "q3"}, record.StarredQuestionIDs)
	require.Equal(t, []string{"q2"}, record.CompletedQuestionIDs)

	// Un-toggling removes from the set; unknown removals are no-ops.
	record, err = ts.ApplyProgressOperations(ctx, "user-ops", []*store.ProgressOperation{
		{QuestionID: "q1", Kind: store.OperationStar, Value: false},
		{QuestionID: "missing", Kind: store.OperationComplete, Value: false},
	})
	require.NoError(t, err)
	require.Equal(t, []string{"q3"}, record.StarredQuestionIDs)
	require.Equal(t, []string{"q2"}, record.CompletedQuestionIDs)
}

func TestApplyProgressOperationsNetZero(t *testing.T) {
	ctx := context.Background()
	ts := NewTestingStore(ctx, t)

	before, err := ts.ApplyProgressOperations(ctx, "user-net", []*store.ProgressOperation{
		{QuestionID: "q1", Kind: store.OperationStar, Value: true},
	})
	require.NoError(t, err)

	// Toggle-then-untoggle in one batch leaves the starred set unchanged.
	after, err := ts.ApplyProgressOperations(ctx, "user-net", []*store.ProgressOperation{
		{QuestionID: "q9", Kind: store.OperationStar, Value: true},
		{QuestionID: "q9", Kind: store.OperationStar, Value: false},
	})
	require.NoError(t, err)
	require.Equal(t, before.StarredQuestionIDs, after.StarredQuestionIDs)
	require.Equal(t, before.CompletedQuestionIDs, after.CompletedQuestionIDs)
}
