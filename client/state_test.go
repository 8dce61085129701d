package client

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestState() *State {
	return newState(
		[]Question{
			{ID: "q1", Title: "Two Sum", Difficulty: "Easy"},
			{ID: "q2", Title: "LRU Cache", Difficulty: "Medium", Starred: true},
		},
		[]Question{{ID: "q7", Title: "Coin Change", Difficulty: "Medium", Completed: true}},
		[]Question{{ID: "q2", Title: "LRU Cache", Difficulty: "Medium", Starred: true}},
	)
}

func TestApplyStarAddsToStarredList(t *testing.T) {
	state := newTestState()
	state.apply("q1", OperationStar, true)

	require.True(t, state.Daily[0].Starred)
	require.Len(t, state.Starred, 2)
	require.Equal(t, "q1", state.Starred[1].ID)
	require.True(t, state.Starred[1].Starred)
}

func TestApplyUnstarRemovesFromStarredList(t *testing.T) {
	state := newTestState()
	state.apply("q2", OperationStar, false)

	require.False(t, state.Daily[1].Starred)
	require.Empty(t, state.Starred)
}

func TestApplyCompleteMirrorsAcrossLists(t *testing.T) {
	state := newTestState()
	state.apply("q2", OperationComplete, true)

	require.True(t, state.Daily[1].Completed)
	require.True(t, state.Starred[0].Completed)
	require.Len(t, state.Completed, 2)
}

func TestApplyUncompleteRemovesFromCompletedList(t *testing.T) {
	state := newTestState()
	state.apply("q7", OperationComplete, false)

	require.Empty(t, state.Completed)
}

func TestApplyUnknownQuestionIsNoop(t *testing.T) {
	state := newTestState()
	state.apply("missing", OperationStar, true)

	require.False(t, state.Completed[0].Starred)
	require.Len(t, state.Starred, 1)
	require.Len(t, state.Daily, 2)
}

func TestFlagReadsCurrentValue(t *testing.T) {
	state := newTestState()
	require.False(t, state.flag("q1", OperationStar))
	require.True(t, state.flag("q2", OperationStar))
	require.True(t, state.flag("q7", OperationComplete))
	require.False(t, state.flag("missing", OperationComplete))

	state.apply("q1", OperationStar, true)
	require.True(t, state.flag("q1", OperationStar))
}
