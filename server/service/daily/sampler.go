package daily

import (
	"context"

	"github.com/grindlist/grindlist/store"
)

// sampleTier draws up to count distinct questions of the given difficulty
// whose id is not in excludeIDs, in random order. Starvation is not an
// error: when the catalog lacks enough eligible rows the slice is short.
// Each call may return a different sample.
func (s *service) sampleTier(ctx context.Context, difficulty store.Difficulty, count int, excludeIDs []string) ([]*store.Question, error) {
	if count <= 0 {
		return []*store.Question{}, nil
	}
	return s.store.ListQuestions(ctx, &store.FindQuestion{
		Difficulty: &difficulty,
		ExcludeIDs: excludeIDs,
		Random:     true,
		Limit:      &count,
	})
}
