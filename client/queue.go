package client

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
)

// DefaultFlushInterval is the debounce window between the first enqueued
// toggle and the batch write that carries it.
const DefaultFlushInterval = 2500 * time.Millisecond

// BatchQueue coalesces star/complete toggles into periodic batch writes.
//
// Every toggle applies to the local State immediately. The first toggle after
// a flush arms a debounce timer; when it fires the pending operations are
// drained and sent as one request. At most one flush is in flight at a time;
// toggles arriving during a flush accumulate for the next one. A failed flush
// discards the optimistic state and refetches everything from the server, so
// the local copy never drifts silently.
type BatchQueue struct {
	api           API
	flushInterval time.Duration

	// OnFlushError is called after a failed flush, once the resync attempt
	// has finished. The error describes the flush failure.
	OnFlushError func(error)

	mu       sync.Mutex
	state    *State
	pending  map[operationKey]*PendingOperation
	order    []operationKey
	timer    *time.Timer
	inFlight bool
}

type operationKey struct {
	questionID string
	kind       OperationKind
}

// Option customizes a BatchQueue.
type Option func(*BatchQueue)

// WithFlushInterval overrides the debounce window. Mostly useful in tests.
func WithFlushInterval(d time.Duration) Option {
	return func(q *BatchQueue) {
		q.flushInterval = d
	}
}

// NewBatchQueue creates a queue backed by the given API. Call Load before
// toggling anything.
func NewBatchQueue(api API, opts ...Option) *BatchQueue {
	q := &BatchQueue{
		api:           api,
		flushInterval: DefaultFlushInterval,
		pending:       map[operationKey]*PendingOperation{},
	}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// Load fetches the daily selection and progress lists and resets local state.
func (q *BatchQueue) Load(ctx context.Context) error {
	return q.reload(ctx, false)
}

// RefreshDaily forces the server to regenerate the daily selection and
// replaces the local daily list with the result.
func (q *BatchQueue) RefreshDaily(ctx context.Context) error {
	daily, _, err := q.api.DailyQuestions(ctx, true)
	if err != nil {
		return err
	}

	q.mu.Lock()
	defer q.mu.Unlock()
	if q.state == nil {
		q.state = newState(daily, nil, nil)
		return nil
	}
	q.state.Daily = daily
	return nil
}

// State returns a snapshot of the local optimistic state.
func (q *BatchQueue) State() State {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.state == nil {
		return State{}
	}
	return State{
		Daily:     append([]Question(nil), q.state.Daily...),
		Starred:   append([]Question(nil), q.state.Starred...),
		Completed: append([]Question(nil), q.state.Completed...),
	}
}

// ToggleStar flips the starred flag for a question and queues the write.
func (q *BatchQueue) ToggleStar(questionID string) {
	q.toggle(questionID, OperationStar)
}

// ToggleComplete flips the completed flag for a question and queues the write.
func (q *BatchQueue) ToggleComplete(questionID string) {
	q.toggle(questionID, OperationComplete)
}

func (q *BatchQueue) toggle(questionID string, kind OperationKind) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.state == nil {
		return
	}

	value := !q.state.flag(questionID, kind)
	q.state.apply(questionID, kind, value)

	key := operationKey{questionID: questionID, kind: kind}
	if op, ok := q.pending[key]; ok {
		// Same question toggled again inside the window: keep the slot,
		// overwrite the value. The batch carries only the final state.
		op.Value = value
	} else {
		q.pending[key] = &PendingOperation{QuestionID: questionID, Kind: kind, Value: value}
		q.order = append(q.order, key)
	}
	q.armLocked()
}

// armLocked starts the debounce timer if no timer is running and no flush is
// in flight. Callers must hold q.mu.
func (q *BatchQueue) armLocked() {
	if q.timer != nil || q.inFlight || len(q.order) == 0 {
		return
	}
	q.timer = time.AfterFunc(q.flushInterval, func() {
		_ = q.Flush(context.Background())
	})
}

// Flush drains the pending operations and sends them now. It is called by the
// debounce timer and can be called directly on shutdown. A flush that finds
// another flush in flight returns immediately; the running flush re-arms the
// timer for whatever accumulated meanwhile.
func (q *BatchQueue) Flush(ctx context.Context) error {
	q.mu.Lock()
	if q.timer != nil {
		q.timer.Stop()
		q.timer = nil
	}
	if q.inFlight || len(q.order) == 0 {
		q.mu.Unlock()
		return nil
	}
	batch := make([]PendingOperation, 0, len(q.order))
	for _, key := range q.order {
		batch = append(batch, *q.pending[key])
	}
	q.pending = map[operationKey]*PendingOperation{}
	q.order = nil
	q.inFlight = true
	q.mu.Unlock()

	err := q.api.SubmitBatch(ctx, batch)
	if err != nil {
		// The server may have applied some, all, or none of the batch.
		// Drop the optimistic state and take the server's word for it.
		resyncErr := q.reload(ctx, true)
		err = errors.Wrap(err, "batch flush failed")
		if resyncErr != nil {
			err = errors.Wrapf(err, "resync also failed: %v", resyncErr)
		}
		if q.OnFlushError != nil {
			q.OnFlushError(err)
		}
	}

	q.mu.Lock()
	q.inFlight = false
	q.armLocked()
	q.mu.Unlock()
	return err
}

// Pending reports how many coalesced operations are waiting to be flushed.
func (q *BatchQueue) Pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.order)
}

// reload refetches daily and progress lists and replaces local state. When
// discardPending is set any queued operations are dropped too; they described
// edits against a state that no longer exists.
func (q *BatchQueue) reload(ctx context.Context, discardPending bool) error {
	daily, _, err := q.api.DailyQuestions(ctx, false)
	if err != nil {
		return errors.Wrap(err, "failed to fetch daily questions")
	}
	completed, starred, err := q.api.UserProgress(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to fetch user progress")
	}

	q.mu.Lock()
	defer q.mu.Unlock()
	q.state = newState(daily, completed, starred)
	if discardPending {
		q.pending = map[operationKey]*PendingOperation{}
		q.order = nil
	}
	return nil
}
