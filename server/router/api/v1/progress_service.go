package v1

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	apierrors "github.com/grindlist/grindlist/server/internal/errors"
	"github.com/grindlist/grindlist/server/internal/observability"
	"github.com/grindlist/grindlist/store"
)

type userProgressResponse struct {
	Success            bool                `json:"success"`
	CompletedQuestions []*questionResponse `json:"completedQuestions"`
	StarredQuestions   []*questionResponse `json:"starredQuestions"`
}

// GetUserProgress handles GET /api/v1/user-progress.
func (s *APIV1Service) GetUserProgress(c echo.Context) error {
	ctx := c.Request().Context()
	userID, err := userIDFromContext(c)
	if err != nil {
		return s.respondError(c, err)
	}

	record, err := s.Store.GetOrCreateProgressRecord(ctx, userID)
	if err != nil {
		return s.respondError(c, apierrors.StorageFailure("failed to load progress record", err))
	}

	// Dangling ids resolve to nothing and are dropped from the lists.
	completed, err := s.Store.GetQuestionsByIDs(ctx, record.CompletedQuestionIDs)
	if err != nil {
		return s.respondError(c, apierrors.StorageFailure("failed to resolve completed questions", err))
	}
	starred, err := s.Store.GetQuestionsByIDs(ctx, record.StarredQuestionIDs)
	if err != nil {
		return s.respondError(c, apierrors.StorageFailure("failed to resolve starred questions", err))
	}

	return c.JSON(http.StatusOK, &userProgressResponse{
		Success:            true,
		CompletedQuestions: toQuestionResponses(completed, record),
		StarredQuestions:   toQuestionResponses(starred, record),
	})
}

type batchOperationRequest struct {
	ID    string `json:"id"`
	Type  string `json:"type"`
	Value bool   `json:"value"`
}

type batchOperationsRequest struct {
	Operations []*batchOperationRequest `json:"operations"`
}

type batchOperationsResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// BatchOperations handles POST /api/v1/questions/batch-operations. The body
// carries coalesced toggle operations flushed by the client-side queue.
func (s *APIV1Service) BatchOperations(c echo.Context) error {
	ctx := c.Request().Context()
	userID, err := userIDFromContext(c)
	if err != nil {
		return s.respondError(c, err)
	}
	rc := observability.NewRequestContext(slog.Default(), "batch-operations", userID)

	request := &batchOperationsRequest{}
	if err := c.Bind(request); err != nil {
		return s.respondError(c, apierrors.InvalidArgument("malformed request body"))
	}
	if len(request.Operations) == 0 {
		return s.respondError(c, apierrors.InvalidArgument("operations must be a non-empty array"))
	}

	operations := make([]*store.ProgressOperation, 0, len(request.Operations))
	for _, op := range request.Operations {
		if op == nil || op.ID == "" {
			return s.respondError(c, apierrors.InvalidArgument("operation id is required"))
		}
		kind := store.OperationKind(op.Type)
		if !kind.IsValid() {
			return s.respondError(c, apierrors.InvalidArgument("operation type must be 'star' or 'complete'"))
		}
		operations = append(operations, &store.ProgressOperation{
			QuestionID: op.ID,
			Kind:       kind,
			Value:      op.Value,
		})
	}

	if _, err := s.Store.ApplyProgressOperations(ctx, userID, operations); err != nil {
		rc.Error("failed to apply batch operations", err)
		return s.respondError(c, apierrors.StorageFailure("failed to apply batch operations", err))
	}

	rc.Info("applied batch operations",
		slog.Int("operation_count", len(operations)),
		slog.Int64(observability.LogFieldDuration, rc.DurationMs()),
	)
	return c.JSON(http.StatusOK, &batchOperationsResponse{
		Success: true,
		Message: "Batch operations processed successfully",
	})
}
