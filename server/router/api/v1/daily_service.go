package v1

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	apierrors "github.com/grindlist/grindlist/server/internal/errors"
	"github.com/grindlist/grindlist/server/internal/observability"
)

type dailyQuestionsResponse struct {
	Success        bool                `json:"success"`
	DailyQuestions []*questionResponse `json:"dailyQuestions"`
	RefreshedAt    int64               `json:"refreshedAt"`
}

// GetDailyQuestions handles GET /api/v1/daily-questions.
// ?refresh=true forces regeneration of the cached selection.
func (s *APIV1Service) GetDailyQuestions(c echo.Context) error {
	ctx := c.Request().Context()
	userID, err := userIDFromContext(c)
	if err != nil {
		return s.respondError(c, err)
	}
	rc := observability.NewRequestContext(slog.Default(), "daily-questions", userID)

	forceRefresh := c.QueryParam("refresh") == "true"
	if forceRefresh && !s.refreshLimiter.Allow(userID) {
		return s.respondError(c, apierrors.RateLimitExceeded("refresh limit reached"))
	}

	result, err := s.DailyService.ResolveDailyQuestions(ctx, userID, forceRefresh)
	if err != nil {
		rc.Error("failed to resolve daily questions", err)
		return s.respondError(c, err)
	}

	record, err := s.Store.GetOrCreateProgressRecord(ctx, userID)
	if err != nil {
		rc.Error("failed to load progress record", err)
		return s.respondError(c, apierrors.StorageFailure("failed to load progress record", err))
	}

	rc.Info("resolved daily questions",
		slog.Int("count", len(result.Questions)),
		slog.Bool("force_refresh", forceRefresh),
		slog.Int64(observability.LogFieldDuration, rc.DurationMs()),
	)

	// The selection is per-user and time-sensitive, so disable shared and
	// client caching outright.
	header := c.Response().Header()
	header.Set("Cache-Control", "no-cache, no-store, must-revalidate")
	header.Set("Pragma", "no-cache")
	header.Set("Expires", "0")

	return c.JSON(http.StatusOK, &dailyQuestionsResponse{
		Success:        true,
		DailyQuestions: toQuestionResponses(result.Questions, record),
		RefreshedAt:    result.RefreshedAt,
	})
}
