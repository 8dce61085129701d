// Package v1 exposes the engine's REST API.
package v1

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/grindlist/grindlist/internal/profile"
	apierrors "github.com/grindlist/grindlist/server/internal/errors"
	"github.com/grindlist/grindlist/server/internal/observability"
	"github.com/grindlist/grindlist/server/middleware"
	"github.com/grindlist/grindlist/server/service/daily"
	"github.com/grindlist/grindlist/store"
)

type APIV1Service struct {
	Secret       string
	Profile      *profile.Profile
	Store        *store.Store
	DailyService daily.Service

	refreshLimiter *middleware.RefreshRateLimiter
}

func NewAPIV1Service(secret string, profile *profile.Profile, store *store.Store) *APIV1Service {
	return &APIV1Service{
		Secret:       secret,
		Profile:      profile,
		Store:        store,
		DailyService: daily.NewService(store),
		// One forced refresh per 5s, small burst for double-clicks.
		refreshLimiter: middleware.NewRefreshRateLimiter(5*time.Second, 3),
	}
}

// RegisterRoutes registers all API routes on the given echo instance.
func (s *APIV1Service) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api/v1", s.AuthMiddleware)
	g.GET("/daily-questions", s.GetDailyQuestions)
	g.GET("/user-progress", s.GetUserProgress)
	g.GET("/user-preferences", s.GetUserPreferences)
	g.POST("/user-preferences", s.UpdateUserPreferences)
	g.POST("/questions/batch-operations", s.BatchOperations)
	g.POST("/questions/import", s.ImportQuestions)
}

// questionResponse is the wire shape of a question, including the caller's
// progress flags.
type questionResponse struct {
	ID         string `json:"id"`
	QuestionID string `json:"questionId,omitempty"`
	Title      string `json:"title"`
	Link       string `json:"link"`
	Difficulty string `json:"difficulty"`
	Starred    bool   `json:"starred"`
	Completed  bool   `json:"completed"`
}

func toQuestionResponses(questions []*store.Question, record *store.ProgressRecord) []*questionResponse {
	starred := make(map[string]bool, len(record.StarredQuestionIDs))
	for _, id := range record.StarredQuestionIDs {
		starred[id] = true
	}
	completed := make(map[string]bool, len(record.CompletedQuestionIDs))
	for _, id := range record.CompletedQuestionIDs {
		completed[id] = true
	}

	list := make([]*questionResponse, 0, len(questions))
	for _, q := range questions {
		list = append(list, &questionResponse{
			ID:         q.ID,
			QuestionID: q.QuestionID,
			Title:      q.Title,
			Link:       q.Link,
			Difficulty: string(q.Difficulty),
			Starred:    starred[q.ID],
			Completed:  completed[q.ID],
		})
	}
	return list
}

type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

var statusByCode = map[apierrors.ErrorCode]int{
	apierrors.ErrCodeUnauthorized:         http.StatusUnauthorized,
	apierrors.ErrCodeInvalidArgument:      http.StatusBadRequest,
	apierrors.ErrCodeNoQuestionsAvailable: http.StatusNotFound,
	apierrors.ErrCodeStorageFailure:       http.StatusInternalServerError,
	apierrors.ErrCodeRateLimitExceeded:    http.StatusTooManyRequests,
}

var messageByCode = map[apierrors.ErrorCode]string{
	apierrors.ErrCodeUnauthorized:         "Unauthorized",
	apierrors.ErrCodeInvalidArgument:      "Invalid request",
	apierrors.ErrCodeNoQuestionsAvailable: "No questions available",
	apierrors.ErrCodeStorageFailure:       "Internal server error",
	apierrors.ErrCodeRateLimitExceeded:    "Too many refresh requests",
}

// respondError maps an engine error to its HTTP status. Internal detail is
// only exposed outside prod mode.
func (s *APIV1Service) respondError(c echo.Context, err error) error {
	code := apierrors.CodeOf(err)
	status, ok := statusByCode[code]
	if !ok {
		status = http.StatusInternalServerError
	}

	if status >= http.StatusInternalServerError {
		slog.Error("request failed",
			slog.String("path", c.Path()),
			slog.String(observability.LogFieldErrorCode, string(code)),
			slog.String("error", err.Error()),
		)
	}

	resp := &errorResponse{Error: messageByCode[code]}
	if s.Profile.IsDev() {
		resp.Details = err.Error()
	}
	return c.JSON(status, resp)
}
