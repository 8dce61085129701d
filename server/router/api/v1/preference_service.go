package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	apierrors "github.com/grindlist/grindlist/server/internal/errors"
	"github.com/grindlist/grindlist/store"
)

type userPreferencesResponse struct {
	Success     bool `json:"success"`
	EasyCount   int  `json:"easyCount"`
	MediumCount int  `json:"mediumCount"`
	HardCount   int  `json:"hardCount"`
}

// GetUserPreferences handles GET /api/v1/user-preferences.
func (s *APIV1Service) GetUserPreferences(c echo.Context) error {
	ctx := c.Request().Context()
	userID, err := userIDFromContext(c)
	if err != nil {
		return s.respondError(c, err)
	}

	record, err := s.Store.GetOrCreateProgressRecord(ctx, userID)
	if err != nil {
		return s.respondError(c, apierrors.StorageFailure("failed to load progress record", err))
	}

	easy, medium, hard := record.Quotas()
	return c.JSON(http.StatusOK, &userPreferencesResponse{
		Success:     true,
		EasyCount:   easy,
		MediumCount: medium,
		HardCount:   hard,
	})
}

// updateUserPreferencesRequest uses pointers so an absent field is a shape
// error rather than a silent zero.
type updateUserPreferencesRequest struct {
	EasyCount   *int `json:"easyCount"`
	MediumCount *int `json:"mediumCount"`
	HardCount   *int `json:"hardCount"`
}

// UpdateUserPreferences handles POST /api/v1/user-preferences.
func (s *APIV1Service) UpdateUserPreferences(c echo.Context) error {
	ctx := c.Request().Context()
	userID, err := userIDFromContext(c)
	if err != nil {
		return s.respondError(c, err)
	}

	request := &updateUserPreferencesRequest{}
	if err := c.Bind(request); err != nil {
		return s.respondError(c, apierrors.InvalidArgument("malformed request body"))
	}
	if request.EasyCount == nil || request.MediumCount == nil || request.HardCount == nil {
		return s.respondError(c, apierrors.InvalidArgument("easyCount, mediumCount and hardCount are required"))
	}

	record, err := s.Store.SetQuotas(ctx, userID, *request.EasyCount, *request.MediumCount, *request.HardCount)
	if err != nil {
		if errors.Is(err, store.ErrQuotaOutOfRange) {
			return s.respondError(c, apierrors.InvalidArgument("question counts must be between 0 and 5"))
		}
		return s.respondError(c, apierrors.StorageFailure("failed to update preferences", err))
	}

	easy, medium, hard := record.Quotas()
	return c.JSON(http.StatusOK, &userPreferencesResponse{
		Success:     true,
		EasyCount:   easy,
		MediumCount: medium,
		HardCount:   hard,
	})
}
