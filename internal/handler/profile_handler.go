package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/datatypes"

	"aiiabox/internal/auth"
	"aiiabox/internal/errors"
	"aiiabox/internal/service"
)

// ProfileHandler handles the current user's profile endpoints.
type ProfileHandler struct {
	profileService service.ProfileService
}

// NewProfileHandler creates a new profile handler.
func NewProfileHandler(profileService service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

// UpdateProfileRequest represents a partial profile update.
type UpdateProfileRequest struct {
	Bio         *string        `json:"bio"`
	Preferences datatypes.JSON `json:"preferences"`
}

// Get godoc
// @Summary Get the current user's profile
// @Tags profile
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.Profile
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /profile/ [get]
func (h *ProfileHandler) Get(c echo.Context) error {
	userID := auth.CurrentUserID(c)
	profile, err := h.profileService.Get(c.Request().Context(), userID)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, profile)
}

// Update godoc
// @Summary Update the current user's profile
// @Tags profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body UpdateProfileRequest true "Fields to update"
// @Success 200 {object} model.Profile
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /profile/ [put]
func (h *ProfileHandler) Update(c echo.Context) error {
	var req UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	userID := auth.CurrentUserID(c)
	profile, err := h.profileService.Update(c.Request().Context(), userID, service.ProfileUpdate{
		Bio:         req.Bio,
		Preferences: req.Preferences,
	})
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, profile)
}

// UploadAvatar godoc
// @Summary Upload the current user's avatar
// @Tags profile
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param avatar formData file true "Avatar image"
// @Success 200 {object} model.Profile
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 503 {object} errors.ErrorResponse
// @Router /profile/avatar/ [post]
func (h *ProfileHandler) UploadAvatar(c echo.Context) error {
	file, err := c.FormFile("avatar")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "avatar file is required",
			Code:  "AVATAR_REQUIRED",
			Field: "avatar",
		})
	}

	src, err := file.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "cannot read avatar file",
			Code:  "AVATAR_UNREADABLE",
			Field: "avatar",
		})
	}
	defer src.Close()

	userID := auth.CurrentUserID(c)
	profile, err := h.profileService.UploadAvatar(
		c.Request().Context(),
		userID,
		file.Filename,
		file.Header.Get(echo.HeaderContentType),
		file.Size,
		src,
	)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, profile)
}
