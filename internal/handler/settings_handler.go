package handler

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/datatypes"

	"aiiabox/internal/auth"
	"aiiabox/internal/errors"
	"aiiabox/internal/model"
	"aiiabox/internal/service"
)

// SettingsHandler handles the current user's settings endpoints.
type SettingsHandler struct {
	settingsService service.SettingsService
}

// NewSettingsHandler creates a new settings handler.
func NewSettingsHandler(settingsService service.SettingsService) *SettingsHandler {
	return &SettingsHandler{settingsService: settingsService}
}

// UpdateSettingsRequest represents a partial settings update. DefaultProject
// is raw JSON so an explicit null (clear) can be told apart from an absent
// field.
type UpdateSettingsRequest struct {
	Theme          *string         `json:"theme"`
	LLMPreferences datatypes.JSON  `json:"llm_preferences"`
	DefaultProject json.RawMessage `json:"default_project"`
}

// Get godoc
// @Summary Get the current user's settings
// @Tags settings
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.Settings
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /settings/ [get]
func (h *SettingsHandler) Get(c echo.Context) error {
	userID := auth.CurrentUserID(c)
	settings, err := h.settingsService.Get(c.Request().Context(), userID)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, settings)
}

// Update godoc
// @Summary Update the current user's settings
// @Tags settings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body UpdateSettingsRequest true "Fields to update"
// @Success 200 {object} model.Settings
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /settings/ [put]
func (h *SettingsHandler) Update(c echo.Context) error {
	var req UpdateSettingsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	update := service.SettingsUpdate{
		LLMPreferences: req.LLMPreferences,
	}
	if req.Theme != nil {
		theme := model.Theme(*req.Theme)
		update.Theme = &theme
	}
	if len(req.DefaultProject) > 0 {
		if bytes.Equal(bytes.TrimSpace(req.DefaultProject), []byte("null")) {
			update.ClearDefaultProject = true
		} else {
			var projectID uint
			if err := json.Unmarshal(req.DefaultProject, &projectID); err != nil {
				return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
					Error: "default_project must be a project id or null",
					Code:  "INVALID_PROJECT",
					Field: "default_project",
				})
			}
			update.DefaultProjectID = &projectID
		}
	}

	userID := auth.CurrentUserID(c)
	settings, err := h.settingsService.Update(c.Request().Context(), userID, update)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, settings)
}
