package web

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	apperrors "aiiabox/internal/errors"
)

func parseChatID(c echo.Context) (uuid.UUID, error) {
	return uuid.Parse(c.Param("id"))
}

// pageError maps service errors to page responses: ownership failures become
// a plain 404, anything else a 500.
func pageError(err error) *echo.HTTPError {
	switch {
	case errors.Is(err, apperrors.ErrChatNotFound),
		errors.Is(err, apperrors.ErrMessageNotFound),
		errors.Is(err, apperrors.ErrChatForbidden):
		return echo.NewHTTPError(http.StatusNotFound)
	default:
		return echo.NewHTTPError(http.StatusInternalServerError)
	}
}
