package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"gorm.io/datatypes"

	"aiiabox/internal/auth"
	"aiiabox/internal/errors"
	"aiiabox/internal/model"
	"aiiabox/internal/service"
)

// ChatHandler handles chat endpoints.
type ChatHandler struct {
	chatService service.ChatService
}

// NewChatHandler creates a new chat handler.
func NewChatHandler(chatService service.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

// CreateChatRequest represents a chat creation request.
type CreateChatRequest struct {
	Title    string         `json:"title"`
	Metadata datatypes.JSON `json:"metadata"`
}

// UpdateChatRequest represents a partial chat update.
type UpdateChatRequest struct {
	Title    *string        `json:"title"`
	Metadata datatypes.JSON `json:"metadata"`
}

// ChatResponse represents a chat in API responses.
type ChatResponse struct {
	ID           uuid.UUID      `json:"id"`
	User         uint           `json:"user"`
	Title        string         `json:"title"`
	Metadata     datatypes.JSON `json:"metadata"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	MessageCount int64          `json:"message_count"`
}

func chatResponse(chat *model.Chat, messageCount int64) ChatResponse {
	return ChatResponse{
		ID:           chat.ID,
		User:         chat.UserID,
		Title:        chat.Title,
		Metadata:     chat.Metadata,
		CreatedAt:    chat.CreatedAt,
		UpdatedAt:    chat.UpdatedAt,
		MessageCount: messageCount,
	}
}

func (h *ChatHandler) chatResponses(c echo.Context, chats []model.Chat) ([]ChatResponse, error) {
	responses := make([]ChatResponse, 0, len(chats))
	for i := range chats {
		count, err := h.chatService.MessageCount(c.Request().Context(), chats[i].ID)
		if err != nil {
			return nil, err
		}
		responses = append(responses, chatResponse(&chats[i], count))
	}
	return responses, nil
}

// List godoc
// @Summary List the current user's chats
// @Tags chats
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Param page_size query int false "Page size (max 100)"
// @Success 200 {object} PaginatedResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /chats/ [get]
func (h *ChatHandler) List(c echo.Context) error {
	userID := auth.CurrentUserID(c)
	page := pageFromRequest(c)

	chats, count, err := h.chatService.List(c.Request().Context(), userID, page.offset(), page.size)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	results, err := h.chatResponses(c, chats)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, paginated(c, page, count, results))
}

// Create godoc
// @Summary Create a chat
// @Tags chats
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateChatRequest true "Chat data"
// @Success 201 {object} ChatResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /chats/ [post]
func (h *ChatHandler) Create(c echo.Context) error {
	var req CreateChatRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	userID := auth.CurrentUserID(c)
	chat, err := h.chatService.Create(c.Request().Context(), userID, req.Title, req.Metadata)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusCreated, chatResponse(chat, 0))
}

// Get godoc
// @Summary Get a chat
// @Tags chats
// @Produce json
// @Security BearerAuth
// @Param id path string true "Chat ID"
// @Success 200 {object} ChatResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /chats/{id}/ [get]
func (h *ChatHandler) Get(c echo.Context) error {
	chatID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return invalidUUID()
	}

	userID := auth.CurrentUserID(c)
	chat, err := h.chatService.Get(c.Request().Context(), userID, chatID)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	count, err := h.chatService.MessageCount(c.Request().Context(), chatID)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, chatResponse(chat, count))
}

// Update godoc
// @Summary Update a chat
// @Tags chats
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Chat ID"
// @Param request body UpdateChatRequest true "Fields to update"
// @Success 200 {object} ChatResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /chats/{id}/ [patch]
func (h *ChatHandler) Update(c echo.Context) error {
	chatID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return invalidUUID()
	}

	var req UpdateChatRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	userID := auth.CurrentUserID(c)
	chat, err := h.chatService.Update(c.Request().Context(), userID, chatID, service.ChatUpdate{
		Title:    req.Title,
		Metadata: req.Metadata,
	})
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	count, err := h.chatService.MessageCount(c.Request().Context(), chatID)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, chatResponse(chat, count))
}

// Delete godoc
// @Summary Delete a chat and its messages
// @Tags chats
// @Security BearerAuth
// @Param id path string true "Chat ID"
// @Success 204
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /chats/{id}/ [delete]
func (h *ChatHandler) Delete(c echo.Context) error {
	chatID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return invalidUUID()
	}

	userID := auth.CurrentUserID(c)
	if err := h.chatService.Delete(c.Request().Context(), userID, chatID); err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.NoContent(http.StatusNoContent)
}

func invalidUUID() *echo.HTTPError {
	return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
		Error: "invalid id",
		Code:  "INVALID_UUID",
	})
}
