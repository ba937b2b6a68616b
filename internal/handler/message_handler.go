package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"aiiabox/internal/auth"
	"aiiabox/internal/errors"
	"aiiabox/internal/model"
	"aiiabox/internal/service"
)

// MessageHandler handles message endpoints nested under a chat.
type MessageHandler struct {
	messageService service.MessageService
}

// NewMessageHandler creates a new message handler.
func NewMessageHandler(messageService service.MessageService) *MessageHandler {
	return &MessageHandler{messageService: messageService}
}

// CreateMessageRequest represents a message creation request.
type CreateMessageRequest struct {
	Content string `json:"content"`
	Role    string `json:"role"`
	Tokens  int    `json:"tokens"`
}

// UpdateMessageRequest represents a partial message update.
type UpdateMessageRequest struct {
	Content *string `json:"content"`
	Role    *string `json:"role"`
	Tokens  *int    `json:"tokens"`
}

// parentChatID parses the chat route parameter. A malformed id names a chat
// that cannot exist, which is rejected like any other unowned parent.
func parentChatID(c echo.Context) (uuid.UUID, *echo.HTTPError) {
	chatID, err := uuid.Parse(c.Param("chat_id"))
	if err != nil {
		httpErr := errors.MapErrorToHTTP(errors.ErrChatForbidden)
		return uuid.Nil, echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return chatID, nil
}

// List godoc
// @Summary List messages in a chat
// @Tags messages
// @Produce json
// @Security BearerAuth
// @Param chat_id path string true "Chat ID"
// @Param page query int false "Page number"
// @Param page_size query int false "Page size (max 100)"
// @Success 200 {object} PaginatedResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /chats/{chat_id}/messages/ [get]
func (h *MessageHandler) List(c echo.Context) error {
	chatID, httpErr := parentChatID(c)
	if httpErr != nil {
		return httpErr
	}

	userID := auth.CurrentUserID(c)
	page := pageFromRequest(c)

	messages, count, err := h.messageService.List(c.Request().Context(), userID, chatID, page.offset(), page.size)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, paginated(c, page, count, messages))
}

// Create godoc
// @Summary Add a message to a chat
// @Tags messages
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param chat_id path string true "Chat ID"
// @Param request body CreateMessageRequest true "Message data"
// @Success 201 {object} model.Message
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /chats/{chat_id}/messages/ [post]
func (h *MessageHandler) Create(c echo.Context) error {
	chatID, httpErr := parentChatID(c)
	if httpErr != nil {
		return httpErr
	}

	var req CreateMessageRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	userID := auth.CurrentUserID(c)
	message, err := h.messageService.Create(c.Request().Context(), userID, chatID, req.Content, model.MessageRole(req.Role), req.Tokens)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusCreated, message)
}

// Get godoc
// @Summary Get a message
// @Tags messages
// @Produce json
// @Security BearerAuth
// @Param chat_id path string true "Chat ID"
// @Param id path string true "Message ID"
// @Success 200 {object} model.Message
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /chats/{chat_id}/messages/{id}/ [get]
func (h *MessageHandler) Get(c echo.Context) error {
	chatID, httpErr := parentChatID(c)
	if httpErr != nil {
		return httpErr
	}
	messageID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return invalidUUID()
	}

	userID := auth.CurrentUserID(c)
	message, err := h.messageService.Get(c.Request().Context(), userID, chatID, messageID)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, message)
}

// Update godoc
// @Summary Update a message
// @Tags messages
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param chat_id path string true "Chat ID"
// @Param id path string true "Message ID"
// @Param request body UpdateMessageRequest true "Fields to update"
// @Success 200 {object} model.Message
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /chats/{chat_id}/messages/{id}/ [patch]
func (h *MessageHandler) Update(c echo.Context) error {
	chatID, httpErr := parentChatID(c)
	if httpErr != nil {
		return httpErr
	}
	messageID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return invalidUUID()
	}

	var req UpdateMessageRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	update := service.MessageUpdate{
		Content: req.Content,
		Tokens:  req.Tokens,
	}
	if req.Role != nil {
		role := model.MessageRole(*req.Role)
		update.Role = &role
	}

	userID := auth.CurrentUserID(c)
	message, err := h.messageService.Update(c.Request().Context(), userID, chatID, messageID, update)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, message)
}

// Delete godoc
// @Summary Delete a message
// @Tags messages
// @Security BearerAuth
// @Param chat_id path string true "Chat ID"
// @Param id path string true "Message ID"
// @Success 204
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /chats/{chat_id}/messages/{id}/ [delete]
func (h *MessageHandler) Delete(c echo.Context) error {
	chatID, httpErr := parentChatID(c)
	if httpErr != nil {
		return httpErr
	}
	messageID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return invalidUUID()
	}

	userID := auth.CurrentUserID(c)
	if err := h.messageService.Delete(c.Request().Context(), userID, chatID, messageID); err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.NoContent(http.StatusNoContent)
}
