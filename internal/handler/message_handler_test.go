package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "aiiabox/internal/errors"
	"aiiabox/internal/model"
	"aiiabox/internal/service"
)

// MockMessageService is a mock implementation of service.MessageService.
type MockMessageService struct {
	mock.Mock
}

func (m *MockMessageService) Create(ctx context.Context, userID uint, chatID uuid.UUID, content string, role model.MessageRole, tokens int) (*model.Message, error) {
	args := m.Called(ctx, userID, chatID, content, role, tokens)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Message), args.Error(1)
}

func (m *MockMessageService) Get(ctx context.Context, userID uint, chatID, messageID uuid.UUID) (*model.Message, error) {
	args := m.Called(ctx, userID, chatID, messageID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Message), args.Error(1)
}

func (m *MockMessageService) List(ctx context.Context, userID uint, chatID uuid.UUID, offset, limit int) ([]model.Message, int64, error) {
	args := m.Called(ctx, userID, chatID, offset, limit)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]model.Message), args.Get(1).(int64), args.Error(2)
}

func (m *MockMessageService) Update(ctx context.Context, userID uint, chatID, messageID uuid.UUID, update service.MessageUpdate) (*model.Message, error) {
	args := m.Called(ctx, userID, chatID, messageID, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Message), args.Error(1)
}

func (m *MockMessageService) Delete(ctx context.Context, userID uint, chatID, messageID uuid.UUID) error {
	args := m.Called(ctx, userID, chatID, messageID)
	return args.Error(0)
}

func TestMessageHandler_Create(t *testing.T) {
	chatID := uuid.New()

	t.Run("201 with the created message", func(t *testing.T) {
		mockService := new(MockMessageService)
		messageID := uuid.New()
		mockService.On("Create", mock.Anything, uint(5), chatID, "Hello", model.RoleUser, 3).Return(&model.Message{
			ID:      messageID,
			ChatID:  chatID,
			UserID:  5,
			Content: "Hello",
			Role:    model.RoleUser,
			Tokens:  3,
		}, nil)

		c, rec := request(http.MethodPost, "/api/chats/"+chatID.String()+"/messages/", `{"content":"Hello","role":"user","tokens":3}`, 5)
		c.SetParamNames("chat_id")
		c.SetParamValues(chatID.String())

		handler := NewMessageHandler(mockService)
		require.NoError(t, handler.Create(c))
		assert.Equal(t, http.StatusCreated, rec.Code)

		var resp model.Message
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, messageID, resp.ID)
		assert.Equal(t, model.RoleUser, resp.Role)
	})

	t.Run("403 when the parent chat is not owned", func(t *testing.T) {
		mockService := new(MockMessageService)
		mockService.On("Create", mock.Anything, uint(5), chatID, "Hello", model.RoleUser, 0).Return(nil, apperrors.ErrChatForbidden)

		c, _ := request(http.MethodPost, "/api/chats/"+chatID.String()+"/messages/", `{"content":"Hello","role":"user"}`, 5)
		c.SetParamNames("chat_id")
		c.SetParamValues(chatID.String())

		handler := NewMessageHandler(mockService)
		err := handler.Create(c)
		assert.Equal(t, http.StatusForbidden, httpStatus(t, err, nil))
		assert.Equal(t, "CHAT_FORBIDDEN", errorCode(t, err))
	})

	t.Run("403 for a malformed parent chat id", func(t *testing.T) {
		mockService := new(MockMessageService)

		c, _ := request(http.MethodPost, "/api/chats/not-a-uuid/messages/", `{"content":"Hello","role":"user"}`, 5)
		c.SetParamNames("chat_id")
		c.SetParamValues("not-a-uuid")

		handler := NewMessageHandler(mockService)
		err := handler.Create(c)
		assert.Equal(t, http.StatusForbidden, httpStatus(t, err, nil))
		assert.Equal(t, "CHAT_FORBIDDEN", errorCode(t, err))
		mockService.AssertNotCalled(t, "Create")
	})

	t.Run("400 on invalid role", func(t *testing.T) {
		mockService := new(MockMessageService)
		mockService.On("Create", mock.Anything, uint(5), chatID, "Hello", model.MessageRole("bot"), 0).Return(nil, apperrors.ErrInvalidRole)

		c, _ := request(http.MethodPost, "/api/chats/"+chatID.String()+"/messages/", `{"content":"Hello","role":"bot"}`, 5)
		c.SetParamNames("chat_id")
		c.SetParamValues(chatID.String())

		handler := NewMessageHandler(mockService)
		err := handler.Create(c)
		assert.Equal(t, http.StatusBadRequest, httpStatus(t, err, nil))
		assert.Equal(t, "INVALID_ROLE", errorCode(t, err))
	})
}

func TestMessageHandler_Get(t *testing.T) {
	chatID := uuid.New()
	messageID := uuid.New()

	t.Run("404 for a missing message in an owned chat", func(t *testing.T) {
		mockService := new(MockMessageService)
		mockService.On("Get", mock.Anything, uint(5), chatID, messageID).Return(nil, apperrors.ErrMessageNotFound)

		c, _ := request(http.MethodGet, "/api/chats/"+chatID.String()+"/messages/"+messageID.String()+"/", "", 5)
		c.SetParamNames("chat_id", "id")
		c.SetParamValues(chatID.String(), messageID.String())

		handler := NewMessageHandler(mockService)
		err := handler.Get(c)
		assert.Equal(t, http.StatusNotFound, httpStatus(t, err, nil))
		assert.Equal(t, "MESSAGE_NOT_FOUND", errorCode(t, err))
	})

	t.Run("200 for a message in an owned chat", func(t *testing.T) {
		mockService := new(MockMessageService)
		mockService.On("Get", mock.Anything, uint(5), chatID, messageID).Return(&model.Message{
			ID: messageID, ChatID: chatID, UserID: 5, Content: "hi", Role: model.RoleUser,
		}, nil)

		c, rec := request(http.MethodGet, "/api/chats/"+chatID.String()+"/messages/"+messageID.String()+"/", "", 5)
		c.SetParamNames("chat_id", "id")
		c.SetParamValues(chatID.String(), messageID.String())

		handler := NewMessageHandler(mockService)
		require.NoError(t, handler.Get(c))
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestMessageHandler_List(t *testing.T) {
	chatID := uuid.New()

	mockService := new(MockMessageService)
	mockService.On("List", mock.Anything, uint(5), chatID, 0, 20).Return([]model.Message{
		{ChatID: chatID, Content: "first", Role: model.RoleUser},
		{ChatID: chatID, Content: "second", Role: model.RoleAssistant},
	}, int64(2), nil)

	c, rec := request(http.MethodGet, "/api/chats/"+chatID.String()+"/messages/", "", 5)
	c.SetParamNames("chat_id")
	c.SetParamValues(chatID.String())

	handler := NewMessageHandler(mockService)
	require.NoError(t, handler.List(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Count   int64           `json:"count"`
		Results []model.Message `json:"results"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int64(2), resp.Count)
	require.Len(t, resp.Results, 2)
	assert.Equal(t, "first", resp.Results[0].Content)
}

func TestMessageHandler_Delete(t *testing.T) {
	chatID := uuid.New()
	messageID := uuid.New()

	mockService := new(MockMessageService)
	mockService.On("Delete", mock.Anything, uint(5), chatID, messageID).Return(nil)

	c, rec := request(http.MethodDelete, "/api/chats/"+chatID.String()+"/messages/"+messageID.String()+"/", "", 5)
	c.SetParamNames("chat_id", "id")
	c.SetParamValues(chatID.String(), messageID.String())

	handler := NewMessageHandler(mockService)
	require.NoError(t, handler.Delete(c))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}
