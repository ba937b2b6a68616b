package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	apperrors "aiiabox/internal/errors"
	"aiiabox/internal/model"
)

// MockMessageRepository is a mock implementation of MessageRepository.
type MockMessageRepository struct {
	mock.Mock
}

func (m *MockMessageRepository) Create(ctx context.Context, message *model.Message) error {
	args := m.Called(ctx, message)
	return args.Error(0)
}

func (m *MockMessageRepository) Update(ctx context.Context, message *model.Message) error {
	args := m.Called(ctx, message)
	return args.Error(0)
}

func (m *MockMessageRepository) FindInChat(ctx context.Context, id, chatID uuid.UUID) (*model.Message, error) {
	args := m.Called(ctx, id, chatID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Message), args.Error(1)
}

func (m *MockMessageRepository) ListByChat(ctx context.Context, chatID uuid.UUID, offset, limit int) ([]model.Message, error) {
	args := m.Called(ctx, chatID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Message), args.Error(1)
}

func (m *MockMessageRepository) CountByChat(ctx context.Context, chatID uuid.UUID) (int64, error) {
	args := m.Called(ctx, chatID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockMessageRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func TestMessageService_Create(t *testing.T) {
	chatID := uuid.New()

	tests := []struct {
		name          string
		content       string
		role          model.MessageRole
		tokens        int
		owned         bool
		expectedError error
	}{
		{
			name:    "successful create",
			content: "Hello there",
			role:    model.RoleUser,
			tokens:  3,
			owned:   true,
		},
		{
			name:          "parent chat not owned",
			content:       "Hello there",
			role:          model.RoleUser,
			tokens:        3,
			owned:         false,
			expectedError: apperrors.ErrChatForbidden,
		},
		{
			name:          "blank content",
			content:       "   ",
			role:          model.RoleUser,
			tokens:        3,
			owned:         true,
			expectedError: apperrors.ErrContentRequired,
		},
		{
			name:          "invalid role",
			content:       "Hello there",
			role:          model.MessageRole("moderator"),
			tokens:        3,
			owned:         true,
			expectedError: apperrors.ErrInvalidRole,
		},
		{
			name:          "negative tokens",
			content:       "Hello there",
			role:          model.RoleAssistant,
			tokens:        -1,
			owned:         true,
			expectedError: apperrors.ErrNegativeTokens,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockChatRepo := new(MockChatRepository)
			mockMessageRepo := new(MockMessageRepository)
			mockChatRepo.On("OwnedExists", mock.Anything, chatID, uint(5)).Return(tt.owned, nil)
			if tt.expectedError == nil {
				mockMessageRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.Message")).Return(nil)
			}

			service := NewMessageService(mockChatRepo, mockMessageRepo)
			message, err := service.Create(context.Background(), 5, chatID, tt.content, tt.role, tt.tokens)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, message)
				mockMessageRepo.AssertNotCalled(t, "Create")
			} else {
				assert.NoError(t, err)
				assert.Equal(t, chatID, message.ChatID)
				assert.Equal(t, uint(5), message.UserID)
				assert.Equal(t, "Hello there", message.Content)
				mockMessageRepo.AssertExpectations(t)
			}
		})
	}
}

func TestMessageService_Get(t *testing.T) {
	chatID := uuid.New()
	messageID := uuid.New()

	t.Run("nonexistent parent chat is forbidden, not missing", func(t *testing.T) {
		mockChatRepo := new(MockChatRepository)
		mockMessageRepo := new(MockMessageRepository)
		mockChatRepo.On("OwnedExists", mock.Anything, chatID, uint(5)).Return(false, nil)

		service := NewMessageService(mockChatRepo, mockMessageRepo)
		message, err := service.Get(context.Background(), 5, chatID, messageID)

		assert.ErrorIs(t, err, apperrors.ErrChatForbidden)
		assert.Nil(t, message)
		mockMessageRepo.AssertNotCalled(t, "FindInChat")
	})

	t.Run("message missing from owned chat", func(t *testing.T) {
		mockChatRepo := new(MockChatRepository)
		mockMessageRepo := new(MockMessageRepository)
		mockChatRepo.On("OwnedExists", mock.Anything, chatID, uint(5)).Return(true, nil)
		mockMessageRepo.On("FindInChat", mock.Anything, messageID, chatID).Return(nil, gorm.ErrRecordNotFound)

		service := NewMessageService(mockChatRepo, mockMessageRepo)
		message, err := service.Get(context.Background(), 5, chatID, messageID)

		assert.ErrorIs(t, err, apperrors.ErrMessageNotFound)
		assert.Nil(t, message)
	})

	t.Run("message in owned chat", func(t *testing.T) {
		mockChatRepo := new(MockChatRepository)
		mockMessageRepo := new(MockMessageRepository)
		mockChatRepo.On("OwnedExists", mock.Anything, chatID, uint(5)).Return(true, nil)
		mockMessageRepo.On("FindInChat", mock.Anything, messageID, chatID).Return(&model.Message{
			ID:     messageID,
			ChatID: chatID,
			UserID: 5,
		}, nil)

		service := NewMessageService(mockChatRepo, mockMessageRepo)
		message, err := service.Get(context.Background(), 5, chatID, messageID)

		assert.NoError(t, err)
		assert.Equal(t, messageID, message.ID)
	})
}

func TestMessageService_Update(t *testing.T) {
	chatID := uuid.New()
	messageID := uuid.New()

	t.Run("partial update of content only", func(t *testing.T) {
		mockChatRepo := new(MockChatRepository)
		mockMessageRepo := new(MockMessageRepository)
		mockChatRepo.On("OwnedExists", mock.Anything, chatID, uint(5)).Return(true, nil)
		mockMessageRepo.On("FindInChat", mock.Anything, messageID, chatID).Return(&model.Message{
			ID:      messageID,
			ChatID:  chatID,
			UserID:  5,
			Content: "old",
			Role:    model.RoleAssistant,
			Tokens:  12,
		}, nil)
		mockMessageRepo.On("Update", mock.Anything, mock.AnythingOfType("*model.Message")).Return(nil)

		content := "  new content  "
		service := NewMessageService(mockChatRepo, mockMessageRepo)
		message, err := service.Update(context.Background(), 5, chatID, messageID, MessageUpdate{Content: &content})

		assert.NoError(t, err)
		assert.Equal(t, "new content", message.Content)
		assert.Equal(t, model.RoleAssistant, message.Role)
		assert.Equal(t, 12, message.Tokens)
		mockMessageRepo.AssertExpectations(t)
	})

	t.Run("invalid role aborts before persisting", func(t *testing.T) {
		mockChatRepo := new(MockChatRepository)
		mockMessageRepo := new(MockMessageRepository)
		mockChatRepo.On("OwnedExists", mock.Anything, chatID, uint(5)).Return(true, nil)
		mockMessageRepo.On("FindInChat", mock.Anything, messageID, chatID).Return(&model.Message{
			ID:     messageID,
			ChatID: chatID,
			UserID: 5,
			Role:   model.RoleUser,
		}, nil)

		badRole := model.MessageRole("bot")
		service := NewMessageService(mockChatRepo, mockMessageRepo)
		message, err := service.Update(context.Background(), 5, chatID, messageID, MessageUpdate{Role: &badRole})

		assert.ErrorIs(t, err, apperrors.ErrInvalidRole)
		assert.Nil(t, message)
		mockMessageRepo.AssertNotCalled(t, "Update")
	})
}

func TestMessageService_Delete(t *testing.T) {
	chatID := uuid.New()
	messageID := uuid.New()

	mockChatRepo := new(MockChatRepository)
	mockMessageRepo := new(MockMessageRepository)
	mockChatRepo.On("OwnedExists", mock.Anything, chatID, uint(5)).Return(true, nil)
	mockMessageRepo.On("FindInChat", mock.Anything, messageID, chatID).Return(&model.Message{
		ID:     messageID,
		ChatID: chatID,
		UserID: 5,
	}, nil)
	mockMessageRepo.On("Delete", mock.Anything, messageID).Return(nil)

	service := NewMessageService(mockChatRepo, mockMessageRepo)
	err := service.Delete(context.Background(), 5, chatID, messageID)

	assert.NoError(t, err)
	mockMessageRepo.AssertExpectations(t)
}

func TestMessageService_List(t *testing.T) {
	chatID := uuid.New()

	mockChatRepo := new(MockChatRepository)
	mockMessageRepo := new(MockMessageRepository)
	mockChatRepo.On("OwnedExists", mock.Anything, chatID, uint(5)).Return(true, nil)
	mockMessageRepo.On("CountByChat", mock.Anything, chatID).Return(int64(2), nil)
	mockMessageRepo.On("ListByChat", mock.Anything, chatID, 0, 20).Return([]model.Message{
		{ChatID: chatID, Content: "first"},
		{ChatID: chatID, Content: "second"},
	}, nil)

	service := NewMessageService(mockChatRepo, mockMessageRepo)
	messages, count, err := service.List(context.Background(), 5, chatID, 0, 20)

	assert.NoError(t, err)
	assert.Equal(t, int64(2), count)
	assert.Len(t, messages, 2)
}
