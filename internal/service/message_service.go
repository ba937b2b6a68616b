package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	apperrors "aiiabox/internal/errors"
	"aiiabox/internal/model"
	"aiiabox/internal/repository"
)

// MessageUpdate carries the mutable message fields for a partial update; nil
// fields are left untouched.
type MessageUpdate struct {
	Content *string
	Role    *model.MessageRole
	Tokens  *int
}

// MessageService handles message operations nested under a chat. Every call
// first establishes that the parent chat exists and is owned by the
// requester; a nonexistent parent and another user's parent are rejected the
// same way so neither leaks existence.
type MessageService interface {
	Create(ctx context.Context, userID uint, chatID uuid.UUID, content string, role model.MessageRole, tokens int) (*model.Message, error)
	Get(ctx context.Context, userID uint, chatID, messageID uuid.UUID) (*model.Message, error)
	List(ctx context.Context, userID uint, chatID uuid.UUID, offset, limit int) ([]model.Message, int64, error)
	Update(ctx context.Context, userID uint, chatID, messageID uuid.UUID, update MessageUpdate) (*model.Message, error)
	Delete(ctx context.Context, userID uint, chatID, messageID uuid.UUID) error
}

type messageService struct {
	chatRepo    repository.ChatRepository
	messageRepo repository.MessageRepository
}

// NewMessageService creates a new message service.
func NewMessageService(chatRepo repository.ChatRepository, messageRepo repository.MessageRepository) MessageService {
	return &messageService{
		chatRepo:    chatRepo,
		messageRepo: messageRepo,
	}
}

// ValidateContent trims the content and enforces presence. The trimmed value
// is returned.
func ValidateContent(content string) (string, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return "", apperrors.ErrContentRequired
	}
	return content, nil
}

// requireOwnedChat is the parent-chat gate for every nested operation.
func (s *messageService) requireOwnedChat(ctx context.Context, userID uint, chatID uuid.UUID) error {
	owned, err := s.chatRepo.OwnedExists(ctx, chatID, userID)
	if err != nil {
		return fmt.Errorf("check chat ownership: %w", err)
	}
	if !owned {
		return apperrors.ErrChatForbidden
	}
	return nil
}

// Create appends a message to an owned chat. Both the chat and the author are
// forced server-side from the route and the authenticated user.
func (s *messageService) Create(ctx context.Context, userID uint, chatID uuid.UUID, content string, role model.MessageRole, tokens int) (*model.Message, error) {
	if err := s.requireOwnedChat(ctx, userID, chatID); err != nil {
		return nil, err
	}
	content, err := ValidateContent(content)
	if err != nil {
		return nil, err
	}
	if !role.Valid() {
		return nil, apperrors.ErrInvalidRole
	}
	if tokens < 0 {
		return nil, apperrors.ErrNegativeTokens
	}

	message := &model.Message{
		ChatID:  chatID,
		UserID:  userID,
		Content: content,
		Role:    role,
		Tokens:  tokens,
	}
	if err := s.messageRepo.Create(ctx, message); err != nil {
		return nil, fmt.Errorf("create message: %w", err)
	}
	return message, nil
}

func (s *messageService) Get(ctx context.Context, userID uint, chatID, messageID uuid.UUID) (*model.Message, error) {
	if err := s.requireOwnedChat(ctx, userID, chatID); err != nil {
		return nil, err
	}
	message, err := s.messageRepo.FindInChat(ctx, messageID, chatID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrMessageNotFound
		}
		return nil, fmt.Errorf("find message: %w", err)
	}
	return message, nil
}

// List returns a page of the chat's messages in creation order, plus the
// total count for pagination.
func (s *messageService) List(ctx context.Context, userID uint, chatID uuid.UUID, offset, limit int) ([]model.Message, int64, error) {
	if err := s.requireOwnedChat(ctx, userID, chatID); err != nil {
		return nil, 0, err
	}
	count, err := s.messageRepo.CountByChat(ctx, chatID)
	if err != nil {
		return nil, 0, fmt.Errorf("count messages: %w", err)
	}
	messages, err := s.messageRepo.ListByChat(ctx, chatID, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("list messages: %w", err)
	}
	return messages, count, nil
}

func (s *messageService) Update(ctx context.Context, userID uint, chatID, messageID uuid.UUID, update MessageUpdate) (*model.Message, error) {
	message, err := s.Get(ctx, userID, chatID, messageID)
	if err != nil {
		return nil, err
	}

	if update.Content != nil {
		content, err := ValidateContent(*update.Content)
		if err != nil {
			return nil, err
		}
		message.Content = content
	}
	if update.Role != nil {
		if !update.Role.Valid() {
			return nil, apperrors.ErrInvalidRole
		}
		message.Role = *update.Role
	}
	if update.Tokens != nil {
		if *update.Tokens < 0 {
			return nil, apperrors.ErrNegativeTokens
		}
		message.Tokens = *update.Tokens
	}

	if err := s.messageRepo.Update(ctx, message); err != nil {
		return nil, fmt.Errorf("update message: %w", err)
	}
	return message, nil
}

func (s *messageService) Delete(ctx context.Context, userID uint, chatID, messageID uuid.UUID) error {
	message, err := s.Get(ctx, userID, chatID, messageID)
	if err != nil {
		return err
	}
	if err := s.messageRepo.Delete(ctx, message.ID); err != nil {
		return fmt.Errorf("delete message: %w", err)
	}
	return nil
}
