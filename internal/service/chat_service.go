package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	apperrors "aiiabox/internal/errors"
	"aiiabox/internal/model"
	"aiiabox/internal/repository"
)

// ChatUpdate carries the mutable chat fields for a partial update; nil fields
// are left untouched.
type ChatUpdate struct {
	Title    *string
	Metadata datatypes.JSON
}

// ChatService handles chat operations scoped to the requesting user. Lookups
// for chats that exist but belong to someone else fail exactly like lookups
// for chats that do not exist.
type ChatService interface {
	Create(ctx context.Context, userID uint, title string, metadata datatypes.JSON) (*model.Chat, error)
	Get(ctx context.Context, userID uint, chatID uuid.UUID) (*model.Chat, error)
	List(ctx context.Context, userID uint, offset, limit int) ([]model.Chat, int64, error)
	Update(ctx context.Context, userID uint, chatID uuid.UUID, update ChatUpdate) (*model.Chat, error)
	Delete(ctx context.Context, userID uint, chatID uuid.UUID) error
	MessageCount(ctx context.Context, chatID uuid.UUID) (int64, error)
}

type chatService struct {
	chatRepo repository.ChatRepository
}

// NewChatService creates a new chat service.
func NewChatService(chatRepo repository.ChatRepository) ChatService {
	return &chatService{chatRepo: chatRepo}
}

// ValidateTitle trims the title and enforces presence and length. The trimmed
// value is returned.
func ValidateTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", apperrors.ErrTitleRequired
	}
	if len(title) > model.MaxTitleLength {
		return "", apperrors.ErrTitleTooLong
	}
	return title, nil
}

// Create stores a new chat for the user. The owner is always the requester,
// never taken from input.
func (s *chatService) Create(ctx context.Context, userID uint, title string, metadata datatypes.JSON) (*model.Chat, error) {
	title, err := ValidateTitle(title)
	if err != nil {
		return nil, err
	}

	chat := &model.Chat{
		UserID:   userID,
		Title:    title,
		Metadata: metadata,
	}
	if err := s.chatRepo.Create(ctx, chat); err != nil {
		return nil, fmt.Errorf("create chat: %w", err)
	}
	return chat, nil
}

func (s *chatService) Get(ctx context.Context, userID uint, chatID uuid.UUID) (*model.Chat, error) {
	chat, err := s.chatRepo.FindOwned(ctx, chatID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrChatNotFound
		}
		return nil, fmt.Errorf("find chat: %w", err)
	}
	return chat, nil
}

// List returns a page of the user's chats, newest-updated first, plus the
// total count for pagination.
func (s *chatService) List(ctx context.Context, userID uint, offset, limit int) ([]model.Chat, int64, error) {
	count, err := s.chatRepo.CountOwned(ctx, userID)
	if err != nil {
		return nil, 0, fmt.Errorf("count chats: %w", err)
	}
	chats, err := s.chatRepo.ListOwned(ctx, userID, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("list chats: %w", err)
	}
	return chats, count, nil
}

func (s *chatService) Update(ctx context.Context, userID uint, chatID uuid.UUID, update ChatUpdate) (*model.Chat, error) {
	chat, err := s.Get(ctx, userID, chatID)
	if err != nil {
		return nil, err
	}

	if update.Title != nil {
		title, err := ValidateTitle(*update.Title)
		if err != nil {
			return nil, err
		}
		chat.Title = title
	}
	if update.Metadata != nil {
		chat.Metadata = update.Metadata
	}

	if err := s.chatRepo.Update(ctx, chat); err != nil {
		return nil, fmt.Errorf("update chat: %w", err)
	}
	return chat, nil
}

// Delete removes the chat and cascades to its messages. Ownership is resolved
// before anything is deleted.
func (s *chatService) Delete(ctx context.Context, userID uint, chatID uuid.UUID) error {
	if _, err := s.Get(ctx, userID, chatID); err != nil {
		return err
	}
	if err := s.chatRepo.Delete(ctx, chatID); err != nil {
		return fmt.Errorf("delete chat: %w", err)
	}
	return nil
}

func (s *chatService) MessageCount(ctx context.Context, chatID uuid.UUID) (int64, error) {
	return s.chatRepo.CountMessages(ctx, chatID)
}
