package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"aiiabox/internal/model"
)

// ChatRepository defines chat persistence operations. Every query takes the
// owner so records belonging to other users are invisible at this layer.
type ChatRepository interface {
	Create(ctx context.Context, chat *model.Chat) error
	Update(ctx context.Context, chat *model.Chat) error
	FindOwned(ctx context.Context, id uuid.UUID, userID uint) (*model.Chat, error)
	OwnedExists(ctx context.Context, id uuid.UUID, userID uint) (bool, error)
	ListOwned(ctx context.Context, userID uint, offset, limit int) ([]model.Chat, error)
	CountOwned(ctx context.Context, userID uint) (int64, error)
	CountMessages(ctx context.Context, chatID uuid.UUID) (int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type chatRepository struct {
	db *gorm.DB
}

// NewChatRepository builds a GORM-backed repository.
func NewChatRepository(db *gorm.DB) ChatRepository {
	return &chatRepository{db: db}
}

func (r *chatRepository) Create(ctx context.Context, chat *model.Chat) error {
	return r.db.WithContext(ctx).Create(chat).Error
}

func (r *chatRepository) Update(ctx context.Context, chat *model.Chat) error {
	return r.db.WithContext(ctx).Save(chat).Error
}

func (r *chatRepository) FindOwned(ctx context.Context, id uuid.UUID, userID uint) (*model.Chat, error) {
	var chat model.Chat
	if err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&chat).Error; err != nil {
		return nil, err
	}
	return &chat, nil
}

func (r *chatRepository) OwnedExists(ctx context.Context, id uuid.UUID, userID uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Chat{}).
		Where("id = ? AND user_id = ?", id, userID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListOwned returns a page of the user's chats, most recently updated first.
func (r *chatRepository) ListOwned(ctx context.Context, userID uint, offset, limit int) ([]model.Chat, error) {
	var chats []model.Chat
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("updated_at DESC").
		Offset(offset).Limit(limit).
		Find(&chats).Error; err != nil {
		return nil, err
	}
	return chats, nil
}

func (r *chatRepository) CountOwned(ctx context.Context, userID uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Chat{}).
		Where("user_id = ?", userID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *chatRepository) CountMessages(ctx context.Context, chatID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Message{}).
		Where("chat_id = ?", chatID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Delete removes the chat and all its messages in one transaction.
func (r *chatRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("chat_id = ?", id).Delete(&model.Message{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Chat{}, "id = ?", id).Error
	})
}
