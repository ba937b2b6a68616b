package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"aiiabox/internal/model"
)

// MessageRepository defines message persistence operations. Queries are scoped
// to the parent chat; ownership of that chat is established by the caller
// before any of these run.
type MessageRepository interface {
	Create(ctx context.Context, message *model.Message) error
	Update(ctx context.Context, message *model.Message) error
	FindInChat(ctx context.Context, id, chatID uuid.UUID) (*model.Message, error)
	ListByChat(ctx context.Context, chatID uuid.UUID, offset, limit int) ([]model.Message, error)
	CountByChat(ctx context.Context, chatID uuid.UUID) (int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type messageRepository struct {
	db *gorm.DB
}

// NewMessageRepository builds a GORM-backed repository.
func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) Create(ctx context.Context, message *model.Message) error {
	return r.db.WithContext(ctx).Create(message).Error
}

func (r *messageRepository) Update(ctx context.Context, message *model.Message) error {
	return r.db.WithContext(ctx).Save(message).Error
}

func (r *messageRepository) FindInChat(ctx context.Context, id, chatID uuid.UUID) (*model.Message, error) {
	var message model.Message
	if err := r.db.WithContext(ctx).
		Where("id = ? AND chat_id = ?", id, chatID).
		First(&message).Error; err != nil {
		return nil, err
	}
	return &message, nil
}

// ListByChat returns a page of the chat's messages in conversation order.
func (r *messageRepository) ListByChat(ctx context.Context, chatID uuid.UUID, offset, limit int) ([]model.Message, error) {
	var messages []model.Message
	if err := r.db.WithContext(ctx).
		Where("chat_id = ?", chatID).
		Order("created_at ASC").
		Offset(offset).Limit(limit).
		Find(&messages).Error; err != nil {
		return nil, err
	}
	return messages, nil
}

func (r *messageRepository) CountByChat(ctx context.Context, chatID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Message{}).
		Where("chat_id = ?", chatID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *messageRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Message{}, "id = ?", id).Error
}
