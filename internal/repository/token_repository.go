package repository

import (
	"context"

	"gorm.io/gorm"

	"aiiabox/internal/model"
)

// TokenRepository defines API token persistence operations.
type TokenRepository interface {
	Create(ctx context.Context, token *model.APIToken) error
	FindByKey(ctx context.Context, key string) (*model.APIToken, error)
	FindByUser(ctx context.Context, userID uint) (*model.APIToken, error)
	DeleteByUser(ctx context.Context, userID uint) error
}

type tokenRepository struct {
	db *gorm.DB
}

// NewTokenRepository builds a GORM-backed repository.
func NewTokenRepository(db *gorm.DB) TokenRepository {
	return &tokenRepository{db: db}
}

func (r *tokenRepository) Create(ctx context.Context, token *model.APIToken) error {
	return r.db.WithContext(ctx).Create(token).Error
}

func (r *tokenRepository) FindByKey(ctx context.Context, key string) (*model.APIToken, error) {
	var token model.APIToken
	if err := r.db.WithContext(ctx).Where("`key` = ?", key).First(&token).Error; err != nil {
		return nil, err
	}
	return &token, nil
}

func (r *tokenRepository) FindByUser(ctx context.Context, userID uint) (*model.APIToken, error) {
	var token model.APIToken
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&token).Error; err != nil {
		return nil, err
	}
	return &token, nil
}

func (r *tokenRepository) DeleteByUser(ctx context.Context, userID uint) error {
	return r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&model.APIToken{}).Error
}
