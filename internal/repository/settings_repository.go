package repository

import (
	"context"

	"gorm.io/gorm"

	"aiiabox/internal/model"
)

// SettingsRepository defines settings persistence operations. Creation happens
// only through UserRepository.Provision.
type SettingsRepository interface {
	FindByUser(ctx context.Context, userID uint) (*model.Settings, error)
	Update(ctx context.Context, settings *model.Settings) error
}

type settingsRepository struct {
	db *gorm.DB
}

// NewSettingsRepository builds a GORM-backed repository.
func NewSettingsRepository(db *gorm.DB) SettingsRepository {
	return &settingsRepository{db: db}
}

func (r *settingsRepository) FindByUser(ctx context.Context, userID uint) (*model.Settings, error) {
	var settings model.Settings
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&settings).Error; err != nil {
		return nil, err
	}
	return &settings, nil
}

func (r *settingsRepository) Update(ctx context.Context, settings *model.Settings) error {
	return r.db.WithContext(ctx).Save(settings).Error
}
