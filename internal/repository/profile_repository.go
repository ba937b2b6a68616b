package repository

import (
	"context"

	"gorm.io/gorm"

	"aiiabox/internal/model"
)

// ProfileRepository defines profile persistence operations. Creation happens
// only through UserRepository.Provision.
type ProfileRepository interface {
	FindByUser(ctx context.Context, userID uint) (*model.Profile, error)
	Update(ctx context.Context, profile *model.Profile) error
}

type profileRepository struct {
	db *gorm.DB
}

// NewProfileRepository builds a GORM-backed repository.
func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) FindByUser(ctx context.Context, userID uint) (*model.Profile, error) {
	var profile model.Profile
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *profileRepository) Update(ctx context.Context, profile *model.Profile) error {
	return r.db.WithContext(ctx).Save(profile).Error
}
