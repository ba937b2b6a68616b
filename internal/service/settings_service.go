package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	apperrors "aiiabox/internal/errors"
	"aiiabox/internal/model"
	"aiiabox/internal/repository"
)

// SettingsUpdate carries the mutable settings fields for a partial update;
// nil fields are left untouched. ClearDefaultProject unsets the reference.
type SettingsUpdate struct {
	Theme               *model.Theme
	LLMPreferences      datatypes.JSON
	DefaultProjectID    *uint
	ClearDefaultProject bool
}

// SettingsService handles the user's own settings record.
type SettingsService interface {
	Get(ctx context.Context, userID uint) (*model.Settings, error)
	Update(ctx context.Context, userID uint, update SettingsUpdate) (*model.Settings, error)
}

type settingsService struct {
	settingsRepo repository.SettingsRepository
	projectRepo  repository.ProjectRepository
}

// NewSettingsService creates a new settings service.
func NewSettingsService(settingsRepo repository.SettingsRepository, projectRepo repository.ProjectRepository) SettingsService {
	return &settingsService{
		settingsRepo: settingsRepo,
		projectRepo:  projectRepo,
	}
}

func (s *settingsService) Get(ctx context.Context, userID uint) (*model.Settings, error) {
	settings, err := s.settingsRepo.FindByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrSettingsNotFound
		}
		return nil, fmt.Errorf("find settings: %w", err)
	}
	return settings, nil
}

func (s *settingsService) Update(ctx context.Context, userID uint, update SettingsUpdate) (*model.Settings, error) {
	settings, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	if update.Theme != nil {
		if !update.Theme.Valid() {
			return nil, apperrors.ErrInvalidTheme
		}
		settings.Theme = *update.Theme
	}
	if update.LLMPreferences != nil {
		settings.LLMPreferences = update.LLMPreferences
	}
	if update.ClearDefaultProject {
		settings.DefaultProjectID = nil
	} else if update.DefaultProjectID != nil {
		exists, err := s.projectRepo.Exists(ctx, *update.DefaultProjectID)
		if err != nil {
			return nil, fmt.Errorf("check project: %w", err)
		}
		if !exists {
			return nil, apperrors.ErrProjectNotFound
		}
		settings.DefaultProjectID = update.DefaultProjectID
	}

	if err := s.settingsRepo.Update(ctx, settings); err != nil {
		return nil, fmt.Errorf("update settings: %w", err)
	}
	return settings, nil
}
