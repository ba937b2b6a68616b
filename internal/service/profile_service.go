package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	apperrors "aiiabox/internal/errors"
	"aiiabox/internal/model"
	"aiiabox/internal/repository"
)

// AvatarStorage is the object-store surface the profile service needs.
type AvatarStorage interface {
	Put(ctx context.Context, objectKey string, r io.Reader, size int64, contentType string) error
	ObjectKey(userID uint, filename string) string
}

// ProfileUpdate carries the mutable profile fields for a partial update; nil
// fields are left untouched.
type ProfileUpdate struct {
	Bio         *string
	Preferences datatypes.JSON
}

// ProfileService handles the user's own profile. There is no cross-user
// surface at all: every operation is keyed by the authenticated user.
type ProfileService interface {
	Get(ctx context.Context, userID uint) (*model.Profile, error)
	Update(ctx context.Context, userID uint, update ProfileUpdate) (*model.Profile, error)
	UploadAvatar(ctx context.Context, userID uint, filename, contentType string, size int64, r io.Reader) (*model.Profile, error)
}

type profileService struct {
	profileRepo repository.ProfileRepository
	avatars     AvatarStorage
}

// NewProfileService creates a new profile service. avatars may be nil when
// object storage is not configured; uploads then fail with a storage error.
func NewProfileService(profileRepo repository.ProfileRepository, avatars AvatarStorage) ProfileService {
	return &profileService{
		profileRepo: profileRepo,
		avatars:     avatars,
	}
}

func (s *profileService) Get(ctx context.Context, userID uint) (*model.Profile, error) {
	profile, err := s.profileRepo.FindByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrProfileNotFound
		}
		return nil, fmt.Errorf("find profile: %w", err)
	}
	return profile, nil
}

func (s *profileService) Update(ctx context.Context, userID uint, update ProfileUpdate) (*model.Profile, error) {
	profile, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	if update.Bio != nil {
		profile.Bio = strings.TrimSpace(*update.Bio)
	}
	if update.Preferences != nil {
		profile.Preferences = update.Preferences
	}

	if err := s.profileRepo.Update(ctx, profile); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return profile, nil
}

// UploadAvatar stores the image in object storage and records its key on the
// profile.
func (s *profileService) UploadAvatar(ctx context.Context, userID uint, filename, contentType string, size int64, r io.Reader) (*model.Profile, error) {
	if s.avatars == nil {
		return nil, apperrors.ErrStorageUnavailable
	}

	profile, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	objectKey := s.avatars.ObjectKey(userID, filename)
	if err := s.avatars.Put(ctx, objectKey, r, size, contentType); err != nil {
		return nil, fmt.Errorf("store avatar: %w", err)
	}

	profile.Avatar = objectKey
	if err := s.profileRepo.Update(ctx, profile); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return profile, nil
}
