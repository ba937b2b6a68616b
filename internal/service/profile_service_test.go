package service

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	apperrors "aiiabox/internal/errors"
	"aiiabox/internal/model"
)

// MockProfileRepository is a mock implementation of ProfileRepository.
type MockProfileRepository struct {
	mock.Mock
}

func (m *MockProfileRepository) FindByUser(ctx context.Context, userID uint) (*model.Profile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Profile), args.Error(1)
}

func (m *MockProfileRepository) Update(ctx context.Context, profile *model.Profile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

// MockAvatarStorage is a mock implementation of AvatarStorage.
type MockAvatarStorage struct {
	mock.Mock
}

func (m *MockAvatarStorage) Put(ctx context.Context, objectKey string, r io.Reader, size int64, contentType string) error {
	args := m.Called(ctx, objectKey, r, size, contentType)
	return args.Error(0)
}

func (m *MockAvatarStorage) ObjectKey(userID uint, filename string) string {
	args := m.Called(userID, filename)
	return args.String(0)
}

func TestProfileService_Update(t *testing.T) {
	mockRepo := new(MockProfileRepository)
	mockRepo.On("FindByUser", mock.Anything, uint(5)).Return(&model.Profile{UserID: 5, Bio: "old"}, nil)
	mockRepo.On("Update", mock.Anything, mock.AnythingOfType("*model.Profile")).Return(nil)

	bio := "  gardener and part-time gopher  "
	service := NewProfileService(mockRepo, nil)
	profile, err := service.Update(context.Background(), 5, ProfileUpdate{Bio: &bio})

	assert.NoError(t, err)
	assert.Equal(t, "gardener and part-time gopher", profile.Bio)
	mockRepo.AssertExpectations(t)
}

func TestProfileService_UploadAvatar(t *testing.T) {
	t.Run("stores the object then records its key", func(t *testing.T) {
		mockRepo := new(MockProfileRepository)
		mockStorage := new(MockAvatarStorage)
		mockRepo.On("FindByUser", mock.Anything, uint(5)).Return(&model.Profile{UserID: 5}, nil)
		mockStorage.On("ObjectKey", uint(5), "me.png").Return("avatars/2026/08/31/5-abc.png")
		mockStorage.On("Put", mock.Anything, "avatars/2026/08/31/5-abc.png", mock.Anything, int64(4), "image/png").Return(nil)
		mockRepo.On("Update", mock.Anything, mock.AnythingOfType("*model.Profile")).Return(nil)

		service := NewProfileService(mockRepo, mockStorage)
		profile, err := service.UploadAvatar(context.Background(), 5, "me.png", "image/png", 4, strings.NewReader("data"))

		assert.NoError(t, err)
		assert.Equal(t, "avatars/2026/08/31/5-abc.png", profile.Avatar)
		mockStorage.AssertExpectations(t)
		mockRepo.AssertExpectations(t)
	})

	t.Run("unconfigured storage", func(t *testing.T) {
		mockRepo := new(MockProfileRepository)

		service := NewProfileService(mockRepo, nil)
		profile, err := service.UploadAvatar(context.Background(), 5, "me.png", "image/png", 4, strings.NewReader("data"))

		assert.ErrorIs(t, err, apperrors.ErrStorageUnavailable)
		assert.Nil(t, profile)
		mockRepo.AssertNotCalled(t, "Update")
	})
}
