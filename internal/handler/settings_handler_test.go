package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "aiiabox/internal/errors"
	"aiiabox/internal/model"
	"aiiabox/internal/service"
)

// MockSettingsService is a mock implementation of service.SettingsService.
type MockSettingsService struct {
	mock.Mock
}

func (m *MockSettingsService) Get(ctx context.Context, userID uint) (*model.Settings, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Settings), args.Error(1)
}

func (m *MockSettingsService) Update(ctx context.Context, userID uint, update service.SettingsUpdate) (*model.Settings, error) {
	args := m.Called(ctx, userID, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Settings), args.Error(1)
}

func TestSettingsHandler_Update_DefaultProject(t *testing.T) {
	t.Run("explicit null clears the default project", func(t *testing.T) {
		mockService := new(MockSettingsService)
		mockService.On("Update", mock.Anything, uint(5), mock.MatchedBy(func(u service.SettingsUpdate) bool {
			return u.ClearDefaultProject && u.DefaultProjectID == nil
		})).Return(&model.Settings{UserID: 5, Theme: model.ThemeAuto}, nil)

		c, rec := request(http.MethodPut, "/api/settings/", `{"default_project":null}`, 5)
		handler := NewSettingsHandler(mockService)

		require.NoError(t, handler.Update(c))
		assert.Equal(t, http.StatusOK, rec.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("absent field leaves the default project alone", func(t *testing.T) {
		mockService := new(MockSettingsService)
		mockService.On("Update", mock.Anything, uint(5), mock.MatchedBy(func(u service.SettingsUpdate) bool {
			return !u.ClearDefaultProject && u.DefaultProjectID == nil
		})).Return(&model.Settings{UserID: 5, Theme: model.ThemeDark}, nil)

		c, rec := request(http.MethodPut, "/api/settings/", `{"theme":"dark"}`, 5)
		handler := NewSettingsHandler(mockService)

		require.NoError(t, handler.Update(c))
		assert.Equal(t, http.StatusOK, rec.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("numeric value sets the default project", func(t *testing.T) {
		mockService := new(MockSettingsService)
		mockService.On("Update", mock.Anything, uint(5), mock.MatchedBy(func(u service.SettingsUpdate) bool {
			return u.DefaultProjectID != nil && *u.DefaultProjectID == 4
		})).Return(&model.Settings{UserID: 5}, nil)

		c, rec := request(http.MethodPut, "/api/settings/", `{"default_project":4}`, 5)
		handler := NewSettingsHandler(mockService)

		require.NoError(t, handler.Update(c))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("non-numeric value is a 400", func(t *testing.T) {
		mockService := new(MockSettingsService)

		c, _ := request(http.MethodPut, "/api/settings/", `{"default_project":"four"}`, 5)
		handler := NewSettingsHandler(mockService)

		err := handler.Update(c)
		assert.Equal(t, http.StatusBadRequest, httpStatus(t, err, nil))
		mockService.AssertNotCalled(t, "Update")
	})
}

func TestSettingsHandler_Update_Theme(t *testing.T) {
	t.Run("invalid theme maps to a field error", func(t *testing.T) {
		mockService := new(MockSettingsService)
		mockService.On("Update", mock.Anything, uint(5), mock.Anything).Return(nil, apperrors.ErrInvalidTheme)

		c, _ := request(http.MethodPut, "/api/settings/", `{"theme":"sepia"}`, 5)
		handler := NewSettingsHandler(mockService)

		err := handler.Update(c)
		assert.Equal(t, http.StatusBadRequest, httpStatus(t, err, nil))
		assert.Equal(t, "INVALID_THEME", errorCode(t, err))
	})
}
