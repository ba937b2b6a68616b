package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubResolver struct {
	keys map[string]uint
}

func (s *stubResolver) ResolveAPIToken(_ context.Context, key string) (uint, error) {
	if userID, ok := s.keys[key]; ok {
		return userID, nil
	}
	return 0, errors.New("unknown token")
}

func TestRequireUser(t *testing.T) {
	jwtService := NewJWTService("test-secret")
	resolver := &stubResolver{keys: map[string]uint{"good-key": 7}}

	accessToken, err := jwtService.GenerateAccessToken(42, "user@example.com")
	require.NoError(t, err)

	tests := []struct {
		name           string
		header         string
		expectedStatus int
		expectedUserID uint
	}{
		{
			name:           "bearer jwt",
			header:         "Bearer " + accessToken,
			expectedStatus: http.StatusOK,
			expectedUserID: 42,
		},
		{
			name:           "opaque api token",
			header:         "Token good-key",
			expectedStatus: http.StatusOK,
			expectedUserID: 7,
		},
		{
			name:           "lowercase scheme",
			header:         "token good-key",
			expectedStatus: http.StatusOK,
			expectedUserID: 7,
		},
		{
			name:           "missing header",
			header:         "",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "unknown api token",
			header:         "Token bad-key",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "garbage jwt",
			header:         "Bearer not-a-jwt",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "unsupported scheme",
			header:         "Basic dXNlcjpwYXNz",
			expectedStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set(echo.HeaderAuthorization, tt.header)
			}
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			var seenUserID uint
			handler := RequireUser(jwtService, resolver)(func(c echo.Context) error {
				seenUserID = CurrentUserID(c)
				return c.NoContent(http.StatusOK)
			})

			err := handler(c)
			if tt.expectedStatus == http.StatusOK {
				require.NoError(t, err)
				assert.Equal(t, tt.expectedUserID, seenUserID)
			} else {
				var httpErr *echo.HTTPError
				require.ErrorAs(t, err, &httpErr)
				assert.Equal(t, tt.expectedStatus, httpErr.Code)
			}
		})
	}
}
