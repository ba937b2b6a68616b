package service

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"aiiabox/internal/auth"
	"aiiabox/internal/model"
	"aiiabox/internal/repository"
)

const bcryptCost = 10

var (
	// ErrInvalidCredentials is returned when email or password is incorrect.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrUserAlreadyExists is returned when trying to register an existing user.
	ErrUserAlreadyExists = errors.New("user already exists")
	// ErrInvalidRefreshToken is returned when refresh token is invalid or expired.
	ErrInvalidRefreshToken = errors.New("invalid or expired refresh token")
	// ErrInvalidAPIToken is returned when an opaque API token does not resolve
	// to a user.
	ErrInvalidAPIToken = errors.New("invalid API token")
)

// AuthService handles authentication and the user lifecycle. Registration is
// the single place users are created; the API token, profile and settings
// companions are provisioned in the same transaction, exactly once.
type AuthService interface {
	Register(ctx context.Context, email, password, name string) (*model.User, error)
	Login(ctx context.Context, email, password string) (accessToken, refreshToken string, user *model.User, err error)
	RefreshToken(ctx context.Context, refreshToken string) (accessToken string, err error)
	Logout(ctx context.Context, refreshToken string) error
	Token(ctx context.Context, userID uint) (*model.APIToken, error)
	RegenerateToken(ctx context.Context, userID uint) (*model.APIToken, error)
	ResolveAPIToken(ctx context.Context, key string) (uint, error)
}

type authService struct {
	userRepo   repository.UserRepository
	tokenRepo  repository.TokenRepository
	jwtService *auth.JWTService
	tokenStore auth.TokenStoreInterface
}

// NewAuthService creates a new authentication service.
func NewAuthService(userRepo repository.UserRepository, tokenRepo repository.TokenRepository, jwtService *auth.JWTService, tokenStore auth.TokenStoreInterface) AuthService {
	return &authService{
		userRepo:   userRepo,
		tokenRepo:  tokenRepo,
		jwtService: jwtService,
		tokenStore: tokenStore,
	}
}

// Register creates a new user with hashed password plus its companion
// records: one API token, one empty profile, one settings record with the
// default theme. The whole set is written in one transaction.
func (s *authService) Register(ctx context.Context, email, password, name string) (*model.User, error) {
	existing, err := s.userRepo.FindByEmail(ctx, email)
	if err == nil && existing != nil {
		return nil, ErrUserAlreadyExists
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("check user existence: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Email:        email,
		PasswordHash: string(hashedPassword),
		Name:         name,
	}
	token := &model.APIToken{Key: model.NewTokenKey()}
	profile := &model.Profile{}
	settings := &model.Settings{Theme: model.ThemeAuto}

	if err := s.userRepo.Provision(ctx, user, token, profile, settings); err != nil {
		return nil, fmt.Errorf("provision user: %w", err)
	}

	return user, nil
}

// Login authenticates a user and returns access and refresh tokens.
func (s *authService) Login(ctx context.Context, email, password string) (accessToken, refreshToken string, user *model.User, err error) {
	user, err = s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return "", "", nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", "", nil, ErrInvalidCredentials
	}

	accessToken, err = s.jwtService.GenerateAccessToken(user.ID, user.Email)
	if err != nil {
		return "", "", nil, fmt.Errorf("generate access token: %w", err)
	}

	tokenID, refreshToken, err := s.jwtService.GenerateRefreshToken(user.ID, user.Email)
	if err != nil {
		return "", "", nil, fmt.Errorf("generate refresh token: %w", err)
	}

	if err := s.tokenStore.StoreRefreshToken(ctx, tokenID, user.ID, user.Email, auth.RefreshTokenExpiry); err != nil {
		return "", "", nil, fmt.Errorf("store refresh token: %w", err)
	}

	return accessToken, refreshToken, user, nil
}

// RefreshToken validates a refresh token and returns a new access token.
func (s *authService) RefreshToken(ctx context.Context, refreshToken string) (accessToken string, err error) {
	claims, err := s.jwtService.ValidateToken(refreshToken)
	if err != nil {
		return "", ErrInvalidRefreshToken
	}

	tokenID, err := s.jwtService.ExtractTokenID(refreshToken)
	if err != nil {
		return "", ErrInvalidRefreshToken
	}

	storedUserID, storedEmail, err := s.tokenStore.GetRefreshToken(ctx, tokenID)
	if err != nil {
		return "", ErrInvalidRefreshToken
	}

	if storedUserID != claims.UserID || storedEmail != claims.Email {
		return "", ErrInvalidRefreshToken
	}

	accessToken, err = s.jwtService.GenerateAccessToken(claims.UserID, claims.Email)
	if err != nil {
		return "", fmt.Errorf("generate access token: %w", err)
	}

	return accessToken, nil
}

// Logout invalidates a refresh token.
func (s *authService) Logout(ctx context.Context, refreshToken string) error {
	tokenID, err := s.jwtService.ExtractTokenID(refreshToken)
	if err != nil {
		return ErrInvalidRefreshToken
	}

	return s.tokenStore.DeleteRefreshToken(ctx, tokenID)
}

// Token returns the user's API token, creating one if it is somehow missing
// (tokens of pre-provisioning users, or regenerated-then-crashed states).
func (s *authService) Token(ctx context.Context, userID uint) (*model.APIToken, error) {
	token, err := s.tokenRepo.FindByUser(ctx, userID)
	if err == nil {
		return token, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("find token: %w", err)
	}

	token = &model.APIToken{Key: model.NewTokenKey(), UserID: userID}
	if err := s.tokenRepo.Create(ctx, token); err != nil {
		return nil, fmt.Errorf("create token: %w", err)
	}
	return token, nil
}

// RegenerateToken rotates the user's API token by delete and recreate. The
// old key is evicted from the cache so it stops resolving.
func (s *authService) RegenerateToken(ctx context.Context, userID uint) (*model.APIToken, error) {
	old, err := s.tokenRepo.FindByUser(ctx, userID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("find token: %w", err)
	}
	if old != nil {
		if err := s.tokenRepo.DeleteByUser(ctx, userID); err != nil {
			return nil, fmt.Errorf("delete token: %w", err)
		}
		if err := s.tokenStore.EvictAPIToken(ctx, old.Key); err != nil {
			return nil, fmt.Errorf("evict token: %w", err)
		}
	}

	token := &model.APIToken{Key: model.NewTokenKey(), UserID: userID}
	if err := s.tokenRepo.Create(ctx, token); err != nil {
		return nil, fmt.Errorf("create token: %w", err)
	}
	return token, nil
}

// ResolveAPIToken maps an opaque token key to its owning user, consulting the
// cache before the database.
func (s *authService) ResolveAPIToken(ctx context.Context, key string) (uint, error) {
	if userID, ok := s.tokenStore.LookupAPIToken(ctx, key); ok {
		return userID, nil
	}

	token, err := s.tokenRepo.FindByKey(ctx, key)
	if err != nil {
		return 0, ErrInvalidAPIToken
	}

	// Cache failures degrade to a DB hit next time.
	_ = s.tokenStore.CacheAPIToken(ctx, key, token.UserID)

	return token.UserID, nil
}
