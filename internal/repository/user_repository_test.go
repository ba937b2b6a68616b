package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"aiiabox/internal/model"
)

func TestUserRepository_Provision(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	user := createUser(t, db, "fresh@example.com")
	require.NotZero(t, user.ID)

	token, err := NewTokenRepository(db).FindByUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, token.Key, 40)

	profile, err := NewProfileRepository(db).FindByUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.ID, profile.UserID)
	assert.JSONEq(t, "{}", string(profile.Preferences))

	settings, err := NewSettingsRepository(db).FindByUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ThemeAuto, settings.Theme)
}

func TestUserRepository_Provision_DuplicateEmailRollsBack(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	createUser(t, db, "dup@example.com")

	user := &model.User{Email: "dup@example.com", PasswordHash: "x", Name: "Dup"}
	err := NewUserRepository(db).Provision(ctx, user,
		&model.APIToken{Key: model.NewTokenKey()}, &model.Profile{}, &model.Settings{})
	require.Error(t, err)

	// The failed transaction must not leave a stray token behind.
	var tokens int64
	require.NoError(t, db.Model(&model.APIToken{}).Count(&tokens).Error)
	assert.Equal(t, int64(1), tokens)
}

func TestUserRepository_Delete_RemovesEverythingOwned(t *testing.T) {
	db := newTestDB(t)
	userRepo := NewUserRepository(db)
	chatRepo := NewChatRepository(db)
	messageRepo := NewMessageRepository(db)
	ctx := context.Background()

	user := createUser(t, db, "leaving@example.com")
	bystander := createUser(t, db, "staying@example.com")

	chat := &model.Chat{UserID: user.ID, Title: "Mine"}
	require.NoError(t, chatRepo.Create(ctx, chat))
	require.NoError(t, messageRepo.Create(ctx, &model.Message{
		ChatID: chat.ID, UserID: user.ID, Content: "hi", Role: model.RoleUser,
	}))

	otherChat := &model.Chat{UserID: bystander.ID, Title: "Theirs"}
	require.NoError(t, chatRepo.Create(ctx, otherChat))

	require.NoError(t, userRepo.Delete(ctx, user.ID))

	_, err := userRepo.FindByID(ctx, user.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	_, err = NewTokenRepository(db).FindByUser(ctx, user.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	_, err = NewProfileRepository(db).FindByUser(ctx, user.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	_, err = NewSettingsRepository(db).FindByUser(ctx, user.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	count, err := chatRepo.CountOwned(ctx, user.ID)
	require.NoError(t, err)
	assert.Zero(t, count)

	// The bystander's data is untouched.
	count, err = chatRepo.CountOwned(ctx, bystander.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}
