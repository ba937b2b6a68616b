package repository

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"aiiabox/internal/model"
)

// newTestDB opens a throwaway in-memory database with the full schema. Shared
// cache keeps the schema alive across pooled connections; the test name keys
// the database so tests stay isolated from each other.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.APIToken{},
		&model.Project{},
		&model.Profile{},
		&model.Settings{},
		&model.Chat{},
		&model.Message{},
	))
	return db
}

// createUser inserts a user through Provision, the only creation path.
func createUser(t *testing.T, db *gorm.DB, email string) *model.User {
	t.Helper()

	user := &model.User{Email: email, PasswordHash: "x", Name: "Test"}
	token := &model.APIToken{Key: model.NewTokenKey()}
	profile := &model.Profile{}
	settings := &model.Settings{}
	require.NoError(t, NewUserRepository(db).Provision(context.Background(), user, token, profile, settings))
	return user
}
