package model

import (
	"crypto/rand"
	"encoding/hex"
	"time"
)

// APIToken is an opaque per-user credential. Exactly one is issued when the
// user is created; regeneration is delete followed by recreate.
type APIToken struct {
	Key       string    `json:"token" gorm:"primaryKey;size:40"`
	UserID    uint      `json:"-" gorm:"uniqueIndex;not null"`
	CreatedAt time.Time `json:"created"`

	// Relations
	User User `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// OwnerID returns the canonical owner of the token.
func (t *APIToken) OwnerID() uint { return t.UserID }

// NewTokenKey returns a 40-character hex key.
func NewTokenKey() string {
	buf := make([]byte, 20)
	if _, err := rand.Read(buf); err != nil {
		panic(err) // rand.Read does not fail on supported platforms
	}
	return hex.EncodeToString(buf)
}
