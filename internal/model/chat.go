package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// MaxTitleLength is the longest chat title accepted by the API.
const MaxTitleLength = 200

// Chat represents a conversation thread owned by a single user. Metadata is
// free-form JSON so future per-chat options (system prompt, model name) need
// no schema change.
type Chat struct {
	ID        uuid.UUID      `json:"id" gorm:"type:char(36);primaryKey"`
	UserID    uint           `json:"user" gorm:"not null;index:idx_chats_user_updated,priority:1"`
	Title     string         `json:"title" gorm:"size:255;not null"`
	Metadata  datatypes.JSON `json:"metadata"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at" gorm:"index:idx_chats_user_updated,priority:2"`

	// Relations
	User     User      `json:"-" gorm:"foreignKey:UserID"`
	Messages []Message `json:"-" gorm:"foreignKey:ChatID;constraint:OnDelete:CASCADE"`
}

// OwnerID returns the canonical owner of the chat.
func (c *Chat) OwnerID() uint { return c.UserID }

// BeforeCreate sets the UUID and defaults metadata to an empty object.
func (c *Chat) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if len(c.Metadata) == 0 {
		c.Metadata = datatypes.JSON([]byte("{}"))
	}
	return nil
}
