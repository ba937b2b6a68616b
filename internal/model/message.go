package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MessageRole tags the source of a message.
type MessageRole string

const (
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
	RoleSystem    MessageRole = "system"
)

// Valid reports whether the role is one of the allowed choices.
func (r MessageRole) Valid() bool {
	switch r {
	case RoleUser, RoleAssistant, RoleSystem:
		return true
	}
	return false
}

// Message is a single entry in a chat's conversation history. Tokens records
// the token count for cost tracking and context window management. Deleting
// the parent chat deletes its messages.
type Message struct {
	ID        uuid.UUID   `json:"id" gorm:"type:char(36);primaryKey"`
	ChatID    uuid.UUID   `json:"chat" gorm:"type:char(36);not null;index:idx_messages_chat_created,priority:1"`
	UserID    uint        `json:"user" gorm:"not null;index"`
	Content   string      `json:"content" gorm:"type:text;not null"`
	Role      MessageRole `json:"role" gorm:"type:varchar(20);not null;index"`
	Tokens    int         `json:"tokens" gorm:"not null;default:0"`
	CreatedAt time.Time   `json:"created_at" gorm:"index:idx_messages_chat_created,priority:2"`

	// Relations
	Chat Chat `json:"-" gorm:"foreignKey:ChatID"`
	User User `json:"-" gorm:"foreignKey:UserID"`
}

// OwnerID returns the author of the message.
func (m *Message) OwnerID() uint { return m.UserID }

// BeforeCreate sets the UUID before inserting the record.
func (m *Message) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
