package model

import "time"

// User represents an authenticated user in the system.
type User struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Name         string    `json:"name" gorm:"size:255;not null"`
	Email        string    `json:"email" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash string    `json:"-" gorm:"size:255;not null"` // Never expose in JSON
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Relations
	Chats    []Chat    `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Messages []Message `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}
