package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Profile holds user-visible personal information, separate from the User
// record which handles authentication. One is created automatically alongside
// each user.
type Profile struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	UserID      uint           `json:"user" gorm:"uniqueIndex;not null"`
	Bio         string         `json:"bio" gorm:"type:text;not null"`
	Avatar      string         `json:"avatar" gorm:"size:512;not null"` // object storage key, empty when unset
	Preferences datatypes.JSON `json:"preferences"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`

	// Relations
	User User `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// OwnerID returns the canonical owner of the profile.
func (p *Profile) OwnerID() uint { return p.UserID }

// BeforeCreate defaults preferences to an empty object.
func (p *Profile) BeforeCreate(tx *gorm.DB) error {
	if len(p.Preferences) == 0 {
		p.Preferences = datatypes.JSON([]byte("{}"))
	}
	return nil
}
