package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Theme is the UI theme preference.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
	ThemeAuto  Theme = "auto"
)

// Valid reports whether the theme is one of the allowed choices.
func (t Theme) Valid() bool {
	switch t {
	case ThemeLight, ThemeDark, ThemeAuto:
		return true
	}
	return false
}

// Settings holds per-user system configuration, kept apart from Profile so
// account settings stay distinct from personal information. One is created
// automatically alongside each user.
type Settings struct {
	ID               uint           `json:"id" gorm:"primaryKey"`
	UserID           uint           `json:"user" gorm:"uniqueIndex;not null"`
	Theme            Theme          `json:"theme" gorm:"type:varchar(10);not null;default:'auto'"`
	DefaultProjectID *uint          `json:"default_project"`
	LLMPreferences   datatypes.JSON `json:"llm_preferences"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`

	// Relations
	User           User     `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	DefaultProject *Project `json:"-" gorm:"foreignKey:DefaultProjectID;constraint:OnDelete:SET NULL"`
}

// OwnerID returns the canonical owner of the settings record.
func (s *Settings) OwnerID() uint { return s.UserID }

// BeforeCreate applies defaults for theme and llm preferences.
func (s *Settings) BeforeCreate(tx *gorm.DB) error {
	if s.Theme == "" {
		s.Theme = ThemeAuto
	}
	if len(s.LLMPreferences) == 0 {
		s.LLMPreferences = datatypes.JSON([]byte("{}"))
	}
	return nil
}
