package model

// Project groups chats for organization. Only the name is stored for now; it
// exists to back the default_project reference on Settings.
type Project struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"size:255;not null"`
}
