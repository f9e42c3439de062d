package model

import "time"

// Workspace groups notes by subject or topic. Deleting a workspace
// deletes its notes.
type Workspace struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:255;not null;uniqueIndex" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	Color       string    `gorm:"size:7;default:'#3B82F6'" json:"color"`
	Notes       []Note    `gorm:"constraint:OnDelete:CASCADE" json:"notes,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
