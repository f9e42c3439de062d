package model

import "time"

// Note holds markdown content. FilePath is the on-disk copy relative to
// the notes storage root; empty if the file write was skipped or failed.
type Note struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Title       string     `gorm:"size:500;not null;index" json:"title"`
	Content     string     `gorm:"type:text;not null" json:"content"`
	FilePath    string     `gorm:"size:1000" json:"file_path,omitempty"`
	WorkspaceID uint       `gorm:"not null;index" json:"workspace_id"`
	Workspace   *Workspace `json:"workspace,omitempty"`
	Tags        []Tag      `gorm:"many2many:note_tags" json:"tags"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}
