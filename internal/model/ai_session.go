package model

import (
	"encoding/json"
	"time"
)

// AI session types.
const (
	SessionTypeCleanup  = "cleanup"
	SessionTypeRephrase = "rephrase"
	SessionTypeChat     = "chat"
	SessionTypeSearch   = "search"
)

// AISession is an append-only audit record of one AI invocation.
// NoteIDs is a denormalized JSON array of note IDs, not a foreign key;
// notes referenced by an old session may have been deleted since.
type AISession struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	SessionType      string    `gorm:"size:50;not null;index" json:"session_type"`
	Query            string    `gorm:"type:text;not null" json:"query"`
	Response         string    `gorm:"type:text" json:"response"`
	ModelUsed        string    `gorm:"size:100;not null" json:"model_used"`
	NoteIDs          string    `gorm:"type:text" json:"note_ids,omitempty"`
	ProcessingTimeMS int64     `json:"processing_time_ms"`
	Success          bool      `gorm:"default:true" json:"success"`
	CreatedAt        time.Time `json:"created_at"`
}

// SetNoteIDs stores the note ID list as JSON.
func (s *AISession) SetNoteIDs(ids []uint) {
	if len(ids) == 0 {
		s.NoteIDs = ""
		return
	}
	b, _ := json.Marshal(ids)
	s.NoteIDs = string(b)
}

// NoteIDList returns the parsed note ID list; nil on parse error.
func (s *AISession) NoteIDList() []uint {
	if s.NoteIDs == "" {
		return nil
	}
	var ids []uint
	_ = json.Unmarshal([]byte(s.NoteIDs), &ids)
	return ids
}
