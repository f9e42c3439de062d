package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"pkm-backend/internal/model"
)

type NoteRepository struct {
	db *gorm.DB
}

func NewNoteRepository(db *gorm.DB) *NoteRepository {
	return &NoteRepository{db: db}
}

func (r *NoteRepository) Create(note *model.Note) error {
	if err := r.db.Create(note).Error; err != nil {
		return fmt.Errorf("create note failed: %w", err)
	}
	return nil
}

// List returns notes, optionally filtered by workspace (workspaceID 0 = all).
func (r *NoteRepository) List(workspaceID uint, offset, limit int) ([]model.Note, error) {
	if limit <= 0 || limit > 200 {
		limit = 100
	}
	query := r.db.Preload("Tags")
	if workspaceID != 0 {
		query = query.Where("workspace_id = ?", workspaceID)
	}
	var notes []model.Note
	if err := query.Offset(offset).Limit(limit).Find(&notes).Error; err != nil {
		return nil, fmt.Errorf("list notes failed: %w", err)
	}
	return notes, nil
}

func (r *NoteRepository) GetByID(noteID uint) (*model.Note, error) {
	var note model.Note
	if err := r.db.Preload("Workspace").Preload("Tags").First(&note, noteID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get note failed: %w", err)
	}
	return &note, nil
}

// GetByIDs returns the notes found for the given IDs, preserving the
// request order. Missing IDs are skipped.
func (r *NoteRepository) GetByIDs(noteIDs []uint) ([]model.Note, error) {
	if len(noteIDs) == 0 {
		return nil, nil
	}
	var notes []model.Note
	if err := r.db.Where("id IN ?", noteIDs).Find(&notes).Error; err != nil {
		return nil, fmt.Errorf("get notes by ids failed: %w", err)
	}

	byID := make(map[uint]model.Note, len(notes))
	for _, note := range notes {
		byID[note.ID] = note
	}
	ordered := make([]model.Note, 0, len(notes))
	for _, id := range noteIDs {
		if note, ok := byID[id]; ok {
			ordered = append(ordered, note)
		}
	}
	return ordered, nil
}

// ListForSearch returns notes with their workspaces, optionally filtered
// by workspace IDs (empty = all).
func (r *NoteRepository) ListForSearch(workspaceIDs []uint) ([]model.Note, error) {
	query := r.db.Preload("Workspace")
	if len(workspaceIDs) > 0 {
		query = query.Where("workspace_id IN ?", workspaceIDs)
	}
	var notes []model.Note
	if err := query.Find(&notes).Error; err != nil {
		return nil, fmt.Errorf("list notes for search failed: %w", err)
	}
	return notes, nil
}

// SearchLike performs a case-insensitive substring match over title and
// content (workspaceID 0 = all workspaces).
func (r *NoteRepository) SearchLike(term string, workspaceID uint, limit int) ([]model.Note, error) {
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	pattern := "%" + term + "%"
	query := r.db.Preload("Workspace").
		Where("LOWER(title) LIKE LOWER(?) OR LOWER(content) LIKE LOWER(?)", pattern, pattern)
	if workspaceID != 0 {
		query = query.Where("workspace_id = ?", workspaceID)
	}
	var notes []model.Note
	if err := query.Limit(limit).Find(&notes).Error; err != nil {
		return nil, fmt.Errorf("search notes failed: %w", err)
	}
	return notes, nil
}

func (r *NoteRepository) Save(note *model.Note) error {
	if err := r.db.Save(note).Error; err != nil {
		return fmt.Errorf("save note failed: %w", err)
	}
	return nil
}

// ReplaceTags replaces the note's tag set.
func (r *NoteRepository) ReplaceTags(note *model.Note, tags []model.Tag) error {
	if err := r.db.Model(note).Association("Tags").Replace(tags); err != nil {
		return fmt.Errorf("replace note tags failed: %w", err)
	}
	return nil
}

func (r *NoteRepository) Delete(noteID uint) error {
	if err := r.db.Select("Tags").Delete(&model.Note{ID: noteID}).Error; err != nil {
		return fmt.Errorf("delete note failed: %w", err)
	}
	return nil
}
