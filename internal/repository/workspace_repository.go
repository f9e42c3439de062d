package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"pkm-backend/internal/model"
)

type WorkspaceRepository struct {
	db *gorm.DB
}

func NewWorkspaceRepository(db *gorm.DB) *WorkspaceRepository {
	return &WorkspaceRepository{db: db}
}

func (r *WorkspaceRepository) Create(workspace *model.Workspace) error {
	if err := r.db.Create(workspace).Error; err != nil {
		return fmt.Errorf("create workspace failed: %w", err)
	}
	return nil
}

func (r *WorkspaceRepository) List(offset, limit int) ([]model.Workspace, error) {
	if limit <= 0 || limit > 200 {
		limit = 100
	}
	var workspaces []model.Workspace
	if err := r.db.Offset(offset).Limit(limit).Find(&workspaces).Error; err != nil {
		return nil, fmt.Errorf("list workspaces failed: %w", err)
	}
	return workspaces, nil
}

func (r *WorkspaceRepository) GetByID(workspaceID uint) (*model.Workspace, error) {
	var workspace model.Workspace
	if err := r.db.First(&workspace, workspaceID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get workspace failed: %w", err)
	}
	return &workspace, nil
}

func (r *WorkspaceRepository) GetByIDWithNotes(workspaceID uint) (*model.Workspace, error) {
	var workspace model.Workspace
	if err := r.db.Preload("Notes").Preload("Notes.Tags").First(&workspace, workspaceID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get workspace with notes failed: %w", err)
	}
	return &workspace, nil
}

func (r *WorkspaceRepository) GetByName(name string) (*model.Workspace, error) {
	var workspace model.Workspace
	if err := r.db.Where("name = ?", name).First(&workspace).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get workspace by name failed: %w", err)
	}
	return &workspace, nil
}

func (r *WorkspaceRepository) Save(workspace *model.Workspace) error {
	if err := r.db.Save(workspace).Error; err != nil {
		return fmt.Errorf("save workspace failed: %w", err)
	}
	return nil
}

// Delete removes the workspace and all of its notes.
func (r *WorkspaceRepository) Delete(workspaceID uint) error {
	if err := r.db.Where("workspace_id = ?", workspaceID).Delete(&model.Note{}).Error; err != nil {
		return fmt.Errorf("delete workspace notes failed: %w", err)
	}
	if err := r.db.Delete(&model.Workspace{}, workspaceID).Error; err != nil {
		return fmt.Errorf("delete workspace failed: %w", err)
	}
	return nil
}
