package app

import (
	"strings"

	"pkm-backend/internal/model"
	"pkm-backend/internal/repository"
)

type WorkspaceService struct {
	workspaceRepo *repository.WorkspaceRepository
}

func NewWorkspaceService(workspaceRepo *repository.WorkspaceRepository) *WorkspaceService {
	return &WorkspaceService{workspaceRepo: workspaceRepo}
}

type CreateWorkspaceInput struct {
	Name        string
	Description string
	Color       string
}

type UpdateWorkspaceInput struct {
	Name        *string
	Description *string
	Color       *string
}

func (s *WorkspaceService) Create(input CreateWorkspaceInput) (*model.Workspace, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrInvalidInput
	}

	existing, err := s.workspaceRepo.GetByName(name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrWorkspaceNameExists
	}

	workspace := &model.Workspace{
		Name:        name,
		Description: input.Description,
		Color:       input.Color,
	}
	if err := s.workspaceRepo.Create(workspace); err != nil {
		return nil, err
	}
	return workspace, nil
}

func (s *WorkspaceService) List(offset, limit int) ([]model.Workspace, error) {
	return s.workspaceRepo.List(offset, limit)
}

func (s *WorkspaceService) Get(workspaceID uint) (*model.Workspace, error) {
	workspace, err := s.workspaceRepo.GetByIDWithNotes(workspaceID)
	if err != nil {
		return nil, err
	}
	if workspace == nil {
		return nil, ErrWorkspaceNotFound
	}
	return workspace, nil
}

func (s *WorkspaceService) Update(workspaceID uint, input UpdateWorkspaceInput) (*model.Workspace, error) {
	workspace, err := s.workspaceRepo.GetByID(workspaceID)
	if err != nil {
		return nil, err
	}
	if workspace == nil {
		return nil, ErrWorkspaceNotFound
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, ErrInvalidInput
		}
		if name != workspace.Name {
			existing, err := s.workspaceRepo.GetByName(name)
			if err != nil {
				return nil, err
			}
			if existing != nil {
				return nil, ErrWorkspaceNameExists
			}
		}
		workspace.Name = name
	}
	if input.Description != nil {
		workspace.Description = *input.Description
	}
	if input.Color != nil {
		workspace.Color = *input.Color
	}

	if err := s.workspaceRepo.Save(workspace); err != nil {
		return nil, err
	}
	return workspace, nil
}

func (s *WorkspaceService) Delete(workspaceID uint) error {
	workspace, err := s.workspaceRepo.GetByID(workspaceID)
	if err != nil {
		return err
	}
	if workspace == nil {
		return ErrWorkspaceNotFound
	}
	return s.workspaceRepo.Delete(workspaceID)
}
