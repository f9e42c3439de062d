package app

import (
	"strings"

	"pkm-backend/internal/model"
	"pkm-backend/internal/repository"
)

type TagService struct {
	tagRepo *repository.TagRepository
}

func NewTagService(tagRepo *repository.TagRepository) *TagService {
	return &TagService{tagRepo: tagRepo}
}

type CreateTagInput struct {
	Name  string
	Color string
}

type UpdateTagInput struct {
	Name  *string
	Color *string
}

func (s *TagService) Create(input CreateTagInput) (*model.Tag, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrInvalidInput
	}

	existing, err := s.tagRepo.GetByName(name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrTagNameExists
	}

	tag := &model.Tag{
		Name:  name,
		Color: input.Color,
	}
	if err := s.tagRepo.Create(tag); err != nil {
		return nil, err
	}
	return tag, nil
}

func (s *TagService) List(offset, limit int) ([]model.Tag, error) {
	return s.tagRepo.List(offset, limit)
}

func (s *TagService) Get(tagID uint) (*model.Tag, error) {
	tag, err := s.tagRepo.GetByID(tagID)
	if err != nil {
		return nil, err
	}
	if tag == nil {
		return nil, ErrTagNotFound
	}
	return tag, nil
}

func (s *TagService) Update(tagID uint, input UpdateTagInput) (*model.Tag, error) {
	tag, err := s.tagRepo.GetByID(tagID)
	if err != nil {
		return nil, err
	}
	if tag == nil {
		return nil, ErrTagNotFound
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, ErrInvalidInput
		}
		if name != tag.Name {
			existing, err := s.tagRepo.GetByName(name)
			if err != nil {
				return nil, err
			}
			if existing != nil {
				return nil, ErrTagNameExists
			}
		}
		tag.Name = name
	}
	if input.Color != nil {
		tag.Color = *input.Color
	}

	if err := s.tagRepo.Save(tag); err != nil {
		return nil, err
	}
	return tag, nil
}

func (s *TagService) Delete(tagID uint) error {
	tag, err := s.tagRepo.GetByID(tagID)
	if err != nil {
		return err
	}
	if tag == nil {
		return ErrTagNotFound
	}
	return s.tagRepo.Delete(tagID)
}
