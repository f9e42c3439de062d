package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"pkm-backend/internal/model"
)

type TagRepository struct {
	db *gorm.DB
}

func NewTagRepository(db *gorm.DB) *TagRepository {
	return &TagRepository{db: db}
}

func (r *TagRepository) Create(tag *model.Tag) error {
	if err := r.db.Create(tag).Error; err != nil {
		return fmt.Errorf("create tag failed: %w", err)
	}
	return nil
}

func (r *TagRepository) List(offset, limit int) ([]model.Tag, error) {
	if limit <= 0 || limit > 200 {
		limit = 100
	}
	var tags []model.Tag
	if err := r.db.Offset(offset).Limit(limit).Find(&tags).Error; err != nil {
		return nil, fmt.Errorf("list tags failed: %w", err)
	}
	return tags, nil
}

func (r *TagRepository) GetByID(tagID uint) (*model.Tag, error) {
	var tag model.Tag
	if err := r.db.First(&tag, tagID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get tag failed: %w", err)
	}
	return &tag, nil
}

func (r *TagRepository) GetByName(name string) (*model.Tag, error) {
	var tag model.Tag
	if err := r.db.Where("name = ?", name).First(&tag).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get tag by name failed: %w", err)
	}
	return &tag, nil
}

func (r *TagRepository) GetByIDs(tagIDs []uint) ([]model.Tag, error) {
	if len(tagIDs) == 0 {
		return nil, nil
	}
	var tags []model.Tag
	if err := r.db.Where("id IN ?", tagIDs).Find(&tags).Error; err != nil {
		return nil, fmt.Errorf("get tags by ids failed: %w", err)
	}
	return tags, nil
}

func (r *TagRepository) Save(tag *model.Tag) error {
	if err := r.db.Save(tag).Error; err != nil {
		return fmt.Errorf("save tag failed: %w", err)
	}
	return nil
}

func (r *TagRepository) Delete(tagID uint) error {
	if err := r.db.Delete(&model.Tag{}, tagID).Error; err != nil {
		return fmt.Errorf("delete tag failed: %w", err)
	}
	return nil
}
