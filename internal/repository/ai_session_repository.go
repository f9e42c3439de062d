package repository

import (
	"fmt"

	"gorm.io/gorm"

	"pkm-backend/internal/model"
)

type AISessionRepository struct {
	db *gorm.DB
}

func NewAISessionRepository(db *gorm.DB) *AISessionRepository {
	return &AISessionRepository{db: db}
}

func (r *AISessionRepository) Create(session *model.AISession) error {
	if err := r.db.Create(session).Error; err != nil {
		return fmt.Errorf("create ai session failed: %w", err)
	}
	return nil
}

// ListRecent returns the most recent sessions, optionally filtered by
// session type (empty = all).
func (r *AISessionRepository) ListRecent(sessionType string, limit int) ([]model.AISession, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	query := r.db.Order("created_at DESC").Limit(limit)
	if sessionType != "" {
		query = query.Where("session_type = ?", sessionType)
	}
	var sessions []model.AISession
	if err := query.Find(&sessions).Error; err != nil {
		return nil, fmt.Errorf("list ai sessions failed: %w", err)
	}
	return sessions, nil
}
