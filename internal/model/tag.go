package model

import "time"

type Tag struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:100;not null;uniqueIndex" json:"name"`
	Color     string    `gorm:"size:7;default:'#6B7280'" json:"color"`
	CreatedAt time.Time `json:"created_at"`
}
