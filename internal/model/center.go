package model

import "time"

// LearningCenter учебный центр (тенант), которому принадлежат пользователи
type LearningCenter struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// CenterSummary центр вместе с количеством пользователей (для админки)
type CenterSummary struct {
	LearningCenter
	TotalUsers int64 `json:"total_users"`
}
