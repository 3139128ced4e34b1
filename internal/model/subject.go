package model

import "time"

// Subject направление обучения внутри центра. Пользователи ссылаются на него по ID,
// поэтому переименование не требует обновления users.
type Subject struct {
	ID               int64     `json:"id"`
	LearningCenterID int64     `json:"learning_center_id"`
	Name             string    `json:"name"`
	CreatedAt        time.Time `json:"created_at"`
}
