package model

import (
	"fmt"
	"math"
	"time"
)

const (
	MinScore = 1
	MaxScore = 5
)

// Scores пять измерений оценки занятия, каждое в диапазоне [1,5]
type Scores struct {
	Knowledge      int `json:"knowledge"`
	Communication  int `json:"communication"`
	Patience       int `json:"patience"`
	Engagement     int `json:"engagement"`
	ProblemSolving int `json:"problem_solving"`
}

// Validate returns an error naming the first dimension outside [MinScore, MaxScore].
func (s Scores) Validate() error {
	dims := []struct {
		name  string
		value int
	}{
		{"knowledge", s.Knowledge},
		{"communication", s.Communication},
		{"patience", s.Patience},
		{"engagement", s.Engagement},
		{"problem_solving", s.ProblemSolving},
	}
	for _, d := range dims {
		if d.value < MinScore || d.value > MaxScore {
			return fmt.Errorf("%s must be between %d and %d, got %d", d.name, MinScore, MaxScore, d.value)
		}
	}
	return nil
}

// Mean среднее по пяти измерениям
func (s Scores) Mean() float64 {
	sum := s.Knowledge + s.Communication + s.Patience + s.Engagement + s.ProblemSolving
	return float64(sum) / 5.0
}

// Rating отзыв студента о завершённом занятии. Не изменяется после создания.
type Rating struct {
	ID        int64 `json:"id"`
	SessionID int64 `json:"session_id"`
	Scores
	Comments  *string   `json:"comments"`
	CreatedAt time.Time `json:"created_at"`
}

// RoundRating rounds an average rating to two decimals.
func RoundRating(v float64) float64 {
	return math.Round(v*100) / 100
}
