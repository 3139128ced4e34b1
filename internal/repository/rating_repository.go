package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Freeeeeet/tutor_center/internal/model"
	"github.com/Freeeeeet/tutor_center/internal/repository/base"
)

const ratingSessionKey = "ratings_session_id_key"

type RatingRepository struct {
	pool *pgxpool.Pool
}

func NewRatingRepository(pool *pgxpool.Pool) *RatingRepository {
	return &RatingRepository{pool: pool}
}

// Create сохраняет оценку занятия. На повторную оценку того же занятия возвращает ErrAlreadyRated.
func (r *RatingRepository) Create(ctx context.Context, rating *model.Rating) error {
	query := `
		INSERT INTO ratings (session_id, knowledge, communication, patience, engagement, problem_solving, comments)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`

	err := r.pool.QueryRow(
		ctx, query,
		rating.SessionID,
		rating.Knowledge,
		rating.Communication,
		rating.Patience,
		rating.Engagement,
		rating.ProblemSolving,
		rating.Comments,
	).Scan(&rating.ID, &rating.CreatedAt)

	if err != nil {
		if base.IsUniqueViolation(err, ratingSessionKey) {
			return ErrAlreadyRated
		}
		return fmt.Errorf("create rating: %w", err)
	}

	return nil
}

// GetBySessionID получает оценку занятия
func (r *RatingRepository) GetBySessionID(ctx context.Context, sessionID int64) (*model.Rating, error) {
	query := `
		SELECT id, session_id, knowledge, communication, patience, engagement, problem_solving, comments, created_at
		FROM ratings
		WHERE session_id = $1
	`

	var rating model.Rating
	err := r.pool.QueryRow(ctx, query, sessionID).Scan(
		&rating.ID,
		&rating.SessionID,
		&rating.Knowledge,
		&rating.Communication,
		&rating.Patience,
		&rating.Engagement,
		&rating.ProblemSolving,
		&rating.Comments,
		&rating.CreatedAt,
	)
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get rating: %w", err)
	}

	return &rating, nil
}

// AverageForAssistant средняя оценка ассистента (среднее средних по пяти измерениям), 0 если оценок нет
func (r *RatingRepository) AverageForAssistant(ctx context.Context, assistantID int64) (float64, error) {
	query := `
		SELECT COALESCE(AVG((r.knowledge + r.communication + r.patience + r.engagement + r.problem_solving) / 5.0), 0)::float8
		FROM ratings r
		JOIN sessions s ON s.id = r.session_id
		WHERE s.assistant_id = $1
	`

	var avg float64
	if err := r.pool.QueryRow(ctx, query, assistantID).Scan(&avg); err != nil {
		return 0, fmt.Errorf("average rating: %w", err)
	}

	return model.RoundRating(avg), nil
}
