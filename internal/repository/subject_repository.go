package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Freeeeeet/tutor_center/internal/model"
	"github.com/Freeeeeet/tutor_center/internal/repository/base"
)

type SubjectRepository struct {
	pool *pgxpool.Pool
}

func NewSubjectRepository(pool *pgxpool.Pool) *SubjectRepository {
	return &SubjectRepository{pool: pool}
}

// Create создаёт новый предмет в центре
func (r *SubjectRepository) Create(ctx context.Context, subject *model.Subject) error {
	query := `
		INSERT INTO subjects (learning_center_id, name)
		VALUES ($1, $2)
		RETURNING id, created_at
	`

	err := r.pool.QueryRow(ctx, query, subject.LearningCenterID, subject.Name).Scan(&subject.ID, &subject.CreatedAt)
	if err != nil {
		if base.IsUniqueViolation(err, "") {
			return ErrAlreadyExists
		}
		return fmt.Errorf("create subject: %w", err)
	}

	return nil
}

// GetByID получает предмет по ID
func (r *SubjectRepository) GetByID(ctx context.Context, id int64) (*model.Subject, error) {
	query := `
		SELECT id, learning_center_id, name, created_at
		FROM subjects
		WHERE id = $1
	`

	var subject model.Subject
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&subject.ID,
		&subject.LearningCenterID,
		&subject.Name,
		&subject.CreatedAt,
	)
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get subject by id: %w", err)
	}

	return &subject, nil
}

// ListByCenter получает все предметы центра
func (r *SubjectRepository) ListByCenter(ctx context.Context, centerID int64) ([]*model.Subject, error) {
	query := `
		SELECT id, learning_center_id, name, created_at
		FROM subjects
		WHERE learning_center_id = $1
		ORDER BY name
	`

	rows, err := r.pool.Query(ctx, query, centerID)
	if err != nil {
		return nil, fmt.Errorf("list subjects: %w", err)
	}
	defer rows.Close()

	var subjects []*model.Subject
	for rows.Next() {
		var subject model.Subject
		if err := rows.Scan(&subject.ID, &subject.LearningCenterID, &subject.Name, &subject.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan subject: %w", err)
		}
		subjects = append(subjects, &subject)
	}

	return subjects, rows.Err()
}

// Rename переименовывает предмет. Пользователи ссылаются по ID, поэтому это одна строка.
func (r *SubjectRepository) Rename(ctx context.Context, id int64, name string) error {
	affected, err := base.NewRepository(r.pool).ExecAffected(ctx, `UPDATE subjects SET name = $1 WHERE id = $2`, name, id)
	if err != nil {
		if base.IsUniqueViolation(err, "") {
			return ErrAlreadyExists
		}
		return fmt.Errorf("rename subject: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("subject %d not found", id)
	}

	return nil
}
