package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Freeeeeet/tutor_center/internal/model"
	"github.com/Freeeeeet/tutor_center/internal/repository/base"
)

type CenterRepository struct {
	pool *pgxpool.Pool
}

func NewCenterRepository(pool *pgxpool.Pool) *CenterRepository {
	return &CenterRepository{pool: pool}
}

// Create создаёт учебный центр. Имя уникально.
func (r *CenterRepository) Create(ctx context.Context, center *model.LearningCenter) error {
	query := `
		INSERT INTO learning_centers (name)
		VALUES ($1)
		RETURNING id, created_at
	`

	err := r.pool.QueryRow(ctx, query, center.Name).Scan(&center.ID, &center.CreatedAt)
	if err != nil {
		if base.IsUniqueViolation(err, "") {
			return ErrAlreadyExists
		}
		return fmt.Errorf("create center: %w", err)
	}

	return nil
}

// GetByID получает центр по ID
func (r *CenterRepository) GetByID(ctx context.Context, id int64) (*model.LearningCenter, error) {
	query := `SELECT id, name, created_at FROM learning_centers WHERE id = $1`

	var center model.LearningCenter
	err := r.pool.QueryRow(ctx, query, id).Scan(&center.ID, &center.Name, &center.CreatedAt)
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get center by id: %w", err)
	}

	return &center, nil
}

// List возвращает все центры с количеством пользователей
func (r *CenterRepository) List(ctx context.Context) ([]*model.CenterSummary, error) {
	query := `
		SELECT c.id, c.name, c.created_at, COUNT(u.id)
		FROM learning_centers c
		LEFT JOIN users u ON u.learning_center_id = c.id
		GROUP BY c.id
		ORDER BY c.id
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list centers: %w", err)
	}
	defer rows.Close()

	var centers []*model.CenterSummary
	for rows.Next() {
		var c model.CenterSummary
		if err := rows.Scan(&c.ID, &c.Name, &c.CreatedAt, &c.TotalUsers); err != nil {
			return nil, fmt.Errorf("scan center: %w", err)
		}
		centers = append(centers, &c)
	}

	return centers, rows.Err()
}

// Delete удаляет центр, только если в нём нет пользователей.
// Возвращает false, если центра не существует.
func (r *CenterRepository) Delete(ctx context.Context, id int64) (bool, error) {
	query := `
		DELETE FROM learning_centers c
		WHERE c.id = $1
		  AND NOT EXISTS (SELECT 1 FROM users u WHERE u.learning_center_id = c.id)
	`

	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		if base.IsForeignKeyViolation(err) {
			return false, ErrCenterNotEmpty
		}
		return false, fmt.Errorf("delete center: %w", err)
	}
	if tag.RowsAffected() == 1 {
		return true, nil
	}

	// Строка не удалена: либо центра нет, либо в нём есть пользователи
	center, err := r.GetByID(ctx, id)
	if err != nil {
		return false, err
	}
	if center == nil {
		return false, nil
	}
	return false, ErrCenterNotEmpty
}
