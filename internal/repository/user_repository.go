package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Freeeeeet/tutor_center/internal/model"
	"github.com/Freeeeeet/tutor_center/internal/repository/base"
)

const userColumns = `
	u.id, u.fullname, u.phone, u.password_hash, u.role, u.learning_center_id,
	u.subject_id, u.photo_url, u.created_at, s.name
`

const userFrom = `
	FROM users u
	LEFT JOIN subjects s ON s.id = u.subject_id
`

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func scanUser(row pgx.Row) (*model.User, error) {
	var user model.User
	err := row.Scan(
		&user.ID,
		&user.Fullname,
		&user.Phone,
		&user.PasswordHash,
		&user.Role,
		&user.LearningCenterID,
		&user.SubjectID,
		&user.PhotoURL,
		&user.CreatedAt,
		&user.SubjectName,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Create создаёт нового пользователя. Телефон уникален в пределах центра (у админов глобально).
func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	query := `
		INSERT INTO users (fullname, phone, password_hash, role, learning_center_id, subject_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`

	err := r.pool.QueryRow(
		ctx, query,
		user.Fullname,
		user.Phone,
		user.PasswordHash,
		user.Role,
		user.LearningCenterID,
		user.SubjectID,
	).Scan(&user.ID, &user.CreatedAt)

	if err != nil {
		if base.IsUniqueViolation(err, "") {
			return ErrAlreadyExists
		}
		return fmt.Errorf("create user: %w", err)
	}

	return nil
}

// GetByID получает пользователя по ID
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	query := `SELECT ` + userColumns + userFrom + ` WHERE u.id = $1`

	user, err := scanUser(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user by id: %w", err)
	}

	return user, nil
}

// FindAdminByPhone ищет администратора по телефону (админы не привязаны к центру)
func (r *UserRepository) FindAdminByPhone(ctx context.Context, phone string) (*model.User, error) {
	query := `SELECT ` + userColumns + userFrom + ` WHERE u.phone = $1 AND u.role = 'admin'`

	user, err := scanUser(r.pool.QueryRow(ctx, query, phone))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("find admin by phone: %w", err)
	}

	return user, nil
}

// FindByPhoneInCenter ищет пользователя центра по телефону
func (r *UserRepository) FindByPhoneInCenter(ctx context.Context, centerID int64, phone string) (*model.User, error) {
	query := `SELECT ` + userColumns + userFrom + ` WHERE u.learning_center_id = $1 AND u.phone = $2`

	user, err := scanUser(r.pool.QueryRow(ctx, query, centerID, phone))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("find user by phone: %w", err)
	}

	return user, nil
}

// ListByCenterAndRole получает пользователей центра с заданной ролью
func (r *UserRepository) ListByCenterAndRole(ctx context.Context, centerID int64, role model.Role) ([]*model.User, error) {
	query := `SELECT ` + userColumns + userFrom + `
		WHERE u.learning_center_id = $1 AND u.role = $2
		ORDER BY u.fullname, u.id
	`

	return r.list(ctx, query, centerID, role)
}

// ListAssistantsBySubject получает ассистентов центра по предмету
func (r *UserRepository) ListAssistantsBySubject(ctx context.Context, centerID, subjectID int64) ([]*model.User, error) {
	query := `SELECT ` + userColumns + userFrom + `
		WHERE u.learning_center_id = $1 AND u.role = 'assistant' AND u.subject_id = $2
		ORDER BY u.fullname, u.id
	`

	return r.list(ctx, query, centerID, subjectID)
}

func (r *UserRepository) list(ctx context.Context, query string, args ...any) ([]*model.User, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []*model.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, user)
	}

	return users, rows.Err()
}

// UpdateProfile обновляет имя и предмет пользователя
func (r *UserRepository) UpdateProfile(ctx context.Context, id int64, fullname string, subjectID *int64) error {
	query := `
		UPDATE users
		SET fullname = $1, subject_id = $2
		WHERE id = $3
	`

	tag, err := r.pool.Exec(ctx, query, fullname, subjectID, id)
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("user %d not found", id)
	}

	return nil
}

// UpdatePassword сохраняет новый хеш пароля
func (r *UserRepository) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	tag, err := r.pool.Exec(ctx, `UPDATE users SET password_hash = $1 WHERE id = $2`, passwordHash, id)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("user %d not found", id)
	}

	return nil
}

// AdminExists проверяет есть ли в системе хотя бы один администратор
func (r *UserRepository) AdminExists(ctx context.Context) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE role = 'admin')`).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check admin exists: %w", err)
	}

	return exists, nil
}
