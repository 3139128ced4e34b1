package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Freeeeeet/tutor_center/internal/model"
	"github.com/Freeeeeet/tutor_center/internal/repository/base"
)

const sessionStudentTimeKey = "sessions_student_id_scheduled_at_key"

type SessionRepository struct {
	pool  *pgxpool.Pool
	slots *AvailabilityRepository
}

func NewSessionRepository(pool *pgxpool.Pool, slots *AvailabilityRepository) *SessionRepository {
	return &SessionRepository{pool: pool, slots: slots}
}

const sessionColumns = `id, student_id, assistant_id, scheduled_at, status, attendance, created_at`

func scanSession(row pgx.Row) (*model.Session, error) {
	var session model.Session
	err := row.Scan(
		&session.ID,
		&session.StudentID,
		&session.AssistantID,
		&session.ScheduledAt,
		&session.Status,
		&session.Attendance,
		&session.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// Book бронирует слот ассистента и создаёт занятие в одной транзакции.
// Слот переводится в booked условным UPDATE, поэтому из параллельных
// попыток забронировать один слот успешна ровно одна.
func (r *SessionRepository) Book(ctx context.Context, studentID, assistantID int64, when time.Time) (*model.Session, error) {
	scheduledAt := model.NormalizeWhen(when)
	date, label := model.SplitWhen(scheduledAt)

	var session *model.Session
	err := base.InTx(ctx, r.pool, pgx.TxOptions{IsoLevel: pgx.ReadCommitted}, func(tx pgx.Tx) error {
		slot, err := r.slots.withTx(tx).TryReserve(ctx, assistantID, date, label)
		if err != nil {
			return err
		}
		if slot == nil {
			return ErrSlotUnavailable
		}

		var exists bool
		err = tx.QueryRow(ctx, `
			SELECT EXISTS(SELECT 1 FROM sessions WHERE student_id = $1 AND scheduled_at = $2)
		`, studentID, scheduledAt).Scan(&exists)
		if err != nil {
			return fmt.Errorf("check student session: %w", err)
		}
		if exists {
			return ErrDuplicateBooking
		}

		session, err = scanSession(tx.QueryRow(ctx, `
			INSERT INTO sessions (student_id, assistant_id, scheduled_at, status)
			VALUES ($1, $2, $3, 'booked')
			RETURNING `+sessionColumns,
			studentID, assistantID, scheduledAt,
		))
		if err != nil {
			return fmt.Errorf("insert session: %w", err)
		}

		return nil
	})

	switch {
	case err == nil:
		return session, nil
	case errors.Is(err, ErrSlotUnavailable), errors.Is(err, ErrDuplicateBooking):
		return nil, err
	case base.IsUniqueViolation(err, sessionStudentTimeKey):
		return nil, ErrDuplicateBooking
	case base.IsRetryable(err):
		return nil, fmt.Errorf("%w: %v", ErrTxConflict, err)
	default:
		return nil, fmt.Errorf("book session: %w", err)
	}
}

// GetByID получает занятие по ID
func (r *SessionRepository) GetByID(ctx context.Context, id int64) (*model.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions WHERE id = $1`

	session, err := scanSession(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get session by id: %w", err)
	}

	return session, nil
}

// MarkAttendance записывает посещаемость и завершает занятие
func (r *SessionRepository) MarkAttendance(ctx context.Context, id int64, attendance model.Attendance) (*model.Session, error) {
	query := `
		UPDATE sessions
		SET attendance = $1, status = 'completed'
		WHERE id = $2
		RETURNING ` + sessionColumns

	session, err := scanSession(r.pool.QueryRow(ctx, query, attendance, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("mark attendance: %w", err)
	}

	return session, nil
}

func periodFilter(period model.Period) (cond, order string) {
	if period == model.PeriodPast {
		return "s.scheduled_at < $2", "s.scheduled_at DESC"
	}
	return "s.scheduled_at >= $2", "s.scheduled_at ASC"
}

const assistantViewSelect = `
	SELECT s.id, s.scheduled_at, s.status, u.id, u.fullname, u.phone, u.photo_url, s.attendance
	FROM sessions s
	JOIN users u ON u.id = s.student_id
`

// ListByAssistant получает занятия ассистента до или после now
func (r *SessionRepository) ListByAssistant(ctx context.Context, assistantID int64, period model.Period, now time.Time) ([]*model.AssistantSessionView, error) {
	cond, order := periodFilter(period)
	query := assistantViewSelect + `WHERE s.assistant_id = $1 AND ` + cond + ` ORDER BY ` + order + `, s.id`

	return r.listAssistantViews(ctx, query, assistantID, model.NormalizeWhen(now))
}

// ListAtInstant получает студентов, записанных к ассистенту на конкретное время
func (r *SessionRepository) ListAtInstant(ctx context.Context, assistantID int64, at time.Time) ([]*model.AssistantSessionView, error) {
	query := assistantViewSelect + `WHERE s.assistant_id = $1 AND s.scheduled_at = $2 ORDER BY s.id`

	return r.listAssistantViews(ctx, query, assistantID, model.NormalizeWhen(at))
}

func (r *SessionRepository) listAssistantViews(ctx context.Context, query string, args ...any) ([]*model.AssistantSessionView, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list assistant sessions: %w", err)
	}
	defer rows.Close()

	var views []*model.AssistantSessionView
	for rows.Next() {
		var v model.AssistantSessionView
		err := rows.Scan(
			&v.SessionID,
			&v.ScheduledAt,
			&v.Status,
			&v.StudentID,
			&v.StudentName,
			&v.StudentPhone,
			&v.StudentPhoto,
			&v.Attendance,
		)
		if err != nil {
			return nil, fmt.Errorf("scan assistant session: %w", err)
		}
		views = append(views, &v)
	}

	return views, rows.Err()
}

// ListByStudent получает занятия студента вместе с его оценкой, если она есть
func (r *SessionRepository) ListByStudent(ctx context.Context, studentID int64, period model.Period, now time.Time) ([]*model.StudentSessionView, error) {
	cond, order := periodFilter(period)
	query := `
		SELECT s.id, s.scheduled_at, s.status, u.id, u.fullname, u.photo_url, s.attendance,
		       r.id, r.knowledge, r.communication, r.patience, r.engagement, r.problem_solving,
		       r.comments, r.created_at
		FROM sessions s
		JOIN users u ON u.id = s.assistant_id
		LEFT JOIN ratings r ON r.session_id = s.id
		WHERE s.student_id = $1 AND ` + cond + `
		ORDER BY ` + order + `, s.id`

	rows, err := r.pool.Query(ctx, query, studentID, model.NormalizeWhen(now))
	if err != nil {
		return nil, fmt.Errorf("list student sessions: %w", err)
	}
	defer rows.Close()

	var views []*model.StudentSessionView
	for rows.Next() {
		var (
			v                             model.StudentSessionView
			ratingID                      *int64
			knowledge, communication      *int
			patience, engagement, solving *int
			comments                      *string
			ratedAt                       *time.Time
		)
		err := rows.Scan(
			&v.SessionID,
			&v.ScheduledAt,
			&v.Status,
			&v.AssistantID,
			&v.AssistantName,
			&v.AssistantPhoto,
			&v.Attendance,
			&ratingID,
			&knowledge,
			&communication,
			&patience,
			&engagement,
			&solving,
			&comments,
			&ratedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan student session: %w", err)
		}

		if ratingID != nil {
			v.MyRating = &model.Rating{
				ID:        *ratingID,
				SessionID: v.SessionID,
				Scores: model.Scores{
					Knowledge:      *knowledge,
					Communication:  *communication,
					Patience:       *patience,
					Engagement:     *engagement,
					ProblemSolving: *solving,
				},
				Comments:  comments,
				CreatedAt: *ratedAt,
			}
		}
		views = append(views, &v)
	}

	return views, rows.Err()
}
