package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Freeeeeet/tutor_center/internal/model"
	"github.com/Freeeeeet/tutor_center/internal/repository/base"
)

// StatsRepository агрегаты по центру только на чтение
type StatsRepository struct {
	*base.Repository
}

func NewStatsRepository(pool *pgxpool.Pool) *StatsRepository {
	return &StatsRepository{Repository: base.NewRepository(pool)}
}

// AssistantStats средняя оценка и число занятий каждого ассистента центра
func (r *StatsRepository) AssistantStats(ctx context.Context, centerID int64) ([]model.AssistantStats, error) {
	query := `
		SELECT u.id, u.fullname, sub.name, u.photo_url,
		       COALESCE((
		           SELECT AVG((r.knowledge + r.communication + r.patience + r.engagement + r.problem_solving) / 5.0)
		           FROM ratings r
		           JOIN sessions s ON s.id = r.session_id
		           WHERE s.assistant_id = u.id
		       ), 0)::float8,
		       (SELECT COUNT(*) FROM sessions s WHERE s.assistant_id = u.id)
		FROM users u
		LEFT JOIN subjects sub ON sub.id = u.subject_id
		WHERE u.learning_center_id = $1 AND u.role = 'assistant'
		ORDER BY u.fullname, u.id
	`

	rows, err := r.Query(ctx, query, centerID)
	if err != nil {
		return nil, fmt.Errorf("assistant stats: %w", err)
	}
	defer rows.Close()

	var stats []model.AssistantStats
	for rows.Next() {
		var s model.AssistantStats
		if err := rows.Scan(&s.AssistantID, &s.Fullname, &s.Subject, &s.PhotoURL, &s.AvgRating, &s.TotalSessions); err != nil {
			return nil, fmt.Errorf("scan assistant stats: %w", err)
		}
		s.AvgRating = model.RoundRating(s.AvgRating)
		stats = append(stats, s)
	}

	return stats, rows.Err()
}

// PopularSubjects число бронирований по предмету ассистента
func (r *StatsRepository) PopularSubjects(ctx context.Context, centerID int64) ([]model.SubjectPopularity, error) {
	query := `
		SELECT sub.name, COUNT(s.id)
		FROM sessions s
		JOIN users u ON u.id = s.assistant_id
		LEFT JOIN subjects sub ON sub.id = u.subject_id
		WHERE u.learning_center_id = $1
		GROUP BY sub.name
		ORDER BY COUNT(s.id) DESC, sub.name
	`

	rows, err := r.Query(ctx, query, centerID)
	if err != nil {
		return nil, fmt.Errorf("popular subjects: %w", err)
	}
	defer rows.Close()

	var subjects []model.SubjectPopularity
	for rows.Next() {
		var s model.SubjectPopularity
		if err := rows.Scan(&s.Subject, &s.BookingCount); err != nil {
			return nil, fmt.Errorf("scan popular subject: %w", err)
		}
		subjects = append(subjects, s)
	}

	return subjects, rows.Err()
}

// PeakHours число занятий по часу начала
func (r *StatsRepository) PeakHours(ctx context.Context, centerID int64) ([]model.PeakHour, error) {
	query := `
		SELECT EXTRACT(HOUR FROM s.scheduled_at)::int AS hour, COUNT(s.id)
		FROM sessions s
		JOIN users u ON u.id = s.assistant_id
		WHERE u.learning_center_id = $1
		GROUP BY hour
		ORDER BY hour
	`

	rows, err := r.Query(ctx, query, centerID)
	if err != nil {
		return nil, fmt.Errorf("peak hours: %w", err)
	}
	defer rows.Close()

	var hours []model.PeakHour
	for rows.Next() {
		var h model.PeakHour
		if err := rows.Scan(&h.Hour, &h.SessionCount); err != nil {
			return nil, fmt.Errorf("scan peak hour: %w", err)
		}
		hours = append(hours, h)
	}

	return hours, rows.Err()
}

// Totals итоги центра: занятия за [monthStart, monthEnd), студенты и ассистенты
func (r *StatsRepository) Totals(ctx context.Context, centerID int64, monthStart, monthEnd time.Time) (model.CenterTotals, error) {
	query := `
		SELECT
			(SELECT COUNT(*)
			 FROM sessions s
			 JOIN users u ON u.id = s.assistant_id
			 WHERE u.learning_center_id = $1 AND s.scheduled_at >= $2 AND s.scheduled_at < $3),
			(SELECT COUNT(*) FROM users WHERE learning_center_id = $1 AND role = 'student'),
			(SELECT COUNT(*) FROM users WHERE learning_center_id = $1 AND role = 'assistant')
	`

	var totals model.CenterTotals
	err := r.QueryRow(ctx, query, centerID, monthStart, monthEnd).Scan(
		&totals.SessionsThisMonth,
		&totals.ActiveStudents,
		&totals.ActiveAssistants,
	)
	if err != nil {
		return model.CenterTotals{}, fmt.Errorf("center totals: %w", err)
	}

	return totals, nil
}
