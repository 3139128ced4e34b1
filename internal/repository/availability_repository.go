package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Freeeeeet/tutor_center/internal/model"
	"github.com/Freeeeeet/tutor_center/internal/repository/base"
)

type AvailabilityRepository struct {
	*base.Repository
	pool *pgxpool.Pool
}

func NewAvailabilityRepository(pool *pgxpool.Pool) *AvailabilityRepository {
	return &AvailabilityRepository{Repository: base.NewRepository(pool), pool: pool}
}

// withTx возвращает копию репозитория, работающую внутри транзакции
func (r *AvailabilityRepository) withTx(tx pgx.Tx) *AvailabilityRepository {
	return &AvailabilityRepository{Repository: base.NewRepository(tx), pool: r.pool}
}

const slotColumns = `id, assistant_id, date, time_slot, status, created_at`

func scanSlot(row pgx.Row) (*model.AvailabilitySlot, error) {
	var slot model.AvailabilitySlot
	err := row.Scan(
		&slot.ID,
		&slot.AssistantID,
		&slot.Date,
		&slot.TimeSlot,
		&slot.Status,
		&slot.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &slot, nil
}

// Publish публикует расписание ассистента на дату.
// Свободные слоты даты заменяются новыми метками, забронированные не трогаются:
// метка, уже занятая бронью, остаётся booked.
func (r *AvailabilityRepository) Publish(ctx context.Context, assistantID int64, date time.Time, labels []string) error {
	return base.InTx(ctx, r.pool, pgx.TxOptions{}, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			DELETE FROM availability_slots
			WHERE assistant_id = $1 AND date = $2 AND status = 'available'
		`, assistantID, date)
		if err != nil {
			return fmt.Errorf("delete available slots: %w", err)
		}

		if len(labels) == 0 {
			return nil
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO availability_slots (assistant_id, date, time_slot, status)
			SELECT $1, $2, label, 'available'
			FROM unnest($3::text[]) AS label
			ON CONFLICT (assistant_id, date, time_slot) DO NOTHING
		`, assistantID, date, labels)
		if err != nil {
			return fmt.Errorf("insert slots: %w", err)
		}

		return nil
	})
}

// ListByAssistant получает все слоты ассистента, упорядоченные по дате и времени
func (r *AvailabilityRepository) ListByAssistant(ctx context.Context, assistantID int64) ([]*model.AvailabilitySlot, error) {
	query := `SELECT ` + slotColumns + `
		FROM availability_slots
		WHERE assistant_id = $1
		ORDER BY date, time_slot
	`

	return r.list(ctx, query, assistantID)
}

// ListAvailable получает до limit свободных слотов ассистента
func (r *AvailabilityRepository) ListAvailable(ctx context.Context, assistantID int64, limit int) ([]*model.AvailabilitySlot, error) {
	query := `SELECT ` + slotColumns + `
		FROM availability_slots
		WHERE assistant_id = $1 AND status = 'available'
		ORDER BY date, time_slot
		LIMIT $2
	`

	return r.list(ctx, query, assistantID, limit)
}

func (r *AvailabilityRepository) list(ctx context.Context, query string, args ...any) ([]*model.AvailabilitySlot, error) {
	rows, err := r.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list slots: %w", err)
	}
	defer rows.Close()

	var slots []*model.AvailabilitySlot
	for rows.Next() {
		slot, err := scanSlot(rows)
		if err != nil {
			return nil, fmt.Errorf("scan slot: %w", err)
		}
		slots = append(slots, slot)
	}

	return slots, rows.Err()
}

// TryReserve атомарно переводит свободный слот в booked.
// Возвращает (nil, nil), если слота нет или он уже занят.
func (r *AvailabilityRepository) TryReserve(ctx context.Context, assistantID int64, date time.Time, label string) (*model.AvailabilitySlot, error) {
	query := `
		UPDATE availability_slots
		SET status = 'booked'
		WHERE assistant_id = $1 AND date = $2 AND time_slot = $3 AND status = 'available'
		RETURNING ` + slotColumns

	slot, err := scanSlot(r.QueryRow(ctx, query, assistantID, date, label))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reserve slot: %w", err)
	}

	return slot, nil
}
