package storage

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/carwash-aggregator/internal/models"
)

// ListTimeSlots возвращает статический каталог слотов записи.
// Доступность с учётом буфера здесь не считается — это работа движка.
func (s *Storage) ListTimeSlots(ctx context.Context) ([]models.TimeSlot, error) {
	const op = "storage.ListTimeSlots"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, slot_time, period, base_available
			  FROM time_slots
			  ORDER BY id`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = rows.Close() }()

	var result []models.TimeSlot
	for rows.Next() {
		var item models.TimeSlot
		if err := rows.Scan(&item.ID, &item.Time, &item.Period, &item.BaseAvailable); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
