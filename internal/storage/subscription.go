package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/magabrotheeeer/carwash-aggregator/internal/models"
)

// CreateSubscription вставляет новый абонемент и возвращает его ID.
func (s *Storage) CreateSubscription(ctx context.Context, sub models.Subscription) (string, error) {
	const op = "storage.CreateSubscription"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO subscriptions (id, username, car_plate, start_date, end_date,
			      services_completed, services_total, status)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			  RETURNING id`
	var newID string
	err := s.DB.QueryRowContext(ctx, query,
		sub.ID, sub.Username, sub.CarPlate, sub.StartDate, sub.EndDate,
		sub.ServicesCompleted, sub.ServicesTotal, sub.Status).Scan(&newID)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// ReadSubscription возвращает абонемент по ID вместе с назначенным мойщиком,
// историей выполненных моек и купленными дополнительными услугами.
func (s *Storage) ReadSubscription(ctx context.Context, id string) (*models.Subscription, error) {
	const op = "storage.ReadSubscription"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT s.id, s.username, s.car_plate, s.start_date, s.end_date,
				s.services_completed, s.services_total, s.status,
				w.id, w.name, w.phone
			  FROM subscriptions s
			  LEFT JOIN workers w ON w.id = s.worker_id
			  WHERE s.id = $1`
	row := s.DB.QueryRowContext(ctx, query, id)

	var result models.Subscription
	var workerID, workerName, workerPhone sql.NullString
	err := row.Scan(&result.ID, &result.Username, &result.CarPlate, &result.StartDate,
		&result.EndDate, &result.ServicesCompleted, &result.ServicesTotal, &result.Status,
		&workerID, &workerName, &workerPhone)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if workerID.Valid {
		result.Worker = &models.Worker{
			ID:    workerID.String,
			Name:  workerName.String,
			Phone: workerPhone.String,
		}
	}

	if result.History, err = s.listServiceHistory(ctx, id); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if result.Addons, err = s.listAddons(ctx, id); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &result, nil
}

func (s *Storage) listServiceHistory(ctx context.Context, subscriptionID string) ([]models.HistoryEntry, error) {
	query := `SELECT service_date FROM service_history
			  WHERE subscription_id = $1
			  ORDER BY service_date`
	rows, err := s.DB.QueryContext(ctx, query, subscriptionID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var result []models.HistoryEntry
	for rows.Next() {
		var item models.HistoryEntry
		if err := rows.Scan(&item.Date); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	return result, rows.Err()
}

func (s *Storage) listAddons(ctx context.Context, subscriptionID string) ([]models.Addon, error) {
	query := `SELECT name, price, service_date, date_added FROM subscription_addons
			  WHERE subscription_id = $1
			  ORDER BY id`
	rows, err := s.DB.QueryContext(ctx, query, subscriptionID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var result []models.Addon
	for rows.Next() {
		var item models.Addon
		var serviceDate sql.NullTime
		if err := rows.Scan(&item.Name, &item.Price, &serviceDate, &item.DateAdded); err != nil {
			return nil, err
		}
		if serviceDate.Valid {
			d := serviceDate.Time
			item.ServiceDate = &d
		}
		result = append(result, item)
	}
	return result, rows.Err()
}

// ListSubscriptions возвращает абонементы пользователя с пагинацией.
// История и услуги не загружаются — списочные экраны обходятся
// счётчиками и быстрым расчётом даты следующей мойки.
func (s *Storage) ListSubscriptions(ctx context.Context, username string, limit, offset int) ([]*models.Subscription, error) {
	const op = "storage.ListSubscriptions"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, username, car_plate, start_date, end_date,
				services_completed, services_total, status
			  FROM subscriptions
			  WHERE username = $1
			  ORDER BY start_date DESC
			  LIMIT $2 OFFSET $3`
	return s.querySubscriptions(ctx, op, query, username, limit, offset)
}

// ListAllSubscriptions возвращает все абонементы с пагинацией (экран администратора).
func (s *Storage) ListAllSubscriptions(ctx context.Context, limit, offset int) ([]*models.Subscription, error) {
	const op = "storage.ListAllSubscriptions"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, username, car_plate, start_date, end_date,
				services_completed, services_total, status
			  FROM subscriptions
			  ORDER BY start_date DESC
			  LIMIT $1 OFFSET $2`
	return s.querySubscriptions(ctx, op, query, limit, offset)
}

func (s *Storage) querySubscriptions(ctx context.Context, op, query string, args ...any) ([]*models.Subscription, error) {
	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = rows.Close() }()

	var result []*models.Subscription
	for rows.Next() {
		var item models.Subscription
		if err := rows.Scan(&item.ID, &item.Username, &item.CarPlate, &item.StartDate,
			&item.EndDate, &item.ServicesCompleted, &item.ServicesTotal, &item.Status); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// AssignWorker сохраняет мойщика и закрепляет его за абонементом.
func (s *Storage) AssignWorker(ctx context.Context, subscriptionID string, worker models.Worker) error {
	const op = "storage.AssignWorker"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `INSERT INTO workers (id, name, phone)
			  VALUES ($1, $2, $3)
			  ON CONFLICT (id) DO UPDATE SET name = $2, phone = $3`,
		worker.ID, worker.Name, worker.Phone)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	result, err := tx.ExecContext(ctx,
		`UPDATE subscriptions SET worker_id = $1 WHERE id = $2`,
		worker.ID, subscriptionID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// MarkServiceDone записывает выполненную мойку за дату day и увеличивает
// счётчик выполненных моек ровно на единицу, одной транзакцией.
//
// Уникальный индекс по (subscription_id, service_date) превращает повторную
// отметку за тот же день в ErrDuplicateServiceDate — в том числе при гонке
// двух клиентов с устаревшими снимками.
func (s *Storage) MarkServiceDone(ctx context.Context, subscriptionID string, day time.Time) error {
	const op = "storage.MarkServiceDone"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO service_history (subscription_id, service_date) VALUES ($1, $2)`,
		subscriptionID, day)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return fmt.Errorf("%s: %w", op, ErrDuplicateServiceDate)
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	result, err := tx.ExecContext(ctx,
		`UPDATE subscriptions
		 SET services_completed = services_completed + 1,
		     status = CASE WHEN services_completed + 1 >= services_total
		                   THEN 'completed' ELSE 'ongoing' END
		 WHERE id = $1`,
		subscriptionID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// CreateAddon сохраняет купленную дополнительную услугу и возвращает её ID.
func (s *Storage) CreateAddon(ctx context.Context, subscriptionID string, addon models.Addon) (int, error) {
	const op = "storage.CreateAddon"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO subscription_addons (subscription_id, name, price, service_date, date_added)
			  VALUES ($1, $2, $3, $4, $5)
			  RETURNING id`
	var newID int
	err := s.DB.QueryRowContext(ctx, query,
		subscriptionID, addon.Name, addon.Price, addon.ServiceDate, addon.DateAdded).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}
