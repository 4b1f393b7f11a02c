package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/sos-alert/internal/models"
	"github.com/magabrotheeeer/sos-alert/internal/storage"
)

// CreateEvent дописывает SOS-событие в журнал и возвращает его ID.
func (s *Storage) CreateEvent(ctx context.Context, event models.SOSEvent) (int, error) {
	const op = "storage.CreateEvent"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO sos_events (username, message, created_at)
			  VALUES ($1, $2, $3)
			  RETURNING id`
	var newID int
	err := s.DB.QueryRowContext(ctx, query,
		event.Username, event.Message, event.Timestamp).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// ListEvents возвращает события пользователя в хронологическом порядке.
func (s *Storage) ListEvents(ctx context.Context, username string) ([]*models.SOSEvent, error) {
	const op = "storage.ListEvents"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, username, message, created_at
			  FROM sos_events
			  WHERE username = $1
			  ORDER BY id`
	rows, err := s.DB.QueryContext(ctx, query, username)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.SOSEvent
	for rows.Next() {
		var item models.SOSEvent
		if err := rows.Scan(&item.ID, &item.Username, &item.Message, &item.Timestamp); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// RemoveLastEvent снимает последнее событие пользователя и возвращает его.
// Пустой журнал даёт storage.ErrNotFound.
func (s *Storage) RemoveLastEvent(ctx context.Context, username string) (*models.SOSEvent, error) {
	const op = "storage.RemoveLastEvent"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM sos_events
			  WHERE id = (SELECT MAX(id) FROM sos_events WHERE username = $1)
			  RETURNING id, username, message, created_at`
	var event models.SOSEvent
	row := s.DB.QueryRowContext(ctx, query, username)
	if err := row.Scan(&event.ID, &event.Username, &event.Message, &event.Timestamp); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &event, nil
}

// ListAllEvents возвращает журналы всех пользователей, сгруппированные
// по username, события внутри группы — в хронологическом порядке.
func (s *Storage) ListAllEvents(ctx context.Context) (map[string][]*models.SOSEvent, error) {
	const op = "storage.ListAllEvents"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, username, message, created_at
			  FROM sos_events
			  ORDER BY username, id`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result := make(map[string][]*models.SOSEvent)
	for rows.Next() {
		var item models.SOSEvent
		if err := rows.Scan(&item.ID, &item.Username, &item.Message, &item.Timestamp); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result[item.Username] = append(result[item.Username], &item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
