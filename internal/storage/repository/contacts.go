package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/magabrotheeeer/sos-alert/internal/models"
	"github.com/magabrotheeeer/sos-alert/internal/storage"
)

// CreateContact вставляет новый экстренный контакт и возвращает его ID.
// Пара (username, phone) уникальна, дубликат даёт storage.ErrContactExists.
func (s *Storage) CreateContact(ctx context.Context, contact models.EmergencyContact) (int, error) {
	const op = "storage.CreateContact"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO emergency_contacts (username, name, phone, relationship)
			  VALUES ($1, $2, $3, $4)
			  RETURNING id`
	var newID int
	err := s.DB.QueryRowContext(ctx, query,
		contact.Username, contact.Name, contact.Phone, contact.Relationship).Scan(&newID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return 0, fmt.Errorf("%s: %w", op, storage.ErrContactExists)
		}
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// ListContacts возвращает контакты пользователя в порядке добавления.
func (s *Storage) ListContacts(ctx context.Context, username string) ([]*models.EmergencyContact, error) {
	const op = "storage.ListContacts"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, username, name, phone, relationship
			  FROM emergency_contacts
			  WHERE username = $1
			  ORDER BY id`
	rows, err := s.DB.QueryContext(ctx, query, username)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.EmergencyContact
	for rows.Next() {
		var item models.EmergencyContact
		if err := rows.Scan(&item.ID, &item.Username, &item.Name,
			&item.Phone, &item.Relationship); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// RemoveContact удаляет контакт по ID, если он принадлежит пользователю.
// Чужой или несуществующий ID даёт storage.ErrNotFound.
func (s *Storage) RemoveContact(ctx context.Context, username string, id int) error {
	const op = "storage.RemoveContact"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM emergency_contacts WHERE id = $1 AND username = $2`
	result, err := s.DB.ExecContext(ctx, query, id, username)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}
	return nil
}
