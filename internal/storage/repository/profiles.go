package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/magabrotheeeer/sos-alert/internal/models"
	"github.com/magabrotheeeer/sos-alert/internal/storage"
)

// Списки условий и аллергий хранятся одной текстовой колонкой через запятую.
func joinList(items []string) string {
	return strings.Join(items, ",")
}

func splitList(value string) []string {
	if value == "" {
		return nil
	}
	return strings.Split(value, ",")
}

// UpsertProfile создаёт профиль здоровья пользователя или целиком заменяет
// существующий.
func (s *Storage) UpsertProfile(ctx context.Context, profile models.HealthProfile) error {
	const op = "storage.UpsertProfile"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO health_profiles (username, age, blood_group, health_conditions, allergies)
			  VALUES ($1, $2, $3, $4, $5)
			  ON CONFLICT (username) DO UPDATE
			  SET age = EXCLUDED.age,
			      blood_group = EXCLUDED.blood_group,
			      health_conditions = EXCLUDED.health_conditions,
			      allergies = EXCLUDED.allergies`
	_, err := s.DB.ExecContext(ctx, query,
		profile.Username, profile.Age, profile.BloodGroup,
		joinList(profile.HealthConditions), joinList(profile.Allergies))
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// GetProfile возвращает профиль здоровья пользователя либо storage.ErrNotFound.
func (s *Storage) GetProfile(ctx context.Context, username string) (*models.HealthProfile, error) {
	const op = "storage.GetProfile"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT username, age, blood_group, health_conditions, allergies
			  FROM health_profiles
			  WHERE username = $1`
	row := s.DB.QueryRowContext(ctx, query, username)

	var profile models.HealthProfile
	var conditions, allergies string
	if err := row.Scan(&profile.Username, &profile.Age, &profile.BloodGroup,
		&conditions, &allergies); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	profile.HealthConditions = splitList(conditions)
	profile.Allergies = splitList(allergies)
	return &profile, nil
}

// ListAllProfiles возвращает профили всех пользователей по username.
func (s *Storage) ListAllProfiles(ctx context.Context) (map[string]*models.HealthProfile, error) {
	const op = "storage.ListAllProfiles"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT username, age, blood_group, health_conditions, allergies
			  FROM health_profiles
			  ORDER BY username`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result := make(map[string]*models.HealthProfile)
	for rows.Next() {
		var profile models.HealthProfile
		var conditions, allergies string
		if err := rows.Scan(&profile.Username, &profile.Age, &profile.BloodGroup,
			&conditions, &allergies); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		profile.HealthConditions = splitList(conditions)
		profile.Allergies = splitList(allergies)
		result[profile.Username] = &profile
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
