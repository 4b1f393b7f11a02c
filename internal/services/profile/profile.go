// Package profile содержит бизнес-логику профилей здоровья с кешированием.
package profile

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/sos-alert/internal/models"
)

// ProfileRepository контракт хранилища профилей.
type ProfileRepository interface {
	// UpsertProfile создаёт профиль или целиком заменяет существующий.
	UpsertProfile(ctx context.Context, profile models.HealthProfile) error
	// GetProfile возвращает профиль либо storage.ErrNotFound.
	GetProfile(ctx context.Context, username string) (*models.HealthProfile, error)
	// ListAllProfiles возвращает профили всех пользователей.
	ListAllProfiles(ctx context.Context) (map[string]*models.HealthProfile, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
	Invalidate(key string) error
}

// Service реализует операции с профилем здоровья.
type Service struct {
	repo  ProfileRepository
	cache Cache
	log   *slog.Logger
}

// New создает новый экземпляр Service.
func New(repo ProfileRepository, cache Cache, log *slog.Logger) *Service {
	return &Service{
		repo:  repo,
		cache: cache,
		log:   log,
	}
}

func cacheKey(username string) string {
	return fmt.Sprintf("profile:%s", username)
}

// Upsert целиком заменяет профиль пользователя и обновляет кеш.
// Частичного слияния полей нет: что пришло, то и хранится.
func (s *Service) Upsert(ctx context.Context, username string, req models.DummyProfile) error {
	const op = "services.profile.Upsert"

	profile := models.HealthProfile{
		Username:         username,
		Age:              req.Age,
		BloodGroup:       req.BloodGroup,
		HealthConditions: req.HealthConditions,
		Allergies:        req.Allergies,
	}
	if err := s.repo.UpsertProfile(ctx, profile); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("upserted health profile")

	key := cacheKey(username)
	if err := s.cache.Set(key, profile, time.Hour); err != nil {
		s.log.Warn("failed to cache profile", slog.String("key", key), slog.Any("err", err))
	}
	return nil
}

// Get возвращает профиль пользователя, используя кеш или репозиторий.
func (s *Service) Get(ctx context.Context, username string) (*models.HealthProfile, error) {
	const op = "services.profile.Get"

	var result *models.HealthProfile
	key := cacheKey(username)
	found, err := s.cache.Get(key, &result)
	if err != nil {
		s.log.Warn("failed to read profile cache", slog.String("key", key), slog.Any("err", err))
	}
	if found && result != nil {
		return result, nil
	}

	result, err = s.repo.GetProfile(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := s.cache.Set(key, result, time.Hour); err != nil {
		s.log.Warn("failed to cache profile", slog.String("key", key), slog.Any("err", err))
	}
	return result, nil
}

// ListAll возвращает профили всех пользователей. Доступ ограничен
// capability-гейтом на уровне маршрута.
func (s *Service) ListAll(ctx context.Context) (map[string]*models.HealthProfile, error) {
	const op = "services.profile.ListAll"

	profiles, err := s.repo.ListAllProfiles(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return profiles, nil
}
