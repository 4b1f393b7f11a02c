// Package contact содержит бизнес-логику реестра экстренных контактов.
package contact

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/magabrotheeeer/sos-alert/internal/lib/phone"
	"github.com/magabrotheeeer/sos-alert/internal/models"
)

// ErrInvalidPhone телефон не соответствует формату из конфига.
var ErrInvalidPhone = errors.New("invalid phone number")

// ContactRepository контракт хранилища контактов.
type ContactRepository interface {
	// CreateContact добавляет контакт, дубликат телефона даёт storage.ErrContactExists.
	CreateContact(ctx context.Context, contact models.EmergencyContact) (int, error)
	// ListContacts возвращает контакты пользователя в порядке добавления.
	ListContacts(ctx context.Context, username string) ([]*models.EmergencyContact, error)
	// RemoveContact удаляет контакт пользователя, иначе storage.ErrNotFound.
	RemoveContact(ctx context.Context, username string, id int) error
}

// Service реализует операции реестра контактов.
type Service struct {
	repo      ContactRepository
	validator *phone.Validator
	log       *slog.Logger
}

// New создает новый экземпляр Service.
func New(repo ContactRepository, validator *phone.Validator, log *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		validator: validator,
		log:       log,
	}
}

// Add проверяет телефон и добавляет контакт пользователю.
// Неверный формат даёт ErrInvalidPhone, состояние реестра при этом не меняется.
func (s *Service) Add(ctx context.Context, username string, req models.DummyContact) (int, error) {
	const op = "services.contact.Add"

	if !s.validator.Valid(req.Phone) {
		return 0, fmt.Errorf("%s: %w", op, ErrInvalidPhone)
	}
	contact := models.EmergencyContact{
		Username:     username,
		Name:         req.Name,
		Phone:        req.Phone,
		Relationship: req.Relationship,
	}
	id, err := s.repo.CreateContact(ctx, contact)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("added emergency contact", slog.Int("id", id))
	return id, nil
}

// List возвращает контакты пользователя, пустой список если их нет.
func (s *Service) List(ctx context.Context, username string) ([]*models.EmergencyContact, error) {
	const op = "services.contact.List"

	contacts, err := s.repo.ListContacts(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return contacts, nil
}

// Remove удаляет контакт пользователя по ID.
func (s *Service) Remove(ctx context.Context, username string, id int) error {
	const op = "services.contact.Remove"

	if err := s.repo.RemoveContact(ctx, username, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("removed emergency contact", slog.Int("id", id))
	return nil
}
