// Package sos содержит бизнес-логику журнала SOS-событий и рассылки
// уведомлений экстренным контактам.
package sos

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/magabrotheeeer/sos-alert/internal/lib/sl"
	"github.com/magabrotheeeer/sos-alert/internal/models"
)

// ErrEmptyMessage текст SOS пуст или состоит из пробелов.
var ErrEmptyMessage = errors.New("sos message is empty")

// EventRepository контракт журнала SOS-событий.
type EventRepository interface {
	// CreateEvent дописывает событие и возвращает его ID.
	CreateEvent(ctx context.Context, event models.SOSEvent) (int, error)
	// ListEvents возвращает события пользователя в хронологическом порядке.
	ListEvents(ctx context.Context, username string) ([]*models.SOSEvent, error)
	// RemoveLastEvent снимает последнее событие, иначе storage.ErrNotFound.
	RemoveLastEvent(ctx context.Context, username string) (*models.SOSEvent, error)
	// ListAllEvents возвращает журналы всех пользователей.
	ListAllEvents(ctx context.Context) (map[string][]*models.SOSEvent, error)
}

// ContactLister отдаёт список контактов пользователя для рассылки.
type ContactLister interface {
	ListContacts(ctx context.Context, username string) ([]*models.EmergencyContact, error)
}

// Notifier доставляет одно уведомление одному контакту.
// Реальный транспорт (очередь, SMS-шлюз) — внешний коллаборатор.
type Notifier interface {
	Notify(ctx context.Context, username string, alert models.Alert) error
}

// Service реализует операции SOS.
type Service struct {
	events   EventRepository
	contacts ContactLister
	notifier Notifier
	log      *slog.Logger
}

// New создает новый экземпляр Service.
func New(events EventRepository, contacts ContactLister, notifier Notifier, log *slog.Logger) *Service {
	return &Service{
		events:   events,
		contacts: contacts,
		notifier: notifier,
		log:      log,
	}
}

// Trigger записывает SOS-событие и строит уведомление на каждый
// экстренный контакт пользователя. Событие фиксируется до рассылки и не
// откатывается при сбоях доставки: ошибка по конкретному контакту
// помечается в его уведомлении, остальные контакты обрабатываются дальше.
func (s *Service) Trigger(ctx context.Context, username, message string) (*models.SOSEvent, []models.Alert, error) {
	const op = "services.sos.Trigger"

	if strings.TrimSpace(message) == "" {
		return nil, nil, fmt.Errorf("%s: %w", op, ErrEmptyMessage)
	}

	event := models.SOSEvent{
		Username:  username,
		Message:   message,
		Timestamp: time.Now().UTC(),
	}
	id, err := s.events.CreateEvent(ctx, event)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}
	event.ID = id

	contacts, err := s.contacts.ListContacts(ctx, username)
	if err != nil {
		// Событие уже в журнале, поэтому возвращаем его без алертов.
		s.log.Error("failed to list contacts for dispatch", sl.Err(err))
		return &event, []models.Alert{}, nil
	}

	alerts := make([]models.Alert, 0, len(contacts))
	for _, contact := range contacts {
		alert := models.Alert{
			To:           contact.Name,
			Phone:        contact.Phone,
			Relationship: contact.Relationship,
			AlertMessage: fmt.Sprintf("ALERT! %s triggered an SOS: '%s'", username, message),
			Delivered:    true,
		}
		s.log.Info("dispatching alert",
			slog.String("to", alert.To),
			slog.String("phone", alert.Phone))
		if err := s.notifier.Notify(ctx, username, alert); err != nil {
			s.log.Error("alert dispatch failed", sl.Err(err),
				slog.String("to", alert.To))
			alert.Delivered = false
			alert.Error = err.Error()
		}
		alerts = append(alerts, alert)
	}
	return &event, alerts, nil
}

// List возвращает события пользователя в хронологическом порядке.
func (s *Service) List(ctx context.Context, username string) ([]*models.SOSEvent, error) {
	const op = "services.sos.List"

	events, err := s.events.ListEvents(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return events, nil
}

// Cancel снимает последнее событие пользователя и возвращает его.
func (s *Service) Cancel(ctx context.Context, username string) (*models.SOSEvent, error) {
	const op = "services.sos.Cancel"

	event, err := s.events.RemoveLastEvent(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("canceled last sos event", slog.Int("id", event.ID))
	return event, nil
}

// ListAll возвращает журналы всех пользователей. Доступ ограничен
// capability-гейтом на уровне маршрута.
func (s *Service) ListAll(ctx context.Context) (map[string][]*models.SOSEvent, error) {
	const op = "services.sos.ListAll"

	events, err := s.events.ListAllEvents(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return events, nil
}
