// Package memory реализует хранилище в памяти процесса с теми же
// контрактами, что и PostgreSQL-репозиторий. Используется в тестах и
// в локальном запуске без базы. Все коллекции защищены одним мьютексом:
// конкурирующие запросы разных пользователей не теряют записи.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/sos-alert/internal/models"
	"github.com/magabrotheeeer/sos-alert/internal/storage"
)

// Storage потокобезопасное in-memory хранилище.
type Storage struct {
	mu sync.RWMutex

	users    map[string]*models.User
	contacts map[string][]*models.EmergencyContact
	events   map[string][]*models.SOSEvent
	profiles map[string]*models.HealthProfile

	nextContactID int
	nextEventID   int
}

// New создаёт пустое хранилище.
func New() *Storage {
	return &Storage{
		users:    make(map[string]*models.User),
		contacts: make(map[string][]*models.EmergencyContact),
		events:   make(map[string][]*models.SOSEvent),
		profiles: make(map[string]*models.HealthProfile),
	}
}

// RegisterUser сохраняет нового пользователя и возвращает его uid.
func (s *Storage) RegisterUser(_ context.Context, user models.User) (string, error) {
	const op = "memory.RegisterUser"
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[user.Username]; ok {
		return "", fmt.Errorf("%s: %w", op, storage.ErrUserExists)
	}
	user.UID = uuid.New().String()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	s.users[user.Username] = &user
	return user.UID, nil
}

// GetUserByUsername возвращает копию пользователя по username.
func (s *Storage) GetUserByUsername(_ context.Context, username string) (*models.User, error) {
	const op = "memory.GetUserByUsername"
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[username]
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}
	cp := *u
	return &cp, nil
}

// SetEmailVerified отмечает почту пользователя подтверждённой.
func (s *Storage) SetEmailVerified(_ context.Context, username string) error {
	const op = "memory.SetEmailVerified"
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[username]
	if !ok {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}
	u.EmailVerified = true
	return nil
}

// UpdatePasswordHash заменяет хэш пароля пользователя.
func (s *Storage) UpdatePasswordHash(_ context.Context, username, passwordHash string) error {
	const op = "memory.UpdatePasswordHash"
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[username]
	if !ok {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}
	u.PasswordHash = passwordHash
	return nil
}

// CreateContact добавляет экстренный контакт, следя за уникальностью
// телефона в пределах пользователя.
func (s *Storage) CreateContact(_ context.Context, contact models.EmergencyContact) (int, error) {
	const op = "memory.CreateContact"
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, c := range s.contacts[contact.Username] {
		if c.Phone == contact.Phone {
			return 0, fmt.Errorf("%s: %w", op, storage.ErrContactExists)
		}
	}
	s.nextContactID++
	contact.ID = s.nextContactID
	s.contacts[contact.Username] = append(s.contacts[contact.Username], &contact)
	return contact.ID, nil
}

// ListContacts возвращает контакты пользователя в порядке добавления.
func (s *Storage) ListContacts(_ context.Context, username string) ([]*models.EmergencyContact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*models.EmergencyContact, 0, len(s.contacts[username]))
	for _, c := range s.contacts[username] {
		cp := *c
		result = append(result, &cp)
	}
	if len(result) == 0 {
		return nil, nil
	}
	return result, nil
}

// RemoveContact удаляет контакт пользователя по ID.
func (s *Storage) RemoveContact(_ context.Context, username string, id int) error {
	const op = "memory.RemoveContact"
	s.mu.Lock()
	defer s.mu.Unlock()

	list := s.contacts[username]
	for i, c := range list {
		if c.ID == id {
			s.contacts[username] = append(list[:i], list[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
}

// CreateEvent дописывает SOS-событие в журнал пользователя.
func (s *Storage) CreateEvent(_ context.Context, event models.SOSEvent) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextEventID++
	event.ID = s.nextEventID
	s.events[event.Username] = append(s.events[event.Username], &event)
	return event.ID, nil
}

// ListEvents возвращает события пользователя в хронологическом порядке.
func (s *Storage) ListEvents(_ context.Context, username string) ([]*models.SOSEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*models.SOSEvent, 0, len(s.events[username]))
	for _, e := range s.events[username] {
		cp := *e
		result = append(result, &cp)
	}
	if len(result) == 0 {
		return nil, nil
	}
	return result, nil
}

// RemoveLastEvent снимает последнее событие пользователя и возвращает его.
func (s *Storage) RemoveLastEvent(_ context.Context, username string) (*models.SOSEvent, error) {
	const op = "memory.RemoveLastEvent"
	s.mu.Lock()
	defer s.mu.Unlock()

	list := s.events[username]
	if len(list) == 0 {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}
	last := list[len(list)-1]
	s.events[username] = list[:len(list)-1]
	cp := *last
	return &cp, nil
}

// ListAllEvents возвращает журналы всех пользователей по username.
func (s *Storage) ListAllEvents(_ context.Context) (map[string][]*models.SOSEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make(map[string][]*models.SOSEvent, len(s.events))
	for username, list := range s.events {
		if len(list) == 0 {
			continue
		}
		cps := make([]*models.SOSEvent, 0, len(list))
		for _, e := range list {
			cp := *e
			cps = append(cps, &cp)
		}
		result[username] = cps
	}
	return result, nil
}

// UpsertProfile создаёт или целиком заменяет профиль здоровья.
func (s *Storage) UpsertProfile(_ context.Context, profile models.HealthProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := profile
	s.profiles[profile.Username] = &cp
	return nil
}

// GetProfile возвращает профиль здоровья пользователя.
func (s *Storage) GetProfile(_ context.Context, username string) (*models.HealthProfile, error) {
	const op = "memory.GetProfile"
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.profiles[username]
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}
	cp := *p
	return &cp, nil
}

// ListAllProfiles возвращает профили всех пользователей по username.
func (s *Storage) ListAllProfiles(_ context.Context) (map[string]*models.HealthProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make(map[string]*models.HealthProfile, len(s.profiles))
	for username, p := range s.profiles {
		cp := *p
		result[username] = &cp
	}
	return result, nil
}
