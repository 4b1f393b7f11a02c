// Package models содержит доменные структуры сервиса SOS-оповещений:
// пользователи и их роли, экстренные контакты, SOS-события и профили здоровья.
// Структуры используются в бизнес-логике и при работе с хранилищем.
package models

import "time"

// Role роль пользователя. Права проверяются через набор capability,
// а не сравнением имени пользователя с жёстко заданной строкой.
type Role string

const (
	// RoleUser обычный пользователь.
	RoleUser Role = "user"
	// RoleAdmin администратор сервиса.
	RoleAdmin Role = "admin"
)

// Capability атомарное право доступа.
type Capability string

const (
	// CapViewAllEvents просмотр SOS-событий всех пользователей.
	CapViewAllEvents Capability = "events:read_all"
	// CapViewAllProfiles просмотр профилей здоровья всех пользователей.
	CapViewAllProfiles Capability = "profiles:read_all"
)

var roleCapabilities = map[Role][]Capability{
	RoleAdmin: {CapViewAllEvents, CapViewAllProfiles},
	RoleUser:  {},
}

// Can сообщает, входит ли capability в набор прав роли.
func (r Role) Can(c Capability) bool {
	for _, cap := range roleCapabilities[r] {
		if cap == c {
			return true
		}
	}
	return false
}

// User представляет зарегистрированного пользователя системы.
type User struct {
	UID           string    // Уникальный идентификатор пользователя
	Username      string    // Имя пользователя (уникальное)
	Email         string    // Электронная почта
	PasswordHash  string    // Bcrypt-хэш пароля
	FullName      string    // Отображаемое имя (опционально)
	Role          Role      // Роль пользователя, admin или user
	EmailVerified bool      // Подтверждена ли почта
	CreatedAt     time.Time // Дата регистрации
}
