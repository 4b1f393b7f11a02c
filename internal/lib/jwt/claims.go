// Package jwt реализует выпуск и проверку подписанных токенов сервиса.
//
// Токены двух видов: access-токен с username и ролью для Authorization-заголовка
// и action-токен с назначением (подтверждение почты, сброс пароля) для
// одноразовых ссылок. Оба подписываются HS256 общим секретом процесса;
// ротация секрета делает недействительными все выданные токены.
package jwt

import (
	"errors"
	"time"
)

// Purpose назначение action-токена.
type Purpose string

const (
	// PurposeVerifyEmail токен из письма подтверждения почты.
	PurposeVerifyEmail Purpose = "verify_email"
	// PurposePasswordReset токен из письма сброса пароля.
	PurposePasswordReset Purpose = "password_reset"
)

var (
	// ErrExpiredToken токен корректно подписан, но срок действия истёк.
	ErrExpiredToken = errors.New("token expired")
	// ErrInvalidToken подпись не сошлась или claims не соответствуют ожиданиям.
	ErrInvalidToken = errors.New("invalid token")
)

// Maker описывает интерфейс для выпуска и проверки токенов.
type Maker interface {
	// GenerateToken выпускает access-токен с username и ролью.
	GenerateToken(username, role string) (string, error)
	// ParseToken проверяет access-токен и возвращает его claims.
	ParseToken(tokenStr string) (*CustomClaims, error)
	// GenerateActionToken выпускает одноразовый токен под конкретное назначение.
	GenerateActionToken(username string, purpose Purpose) (string, error)
	// ParseActionToken проверяет action-токен и сверяет назначение.
	ParseActionToken(tokenStr string, purpose Purpose) (*ActionClaims, error)
}

// MakerImpl реализует Maker на секретном ключе процесса.
type MakerImpl struct {
	secretKey string        // Секретный ключ для подписи токенов.
	tokenTTL  time.Duration // Время жизни access-токена.
	actionTTL time.Duration // Время жизни action-токена.
}

// NewJWTMaker создаёт MakerImpl с секретным ключом и TTL обоих видов токенов.
func NewJWTMaker(secretKey string, tokenTTL, actionTTL time.Duration) *MakerImpl {
	return &MakerImpl{
		secretKey: secretKey,
		tokenTTL:  tokenTTL,
		actionTTL: actionTTL,
	}
}
