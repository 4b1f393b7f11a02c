// Package auth содержит бизнес-логику регистрации, входа и операций
// с подтверждением почты и сбросом пароля.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/sos-alert/internal/lib/jwt"
	"github.com/magabrotheeeer/sos-alert/internal/lib/password"
	"github.com/magabrotheeeer/sos-alert/internal/lib/sl"
	"github.com/magabrotheeeer/sos-alert/internal/models"
	"github.com/magabrotheeeer/sos-alert/internal/storage"
)

// ErrInvalidCredentials неверная пара username/password.
// Одна ошибка на оба случая, чтобы не раскрывать существование пользователя.
var ErrInvalidCredentials = errors.New("invalid credentials")

// UserRepository контракт хранилища пользователей.
type UserRepository interface {
	// RegisterUser сохраняет нового пользователя и возвращает его uid.
	RegisterUser(ctx context.Context, user models.User) (string, error)
	// GetUserByUsername возвращает пользователя или storage.ErrNotFound.
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	// SetEmailVerified отмечает почту подтверждённой.
	SetEmailVerified(ctx context.Context, username string) error
	// UpdatePasswordHash заменяет хэш пароля.
	UpdatePasswordHash(ctx context.Context, username, passwordHash string) error
}

// Publisher публикует сообщение в очередь уведомлений.
type Publisher interface {
	Publish(routingKey string, message any) error
}

// Service отвечает за регистрацию, авторизацию и токены действий.
// Письма не отправляются из HTTP-запроса: после коммита в очередь
// уходит сообщение, доставкой занимается notification-sender.
type Service struct {
	users     UserRepository
	jwtMaker  jwt.Maker
	publisher Publisher
	log       *slog.Logger
}

// New создает новый экземпляр Service. publisher может быть nil,
// тогда письма не ставятся в очередь (локальный запуск без брокера).
func New(users UserRepository, jwtMaker jwt.Maker, publisher Publisher, log *slog.Logger) *Service {
	return &Service{
		users:     users,
		jwtMaker:  jwtMaker,
		publisher: publisher,
		log:       log,
	}
}

// Register создает пользователя с bcrypt-хэшем пароля и ролью user.
// Существующий username возвращает storage.ErrUserExists. Сообщение
// для письма подтверждения публикуется после успешного сохранения;
// сбой публикации регистрацию не отменяет.
func (s *Service) Register(ctx context.Context, username, rawPassword, email, fullName string) (string, error) {
	const op = "services.auth.Register"

	hashed, err := password.GetHash(rawPassword)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	user := models.User{
		Username:     username,
		Email:        email,
		PasswordHash: hashed,
		FullName:     fullName,
		Role:         models.RoleUser,
		CreatedAt:    time.Now().UTC(),
	}
	uid, err := s.users.RegisterUser(ctx, user)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	if s.publisher != nil {
		token, err := s.jwtMaker.GenerateActionToken(username, jwt.PurposeVerifyEmail)
		if err != nil {
			s.log.Error("failed to issue verification token", sl.Err(err))
			return uid, nil
		}
		msg := models.VerificationEmail{Username: username, Email: email, Token: token}
		if err := s.publisher.Publish("email.verification", msg); err != nil {
			s.log.Error("failed to enqueue verification email", sl.Err(err))
		}
	}
	return uid, nil
}

// Login проверяет пароль пользователя и выпускает access-токен.
func (s *Service) Login(ctx context.Context, username, rawPassword string) (token string, role string, err error) {
	const op = "services.auth.Login"

	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return "", "", fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
		}
		return "", "", fmt.Errorf("%s: %w", op, err)
	}
	if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		return "", "", fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}
	token, err = s.jwtMaker.GenerateToken(user.Username, string(user.Role))
	if err != nil {
		return "", "", fmt.Errorf("%s: %w", op, err)
	}
	return token, string(user.Role), nil
}

// VerifyEmail подтверждает почту по токену из письма.
func (s *Service) VerifyEmail(ctx context.Context, token string) error {
	const op = "services.auth.VerifyEmail"

	claims, err := s.jwtMaker.ParseActionToken(token, jwt.PurposeVerifyEmail)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := s.users.SetEmailVerified(ctx, claims.Username); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// RequestPasswordReset ставит в очередь письмо со ссылкой сброса пароля.
// Для неизвестного username возвращает nil, чтобы не раскрывать базу
// пользователей перебором.
func (s *Service) RequestPasswordReset(ctx context.Context, username string) error {
	const op = "services.auth.RequestPasswordReset"

	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.log.Info("password reset requested for unknown user")
			return nil
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	token, err := s.jwtMaker.GenerateActionToken(user.Username, jwt.PurposePasswordReset)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if s.publisher == nil {
		s.log.Error("password reset requested but publisher is not configured")
		return nil
	}
	msg := models.PasswordResetEmail{Username: user.Username, Email: user.Email, Token: token}
	if err := s.publisher.Publish("email.password_reset", msg); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ResetPassword заменяет пароль по токену из письма.
func (s *Service) ResetPassword(ctx context.Context, token, newPassword string) error {
	const op = "services.auth.ResetPassword"

	claims, err := s.jwtMaker.ParseActionToken(token, jwt.PurposePasswordReset)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	hashed, err := password.GetHash(newPassword)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := s.users.UpdatePasswordHash(ctx, claims.Username, hashed); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
