package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// CustomClaims данные access-токена.
type CustomClaims struct {
	Username             string `json:"username"` // Имя пользователя, субъект токена
	Role                 string `json:"role"`     // Роль пользователя
	jwt.RegisteredClaims        // Стандартные claims (ExpiresAt, IssuedAt и пр.)
}

// ActionClaims данные action-токена.
type ActionClaims struct {
	Username             string  `json:"username"`
	Purpose              Purpose `json:"purpose"`
	jwt.RegisteredClaims
}

// GenerateToken выпускает access-токен с username и ролью,
// срок действия задаётся tokenTTL.
func (j *MakerImpl) GenerateToken(username, role string) (string, error) {
	claims := CustomClaims{
		Username: username,
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(j.tokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(j.secretKey))
}

// ParseToken проверяет подпись и срок действия access-токена,
// возвращает claims либо ErrExpiredToken/ErrInvalidToken.
func (j *MakerImpl) ParseToken(tokenStr string) (*CustomClaims, error) {
	const op = "jwt.ParseToken"
	token, err := jwt.ParseWithClaims(tokenStr, &CustomClaims{}, func(_ *jwt.Token) (any, error) {
		return []byte(j.secretKey), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%s: %w", op, ErrExpiredToken)
		}
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}
	claims, ok := token.Claims.(*CustomClaims)
	if !ok || !token.Valid || claims.Username == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}
	return claims, nil
}

// GenerateActionToken выпускает одноразовый токен под назначение purpose,
// срок действия задаётся actionTTL.
func (j *MakerImpl) GenerateActionToken(username string, purpose Purpose) (string, error) {
	claims := ActionClaims{
		Username: username,
		Purpose:  purpose,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(j.actionTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(j.secretKey))
}

// ParseActionToken проверяет action-токен и сверяет его назначение.
// Токен с чужим purpose отклоняется как невалидный.
func (j *MakerImpl) ParseActionToken(tokenStr string, purpose Purpose) (*ActionClaims, error) {
	const op = "jwt.ParseActionToken"
	token, err := jwt.ParseWithClaims(tokenStr, &ActionClaims{}, func(_ *jwt.Token) (any, error) {
		return []byte(j.secretKey), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%s: %w", op, ErrExpiredToken)
		}
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}
	claims, ok := token.Claims.(*ActionClaims)
	if !ok || !token.Valid || claims.Username == "" || claims.Purpose != purpose {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}
	return claims, nil
}
