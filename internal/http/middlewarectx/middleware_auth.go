// Package middlewarectx содержит HTTP middleware аутентификации и авторизации.
//
// JWTMiddleware проверяет Bearer-токен из заголовка Authorization, убеждается,
// что субъект токена всё ещё существует в хранилище, и кладёт имя пользователя
// и роль в контекст запроса. Это единственная точка, где токен превращается
// в личность пользователя; все защищённые маршруты проходят через неё.
package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/sos-alert/internal/http/response"
	"github.com/magabrotheeeer/sos-alert/internal/lib/jwt"
	"github.com/magabrotheeeer/sos-alert/internal/lib/sl"
	"github.com/magabrotheeeer/sos-alert/internal/models"
)

// Key тип для ключей контекста HTTP-запроса.
type Key string

const (
	// User — ключ для имени пользователя в контексте
	User Key = "username"
	// Role — ключ для роли пользователя в контексте
	Role Key = "role"
)

// UserProvider ищет пользователя по имени из claims токена.
type UserProvider interface {
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
}

// JWTMiddleware возвращает middleware, проверяющий JWT в заголовке Authorization.
//
// Токен без подписи, с истёкшим сроком или с несуществующим пользователем
// даёт 401 Unauthorized.
func JWTMiddleware(maker jwt.Maker, users UserProvider, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.JWTMiddleware"
			authHeader := r.Header.Get("Authorization")

			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			if !strings.HasPrefix(authHeader, "Bearer ") {
				log.Error("missing or invalid authorization header")
				w.WriteHeader(http.StatusUnauthorized)
				render.JSON(w, r, response.Error("missing or invalid authorization header"))
				return
			}
			tokenStr := strings.TrimPrefix(authHeader, "Bearer ")

			claims, err := maker.ParseToken(tokenStr)
			if err != nil {
				log.Error("invalid or expired token", sl.Err(err))
				w.WriteHeader(http.StatusUnauthorized)
				render.JSON(w, r, response.Error("invalid or expired token"))
				return
			}

			user, err := users.GetUserByUsername(r.Context(), claims.Username)
			if err != nil {
				log.Error("token subject not found", sl.Err(err))
				w.WriteHeader(http.StatusUnauthorized)
				render.JSON(w, r, response.Error("invalid or expired token"))
				return
			}

			ctx := context.WithValue(r.Context(), User, user.Username)
			ctx = context.WithValue(ctx, Role, string(user.Role))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
