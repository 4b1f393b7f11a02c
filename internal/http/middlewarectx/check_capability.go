package middlewarectx

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/magabrotheeeer/sos-alert/internal/http/response"
	"github.com/magabrotheeeer/sos-alert/internal/models"
)

// CapabilityMiddleware пропускает запрос, только если роль из контекста
// обладает нужным правом. Роль берётся из результата JWTMiddleware,
// поэтому этот middleware ставится после него.
func CapabilityMiddleware(log *slog.Logger, capability models.Capability) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, ok := r.Context().Value(Role).(string)
			if !ok || role == "" {
				log.Error("role missing in context")
				w.WriteHeader(http.StatusUnauthorized)
				render.JSON(w, r, response.Error("unauthorized"))
				return
			}

			if !models.Role(role).Can(capability) {
				log.Error("access denied",
					slog.String("role", role),
					slog.String("capability", string(capability)))
				w.WriteHeader(http.StatusForbidden)
				render.JSON(w, r, response.Error("forbidden"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
