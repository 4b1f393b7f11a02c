// Package profiles реализует HTTP-обработчик просмотра профилей здоровья
// всех пользователей. Доступ ограничен capability profiles:read_all.
package profiles

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/sos-alert/internal/http/response"
	"github.com/magabrotheeeer/sos-alert/internal/lib/sl"
	"github.com/magabrotheeeer/sos-alert/internal/models"
)

// Service описывает интерфейс бизнес-логики сводки профилей.
type Service interface {
	ListAll(ctx context.Context) (map[string]*models.HealthProfile, error)
}

// Handler обрабатывает HTTP-запросы сводки профилей.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Сводка профилей здоровья
// @Description Возвращает профили здоровья всех пользователей.
// @Tags Admin
// @Security BearerAuth
// @Produce  json
// @Success 200 {object} map[string]any "Профили по пользователям"
// @Failure 401 {object} response.ErrorResponse "Не авторизован"
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /admin/users [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.profiles"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	profiles, err := h.service.ListAll(r.Context())
	if err != nil {
		log.Error("failed to list all profiles", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal error"))
		return
	}

	log.Info("all profiles listed", slog.Int("users", len(profiles)))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"profiles": profiles,
	}))
}
