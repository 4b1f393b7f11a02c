// Package soslist реализует HTTP-обработчик просмотра SOS-журналов
// всех пользователей. Доступ ограничен capability events:read_all.
package soslist

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

// Service описывает интерфейс бизнес-логики сводного журнала SOS.
type Service interface {
	ListAll(ctx context.Context) (map[string][]*models.SOSEvent, error)
}

// Handler обрабатывает HTTP-запросы сводного журнала SOS.
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
// @Summary Сводный журнал SOS
// @Description Возвращает SOS-события всех пользователей, сгруппированные по имени.
// @Tags Admin
// @Security BearerAuth
// @Produce  json
// @Success 200 {object} map[string]any "Журналы по пользователям"
// @Failure 401 {object} response.ErrorResponse "Не авторизован"
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /admin/sos [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.soslist"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	events, err := h.service.ListAll(r.Context())
	if err != nil {
		log.Error("failed to list all sos events", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal error"))
		return
	}

	log.Info("all sos events listed", slog.Int("users", len(events)))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"sos_events": events,
	}))
}
