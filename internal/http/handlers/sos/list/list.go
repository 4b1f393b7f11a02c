// Package list реализует HTTP-обработчик журнала SOS-событий пользователя.
package list

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/sos-alert/internal/http/middlewarectx"
	"github.com/magabrotheeeer/sos-alert/internal/http/response"
	"github.com/magabrotheeeer/sos-alert/internal/lib/sl"
	"github.com/magabrotheeeer/sos-alert/internal/models"
)

// Service описывает интерфейс бизнес-логики журнала SOS.
type Service interface {
	List(ctx context.Context, username string) ([]*models.SOSEvent, error)
}

// Handler обрабатывает HTTP-запросы журнала SOS.
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
// @Summary Журнал SOS-событий
// @Description Возвращает SOS-события текущего пользователя в хронологическом порядке.
// @Tags SOS
// @Security BearerAuth
// @Produce  json
// @Success 200 {object} map[string]any "Список событий"
// @Failure 401 {object} response.ErrorResponse "Не авторизован"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /sos [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.sos.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	username, ok := r.Context().Value(middlewarectx.User).(string)
	if !ok || username == "" {
		log.Error("username not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	events, err := h.service.List(r.Context(), username)
	if err != nil {
		log.Error("failed to list sos events", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal error"))
		return
	}
	if events == nil {
		events = []*models.SOSEvent{}
	}

	log.Info("sos events listed", slog.Int("count", len(events)))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"sos_events": events,
	}))
}
