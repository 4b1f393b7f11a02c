// Package cancel реализует HTTP-обработчик отмены последнего SOS-события.
package cancel

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/sos-alert/internal/http/middlewarectx"
	"github.com/magabrotheeeer/sos-alert/internal/http/response"
	"github.com/magabrotheeeer/sos-alert/internal/lib/sl"
	"github.com/magabrotheeeer/sos-alert/internal/models"
	"github.com/magabrotheeeer/sos-alert/internal/storage"
)

// Service описывает интерфейс бизнес-логики отмены SOS.
type Service interface {
	Cancel(ctx context.Context, username string) (*models.SOSEvent, error)
}

// Handler обрабатывает HTTP-запросы отмены SOS.
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
// @Summary Отмена последнего SOS-события
// @Description Снимает последнее SOS-событие текущего пользователя. Пустой журнал даёт 404.
// @Tags SOS
// @Security BearerAuth
// @Produce  json
// @Success 200 {object} map[string]any "Событие отменено"
// @Failure 401 {object} response.ErrorResponse "Не авторизован"
// @Failure 404 {object} response.ErrorResponse "Активных событий нет"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /sos/cancel [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.sos.cancel"

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

	event, err := h.service.Cancel(r.Context(), username)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Error("no active sos events")
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("no active sos events"))
			return
		}
		log.Error("failed to cancel sos event", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal error"))
		return
	}

	log.Info("sos event canceled", slog.Int("id", event.ID))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"canceled_sos": event,
	}))
}
