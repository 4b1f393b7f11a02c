// Package trigger реализует HTTP-обработчик подачи SOS-сигнала.
package trigger

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/sos-alert/internal/http/middlewarectx"
	"github.com/magabrotheeeer/sos-alert/internal/http/response"
	"github.com/magabrotheeeer/sos-alert/internal/lib/sl"
	"github.com/magabrotheeeer/sos-alert/internal/models"
	sosservice "github.com/magabrotheeeer/sos-alert/internal/services/sos"
)

// Service описывает интерфейс бизнес-логики подачи SOS.
type Service interface {
	Trigger(ctx context.Context, username, message string) (*models.SOSEvent, []models.Alert, error)
}

// Handler обрабатывает HTTP-запросы подачи SOS.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Подача SOS-сигнала
// @Description Записывает SOS-событие и рассылает уведомления всем экстренным контактам.
// @Tags SOS
// @Security BearerAuth
// @Accept  json
// @Produce  json
// @Param request body models.DummySOS true "Текст сигнала"
// @Success 200 {object} map[string]any "Событие записано, уведомления разосланы"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON или пустое сообщение"
// @Failure 401 {object} response.ErrorResponse "Не авторизован"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /sos [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.sos.trigger"

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

	var req models.DummySOS
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	event, alerts, err := h.service.Trigger(r.Context(), username, req.Message)
	if err != nil {
		if errors.Is(err, sosservice.ErrEmptyMessage) {
			log.Error("empty sos message")
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("sos message must not be empty"))
			return
		}
		log.Error("failed to trigger sos", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal error"))
		return
	}

	log.Info("sos triggered",
		slog.Int("event_id", event.ID),
		slog.Int("alerts", len(alerts)))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"sos_event":         event,
		"dispatched_alerts": alerts,
	}))
}
