// Package list реализует HTTP-обработчик списка экстренных контактов.
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

// Service описывает интерфейс бизнес-логики списка контактов.
type Service interface {
	List(ctx context.Context, username string) ([]*models.EmergencyContact, error)
}

// Handler обрабатывает HTTP-запросы списка контактов.
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
// @Summary Список экстренных контактов
// @Description Возвращает контакты текущего пользователя в порядке добавления.
// @Tags Contacts
// @Security BearerAuth
// @Produce  json
// @Success 200 {object} map[string]any "Список контактов"
// @Failure 401 {object} response.ErrorResponse "Не авторизован"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /contacts [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.contact.list"

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

	contacts, err := h.service.List(r.Context(), username)
	if err != nil {
		log.Error("failed to list contacts", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal error"))
		return
	}
	if contacts == nil {
		contacts = []*models.EmergencyContact{}
	}

	log.Info("contacts listed", slog.Int("count", len(contacts)))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"contacts": contacts,
	}))
}
