// Package remove реализует HTTP-обработчик удаления экстренного контакта.
package remove

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/sos-alert/internal/http/middlewarectx"
	"github.com/magabrotheeeer/sos-alert/internal/http/response"
	"github.com/magabrotheeeer/sos-alert/internal/lib/sl"
	"github.com/magabrotheeeer/sos-alert/internal/storage"
)

// Service описывает интерфейс бизнес-логики удаления контакта.
type Service interface {
	Remove(ctx context.Context, username string, id int) error
}

// Handler обрабатывает HTTP-запросы удаления контакта.
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
// @Summary Удаление экстренного контакта
// @Description Удаляет контакт текущего пользователя по ID. Чужой или несуществующий ID даёт 404.
// @Tags Contacts
// @Security BearerAuth
// @Produce  json
// @Param id path int true "ID контакта"
// @Success 200 {object} map[string]any "Контакт удален"
// @Failure 400 {object} response.ErrorResponse "Некорректный ID"
// @Failure 401 {object} response.ErrorResponse "Не авторизован"
// @Failure 404 {object} response.ErrorResponse "Контакт не найден"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /contacts/{id} [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.contact.remove"

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

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		log.Error("invalid contact id", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid contact id"))
		return
	}

	if err := h.service.Remove(r.Context(), username, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Error("contact not found", slog.Int("id", id))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("contact not found"))
			return
		}
		log.Error("failed to remove contact", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal error"))
		return
	}

	log.Info("contact removed", slog.Int("id", id))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"id":      id,
		"message": "contact removed",
	}))
}
