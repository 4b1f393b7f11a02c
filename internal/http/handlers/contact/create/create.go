// Package create реализует HTTP-обработчик добавления экстренного контакта.
package create

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
	contactservice "github.com/magabrotheeeer/sos-alert/internal/services/contact"
	"github.com/magabrotheeeer/sos-alert/internal/storage"
)

// Service описывает интерфейс бизнес-логики добавления контакта.
type Service interface {
	Add(ctx context.Context, username string, req models.DummyContact) (int, error)
}

// Handler обрабатывает HTTP-запросы добавления контакта.
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
// @Summary Добавление экстренного контакта
// @Description Добавляет контакт текущему пользователю. Телефон проверяется по настроенному формату.
// @Tags Contacts
// @Security BearerAuth
// @Accept  json
// @Produce  json
// @Param request body models.DummyContact true "Данные контакта"
// @Success 200 {object} map[string]any "Контакт добавлен"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON или телефон"
// @Failure 401 {object} response.ErrorResponse "Не авторизован"
// @Failure 409 {object} response.ErrorResponse "Контакт с таким телефоном уже есть"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /contacts [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.contact.create"

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

	var req models.DummyContact
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

	id, err := h.service.Add(r.Context(), username, req)
	if err != nil {
		switch {
		case errors.Is(err, contactservice.ErrInvalidPhone):
			log.Error("invalid phone number", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("invalid phone number"))
		case errors.Is(err, storage.ErrContactExists):
			log.Error("contact already exists", sl.Err(err))
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error("contact with this phone already exists"))
		default:
			log.Error("failed to add contact", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("internal error"))
		}
		return
	}

	log.Info("contact added", slog.Int("id", id))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"id":      id,
		"message": "contact added",
	}))
}
