// Package resetpassword реализует HTTP-обработчики запроса сброса пароля
// и установки нового пароля по токену из письма.
package resetpassword

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/sos-alert/internal/http/response"
	"github.com/magabrotheeeer/sos-alert/internal/lib/jwt"
	"github.com/magabrotheeeer/sos-alert/internal/lib/sl"
	"github.com/magabrotheeeer/sos-alert/internal/storage"
)

// RequestBody — входные данные для запроса сброса пароля.
type RequestBody struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
}

// ResetBody — входные данные для установки нового пароля.
type ResetBody struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=6"`
}

// Service описывает интерфейс бизнес-логики сброса пароля.
type Service interface {
	RequestPasswordReset(ctx context.Context, username string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
}

// Handler обрабатывает HTTP-запросы сброса пароля.
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

// Request godoc
// @Summary Запрос сброса пароля
// @Description Ставит в очередь письмо с токеном сброса. Ответ одинаков для существующих и несуществующих пользователей.
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param request body RequestBody true "Имя пользователя"
// @Success 200 {object} map[string]any "Запрос принят"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /reset-password/request [post]
func (h *Handler) Request(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.resetpassword.Request"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req RequestBody
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

	if err := h.service.RequestPasswordReset(r.Context(), req.Username); err != nil {
		log.Error("failed to request password reset", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal error"))
		return
	}

	log.Info("password reset requested", slog.String("username", req.Username))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"message": "if the user exists, a reset email has been sent",
	}))
}

// Reset godoc
// @Summary Установка нового пароля
// @Description Меняет пароль по токену из письма сброса.
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param request body ResetBody true "Токен и новый пароль"
// @Success 200 {object} map[string]any "Пароль обновлен"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON или токен"
// @Failure 404 {object} response.ErrorResponse "Пользователь не найден"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /reset-password [post]
func (h *Handler) Reset(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.resetpassword.Reset"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req ResetBody
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

	if err := h.service.ResetPassword(r.Context(), req.Token, req.NewPassword); err != nil {
		switch {
		case errors.Is(err, jwt.ErrExpiredToken), errors.Is(err, jwt.ErrInvalidToken):
			log.Error("invalid reset token", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("invalid or expired token"))
		case errors.Is(err, storage.ErrNotFound):
			log.Error("user not found", sl.Err(err))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("user not found"))
		default:
			log.Error("failed to reset password", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("internal error"))
		}
		return
	}

	log.Info("password reset completed")
	render.JSON(w, r, response.OKWithData(map[string]any{
		"message": "password updated",
	}))
}
