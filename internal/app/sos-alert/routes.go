package sosalert

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpSwagger "github.com/swaggo/http-swagger"

	adminprofiles "github.com/magabrotheeeer/sos-alert/internal/http/handlers/admin/profiles"
	adminsoslist "github.com/magabrotheeeer/sos-alert/internal/http/handlers/admin/soslist"
	"github.com/magabrotheeeer/sos-alert/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/sos-alert/internal/http/handlers/auth/register"
	"github.com/magabrotheeeer/sos-alert/internal/http/handlers/auth/resetpassword"
	"github.com/magabrotheeeer/sos-alert/internal/http/handlers/auth/verifyemail"
	contactcreate "github.com/magabrotheeeer/sos-alert/internal/http/handlers/contact/create"
	contactlist "github.com/magabrotheeeer/sos-alert/internal/http/handlers/contact/list"
	contactremove "github.com/magabrotheeeer/sos-alert/internal/http/handlers/contact/remove"
	"github.com/magabrotheeeer/sos-alert/internal/http/handlers/health"
	profileget "github.com/magabrotheeeer/sos-alert/internal/http/handlers/profile/get"
	profileupdate "github.com/magabrotheeeer/sos-alert/internal/http/handlers/profile/update"
	soscancel "github.com/magabrotheeeer/sos-alert/internal/http/handlers/sos/cancel"
	soslist "github.com/magabrotheeeer/sos-alert/internal/http/handlers/sos/list"
	sostrigger "github.com/magabrotheeeer/sos-alert/internal/http/handlers/sos/trigger"
	"github.com/magabrotheeeer/sos-alert/internal/http/middlewarectx"
	"github.com/magabrotheeeer/sos-alert/internal/lib/jwt"
	"github.com/magabrotheeeer/sos-alert/internal/models"
	authservice "github.com/magabrotheeeer/sos-alert/internal/services/auth"
	contactservice "github.com/magabrotheeeer/sos-alert/internal/services/contact"
	profileservice "github.com/magabrotheeeer/sos-alert/internal/services/profile"
	sosservice "github.com/magabrotheeeer/sos-alert/internal/services/sos"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, jwtMaker jwt.Maker, users middlewarectx.UserProvider,
	authService *authservice.Service, contactService *contactservice.Service,
	sosService *sosservice.Service, profileService *profileservice.Service) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	resetHandler := resetpassword.New(logger, authService)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/register", register.New(logger, authService).ServeHTTP)
		r.Post("/login", login.New(logger, authService).ServeHTTP)
		r.Get("/verify-email", verifyemail.New(logger, authService).ServeHTTP)
		r.Post("/reset-password/request", resetHandler.Request)
		r.Post("/reset-password", resetHandler.Reset)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(jwtMaker, users, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))
			r.Post("/contacts", contactcreate.New(logger, contactService).ServeHTTP)
			r.Get("/contacts", contactlist.New(logger, contactService).ServeHTTP)
			r.Delete("/contacts/{id}", contactremove.New(logger, contactService).ServeHTTP)
			r.Post("/sos", sostrigger.New(logger, sosService).ServeHTTP)
			r.Get("/sos", soslist.New(logger, sosService).ServeHTTP)
			r.Post("/sos/cancel", soscancel.New(logger, sosService).ServeHTTP)
			r.Get("/profile", profileget.New(logger, profileService).ServeHTTP)
			r.Post("/profile", profileupdate.New(logger, profileService).ServeHTTP)

			// Админские маршруты под capability-гейтом
			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.CapabilityMiddleware(logger, models.CapViewAllEvents))
				r.Get("/admin/sos", adminsoslist.New(logger, sosService).ServeHTTP)
			})
			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.CapabilityMiddleware(logger, models.CapViewAllProfiles))
				r.Get("/admin/users", adminprofiles.New(logger, profileService).ServeHTTP)
			})
		})
	})

	r.Get("/health", health.New(logger).ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
