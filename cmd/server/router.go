package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/parkhurst/casetrack-api/internal/api"
	"github.com/parkhurst/casetrack-api/internal/push"
	"github.com/parkhurst/casetrack-api/internal/service"
)

// setupRouter builds the HTTP surface: the health probe, the websocket
// push endpoint, and the settings and notification APIs.
func (app *application) setupRouter(
	settingsService *service.SettingsService,
	notificationService *service.NotificationService,
) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		api.RespondWithJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Method(http.MethodGet, "/ws", push.NewHandler(app.registry, app.logger))

	settingsHandler := api.NewSettingsHandler(settingsService, app.logger)
	notificationHandler := api.NewNotificationHandler(notificationService, app.logger)

	r.Route("/api", func(r chi.Router) {
		r.Route("/settings", func(r chi.Router) {
			r.Get("/", settingsHandler.List)
			r.Post("/initialize", settingsHandler.Initialize)
			r.Put("/{type}", settingsHandler.Update)
		})

		r.Route("/notifications", func(r chi.Router) {
			r.Get("/", notificationHandler.ListForRecipient)
			r.Delete("/", notificationHandler.DeleteAllForRecipient)
			r.Put("/{id}/read", notificationHandler.MarkRead)
			r.Delete("/{id}", notificationHandler.Delete)
		})
	})

	return r
}
