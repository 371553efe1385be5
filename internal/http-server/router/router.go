package router

import (
	"net/http"

	"interior-media/internal/http-server/handler/image"
	"interior-media/internal/http-server/middleware"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	ImageHandler *image.ImageHandler
}

func SetupRouter(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RecoveryMiddleware)
	r.Use(middleware.LoggingMiddleware)

	r.Route("/api/images", func(r chi.Router) {
		// Listing carries no caller identity.
		r.Get("/", h.ImageHandler.ListImages)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireCallerID)

			r.Post("/presigned-url", h.ImageHandler.CreatePresignedURL)
			r.Patch("/{id}/status", h.ImageHandler.UpdateStatus)
			r.Patch("/{id}/type", h.ImageHandler.UpdateType)
			r.Delete("/{id}", h.ImageHandler.DeleteImage)
		})
	})

	r.Get("/api/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	return r
}
