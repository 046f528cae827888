package handlers

import (
	"myNotebook/internal/middleware"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

// NewRouter собирает локальный API записной книжки
func NewRouter(h ItemHandler, rpm int) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logging)
	r.Use(middleware.RateLimit(rpm, nil))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID", "Content-Disposition"},
		MaxAge:         300,
	}))

	r.Get("/health", h.HealthCheck)

	r.Route("/items", func(r chi.Router) {
		r.Get("/", h.ListItems) // GET /items?tab=&q=
		r.Post("/", h.PostItem) // POST /items

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.GetItem)       // GET /items/{id}
			r.Put("/", h.UpdateItem)    // PUT /items/{id}
			r.Delete("/", h.DeleteItem) // DELETE /items/{id}
			r.Post("/done", h.MarkDone) // POST /items/{id}/done
		})
	})

	r.Get("/backup", h.Export)  // GET /backup
	r.Post("/backup", h.Import) // POST /backup

	return r
}
