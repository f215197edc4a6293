package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/eonil4/kingdom-clash-planner-sub000/internal/catalog"
	"github.com/eonil4/kingdom-clash-planner-sub000/internal/linkstore"
	"github.com/eonil4/kingdom-clash-planner-sub000/internal/ws"
)

func SetupRoutes(d Deps) http.Handler {
	if d.Log == nil {
		d.Log = zap.NewNop()
	}
	if d.Catalog == nil {
		d.Catalog = catalog.Default()
	}
	if d.Links == nil {
		d.Links = linkstore.NewMemory()
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	// Public routes
	r.Get("/healthz", Healthz)
	r.Handle("/metrics", d.Metrics.Handler())
	r.Get("/ws", ws.Handler(d.Hub, d.Log))

	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", CreateSession(d))
		r.Get("/{code}", GetSession(d))
		r.Delete("/{code}", DeleteSession(d))
	})
	r.Route("/links", func(r chi.Router) {
		r.Post("/", CreateLink(d))
		r.Get("/{code}", GetLink(d))
	})
	return r
}
