package httpapi

import (
	"net/http"
	"time"

	"mapposter/internal/http/handlers"
	"mapposter/internal/infra"
	mw "mapposter/internal/middleware"
	"mapposter/internal/storage"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

func NewRouter(app *handlers.App, cfg *infra.Config, log infra.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(
		chimw.RealIP,
		chimw.Recoverer,
		mw.RequestID,
		mw.Logger(log),
	)
	if len(cfg.AllowedOrigins) > 0 {
		r.Use(mw.CORS(cfg.AllowedOrigins))
	}

	r.Get("/health", app.Health)
	r.Get("/docs", app.Docs)

	// A file store hands out /static URLs; serve its directory here.
	if fs, ok := app.Store.(*storage.FileStore); ok {
		static := http.StripPrefix("/static/", http.FileServer(http.Dir(fs.BasePath())))
		r.Get("/static/*", static.ServeHTTP)
	}

	r.Group(func(r chi.Router) {
		if cfg.RateLimitPerMin > 0 {
			r.Use(mw.RateLimit(cfg.RateLimitPerMin, time.Minute))
		}
		r.Post("/render", app.Render)
	})

	return r
}
