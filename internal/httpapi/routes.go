package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/DoyleJ11/zombie-dashboard/internal/hub"
	"github.com/DoyleJ11/zombie-dashboard/internal/journal"
	"github.com/DoyleJ11/zombie-dashboard/internal/logging"
	"github.com/DoyleJ11/zombie-dashboard/internal/prefs"
	"github.com/DoyleJ11/zombie-dashboard/internal/ws"
)

type Deps struct {
	Hub     *hub.Hub
	Journal journal.Store
	Prefs   *prefs.Store
	Log     *zap.Logger
}

func SetupRoutes(d Deps) http.Handler {
	log := logging.OrNop(d.Log).With(zap.String("component", "httpapi"))
	if d.Prefs == nil {
		d.Prefs = prefs.New(nil, log)
	}
	if d.Journal == nil {
		d.Journal = journal.NewMemoryStore(1)
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(log))

	// Public routes
	r.Get("/", Index(d.Prefs, log))
	r.Get("/healthz", Healthz)
	r.Get("/ws", ws.Handler(d.Hub, d.Log))

	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", CreateSession(d.Hub, log))
		r.Route("/{code}", func(r chi.Router) {
			r.Get("/", GetSession(d.Hub))
			r.Post("/actions/{action}", PostAction(d.Hub, d.Prefs, log))
			r.Post("/select", Select(d.Hub))
			r.Get("/journal", Journal(d.Journal))
		})
	})
	return r
}

// requestLogger logs every request at debug through zap.
func requestLogger(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			log.Debug("request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()))
		})
	}
}
