package router

import (
	"net/http"

	_ "herd-pedigree/docs"
	"herd-pedigree/internal/domain/pedigree"
	"herd-pedigree/internal/middleware"
	"herd-pedigree/internal/platform/logger"
	"herd-pedigree/internal/platform/metrics"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	prom "github.com/prometheus/client_golang/prometheus"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Options struct {
	Service *pedigree.Service
	Logger  logger.Logger // nil = descartar

	// Opcional: si viene, se expone /metrics.
	Metrics *prom.Registry

	// Límite del endpoint de ranking (req/s). 0 = sin límite.
	RateLimit float64
	RateBurst int

	// AdminToken protege POST /admin/refresh. Vacío = sin control (dev).
	AdminToken string
}

func NewRouter(opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(middleware.RequestLog(opts.Logger))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	if opts.Metrics != nil {
		r.Handle("/metrics", metrics.Handler(opts.Metrics))
	}
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	pedigree.RegisterRoutes(r, opts.Service, middleware.RateLimit(opts.RateLimit, opts.RateBurst))
	r.Group(func(ar chi.Router) {
		ar.Use(middleware.AdminToken(opts.AdminToken))
		pedigree.RegisterAdminRoutes(ar, opts.Service)
	})

	return r
}
