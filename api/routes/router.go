package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/inventory/api/controllers"
	"github.com/angelmondragon/inventory/api/middleware"
	"github.com/angelmondragon/inventory/api/responses"
	"github.com/angelmondragon/inventory/internal/inventory"
	"github.com/angelmondragon/inventory/pkg/config"
	pkgerrors "github.com/angelmondragon/inventory/pkg/errors"
	"github.com/angelmondragon/inventory/pkg/logger"
	"github.com/angelmondragon/inventory/pkg/metrics"
	"github.com/angelmondragon/inventory/pkg/redis"
)

// BasePath is where the inventory pages are mounted.
const BasePath = "/inventory"

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	presenter *responses.Presenter,
	registry *prometheus.Registry,
	httpMetrics *metrics.HTTPMetrics,
	store controllers.Pinger,
	redisClient *redis.Client,
	categoryService inventory.CategoryService,
	itemService inventory.ItemService,
) http.Handler {
	r := chi.NewRouter()
	if cfg.App.TrustProxy {
		r.Use(chimiddleware.RealIP)
	}
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(httpMetrics),
		middleware.SecurityHeaders(),
		chimiddleware.Compress(5),
		middleware.CORS(cfg.App.CORSOrigins),
	)

	notFound := func(w http.ResponseWriter, r *http.Request) {
		presenter.Error(w, r, "", pkgerrors.New(pkgerrors.CodeNotFound, "Not Found"))
	}
	r.NotFound(notFound)
	r.MethodNotAllowed(notFound)

	readyDeps := map[string]controllers.Pinger{"store": store}
	if redisClient != nil {
		readyDeps["redis"] = redisClient
	}
	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, readyDeps))
	})
	if registry != nil {
		r.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, BasePath, http.StatusFound)
	})

	r.Route(BasePath, func(r chi.Router) {
		if cfg.FeatureFlags.RateLimit && redisClient != nil {
			policy := middleware.NewRateLimitPolicy(cfg.RateLimit.Window, cfg.RateLimit.Limit)
			r.Use(middleware.RateLimit(policy, redisClient, httpMetrics, logg))
		}

		r.Get("/", controllers.Index(itemService, presenter))

		r.Get("/categories", controllers.CategoryList(categoryService, presenter))
		r.Get("/category/create", controllers.CategoryCreateForm(categoryService, presenter))
		r.Post("/category/create", controllers.CategoryCreate(categoryService, presenter))
		r.Route("/category/{id}", func(r chi.Router) {
			r.Get("/", controllers.CategoryDetail(categoryService, presenter))
			r.Get("/delete", controllers.CategoryDeleteForm(categoryService, presenter))
			r.Post("/delete", controllers.CategoryDelete(categoryService, presenter))
			r.Get("/update", controllers.CategoryUpdate(presenter))
			r.Post("/update", controllers.CategoryUpdate(presenter))
		})

		r.Get("/items", controllers.ItemList(itemService, presenter))
		r.Get("/item/create", controllers.ItemCreateForm(itemService, presenter))
		r.Post("/item/create", controllers.ItemCreate(itemService, presenter))
		r.Route("/item/{id}", func(r chi.Router) {
			r.Get("/", controllers.ItemDetail(itemService, presenter))
			r.Get("/delete", controllers.ItemDeleteForm(itemService, presenter))
			r.Post("/delete", controllers.ItemDelete(itemService, presenter))
			r.Get("/update", controllers.ItemUpdateForm(itemService, presenter))
			r.Post("/update", controllers.ItemUpdate(itemService, presenter))
		})
	})

	return r
}
