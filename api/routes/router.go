package routes

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jravahfoods/storefront/api/controllers"
	"github.com/jravahfoods/storefront/api/middleware"
	"github.com/jravahfoods/storefront/internal/catalog"
	"github.com/jravahfoods/storefront/pkg/config"
	"github.com/jravahfoods/storefront/pkg/logger"
)

// Deps carries what the HTTP surface needs from cmd/api.
type Deps struct {
	Catalog  *catalog.Store
	Sessions controllers.CartSessions
	// Ready lists the dependencies the readiness probe pings, by name.
	Ready    map[string]controllers.Pinger
	Gatherer prometheus.Gatherer
	Now      func() time.Time
}

func NewRouter(cfg *config.Config, logg *logger.Logger, deps Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)
	if len(cfg.App.CORSOrigins) > 0 {
		r.Use(middleware.CORS(cfg.App.CORSOrigins))
	}

	gatherer := deps.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.Ready))
	})
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	r.Route("/api/v1/products", func(r chi.Router) {
		r.Get("/", controllers.ProductsList(deps.Catalog, logg))
		r.Get("/featured", controllers.ProductsFeatured(deps.Catalog))
		r.Get("/tags", controllers.ProductTags(deps.Catalog))
		r.Get("/{productId}", controllers.ProductDetail(deps.Catalog, logg))
	})

	r.Route("/api/v1/cart", func(r chi.Router) {
		r.Use(middleware.Session(middleware.SessionOptions{
			TTL:    cfg.Session.CookieTTL,
			Secure: cfg.App.IsProd(),
		}, logg))
		r.Get("/", controllers.CartFetch(deps.Sessions, logg))
		r.Delete("/", controllers.CartClear(deps.Sessions, logg))
		r.Post("/items", controllers.CartAddItem(deps.Sessions, logg))
		r.Patch("/items", controllers.CartUpdateItem(deps.Sessions, logg))
		r.Delete("/items", controllers.CartRemoveItem(deps.Sessions, logg))
		r.Get("/notices", controllers.CartNotices(deps.Sessions, deps.Now, logg))
		r.Get("/checkout", controllers.CartCheckout(deps.Sessions, cfg.Checkout.WhatsAppPhone, logg))
	})

	return r
}
