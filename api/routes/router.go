package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/packfinderz-shipping/api/controllers"
	shippingcontrollers "github.com/angelmondragon/packfinderz-shipping/api/controllers/shipping"
	"github.com/angelmondragon/packfinderz-shipping/api/middleware"
	"github.com/angelmondragon/packfinderz-shipping/internal/postalcode"
	"github.com/angelmondragon/packfinderz-shipping/internal/shipping"
	"github.com/angelmondragon/packfinderz-shipping/pkg/config"
	"github.com/angelmondragon/packfinderz-shipping/pkg/db"
	"github.com/angelmondragon/packfinderz-shipping/pkg/logger"
	"github.com/angelmondragon/packfinderz-shipping/pkg/redis"
)

// NewRouter wires every HTTP route. A nil redis client disables rate
// limiting and drops redis from the readiness probe.
func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	quoteService shipping.Service,
	postalCodeService postalcode.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.CORS.AllowedOrigins),
	)

	var (
		limiter     middleware.RateLimiterStore
		redisPinger controllers.Pinger
	)
	if redisClient != nil {
		limiter = redisClient
		redisPinger = redisClient
	}
	var dbPinger controllers.Pinger
	if dbP != nil {
		dbPinger = dbP
	}

	// proxy list is validated by config.Load
	trustedProxies, _ := cfg.RateLimit.TrustedProxyPrefixes()
	quotePolicy := middleware.NewRateLimitPolicy(
		"quote",
		cfg.RateLimit.QuoteWindow,
		cfg.RateLimit.QuoteLimit,
	).WithTrustedProxies(trustedProxies)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg,
			controllers.Dependency{Name: "db", Pinger: dbPinger},
			controllers.Dependency{Name: "redis", Pinger: redisPinger},
		))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.With(middleware.RateLimit(quotePolicy, limiter, logg)).
			Post("/shipping/quote", shippingcontrollers.Quote(quoteService, logg))
		r.Get("/postal-codes/{zipCode}", controllers.PostalCodeLookup(postalCodeService, logg))
	})

	return r
}
