package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"server/internal/http/handlers"
	appmw "server/internal/middleware"
)

// NewRouter assembles the HTTP surface. Webhook routes sit outside the JWT
// group: they authenticate with provider signatures, not bearer tokens.
func NewRouter(app *handlers.App, lookup appmw.CountryLookup) http.Handler {
	r := chi.NewRouter()

	r.Use(
		appmw.RequestID,
		chimw.RealIP,
		chimw.Recoverer,
		appmw.Logger(app.Logger),
		appmw.CORS(app.Config.AllowedOrigins),
		appmw.I18N(app.Config.DefaultLocale, lookup),
	)

	r.Get("/v1/healthz", app.Health)
	r.Get("/v1/plans", app.Plans)

	r.Route("/v1/webhooks", func(r chi.Router) {
		r.Post("/clerk", app.ClerkWebhook)
		r.Post("/stripe", app.StripeWebhook)
	})

	// Public gallery reads, rate limited per client IP.
	r.Group(func(r chi.Router) {
		r.Use(appmw.RateLimit(app.Config.RateLimitPerMin, time.Minute))
		r.Get("/v1/images", app.ImagesList)
		r.Get("/v1/images/{id}", app.ImagesGet)
	})

	// Authenticated surface.
	r.Group(func(r chi.Router) {
		r.Use(appmw.AuthJWT(app.Config.JWTSecret))

		r.Post("/v1/images", app.ImagesCreate)
		r.Put("/v1/images/{id}", app.ImagesUpdate)
		r.Delete("/v1/images/{id}", app.ImagesDelete)

		r.Post("/v1/checkout", app.CheckoutCreate)

		r.Route("/v1/me", func(r chi.Router) {
			r.Get("/", app.Me)
			r.Get("/images", app.MeImages)
			r.Get("/transactions", app.MeTransactions)
			r.Get("/usage", app.MeUsage)
		})
	})

	return r
}
