package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"server/internal/db"
	"server/internal/domain"
	"server/internal/infra"
	"server/internal/middleware"
	"server/internal/providers/clerk"
	"server/internal/providers/cloudinary"
	"server/internal/providers/stripe"
	"server/internal/webhook"
)

// App is the handler container. Everything external is injected so tests can
// swap fakes in: the SQL executor, the repositories, the webhook verifiers,
// and the provider clients (nil when unconfigured).
type App struct {
	SQL          db.DBTX
	Users        domain.UserRepository
	Transactions domain.TransactionRepository
	Images       domain.ImageRepository

	SvixVerifier   *webhook.SvixVerifier
	StripeVerifier *webhook.StripeVerifier

	Clerk    clerk.MetadataWriter
	Checkout stripe.CheckoutCreator
	Search   cloudinary.Searcher

	Logger zerolog.Logger
	Config *infra.Config
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, code int, errCode, message string) {
	a.json(w, code, map[string]errorBody{"error": {Code: errCode, Message: message}})
}

// domainError translates a store-layer error into the uniform error
// envelope. Webhook callers rely on the non-2xx status for redelivery.
func (a *App) domainError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		a.error(w, http.StatusNotFound, "not_found", fallback)
	case errors.Is(err, domain.ErrDuplicate):
		a.error(w, http.StatusBadRequest, "duplicate", fallback)
	case errors.Is(err, domain.ErrForbidden):
		a.error(w, http.StatusForbidden, "forbidden", fallback)
	case errors.Is(err, domain.ErrUnauthorized):
		a.error(w, http.StatusUnauthorized, "unauthorized", fallback)
	case errors.Is(err, domain.ErrInsufficientCredits):
		a.error(w, http.StatusForbidden, "insufficient_credits", fallback)
	default:
		a.Logger.Error().Err(err).Msg(fallback)
		a.error(w, http.StatusInternalServerError, "internal", fallback)
	}
}

func (a *App) currentUserID(r *http.Request) string {
	return middleware.UserIDFromContext(r.Context())
}
