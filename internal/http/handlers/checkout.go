package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"server/internal/domain"
	"server/internal/providers/stripe"
)

type checkoutRequest struct {
	Plan    string `json:"plan"`
	Amount  int64  `json:"amount"`
	Credits int64  `json:"credits"`
}

// CheckoutCreate starts a hosted checkout session for a credit package and
// returns the payment page URL. The credits are only granted once the
// payment provider confirms completion through the signed webhook.
func (a *App) CheckoutCreate(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	if a.Checkout == nil {
		a.error(w, http.StatusServiceUnavailable, "checkout_unavailable", "payments are not configured")
		return
	}

	var req checkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if req.Plan == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "plan is required")
		return
	}
	// Catalog plans are priced server-side; the client cannot set its own
	// amount for a known package.
	if plan, ok := domain.PlanByName(req.Plan); ok {
		req.Amount = plan.Price
		req.Credits = plan.Credits
	}
	if req.Amount <= 0 || req.Credits <= 0 {
		a.error(w, http.StatusBadRequest, "bad_request", "amount and credits must be positive")
		return
	}

	base := strings.TrimRight(a.Config.ServerURL, "/")
	session, err := a.Checkout.CreateCheckoutSession(r.Context(), stripe.CheckoutParams{
		Plan:       req.Plan,
		Amount:     req.Amount,
		Credits:    req.Credits,
		BuyerID:    userID,
		SuccessURL: base + "/profile",
		CancelURL:  base + "/",
	})
	if err != nil {
		a.Logger.Error().Err(err).Msg("create checkout session failed")
		a.error(w, http.StatusBadGateway, "provider_failure", "failed to create checkout session")
		return
	}
	a.json(w, http.StatusOK, map[string]string{"url": session.URL})
}

// Plans returns the static credit-package catalog.
func (a *App) Plans(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, map[string]any{"plans": domain.Plans})
}
