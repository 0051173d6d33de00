package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"server/internal/domain"
)

// stripeEvent is the explicit shape this service accepts from the payment
// provider. Only checkout.session.completed mutates state; everything else
// is acknowledged as a no-op.
type stripeEvent struct {
	Type string `json:"type"`
	Data struct {
		Object stripeCheckoutSession `json:"object"`
	} `json:"data"`
}

type stripeCheckoutSession struct {
	ID          string            `json:"id"`
	AmountTotal *int64            `json:"amount_total"`
	Metadata    map[string]string `json:"metadata"`
}

// StripeWebhook applies completed checkouts to the credit ledger. The
// transaction insert and the credit grant run as one atomic unit keyed on
// the provider's session id, so redelivery cannot double-credit a buyer.
func (a *App) StripeWebhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "unreadable body")
		return
	}

	if err := a.StripeVerifier.Verify(body, r.Header.Get("Stripe-Signature")); err != nil {
		a.Logger.Warn().Err(err).Msg("stripe webhook signature rejected")
		a.error(w, http.StatusBadRequest, "bad_signature", "webhook verification failed")
		return
	}

	var evt stripeEvent
	if err := json.Unmarshal(body, &evt); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if evt.Type != "checkout.session.completed" {
		a.Logger.Info().Str("type", evt.Type).Msg("stripe webhook ignored")
		w.WriteHeader(http.StatusOK)
		return
	}

	session := evt.Data.Object
	if session.ID == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "session id is required")
		return
	}

	// buyerId and credits are business-required: a completed checkout
	// without them cannot be booked and must be rejected, not defaulted.
	buyerID := session.Metadata["buyerId"]
	if buyerID == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "metadata.buyerId is required")
		return
	}
	credits, err := strconv.ParseInt(session.Metadata["credits"], 10, 64)
	if err != nil || credits <= 0 {
		a.error(w, http.StatusBadRequest, "bad_request", "metadata.credits must be a positive integer")
		return
	}

	var amountCents int64
	if session.AmountTotal != nil {
		amountCents = *session.AmountTotal
	}

	tx, applied, err := a.Transactions.CreateWithCredits(r.Context(), &domain.Transaction{
		StripeID:    session.ID,
		AmountCents: amountCents,
		Plan:        session.Metadata["plan"],
		Credits:     credits,
		BuyerID:     buyerID,
	})
	if err != nil {
		a.domainError(w, err, "failed to record transaction")
		return
	}
	if !applied {
		a.Logger.Info().Str("stripe_id", session.ID).Msg("transaction already recorded")
		a.json(w, http.StatusOK, map[string]any{"message": "OK", "duplicate": true})
		return
	}

	a.json(w, http.StatusOK, map[string]any{"message": "OK", "transaction": toTransactionDTO(tx)})
}
