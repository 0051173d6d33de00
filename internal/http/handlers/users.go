package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"server/internal/domain"
	"server/internal/sqlinline"
)

// Me returns the acting user's profile and credit balance.
func (a *App) Me(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	user, err := a.Users.GetByID(r.Context(), userID)
	if err != nil {
		a.domainError(w, err, "user not found")
		return
	}
	a.json(w, http.StatusOK, toUserDTO(user))
}

// MeImages returns a page of the acting user's own images.
func (a *App) MeImages(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page <= 0 {
		page = 1
	}
	pageResult, err := a.Images.List(r.Context(), domain.ImageQuery{
		Page:     page,
		PageSize: DefaultPageSize,
		AuthorID: userID,
	})
	if err != nil {
		a.domainError(w, err, "failed to list images")
		return
	}
	a.json(w, http.StatusOK, imagePageResponse(pageResult))
}

// MeTransactions returns the acting user's purchase history.
func (a *App) MeTransactions(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	rows, err := a.SQL.Query(r.Context(), sqlinline.QListTransactionsByBuyer, userID, 50)
	if err != nil {
		a.error(w, http.StatusInternalServerError, "internal", "failed to load transactions")
		return
	}
	defer rows.Close()

	items := []*transactionDTO{}
	for rows.Next() {
		var tx domain.Transaction
		if err := rows.Scan(&tx.ID, &tx.StripeID, &tx.AmountCents, &tx.Plan, &tx.Credits, &tx.CreatedAt); err != nil {
			a.error(w, http.StatusInternalServerError, "internal", "failed to load transactions")
			return
		}
		tx.BuyerID = userID
		items = append(items, toTransactionDTO(&tx))
	}
	a.json(w, http.StatusOK, map[string]any{"items": items})
}

// MeUsage returns the acting user's recent ledger activity.
func (a *App) MeUsage(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	rows, err := a.SQL.Query(r.Context(), sqlinline.QListUserUsage, userID, 50)
	if err != nil {
		a.error(w, http.StatusInternalServerError, "internal", "failed to load usage events")
		return
	}
	defer rows.Close()

	var items []map[string]any
	for rows.Next() {
		var id, eventType string
		var imageID, country *string
		var delta int64
		var props []byte
		var createdAt time.Time
		if err := rows.Scan(&id, &imageID, &eventType, &delta, &country, &props, &createdAt); err != nil {
			a.error(w, http.StatusInternalServerError, "internal", "failed to load usage events")
			return
		}
		items = append(items, map[string]any{
			"id":            id,
			"image_id":      imageID,
			"event_type":    eventType,
			"credits_delta": delta,
			"country":       country,
			"properties":    json.RawMessage(props),
			"created_at":    createdAt,
		})
	}
	a.json(w, http.StatusOK, map[string]any{"items": items})
}
