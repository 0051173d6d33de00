package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"server/internal/domain"
)

const maxWebhookBody = 1 << 20

// clerkEvent is the explicit shape this service accepts from the identity
// provider. Unrecognized event kinds are acknowledged without mutation.
type clerkEvent struct {
	Type string        `json:"type"`
	Data clerkUserData `json:"data"`
}

type clerkUserData struct {
	ID             string            `json:"id"`
	Username       string            `json:"username"`
	FirstName      string            `json:"first_name"`
	LastName       string            `json:"last_name"`
	ImageURL       string            `json:"image_url"`
	EmailAddresses []clerkEmailEntry `json:"email_addresses"`
}

type clerkEmailEntry struct {
	EmailAddress string `json:"email_address"`
}

func (d clerkUserData) primaryEmail() string {
	if len(d.EmailAddresses) == 0 {
		return ""
	}
	return d.EmailAddresses[0].EmailAddress
}

// ClerkWebhook synchronizes identity-provider lifecycle events into the
// user store. The provider decides on redelivery from the HTTP status, so
// every verification or store failure must map to a non-2xx response.
func (a *App) ClerkWebhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "unreadable body")
		return
	}

	if err := a.SvixVerifier.Verify(
		body,
		r.Header.Get("svix-id"),
		r.Header.Get("svix-timestamp"),
		r.Header.Get("svix-signature"),
	); err != nil {
		a.Logger.Warn().Err(err).Msg("clerk webhook signature rejected")
		a.error(w, http.StatusBadRequest, "bad_signature", "webhook verification failed")
		return
	}

	var evt clerkEvent
	if err := json.Unmarshal(body, &evt); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}

	switch evt.Type {
	case "user.created":
		a.clerkUserCreated(w, r, evt.Data)
	case "user.updated":
		a.clerkUserUpdated(w, r, evt.Data)
	case "user.deleted":
		a.clerkUserDeleted(w, r, evt.Data)
	default:
		a.Logger.Info().Str("type", evt.Type).Msg("clerk webhook ignored")
		w.WriteHeader(http.StatusOK)
	}
}

func (a *App) clerkUserCreated(w http.ResponseWriter, r *http.Request, data clerkUserData) {
	email := data.primaryEmail()
	if data.ID == "" || email == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "user.created requires an id and an email address")
		return
	}

	user, err := a.Users.Create(r.Context(), &domain.User{
		ClerkID:   data.ID,
		Email:     email,
		Username:  data.Username,
		FirstName: data.FirstName,
		LastName:  data.LastName,
		PhotoURL:  data.ImageURL,
	})
	if err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			a.Logger.Warn().Str("clerk_id", data.ID).Msg("user already synced")
		}
		a.domainError(w, err, "failed to create user")
		return
	}

	// Best-effort write-back so the provider's session tokens carry the
	// local id. A failure here is logged, not surfaced: the user exists and
	// redelivery would only trip the uniqueness invariant.
	if a.Clerk != nil {
		if err := a.Clerk.SetUserID(r.Context(), data.ID, user.ID); err != nil {
			a.Logger.Error().Err(err).Str("clerk_id", data.ID).Msg("metadata write-back failed")
		}
	}

	a.json(w, http.StatusOK, map[string]any{"message": "OK", "user": toUserDTO(user)})
}

func (a *App) clerkUserUpdated(w http.ResponseWriter, r *http.Request, data clerkUserData) {
	if data.ID == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "user.updated requires an id")
		return
	}

	user, err := a.Users.UpdateByClerkID(r.Context(), data.ID, &domain.User{
		Username:  data.Username,
		FirstName: data.FirstName,
		LastName:  data.LastName,
		PhotoURL:  data.ImageURL,
	})
	if err != nil {
		a.domainError(w, err, "failed to update user")
		return
	}
	a.json(w, http.StatusOK, map[string]any{"message": "OK", "user": toUserDTO(user)})
}

func (a *App) clerkUserDeleted(w http.ResponseWriter, r *http.Request, data clerkUserData) {
	if data.ID == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "user.deleted requires an id")
		return
	}

	existed, err := a.Users.DeleteByClerkID(r.Context(), data.ID)
	if err != nil {
		a.domainError(w, err, "failed to delete user")
		return
	}
	if !existed {
		// Deleting an already-absent user is a successful no-op.
		a.Logger.Info().Str("clerk_id", data.ID).Msg("user.deleted for absent user")
	}
	a.json(w, http.StatusOK, map[string]any{"message": "OK", "user": nil})
}
