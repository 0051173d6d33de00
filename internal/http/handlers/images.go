package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"server/internal/domain"
	"server/internal/domain/transformcfg"
	"server/internal/middleware"
	"server/internal/sqlinline"
)

// DefaultPageSize is the image listing page size.
const DefaultPageSize = 9

type imageRequest struct {
	Title              string               `json:"title"`
	PublicID           string               `json:"public_id"`
	SecureURL          string               `json:"secure_url"`
	TransformationType string               `json:"transformation_type"`
	Config             *transformcfg.Config `json:"config"`
	TransformationURL  string               `json:"transformation_url"`
	AspectRatio        string               `json:"aspect_ratio"`
	Color              string               `json:"color"`
	Prompt             string               `json:"prompt"`
	Width              int                  `json:"width"`
	Height             int                  `json:"height"`
}

func (req *imageRequest) toDomain() (*domain.Image, error) {
	t := domain.TransformationType(req.TransformationType)
	if !t.Valid() {
		return nil, errors.New("unsupported transformation type")
	}
	if req.Title == "" || req.PublicID == "" {
		return nil, errors.New("title and public_id are required")
	}
	cfg := req.Config
	if cfg == nil {
		cfg = &transformcfg.Config{}
	}
	cfg.Normalize(t)
	if err := cfg.Validate(t); err != nil {
		return nil, err
	}
	raw, err := cfg.Marshal()
	if err != nil {
		return nil, err
	}
	return &domain.Image{
		Title:              req.Title,
		PublicID:           req.PublicID,
		SecureURL:          req.SecureURL,
		TransformationType: t,
		Config:             raw,
		TransformationURL:  req.TransformationURL,
		AspectRatio:        req.AspectRatio,
		Color:              req.Color,
		Prompt:             req.Prompt,
		Width:              req.Width,
		Height:             req.Height,
	}, nil
}

// ImagesCreate persists a transformed image and charges its credit fee. The
// charge is a guarded decrement, so a concurrent purchase or spend can
// never drive the balance below the fee check.
func (a *App) ImagesCreate(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}

	var req imageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	image, err := req.toDomain()
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	image.AuthorID = userID

	fee := image.TransformationType.Fee()
	if _, err := a.Users.ChargeCredits(r.Context(), userID, fee); err != nil {
		a.domainError(w, err, "failed to charge credits")
		return
	}

	created, err := a.Images.Create(r.Context(), image)
	if err != nil {
		// Give the fee back; the transformation was never stored.
		if _, refundErr := a.Users.AdjustCredits(r.Context(), userID, fee); refundErr != nil {
			a.Logger.Error().Err(refundErr).Str("user_id", userID).Msg("credit refund failed")
		}
		a.domainError(w, err, "failed to create image")
		return
	}

	a.logUsage(r, userID, created.ID, "TRANSFORMATION_"+string(created.TransformationType), -fee)
	a.json(w, http.StatusCreated, toImageDTO(created))
}

// ImagesUpdate overwrites an image's mutable fields. Only the author may
// update; a non-author attempt leaves the record unchanged.
func (a *App) ImagesUpdate(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	imageID := chi.URLParam(r, "id")

	existing, err := a.Images.GetByID(r.Context(), imageID)
	if err != nil {
		a.domainError(w, err, "image not found")
		return
	}
	if existing.AuthorID != userID {
		a.error(w, http.StatusForbidden, "forbidden", "only the author may update this image")
		return
	}

	var req imageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	image, err := req.toDomain()
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	image.ID = existing.ID
	image.AuthorID = existing.AuthorID

	updated, err := a.Images.Update(r.Context(), image)
	if err != nil {
		a.domainError(w, err, "failed to update image")
		return
	}
	a.json(w, http.StatusOK, toImageDTO(updated))
}

// ImagesDelete removes an image. Deletion is idempotent: an absent record
// completes successfully.
func (a *App) ImagesDelete(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	imageID := chi.URLParam(r, "id")

	existing, err := a.Images.GetByID(r.Context(), imageID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		a.domainError(w, err, "failed to load image")
		return
	}
	if existing.AuthorID != userID {
		a.error(w, http.StatusForbidden, "forbidden", "only the author may delete this image")
		return
	}

	if err := a.Images.Delete(r.Context(), imageID); err != nil {
		a.domainError(w, err, "failed to delete image")
		return
	}
	a.logUsage(r, userID, imageID, "IMAGE_DELETE", 0)
	w.WriteHeader(http.StatusNoContent)
}

// ImagesGet returns one image with its author populated.
func (a *App) ImagesGet(w http.ResponseWriter, r *http.Request) {
	image, err := a.Images.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.domainError(w, err, "image not found")
		return
	}
	a.json(w, http.StatusOK, toImageDTO(image))
}

// ImagesList returns a page of images ordered by most-recently-updated.
// With a search query, the image CDN's index is consulted first and the
// local query restricted to the public ids it returned.
func (a *App) ImagesList(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page <= 0 {
		page = 1
	}
	searchQuery := r.URL.Query().Get("query")

	q := domain.ImageQuery{Page: page, PageSize: DefaultPageSize}
	if searchQuery != "" {
		if a.Search == nil {
			a.error(w, http.StatusServiceUnavailable, "search_unavailable", "image search is not configured")
			return
		}
		ids, err := a.Search.SearchPublicIDs(r.Context(), searchQuery)
		if err != nil {
			a.Logger.Error().Err(err).Msg("image search failed")
			a.error(w, http.StatusBadGateway, "provider_failure", "image search failed")
			return
		}
		if ids == nil {
			ids = []string{}
		}
		q.PublicIDs = ids
	}

	pageResult, err := a.Images.List(r.Context(), q)
	if err != nil {
		a.domainError(w, err, "failed to list images")
		return
	}
	a.json(w, http.StatusOK, imagePageResponse(pageResult))
}

func imagePageResponse(p *domain.ImagePage) map[string]any {
	items := make([]*imageDTO, 0, len(p.Items))
	for i := range p.Items {
		items = append(items, toImageDTO(&p.Items[i]))
	}
	return map[string]any{
		"data":         items,
		"total_pages":  p.TotalPages,
		"saved_images": p.SavedImages,
	}
}

// logUsage records an audit row for the ledger history. Failures are
// logged, never surfaced: the primary mutation already committed.
func (a *App) logUsage(r *http.Request, userID, imageID, eventType string, delta int64) {
	if a.SQL == nil {
		return
	}
	country := middleware.CountryFromContext(r.Context())
	_, err := a.SQL.Exec(r.Context(), sqlinline.QInsertUsageEvent,
		userID, imageID, eventType, delta, country, json.RawMessage(`{}`))
	if err != nil && !errors.Is(err, context.Canceled) {
		a.Logger.Error().Err(err).Str("event", eventType).Msg("log usage failed")
	}
}
