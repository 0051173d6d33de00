package handlers

import (
	"encoding/json"
	"time"

	"server/internal/domain"
)

type userDTO struct {
	ID            string `json:"id"`
	ClerkID       string `json:"clerk_id"`
	Email         string `json:"email"`
	Username      string `json:"username"`
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
	PhotoURL      string `json:"photo_url"`
	Plan          string `json:"plan"`
	CreditBalance int64  `json:"credit_balance"`
	CreatedAt     string `json:"created_at,omitempty"`
	UpdatedAt     string `json:"updated_at,omitempty"`
}

func toUserDTO(u *domain.User) *userDTO {
	if u == nil {
		return nil
	}
	return &userDTO{
		ID:            u.ID,
		ClerkID:       u.ClerkID,
		Email:         u.Email,
		Username:      u.Username,
		FirstName:     u.FirstName,
		LastName:      u.LastName,
		PhotoURL:      u.PhotoURL,
		Plan:          string(u.Plan),
		CreditBalance: u.CreditBalance,
		CreatedAt:     formatTime(u.CreatedAt),
		UpdatedAt:     formatTime(u.UpdatedAt),
	}
}

type imageAuthorDTO struct {
	ID        string `json:"id"`
	ClerkID   string `json:"clerk_id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type imageDTO struct {
	ID                 string          `json:"id"`
	Title              string          `json:"title"`
	PublicID           string          `json:"public_id"`
	SecureURL          string          `json:"secure_url,omitempty"`
	TransformationType string          `json:"transformation_type"`
	Config             json.RawMessage `json:"config"`
	TransformationURL  string          `json:"transformation_url,omitempty"`
	AspectRatio        string          `json:"aspect_ratio,omitempty"`
	Color              string          `json:"color,omitempty"`
	Prompt             string          `json:"prompt,omitempty"`
	Width              int             `json:"width,omitempty"`
	Height             int             `json:"height,omitempty"`
	Author             *imageAuthorDTO `json:"author,omitempty"`
	CreatedAt          string          `json:"created_at,omitempty"`
	UpdatedAt          string          `json:"updated_at,omitempty"`
}

func toImageDTO(img *domain.Image) *imageDTO {
	if img == nil {
		return nil
	}
	cfg := img.Config
	if len(cfg) == 0 {
		cfg = []byte(`{}`)
	}
	dto := &imageDTO{
		ID:                 img.ID,
		Title:              img.Title,
		PublicID:           img.PublicID,
		SecureURL:          img.SecureURL,
		TransformationType: string(img.TransformationType),
		Config:             json.RawMessage(cfg),
		TransformationURL:  img.TransformationURL,
		AspectRatio:        img.AspectRatio,
		Color:              img.Color,
		Prompt:             img.Prompt,
		Width:              img.Width,
		Height:             img.Height,
		CreatedAt:          formatTime(img.CreatedAt),
		UpdatedAt:          formatTime(img.UpdatedAt),
	}
	if img.Author != nil {
		dto.Author = &imageAuthorDTO{
			ID:        img.Author.ID,
			ClerkID:   img.Author.ClerkID,
			FirstName: img.Author.FirstName,
			LastName:  img.Author.LastName,
		}
	}
	return dto
}

type transactionDTO struct {
	ID        string  `json:"id"`
	StripeID  string  `json:"stripe_id"`
	Amount    float64 `json:"amount"`
	Plan      string  `json:"plan,omitempty"`
	Credits   int64   `json:"credits"`
	BuyerID   string  `json:"buyer_id,omitempty"`
	CreatedAt string  `json:"created_at,omitempty"`
}

func toTransactionDTO(tx *domain.Transaction) *transactionDTO {
	if tx == nil {
		return nil
	}
	return &transactionDTO{
		ID:        tx.ID,
		StripeID:  tx.StripeID,
		Amount:    tx.Amount(),
		Plan:      tx.Plan,
		Credits:   tx.Credits,
		BuyerID:   tx.BuyerID,
		CreatedAt: formatTime(tx.CreatedAt),
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
