package dto

import (
	"time"

	"github.com/spec-kit/offer-service/internal/domain"
)

// CreateOfferRequest is the body of POST /admin/offers. Status is accepted and ignored.
type CreateOfferRequest struct {
	UserID      string             `json:"userId" validate:"required"`
	Title       string             `json:"title" validate:"required"`
	Description string             `json:"description"`
	Status      domain.OfferStatus `json:"status,omitempty"`
}

// OfferResponse is the public view of an offer.
type OfferResponse struct {
	ID          string             `json:"id"`
	UserID      string             `json:"userId"`
	Title       string             `json:"title"`
	Description string             `json:"description"`
	Status      domain.OfferStatus `json:"status"`
	CreatedBy   string             `json:"createdBy"`
	CreatedAt   time.Time          `json:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt"`
}

// NewOfferResponse maps a domain offer.
func NewOfferResponse(o *domain.Offer) OfferResponse {
	return OfferResponse{
		ID:          o.ID,
		UserID:      o.UserID,
		Title:       o.Title,
		Description: o.Description,
		Status:      o.Status,
		CreatedBy:   o.CreatedBy,
		CreatedAt:   o.CreatedAt,
		UpdatedAt:   o.UpdatedAt,
	}
}
