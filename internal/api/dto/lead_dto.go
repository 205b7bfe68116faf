package dto

import (
	"time"

	"github.com/spec-kit/offer-service/internal/domain"
)

// CreateLeadRequest is the body of POST /admin/leads.
type CreateLeadRequest struct {
	Name   string            `json:"name" validate:"required"`
	Email  string            `json:"email"`
	Source string            `json:"source"`
	Status domain.LeadStatus `json:"status"`
	Notes  string            `json:"notes"`
}

// UpdateLeadRequest is the body of PATCH /admin/leads/:id. Absent fields are unchanged.
type UpdateLeadRequest struct {
	Name   *string            `json:"name"`
	Email  *string            `json:"email"`
	Source *string            `json:"source"`
	Status *domain.LeadStatus `json:"status"`
	Notes  *string            `json:"notes"`
}

// LeadResponse is the public view of a lead.
type LeadResponse struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	Email     string            `json:"email"`
	Source    string            `json:"source"`
	Status    domain.LeadStatus `json:"status"`
	Notes     string            `json:"notes"`
	CreatedAt time.Time         `json:"createdAt"`
	UpdatedAt time.Time         `json:"updatedAt"`
}

// NewLeadResponse maps a domain lead.
func NewLeadResponse(l *domain.Lead) LeadResponse {
	return LeadResponse{
		ID:        l.ID,
		Name:      l.Name,
		Email:     l.Email,
		Source:    l.Source,
		Status:    l.Status,
		Notes:     l.Notes,
		CreatedAt: l.CreatedAt,
		UpdatedAt: l.UpdatedAt,
	}
}
