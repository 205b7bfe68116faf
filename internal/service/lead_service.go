package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/offer-service/internal/auth"
	"github.com/spec-kit/offer-service/internal/domain"
	"github.com/spec-kit/offer-service/internal/events"
	"github.com/spec-kit/offer-service/internal/repository"
	"github.com/spec-kit/offer-service/pkg/util/validation"
)

// LeadService manages sales leads. Every operation requires the admin role.
type LeadService struct {
	leads      repository.LeadRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewLeadService constructs the service.
func NewLeadService(leads repository.LeadRepository, dispatcher events.Dispatcher, logger *zap.Logger) *LeadService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LeadService{leads: leads, dispatcher: dispatcher, logger: logger}
}

// LeadInput carries lead fields for create.
type LeadInput struct {
	Name   string            `json:"name" validate:"required,max=200"`
	Email  string            `json:"email" validate:"omitempty,email,max=254"`
	Source string            `json:"source" validate:"max=100"`
	Status domain.LeadStatus `json:"status" validate:"omitempty,oneof=new contacted qualified lost"`
	Notes  string            `json:"notes" validate:"max=5000"`
}

// LeadPatch carries a partial update; nil fields are left unchanged.
type LeadPatch struct {
	Name   *string
	Email  *string
	Source *string
	Status *domain.LeadStatus
	Notes  *string
}

// ListLeads lists leads, newest first.
func (s *LeadService) ListLeads(ctx context.Context, p *auth.Principal, limit int) ([]domain.Lead, error) {
	if err := auth.Authorize(p, auth.ActionManageLeads, auth.Resource{}); err != nil {
		return nil, err
	}
	leads, err := s.leads.List(ctx, limit)
	if err != nil {
		return nil, storeError(err, "lead")
	}
	return leads, nil
}

// CreateLead stores a lead. A missing status defaults to new.
func (s *LeadService) CreateLead(ctx context.Context, p *auth.Principal, input LeadInput) (*domain.Lead, error) {
	if err := auth.Authorize(p, auth.ActionManageLeads, auth.Resource{}); err != nil {
		return nil, err
	}
	input = trimLead(input)
	if input.Status == "" {
		input.Status = domain.LeadStatusNew
	}
	if err := validation.Struct(input); err != nil {
		return nil, err
	}

	lead := &domain.Lead{
		Name:   input.Name,
		Email:  input.Email,
		Source: input.Source,
		Status: input.Status,
		Notes:  input.Notes,
	}
	if err := s.leads.Create(ctx, lead); err != nil {
		return nil, storeError(err, "lead")
	}
	s.emit(ctx, p, events.EventLeadCreated, lead.ID, map[string]any{
		"name":   lead.Name,
		"status": string(lead.Status),
		"source": lead.Source,
	})
	return lead, nil
}

// UpdateLead applies patch to an existing lead.
func (s *LeadService) UpdateLead(ctx context.Context, p *auth.Principal, id string, patch LeadPatch) (*domain.Lead, error) {
	if err := auth.Authorize(p, auth.ActionManageLeads, auth.Resource{}); err != nil {
		return nil, err
	}
	lead, err := s.leads.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return nil, storeError(err, "lead")
	}

	changed := map[string]any{}
	input := LeadInput{Name: lead.Name, Email: lead.Email, Source: lead.Source, Status: lead.Status, Notes: lead.Notes}
	if patch.Name != nil {
		input.Name = *patch.Name
		changed["name"] = strings.TrimSpace(*patch.Name)
	}
	if patch.Email != nil {
		input.Email = *patch.Email
		changed["email"] = strings.TrimSpace(*patch.Email)
	}
	if patch.Source != nil {
		input.Source = *patch.Source
		changed["source"] = strings.TrimSpace(*patch.Source)
	}
	if patch.Status != nil {
		input.Status = *patch.Status
		changed["status"] = string(*patch.Status)
	}
	if patch.Notes != nil {
		input.Notes = *patch.Notes
		changed["notes"] = strings.TrimSpace(*patch.Notes)
	}
	input = trimLead(input)
	if input.Status == "" {
		input.Status = lead.Status
	}
	if err := validation.Struct(input); err != nil {
		return nil, err
	}

	lead.Name, lead.Email, lead.Source, lead.Status, lead.Notes = input.Name, input.Email, input.Source, input.Status, input.Notes
	if err := s.leads.Update(ctx, lead); err != nil {
		return nil, storeError(err, "lead")
	}
	s.emit(ctx, p, events.EventLeadUpdated, lead.ID, changed)
	return lead, nil
}

// DeleteLead removes a lead. Audit entries that reference it are kept.
func (s *LeadService) DeleteLead(ctx context.Context, p *auth.Principal, id string) error {
	if err := auth.Authorize(p, auth.ActionManageLeads, auth.Resource{}); err != nil {
		return err
	}
	id = strings.TrimSpace(id)
	if err := s.leads.Delete(ctx, id); err != nil {
		return storeError(err, "lead")
	}
	s.emit(ctx, p, events.EventLeadDeleted, id, nil)
	return nil
}

func (s *LeadService) emit(ctx context.Context, p *auth.Principal, typ events.EventType, id string, payload map[string]any) {
	publish(ctx, s.dispatcher, s.logger, events.Event{
		Type:       typ,
		EntityType: domain.EntityLead,
		EntityID:   id,
		ActorID:    actorOf(p),
		Source:     domain.AuditSourceAPI,
		Payload:    payload,
	})
}

func trimLead(in LeadInput) LeadInput {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Source = strings.TrimSpace(in.Source)
	in.Notes = strings.TrimSpace(in.Notes)
	return in
}
