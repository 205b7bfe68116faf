package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/offer-service/internal/api/dto"
	"github.com/spec-kit/offer-service/internal/auth"
	"github.com/spec-kit/offer-service/internal/service"
)

// LeadsHandler exposes admin lead management.
type LeadsHandler struct {
	service *service.LeadService
}

// NewLeadsHandler constructs handler.
func NewLeadsHandler(leadService *service.LeadService) *LeadsHandler {
	return &LeadsHandler{service: leadService}
}

// List GET /admin/leads.
func (h *LeadsHandler) List(c *fiber.Ctx) error {
	leads, err := h.service.ListLeads(c.UserContext(), principal(c), limitParam(c))
	if err != nil {
		return err
	}
	items := make([]dto.LeadResponse, 0, len(leads))
	for i := range leads {
		items = append(items, dto.NewLeadResponse(&leads[i]))
	}
	return data(c, http.StatusOK, items)
}

// Create POST /admin/leads.
func (h *LeadsHandler) Create(c *fiber.Ctx) error {
	if err := authorize(c, auth.ActionManageLeads, auth.Resource{}); err != nil {
		return err
	}
	var req dto.CreateLeadRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	lead, err := h.service.CreateLead(c.UserContext(), principal(c), service.LeadInput{
		Name:   req.Name,
		Email:  req.Email,
		Source: req.Source,
		Status: req.Status,
		Notes:  req.Notes,
	})
	if err != nil {
		return err
	}
	return data(c, http.StatusCreated, dto.NewLeadResponse(lead))
}

// Update PATCH /admin/leads/:id.
func (h *LeadsHandler) Update(c *fiber.Ctx) error {
	if err := authorize(c, auth.ActionManageLeads, auth.Resource{}); err != nil {
		return err
	}
	var req dto.UpdateLeadRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	lead, err := h.service.UpdateLead(c.UserContext(), principal(c), c.Params("id"), service.LeadPatch{
		Name:   req.Name,
		Email:  req.Email,
		Source: req.Source,
		Status: req.Status,
		Notes:  req.Notes,
	})
	if err != nil {
		return err
	}
	return data(c, http.StatusOK, dto.NewLeadResponse(lead))
}

// Delete DELETE /admin/leads/:id.
func (h *LeadsHandler) Delete(c *fiber.Ctx) error {
	if err := h.service.DeleteLead(c.UserContext(), principal(c), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}
