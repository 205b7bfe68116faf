package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/offer-service/internal/api/dto"
	"github.com/spec-kit/offer-service/internal/auth"
	"github.com/spec-kit/offer-service/internal/domain"
	"github.com/spec-kit/offer-service/internal/service"
)

// OffersHandler manages offer endpoints for owners and admins.
type OffersHandler struct {
	service *service.OfferService
}

// NewOffersHandler constructs handler.
func NewOffersHandler(offerService *service.OfferService) *OffersHandler {
	return &OffersHandler{service: offerService}
}

// ListOwn GET /me/offers.
func (h *OffersHandler) ListOwn(c *fiber.Ctx) error {
	offers, err := h.service.ListOwnOffers(c.UserContext(), principal(c), limitParam(c))
	if err != nil {
		return err
	}
	return data(c, http.StatusOK, offerList(offers))
}

// GetOwn GET /me/offers/:id.
func (h *OffersHandler) GetOwn(c *fiber.Ctx) error {
	offer, err := h.service.GetOwnOffer(c.UserContext(), principal(c), c.Params("id"))
	if err != nil {
		return err
	}
	return data(c, http.StatusOK, dto.NewOfferResponse(offer))
}

// AcceptOwn POST /me/offers/:id/accept.
func (h *OffersHandler) AcceptOwn(c *fiber.Ctx) error {
	offer, err := h.service.AcceptOwnOffer(c.UserContext(), principal(c), c.Params("id"))
	if err != nil {
		return err
	}
	return data(c, http.StatusOK, dto.NewOfferResponse(offer))
}

// DeclineOwn POST /me/offers/:id/decline.
func (h *OffersHandler) DeclineOwn(c *fiber.Ctx) error {
	offer, err := h.service.DeclineOwnOffer(c.UserContext(), principal(c), c.Params("id"))
	if err != nil {
		return err
	}
	return data(c, http.StatusOK, dto.NewOfferResponse(offer))
}

// ListAll GET /admin/offers.
func (h *OffersHandler) ListAll(c *fiber.Ctx) error {
	offers, err := h.service.ListAllOffers(c.UserContext(), principal(c), limitParam(c))
	if err != nil {
		return err
	}
	return data(c, http.StatusOK, offerList(offers))
}

// Create POST /admin/offers.
func (h *OffersHandler) Create(c *fiber.Ctx) error {
	if err := authorize(c, auth.ActionCreateOffer, auth.Resource{}); err != nil {
		return err
	}
	var req dto.CreateOfferRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	offer, err := h.service.CreateOffer(c.UserContext(), principal(c), service.CreateOfferInput{
		UserID:      req.UserID,
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
	})
	if err != nil {
		return err
	}
	return data(c, http.StatusCreated, dto.NewOfferResponse(offer))
}

// AdminAccept POST /admin/offers/:id/accept.
func (h *OffersHandler) AdminAccept(c *fiber.Ctx) error {
	offer, err := h.service.AcceptOfferAsAdmin(c.UserContext(), principal(c), c.Params("id"))
	if err != nil {
		return err
	}
	return data(c, http.StatusOK, dto.NewOfferResponse(offer))
}

func offerList(offers []domain.Offer) []dto.OfferResponse {
	items := make([]dto.OfferResponse, 0, len(offers))
	for i := range offers {
		items = append(items, dto.NewOfferResponse(&offers[i]))
	}
	return items
}
