package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/offer-service/internal/service"
	apperrors "github.com/spec-kit/offer-service/pkg/util/errorutil"
)

const (
	headerWebhookSecret   = "X-Webhook-Secret"
	headerWebhookDelivery = "X-Webhook-Delivery"
)

// WebhookHandler receives deliveries from external systems.
type WebhookHandler struct {
	service *service.WebhookService
}

// NewWebhookHandler constructs handler.
func NewWebhookHandler(webhookService *service.WebhookService) *WebhookHandler {
	return &WebhookHandler{service: webhookService}
}

// Receive POST /webhook.
func (h *WebhookHandler) Receive(c *fiber.Ctx) error {
	body := map[string]any{}
	if raw := c.Body(); len(raw) > 0 {
		if err := c.App().Config().JSONDecoder(raw, &body); err != nil {
			return apperrors.NewValidationError("body must be a JSON object", nil)
		}
	}

	result, err := h.service.Handle(c.UserContext(), service.WebhookDelivery{
		Secret:     c.Get(headerWebhookSecret),
		DeliveryID: c.Get(headerWebhookDelivery),
		Body:       body,
	})
	if err != nil {
		return err
	}
	return data(c, http.StatusOK, fiber.Map{
		"ok":        true,
		"action":    result.Action,
		"duplicate": result.Duplicate,
	})
}
