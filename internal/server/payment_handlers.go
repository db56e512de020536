package server

import (
	"github.com/gofiber/fiber/v2"
)

// StripeWebhook handles POST /Stripe/WebhookEndpoint
// @Summary Payment provider webhook
// @Description Receive signed payment events; a completed checkout elevates the customer to premium
// @Tags payments
// @Accept json
// @Produce json
// @Param Stripe-Signature header string true "Webhook signature"
// @Success 200 {object} object{received=boolean}
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /Stripe/WebhookEndpoint [post]
func (s *Server) StripeWebhook(c *fiber.Ctx) error {
	payload := c.Body()
	signature := c.Get("Stripe-Signature")

	if err := s.paymentService.HandleWebhook(c.Context(), payload, signature); err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{"received": true})
}
