package service

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	"plusnine/internal/models"
	"plusnine/internal/observability"
	"plusnine/internal/repository"
)

// webhookTolerance bounds how old a signed webhook timestamp may be.
const webhookTolerance = 5 * time.Minute

// PaymentService handles payment-provider webhooks that elevate accounts.
type PaymentService struct {
	userRepo      repository.UserRepository
	webhookSecret string
	now           func() time.Time
}

// webhookEvent mirrors the relevant subset of the provider's event envelope.
type webhookEvent struct {
	Type string `json:"type"`
	Data struct {
		Object struct {
			Customer string `json:"customer"`
		} `json:"object"`
	} `json:"data"`
}

// NewPaymentService returns a new PaymentService.
func NewPaymentService(userRepo repository.UserRepository, webhookSecret string) *PaymentService {
	return &PaymentService{
		userRepo:      userRepo,
		webhookSecret: webhookSecret,
		now:           time.Now,
	}
}

// VerifySignature checks a Stripe-style signature header of the form
// "t=<unix>,v1=<hex hmac>" where the HMAC-SHA256 is computed over
// "<unix>.<payload>" with the webhook secret.
func (s *PaymentService) VerifySignature(payload []byte, header string) error {
	if s.webhookSecret == "" {
		return models.NewInternalError(errors.New("webhook secret not configured"))
	}

	var timestamp string
	var signatures []string
	for _, part := range strings.Split(header, ",") {
		key, value, found := strings.Cut(strings.TrimSpace(part), "=")
		if !found {
			continue
		}
		switch key {
		case "t":
			timestamp = value
		case "v1":
			signatures = append(signatures, value)
		}
	}
	if timestamp == "" || len(signatures) == 0 {
		return models.NewUnauthorizedError("Malformed webhook signature header")
	}

	ts, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return models.NewUnauthorizedError("Malformed webhook signature header")
	}
	age := s.now().Sub(time.Unix(ts, 0))
	if age > webhookTolerance || age < -webhookTolerance {
		return models.NewUnauthorizedError("Webhook timestamp outside tolerance")
	}

	mac := hmac.New(sha256.New, []byte(s.webhookSecret))
	mac.Write([]byte(timestamp))
	mac.Write([]byte("."))
	mac.Write(payload)
	expected := mac.Sum(nil)

	for _, sig := range signatures {
		decoded, decodeErr := hex.DecodeString(sig)
		if decodeErr != nil {
			continue
		}
		if hmac.Equal(decoded, expected) {
			return nil
		}
	}
	return models.NewUnauthorizedError("Webhook signature mismatch")
}

// HandleWebhook verifies and processes a webhook delivery. A completed
// checkout session elevates the matching customer's account to premium.
// Event types we do not handle are acknowledged without action.
func (s *PaymentService) HandleWebhook(ctx context.Context, payload []byte, signatureHeader string) error {
	if err := s.VerifySignature(payload, signatureHeader); err != nil {
		observability.WebhookEvents.WithLabelValues("unknown", "rejected").Inc()
		return err
	}

	var event webhookEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		observability.WebhookEvents.WithLabelValues("unknown", "malformed").Inc()
		return models.NewValidationError("Malformed webhook payload")
	}

	switch event.Type {
	case "checkout.session.completed":
		customer := event.Data.Object.Customer
		if customer == "" {
			observability.WebhookEvents.WithLabelValues(event.Type, "malformed").Inc()
			return models.NewValidationError("Webhook event missing customer")
		}
		if _, err := s.userRepo.ElevateRoleByCustomerID(ctx, customer, models.RolePremium); err != nil {
			observability.WebhookEvents.WithLabelValues(event.Type, "failed").Inc()
			return err
		}
		observability.WebhookEvents.WithLabelValues(event.Type, "processed").Inc()
		return nil
	default:
		observability.WebhookEvents.WithLabelValues(event.Type, "ignored").Inc()
		return nil
	}
}
