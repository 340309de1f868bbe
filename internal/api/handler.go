package api

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/fieldlink/jobber-adapter/pkg/model"
)

// SubmissionService defines the CRM operations needed by the handler.
type SubmissionService interface {
	SubmitContact(ctx context.Context, sub model.ContactSubmission) model.SubmissionResult
	SubmitNewsletter(ctx context.Context, sub model.NewsletterSubmission) model.SubmissionResult
}

// SubmissionHandler handles HTTP API requests for form submissions.
type SubmissionHandler struct {
	logger  *zap.Logger
	service SubmissionService
}

// NewSubmissionHandler creates a new SubmissionHandler.
func NewSubmissionHandler(logger *zap.Logger, service SubmissionService) *SubmissionHandler {
	return &SubmissionHandler{
		logger:  logger,
		service: service,
	}
}

// ContactHandler handles contact form submissions. A CRM-side failure is a
// soft error: the response is still 200 with success=false so the site can
// show its own fallback message.
func (h *SubmissionHandler) ContactHandler(c *fiber.Ctx) error {
	var req ContactRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if err := req.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	result := h.service.SubmitContact(c.Context(), toContactSubmission(req))
	if !result.Success {
		h.logger.Error("api.contact.failed",
			zap.String("email", req.Email),
			zap.Strings("errors", result.Errors))
	}

	return c.Status(fiber.StatusOK).JSON(result)
}

// NewsletterHandler handles newsletter signup submissions.
func (h *SubmissionHandler) NewsletterHandler(c *fiber.Ctx) error {
	var req NewsletterRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if err := req.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	result := h.service.SubmitNewsletter(c.Context(), toNewsletterSubmission(req))
	if !result.Success {
		h.logger.Error("api.newsletter.failed",
			zap.String("email", req.Email),
			zap.Strings("errors", result.Errors))
	}

	return c.Status(fiber.StatusOK).JSON(result)
}

// toContactSubmission converts an API request to a canonical ContactSubmission.
func toContactSubmission(req ContactRequest) model.ContactSubmission {
	return model.ContactSubmission{
		Name:              req.Name,
		Email:             req.Email,
		Phone:             req.Phone,
		Address:           req.Address,
		ContactPreference: req.ContactPreference,
		AdditionalInfo:    req.AdditionalInfo,
		SubmittedAt:       time.Now().UTC(),
	}
}

// toNewsletterSubmission converts an API request to a canonical NewsletterSubmission.
func toNewsletterSubmission(req NewsletterRequest) model.NewsletterSubmission {
	return model.NewsletterSubmission{
		Name:        req.Name,
		Email:       req.Email,
		Interests:   req.Interests,
		Source:      req.Source,
		SubmittedAt: time.Now().UTC(),
	}
}
