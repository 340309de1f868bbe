package api

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/fieldlink/jobber-adapter/internal/auth"
	"github.com/fieldlink/jobber-adapter/pkg/utils"
)

// CodeExchanger exchanges an authorization code for a token pair.
type CodeExchanger interface {
	ExchangeAuthorizationCode(ctx context.Context, code, redirectURI string) (auth.TokenResponse, error)
}

// OAuthHandler handles the Jobber authorization-code callback. It is an
// operator flow: the returned refresh token must be stored in configuration
// by hand, the adapter does not persist it.
type OAuthHandler struct {
	logger      *zap.Logger
	exchanger   CodeExchanger
	redirectURI string
}

// NewOAuthHandler creates a new OAuthHandler.
func NewOAuthHandler(logger *zap.Logger, exchanger CodeExchanger, redirectURI string) *OAuthHandler {
	return &OAuthHandler{
		logger:      logger,
		exchanger:   exchanger,
		redirectURI: redirectURI,
	}
}

// CallbackHandler completes the authorization-code grant.
func (h *OAuthHandler) CallbackHandler(c *fiber.Ctx) error {
	code := c.Query("code")
	if code == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "code query parameter is required"})
	}

	tokens, err := h.exchanger.ExchangeAuthorizationCode(c.Context(), code, h.redirectURI)
	if err != nil {
		h.logger.Error("oauth.callback.exchange_failed", zap.Error(err))
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": err.Error()})
	}

	h.logger.Info("oauth.callback.exchanged",
		zap.String("access_token", utils.MaskToken(tokens.AccessToken)),
		zap.String("refresh_token", utils.MaskToken(tokens.RefreshToken)))

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"access_token":  tokens.AccessToken,
		"refresh_token": tokens.RefreshToken,
		"expires_in":    tokens.ExpiresIn,
		"note":          "store the refresh_token as JOBBER_REFRESH_TOKEN and restart the adapter",
	})
}
