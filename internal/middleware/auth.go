package middleware

import (
	"context"
	"strings"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/gofiber/fiber/v3"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// Principal is the authenticated caller of a management route.
type Principal struct {
	Subject string
	Email   string
}

// TokenVerifier validates a raw bearer token.
type TokenVerifier interface {
	Verify(ctx context.Context, rawToken string) (*Principal, error)
}

// OIDCVerifier verifies ID tokens issued by an OIDC provider.
type OIDCVerifier struct {
	verifier *oidc.IDTokenVerifier
}

// NewOIDCVerifier discovers the issuer and builds a verifier for clientID.
func NewOIDCVerifier(ctx context.Context, issuer, clientID string) (*OIDCVerifier, error) {
	provider, err := oidc.NewProvider(ctx, issuer)
	if err != nil {
		return nil, eris.Wrapf(err, "middleware: discover oidc issuer %s", issuer)
	}
	return &OIDCVerifier{verifier: provider.Verifier(&oidc.Config{ClientID: clientID})}, nil
}

// Verify checks the token signature, issuer, audience and expiry.
func (v *OIDCVerifier) Verify(ctx context.Context, rawToken string) (*Principal, error) {
	token, err := v.verifier.Verify(ctx, rawToken)
	if err != nil {
		return nil, eris.Wrap(err, "middleware: verify token")
	}

	var claims struct {
		Email string `json:"email"`
	}
	if err := token.Claims(&claims); err != nil {
		return nil, eris.Wrap(err, "middleware: decode claims")
	}
	return &Principal{Subject: token.Subject, Email: claims.Email}, nil
}

// BearerAuth rejects requests without a valid bearer token and stores the
// caller under the "principal" local.
func BearerAuth(verifier TokenVerifier) fiber.Handler {
	return func(c fiber.Ctx) error {
		raw := extractBearer(c.Get(fiber.HeaderAuthorization))
		if raw == "" {
			return unauthorized(c, "Missing bearer token")
		}

		principal, err := verifier.Verify(c.Context(), raw)
		if err != nil {
			zap.L().Debug("bearer token rejected", zap.Error(err))
			return unauthorized(c, "Invalid bearer token")
		}

		c.Locals("principal", principal)
		return c.Next()
	}
}

// GetPrincipal returns the authenticated caller, or nil.
func GetPrincipal(c fiber.Ctx) *Principal {
	p, _ := c.Locals("principal").(*Principal)
	return p
}

func extractBearer(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

func unauthorized(c fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"status": "error",
		"error":  msg,
	})
}
