package middleware

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v3"
)

func TestExtractBearer(t *testing.T) {
	tests := []struct {
		name     string
		header   string
		expected string
	}{
		{"standard", "Bearer abc.def.ghi", "abc.def.ghi"},
		{"lowercase scheme", "bearer abc", "abc"},
		{"extra spaces", "  Bearer   abc  ", "abc"},
		{"basic scheme", "Basic dXNlcjpwYXNz", ""},
		{"no token", "Bearer", ""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := extractBearer(tt.header)
			if result != tt.expected {
				t.Errorf("extractBearer(%q) = %q, want %q", tt.header, result, tt.expected)
			}
		})
	}
}

type staticVerifier struct {
	token string
}

func (v staticVerifier) Verify(_ context.Context, raw string) (*Principal, error) {
	if raw != v.token {
		return nil, errors.New("bad token")
	}
	return &Principal{Subject: "user-1", Email: "ana@example.com"}, nil
}

func TestBearerAuth(t *testing.T) {
	app := fiber.New()
	app.Use(BearerAuth(staticVerifier{token: "good"}))
	app.Get("/private", func(c fiber.Ctx) error {
		return c.SendString(GetPrincipal(c).Email)
	})

	tests := []struct {
		name       string
		header     string
		wantStatus int
	}{
		{"valid token", "Bearer good", fiber.StatusOK},
		{"invalid token", "Bearer bad", fiber.StatusUnauthorized},
		{"missing header", "", fiber.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/private", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, err := app.Test(req)
			if err != nil {
				t.Fatalf("app.Test() error = %v", err)
			}
			if resp.StatusCode != tt.wantStatus {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.wantStatus)
			}
		})
	}
}
