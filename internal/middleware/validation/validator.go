package validation

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

type Config struct {
	MaxBodySize         int
	AllowedContentTypes []string
}

// Middleware rejects obviously malformed report requests before they reach
// the engine: wrong content type, oversized bodies, missing required fields.
// Semantic validation (date ordering, enum values) stays in the engine.
func Middleware(cfg Config) fiber.Handler {
	if cfg.MaxBodySize == 0 {
		cfg.MaxBodySize = 1024 * 1024
	}
	if len(cfg.AllowedContentTypes) == 0 {
		cfg.AllowedContentTypes = []string{"application/json"}
	}

	return func(c *fiber.Ctx) error {
		if c.Method() != fiber.MethodPost {
			return c.Next()
		}

		contentType := c.Get("Content-Type")
		if contentType != "" {
			allowed := false
			for _, allowedType := range cfg.AllowedContentTypes {
				if strings.Contains(contentType, allowedType) {
					allowed = true
					break
				}
			}
			if !allowed {
				return c.Status(fiber.StatusUnsupportedMediaType).JSON(fiber.Map{
					"error": "Unsupported content type",
				})
			}
		}

		if len(c.Body()) > cfg.MaxBodySize {
			return c.Status(fiber.StatusRequestEntityTooLarge).JSON(fiber.Map{
				"error": "Request body exceeds maximum size",
			})
		}

		if strings.Contains(c.Path(), "/api/v1/reports") {
			var req map[string]interface{}
			if err := c.BodyParser(&req); err != nil {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
					"error": "Invalid JSON format",
				})
			}

			if _, ok := req["reportType"].(string); !ok {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
					"error": "reportType is required and must be a string",
				})
			}

			if _, ok := req["dateRange"].(map[string]interface{}); !ok {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
					"error": "dateRange is required",
				})
			}
		}

		return c.Next()
	}
}
