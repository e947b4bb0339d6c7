package middleware

import (
	"strings"

	"go-pos-ws/internal/repository"
	"go-pos-ws/pkg/jwt"

	"github.com/gofiber/fiber/v2"
)

// RequireAuth validates the Bearer token and resolves the cashier against
// the database, so every committed sale is attributable to a live account.
func RequireAuth(cashierRepo repository.CashierRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(401).JSON(fiber.Map{"error": "Missing authorization token"})
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			return c.Status(401).JSON(fiber.Map{"error": "Invalid authorization format. Use: Bearer <token>"})
		}

		claims, err := jwt.ValidateToken(parts[1])
		if err != nil {
			return c.Status(401).JSON(fiber.Map{"error": "Invalid or expired token"})
		}

		cashier, err := cashierRepo.FindByID(claims.CashierID)
		if err != nil {
			return c.Status(401).JSON(fiber.Map{"error": "Cashier not found"})
		}
		if !cashier.IsActive {
			return c.Status(401).JSON(fiber.Map{"error": "Account is deactivated"})
		}

		c.Locals("cashier", cashier)
		c.Locals("cashier_id", cashier.ID.String())
		c.Locals("cashier_name", cashier.FullName)

		return c.Next()
	}
}
