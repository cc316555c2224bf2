package middleware

import (
	"strings"

	"stock-app/config"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// AuthMiddleware validates the bearer token (or the token cookie as a
// fallback) and stores the user identity in the request locals.
func AuthMiddleware(ctx *fiber.Ctx) error {
	tokenString := ""

	authHeader := ctx.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		tokenString = strings.TrimPrefix(authHeader, "Bearer ")
	}
	if tokenString == "" {
		tokenString = ctx.Cookies("token")
	}
	if tokenString == "" {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Missing token",
		})
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(config.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid or expired token",
		})
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid token claims",
		})
	}

	userID, ok := claims["user_id"].(float64)
	if !ok {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid token claims",
		})
	}

	ctx.Locals("userID", userID)
	ctx.Locals("userData", claims)

	return ctx.Next()
}

// UserID reads the authenticated user id set by AuthMiddleware. Returns 0
// for unauthenticated contexts (e.g. background jobs reusing handlers).
func UserID(ctx *fiber.Ctx) int {
	if id, ok := ctx.Locals("userID").(float64); ok {
		return int(id)
	}
	return 0
}
