// Package middleware provides authentication, logging, rate limiting and
// metrics middleware for the application.
package middleware

import (
	"context"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
)

// AuthRequired enforces a valid operator session token on admin routes.
// Tokens whose jti was blacklisted at logout are rejected; a nil Redis
// client skips the revocation check. On success it stores the operator ID
// and email in Fiber locals and the request context.
func AuthRequired(secret string, rdb *redis.Client) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Authorization header required",
			})
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid authorization header format",
			})
		}

		token, err := jwt.Parse(parts[1], func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid signing method")
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid or expired token",
			})
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid token claims",
			})
		}

		if rdb != nil {
			if jti, ok := claims["jti"].(string); ok && jti != "" {
				exists, err := rdb.Exists(c.Context(), "blacklist:"+jti).Result()
				if err == nil && exists > 0 {
					return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
						"error": "Token has been revoked",
					})
				}
			}
		}

		subClaim, ok := claims["sub"]
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid token structure - missing subject",
			})
		}
		subStr, ok := subClaim.(string)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid token subject type",
			})
		}
		operatorID, err := strconv.ParseUint(subStr, 10, 32)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid operator ID in token",
			})
		}

		c.Locals("operatorID", uint(operatorID))
		if email, ok := claims["email"].(string); ok {
			c.Locals("operatorEmail", email)
		}

		// ContextMiddleware already ran, so sync the operator into the
		// request context here for the context-aware logger.
		c.SetUserContext(context.WithValue(c.UserContext(), OperatorIDKey, uint(operatorID)))

		return c.Next()
	}
}
