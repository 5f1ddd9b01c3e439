package middlewares

import (
	t_token "talent_realtime_service/pkg/token"

	"github.com/gofiber/fiber/v2"
)

const (
	//QueryToken token in query name
	QueryToken = "auth"

	//CookieToken token in cookie name
	CookieToken = "auth_token"

	//TokenClaims parsed claims, set c.locals name
	TokenClaims = "claims"
)

// TokenFromRequest find bearer credential in query, cookie or Authorization header
func TokenFromRequest(c *fiber.Ctx) string {
	if tokenStr := c.Query(QueryToken); tokenStr != "" {
		return tokenStr
	}
	if tokenStr := c.Cookies(CookieToken); tokenStr != "" {
		return tokenStr
	}
	return c.Get(fiber.HeaderAuthorization)
}

// JWTMiddleware validates JWT and stores claims in c.Locals(TokenClaims)
func JWTMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenStr := TokenFromRequest(c)
		if tokenStr == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Missing token",
				"code":  "unauthenticated",
			})
		}

		claims, err := t_token.ParseJWT(tokenStr)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid token",
				"code":  "unauthenticated",
			})
		}

		c.Locals(TokenClaims, claims)
		return c.Next()
	}
}

// ClaimsFrom cast the value stored under TokenClaims
func ClaimsFrom(v interface{}) (*t_token.Claims, bool) {
	claims, ok := v.(*t_token.Claims)
	return claims, ok && claims != nil
}
