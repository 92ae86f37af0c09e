package serverutils

import (
	"ai-assistant-be/pkg/identity"

	"github.com/gofiber/fiber/v2"
)

// JwtMiddleware requires a valid bearer token.
func JwtMiddleware(secret string) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		user, ok := bearerUser(ctx, secret)
		if !ok {
			return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse(fiber.StatusUnauthorized, "Invalid token"))
		}
		setUser(ctx, user)
		return ctx.Next()
	}
}

// OptionalJwtMiddleware attaches the user when a valid token is present
// and lets anonymous requests through. The session decides whether
// anonymous callers may act.
func OptionalJwtMiddleware(secret string) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		if user, ok := bearerUser(ctx, secret); ok {
			setUser(ctx, user)
		}
		return ctx.Next()
	}
}

func bearerUser(ctx *fiber.Ctx, secret string) (identity.User, bool) {
	authHeader := ctx.Get("Authorization")
	if len(authHeader) < 7 || authHeader[:7] != "Bearer " || secret == "" {
		return identity.User{}, false
	}
	user, err := identity.ParseToken(secret, authHeader[7:])
	if err != nil {
		return identity.User{}, false
	}
	return user, true
}

func setUser(ctx *fiber.Ctx, user identity.User) {
	ctx.Locals("user_id", user.ID)
	ctx.SetUserContext(identity.WithUser(ctx.UserContext(), user))
}
