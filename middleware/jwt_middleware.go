package middleware

import (
	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"schoolconnect-backend/config"
	authutils "schoolconnect-backend/lib/utils/auth-utils"
	"schoolconnect-backend/models"
	apimodels "schoolconnect-backend/models/api"
)

// AuthorizationRequired the websocket handshake passes the token as ?token=
func AuthorizationRequired() fiber.Handler {
	return jwtware.New(jwtware.Config{
		Claims: jwt.MapClaims{},
		SigningKey: jwtware.SigningKey{
			JWTAlg: "HS256",
			Key:    []byte(config.Conf.Auth.JWTSecret),
		},
		TokenLookup: "header:Authorization,query:token",
		ErrorHandler: func(ctx *fiber.Ctx, err error) error {
			return ctx.Status(fiber.StatusUnauthorized).JSON(apimodels.NewError("unauthorized"))
		},
		SuccessHandler: func(ctx *fiber.Ctx) error {
			// refresh tokens are not accepted as access tokens
			if _, isRefresh := authutils.GetClaims(ctx)["typ"]; isRefresh || GetUserID(ctx) == "" {
				return ctx.Status(fiber.StatusUnauthorized).JSON(apimodels.NewError("unauthorized"))
			}
			return ctx.Next()
		},
	})
}

func GetUserID(ctx *fiber.Ctx) string {
	claims := authutils.GetClaims(ctx)
	if sub, ok := claims["sub"].(string); ok {
		return sub
	}
	return ""
}

func GetUserRole(ctx *fiber.Ctx) models.UserRole {
	claims := authutils.GetClaims(ctx)
	if role, ok := claims["role"].(string); ok {
		return models.UserRole(role)
	}
	return ""
}

func RoleRequired(roles ...models.UserRole) fiber.Handler {
	allowed := map[models.UserRole]bool{}
	for _, role := range roles {
		allowed[role] = true
	}
	return func(ctx *fiber.Ctx) error {
		if !allowed[GetUserRole(ctx)] {
			return ctx.Status(fiber.StatusForbidden).JSON(apimodels.NewError("operation is not available"))
		}
		return ctx.Next()
	}
}
