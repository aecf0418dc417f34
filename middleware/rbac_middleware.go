package middleware

import (
	"github.com/gofiber/fiber/v2"
	"schoolconnect-backend/lib/rbac"
	apimodels "schoolconnect-backend/models/api"
)

const rbacForbidden = "RBAC_FORBIDDEN"

// RbacMiddleware routes without a rule pass through
func RbacMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		userID := GetUserID(ctx)
		userRole := GetUserRole(ctx)
		if userID == "" || !userRole.IsValid() {
			return ctx.Status(fiber.StatusForbidden).JSON(apimodels.NewError(rbacForbidden))
		}
		handler, found := rbac.Instance.GetRuleFunc(ctx.Method(), ctx.Path())
		if !found {
			return ctx.Next()
		}
		if !handler(userID, userRole, ctx.Path()) {
			return ctx.Status(fiber.StatusForbidden).JSON(apimodels.NewError(rbacForbidden))
		}
		return ctx.Next()
	}
}
