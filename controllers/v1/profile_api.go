package apiv1

import (
	"github.com/gofiber/fiber/v2"
	"schoolconnect-backend/controllers"
	usershandler "schoolconnect-backend/lib/users"
	"schoolconnect-backend/middleware"
	apimodels "schoolconnect-backend/models/api"
	userapimodels "schoolconnect-backend/models/api/user"
)

type profileApiController struct {
	controllers.BaseAPIController
}

func InitProfileApiRouters(app *fiber.App) {
	controller := profileApiController{}
	app.Route("profile", func(router fiber.Router) {
		router.Get("", controller.get)
		router.Put("", controller.update)
		router.Put("password", controller.changePassword)
	})
}

// @Summary Own profile
// @Tags Profile
// @Param   Authorization		header		string	true	"Authorization token"
// @Success 200 {object} apimodels.Response{data=userapimodels.UserView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/profile [get]
func (c *profileApiController) get(ctx *fiber.Ctx) error {
	resp, hMsg, err := usershandler.Instance.GetProfile(middleware.GetUserID(ctx))
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "profile fetch failed")
	}
	if hMsg != "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(hMsg))
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Update own profile
// @Tags Profile
// @Description Fields missing from the body are left untouched. School fields are for students, company fields for employers
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 userapimodels.ProfileUpdate	true	"request body"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response{data=apimodels.ValidationError}
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/profile [put]
func (c *profileApiController) update(ctx *fiber.Ctx) error {
	var payload userapimodels.ProfileUpdate
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err := payload.Validate(middleware.GetUserRole(ctx)); err != nil {
		return c.SendValidationError(ctx, err)
	}
	hMsg, err := usershandler.Instance.UpdateProfile(middleware.GetUserID(ctx), payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "profile update failed")
	}
	if hMsg != "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(hMsg))
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}

// @Summary Change password
// @Tags Profile
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 userapimodels.ChangePassword	true	"request body"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response{data=apimodels.ValidationError}
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/profile/password [put]
func (c *profileApiController) changePassword(ctx *fiber.Ctx) error {
	var payload userapimodels.ChangePassword
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err := payload.Validate(); err != nil {
		return c.SendValidationError(ctx, err)
	}
	hMsg, err := usershandler.Instance.ChangePassword(middleware.GetUserID(ctx), payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "password change failed")
	}
	if hMsg != "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(hMsg))
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}
