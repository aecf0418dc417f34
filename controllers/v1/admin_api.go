package apiv1

import (
	"github.com/gofiber/fiber/v2"
	"schoolconnect-backend/controllers"
	adminhandler "schoolconnect-backend/lib/admin"
	"schoolconnect-backend/middleware"
	"schoolconnect-backend/models"
	apimodels "schoolconnect-backend/models/api"
	adminapimodels "schoolconnect-backend/models/api/admin"
	jobapimodels "schoolconnect-backend/models/api/job"
	userapimodels "schoolconnect-backend/models/api/user"
)

type adminApiController struct {
	controllers.BaseAPIController
}

func InitAdminApiRouters(app *fiber.App) {
	controller := adminApiController{}
	app.Route("admin", func(router fiber.Router) {
		router.Use(middleware.RoleRequired(models.AdminRole))
		router.Get("stats", controller.stats)
		router.Route("jobs", func(jobRoute fiber.Router) {
			jobRoute.Post("list", controller.moderationList)
			jobRoute.Put("export", controller.exportJobs)
			jobRoute.Put(":id/approve", controller.approve)
			jobRoute.Put(":id/reject", controller.reject)
		})
		router.Route("employers", func(employerRoute fiber.Router) {
			employerRoute.Post("list", controller.employerList)
			employerRoute.Put(":id/verify", controller.verify)
			employerRoute.Put(":id/revoke", controller.revoke)
		})
		router.Route("users", func(userRoute fiber.Router) {
			userRoute.Post("list", controller.userList)
			userRoute.Put(":id/active", controller.setActive)
		})
	})
}

// @Summary Dashboard stats
// @Tags Admin
// @Param   Authorization		header		string	true	"Authorization token"
// @Success 200 {object} apimodels.Response{data=adminapimodels.Stats}
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/admin/stats [get]
func (c *adminApiController) stats(ctx *fiber.Ctx) error {
	resp, err := adminhandler.Instance.Stats()
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "stats fetch failed")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Moderation queue
// @Tags Admin
// @Description Postings by status, pending when the status is empty
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 jobapimodels.ModerationFilter	true	"request body"
// @Success 200 {object} apimodels.ScrollerResponse{data=[]jobapimodels.JobView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/admin/jobs/list [post]
func (c *adminApiController) moderationList(ctx *fiber.Ctx) error {
	var payload jobapimodels.ModerationFilter
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	list, rowCount, err := adminhandler.Instance.ModerationList(payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "moderation list fetch failed")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewScrollerResponse(list, rowCount))
}

// @Summary Export postings
// @Tags Admin
// @Description Postings matching the filter as an XLSX file
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 jobapimodels.ModerationFilter	true	"request body"
// @Success 200 {file} file
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/admin/jobs/export [put]
func (c *adminApiController) exportJobs(ctx *fiber.Ctx) error {
	var payload jobapimodels.ModerationFilter
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	body, err := adminhandler.Instance.ExportJobs(payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "job postings export failed")
	}
	ctx.Set(fiber.HeaderContentType, xlsxContentType)
	ctx.Set(fiber.HeaderContentDisposition, `attachment; filename="job-postings.xlsx"`)
	return ctx.SendStream(body)
}

// @Summary Approve posting
// @Tags Admin
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "rec ID"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/admin/jobs/{id}/approve [put]
func (c *adminApiController) approve(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	hMsg, err := adminhandler.Instance.Approve(middleware.GetUserID(ctx), id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "job posting approve failed")
	}
	if hMsg != "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(hMsg))
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}

// @Summary Reject posting
// @Tags Admin
// @Description Rejects a pending posting or takes down an approved one
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "rec ID"
// @Param	body body	 jobapimodels.RejectRequest	true	"request body"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/admin/jobs/{id}/reject [put]
func (c *adminApiController) reject(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload jobapimodels.RejectRequest
	if err = c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err = payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	hMsg, err := adminhandler.Instance.Reject(middleware.GetUserID(ctx), id, payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "job posting reject failed")
	}
	if hMsg != "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(hMsg))
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}

// @Summary Employers
// @Tags Admin
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 userapimodels.UserFilter	true	"request body"
// @Success 200 {object} apimodels.ScrollerResponse{data=[]userapimodels.UserView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/admin/employers/list [post]
func (c *adminApiController) employerList(ctx *fiber.Ctx) error {
	var payload userapimodels.UserFilter
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	list, rowCount, err := adminhandler.Instance.EmployerList(payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "employer list fetch failed")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewScrollerResponse(list, rowCount))
}

// @Summary Verify employer
// @Tags Admin
// @Description Verified employers can sign in and post jobs
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "employer ID"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/admin/employers/{id}/verify [put]
func (c *adminApiController) verify(ctx *fiber.Ctx) error {
	return c.setVerified(ctx, true)
}

// @Summary Revoke employer verification
// @Tags Admin
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "employer ID"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/admin/employers/{id}/revoke [put]
func (c *adminApiController) revoke(ctx *fiber.Ctx) error {
	return c.setVerified(ctx, false)
}

func (c *adminApiController) setVerified(ctx *fiber.Ctx, verified bool) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	hMsg, err := adminhandler.Instance.SetEmployerVerified(middleware.GetUserID(ctx), id, verified)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "employer verification update failed")
	}
	if hMsg != "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(hMsg))
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}

// @Summary Users
// @Tags Admin
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 userapimodels.UserFilter	true	"request body"
// @Success 200 {object} apimodels.ScrollerResponse{data=[]userapimodels.UserView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/admin/users/list [post]
func (c *adminApiController) userList(ctx *fiber.Ctx) error {
	var payload userapimodels.UserFilter
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if payload.Role != "" && !payload.Role.IsValid() {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError("unknown role"))
	}
	list, rowCount, err := adminhandler.Instance.UserList(payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "user list fetch failed")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewScrollerResponse(list, rowCount))
}

// @Summary Activate or deactivate user
// @Tags Admin
// @Description Deactivated users can not sign in. Administrators can not deactivate themselves
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "user ID"
// @Param	body body	 adminapimodels.ActivateRequest	true	"request body"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/admin/users/{id}/active [put]
func (c *adminApiController) setActive(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload adminapimodels.ActivateRequest
	if err = c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	hMsg, err := adminhandler.Instance.SetUserActive(middleware.GetUserID(ctx), id, payload.Active)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "user activity update failed")
	}
	if hMsg != "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(hMsg))
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}
