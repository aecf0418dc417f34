package apiv1

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"schoolconnect-backend/controllers"
	jobhandler "schoolconnect-backend/lib/job"
	"schoolconnect-backend/middleware"
	apimodels "schoolconnect-backend/models/api"
	jobapimodels "schoolconnect-backend/models/api/job"
)

type jobApiController struct {
	controllers.BaseAPIController
}

func InitJobApiRouters(app *fiber.App) {
	controller := jobApiController{}
	app.Route("jobs", func(router fiber.Router) {
		router.Post("list", controller.browse)
		router.Post("validate", controller.validateStep)
		router.Route(":id", func(idRoute fiber.Router) {
			idRoute.Get("", controller.get)
			idRoute.Get("pdf", controller.pdf)
		})
	})
}

// @Summary Job board
// @Tags Jobs
// @Description Approved postings still accepting applications
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 jobapimodels.JobFilter	true	"request body"
// @Success 200 {object} apimodels.ScrollerResponse{data=[]jobapimodels.JobView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/jobs/list [post]
func (c *jobApiController) browse(ctx *fiber.Ctx) error {
	var payload jobapimodels.JobFilter
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err := payload.Validate(); err != nil {
		return c.SendValidationError(ctx, err)
	}
	list, rowCount, err := jobhandler.Instance.Browse(payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "job list fetch failed")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewScrollerResponse(list, rowCount))
}

// @Summary Job form step check
// @Tags Jobs
// @Description Validates one step of the posting wizard (basics, details, compensation)
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	step				query		string					true	"form step"
// @Param	body body	 jobapimodels.JobData	true	"request body"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response{data=apimodels.ValidationError}
// @Failure 403
// @router /api/v1/jobs/validate [post]
func (c *jobApiController) validateStep(ctx *fiber.Ctx) error {
	var payload jobapimodels.JobData
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err := payload.ValidateStepAt(ctx.Query("step"), time.Now()); err != nil {
		return c.SendValidationError(ctx, err)
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}

// @Summary Job posting by ID
// @Tags Jobs
// @Description Students see approved postings, employers their own, administrators all
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "rec ID"
// @Success 200 {object} apimodels.Response{data=jobapimodels.JobView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/jobs/{id} [get]
func (c *jobApiController) get(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	resp, hMsg, err := jobhandler.Instance.Get(middleware.GetUserID(ctx), middleware.GetUserRole(ctx), id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "job posting fetch failed")
	}
	if hMsg != "" {
		return ctx.Status(fiber.StatusNotFound).JSON(apimodels.NewError(hMsg))
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Job flyer
// @Tags Jobs
// @Description Posting as a printable PDF
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "rec ID"
// @Success 200 {file} file
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/jobs/{id}/pdf [get]
func (c *jobApiController) pdf(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	body, hMsg, err := jobhandler.Instance.ExportPdf(middleware.GetUserID(ctx), middleware.GetUserRole(ctx), id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "job flyer generation failed")
	}
	if hMsg != "" {
		return ctx.Status(fiber.StatusNotFound).JSON(apimodels.NewError(hMsg))
	}
	return c.SendFile(ctx, "job-"+id+".pdf", "application/pdf", body)
}
