package apiv1

import (
	"io"

	"github.com/gofiber/fiber/v2"
	"schoolconnect-backend/config"
	"schoolconnect-backend/controllers"
	resumehandler "schoolconnect-backend/lib/resume"
	"schoolconnect-backend/middleware"
	apimodels "schoolconnect-backend/models/api"
	resumeapimodels "schoolconnect-backend/models/api/resume"
)

// multipart boundaries and headers around the file part
const uploadOverheadBytes = 64 * 1024

type resumeApiController struct {
	controllers.BaseAPIController
}

func UploadBodyLimit(maxResumeSizeMb int) int64 {
	return int64(maxResumeSizeMb)*1024*1024 + uploadOverheadBytes
}

func InitResumeApiRouters(app *fiber.App) {
	controller := resumeApiController{}
	uploadLimit := UploadBodyLimit(config.Conf.S3.MaxResumeSizeMb)
	app.Route("resumes", func(router fiber.Router) {
		router.Post("", middleware.WithBodyLimit(uploadLimit), controller.upload)
		router.Get("list", controller.list)
		router.Get(":id", controller.download)
		router.Delete(":id", controller.delete)
	})
}

// @Summary Upload resume
// @Tags Resumes
// @Description PDF, DOC or DOCX. At most 5 resumes per student
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   file				formData	file 	true 	"resume"
// @Success 200 {object} apimodels.Response{data=string}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 413 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/resumes [post]
func (c *resumeApiController) upload(ctx *fiber.Ctx) error {
	file, err := ctx.FormFile("file")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError("file is not attached"))
	}
	buffer, err := file.Open()
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "resume file read failed")
	}
	defer buffer.Close()
	body, err := io.ReadAll(buffer)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "resume file read failed")
	}
	id, hMsg, err := resumehandler.Instance.Upload(ctx.UserContext(), middleware.GetUserID(ctx), resumeapimodels.ResumeFile{
		Name:        file.Filename,
		ContentType: file.Header.Get(fiber.HeaderContentType),
		Body:        body,
	})
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "resume upload failed")
	}
	if hMsg != "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(hMsg))
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(id))
}

// @Summary Own resumes
// @Tags Resumes
// @Param   Authorization		header		string	true	"Authorization token"
// @Success 200 {object} apimodels.Response{data=[]resumeapimodels.ResumeView}
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/resumes/list [get]
func (c *resumeApiController) list(ctx *fiber.Ctx) error {
	list, err := resumehandler.Instance.List(middleware.GetUserID(ctx))
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "resume list fetch failed")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(list))
}

// @Summary Download resume
// @Tags Resumes
// @Description Students download their own resumes, administrators any
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "rec ID"
// @Success 200 {file} file
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/resumes/{id} [get]
func (c *resumeApiController) download(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	file, hMsg, err := resumehandler.Instance.Download(ctx.UserContext(), middleware.GetUserID(ctx), middleware.GetUserRole(ctx), id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "resume download failed")
	}
	if hMsg != "" {
		return ctx.Status(fiber.StatusNotFound).JSON(apimodels.NewError(hMsg))
	}
	return c.SendFile(ctx, file.Name, file.ContentType, file.Body)
}

// @Summary Delete resume
// @Tags Resumes
// @Description Refused while an application under review uses the resume
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "rec ID"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/resumes/{id} [delete]
func (c *resumeApiController) delete(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	hMsg, err := resumehandler.Instance.Delete(ctx.UserContext(), middleware.GetUserID(ctx), id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "resume delete failed")
	}
	if hMsg != "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(hMsg))
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}
