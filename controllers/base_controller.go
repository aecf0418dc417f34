package controllers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	authutils "schoolconnect-backend/lib/utils/auth-utils"
	apimodels "schoolconnect-backend/models/api"
)

type BaseAPIController struct{}

func (c *BaseAPIController) BodyParser(ctx *fiber.Ctx, out interface{}) error {
	if err := ctx.BodyParser(out); err != nil {
		c.GetLogger(ctx).WithError(err).Error("request body parsing failed")
		return errors.New("failed to read request data")
	}
	return nil
}

// GetID path param "id", must be a uuid
func (c *BaseAPIController) GetID(ctx *fiber.Ctx) (string, error) {
	return c.GetParam(ctx, "id")
}

func (c *BaseAPIController) GetParam(ctx *fiber.Ctx, name string) (string, error) {
	value := strings.TrimSpace(ctx.Params(name))
	if value == "" {
		return "", errors.Errorf("%s is not specified", name)
	}
	if _, err := uuid.Parse(value); err != nil {
		return "", errors.Errorf("%s has an invalid format", name)
	}
	return value, nil
}

func (c *BaseAPIController) GetLogger(ctx *fiber.Ctx) *log.Entry {
	logger := log.
		WithField("method", ctx.Method()).
		WithField("path", ctx.Path())
	if sub, ok := authutils.GetClaims(ctx)["sub"].(string); ok {
		logger = logger.WithField("user_id", sub)
	}
	return logger
}

// SendError logs err and answers 500 with a message safe for the client
func (c *BaseAPIController) SendError(ctx *fiber.Ctx, logger *log.Entry, err error, msg string) error {
	logger.WithError(err).Error(msg)
	return ctx.Status(fiber.StatusInternalServerError).JSON(apimodels.NewError(msg))
}

func (c *BaseAPIController) SendValidationError(ctx *fiber.Ctx, err error) error {
	return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewValidationResponse(err))
}

// SendFile attachment download
func (c *BaseAPIController) SendFile(ctx *fiber.Ctx, fileName, contentType string, body []byte) error {
	ctx.Set(fiber.HeaderContentType, contentType)
	ctx.Set(fiber.HeaderContentDisposition, `attachment; filename="`+strings.ReplaceAll(fileName, `"`, "")+`"`)
	return ctx.Send(body)
}
