package fiberlog

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

const (
	TagPid       = "pid"
	TagLatency   = "latency"
	TagStatus    = "status"
	TagMethod    = "method"
	TagPath      = "path"
	TagIP        = "ip"
	TagUserAgent = "user_agent"
	TagBody      = "body"
	TagResBody   = "res_body"
	RequestID    = "request_id"

	maxBodyLen = 2048
)

// FuncTag returns the field value for one request
type FuncTag func(c *fiber.Ctx, d *data) interface{}

type data struct {
	pid   int
	start time.Time
	end   time.Time
}

func getFuncTagMap(cfg Config) map[string]FuncTag {
	all := map[string]FuncTag{
		TagPid: func(c *fiber.Ctx, d *data) interface{} {
			return d.pid
		},
		TagLatency: func(c *fiber.Ctx, d *data) interface{} {
			return d.end.Sub(d.start).String()
		},
		TagStatus: func(c *fiber.Ctx, d *data) interface{} {
			return c.Response().StatusCode()
		},
		TagMethod: func(c *fiber.Ctx, d *data) interface{} {
			return c.Method()
		},
		TagPath: func(c *fiber.Ctx, d *data) interface{} {
			return c.Path()
		},
		TagIP: func(c *fiber.Ctx, d *data) interface{} {
			return c.IP()
		},
		TagUserAgent: func(c *fiber.Ctx, d *data) interface{} {
			return c.Get(fiber.HeaderUserAgent)
		},
		TagBody: func(c *fiber.Ctx, d *data) interface{} {
			if skipBody(cfg, c) || !isJSON(string(c.Request().Header.ContentType())) {
				return ""
			}
			return truncate(string(c.Body()))
		},
		TagResBody: func(c *fiber.Ctx, d *data) interface{} {
			if skipBody(cfg, c) || !isJSON(string(c.Response().Header.ContentType())) {
				return ""
			}
			return truncate(string(c.Response().Body()))
		},
		RequestID: func(c *fiber.Ctx, d *data) interface{} {
			return c.GetRespHeader(fiber.HeaderXRequestID, c.Get(fiber.HeaderXRequestID))
		},
	}
	result := make(map[string]FuncTag, len(cfg.Tags))
	for _, tag := range cfg.Tags {
		if ft, ok := all[tag]; ok {
			result[tag] = ft
		}
	}
	return result
}

func skipBody(cfg Config, c *fiber.Ctx) bool {
	for _, prefix := range cfg.SkipBodyPaths {
		if strings.HasPrefix(c.Path(), prefix) {
			return true
		}
	}
	return false
}

// isJSON file downloads and multipart uploads are not logged
func isJSON(contentType string) bool {
	return strings.HasPrefix(contentType, fiber.MIMEApplicationJSON)
}

func truncate(value string) string {
	if len(value) <= maxBodyLen {
		return value
	}
	return value[:maxBodyLen] + "..."
}
