package fiberlog

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func newTestLogger(buf *bytes.Buffer) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(buf)
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetLevel(logrus.DebugLevel)
	return logger
}

func TestLogger(t *testing.T) {
	t.Run(`request fields`, func(t *testing.T) {
		buf := &bytes.Buffer{}
		app := fiber.New()
		app.Use(New(Config{
			Logger: newTestLogger(buf),
			Tags:   []string{TagStatus, TagMethod, TagPath, TagBody, TagResBody},
		}))
		app.Post("/jobs/list", func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "fail"})
		})

		req := httptest.NewRequest(fiber.MethodPost, "/jobs/list", strings.NewReader(`{"page":1}`))
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		resp, err := app.Test(req)
		require.NoError(t, err)
		require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

		entry := map[string]interface{}{}
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		require.Equal(t, "api request", entry["msg"])
		require.Equal(t, "warning", entry["level"])
		require.Equal(t, "POST", entry[TagMethod])
		require.Equal(t, "/jobs/list", entry[TagPath])
		require.EqualValues(t, 400, entry[TagStatus])
		require.Equal(t, `{"page":1}`, entry[TagBody])
		require.Equal(t, `{"status":"fail"}`, entry[TagResBody])
	})

	t.Run(`skipped body paths`, func(t *testing.T) {
		buf := &bytes.Buffer{}
		app := fiber.New()
		app.Use(New(Config{
			Logger:        newTestLogger(buf),
			Tags:          []string{TagPath, TagBody},
			SkipBodyPaths: []string{"/auth"},
		}))
		app.Post("/auth/login", func(c *fiber.Ctx) error {
			return c.SendStatus(fiber.StatusOK)
		})

		req := httptest.NewRequest(fiber.MethodPost, "/auth/login", strings.NewReader(`{"password":"secret"}`))
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		_, err := app.Test(req)
		require.NoError(t, err)
		require.NotContains(t, buf.String(), "secret")
		require.Contains(t, buf.String(), "/auth/login")
	})

	t.Run(`long body is truncated`, func(t *testing.T) {
		value := strings.Repeat("a", maxBodyLen+10)
		require.Len(t, truncate(value), maxBodyLen+3)
		require.Equal(t, "short", truncate("short"))
	})
}
