package ws

import (
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	wsclient "schoolconnect-backend/lib/ws/client"
	connectionhub "schoolconnect-backend/lib/ws/hub/connection-hub"
	"schoolconnect-backend/middleware"
	apimodels "schoolconnect-backend/models/api"
)

func InitWs(app *fiber.App) {
	app.Use("", func(ctx *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(ctx) {
			return ctx.Status(fiber.StatusUpgradeRequired).JSON(apimodels.NewError("websocket upgrade required"))
		}
		userID := middleware.GetUserID(ctx)
		if userID == "" {
			return ctx.Status(fiber.StatusUnauthorized).JSON(apimodels.NewError("unauthorized"))
		}
		ctx.Locals("userID", userID)
		return ctx.Next()
	})
	app.Get("/", websocket.New(notificationsHandler))
}

// @Summary Live notifications
// @Tags Notifications
// @Description Notifications pushed to the connected user. Undelivered ones are flushed on connect.
// @Param   Authorization		header		string		false		"Authorization token"
// @Param   token				query		string		false		"Access token for browsers that can not set headers"
// @Success 200 {object} wsmodels.ServerMessage
// @Failure 401
// @Failure 426
// @router /api/v1/ws [get]
func notificationsHandler(c *websocket.Conn) {
	userID := c.Locals("userID").(string)
	client := wsclient.NewClient(userID, c)
	connectionhub.Instance.AddClient(userID, c)
	defer func() {
		connectionhub.Instance.DeleteClient(userID, c)
	}()
	client.Dispatch()
}
