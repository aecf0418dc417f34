package wsclient

import (
	"encoding/json"

	"github.com/gofiber/contrib/websocket"
	log "github.com/sirupsen/logrus"
	notificationhandler "schoolconnect-backend/lib/notification"
	wsmodels "schoolconnect-backend/models/ws"
)

type Reader interface {
	ReadMessage() (messageType int, p []byte, err error)
}

func NewClient(userID string, c *websocket.Conn) *WsClient {
	return &WsClient{
		conn:          c,
		userID:        userID,
		notifications: notificationhandler.Instance,
	}
}

type WsClient struct {
	conn          Reader
	userID        string
	notifications notificationhandler.Provider
}

var closeCodes []int

func init() {
	for i := websocket.CloseNormalClosure; i <= websocket.CloseTLSHandshake; i++ {
		closeCodes = append(closeCodes, i)
	}
}

// Dispatch reads client actions until the connection is closed
func (c *WsClient) Dispatch() {
	logger := log.WithField("user_id", c.userID)
	if c.conn == nil {
		return
	}
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, closeCodes...) {
				logger.WithError(err).Error("websocket read failed")
			}
			return
		}
		c.handle(logger, data)
	}
}

func (c *WsClient) handle(logger *log.Entry, data []byte) {
	var msg wsmodels.ClientMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		logger.WithField("ws_message", string(data)).Debug("unknown ws message")
		return
	}
	if c.notifications == nil {
		return
	}
	switch msg.Action {
	case wsmodels.ClientActionRead:
		hMsg, err := c.notifications.MarkRead(c.userID, msg.NotificationID)
		if err != nil {
			logger.WithError(err).Error("mark notification read failed")
		} else if hMsg != "" {
			logger.WithField("notification_id", msg.NotificationID).Debug(hMsg)
		}
	case wsmodels.ClientActionReadAll:
		if err := c.notifications.MarkAllRead(c.userID); err != nil {
			logger.WithError(err).Error("mark all notifications read failed")
		}
	default:
		logger.WithField("action", msg.Action).Debug("unknown ws action")
	}
}
