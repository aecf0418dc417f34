package notificationapimodels

import (
	"time"

	"schoolconnect-backend/models"
	apimodels "schoolconnect-backend/models/api"
)

type NotificationView struct {
	ID        string                  `json:"id"`
	Code      models.NotificationCode `json:"code"`
	Title     string                  `json:"title"`
	Msg       string                  `json:"msg"`
	IsRead    bool                    `json:"is_read"`
	CreatedAt time.Time               `json:"created_at"`
}

type NotificationFilter struct {
	apimodels.Pagination
	UnreadOnly bool `json:"unread_only"`
}
