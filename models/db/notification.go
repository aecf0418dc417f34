package dbmodels

import (
	"schoolconnect-backend/models"
	notificationapimodels "schoolconnect-backend/models/api/notification"
)

type Notification struct {
	BaseModel
	UserID    string                  `gorm:"type:varchar(36);index:idx_user"`
	Code      models.NotificationCode `gorm:"type:varchar(255)"`
	Title     string
	Msg       string
	IsRead    bool `gorm:"index"`
	Delivered bool // pushed over websocket at least once
}

func (n Notification) ToModel() notificationapimodels.NotificationView {
	return notificationapimodels.NotificationView{
		ID:        n.ID,
		Code:      n.Code,
		Title:     n.Title,
		Msg:       n.Msg,
		IsRead:    n.IsRead,
		CreatedAt: n.CreatedAt,
	}
}
