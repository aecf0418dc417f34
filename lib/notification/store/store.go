package notificationstore

import (
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	notificationapimodels "schoolconnect-backend/models/api/notification"
	dbmodels "schoolconnect-backend/models/db"
)

type Provider interface {
	Create(rec dbmodels.Notification) (id string, err error)
	List(userID string, filter notificationapimodels.NotificationFilter) ([]dbmodels.Notification, error)
	ListCount(userID string, filter notificationapimodels.NotificationFilter) (int64, error)
	UnreadCount(userID string) (int64, error)
	ListUndelivered(userID string) ([]dbmodels.Notification, error)
	SetDelivered(ids []string) error
	// MarkRead found is false when the notification does not belong to the user
	MarkRead(userID, id string) (found bool, err error)
	MarkAllRead(userID string) error
	DeleteReadBefore(before time.Time) (int64, error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.Notification) (id string, err error) {
	err = i.db.
		Create(&rec).
		Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) List(userID string, filter notificationapimodels.NotificationFilter) ([]dbmodels.Notification, error) {
	list := []dbmodels.Notification{}
	tx := i.db.
		Model(dbmodels.Notification{}).
		Where("user_id = ?", userID)
	if filter.UnreadOnly {
		tx.Where("is_read = ?", false)
	}
	page, limit := filter.GetPage()
	tx.Limit(limit).Offset((page - 1) * limit)
	err := tx.
		Order("created_at desc").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) ListCount(userID string, filter notificationapimodels.NotificationFilter) (int64, error) {
	var rowCount int64
	tx := i.db.
		Model(dbmodels.Notification{}).
		Where("user_id = ?", userID)
	if filter.UnreadOnly {
		tx.Where("is_read = ?", false)
	}
	err := tx.Count(&rowCount).Error
	if err != nil {
		return 0, err
	}
	return rowCount, nil
}

func (i impl) UnreadCount(userID string) (int64, error) {
	return i.ListCount(userID, notificationapimodels.NotificationFilter{UnreadOnly: true})
}

func (i impl) ListUndelivered(userID string) ([]dbmodels.Notification, error) {
	list := []dbmodels.Notification{}
	err := i.db.
		Where("user_id = ?", userID).
		Where("delivered = ?", false).
		Order("created_at").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) SetDelivered(ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	return i.db.
		Model(&dbmodels.Notification{}).
		Where("id in (?)", ids).
		Update("delivered", true).
		Error
}

func (i impl) MarkRead(userID, id string) (found bool, err error) {
	tx := i.db.
		Model(&dbmodels.Notification{}).
		Where("id = ?", id).
		Where("user_id = ?", userID).
		Update("is_read", true)
	if tx.Error != nil {
		return false, errors.Wrap(tx.Error, "mark notification read failed")
	}
	return tx.RowsAffected > 0, nil
}

func (i impl) MarkAllRead(userID string) error {
	return i.db.
		Model(&dbmodels.Notification{}).
		Where("user_id = ?", userID).
		Where("is_read = ?", false).
		Update("is_read", true).
		Error
}

func (i impl) DeleteReadBefore(before time.Time) (int64, error) {
	tx := i.db.
		Where("is_read = ?", true).
		Where("created_at < ?", before).
		Delete(&dbmodels.Notification{})
	if tx.Error != nil {
		return 0, tx.Error
	}
	return tx.RowsAffected, nil
}
