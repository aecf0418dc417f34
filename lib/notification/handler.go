package notificationhandler

import (
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"schoolconnect-backend/config"
	"schoolconnect-backend/db"
	notificationstore "schoolconnect-backend/lib/notification/store"
	"schoolconnect-backend/lib/smtp"
	usersstore "schoolconnect-backend/lib/users/store"
	initchecker "schoolconnect-backend/lib/utils/init-checker"
	connectionhub "schoolconnect-backend/lib/ws/hub/connection-hub"
	"schoolconnect-backend/models"
	notificationapimodels "schoolconnect-backend/models/api/notification"
	dbmodels "schoolconnect-backend/models/db"
)

type Provider interface {
	// Send stores the notification, pushes it when the user is online and mails a copy for important events
	Send(userID string, code models.NotificationCode, msg string)
	List(userID string, filter notificationapimodels.NotificationFilter) (list []notificationapimodels.NotificationView, rowCount int64, err error)
	UnreadCount(userID string) (int64, error)
	MarkRead(userID, id string) (hMsg string, err error)
	MarkAllRead(userID string) error
}

var Instance Provider

func NewHandler() {
	initchecker.CheckInit(
		"db", db.DB,
		"connectionhub", connectionhub.Instance,
		"smtp", smtp.Instance,
	)
	Instance = impl{
		store:      notificationstore.NewInstance(db.DB),
		usersStore: usersstore.NewInstance(db.DB),
		hub:        connectionhub.Instance,
		mailer:     smtp.Instance,
		emailFrom:  config.Conf.Smtp.EmailFrom,
		async:      true,
		now:        time.Now,
	}
}

type impl struct {
	store      notificationstore.Provider
	usersStore usersstore.Provider
	hub        connectionhub.Provider
	mailer     smtp.Provider
	emailFrom  string
	async      bool // mail in background
	now        func() time.Time
}

func (i impl) currentTime() time.Time {
	if i.now == nil {
		return time.Now()
	}
	return i.now()
}

func (i impl) getLogger(userID string, code models.NotificationCode) *log.Entry {
	return log.
		WithField("user_id", userID).
		WithField("event_code", code)
}

func (i impl) Send(userID string, code models.NotificationCode, msg string) {
	logger := i.getLogger(userID, code)
	rec := dbmodels.Notification{
		UserID: userID,
		Code:   code,
		Title:  code.Title(),
		Msg:    msg,
	}
	// the pushed message carries the same time as the stored row
	rec.CreatedAt = i.currentTime()
	id, err := i.store.Create(rec)
	if err != nil {
		logger.WithError(err).Error("notification save failed")
		return
	}
	rec.ID = id
	if i.hub != nil && i.hub.IsConnected(userID) && !i.hub.SendMessage(connectionhub.ToServerMessage(rec)) {
		logger.Debug("send queue is full, notification waits for the next connect")
	}
	if !code.WithEmail() || i.mailer == nil || !i.mailer.IsConfigured() {
		return
	}
	if i.async {
		go i.sendEmail(logger, userID, rec)
		return
	}
	i.sendEmail(logger, userID, rec)
}

func (i impl) sendEmail(logger *log.Entry, userID string, rec dbmodels.Notification) {
	user, err := i.usersStore.GetByID(userID)
	if err != nil {
		logger.WithError(err).Error("notification email recipient fetch failed")
		return
	}
	if user == nil || !user.IsActive {
		return
	}
	message := fmt.Sprintf("Hello, %s!\n\n%s", user.FirstName, rec.Msg)
	if err = i.mailer.SendEMail(i.emailFrom, user.Email, message, rec.Title); err != nil {
		logger.WithError(err).Error("notification email sending failed")
	}
}

func (i impl) List(userID string, filter notificationapimodels.NotificationFilter) (list []notificationapimodels.NotificationView, rowCount int64, err error) {
	rowCount, err = i.store.ListCount(userID, filter)
	if err != nil {
		return nil, 0, err
	}
	recList, err := i.store.List(userID, filter)
	if err != nil {
		return nil, 0, err
	}
	list = make([]notificationapimodels.NotificationView, 0, len(recList))
	for _, rec := range recList {
		list = append(list, rec.ToModel())
	}
	return list, rowCount, nil
}

func (i impl) UnreadCount(userID string) (int64, error) {
	return i.store.UnreadCount(userID)
}

func (i impl) MarkRead(userID, id string) (hMsg string, err error) {
	found, err := i.store.MarkRead(userID, id)
	if err != nil {
		return "", err
	}
	if !found {
		return "notification not found", nil
	}
	return "", nil
}

func (i impl) MarkAllRead(userID string) error {
	return i.store.MarkAllRead(userID)
}
