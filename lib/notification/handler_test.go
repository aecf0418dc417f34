package notificationhandler

import (
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	notificationstore "schoolconnect-backend/lib/notification/store"
	usersstore "schoolconnect-backend/lib/users/store"
	connectionhub "schoolconnect-backend/lib/ws/hub/connection-hub"
	"schoolconnect-backend/models"
	notificationapimodels "schoolconnect-backend/models/api/notification"
	dbmodels "schoolconnect-backend/models/db"
	wsmodels "schoolconnect-backend/models/ws"
)

type fakeStore struct {
	notificationstore.Provider
	created   []dbmodels.Notification
	read      map[string]string // id -> owner
	failWrite bool
}

func (f *fakeStore) Create(rec dbmodels.Notification) (string, error) {
	if f.failWrite {
		return "", errors.New("db is down")
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	f.created = append(f.created, rec)
	return "n-1", nil
}

func (f *fakeStore) MarkRead(userID, id string) (bool, error) {
	return f.read[id] == userID, nil
}

func (f *fakeStore) List(userID string, filter notificationapimodels.NotificationFilter) ([]dbmodels.Notification, error) {
	return f.created, nil
}

func (f *fakeStore) ListCount(userID string, filter notificationapimodels.NotificationFilter) (int64, error) {
	return int64(len(f.created)), nil
}

type fakeUsersStore struct {
	usersstore.Provider
	users map[string]*dbmodels.User
}

func (f fakeUsersStore) GetByID(userID string) (*dbmodels.User, error) {
	return f.users[userID], nil
}

type fakeHub struct {
	connectionhub.Provider
	online map[string]bool
	sent   []wsmodels.ServerMessage
}

func (f *fakeHub) IsConnected(userID string) bool {
	return f.online[userID]
}

func (f *fakeHub) SendMessage(msg wsmodels.ServerMessage) bool {
	f.sent = append(f.sent, msg)
	return true
}

type sentMail struct {
	to, subject, message string
}

type fakeMailer struct {
	mu         sync.Mutex
	configured bool
	mails      []sentMail
}

func (f *fakeMailer) SendEMail(from, to, message, subject string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.mails = append(f.mails, sentMail{to: to, subject: subject, message: message})
	return nil
}

func (f *fakeMailer) IsConfigured() bool {
	return f.configured
}

func newTestHandler() (impl, *fakeStore, *fakeHub, *fakeMailer) {
	store := &fakeStore{read: map[string]string{}}
	hub := &fakeHub{online: map[string]bool{}}
	mailer := &fakeMailer{configured: true}
	users := fakeUsersStore{users: map[string]*dbmodels.User{
		"employer-1": {BaseModel: dbmodels.BaseModel{ID: "employer-1"}, Email: "jobs@cafe.com", FirstName: "Bob", IsActive: true},
		"student-1":  {BaseModel: dbmodels.BaseModel{ID: "student-1"}, Email: "ann@school.edu", FirstName: "Ann", IsActive: false},
	}}
	return impl{
		store:      store,
		usersStore: users,
		hub:        hub,
		mailer:     mailer,
		emailFrom:  "no-reply@schoolconnect.local",
	}, store, hub, mailer
}

func TestSend(t *testing.T) {
	t.Run(`offline user gets stored notification and email`, func(t *testing.T) {
		handler, store, hub, mailer := newTestHandler()
		handler.Send("employer-1", models.NotificationJobApproved, "Barista is approved")
		require.Len(t, store.created, 1)
		require.Equal(t, models.NotificationJobApproved.Title(), store.created[0].Title)
		require.Empty(t, hub.sent)
		require.Len(t, mailer.mails, 1)
		require.Equal(t, "jobs@cafe.com", mailer.mails[0].to)
		require.Contains(t, mailer.mails[0].message, "Hello, Bob!")
	})
	t.Run(`online user is pushed`, func(t *testing.T) {
		handler, _, hub, _ := newTestHandler()
		hub.online["employer-1"] = true
		handler.Send("employer-1", models.NotificationApplicationReceived, "new application")
		require.Len(t, hub.sent, 1)
		require.Equal(t, "n-1", hub.sent[0].NotificationID)
		require.Equal(t, "APPLICATION_RECEIVED", hub.sent[0].Code)
	})
	t.Run(`pushed message has the stored time`, func(t *testing.T) {
		handler, store, hub, _ := newTestHandler()
		sentAt := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
		handler.now = func() time.Time { return sentAt }
		hub.online["employer-1"] = true
		handler.Send("employer-1", models.NotificationJobApproved, "approved")
		require.Len(t, hub.sent, 1)
		require.Equal(t, sentAt, store.created[0].CreatedAt)
		require.Equal(t, connectionhub.ToServerMessage(store.created[0]).Time, hub.sent[0].Time)
		require.NotEqual(t, connectionhub.ToServerMessage(dbmodels.Notification{}).Time, hub.sent[0].Time)
	})
	t.Run(`dashboard only events are not mailed`, func(t *testing.T) {
		handler, _, _, mailer := newTestHandler()
		handler.Send("employer-1", models.NotificationApplicationWithdrawn, "withdrawn")
		require.Empty(t, mailer.mails)
	})
	t.Run(`inactive users and missing smtp`, func(t *testing.T) {
		handler, _, _, mailer := newTestHandler()
		handler.Send("student-1", models.NotificationApplicationStatusChange, "accepted")
		require.Empty(t, mailer.mails)
		mailer.configured = false
		handler.Send("employer-1", models.NotificationJobApproved, "approved")
		require.Empty(t, mailer.mails)
	})
	t.Run(`store failure stops delivery`, func(t *testing.T) {
		handler, store, hub, mailer := newTestHandler()
		store.failWrite = true
		hub.online["employer-1"] = true
		handler.Send("employer-1", models.NotificationJobApproved, "approved")
		require.Empty(t, hub.sent)
		require.Empty(t, mailer.mails)
	})
}

func TestMarkRead(t *testing.T) {
	handler, store, _, _ := newTestHandler()
	store.read["n-1"] = "student-1"
	hMsg, err := handler.MarkRead("student-1", "n-1")
	require.NoError(t, err)
	require.Empty(t, hMsg)
	hMsg, err = handler.MarkRead("student-2", "n-1")
	require.NoError(t, err)
	require.Equal(t, "notification not found", hMsg)
}

func TestList(t *testing.T) {
	handler, _, _, _ := newTestHandler()
	handler.Send("employer-1", models.NotificationApplicationReceived, "first")
	list, rowCount, err := handler.List("employer-1", notificationapimodels.NotificationFilter{})
	require.NoError(t, err)
	require.Equal(t, int64(1), rowCount)
	require.Equal(t, "first", list[0].Msg)
}
