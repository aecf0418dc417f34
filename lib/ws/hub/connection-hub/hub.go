package connectionhub

import (
	"sync"
	"time"

	"github.com/gofiber/contrib/websocket"
	log "github.com/sirupsen/logrus"
	"schoolconnect-backend/db"
	notificationstore "schoolconnect-backend/lib/notification/store"
	dbmodels "schoolconnect-backend/models/db"
	wsmodels "schoolconnect-backend/models/ws"
)

type Provider interface {
	AddClient(userID string, conn *websocket.Conn)
	DeleteClient(userID string, conn *websocket.Conn)
	// SendMessage true when the message was queued for a live connection.
	// The notification row is marked delivered once the message is written to the socket.
	SendMessage(msg wsmodels.ServerMessage) bool
	SendClose(userID string)
	IsConnected(userID string) bool
}

var Instance Provider

func Init() {
	Instance = &impl{
		clients: map[string]clientSession{},
		store:   notificationstore.NewInstance(db.DB),
	}
}

type impl struct {
	mu      sync.RWMutex
	clients map[string]clientSession // map[userID]
	store   notificationstore.Provider
}

func (i *impl) AddClient(userID string, conn *websocket.Conn) {
	i.addSession(userID, newSession(conn))
}

func (i *impl) addSession(userID string, sess clientSession) {
	sess.onSent = i.markDelivered
	go sess.startSend()
	i.mu.Lock()
	oldSess, ok := i.clients[userID]
	i.clients[userID] = sess
	i.mu.Unlock()
	if ok {
		oldSess.stop()
	}
	go i.sendDelayedMessages(userID, sess)
}

// DeleteClient ignores a conn that was already replaced by a newer one
func (i *impl) DeleteClient(userID string, conn *websocket.Conn) {
	i.mu.Lock()
	sess, ok := i.clients[userID]
	if !ok || (conn != nil && sess.conn != conn) {
		i.mu.Unlock()
		return
	}
	delete(i.clients, userID)
	i.mu.Unlock()
	sess.stop()
}

func (i *impl) SendMessage(msg wsmodels.ServerMessage) bool {
	i.mu.RLock()
	defer i.mu.RUnlock()
	sess, ok := i.clients[msg.ToUserID]
	if !ok {
		return false
	}
	return sess.enqueue(msg)
}

func (i *impl) SendClose(userID string) {
	i.mu.RLock()
	sess, ok := i.clients[userID]
	i.mu.RUnlock()
	if ok {
		sess.stop()
	}
}

func (i *impl) IsConnected(userID string) bool {
	i.mu.RLock()
	defer i.mu.RUnlock()
	sess, ok := i.clients[userID]
	return ok && sess.isLive()
}

// sendDelayedMessages flushes everything stored while the user was offline.
// It waits for room in the session queue and stops when the session is closed,
// rows that were not written stay undelivered for the next connect.
func (i *impl) sendDelayedMessages(userID string, sess clientSession) {
	logger := log.WithField("user_id", userID)
	if !sess.isLive() {
		return
	}
	list, err := i.store.ListUndelivered(userID)
	if err != nil {
		logger.WithError(err).Error("undelivered notifications fetch failed")
		return
	}
	for _, item := range list {
		if !sess.enqueueWait(ToServerMessage(item)) {
			logger.Debug("session closed during offline flush")
			return
		}
	}
}

func (i *impl) markDelivered(msg any) {
	serverMsg, ok := msg.(wsmodels.ServerMessage)
	if !ok || serverMsg.NotificationID == "" || i.store == nil {
		return
	}
	if err := i.store.SetDelivered([]string{serverMsg.NotificationID}); err != nil {
		log.
			WithField("user_id", serverMsg.ToUserID).
			WithField("notification_id", serverMsg.NotificationID).
			WithError(err).
			Error("notification delivery flag update failed")
	}
}

func ToServerMessage(rec dbmodels.Notification) wsmodels.ServerMessage {
	return wsmodels.ServerMessage{
		ToUserID:       rec.UserID,
		NotificationID: rec.ID,
		Time:           rec.CreatedAt.Format(time.RFC3339),
		Code:           string(rec.Code),
		Title:          rec.Title,
		Msg:            rec.Msg,
	}
}
