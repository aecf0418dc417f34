package connectionhub

import (
	"context"
	"time"

	"github.com/gofiber/contrib/websocket"
	log "github.com/sirupsen/logrus"
)

const sendBufferSize = 16

type messageWriter interface {
	WriteJSON(v interface{}) error
	WriteControl(messageType int, data []byte, deadline time.Time) error
}

type clientSession struct {
	// conn identifies the connection the session was opened for
	conn   *websocket.Conn
	writer messageWriter

	// outbound messages, written by startSend only
	sendCh chan any
	ctx    context.Context
	stop   func()
	// onSent is called after a message reached the socket
	onSent func(msg any)
}

func newSession(conn *websocket.Conn) clientSession {
	var writer messageWriter
	if conn != nil && conn.Conn != nil {
		writer = conn
	}
	return newWriterSession(conn, writer)
}

func newWriterSession(conn *websocket.Conn, writer messageWriter) clientSession {
	ctx, cancelFn := context.WithCancel(context.Background())
	sess := clientSession{
		conn:   conn,
		writer: writer,
		sendCh: make(chan any, sendBufferSize),
		ctx:    ctx,
		stop:   cancelFn,
	}
	return sess
}

func (s clientSession) isLive() bool {
	return s.writer != nil && s.ctx.Err() == nil
}

func (s clientSession) startSend() {
	for {
		select {
		case <-s.ctx.Done():
			s.close()
			return
		case msg := <-s.sendCh:
			if s.ctx.Err() != nil {
				s.close()
				return
			}
			if err := s.send(msg); err != nil {
				log.WithError(err).Error("websocket message sending failed")
				continue
			}
			if s.onSent != nil {
				s.onSent(msg)
			}
		}
	}
}

// enqueue false when the buffer is full
func (s clientSession) enqueue(msg any) bool {
	select {
	case s.sendCh <- msg:
		return true
	default:
		return false
	}
}

// enqueueWait blocks until the message is queued, false once the session is stopped
func (s clientSession) enqueueWait(msg any) bool {
	select {
	case <-s.ctx.Done():
		return false
	default:
	}
	select {
	case s.sendCh <- msg:
		return true
	case <-s.ctx.Done():
		return false
	}
}

func (s clientSession) send(msg any) error {
	if s.writer == nil {
		return nil
	}
	return s.writer.WriteJSON(msg)
}

func (s clientSession) close() {
	if s.writer == nil {
		return
	}
	err := s.writer.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second))
	if err != nil {
		log.WithError(err).Debug("websocket close failed")
	}
}
