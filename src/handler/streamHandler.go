package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	logger "github.com/sirupsen/logrus"

	"papertrading/src/stream"
)

const (
	streamWriteWait  = 10 * time.Second
	streamPongWait   = 60 * time.Second
	streamPingPeriod = (streamPongWait * 9) / 10
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// CORS is enforced by the router; the feed carries no credentials.
	CheckOrigin: func(r *http.Request) bool { return true },
}

type sessionSubscriber interface {
	Subscribe(sessionID string) *stream.Subscriber
}

// StreamHandler upgrades to a websocket and pushes the session's write events
// until the client goes away or the hub drops it.
func StreamHandler(hub sessionSubscriber) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := chi.URLParam(r, "sessionId")

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logger.WithError(err).WithField("session_id", sessionID).Warn("stream upgrade failed")
			return
		}
		defer conn.Close()

		sub := hub.Subscribe(sessionID)
		defer sub.Close()

		logger.WithField("session_id", sessionID).Debug("stream subscriber connected")

		// The read side only tracks pongs and notices the client closing.
		gone := make(chan struct{})
		go func() {
			defer close(gone)
			conn.SetReadLimit(512)
			_ = conn.SetReadDeadline(time.Now().Add(streamPongWait))
			conn.SetPongHandler(func(string) error {
				return conn.SetReadDeadline(time.Now().Add(streamPongWait))
			})
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()

		ping := time.NewTicker(streamPingPeriod)
		defer ping.Stop()

		for {
			select {
			case <-gone:
				logger.WithField("session_id", sessionID).Debug("stream subscriber disconnected")
				return
			case ev, ok := <-sub.Events():
				_ = conn.SetWriteDeadline(time.Now().Add(streamWriteWait))
				if !ok {
					_ = conn.WriteMessage(websocket.CloseMessage,
						websocket.FormatCloseMessage(websocket.CloseGoingAway, "stream closed"))
					return
				}
				if err := conn.WriteJSON(ev); err != nil {
					logger.WithError(err).WithField("session_id", sessionID).Warn("stream write failed")
					return
				}
			case <-ping.C:
				_ = conn.SetWriteDeadline(time.Now().Add(streamWriteWait))
				if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					return
				}
			}
		}
	}
}
