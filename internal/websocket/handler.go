package websocket

import (
	"context"
	"net/http"
	"time"

	"msgboard/config"
	"msgboard/internal/domain/session"
	"msgboard/internal/events"
	"msgboard/internal/middleware"
	"msgboard/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

type Handler struct {
	hub       *Hub
	feedScope string
	logger    *logger.Logger
	upgrader  websocket.Upgrader
}

func NewHandler(hub *Hub, feedScope string, l *logger.Logger) *Handler {
	if l == nil {
		l = logger.NewNop()
	}
	return &Handler{
		hub:       hub,
		feedScope: feedScope,
		logger:    l,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// FeedChannels lists the channels a session may follow: its own feed, plus
// the global feed when the board is shared.
func FeedChannels(sess session.Session, feedScope string) []string {
	if sess.IsAnonymous() {
		return nil
	}
	channels := []string{events.UserChannel(sess.UserID)}
	if feedScope == config.FeedScopeGlobal {
		channels = append(channels, events.GlobalChannel)
	}
	return channels
}

// Connect upgrades an authenticated request and streams feed events until
// the peer goes away. Route it behind middleware.RequireSession.
func (h *Handler) Connect(c *gin.Context) {
	sess := middleware.SessionFrom(c)

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.WarnCtx(c.Request.Context(), "websocket upgrade failed", zap.Error(err))
		return
	}

	client := NewClient(conn, sess.UserID, FeedChannels(sess, h.feedScope)...)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	h.hub.Register(client)
	go client.WriteLoop(ctx)

	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	}

	h.hub.Unregister(client)
}
