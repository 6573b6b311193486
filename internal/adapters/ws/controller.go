package ws

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/watchsync/server/internal/app"
	"github.com/watchsync/server/internal/config"
	"github.com/watchsync/server/internal/core"
	"github.com/watchsync/server/internal/domain"
)

var ErrBackpressure = errors.New("backpressure")

type Controller struct {
	Router *app.Router
	Conns  *app.Registry
	Cfg    *config.Config
}

func NewController(router *app.Router, conns *app.Registry, cfg *config.Config) *Controller {
	return &Controller{Router: router, Conns: conns, Cfg: cfg}
}

type wsConn struct {
	conn *websocket.Conn
	send chan core.Frame

	mu     sync.RWMutex
	closed bool
}

func (c *wsConn) TrySend(f core.Frame) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return errors.New("connection closed")
	}
	select {
	case c.send <- f:
	default:
		return ErrBackpressure
	}
	return nil
}

func (c *wsConn) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	close(c.send)
	_ = c.conn.Close()
	c.mu.Unlock()
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Handle upgrades the request and binds the connection identifier from
// the client-token cookie, so a page reload rebinds the same identity.
func (ctl *Controller) Handle(ctx context.Context, c *gin.Context) {
	id := domain.ConnID(c.GetString("client_token"))
	if id == "" {
		id = domain.ConnID(uuid.NewString())
	}
	log.Info().Str("module", "ws").Str("conn", string(id)).Msg("new WS connection")

	sock, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Str("module", "ws").Msg("ws upgrade")
		return
	}
	if ctl.Cfg.ReadLimit > 0 {
		sock.SetReadLimit(ctl.Cfg.ReadLimit)
	}

	conn := &wsConn{
		conn: sock,
		send: make(chan core.Frame, 32),
	}
	ctx, cancel := context.WithCancel(ctx)
	ctl.Conns.Bind(id, conn, cancel)

	go ctl.writePump(ctx, conn)
	go ctl.readPump(ctx, id, conn)
}
