// Package signal is the websocket adapter: it upgrades connections, pumps
// frames, and translates inbound events into hub transitions.
package signal

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/modaverse/presence/internal/app"
	"github.com/modaverse/presence/internal/config"
	"github.com/modaverse/presence/internal/core"
)

var ErrBackpressure = errors.New("backpressure")

type Controller struct {
	Hub      *app.Hub
	cfg      *config.Config
	validate *validator.Validate
	limiter  *MessageRateLimiter
	upgrader websocket.Upgrader
}

func NewController(cfg *config.Config, hub *app.Hub) *Controller {
	return &Controller{
		Hub:      hub,
		cfg:      cfg,
		validate: validator.New(),
		limiter:  NewMessageRateLimiter(cfg.MessageRateLimit, cfg.MessageRateInterval),
		upgrader: websocket.Upgrader{
			CheckOrigin: originChecker(cfg.AllowedOrigins),
		},
	}
}

// originChecker allows requests without an Origin header and any configured
// origin. An empty allowlist accepts everything (dev mode).
func originChecker(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" || len(allowed) == 0 {
			return true
		}
		for _, a := range allowed {
			if a == "*" || a == origin {
				return true
			}
		}
		return false
	}
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

// HandleWS upgrades the request and starts the pumps. Every physical
// connection gets a fresh session id; reconnects never resume.
func (ctl *Controller) HandleWS(ctx context.Context, c *gin.Context) {
	sid := core.SessionID(uuid.NewString())

	ws, err := ctl.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("ws upgrade")
		return
	}
	log.Info().Str("module", "signal").Str("sid", string(sid)).Str("remote", c.Request.RemoteAddr).Msg("new WS connection")

	ws.SetReadLimit(ctl.cfg.ReadLimit)

	conn := &wsConn{
		conn: ws,
		send: make(chan core.Frame, ctl.cfg.SendBuffer),
	}
	ctl.Hub.Connect(sid, conn)

	ctx, cancel := context.WithCancel(ctx)
	go ctl.writePump(ctx, conn)
	go ctl.readPump(ctx, cancel, sid, conn)
}
