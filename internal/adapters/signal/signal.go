package signal

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/dkeye/spotlight/internal/app/orch"
	"github.com/dkeye/spotlight/internal/config"
	"github.com/dkeye/spotlight/internal/core"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

var (
	ErrBackpressure = errors.New("backpressure")
	ErrConnClosed   = errors.New("connection closed")
)

// AdminKey is the gin context key the router sets when the request carries an
// authorised admin session.
const AdminKey = "is_admin"

type SignalWSController struct {
	Orch *orch.Orchestrator
	cfg  *config.Config

	// hands throttles raise-hand and registers throttles register-audience.
	// lower-hand is never limited.
	hands     *RateLimiter
	registers *RateLimiter
}

func NewSignalWSController(o *orch.Orchestrator, cfg *config.Config) *SignalWSController {
	return &SignalWSController{
		Orch:      o,
		cfg:       cfg,
		hands:     NewRateLimiter(cfg.HandRateLimit, cfg.HandRateInterval),
		registers: NewRateLimiter(cfg.HandRateLimit, cfg.HandRateInterval),
	}
}

// WsSignalConn implements core.SignalConnection over one WebSocket. Frames go
// through a buffered channel drained by writePump.
type WsSignalConn struct {
	conn *websocket.Conn
	send chan core.Frame

	// canAdmin is fixed at upgrade time from the HTTP session.
	canAdmin bool

	mu     sync.RWMutex
	closed bool
}

func (c *WsSignalConn) TrySend(f core.Frame) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return ErrConnClosed
	}
	select {
	case c.send <- f:
	default:
		return ErrBackpressure
	}
	return nil
}

func (c *WsSignalConn) Close() {
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

// HandleSignal upgrades the request and runs the connection until either side
// closes it. Every socket gets its own session id, so two tabs behind the same
// client cookie are two connections.
func (ctl *SignalWSController) HandleSignal(ctx context.Context, c *gin.Context) {
	sid := core.SessionID(uuid.NewString())
	logger := log.With().Str("module", "signal").Str("sid", string(sid)).Str("client", c.GetString("client_token")).Logger()

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Error().Err(err).Msg("ws upgrade")
		return
	}
	logger.Info().Msg("new WS connection")

	conn := &WsSignalConn{
		conn:     ws,
		send:     make(chan core.Frame, ctl.cfg.SendBuffer),
		canAdmin: ctl.cfg.AdminKey == "" || c.GetBool(AdminKey),
	}
	ctl.Orch.Connect(sid, conn)

	ctx, cancel := context.WithCancel(ctx)
	go ctl.writePump(ctx, conn)
	go func() {
		defer cancel()
		ctl.readPump(ctx, sid, conn)
	}()
}
