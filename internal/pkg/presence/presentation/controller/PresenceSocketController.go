package controller

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"go-beacon/internal/infrastructure/metrics"
	"go-beacon/internal/infrastructure/realtime"
	"go-beacon/internal/pkg/presence/registry"
	"go-beacon/internal/pkg/presence/relay"
)

// PresenceSocketController handles the websocket endpoint carrying realtime
// presence and relay traffic.
type PresenceSocketController struct {
	registry *registry.Registry
	engine   *relay.Engine
	logger   zerolog.Logger
}

func NewPresenceSocketController(reg *registry.Registry, engine *relay.Engine, logger zerolog.Logger) *PresenceSocketController {
	return &PresenceSocketController{
		registry: reg,
		engine:   engine,
		logger:   logger.With().Str("component", "socket").Logger(),
	}
}

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Allow all origins for now; plug a proper checker when auth is added.
		return true
	},
}

// sessionReplacedCode is the close code sent to a superseded session.
const sessionReplacedCode = 4001

type inboundFrame struct {
	Type    string `json:"type"`
	ID      string `json:"id,omitempty"`      // register
	To      string `json:"to,omitempty"`      // private_message
	Message string `json:"message,omitempty"` // private_message
}

type ackFrame struct {
	Type string `json:"type"`
	ID   string `json:"id,omitempty"`
}

type errorFrame struct {
	Type  string `json:"type"`
	Code  string `json:"code"`
	Error string `json:"error"`
}

const defaultReadTimeout = 60 * time.Second

// Handle upgrades HTTP connections to websocket and processes frames until
// the client disconnects. A connection only participates in presence once it
// sends a register frame binding it to an identity.
func (ctl *PresenceSocketController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		ws, err := wsUpgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			// Upgrade already wrote the response; just return.
			return
		}

		conn := realtime.NewConnection(ws)
		conn.Start()
		metrics.ConnectionsActive.Inc()

		defer func() {
			metrics.ConnectionsActive.Dec()
			if identity, ok := ctl.registry.Unbind(conn.SessionID()); ok {
				ctl.logger.Info().Str("identity", identity).Msg("identity went offline")
				ctl.engine.BroadcastPresence()
			}
			conn.Close(websocket.CloseNormalClosure, "session closed")
		}()

		ws.SetReadLimit(1 << 20) // 1MB payload cap
		_ = ws.SetReadDeadline(time.Now().Add(defaultReadTimeout))
		ws.SetPongHandler(func(string) error {
			return ws.SetReadDeadline(time.Now().Add(defaultReadTimeout))
		})

		if payload, err := json.Marshal(ackFrame{Type: "connected"}); err == nil {
			_ = conn.Send(payload)
		}

		for {
			_, data, err := ws.ReadMessage()
			if err != nil {
				if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseNoStatusReceived) ||
					errors.Is(err, websocket.ErrCloseSent) {
					return
				}
				ctl.replyError(conn, "read_error", err.Error())
				return
			}

			var frame inboundFrame
			if err := json.Unmarshal(data, &frame); err != nil {
				ctl.replyError(conn, "bad_request", "invalid payload")
				continue
			}

			switch frame.Type {
			case "register":
				ctl.handleRegister(conn, frame)
			case "private_message":
				ctl.handleMessage(c, conn, frame)
			default:
				ctl.replyError(conn, "unsupported_type", "unknown frame type")
			}
		}
	}
}

func (ctl *PresenceSocketController) handleRegister(conn *realtime.Connection, frame inboundFrame) {
	superseded, err := ctl.registry.Register(frame.ID, conn)
	if err != nil {
		ctl.replyError(conn, "bad_request", err.Error())
		return
	}
	conn.Identity = frame.ID

	// Last write wins: the prior session is evicted, not left orphaned.
	if prev, ok := superseded.(*realtime.Connection); ok && prev != nil {
		prev.Close(sessionReplacedCode, "session replaced")
	}

	ctl.logger.Info().
		Str("identity", frame.ID).
		Str("session", conn.SessionID()).
		Msg("identity registered")

	if payload, err := json.Marshal(ackFrame{Type: "registered", ID: frame.ID}); err == nil {
		_ = conn.Send(payload)
	}

	ctl.engine.BroadcastPresence()
}

func (ctl *PresenceSocketController) handleMessage(c *gin.Context, conn *realtime.Connection, frame inboundFrame) {
	if conn.Identity == "" {
		ctl.replyError(conn, "not_registered", "register before sending messages")
		return
	}
	if frame.To == "" {
		ctl.replyError(conn, "bad_request", "to is required")
		return
	}

	// Fire-and-forget: the sender gets no confirmation either way.
	ctl.engine.Deliver(c.Request.Context(), conn.Identity, frame.To, frame.Message)
}

func (ctl *PresenceSocketController) replyError(conn *realtime.Connection, code string, message string) {
	frame := errorFrame{
		Type:  "error",
		Code:  code,
		Error: message,
	}
	if payload, err := json.Marshal(frame); err == nil {
		_ = conn.Send(payload)
	}
}
