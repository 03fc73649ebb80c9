package controller

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"go-beacon/internal/pkg/presence/history"
	"go-beacon/internal/pkg/presence/registry"
	"go-beacon/internal/pkg/presence/relay"
)

func newSocketServer(t *testing.T) (*registry.Registry, *history.Log, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	reg := registry.New()
	log := history.New()
	engine := relay.NewEngine(reg, log, nil, zerolog.Nop())

	r := gin.New()
	r.GET("/presence/ws", NewPresenceSocketController(reg, engine, zerolog.Nop()).Handle())
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	return reg, log, "ws" + strings.TrimPrefix(srv.URL, "http") + "/presence/ws"
}

func dialSocket(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	ws, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = ws.Close() })
	return ws
}

func writeFrame(t *testing.T, ws *websocket.Conn, frame map[string]any) {
	t.Helper()
	require.NoError(t, ws.WriteJSON(frame))
}

// readFrameOfType reads frames until one of the given type arrives, skipping
// interleaved broadcasts. Fails the test after two seconds.
func readFrameOfType(t *testing.T, ws *websocket.Conn, typ string) map[string]any {
	t.Helper()
	require.NoError(t, ws.SetReadDeadline(time.Now().Add(2*time.Second)))
	for {
		var frame map[string]any
		if err := ws.ReadJSON(&frame); err != nil {
			t.Fatalf("waiting for %q frame: %v", typ, err)
		}
		if frame["type"] == typ {
			return frame
		}
	}
}

func registerIdentity(t *testing.T, ws *websocket.Conn, id string) {
	t.Helper()
	writeFrame(t, ws, map[string]any{"type": "register", "id": id})
	ack := readFrameOfType(t, ws, "registered")
	require.Equal(t, id, ack["id"])
}

func presenceUserOnline(frame map[string]any, id string) (online bool, found bool) {
	users, _ := frame["users"].([]any)
	for _, u := range users {
		m, _ := u.(map[string]any)
		if m["id"] == id {
			online, _ = m["online"].(bool)
			return online, true
		}
	}
	return false, false
}

func TestPresenceSocket_Register_Acks_And_Broadcasts(t *testing.T) {
	req := require.New(t)
	reg, _, url := newSocketServer(t)
	ws := dialSocket(t, url)

	// Given a fresh connection, greeted before any registration
	readFrameOfType(t, ws, "connected")

	// When it registers an identity
	registerIdentity(t, ws, "alice")

	// Then a presence broadcast reports it online
	frame := readFrameOfType(t, ws, "presence")
	online, found := presenceUserOnline(frame, "alice")
	req.True(found)
	req.True(online)

	// And the registry resolves the identity to a live handle
	h, ok := reg.Resolve("alice")
	req.True(ok)
	req.NotNil(h)
}

func TestPresenceSocket_Relays_Message_To_Recipient(t *testing.T) {
	req := require.New(t)
	_, log, url := newSocketServer(t)

	alice := dialSocket(t, url)
	bob := dialSocket(t, url)
	registerIdentity(t, alice, "alice")
	registerIdentity(t, bob, "bob")

	// When alice sends bob a private message
	writeFrame(t, alice, map[string]any{"type": "private_message", "to": "bob", "message": "hi bob"})

	// Then bob receives the relayed frame
	frame := readFrameOfType(t, bob, "private_message")
	req.Equal("alice", frame["from"])
	req.Equal("bob", frame["to"])
	req.Equal("hi bob", frame["message"])

	// And the delivery lands in history for both participants
	req.Eventually(func() bool {
		return len(log.ByParticipant("alice")) == 1 && len(log.ByParticipant("bob")) == 1
	}, 2*time.Second, 10*time.Millisecond)
}

func TestPresenceSocket_Superseded_Session_Is_Evicted(t *testing.T) {
	req := require.New(t)
	_, _, url := newSocketServer(t)

	// Given alice registered on a first session
	first := dialSocket(t, url)
	registerIdentity(t, first, "alice")

	// When a second session registers the same identity
	second := dialSocket(t, url)
	registerIdentity(t, second, "alice")

	// Then the first session is closed with the replacement code
	req.NoError(first.SetReadDeadline(time.Now().Add(2 * time.Second)))
	var closeErr error
	for {
		if _, _, err := first.ReadMessage(); err != nil {
			closeErr = err
			break
		}
	}
	req.True(websocket.IsCloseError(closeErr, sessionReplacedCode), "expected close %d, got %v", sessionReplacedCode, closeErr)

	// And delivery routes to the replacement session
	bob := dialSocket(t, url)
	registerIdentity(t, bob, "bob")
	writeFrame(t, bob, map[string]any{"type": "private_message", "to": "alice", "message": "still there?"})

	frame := readFrameOfType(t, second, "private_message")
	req.Equal("bob", frame["from"])
	req.Equal("still there?", frame["message"])
}

func TestPresenceSocket_Message_Before_Register_Is_Rejected(t *testing.T) {
	req := require.New(t)
	_, log, url := newSocketServer(t)
	ws := dialSocket(t, url)

	writeFrame(t, ws, map[string]any{"type": "private_message", "to": "bob", "message": "hi"})

	frame := readFrameOfType(t, ws, "error")
	req.Equal("not_registered", frame["code"])
	req.Zero(log.Len())
}

func TestPresenceSocket_Unknown_Frame_Type_Is_Rejected(t *testing.T) {
	req := require.New(t)
	_, _, url := newSocketServer(t)
	ws := dialSocket(t, url)

	writeFrame(t, ws, map[string]any{"type": "shout", "message": "hello?"})

	frame := readFrameOfType(t, ws, "error")
	req.Equal("unsupported_type", frame["code"])
}

func TestPresenceSocket_Disconnect_Unbinds_And_Broadcasts(t *testing.T) {
	req := require.New(t)
	reg, _, url := newSocketServer(t)

	alice := dialSocket(t, url)
	bob := dialSocket(t, url)
	registerIdentity(t, alice, "alice")
	registerIdentity(t, bob, "bob")

	// When alice disconnects
	_ = alice.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	_ = alice.Close()

	// Then bob sees a presence broadcast reporting alice offline
	deadline := time.Now().Add(2 * time.Second)
	for {
		req.True(time.Now().Before(deadline), "alice never reported offline")
		frame := readFrameOfType(t, bob, "presence")
		if online, found := presenceUserOnline(frame, "alice"); found && !online {
			break
		}
	}

	// And the identity stays known to the registry, just offline
	h, ok := reg.Resolve("alice")
	req.True(ok)
	req.Nil(h)
}
