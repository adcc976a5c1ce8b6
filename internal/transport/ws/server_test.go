package ws

import (
	"io"
	"log"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"magictrail.dev/internal/persistence/savestore"
	"magictrail.dev/internal/protocol"
	"magictrail.dev/internal/session"
	"magictrail.dev/internal/sim/catalogs"
	"magictrail.dev/internal/sim/trail"
	"magictrail.dev/internal/sim/tuning"
)

func startServer(t *testing.T) string {
	t.Helper()
	return startServerWith(t, nil)
}

func startServerWith(t *testing.T, adjust func(*Server)) string {
	t.Helper()
	cat, err := catalogs.Load(filepath.Join("..", "..", "..", "configs"))
	if err != nil {
		t.Fatalf("load catalogs: %v", err)
	}
	tune := tuning.Defaults()
	tune.Events.TriggerChance = 0
	srv := NewServer(session.Config{
		Tuning:   tune,
		Catalogs: cat,
		Store:    savestore.NewMemoryStore(),
	}, log.New(io.Discard, "", 0))
	if adjust != nil {
		adjust(srv)
	}
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return "ws" + strings.TrimPrefix(ts.URL, "http")
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readInto(t *testing.T, conn *websocket.Conn, v any) {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	if err := conn.ReadJSON(v); err != nil {
		t.Fatalf("read: %v", err)
	}
}

func TestHandshakeAndIntent(t *testing.T) {
	conn := dial(t, startServer(t))
	if err := conn.WriteJSON(protocol.HelloMsg{
		Type:            protocol.TypeHello,
		ProtocolVersion: protocol.Version,
		PlayerName:      "Kristin",
		Profession:      "dance-teacher",
	}); err != nil {
		t.Fatalf("hello: %v", err)
	}

	var welcome protocol.WelcomeMsg
	readInto(t, conn, &welcome)
	if welcome.Type != protocol.TypeWelcome || welcome.SessionID == "" || welcome.Resumed {
		t.Fatalf("unexpected welcome: %+v", welcome)
	}
	if len(welcome.Route.Waypoints) < 2 || welcome.Route.Distance == 0 || welcome.Catalogs["route"] == "" {
		t.Fatalf("welcome missing route or catalogs: %+v", welcome)
	}
	if welcome.Timing.TravelIntervalMs != 2000 || welcome.Timing.FrameIntervalMs != 50 {
		t.Fatalf("unexpected timing: %+v", welcome.Timing)
	}

	var st protocol.StateMsg
	readInto(t, conn, &st)
	if st.Reason != "welcome" || st.Mode != trail.ModeShop || st.Resources[trail.ResGold] != 350 {
		t.Fatalf("unexpected initial state: %+v", st)
	}

	if err := conn.WriteJSON(protocol.IntentMsg{
		Type: protocol.TypeIntent, ProtocolVersion: protocol.Version, Seq: 1, Intent: protocol.IntentContinue,
	}); err != nil {
		t.Fatalf("intent: %v", err)
	}
	readInto(t, conn, &st)
	if st.Ack != 1 || st.Mode != trail.ModeTravel || st.Error != nil {
		t.Fatalf("unexpected ack: %+v", st)
	}

	if err := conn.WriteJSON(protocol.IntentMsg{
		Type: protocol.TypeIntent, ProtocolVersion: protocol.Version, Seq: 2, Intent: protocol.IntentBuy, Item: "food", Quantity: 1,
	}); err != nil {
		t.Fatalf("intent: %v", err)
	}
	readInto(t, conn, &st)
	if st.Ack != 2 || st.Error == nil || st.Error.Code != protocol.ErrWrongMode {
		t.Fatalf("expected wrong mode error, got %+v", st.Error)
	}
}

func TestHandshakeRejectsBadHello(t *testing.T) {
	url := startServer(t)
	cases := []any{
		protocol.IntentMsg{Type: protocol.TypeIntent, Intent: protocol.IntentReset},
		protocol.HelloMsg{Type: protocol.TypeHello, ProtocolVersion: "0.9", PlayerName: "Kristin"},
		protocol.HelloMsg{Type: protocol.TypeHello, ProtocolVersion: protocol.Version},
	}
	for i, hello := range cases {
		conn := dial(t, url)
		if err := conn.WriteJSON(hello); err != nil {
			t.Fatalf("case %d: write: %v", i, err)
		}
		_ = conn.SetReadDeadline(time.Now().Add(3 * time.Second))
		_, _, err := conn.ReadMessage()
		if !websocket.IsCloseError(err, websocket.ClosePolicyViolation) {
			t.Fatalf("case %d: expected policy close, got %v", i, err)
		}
	}
}

func TestHandshakeAcceptsSupportedVersions(t *testing.T) {
	conn := dial(t, startServer(t))
	if err := conn.WriteJSON(protocol.HelloMsg{
		Type:              protocol.TypeHello,
		ProtocolVersion:   "2.0",
		SupportedVersions: []string{"2.0", protocol.Version},
		PlayerName:        "Nat",
	}); err != nil {
		t.Fatalf("hello: %v", err)
	}
	var welcome protocol.WelcomeMsg
	readInto(t, conn, &welcome)
	if welcome.ProtocolVersion != protocol.Version {
		t.Fatalf("expected negotiated %s, got %s", protocol.Version, welcome.ProtocolVersion)
	}
}

func TestIdleReaderKeptAliveByPings(t *testing.T) {
	const pongWait = 200 * time.Millisecond
	conn := dial(t, startServerWith(t, func(s *Server) {
		s.pongWait = pongWait
		s.pingPeriod = pongWait / 4
	}))
	if err := conn.WriteJSON(protocol.HelloMsg{
		Type: protocol.TypeHello, ProtocolVersion: protocol.Version, PlayerName: "Kristin",
	}); err != nil {
		t.Fatalf("hello: %v", err)
	}
	var welcome protocol.WelcomeMsg
	readInto(t, conn, &welcome)
	var st protocol.StateMsg
	readInto(t, conn, &st)

	_ = conn.SetReadDeadline(time.Time{})
	var pings atomic.Int64
	conn.SetPingHandler(func(data string) error {
		pings.Add(1)
		return conn.WriteControl(websocket.PongMessage, []byte(data), time.Now().Add(time.Second))
	})
	states := make(chan protocol.StateMsg, 4)
	readErr := make(chan error, 1)
	go func() {
		for {
			var m protocol.StateMsg
			if err := conn.ReadJSON(&m); err != nil {
				readErr <- err
				return
			}
			states <- m
		}
	}()

	// Only read, never write, for several deadlines.
	select {
	case err := <-readErr:
		t.Fatalf("connection dropped while idle: %v", err)
	case <-time.After(4 * pongWait):
	}
	if pings.Load() == 0 {
		t.Fatalf("expected keepalive pings")
	}

	if err := conn.WriteJSON(protocol.IntentMsg{
		Type: protocol.TypeIntent, ProtocolVersion: protocol.Version, Seq: 1, Intent: protocol.IntentContinue,
	}); err != nil {
		t.Fatalf("intent: %v", err)
	}
	select {
	case m := <-states:
		if m.Ack != 1 || m.Mode != trail.ModeTravel {
			t.Fatalf("unexpected ack: %+v", m)
		}
	case err := <-readErr:
		t.Fatalf("read after idle: %v", err)
	case <-time.After(3 * time.Second):
		t.Fatalf("no ack after idle period")
	}
}
