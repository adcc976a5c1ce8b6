package ws

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"slices"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"magictrail.dev/internal/protocol"
	"magictrail.dev/internal/session"
)

const (
	defaultPongWait = 60 * time.Second
	handshakeWait   = 5 * time.Second
	writeWait       = 5 * time.Second
)

type Server struct {
	base session.Config
	log  *log.Logger

	// A client that answers no ping within pongWait is dropped. Pings go
	// out every pingPeriod, which must be shorter.
	pongWait   time.Duration
	pingPeriod time.Duration

	upgrader websocket.Upgrader
	joins    atomic.Int64
}

// NewServer serves one session per connection. Each session gets base with
// its own seed and logger prefix.
func NewServer(base session.Config, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Server{
		base:       base,
		log:        logger,
		pongWait:   defaultPongWait,
		pingPeriod: defaultPongWait * 9 / 10,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  16 * 1024,
			WriteBufferSize: 64 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true }, // dev default
		},
	}
}

func (s *Server) Handler() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		conn, err := s.upgrader.Upgrade(rw, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()

		id, sess := s.handshake(ctx, conn)
		if sess == nil {
			return
		}
		defer sess.Stop()
		s.log.Printf("session %s joined", id)

		go func() {
			if err := sess.Run(ctx); err != nil && ctx.Err() == nil {
				s.log.Printf("session %s: %v", id, err)
			}
			cancel()
		}()

		// Writer goroutine. It also owns the keepalive pings.
		go func() {
			ping := time.NewTicker(s.pingPeriod)
			defer ping.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case <-ping.C:
					if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
						cancel()
						return
					}
				case st := <-sess.Updates():
					if err := writeJSON(conn, st); err != nil {
						cancel()
						return
					}
				}
			}
		}()

		// Reader loop.
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(s.pongWait))
		})
		for {
			_ = conn.SetReadDeadline(time.Now().Add(s.pongWait))
			_, msg, err := conn.ReadMessage()
			if err != nil {
				break
			}
			base, err := protocol.DecodeBase(msg)
			if err != nil || base.Type != protocol.TypeIntent {
				continue
			}
			var in protocol.IntentMsg
			if err := json.Unmarshal(msg, &in); err != nil {
				continue
			}
			if err := sess.Submit(ctx, in); err != nil {
				break
			}
		}

		s.log.Printf("session %s left", id)
	}
}

func (s *Server) handshake(ctx context.Context, conn *websocket.Conn) (string, *session.Session) {
	_ = conn.SetReadDeadline(time.Now().Add(handshakeWait))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		return "", nil
	}

	base, err := protocol.DecodeBase(msg)
	if err != nil || base.Type != protocol.TypeHello {
		closeWith(conn, "expected HELLO")
		return "", nil
	}
	var hello protocol.HelloMsg
	if err := json.Unmarshal(msg, &hello); err != nil {
		closeWith(conn, "bad HELLO")
		return "", nil
	}
	if hello.ProtocolVersion != protocol.Version && !slices.Contains(hello.SupportedVersions, protocol.Version) {
		closeWith(conn, "bad protocol_version")
		return "", nil
	}
	player := strings.TrimSpace(hello.PlayerName)
	resume := strings.TrimSpace(hello.Resume)
	if player == "" && resume == "" {
		closeWith(conn, "player_name required")
		return "", nil
	}

	id := uuid.NewString()
	cfg := s.base
	cfg.Seed = s.base.Seed + s.joins.Add(1)
	cfg.Logger = log.New(s.log.Writer(), s.log.Prefix()+"["+id[:8]+"] ", s.log.Flags())
	sess, err := session.New(cfg)
	if err != nil {
		s.log.Printf("new session: %v", err)
		closeWith(conn, "session unavailable")
		return "", nil
	}
	resumed, err := sess.Bootstrap(ctx, player, hello.Profession, resume)
	if err != nil {
		s.log.Printf("bootstrap %q: %v", player, err)
		closeWith(conn, "could not start game")
		return "", nil
	}

	if err := writeJSON(conn, sess.Welcome(id, resumed)); err != nil {
		return "", nil
	}
	if err := writeJSON(conn, sess.Initial()); err != nil {
		return "", nil
	}
	return id, sess
}

func closeWith(conn *websocket.Conn, reason string) {
	_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.ClosePolicyViolation, reason), time.Now().Add(time.Second))
}

func writeJSON(conn *websocket.Conn, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteMessage(websocket.TextMessage, b)
}
