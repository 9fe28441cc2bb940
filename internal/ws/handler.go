package ws

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/DoyleJ11/zombie-dashboard/internal/hub"
	"github.com/DoyleJ11/zombie-dashboard/internal/logging"
	"github.com/DoyleJ11/zombie-dashboard/internal/shell"
	"github.com/DoyleJ11/zombie-dashboard/internal/types"
)

const writeTimeout = 3 * time.Second

// Handler streams a session's view to one websocket client and forwards the
// client's commands to the session shell.
func Handler(h *hub.Hub, log *zap.Logger) http.HandlerFunc {
	log = logging.OrNop(log).With(zap.String("component", "ws"))

	return func(w http.ResponseWriter, r *http.Request) {
		code := r.URL.Query().Get("code")
		if code == "" {
			http.Error(w, "missing code", http.StatusBadRequest)
			return
		}

		sh, err := h.Get(r.Context(), code)
		if errors.Is(err, hub.ErrSessionNotFound) {
			http.Error(w, "session not found", http.StatusNotFound)
			return
		}
		if err != nil {
			http.Error(w, "hub unavailable", http.StatusServiceUnavailable)
			return
		}

		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			// In dev ONLY, you can loosen origin checks:
			// OriginPatterns: []string{"http://localhost:*", "http://127.0.0.1:*"},
		})
		if err != nil {
			log.Debug("websocket accept failed", zap.Error(err))
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "bye")

		clientID := uuid.NewString()
		log := log.With(zap.String("session", code), zap.String("client", clientID))

		out := make(chan shell.Update, 8)
		if err := sh.Send(r.Context(), shell.Join{ClientID: clientID, Outbox: out}); err != nil {
			conn.Close(websocket.StatusGoingAway, "session closed")
			return
		}
		log.Debug("client joined")

		writeCtx, writeCancel := context.WithCancel(r.Context())
		written := make(chan struct{})
		go writeLoop(writeCtx, conn, out, written, log)

		// Leave closes the outbox, which ends the writer.
		defer func() {
			writeCancel()
			_ = sh.Send(context.Background(), shell.Leave{ClientID: clientID})
			<-written
			log.Debug("client left")
		}()

		// Reader loop
		for {
			_, data, err := conn.Read(r.Context())
			if err != nil {
				switch websocket.CloseStatus(err) {
				case websocket.StatusNormalClosure, websocket.StatusGoingAway:
				default:
					log.Debug("client read ended", zap.Error(err))
				}
				return
			}

			var cm types.ClientMessage
			if err := json.Unmarshal(data, &cm); err != nil {
				_ = write(r.Context(), conn, types.Error("bad json"))
				continue
			}

			cmd, ok := cm.Command()
			if !ok {
				_ = write(r.Context(), conn, types.Error("unknown type"))
				continue
			}

			if err := sh.Send(r.Context(), cmd); err != nil {
				return
			}
		}
	}
}

// writeLoop forwards updates until the shell closes out.
func writeLoop(ctx context.Context, conn *websocket.Conn, out <-chan shell.Update, done chan<- struct{}, log *zap.Logger) {
	defer close(done)
	for u := range out {
		if err := write(ctx, conn, types.Snapshot(u)); err != nil {
			log.Debug("snapshot write failed", zap.Error(err))
		}
	}
	conn.Close(websocket.StatusGoingAway, "session ended")
}

func write(ctx context.Context, conn *websocket.Conn, msg types.ServerMessage) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	return conn.Write(ctx, websocket.MessageText, payload)
}
