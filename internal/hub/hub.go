package hub

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/DoyleJ11/zombie-dashboard/internal/logging"
	"github.com/DoyleJ11/zombie-dashboard/internal/shell"
)

var ErrSessionNotFound = errors.New("session not found")
var ErrHubClosed = errors.New("hub closed")

// Factory starts the shell of a new session. ctx ends when the hub shuts down.
// A shell that reports itself through release (shell.WithIdleTimeout) is
// removed from the hub and closed.
type Factory func(ctx context.Context, code string, release func(*shell.Shell)) *shell.Shell

type HubMsg interface{ isHubMsg() }

type CreateSession struct {
	Code  string
	Reply chan *shell.Shell
}

type GetSession struct {
	Code  string
	Reply chan *shell.Shell
}

type EnsureSession struct {
	Code  string
	Reply chan *shell.Shell
}

type RemoveSession struct {
	Code  string
	Shell *shell.Shell // optional, only this instance is removed
}

type ShutdownHub struct {
	Done chan struct{} // optional, closed once every shell has stopped
}

func (CreateSession) isHubMsg() {}
func (GetSession) isHubMsg()    {}
func (EnsureSession) isHubMsg() {}
func (RemoveSession) isHubMsg() {}
func (ShutdownHub) isHubMsg()   {}

type Hub struct {
	inbox    chan HubMsg
	sessions map[string]*shell.Shell
	newShell Factory
	log      *zap.Logger
	ctx      context.Context
	cancel   context.CancelFunc
	done     chan struct{}
}

func NewHub(parent context.Context, newShell Factory, log *zap.Logger) *Hub {
	ctx, cancel := context.WithCancel(parent)
	h := &Hub{
		inbox:    make(chan HubMsg, 64),
		sessions: make(map[string]*shell.Shell),
		newShell: newShell,
		log:      logging.OrNop(log).With(zap.String("component", "hub")),
		ctx:      ctx,
		cancel:   cancel,
		done:     make(chan struct{}),
	}
	go h.loop()
	return h
}

func (h *Hub) Inbox() chan<- HubMsg { return h.inbox }

func (h *Hub) Done() <-chan struct{} { return h.done }

// Get returns the session's shell or ErrSessionNotFound.
func (h *Hub) Get(ctx context.Context, code string) (*shell.Shell, error) {
	sh, err := h.ask(ctx, func(reply chan *shell.Shell) HubMsg { return GetSession{Code: code, Reply: reply} })
	if err != nil {
		return nil, err
	}
	if sh == nil {
		return nil, ErrSessionNotFound
	}
	return sh, nil
}

// Ensure returns the session's shell, starting one if needed.
func (h *Hub) Ensure(ctx context.Context, code string) (*shell.Shell, error) {
	return h.ask(ctx, func(reply chan *shell.Shell) HubMsg { return EnsureSession{Code: code, Reply: reply} })
}

func (h *Hub) ask(ctx context.Context, msg func(chan *shell.Shell) HubMsg) (*shell.Shell, error) {
	reply := make(chan *shell.Shell, 1)
	select {
	case h.inbox <- msg(reply):
	case <-h.done:
		return nil, ErrHubClosed
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	select {
	case sh := <-reply:
		return sh, nil
	case <-h.done:
		return nil, ErrHubClosed
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Shutdown stops every session and waits for the hub loop to exit.
func (h *Hub) Shutdown(ctx context.Context) error {
	select {
	case h.inbox <- ShutdownHub{}:
	case <-h.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-h.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (h *Hub) loop() {
	defer close(h.done)

	for {
		select {
		case <-h.ctx.Done():
			h.shutdown()
			return

		case m := <-h.inbox:
			switch msg := m.(type) {
			case CreateSession:
				if sh := h.sessions[msg.Code]; sh != nil {
					msg.Reply <- sh
					break
				}
				msg.Reply <- h.start(msg.Code)

			case GetSession:
				msg.Reply <- h.sessions[msg.Code] // May be nil

			case EnsureSession:
				if sh := h.sessions[msg.Code]; sh != nil {
					msg.Reply <- sh
					break
				}
				msg.Reply <- h.start(msg.Code)

			case RemoveSession:
				if sh := h.sessions[msg.Code]; sh != nil && (msg.Shell == nil || msg.Shell == sh) {
					delete(h.sessions, msg.Code)
					go sh.Close()
					h.log.Info("session removed", zap.String("code", msg.Code))
				}

			case ShutdownHub:
				h.shutdown()
				if msg.Done != nil {
					close(msg.Done)
				}
				return
			}
		}
	}
}

func (h *Hub) start(code string) *shell.Shell {
	sh := h.newShell(h.ctx, code, h.release(code))
	h.sessions[code] = sh
	h.log.Info("session started", zap.String("code", code))
	return sh
}

func (h *Hub) release(code string) func(*shell.Shell) {
	return func(sh *shell.Shell) {
		select {
		case h.inbox <- RemoveSession{Code: code, Shell: sh}:
		case <-h.done:
		}
	}
}

func (h *Hub) shutdown() {
	h.cancel()
	for code, sh := range h.sessions {
		sh.Close()
		delete(h.sessions, code)
	}
}
