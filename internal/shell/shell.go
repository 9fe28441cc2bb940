package shell

import (
	"context"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/DoyleJ11/zombie-dashboard/internal/journal"
	"github.com/DoyleJ11/zombie-dashboard/internal/logging"
	"github.com/DoyleJ11/zombie-dashboard/pkg/types"
)

// API is the part of the simulation service the dashboard uses. The secret
// weapon endpoint is deliberately absent.
type API interface {
	State(ctx context.Context) (*types.Snapshot, error)
	Setup(ctx context.Context, cfg types.SetupRequest) (*types.SetupResult, error)
	Advance(ctx context.Context) (*types.AdvanceResult, error)
	AddZombie(ctx context.Context) (*types.AddZombieResult, error)
	AddPracticante(ctx context.Context) (*types.AddPracticanteResult, error)
	CleanRoom(ctx context.Context, p types.Position) (*types.CleanRoomResult, error)
	ResetSensor(ctx context.Context, p types.Position) (*types.ResetSensorResult, error)
	ToggleZombieGeneration(ctx context.Context) (*types.ZombieGenerationResult, error)
	AutoRun(ctx context.Context, run bool) (*types.AutoRunResult, error)
	Reset(ctx context.Context) (*types.Ack, error)
}

type Msg interface{ isShellMsg() }

func (Command) isShellMsg() {}

type Join struct {
	ClientID string
	Outbox   chan Update // buffered; the shell never blocks on it
}

func (Join) isShellMsg() {}

type Leave struct{ ClientID string }

func (Leave) isShellMsg() {}

type GetState struct {
	Reply chan View
}

func (GetState) isShellMsg() {}

type Shutdown struct{}

func (Shutdown) isShellMsg() {}

// Update is what subscribers receive after every state change.
type Update struct {
	Version int
	State   State
}

type View struct {
	Version    int
	NumClients int
	State      State
}

// internal results posted back by worker goroutines
type fetchDone struct {
	id   uint64
	snap *types.Snapshot
	err  error
}

type actionDone struct {
	cmd     Command
	events  []Event // applied after the refresh
	soft    bool
	err     error
	fetch   *fetchDone
	autoRun *bool
}

type pollTick struct{ gen int }

type idleTick struct{ gen int }

func (fetchDone) isShellMsg()  {}
func (actionDone) isShellMsg() {}
func (pollTick) isShellMsg()   {}
func (idleTick) isShellMsg()   {}

// Shell owns one dashboard's State. All changes happen on its loop goroutine;
// API calls run concurrently and report back through the inbox.
type Shell struct {
	id       string
	inbox    chan Msg
	api      API
	state    State
	version  int
	clients  map[string]chan Update
	journal  journal.Store
	log      *zap.Logger
	interval time.Duration
	ticker   TickerFunc
	poll     *poller
	pollGen  int
	inFlight int
	seq      atomic.Uint64 // fetch ids, in issue order
	applied  uint64        // newest fetch id applied to state
	idleFor  time.Duration
	onIdle   func(*Shell)
	idle     *time.Timer
	idleGen  int
	ctx      context.Context
	cancel   context.CancelFunc
	done     chan struct{}
}

type Option func(*Shell)

func WithID(id string) Option { return func(s *Shell) { s.id = id } }

func WithJournal(j journal.Store) Option { return func(s *Shell) { s.journal = j } }

func WithLogger(l *zap.Logger) Option { return func(s *Shell) { s.log = logging.OrNop(l) } }

// WithPollInterval sets the auto-run refresh period (default 1s).
func WithPollInterval(d time.Duration) Option {
	return func(s *Shell) {
		if d > 0 {
			s.interval = d
		}
	}
}

func WithTicker(f TickerFunc) Option { return func(s *Shell) { s.ticker = f } }

// WithIdleTimeout calls onIdle whenever the shell has had no subscribers for d.
// Auto-run polling is stopped at that point.
func WithIdleTimeout(d time.Duration, onIdle func(*Shell)) Option {
	return func(s *Shell) {
		if d > 0 && onIdle != nil {
			s.idleFor = d
			s.onIdle = onIdle
		}
	}
}

// New starts the shell loop and its initial snapshot load.
func New(parent context.Context, api API, opts ...Option) *Shell {
	ctx, cancel := context.WithCancel(parent)

	s := &Shell{
		inbox:    make(chan Msg, 64),
		api:      api,
		state:    NewState(),
		clients:  make(map[string]chan Update),
		log:      zap.NewNop(),
		interval: time.Second,
		ticker:   NewTimeTicker,
		ctx:      ctx,
		cancel:   cancel,
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With(zap.String("component", "shell"), zap.String("session", s.id))

	go s.loop()
	return s
}

func (s *Shell) ID() string { return s.id }

// Inbox exposes the loop's inbox to transports and tests.
func (s *Shell) Inbox() chan<- Msg { return s.inbox }

// Done is closed once the loop has exited.
func (s *Shell) Done() <-chan struct{} { return s.done }

// Send delivers m unless the shell has stopped or ctx ends first.
func (s *Shell) Send(ctx context.Context, m Msg) error {
	select {
	case <-s.done:
		return ErrClosed
	default:
	}
	select {
	case s.inbox <- m:
		return nil
	case <-s.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// View returns the current state without racing the loop.
func (s *Shell) View(ctx context.Context) (View, error) {
	reply := make(chan View, 1)
	if err := s.Send(ctx, GetState{Reply: reply}); err != nil {
		return View{}, err
	}
	select {
	case v := <-reply:
		return v, nil
	case <-s.done:
		return View{}, ErrClosed
	case <-ctx.Done():
		return View{}, ctx.Err()
	}
}

// Close stops the loop, the poller and every in-flight request, and waits.
func (s *Shell) Close() {
	s.cancel()
	<-s.done
}

func (s *Shell) loop() {
	defer close(s.done)

	s.exec(Command{Action: ActRefresh})
	s.armIdle()

	for {
		select {
		case <-s.ctx.Done():
			s.shutdown()
			return

		case m := <-s.inbox:
			switch msg := m.(type) {
			case Join:
				s.disarmIdle()
				s.clients[msg.ClientID] = msg.Outbox
				s.sendTo(msg.ClientID, msg.Outbox, Update{Version: s.version, State: s.state})

			case Leave:
				if ch, ok := s.clients[msg.ClientID]; ok {
					close(ch)
					delete(s.clients, msg.ClientID)
				}
				s.armIdle()

			case Command:
				s.exec(msg)

			case fetchDone:
				next := s.finish(s.state)
				s.set(s.applyFetch(next, msg))

			case actionDone:
				next := s.finish(s.state)
				s.set(s.resolve(next, msg))

			case pollTick:
				if s.poll == nil || msg.gen != s.pollGen {
					break // tick from a poller that has been stopped
				}
				s.startFetch()

			case idleTick:
				if msg.gen != s.idleGen || len(s.clients) > 0 {
					break
				}
				s.idle = nil
				s.stopPoller()
				s.set(Apply(s.state, Event{Type: EvtAutoRunChanged, On: false}))
				s.log.Info("session idle", zap.Duration("after", s.idleFor))
				go s.onIdle(s)

			case GetState:
				msg.Reply <- View{
					Version:    s.version,
					NumClients: len(s.clients),
					State:      s.state,
				}

			case Shutdown:
				s.shutdown()
				return
			}
		}
	}
}

func (s *Shell) exec(cmd Command) {
	switch cmd.Action {
	case ActRefresh:
		s.startFetch()

	case ActSetup:
		if cmd.Setup == nil {
			s.log.Warn("setup without configuration ignored")
			return
		}
		req := *cmd.Setup
		s.start(cmd, true, func(ctx context.Context) actionDone {
			res, err := s.api.Setup(ctx, req)
			if err != nil {
				return actionDone{err: err}
			}
			notes, soft := setupNotices(res)
			return actionDone{events: noticeEvents(notes), soft: soft}
		})

	case ActAdvance:
		s.start(cmd, true, func(ctx context.Context) actionDone {
			res, err := s.api.Advance(ctx)
			if err != nil {
				return actionDone{err: err}
			}
			notes, soft := advanceNotices(res)
			return actionDone{events: noticeEvents(notes), soft: soft}
		})

	case ActAddZombie:
		s.start(cmd, true, func(ctx context.Context) actionDone {
			res, err := s.api.AddZombie(ctx)
			if err != nil {
				return actionDone{err: err}
			}
			notes, soft := addZombieNotices(res)
			return actionDone{events: noticeEvents(notes), soft: soft}
		})

	case ActAddPracticante:
		s.start(cmd, true, func(ctx context.Context) actionDone {
			res, err := s.api.AddPracticante(ctx)
			if err != nil {
				return actionDone{err: err}
			}
			notes, soft := addPracticanteNotices(res)
			return actionDone{events: noticeEvents(notes), soft: soft}
		})

	case ActSelect:
		if cmd.Position == nil {
			s.log.Warn("select without a room ignored")
			return
		}
		if !s.state.Snapshot.Has(*cmd.Position) {
			s.log.Warn("select ignored", zap.Error(ErrUnknownRoom),
				zap.Int("floor", cmd.Position.Floor), zap.Int("room", cmd.Position.Room))
			return
		}
		s.set(Apply(s.state, Event{Type: EvtRoomSelected, Position: *cmd.Position}))

	case ActCleanRoom:
		if s.state.Selected == nil {
			s.log.Debug("clean room ignored", zap.Error(ErrNoSelection))
			return
		}
		p := *s.state.Selected
		s.start(cmd, true, func(ctx context.Context) actionDone {
			res, err := s.api.CleanRoom(ctx, p)
			if err != nil {
				return actionDone{err: err}
			}
			notes, soft := cleanRoomNotices(p, res)
			return actionDone{events: noticeEvents(notes), soft: soft}
		})

	case ActResetSensor:
		if s.state.Selected == nil {
			s.log.Debug("reset sensor ignored", zap.Error(ErrNoSelection))
			return
		}
		p := *s.state.Selected
		s.start(cmd, true, func(ctx context.Context) actionDone {
			res, err := s.api.ResetSensor(ctx, p)
			if err != nil {
				return actionDone{err: err}
			}
			notes, soft := resetSensorNotices(p, res)
			return actionDone{events: noticeEvents(notes), soft: soft}
		})

	case ActToggleZombieGeneration:
		s.start(cmd, true, func(ctx context.Context) actionDone {
			res, err := s.api.ToggleZombieGeneration(ctx)
			if err != nil {
				return actionDone{err: err}
			}
			notes, soft := zombieGenerationNotices(res)
			return actionDone{events: noticeEvents(notes), soft: soft}
		})

	case ActSecretWeapon:
		// Opens the external link; the backend's secret weapon is never called.
		events := append([]Event{{Type: EvtRedirectRequested, Message: SecretWeaponURL}},
			noticeEvents(secretWeaponNotices())...)
		next := Reduce(s.state, events)
		s.record(cmd.Action, journal.OutcomeOK, next.Notification.Message, next)
		s.set(next)

	case ActAutoRun:
		want := !s.state.AutoRunning
		s.start(cmd, false, func(ctx context.Context) actionDone {
			if _, err := s.api.AutoRun(ctx, want); err != nil {
				return actionDone{err: err}
			}
			return actionDone{autoRun: &want, events: noticeEvents(autoRunNotices(want))}
		})

	case ActReset:
		s.start(cmd, true, func(ctx context.Context) actionDone {
			if _, err := s.api.Reset(ctx); err != nil {
				return actionDone{err: err}
			}
			off := false
			return actionDone{autoRun: &off, events: noticeEvents(resetNotices())}
		})

	case ActCloseNotification:
		s.set(Apply(s.state, Event{Type: EvtNotificationClosed}))

	default:
		s.log.Warn("command ignored", zap.Error(ErrUnsupportedAction), zap.String("action", string(cmd.Action)))
	}
}

// start runs call off the loop and, when it succeeds and refresh is set,
// re-fetches the snapshot before reporting back.
func (s *Shell) start(cmd Command, refresh bool, call func(ctx context.Context) actionDone) {
	s.begin()
	go func() {
		res := call(s.ctx)
		res.cmd = cmd
		if res.err == nil && refresh {
			f := s.fetch(s.ctx)
			res.fetch = &f
		}
		s.post(res)
	}()
}

func (s *Shell) startFetch() {
	s.begin()
	go func() {
		s.post(s.fetch(s.ctx))
	}()
}

func (s *Shell) fetch(ctx context.Context) fetchDone {
	id := s.seq.Add(1)
	snap, err := s.api.State(ctx)
	return fetchDone{id: id, snap: snap, err: err}
}

func (s *Shell) post(m Msg) {
	select {
	case s.inbox <- m:
	case <-s.ctx.Done():
	}
}

func (s *Shell) begin() {
	s.inFlight++
	s.set(Apply(s.state, Event{Type: EvtLoadingChanged, On: true}))
}

func (s *Shell) finish(next State) State {
	s.inFlight--
	return Apply(next, Event{Type: EvtLoadingChanged, On: s.inFlight > 0})
}

// applyFetch drops responses older than the newest one already applied.
func (s *Shell) applyFetch(next State, f fetchDone) State {
	if f.id <= s.applied {
		s.log.Debug("stale snapshot discarded", zap.Uint64("fetch", f.id), zap.Uint64("applied", s.applied))
		return next
	}
	s.applied = f.id

	if f.err != nil {
		s.log.Warn("snapshot fetch failed", zap.Error(f.err))
		return Apply(next, Event{Type: EvtFetchFailed, Message: msgLoadFailed})
	}
	return Apply(next, Event{Type: EvtSnapshotLoaded, Snapshot: f.snap})
}

func (s *Shell) resolve(next State, res actionDone) State {
	if res.err != nil {
		s.log.Warn("action failed", zap.String("action", string(res.cmd.Action)), zap.Error(res.err))
		next = Apply(next, Event{Type: EvtActionFailed, Message: FailureMessage(res.cmd.Action)})
		s.record(res.cmd.Action, journal.OutcomeError, res.err.Error(), next)
		return next
	}

	if res.fetch != nil {
		next = s.applyFetch(next, *res.fetch)
	}
	if res.autoRun != nil {
		next = Apply(next, Event{Type: EvtAutoRunChanged, On: *res.autoRun})
		if *res.autoRun {
			s.startPoller()
		} else {
			s.stopPoller()
		}
	}
	next = Reduce(next, res.events)

	outcome := journal.OutcomeOK
	if res.soft {
		outcome = journal.OutcomeSoft
	}
	s.record(res.cmd.Action, outcome, next.Notification.Message, next)
	return next
}

// set installs next and broadcasts it when it differs from the current state.
func (s *Shell) set(next State) {
	if next == s.state {
		return
	}
	s.state = next
	s.version++
	s.broadcast(Update{Version: s.version, State: s.state})
}

func (s *Shell) record(a Action, outcome journal.Outcome, message string, st State) {
	if s.journal == nil {
		return
	}
	e := journal.Entry{Session: s.id, Action: string(a), Outcome: outcome, Message: message}
	if st.Snapshot != nil {
		e.Turn = st.Snapshot.Turn
		e.Infested = st.Snapshot.InfestedRooms
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := s.journal.Record(ctx, e); err != nil {
			s.log.Warn("journal write failed", zap.Error(err))
		}
	}()
}

func (s *Shell) shutdown() {
	s.disarmIdle()
	s.stopPoller()
	for id, ch := range s.clients {
		close(ch) // no more updates
		delete(s.clients, id)
	}
	s.cancel()
}

func (s *Shell) broadcast(u Update) {
	for id, ch := range s.clients {
		s.sendTo(id, ch, u)
	}
}

func (s *Shell) sendTo(id string, ch chan Update, u Update) {
	select {
	case ch <- u:
	default:
		// Client is slow/full - drop them.
		close(ch)
		delete(s.clients, id)
		s.armIdle()
	}
}

// armIdle starts the idle countdown when nobody is subscribed.
func (s *Shell) armIdle() {
	if s.onIdle == nil || len(s.clients) > 0 || s.idle != nil {
		return
	}
	s.idleGen++
	gen := s.idleGen
	s.idle = time.AfterFunc(s.idleFor, func() { s.post(idleTick{gen: gen}) })
}

func (s *Shell) disarmIdle() {
	if s.idle == nil {
		return
	}
	s.idle.Stop()
	s.idle = nil
	s.idleGen++ // a tick already fired is ignored
}

func noticeEvents(notes []Notification) []Event {
	events := make([]Event, 0, len(notes))
	for _, n := range notes {
		events = append(events, notified(n))
	}
	return events
}
