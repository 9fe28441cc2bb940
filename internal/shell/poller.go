package shell

import (
	"context"
	"time"
)

type Ticker interface {
	C() <-chan time.Time
	Stop()
}

type TickerFunc func(d time.Duration) Ticker

type timeTicker struct{ t *time.Ticker }

func (t timeTicker) C() <-chan time.Time { return t.t.C }
func (t timeTicker) Stop()               { t.t.Stop() }

func NewTimeTicker(d time.Duration) Ticker { return timeTicker{t: time.NewTicker(d)} }

// poller posts one pollTick per period until cancelled.
type poller struct {
	cancel context.CancelFunc
	done   chan struct{}
}

func (s *Shell) startPoller() {
	if s.poll != nil {
		return
	}
	s.pollGen++
	gen := s.pollGen

	ctx, cancel := context.WithCancel(s.ctx)
	t := s.ticker(s.interval)
	done := make(chan struct{})

	go func() {
		defer close(done)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C():
				select {
				case s.inbox <- pollTick{gen: gen}:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	s.poll = &poller{cancel: cancel, done: done}
	s.log.Debug("auto-run polling started")
}

// stopPoller cancels the poller and waits for its goroutine, so no tick is
// posted after it returns. Ticks already queued are ignored by generation.
func (s *Shell) stopPoller() {
	if s.poll == nil {
		return
	}
	s.poll.cancel()
	<-s.poll.done
	s.poll = nil
	s.log.Debug("auto-run polling stopped")
}
