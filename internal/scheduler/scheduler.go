// Package scheduler runs the client loop: inbound server frames, local input
// and the fixed-rate tick all apply to the world from a single goroutine.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"daemon-hunt/internal/game"
	"daemon-hunt/internal/logger"
	"daemon-hunt/internal/observability"
	"daemon-hunt/internal/protocol"
)

// ErrConnectionLost is returned by Run when the server connection fails
var ErrConnectionLost = errors.New("connection lost")

// Conn is the server connection. Pump runs on its own goroutine and must only
// deliver raw frames; WriteJSON is only called from the loop goroutine.
type Conn interface {
	Pump(ctx context.Context, out chan<- []byte) error
	WriteJSON(v any) error
}

// Renderer draws the world. It is called from the loop goroutine.
type Renderer interface {
	Draw(w *game.World) error
}

// Options configures a Scheduler
type Options struct {
	Username string
	TickRate int // ticks per second, default 60

	Renderer Renderer               // optional
	Input    <-chan game.InputEvent // optional

	// DropSampleRate bounds dropped-frame warnings per second
	DropSampleRate float64
}

// Stats holds loop counters
type Stats struct {
	Ticks        uint64 `json:"ticks"`
	Frames       uint64 `json:"frames"`
	Dropped      uint64 `json:"dropped"`
	Ignored      uint64 `json:"ignored"`
	Inputs       uint64 `json:"inputs"`
	Sent         uint64 `json:"sent"`
	Renders      uint64 `json:"renders"`
	RenderErrors uint64 `json:"renderErrors"`
}

// Scheduler owns the world while Run is active
type Scheduler struct {
	world   *game.World
	queue   *protocol.Queue
	conn    Conn
	opts    Options
	sampler *logger.Sampler

	exit atomic.Bool
	snap atomic.Pointer[game.Snapshot]

	ticks        atomic.Uint64
	frames       atomic.Uint64
	dropped      atomic.Uint64
	ignored      atomic.Uint64
	inputs       atomic.Uint64
	sent         atomic.Uint64
	renders      atomic.Uint64
	renderErrors atomic.Uint64
}

// New creates a scheduler. queue must be the queue world pushes requests onto.
func New(world *game.World, queue *protocol.Queue, conn Conn, opts Options) *Scheduler {
	if opts.TickRate <= 0 {
		opts.TickRate = 60
	}
	if opts.DropSampleRate == 0 {
		opts.DropSampleRate = 5
	}
	return &Scheduler{
		world:   world,
		queue:   queue,
		conn:    conn,
		opts:    opts,
		sampler: logger.NewSampler(opts.DropSampleRate),
	}
}

// Run sends the connect request and then loops until ctx is done, exit is
// requested, or the connection fails. Only connection failures are errors.
func (s *Scheduler) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if err := s.send(protocol.NewConnect(s.opts.Username)); err != nil {
		return fmt.Errorf("send connect: %w", err)
	}

	// unbuffered: a frame is either handled or still owned by the pump
	frames := make(chan []byte)
	pumpErr := make(chan error, 1)
	go func() {
		pumpErr <- s.conn.Pump(ctx, frames)
	}()

	interval := time.Second / time.Duration(s.opts.TickRate)
	dt := tickSeconds(s.opts.TickRate)
	timer := time.NewTimer(interval)
	defer timer.Stop()

	input := s.opts.Input

	logger.Log.WithFields(logrus.Fields{
		"username":  s.opts.Username,
		"tick_rate": s.opts.TickRate,
	}).Info("client loop started")

	for {
		select {
		case <-ctx.Done():
			logger.Log.Info("client loop cancelled")
			return nil

		case err := <-pumpErr:
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("%w: %w", ErrConnectionLost, err)

		case frame := <-frames:
			s.handleFrame(frame)

		case ev, ok := <-input:
			if !ok {
				input = nil
				continue
			}
			s.handleInput(ev)

		case <-timer.C:
			start := time.Now()
			if err := s.tick(dt); err != nil {
				return err
			}
			timer.Reset(nextDelay(interval, time.Since(start)))
		}

		if s.exit.Load() {
			logger.Log.Info("exit requested")
			return nil
		}
	}
}

// tickSeconds is the simulated duration of one tick. It is computed in float
// because time.Second/rate truncates to whole nanoseconds.
func tickSeconds(rate int) float64 {
	return 1 / float64(rate)
}

// nextDelay is the time left until the next tick boundary, or a full
// interval when the tick overran.
func nextDelay(interval, elapsed time.Duration) time.Duration {
	d := interval - elapsed
	if d <= 0 {
		return interval
	}
	return d
}

// RequestExit asks Run to return after the current step. Safe from any goroutine.
func (s *Scheduler) RequestExit() {
	s.exit.Store(true)
}

// Snapshot returns the latest published world snapshot, or nil before the
// first tick. Safe from any goroutine.
func (s *Scheduler) Snapshot() *game.Snapshot {
	return s.snap.Load()
}

// Stats returns the loop counters. Safe from any goroutine.
func (s *Scheduler) Stats() Stats {
	return Stats{
		Ticks:        s.ticks.Load(),
		Frames:       s.frames.Load(),
		Dropped:      s.dropped.Load(),
		Ignored:      s.ignored.Load(),
		Inputs:       s.inputs.Load(),
		Sent:         s.sent.Load(),
		Renders:      s.renders.Load(),
		RenderErrors: s.renderErrors.Load(),
	}
}

func (s *Scheduler) handleFrame(frame []byte) {
	msg, err := protocol.Decode(frame)
	if err != nil {
		s.dropped.Add(1)
		reason := protocol.Reason(err)
		observability.RecordFrameDropped(reason)
		s.sampler.Warn(logger.Log.WithError(err).WithFields(logrus.Fields{
			"reason": reason,
			"bytes":  len(frame),
		}), "dropped frame")
		return
	}

	s.frames.Add(1)
	observability.RecordFrame(msg.Kind().String())
	if !s.world.Dispatch(msg) {
		s.ignored.Add(1)
		logger.Log.WithField("type", msg.Kind().String()).Debug("unhandled message")
	}
}

func (s *Scheduler) handleInput(ev game.InputEvent) {
	s.inputs.Add(1)
	if ev.Kind == game.InputQuit {
		s.RequestExit()
		return
	}
	s.world.HandleInput(ev)
}

func (s *Scheduler) tick(dt float64) error {
	start := time.Now()
	s.world.Advance(dt)

	if s.opts.Renderer != nil && s.world.NeedsRedraw() {
		if err := s.opts.Renderer.Draw(s.world); err != nil {
			s.renderErrors.Add(1)
			logger.Log.WithError(err).Warn("render failed")
		} else {
			s.renders.Add(1)
		}
		s.world.MarkDrawn()
	}

	if _, err := s.queue.Drain(s.send); err != nil {
		return fmt.Errorf("%w: %w", ErrConnectionLost, err)
	}

	s.snap.Store(s.world.Snapshot())
	s.ticks.Add(1)

	observability.RecordTick(time.Since(start))
	observability.UpdateInterpolations(s.world.Animator().Len())
	observability.UpdateEffectPool(s.world.EffectPool())
	return nil
}

func (s *Scheduler) send(m protocol.Outbound) error {
	if err := s.conn.WriteJSON(m); err != nil {
		return err
	}
	s.sent.Add(1)
	observability.RecordOutbound(m.ActionName())
	return nil
}
