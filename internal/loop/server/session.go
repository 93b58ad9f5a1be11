// Package server runs game engines on a fixed tick and serializes access
// to them.
package server

import (
	"context"
	"math"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/tomz197/retrodefender/internal/loop/config"
	"github.com/tomz197/retrodefender/internal/loop/game"
	"github.com/tomz197/retrodefender/internal/object"
)

// Controller is the interface clients use to drive a session. Decouples
// the terminal and web clients from the concrete Session.
type Controller interface {
	SetPointer(x float64)
	Shoot()
	Start()
	Dismiss()
	Resize(width, height float64)
	GetSnapshot() *game.Snapshot
	Updates() <-chan *game.Snapshot
	Done() <-chan struct{}
}

// Compile-time check that Session implements Controller.
var _ Controller = (*Session)(nil)

type commandKind int

const (
	cmdShoot commandKind = iota
	cmdStart
	cmdDismiss
	cmdResize
)

type command struct {
	kind commandKind
	x, y float64   // Width and height for resize
	at   time.Time // Issue time of a shot
	seq  uint64    // Issue order relative to pointer moves
}

// Options configures a Session.
type Options struct {
	Logger  *log.Logger
	Rand    *rand.Rand
	Clock   func() time.Time // Defaults to time.Now
	Palette []object.Category
}

// Session owns one Engine and advances it on a fixed interval while a run is
// in progress. Commands are queued and applied on the loop goroutine between
// ticks, so the engine is never touched concurrently. Pointer moves bypass
// the queue: only the latest position is kept.
type Session struct {
	ID string

	engine   *game.Engine
	interval time.Duration
	logger   *log.Logger
	clock    func() time.Time

	cmds     chan command
	pointer  pointerSlot
	issued   atomic.Uint64 // Orders commands and pointer moves
	snapshot atomic.Pointer[game.Snapshot]
	updates  chan *game.Snapshot

	mu       sync.Mutex
	running  bool
	stopped  bool
	stopOnce sync.Once
	stopCh   chan struct{}
	done     chan struct{}
}

// NewSession creates an idle session. Call Run to start processing.
func NewSession(t config.Tuning, opts Options) *Session {
	id := uuid.NewString()
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}

	engine := game.NewEngine(t, game.Options{Rand: opts.Rand, Palette: opts.Palette})
	s := &Session{
		ID:       id,
		engine:   engine,
		interval: engine.Tuning().TickInterval,
		logger:   logger.With("session", id),
		clock:    clock,
		cmds:     make(chan command, 256),
		pointer:  pointerSlot{notify: make(chan struct{}, 1)},
		updates:  make(chan *game.Snapshot, 1),
		stopCh:   make(chan struct{}),
		done:     make(chan struct{}),
	}
	s.snapshot.Store(engine.Snapshot())
	return s
}

// Run processes commands and ticks until ctx is cancelled or Stop is called.
func (s *Session) Run(ctx context.Context) {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.mu.Unlock()
	defer close(s.done)
	defer s.markStopped()

	s.logger.Debug("session started")
	defer s.logger.Debug("session stopped")

	var ticker *time.Ticker
	var tickC <-chan time.Time
	stopTicker := func() {
		if ticker != nil {
			ticker.Stop()
			ticker = nil
			tickC = nil
		}
	}
	defer stopTicker()

	// The ticker only exists while a run is in progress.
	syncTicker := func() {
		if s.engine.State() == game.StateRunning {
			if ticker == nil {
				ticker = time.NewTicker(s.interval)
				tickC = ticker.C
			}
			return
		}
		stopTicker()
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.stopCh:
			return
		case <-s.pointer.notify:
			if s.isStopped() {
				return
			}
			// Commands already queued may predate the move.
			for n := len(s.cmds); n > 0; n-- {
				s.handle(<-s.cmds)
			}
			s.applyPointer(math.MaxUint64)
			syncTicker()
		case cmd := <-s.cmds:
			if s.isStopped() {
				return
			}
			s.handle(cmd)
			syncTicker()
		case <-tickC:
			if s.isStopped() {
				return
			}
			if s.engine.Tick() {
				if s.engine.State() == game.StateGameOver {
					s.logger.Info("game over", "score", s.engine.Score(), "ticks", s.engine.TickCount())
				}
				s.publish()
			}
			syncTicker()
		}
	}
}

func (s *Session) isStopped() bool {
	select {
	case <-s.stopCh:
		return true
	default:
		return false
	}
}

// handle applies a pointer move issued before cmd, then cmd itself.
func (s *Session) handle(cmd command) {
	s.applyPointer(cmd.seq)
	s.apply(cmd)
}

// apply executes one command on the loop goroutine.
func (s *Session) apply(cmd command) {
	switch cmd.kind {
	case cmdShoot:
		if s.engine.Shoot(cmd.at) {
			s.publish()
		}
	case cmdStart:
		if s.engine.Start() {
			s.logger.Info("run started")
			s.publish()
		}
	case cmdDismiss:
		if s.engine.Dismiss() {
			s.publish()
		}
	case cmdResize:
		s.engine.SetPlayfield(cmd.x, cmd.y)
		s.publish()
	}
}

// applyPointer moves the player to the latest pointer position if one is
// pending and was issued before the given sequence number.
func (s *Session) applyPointer(before uint64) {
	x, ok := s.pointer.take(before)
	if !ok {
		return
	}
	s.engine.SetPointerX(x)
	// While running the next tick publishes the new position.
	if s.engine.State() != game.StateRunning {
		s.publish()
	}
}

// pointerSlot holds the most recent pointer position not yet applied.
type pointerSlot struct {
	mu      sync.Mutex
	x       float64
	seq     uint64
	pending bool
	notify  chan struct{}
}

func (p *pointerSlot) set(x float64, seq uint64) {
	p.mu.Lock()
	p.x = x
	p.seq = seq
	p.pending = true
	p.mu.Unlock()

	select {
	case p.notify <- struct{}{}:
	default:
	}
}

func (p *pointerSlot) take(before uint64) (float64, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.pending || p.seq >= before {
		return 0, false
	}
	p.pending = false
	return p.x, true
}

// publish stores a fresh snapshot and offers it to the update channel,
// replacing any snapshot the consumer has not picked up yet.
func (s *Session) publish() {
	snap := s.engine.Snapshot()
	s.snapshot.Store(snap)

	select {
	case s.updates <- snap:
		return
	default:
	}
	select {
	case <-s.updates:
	default:
	}
	select {
	case s.updates <- snap:
	default:
	}
}

// send queues a command. Commands are dropped when the queue is full or the
// session has stopped.
func (s *Session) send(cmd command) {
	select {
	case <-s.stopCh:
		return
	default:
	}
	cmd.seq = s.issued.Add(1)
	select {
	case s.cmds <- cmd:
	default:
		s.logger.Debug("command queue full, dropping input")
	}
}

// SetPointer moves the player towards the pointer position x. Moves that
// arrive faster than the loop applies them collapse into the latest one.
func (s *Session) SetPointer(x float64) {
	if s.isStopped() {
		return
	}
	s.pointer.set(x, s.issued.Add(1))
}

// Shoot requests a shot. The issue time is taken now so queueing delay does
// not affect the cooldown.
func (s *Session) Shoot() {
	s.send(command{kind: cmdShoot, at: s.clock()})
}

// Start begins a new run from the title or game over screen.
func (s *Session) Start() {
	s.send(command{kind: cmdStart})
}

// Dismiss leaves the game over screen.
func (s *Session) Dismiss() {
	s.send(command{kind: cmdDismiss})
}

// Resize changes the playfield size.
func (s *Session) Resize(width, height float64) {
	s.send(command{kind: cmdResize, x: width, y: height})
}

// GetSnapshot returns the latest snapshot.
func (s *Session) GetSnapshot() *game.Snapshot {
	return s.snapshot.Load()
}

// Updates delivers published snapshots. Only the most recent unread
// snapshot is kept.
func (s *Session) Updates() <-chan *game.Snapshot {
	return s.updates
}

// Done is closed once the session has ended, by Stop or by the Run context.
func (s *Session) Done() <-chan struct{} {
	return s.stopCh
}

// Stop ends the session. It is safe to call more than once and from any
// goroutine except the one running Run. Once Stop returns the engine is no
// longer modified.
func (s *Session) Stop() {
	wasRunning := s.markStopped()

	if wasRunning {
		<-s.done
	}
}

func (s *Session) markStopped() (wasRunning bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopped = true
	s.stopOnce.Do(func() { close(s.stopCh) })
	return s.running
}
