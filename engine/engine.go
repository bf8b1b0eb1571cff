// Package engine implements sdk.Runtime: a single-writer execution environment in which every
// mutating call either completes with all of its effects or is reverted entirely.
package engine

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"

	"github.com/compound-finance/comet-governance/sdk"
	"github.com/compound-finance/comet-governance/types"
)

var _ sdk.Runtime = (*Engine)(nil)

// ErrReadOnly is returned when a mutating call is attempted from inside a View.
var ErrReadOnly = errors.New("state change attempted inside a read-only call")

// Engine serializes calls into registered contracts. The outermost call takes the lock, samples
// the clock once and snapshots every tracked component; a failing call, at any depth, restores
// the snapshots taken when it started.
type Engine struct {
	// mu is held for the whole duration of an outermost call.
	mu      sync.Mutex
	journal []types.Event

	regMu     sync.RWMutex
	contracts map[common.Address]sdk.Contract
	tracked   []sdk.Stateful

	clock    sdk.Clock
	fallback sdk.Dispatcher
	lggr     sdk.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine logger.
func WithLogger(lggr sdk.Logger) Option {
	return func(e *Engine) {
		e.lggr = lggr
	}
}

// WithFallback sets the dispatcher used for targets with no registered contract. Without one,
// such calls fail with types.ErrUnknownTarget.
func WithFallback(d sdk.Dispatcher) Option {
	return func(e *Engine) {
		e.fallback = d
	}
}

// New creates an Engine reading time from clk, or from the wall clock when clk is nil.
func New(clk sdk.Clock, opts ...Option) *Engine {
	if clk == nil {
		clk = clock.New()
	}
	e := &Engine{
		clock:     clk,
		contracts: make(map[common.Address]sdk.Contract),
		lggr:      sdk.NopLogger(),
	}
	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Register makes c reachable by Dispatch at its address.
func (e *Engine) Register(c sdk.Contract) error {
	e.regMu.Lock()
	defer e.regMu.Unlock()

	addr := c.Address()
	if addr == (common.Address{}) {
		return errors.New("cannot register a contract at the zero address")
	}
	if _, ok := e.contracts[addr]; ok {
		return fmt.Errorf("contract already registered at %s", addr.Hex())
	}
	e.contracts[addr] = c

	return nil
}

// Track adds s to the components snapshotted by every call.
func (e *Engine) Track(s sdk.Stateful) {
	e.regMu.Lock()
	defer e.regMu.Unlock()

	e.tracked = append(e.tracked, s)
}

type frameKey struct{}

type frame struct {
	id       string
	now      time.Time
	readOnly bool
	depth    int
	events   []types.Event
}

func frameFrom(ctx context.Context) (*frame, bool) {
	f, ok := ctx.Value(frameKey{}).(*frame)
	return f, ok
}

// Atomic runs fn as one call.
func (e *Engine) Atomic(ctx context.Context, fn func(ctx context.Context) error) error {
	if parent, ok := frameFrom(ctx); ok {
		if parent.readOnly {
			return ErrReadOnly
		}

		return e.nested(ctx, parent, fn)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	f := &frame{id: uuid.NewString(), now: e.clock.Now()}
	if err := e.run(context.WithValue(ctx, frameKey{}, f), f, fn); err != nil {
		e.lggr.Debugw("Call reverted", "callID", f.id, "err", err)
		return err
	}
	e.journal = append(e.journal, f.events...)

	return nil
}

func (e *Engine) nested(ctx context.Context, parent *frame, fn func(ctx context.Context) error) error {
	f := &frame{id: parent.id, now: parent.now, depth: parent.depth + 1}
	if err := e.run(context.WithValue(ctx, frameKey{}, f), f, fn); err != nil {
		return err
	}
	parent.events = append(parent.events, f.events...)

	return nil
}

// run executes fn against snapshots of every tracked component, restoring them if fn fails
// or panics.
func (e *Engine) run(ctx context.Context, f *frame, fn func(ctx context.Context) error) (err error) {
	e.regMu.RLock()
	tracked := slices.Clone(e.tracked)
	e.regMu.RUnlock()

	snapshots := make([]any, len(tracked))
	for i, s := range tracked {
		snapshots[i] = s.Snapshot()
	}

	restore := func() {
		for i, s := range tracked {
			s.Restore(snapshots[i])
		}
		f.events = nil
	}

	defer func() {
		if r := recover(); r != nil {
			restore()
			panic(r)
		}
	}()

	if err = fn(ctx); err != nil {
		restore()
	}

	return err
}

// View runs fn with the engine locked and no snapshots. Mutations inside fn fail.
func (e *Engine) View(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := frameFrom(ctx); ok {
		return fn(ctx)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	f := &frame{id: uuid.NewString(), now: e.clock.Now(), readOnly: true}

	return fn(context.WithValue(ctx, frameKey{}, f))
}

// Now returns the timestamp of the current call.
func (e *Engine) Now(ctx context.Context) time.Time {
	if f, ok := frameFrom(ctx); ok {
		return f.now
	}

	return e.clock.Now()
}

// Emit records an event in the current call. Outside a call the event is journaled directly.
func (e *Engine) Emit(ctx context.Context, emitter common.Address, name string, fields map[string]any) {
	if f, ok := frameFrom(ctx); ok {
		f.events = append(f.events, types.Event{
			CallID:  f.id,
			Time:    f.now,
			Emitter: emitter,
			Name:    name,
			Fields:  fields,
		})

		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.journal = append(e.journal, types.Event{
		Time:    e.clock.Now(),
		Emitter: emitter,
		Name:    name,
		Fields:  fields,
	})
}

// Events returns a copy of the events of every successful call so far. It must not be called
// from inside a call.
func (e *Engine) Events() []types.Event {
	e.mu.Lock()
	defer e.mu.Unlock()

	return slices.Clone(e.journal)
}

// LoadEvents replaces the journal, used when restoring a persisted session.
func (e *Engine) LoadEvents(events []types.Event) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.journal = slices.Clone(events)
}

// Deploy registers c and, when it keeps state, tracks it for snapshots.
func (e *Engine) Deploy(c sdk.Contract) error {
	if err := e.Register(c); err != nil {
		return err
	}
	if s, ok := c.(sdk.Stateful); ok {
		e.Track(s)
	}

	return nil
}
