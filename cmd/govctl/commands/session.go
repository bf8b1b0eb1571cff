package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	governance "github.com/compound-finance/comet-governance"
	"github.com/compound-finance/comet-governance/cmd/govctl/config"
	"github.com/compound-finance/comet-governance/engine"
	"github.com/compound-finance/comet-governance/sdk"
	"github.com/compound-finance/comet-governance/storage"
	"github.com/compound-finance/comet-governance/timelock"
	"github.com/compound-finance/comet-governance/types"
)

// ErrNoSession is returned when the data directory holds no session.
var ErrNoSession = errors.New("no session found, run govctl init first")

// session is a governor and its timelock running on a manual clock, backed by the database.
type session struct {
	db       *storage.LevelDB
	lggr     *zap.SugaredLogger
	clock    *clock.Mock
	engine   *engine.Engine
	timelock *timelock.Timelock
	governor *governance.Governor
}

func newSession(db *storage.LevelDB, lggr *zap.SugaredLogger, start time.Time) *session {
	s := &sink{lggr: lggr}
	clock := sdk.NewManualClock(start)
	eng := engine.New(clock, engine.WithLogger(lggr), engine.WithFallback(s))
	s.rt = eng

	return &session{
		db:     db,
		lggr:   lggr,
		clock:  clock,
		engine: eng,
	}
}

// deploy creates the contracts of a new session.
func (s *session) deploy(cfg *config.Config) error {
	tl, err := timelock.New(s.engine, cfg.TimelockAddress(), cfg.GovernorAddress(), cfg.TimelockParams(),
		timelock.WithLogger(s.lggr))
	if err != nil {
		return err
	}
	gov, err := governance.New(s.engine, cfg.GovernorAddress(), governance.WithLogger(s.lggr))
	if err != nil {
		return err
	}

	return s.register(tl, gov)
}

// restore rebuilds the contracts from a saved session.
func (s *session) restore(ctx context.Context, saved storage.Session) error {
	tl, err := timelock.New(s.engine, saved.Timelock.Address, saved.Timelock.Admin, saved.Timelock.Config,
		timelock.WithLogger(s.lggr))
	if err != nil {
		return err
	}
	gov, err := governance.New(s.engine, saved.Governor.Address, governance.WithLogger(s.lggr))
	if err != nil {
		return err
	}
	if err := s.register(tl, gov); err != nil {
		return err
	}

	if err := tl.ImportState(ctx, saved.Timelock); err != nil {
		return fmt.Errorf("failed to restore timelock: %w", err)
	}
	if err := gov.ImportState(ctx, saved.Governor, tl); err != nil {
		return fmt.Errorf("failed to restore governor: %w", err)
	}
	s.engine.LoadEvents(saved.Events)

	return nil
}

func (s *session) register(tl *timelock.Timelock, gov *governance.Governor) error {
	if err := s.engine.Deploy(tl); err != nil {
		return err
	}
	if err := s.engine.Deploy(gov); err != nil {
		return err
	}
	s.timelock = tl
	s.governor = gov

	return nil
}

func (s *session) save(ctx context.Context) error {
	return s.db.SaveSession(storage.Session{
		Clock:    s.clock.Now(),
		Timelock: s.timelock.ExportState(ctx),
		Governor: s.governor.ExportState(ctx),
		Events:   s.engine.Events(),
	})
}

// runSession loads the session, runs fn and saves the session when fn succeeds.
func runSession(ctx context.Context, opts *rootOptions, fn func(ctx context.Context, s *session) error) error {
	cfg, err := opts.load()
	if err != nil {
		return err
	}
	lggr, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = lggr.Sync() }()

	db, err := storage.Open(cfg.DataDir)
	if err != nil {
		return err
	}
	defer db.Close()

	saved, err := db.LoadSession()
	if errors.Is(err, storage.ErrNotFound) {
		return ErrNoSession
	}
	if err != nil {
		return err
	}

	s := newSession(db, lggr, saved.Clock)
	if err := s.restore(ctx, saved); err != nil {
		return err
	}

	if err := fn(ctx, s); err != nil {
		return err
	}

	return s.save(ctx)
}

func parseAddress(name, value string) (common.Address, error) {
	if !common.IsHexAddress(value) {
		return common.Address{}, fmt.Errorf("%w: %s is not an address: %q", types.ErrInvalidConfiguration, name, value)
	}

	return common.HexToAddress(value), nil
}

func parseAddresses(name string, values []string) ([]common.Address, error) {
	addrs := make([]common.Address, len(values))
	for i, v := range values {
		addr, err := parseAddress(name, v)
		if err != nil {
			return nil, err
		}
		addrs[i] = addr
	}

	return addrs, nil
}
