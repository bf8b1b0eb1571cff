// Package governance implements a multisig governor: admins propose batches of actions, vote
// on them, and execute them through a timelock once enough approvals are collected.
//
// The Governor is a proxy. Its address and Store are stable while the Implementation behind
// it can be swapped, but only by a proposal that went through the timelock.
package governance

import (
	"context"
	"fmt"
	"math/big"
	"slices"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/compound-finance/comet-governance/sdk"
	"github.com/compound-finance/comet-governance/types"
)

var (
	_ sdk.Contract = (*Governor)(nil)
	_ sdk.Stateful = (*Governor)(nil)
)

// Governor is the stable entry point of the governance system.
type Governor struct {
	address common.Address
	rt      sdk.Runtime
	lggr    sdk.Logger

	store    *Store
	timelock sdk.TimelockExecutor
	impl     Implementation
	implAddr common.Address

	// deployed implementations, addressable by upgradeTo
	implementations map[common.Address]Implementation
}

// Option configures a Governor.
type Option func(*Governor)

// WithLogger sets the governor logger.
func WithLogger(lggr sdk.Logger) Option {
	return func(g *Governor) {
		g.lggr = lggr
	}
}

// WithImplementation sets the initial implementation and the address it is deployed at.
func WithImplementation(addr common.Address, impl Implementation) Option {
	return func(g *Governor) {
		g.implAddr = addr
		g.impl = impl
	}
}

// New creates an uninitialized governor at address. Unless WithImplementation is given, it
// delegates to GovernorV1 deployed at the first contract address derived from address.
func New(rt sdk.Runtime, address common.Address, opts ...Option) (*Governor, error) {
	if address == (common.Address{}) {
		return nil, fmt.Errorf("%w: governor address cannot be the zero address", types.ErrInvalidConfiguration)
	}

	g := &Governor{
		address:         address,
		rt:              rt,
		lggr:            sdk.NopLogger(),
		store:           NewStore(),
		impl:            GovernorV1{},
		implAddr:        crypto.CreateAddress(address, 0),
		implementations: make(map[common.Address]Implementation),
	}
	for _, opt := range opts {
		opt(g)
	}

	if g.impl == nil || g.implAddr == (common.Address{}) {
		return nil, fmt.Errorf("%w: governor needs an implementation", types.ErrInvalidConfiguration)
	}
	g.implementations[g.implAddr] = g.impl

	return g, nil
}

// Address returns the proxy address.
func (g *Governor) Address() common.Address {
	return g.address
}

// Initialize wires the governor to its timelock and sets the first admin set. It may only be
// called once.
func (g *Governor) Initialize(
	ctx context.Context, timelock sdk.TimelockExecutor, token common.Address, admins []common.Address, threshold uint8,
) error {
	return g.rt.Atomic(ctx, func(ctx context.Context) error {
		if g.store.Initialized {
			return types.ErrAlreadyInitialized
		}
		if timelock == nil || timelock.Address() == (common.Address{}) {
			return fmt.Errorf("%w: timelock is required", types.ErrInvalidConfiguration)
		}

		cfg, err := types.NewGovernanceConfig(admins, threshold)
		if err != nil {
			return err
		}

		g.store.Initialized = true
		g.store.Timelock = timelock.Address()
		g.store.Token = token
		g.store.Config = cfg
		g.timelock = timelock

		g.rt.Emit(ctx, g.address, types.EventGovernanceConfigSet, map[string]any{
			"admins":    cfg.Copy().Admins,
			"threshold": cfg.Threshold,
		})
		g.lggr.Infow("Governor initialized",
			"governor", g.address.Hex(),
			"timelock", timelock.Address().Hex(),
			"admins", len(cfg.Admins),
			"threshold", cfg.Threshold,
		)

		return nil
	})
}

// Propose creates a proposal from parallel arrays of targets, values and payloads and returns
// its id.
func (g *Governor) Propose(
	ctx context.Context, caller common.Address,
	targets []common.Address, values []*big.Int, payloads [][]byte, description string,
) (uint64, error) {
	var id uint64
	err := g.exec(ctx, func(ctx context.Context, h *Host) error {
		var err error
		id, err = g.impl.Propose(ctx, h, caller, targets, values, payloads, description)

		return err
	})

	return id, err
}

// ProposeActions is Propose taking a list of actions.
func (g *Governor) ProposeActions(
	ctx context.Context, caller common.Address, actions []types.Action, description string,
) (uint64, error) {
	targets, values, payloads := types.SplitActions(actions)

	return g.Propose(ctx, caller, targets, values, payloads, description)
}

// CastVote records caller's approval of a proposal.
func (g *Governor) CastVote(ctx context.Context, caller common.Address, id uint64, support uint8) error {
	return g.exec(ctx, func(ctx context.Context, h *Host) error {
		return g.impl.CastVote(ctx, h, caller, id, support)
	})
}

// Queue schedules every action of a proposal in the timelock.
func (g *Governor) Queue(ctx context.Context, caller common.Address, id uint64) error {
	return g.exec(ctx, func(ctx context.Context, h *Host) error {
		return g.impl.Queue(ctx, h, caller, id)
	})
}

// Execute runs every action of a queued proposal through the timelock. Either all actions
// succeed or none has any effect.
func (g *Governor) Execute(ctx context.Context, caller common.Address, id uint64) error {
	return g.exec(ctx, func(ctx context.Context, h *Host) error {
		return g.impl.Execute(ctx, h, caller, id)
	})
}

// Cancel cancels a proposal and removes its actions from the timelock queue.
func (g *Governor) Cancel(ctx context.Context, caller common.Address, id uint64) error {
	return g.exec(ctx, func(ctx context.Context, h *Host) error {
		return g.impl.Cancel(ctx, h, caller, id)
	})
}

// SetGovernanceConfig replaces the admin set and threshold. Only the timelock may call it.
func (g *Governor) SetGovernanceConfig(
	ctx context.Context, caller common.Address, admins []common.Address, threshold uint8,
) error {
	return g.exec(ctx, func(ctx context.Context, h *Host) error {
		cfg := types.GovernanceConfig{Admins: slices.Clone(admins), Threshold: threshold}

		return g.impl.SetGovernanceConfig(ctx, h, caller, cfg)
	})
}

// State returns the computed state of a proposal.
func (g *Governor) State(ctx context.Context, id uint64) (types.ProposalState, error) {
	var state types.ProposalState
	err := g.view(ctx, func(ctx context.Context, h *Host) error {
		var err error
		state, err = g.impl.State(ctx, h, id)

		return err
	})

	return state, err
}

// Proposal returns a copy of a proposal record.
func (g *Governor) Proposal(ctx context.Context, id uint64) (types.Proposal, error) {
	var out types.Proposal
	err := g.view(ctx, func(_ context.Context, h *Host) error {
		p, err := h.Store.Proposal(id)
		if err != nil {
			return err
		}
		out = p.Copy()

		return nil
	})

	return out, err
}

// ProposalDetails returns the actions of a proposal as parallel arrays.
func (g *Governor) ProposalDetails(
	ctx context.Context, id uint64,
) ([]common.Address, []*big.Int, [][]byte, error) {
	p, err := g.Proposal(ctx, id)
	if err != nil {
		return nil, nil, nil, err
	}
	targets, values, payloads := types.SplitActions(p.Actions)

	return targets, values, payloads, nil
}

// ProposalEta returns the eta of a proposal, 0 if it was never queued.
func (g *Governor) ProposalEta(ctx context.Context, id uint64) (uint64, error) {
	p, err := g.Proposal(ctx, id)
	if err != nil {
		return 0, err
	}

	return p.Eta, nil
}

// GetProposalApprovals returns the number of votes cast on a proposal.
func (g *Governor) GetProposalApprovals(ctx context.Context, id uint64) (uint64, error) {
	p, err := g.Proposal(ctx, id)
	if err != nil {
		return 0, err
	}

	return p.Approvals, nil
}

// HasEnoughApprovals reports whether a proposal has reached the current threshold.
func (g *Governor) HasEnoughApprovals(ctx context.Context, id uint64) (bool, error) {
	var ok bool
	err := g.view(ctx, func(_ context.Context, h *Host) error {
		p, err := h.Store.Proposal(id)
		if err != nil {
			return err
		}
		ok = p.Approvals >= uint64(h.Store.Config.Threshold)

		return nil
	})

	return ok, err
}

// GetReceipt returns the vote of voter on a proposal.
func (g *Governor) GetReceipt(ctx context.Context, id uint64, voter common.Address) (types.Receipt, error) {
	p, err := g.Proposal(ctx, id)
	if err != nil {
		return types.Receipt{}, err
	}

	return p.Receipts[voter], nil
}

// ProposalCount returns the id of the latest proposal.
func (g *Governor) ProposalCount(ctx context.Context) uint64 {
	var n uint64
	_ = g.rt.View(ctx, func(context.Context) error {
		n = g.store.ProposalCount
		return nil
	})

	return n
}

// IsAdmin reports whether addr is in the admin set.
func (g *Governor) IsAdmin(ctx context.Context, addr common.Address) bool {
	var ok bool
	_ = g.rt.View(ctx, func(context.Context) error {
		ok = g.store.Config.IsAdmin(addr)
		return nil
	})

	return ok
}

// Admins returns the admin set.
func (g *Governor) Admins(ctx context.Context) []common.Address {
	return g.Config(ctx).Admins
}

// MultisigThreshold returns the number of approvals required to queue a proposal.
func (g *Governor) MultisigThreshold(ctx context.Context) uint8 {
	return g.Config(ctx).Threshold
}

// Config returns a copy of the admin set and threshold.
func (g *Governor) Config(ctx context.Context) types.GovernanceConfig {
	var cfg types.GovernanceConfig
	_ = g.rt.View(ctx, func(context.Context) error {
		cfg = g.store.Config.Copy()
		return nil
	})

	return cfg
}

// Timelock returns the timelock address, zero before initialization.
func (g *Governor) Timelock(ctx context.Context) common.Address {
	var addr common.Address
	_ = g.rt.View(ctx, func(context.Context) error {
		addr = g.store.Timelock
		return nil
	})

	return addr
}

// Token returns the voting token address recorded at initialization.
func (g *Governor) Token(ctx context.Context) common.Address {
	var addr common.Address
	_ = g.rt.View(ctx, func(context.Context) error {
		addr = g.store.Token
		return nil
	})

	return addr
}

// Initialized reports whether Initialize has been called.
func (g *Governor) Initialized(ctx context.Context) bool {
	var ok bool
	_ = g.rt.View(ctx, func(context.Context) error {
		ok = g.store.Initialized
		return nil
	})

	return ok
}

// ExportState returns a copy of the governor state.
func (g *Governor) ExportState(ctx context.Context) types.GovernorState {
	var s types.GovernorState
	_ = g.rt.View(ctx, func(context.Context) error {
		s = g.store.export(g.address, g.implAddr)
		return nil
	})

	return s
}

// ImportState replaces the governor state. The implementation recorded in s must already be
// deployed, and timelock must match the recorded timelock address when s is initialized.
func (g *Governor) ImportState(ctx context.Context, s types.GovernorState, timelock sdk.TimelockExecutor) error {
	return g.rt.Atomic(ctx, func(context.Context) error {
		if s.Address != g.address {
			return fmt.Errorf("state belongs to governor %s, not %s", s.Address.Hex(), g.address.Hex())
		}
		impl, ok := g.implementations[s.Implementation]
		if !ok {
			return fmt.Errorf("%w: %s", types.ErrUnknownImplementation, s.Implementation.Hex())
		}
		if s.Initialized && (timelock == nil || timelock.Address() != s.Timelock) {
			return fmt.Errorf("%w: state expects timelock %s", types.ErrInvalidConfiguration, s.Timelock.Hex())
		}

		store, err := storeFromState(s)
		if err != nil {
			return err
		}

		g.store = store
		g.impl = impl
		g.implAddr = s.Implementation
		g.timelock = nil
		if s.Initialized {
			g.timelock = timelock
		}

		return nil
	})
}

type snapshot struct {
	store    *Store
	timelock sdk.TimelockExecutor
	impl     Implementation
	implAddr common.Address
}

// Snapshot implements sdk.Stateful.
func (g *Governor) Snapshot() any {
	return snapshot{
		store:    g.store.Copy(),
		timelock: g.timelock,
		impl:     g.impl,
		implAddr: g.implAddr,
	}
}

// Restore implements sdk.Stateful.
func (g *Governor) Restore(s any) {
	snap := s.(snapshot)
	// in place, outer frames hold a Host pointing at g.store
	*g.store = *snap.store.Copy()
	g.timelock = snap.timelock
	g.impl = snap.impl
	g.implAddr = snap.implAddr
}

func (g *Governor) host() *Host {
	return &Host{
		Address:  g.address,
		Store:    g.store,
		Timelock: g.timelock,
		Runtime:  g.rt,
		Logger:   g.lggr,
	}
}

// exec runs fn as one mutating call against the current implementation.
func (g *Governor) exec(ctx context.Context, fn func(ctx context.Context, h *Host) error) error {
	return g.rt.Atomic(ctx, func(ctx context.Context) error {
		if !g.store.Initialized {
			return types.ErrNotInitialized
		}

		return fn(ctx, g.host())
	})
}

func (g *Governor) view(ctx context.Context, fn func(ctx context.Context, h *Host) error) error {
	return g.rt.View(ctx, func(ctx context.Context) error {
		if !g.store.Initialized {
			return types.ErrNotInitialized
		}

		return fn(ctx, g.host())
	})
}
