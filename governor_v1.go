package governance

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/compound-finance/comet-governance/internal/utils/safecast"
	"github.com/compound-finance/comet-governance/timelock"
	"github.com/compound-finance/comet-governance/types"
)

var _ Implementation = GovernorV1{}

// GovernorV1 is the multisig proposal engine: admins propose, every cast vote counts as one
// approval, and once the threshold is met a proposal is queued in the timelock and executed
// through it.
type GovernorV1 struct{}

func (GovernorV1) Version() string { return "1" }

func (GovernorV1) Propose(
	ctx context.Context, h *Host, caller common.Address,
	targets []common.Address, values []*big.Int, payloads [][]byte, description string,
) (uint64, error) {
	if err := h.RequireAdmin(caller); err != nil {
		return 0, err
	}
	if len(targets) != len(values) || len(targets) != len(payloads) {
		return 0, fmt.Errorf("%w: %d targets, %d values, %d payloads",
			types.ErrArityMismatch, len(targets), len(values), len(payloads))
	}
	if len(targets) == 0 {
		return 0, types.ErrEmptyActions
	}
	if len(targets) > MaxActions {
		return 0, fmt.Errorf("%w: %d actions, at most %d", types.ErrTooManyActions, len(targets), MaxActions)
	}
	for i, v := range values {
		if err := types.CheckUint256(v); err != nil {
			return 0, fmt.Errorf("action %d: %w", i, err)
		}
	}

	id := h.Store.ProposalCount + 1
	p := &types.Proposal{
		ID:          id,
		Proposer:    caller,
		Actions:     types.ActionsFromArrays(targets, values, payloads),
		Description: description,
		Receipts:    make(map[common.Address]types.Receipt),
	}
	for i, a := range p.Actions {
		p.Actions[i] = a.Copy()
	}
	h.Store.Proposals[id] = p
	h.Store.ProposalCount = id

	h.Emit(ctx, types.EventProposalCreated, map[string]any{
		"proposalId":  id,
		"proposer":    caller,
		"actions":     len(p.Actions),
		"description": description,
	})
	h.Logger.Infow("Proposal created", "proposalId", id, "proposer", caller.Hex(), "actions", len(p.Actions))

	return id, nil
}

func (g GovernorV1) CastVote(ctx context.Context, h *Host, caller common.Address, id uint64, support uint8) error {
	if err := h.RequireAdmin(caller); err != nil {
		return err
	}
	p, err := h.Store.Proposal(id)
	if err != nil {
		return err
	}

	state, err := g.stateOf(ctx, h, p)
	if err != nil {
		return err
	}
	switch state {
	case types.ProposalStateCanceled, types.ProposalStateExecuted, types.ProposalStateExpired:
		return types.NewInvalidProposalStateError(id, state, "vote on")
	}

	if p.Receipts[caller].HasVoted {
		return types.NewDuplicateVoteError(id, caller)
	}
	p.Receipts[caller] = types.Receipt{HasVoted: true, Support: support}
	p.Approvals++

	h.Emit(ctx, types.EventVoteCast, map[string]any{
		"proposalId": id,
		"voter":      caller,
		"support":    support,
		"approvals":  p.Approvals,
	})
	h.Logger.Infow("Vote cast", "proposalId", id, "voter", caller.Hex(), "approvals", p.Approvals)

	return nil
}

func (g GovernorV1) Queue(ctx context.Context, h *Host, caller common.Address, id uint64) error {
	if err := h.RequireAdmin(caller); err != nil {
		return err
	}
	p, err := h.Store.Proposal(id)
	if err != nil {
		return err
	}
	if p.Approvals < uint64(h.Store.Config.Threshold) {
		return types.NewInsufficientApprovalsError(id, p.Approvals, h.Store.Config.Threshold)
	}

	state, err := g.stateOf(ctx, h, p)
	if err != nil {
		return err
	}
	if state != types.ProposalStateSucceeded {
		return types.NewInvalidProposalStateError(id, state, "queue")
	}

	now, err := h.Now(ctx)
	if err != nil {
		return err
	}
	eta, err := safecast.AddUint64(now, seconds(h.Timelock.Delay(ctx)))
	if err != nil {
		return err
	}

	for i, a := range p.Actions {
		txHash, err := timelock.HashTransaction(a, eta)
		if err != nil {
			return err
		}
		if h.Timelock.IsQueued(ctx, txHash) {
			return types.NewActionFailedError(i, a.Target,
				fmt.Errorf("%w: identical action already queued at eta %d", types.ErrAlreadyQueued, eta))
		}
		if _, err := h.Timelock.QueueTransaction(ctx, h.Address, a, eta); err != nil {
			return types.NewActionFailedError(i, a.Target, err)
		}
	}
	p.Eta = eta

	h.Emit(ctx, types.EventProposalQueued, map[string]any{"proposalId": id, "eta": eta})
	h.Logger.Infow("Proposal queued", "proposalId", id, "eta", eta)

	return nil
}

func (g GovernorV1) Execute(ctx context.Context, h *Host, caller common.Address, id uint64) error {
	if err := h.RequireAdmin(caller); err != nil {
		return err
	}
	p, err := h.Store.Proposal(id)
	if err != nil {
		return err
	}

	state, err := g.stateOf(ctx, h, p)
	if err != nil {
		return err
	}
	if state != types.ProposalStateQueued {
		return types.NewInvalidProposalStateError(id, state, "execute")
	}

	now, err := h.Now(ctx)
	if err != nil {
		return err
	}
	if now < p.Eta {
		return fmt.Errorf("%w: proposal %d is executable at %d, now %d", types.ErrNotYetEligible, id, p.Eta, now)
	}

	p.Executed = true
	for i, a := range p.Actions {
		if _, err := h.Timelock.ExecuteTransaction(ctx, h.Address, a, p.Eta); err != nil {
			return types.NewActionFailedError(i, a.Target, err)
		}
	}

	h.Emit(ctx, types.EventProposalExecuted, map[string]any{"proposalId": id})
	h.Logger.Infow("Proposal executed", "proposalId", id, "actions", len(p.Actions))

	return nil
}

func (g GovernorV1) Cancel(ctx context.Context, h *Host, caller common.Address, id uint64) error {
	p, err := h.Store.Proposal(id)
	if err != nil {
		return err
	}
	if caller != p.Proposer {
		return types.NewUnauthorizedError(caller, "proposer")
	}

	state, err := g.stateOf(ctx, h, p)
	if err != nil {
		return err
	}
	if state == types.ProposalStateExecuted || state == types.ProposalStateCanceled {
		return types.NewInvalidProposalStateError(id, state, "cancel")
	}

	if p.Eta != 0 {
		for i, a := range p.Actions {
			if _, err := h.Timelock.CancelTransaction(ctx, h.Address, a, p.Eta); err != nil {
				return types.NewActionFailedError(i, a.Target, err)
			}
		}
	}
	p.Canceled = true

	h.Emit(ctx, types.EventProposalCanceled, map[string]any{"proposalId": id})
	h.Logger.Infow("Proposal canceled", "proposalId", id, "proposer", caller.Hex())

	return nil
}

func (g GovernorV1) State(ctx context.Context, h *Host, id uint64) (types.ProposalState, error) {
	p, err := h.Store.Proposal(id)
	if err != nil {
		return 0, err
	}

	return g.stateOf(ctx, h, p)
}

func (GovernorV1) SetGovernanceConfig(
	ctx context.Context, h *Host, caller common.Address, cfg types.GovernanceConfig,
) error {
	if err := h.RequireTimelock(caller); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	h.Store.Config = cfg.Copy()

	h.Emit(ctx, types.EventGovernanceConfigSet, map[string]any{
		"admins":    cfg.Copy().Admins,
		"threshold": cfg.Threshold,
	})
	h.Logger.Infow("Governance config set", "admins", len(cfg.Admins), "threshold", cfg.Threshold)

	return nil
}

func (GovernorV1) stateOf(ctx context.Context, h *Host, p *types.Proposal) (types.ProposalState, error) {
	switch {
	case p.Canceled:
		return types.ProposalStateCanceled, nil
	case p.Executed:
		return types.ProposalStateExecuted, nil
	case p.Eta == 0:
		return types.ProposalStateSucceeded, nil
	}

	now, err := h.Now(ctx)
	if err != nil {
		return 0, err
	}
	staleAt, err := safecast.AddUint64(p.Eta, seconds(h.Timelock.GracePeriod(ctx)))
	if err != nil {
		return 0, err
	}
	if now >= staleAt {
		return types.ProposalStateExpired, nil
	}

	return types.ProposalStateQueued, nil
}

func seconds(d time.Duration) uint64 {
	if d < 0 {
		return 0
	}

	return uint64(d / time.Second)
}
