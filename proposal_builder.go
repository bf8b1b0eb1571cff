package governance

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/compound-finance/comet-governance/types"
)

// ProposalBuilder builds a ProposalRequest.
type ProposalBuilder struct {
	req ProposalRequest
	err error
}

// NewProposalBuilder creates a new ProposalBuilder.
func NewProposalBuilder() *ProposalBuilder {
	return &ProposalBuilder{
		req: ProposalRequest{Actions: []types.Action{}},
	}
}

// SetDescription sets the description of the proposal.
func (b *ProposalBuilder) SetDescription(description string) *ProposalBuilder {
	b.req.Description = description
	return b
}

// AddAction adds an action to the proposal.
func (b *ProposalBuilder) AddAction(action types.Action) *ProposalBuilder {
	b.req.Actions = append(b.req.Actions, action.Copy())
	return b
}

// AddCall adds a call to target with the given value and calldata.
func (b *ProposalBuilder) AddCall(target common.Address, value *big.Int, data []byte) *ProposalBuilder {
	return b.AddAction(types.NewAction(target, value, data))
}

// SetActions sets all the actions of the proposal.
func (b *ProposalBuilder) SetActions(actions []types.Action) *ProposalBuilder {
	b.req.Actions = make([]types.Action, len(actions))
	for i, a := range actions {
		b.req.Actions[i] = a.Copy()
	}

	return b
}

// AddSetGovernanceConfig adds a call replacing the admin set of the governor at governor.
func (b *ProposalBuilder) AddSetGovernanceConfig(
	governor common.Address, admins []common.Address, threshold uint8,
) *ProposalBuilder {
	data, err := EncodeSetGovernanceConfig(admins, threshold)
	if err != nil {
		b.err = err
		return b
	}

	return b.AddCall(governor, nil, data)
}

// Build validates and returns the constructed ProposalRequest.
func (b *ProposalBuilder) Build() (*ProposalRequest, error) {
	if b.err != nil {
		return nil, b.err
	}
	if err := b.req.Validate(); err != nil {
		return nil, err
	}
	req := b.req

	return &req, nil
}
