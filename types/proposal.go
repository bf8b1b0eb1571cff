package types

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// ProposalState is the lifecycle state of a proposal. It is computed, never stored.
//
// There is no voting delay or voting period: a proposal is Succeeded from the moment it is
// created and approvals are simply counted as they arrive.
type ProposalState uint8

const (
	ProposalStateCanceled ProposalState = iota + 1
	ProposalStateSucceeded
	ProposalStateQueued
	ProposalStateExpired
	ProposalStateExecuted
)

var proposalStateNames = map[ProposalState]string{
	ProposalStateCanceled:  "canceled",
	ProposalStateSucceeded: "succeeded",
	ProposalStateQueued:    "queued",
	ProposalStateExpired:   "expired",
	ProposalStateExecuted:  "executed",
}

func (s ProposalState) String() string {
	if name, ok := proposalStateNames[s]; ok {
		return name
	}

	return fmt.Sprintf("ProposalState(%d)", uint8(s))
}

// MarshalText implements encoding.TextMarshaler.
func (s ProposalState) MarshalText() ([]byte, error) {
	if _, ok := proposalStateNames[s]; !ok {
		return nil, fmt.Errorf("invalid proposal state: %d", uint8(s))
	}

	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *ProposalState) UnmarshalText(text []byte) error {
	for state, name := range proposalStateNames {
		if strings.EqualFold(name, string(text)) {
			*s = state
			return nil
		}
	}

	return fmt.Errorf("invalid proposal state: %q", text)
}

// Receipt records the vote of one admin on one proposal.
type Receipt struct {
	HasVoted bool  `json:"hasVoted"`
	Support  uint8 `json:"support"`
}

// Proposal is the persisted record of a proposal.
type Proposal struct {
	ID          uint64                     `json:"id"`
	Proposer    common.Address             `json:"proposer"`
	Actions     []Action                   `json:"actions"`
	Description string                     `json:"description"`
	Eta         uint64                     `json:"eta"`
	Approvals   uint64                     `json:"approvals"`
	Canceled    bool                       `json:"canceled"`
	Executed    bool                       `json:"executed"`
	Receipts    map[common.Address]Receipt `json:"receipts"`
}

// Copy returns a deep copy of the proposal.
func (p Proposal) Copy() Proposal {
	cp := p
	cp.Actions = make([]Action, len(p.Actions))
	for i, a := range p.Actions {
		cp.Actions[i] = a.Copy()
	}
	cp.Receipts = maps.Clone(p.Receipts)
	if cp.Receipts == nil {
		cp.Receipts = make(map[common.Address]Receipt)
	}

	return cp
}

// Voters returns the admins that voted on the proposal, sorted by address.
func (p Proposal) Voters() []common.Address {
	voters := make([]common.Address, 0, len(p.Receipts))
	for voter, r := range p.Receipts {
		if r.HasVoted {
			voters = append(voters, voter)
		}
	}
	slices.SortFunc(voters, func(a, b common.Address) int { return a.Cmp(b) })

	return voters
}
