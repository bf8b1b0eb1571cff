package types

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// Event names emitted by the governor and the timelock.
const (
	EventProposalCreated     = "ProposalCreated"
	EventVoteCast            = "VoteCast"
	EventProposalQueued      = "ProposalQueued"
	EventProposalExecuted    = "ProposalExecuted"
	EventProposalCanceled    = "ProposalCanceled"
	EventGovernanceConfigSet = "GovernanceConfigSet"
	EventUpgraded            = "Upgraded"
	EventQueueTransaction    = "QueueTransaction"
	EventCancelTransaction   = "CancelTransaction"
	EventExecuteTransaction  = "ExecuteTransaction"
	EventNewDelay            = "NewDelay"
	EventNewPendingAdmin     = "NewPendingAdmin"
	EventNewAdmin            = "NewAdmin"
)

// Event is an audit record emitted by a component during a call. Events of calls that fail are
// discarded together with the rest of the call's state changes.
type Event struct {
	CallID  string         `json:"callId"`
	Time    time.Time      `json:"time"`
	Emitter common.Address `json:"emitter"`
	Name    string         `json:"name"`
	Fields  map[string]any `json:"fields,omitempty"`
}
