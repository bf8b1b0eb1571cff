package types

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// Sentinel errors. Every error returned by the governor and the timelock wraps exactly one of
// them, so callers can branch with errors.Is.
var (
	ErrUnauthorized             = errors.New("unauthorized")
	ErrInvalidConfiguration     = errors.New("invalid configuration")
	ErrArityMismatch            = errors.New("proposal function information arity mismatch")
	ErrEmptyActions             = errors.New("must provide actions")
	ErrTooManyActions           = errors.New("too many actions")
	ErrUnknownProposal          = errors.New("unknown proposal")
	ErrUnknownQueuedTransaction = errors.New("transaction hasn't been queued")
	ErrDuplicateVote            = errors.New("voter already voted")
	ErrInsufficientApprovals    = errors.New("insufficient approvals")
	ErrNotYetEligible           = errors.New("not yet eligible")
	ErrExpired                  = errors.New("expired")
	ErrAlreadyFinalized         = errors.New("already finalized")
	ErrAlreadyQueued            = errors.New("already queued")
	ErrAlreadyInitialized       = errors.New("already initialized")
	ErrNotInitialized           = errors.New("not initialized")
	ErrUnknownImplementation    = errors.New("unknown implementation")
	ErrUnknownTarget            = errors.New("unknown call target")
	ErrUnknownSelector          = errors.New("unknown function selector")
	ErrValueOutOfRange          = errors.New("value out of uint256 range")
)

// IsRetryable reports whether err is a timing failure that may succeed later, either by
// waiting or by queueing again. Authorization and caller errors are never retryable.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrNotYetEligible) || errors.Is(err, ErrExpired)
}

// UnauthorizedError is returned when the caller does not hold the role an operation requires.
type UnauthorizedError struct {
	Caller common.Address
	Role   string
}

// NewUnauthorizedError creates a new UnauthorizedError.
func NewUnauthorizedError(caller common.Address, role string) *UnauthorizedError {
	return &UnauthorizedError{Caller: caller, Role: role}
}

func (e *UnauthorizedError) Error() string {
	return fmt.Sprintf("unauthorized: %s is not the %s", e.Caller.Hex(), e.Role)
}

func (e *UnauthorizedError) Unwrap() error { return ErrUnauthorized }

// ProposalNotFoundError is returned when a proposal id has never been assigned.
type ProposalNotFoundError struct {
	ProposalID uint64
}

// NewProposalNotFoundError creates a new ProposalNotFoundError.
func NewProposalNotFoundError(id uint64) *ProposalNotFoundError {
	return &ProposalNotFoundError{ProposalID: id}
}

func (e *ProposalNotFoundError) Error() string {
	return fmt.Sprintf("unknown proposal: %d", e.ProposalID)
}

func (e *ProposalNotFoundError) Unwrap() error { return ErrUnknownProposal }

// DuplicateVoteError is returned when an admin votes twice on the same proposal.
type DuplicateVoteError struct {
	ProposalID uint64
	Voter      common.Address
}

// NewDuplicateVoteError creates a new DuplicateVoteError.
func NewDuplicateVoteError(id uint64, voter common.Address) *DuplicateVoteError {
	return &DuplicateVoteError{ProposalID: id, Voter: voter}
}

func (e *DuplicateVoteError) Error() string {
	return fmt.Sprintf("voter %s already voted on proposal %d", e.Voter.Hex(), e.ProposalID)
}

func (e *DuplicateVoteError) Unwrap() error { return ErrDuplicateVote }

// InsufficientApprovalsError is returned when a proposal is queued before reaching the threshold.
type InsufficientApprovalsError struct {
	ProposalID uint64
	Approvals  uint64
	Threshold  uint8
}

// NewInsufficientApprovalsError creates a new InsufficientApprovalsError.
func NewInsufficientApprovalsError(id uint64, approvals uint64, threshold uint8) *InsufficientApprovalsError {
	return &InsufficientApprovalsError{ProposalID: id, Approvals: approvals, Threshold: threshold}
}

func (e *InsufficientApprovalsError) Error() string {
	return fmt.Sprintf("proposal %d has %d of %d required approvals", e.ProposalID, e.Approvals, e.Threshold)
}

func (e *InsufficientApprovalsError) Unwrap() error { return ErrInsufficientApprovals }

// InvalidProposalStateError is returned when an operation is not allowed in the proposal's
// current state. It unwraps to the sentinel matching that state.
type InvalidProposalStateError struct {
	ProposalID uint64
	State      ProposalState
	Operation  string
}

// NewInvalidProposalStateError creates a new InvalidProposalStateError.
func NewInvalidProposalStateError(id uint64, state ProposalState, op string) *InvalidProposalStateError {
	return &InvalidProposalStateError{ProposalID: id, State: state, Operation: op}
}

func (e *InvalidProposalStateError) Error() string {
	return fmt.Sprintf("cannot %s proposal %d in state %s", e.Operation, e.ProposalID, e.State)
}

func (e *InvalidProposalStateError) Unwrap() error {
	switch e.State {
	case ProposalStateCanceled, ProposalStateExecuted:
		return ErrAlreadyFinalized
	case ProposalStateExpired:
		return ErrExpired
	case ProposalStateQueued:
		return ErrAlreadyQueued
	default:
		return ErrNotYetEligible
	}
}

// TransactionNotQueuedError is returned when executing a transaction hash absent from the queue.
type TransactionNotQueuedError struct {
	Hash common.Hash
}

// NewTransactionNotQueuedError creates a new TransactionNotQueuedError.
func NewTransactionNotQueuedError(hash common.Hash) *TransactionNotQueuedError {
	return &TransactionNotQueuedError{Hash: hash}
}

func (e *TransactionNotQueuedError) Error() string {
	return fmt.Sprintf("transaction %s hasn't been queued", e.Hash.Hex())
}

func (e *TransactionNotQueuedError) Unwrap() error { return ErrUnknownQueuedTransaction }

// TransactionNotReadyError is returned when a queued transaction is executed before its eta.
type TransactionNotReadyError struct {
	Hash common.Hash
	Eta  uint64
	Now  uint64
}

func (e *TransactionNotReadyError) Error() string {
	return fmt.Sprintf("transaction %s hasn't surpassed time lock: eta %d, now %d", e.Hash.Hex(), e.Eta, e.Now)
}

func (e *TransactionNotReadyError) Unwrap() error { return ErrNotYetEligible }

// InvalidEtaError is returned when a transaction is queued with an eta that does not satisfy
// the timelock delay.
type InvalidEtaError struct {
	Eta      uint64
	Earliest uint64
}

func (e *InvalidEtaError) Error() string {
	return fmt.Sprintf("estimated execution time must satisfy delay: eta %d is before %d", e.Eta, e.Earliest)
}

func (e *InvalidEtaError) Unwrap() error { return ErrNotYetEligible }

// TransactionExpiredError is returned when a queued transaction is executed after its grace period.
type TransactionExpiredError struct {
	Hash        common.Hash
	Eta         uint64
	GracePeriod Duration
	Now         uint64
}

func (e *TransactionExpiredError) Error() string {
	return fmt.Sprintf("transaction %s is stale: eta %d, grace period %s, now %d",
		e.Hash.Hex(), e.Eta, e.GracePeriod, e.Now)
}

func (e *TransactionExpiredError) Unwrap() error { return ErrExpired }

// ActionFailedError is returned when dispatching one action of a proposal or a queued
// transaction fails. The whole call is reverted.
type ActionFailedError struct {
	Index  int
	Target common.Address
	Err    error
}

// NewActionFailedError creates a new ActionFailedError.
func NewActionFailedError(index int, target common.Address, err error) *ActionFailedError {
	return &ActionFailedError{Index: index, Target: target, Err: err}
}

func (e *ActionFailedError) Error() string {
	return fmt.Sprintf("action %d to %s failed: %v", e.Index, e.Target.Hex(), e.Err)
}

func (e *ActionFailedError) Unwrap() error { return e.Err }

// UnknownTargetError is returned when a call is dispatched to an address with no contract.
type UnknownTargetError struct {
	Target common.Address
}

func (e *UnknownTargetError) Error() string {
	return "no contract registered at " + e.Target.Hex()
}

func (e *UnknownTargetError) Unwrap() error { return ErrUnknownTarget }
