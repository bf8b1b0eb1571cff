package types

import (
	"fmt"
	"reflect"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/go-playground/validator/v10"
)

// Default timelock parameters.
var (
	DefaultGracePeriod  = NewDuration(14 * 24 * time.Hour)
	DefaultMinimumDelay = NewDuration(2 * 24 * time.Hour)
	DefaultMaximumDelay = NewDuration(30 * 24 * time.Hour)
)

// TimelockConfig holds the delay parameters of a timelock.
type TimelockConfig struct {
	Delay        Duration `json:"delay" validate:"gte=0"`
	GracePeriod  Duration `json:"gracePeriod" validate:"gt=0"`
	MinimumDelay Duration `json:"minimumDelay" validate:"gte=0"`
	MaximumDelay Duration `json:"maximumDelay" validate:"gt=0"`
}

// DefaultTimelockConfig returns a config with a 2 day delay, a 14 day grace period and delay
// bounds of 2 to 30 days.
func DefaultTimelockConfig() TimelockConfig {
	return TimelockConfig{
		Delay:        DefaultMinimumDelay,
		GracePeriod:  DefaultGracePeriod,
		MinimumDelay: DefaultMinimumDelay,
		MaximumDelay: DefaultMaximumDelay,
	}
}

// NewValidator returns a validator that understands Duration fields.
func NewValidator() *validator.Validate {
	validate := validator.New()
	validate.RegisterCustomTypeFunc(func(v reflect.Value) any {
		if d, ok := v.Interface().(Duration); ok {
			return int64(d.Duration)
		}

		return nil
	}, Duration{})

	return validate
}

// Validate runs the tag based validation and checks the delay is within its bounds.
func (c TimelockConfig) Validate() error {
	if err := NewValidator().Struct(c); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfiguration, err)
	}

	if c.MinimumDelay.Duration > c.MaximumDelay.Duration {
		return fmt.Errorf("%w: minimum delay %s exceeds maximum delay %s",
			ErrInvalidConfiguration, c.MinimumDelay, c.MaximumDelay)
	}

	return c.CheckDelay(c.Delay)
}

// CheckDelay returns an error if d is outside [MinimumDelay, MaximumDelay].
func (c TimelockConfig) CheckDelay(d Duration) error {
	if d.Duration < c.MinimumDelay.Duration {
		return fmt.Errorf("%w: delay %s must exceed minimum delay %s", ErrInvalidConfiguration, d, c.MinimumDelay)
	}
	if d.Duration > c.MaximumDelay.Duration {
		return fmt.Errorf("%w: delay %s must not exceed maximum delay %s", ErrInvalidConfiguration, d, c.MaximumDelay)
	}

	return nil
}

// TransactionStatus is the query-time status of a timelock transaction hash.
type TransactionStatus uint8

const (
	// TransactionUnqueued means the hash is not in the queue: never queued, executed or canceled.
	TransactionUnqueued TransactionStatus = iota
	// TransactionPending means the hash is queued and its eta has not been reached.
	TransactionPending
	// TransactionReady means the hash is queued and executable now.
	TransactionReady
	// TransactionExpired means the hash is still queued but its grace period has elapsed.
	TransactionExpired
)

func (s TransactionStatus) String() string {
	switch s {
	case TransactionUnqueued:
		return "unqueued"
	case TransactionPending:
		return "pending"
	case TransactionReady:
		return "ready"
	case TransactionExpired:
		return "expired"
	default:
		return fmt.Sprintf("TransactionStatus(%d)", uint8(s))
	}
}

// QueuedTransaction is an entry of the timelock queue.
type QueuedTransaction struct {
	Hash   common.Hash `json:"hash"`
	Action Action      `json:"action"`
	Eta    uint64      `json:"eta"`
}

// TimelockState is the exported state of a timelock, used for snapshots and persistence.
type TimelockState struct {
	Address      common.Address      `json:"address"`
	Admin        common.Address      `json:"admin"`
	PendingAdmin common.Address      `json:"pendingAdmin"`
	Config       TimelockConfig      `json:"config"`
	Queued       []QueuedTransaction `json:"queued"`
}

// GovernorState is the exported state of a governor, used for snapshots and persistence.
type GovernorState struct {
	Address        common.Address   `json:"address"`
	Initialized    bool             `json:"initialized"`
	Implementation common.Address   `json:"implementation"`
	Timelock       common.Address   `json:"timelock"`
	Token          common.Address   `json:"token"`
	Config         GovernanceConfig `json:"config"`
	ProposalCount  uint64           `json:"proposalCount"`
	Proposals      []Proposal       `json:"proposals"`
}
