package types

import (
	"bytes"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/common/math"
)

// Action is a single privileged call carried by a proposal: invoke Target with Data, sending
// Value. The core never interprets Data.
type Action struct {
	Target common.Address `json:"target" validate:"required"`
	Value  *big.Int       `json:"value"`
	Data   hexutil.Bytes  `json:"data"`
}

// NewAction creates an action, treating a nil value as zero.
func NewAction(target common.Address, value *big.Int, data []byte) Action {
	if value == nil {
		value = new(big.Int)
	}

	return Action{Target: target, Value: value, Data: data}
}

// ValueOrZero returns the action value, never nil.
func (a Action) ValueOrZero() *big.Int {
	if a.Value == nil {
		return new(big.Int)
	}

	return a.Value
}

// CheckValue returns ErrValueOutOfRange unless the value fits a uint256. A nil value is zero.
func (a Action) CheckValue() error {
	return CheckUint256(a.Value)
}

// CheckUint256 returns ErrValueOutOfRange unless v is in [0, 2^256). A nil v is zero.
func CheckUint256(v *big.Int) error {
	if v == nil {
		return nil
	}
	if v.Sign() < 0 || v.Cmp(math.MaxBig256) > 0 {
		return fmt.Errorf("%w: %s", ErrValueOutOfRange, v)
	}

	return nil
}

// Equal reports whether two actions describe the same call.
func (a Action) Equal(other Action) bool {
	return a.Target == other.Target &&
		a.ValueOrZero().Cmp(other.ValueOrZero()) == 0 &&
		bytes.Equal(a.Data, other.Data)
}

// Copy returns a deep copy of the action.
func (a Action) Copy() Action {
	return Action{
		Target: a.Target,
		Value:  new(big.Int).Set(a.ValueOrZero()),
		Data:   common.CopyBytes(a.Data),
	}
}

// ActionsFromArrays zips the parallel arrays accepted by propose into actions. The caller is
// responsible for checking that the arrays have equal length.
func ActionsFromArrays(targets []common.Address, values []*big.Int, payloads [][]byte) []Action {
	actions := make([]Action, len(targets))
	for i := range targets {
		actions[i] = NewAction(targets[i], values[i], payloads[i])
	}

	return actions
}

// SplitActions is the inverse of ActionsFromArrays.
func SplitActions(actions []Action) ([]common.Address, []*big.Int, [][]byte) {
	targets := make([]common.Address, len(actions))
	values := make([]*big.Int, len(actions))
	payloads := make([][]byte, len(actions))
	for i, a := range actions {
		targets[i] = a.Target
		values[i] = new(big.Int).Set(a.ValueOrZero())
		payloads[i] = common.CopyBytes(a.Data)
	}

	return targets, values, payloads
}
