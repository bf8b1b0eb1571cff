package governance

import (
	"bytes"
	"context"
	"errors"
	"math/big"
	"slices"

	"github.com/ethereum/go-ethereum/common"
)

var errFakeRevert = errors.New("fake target reverted")

// fakeCall is one call received by a fakeTarget.
type fakeCall struct {
	caller common.Address
	value  *big.Int
	data   []byte
}

// fakeTarget is a contract that records every call it receives. Calls carrying failOn revert.
type fakeTarget struct {
	address common.Address
	failOn  []byte
	calls   []fakeCall
}

func newFakeTarget(address common.Address) *fakeTarget {
	return &fakeTarget{address: address}
}

func (f *fakeTarget) Address() common.Address { return f.address }

// Call records the call and echoes data back.
func (f *fakeTarget) Call(_ context.Context, caller common.Address, value *big.Int, data []byte) ([]byte, error) {
	if f.failOn != nil && bytes.Equal(data, f.failOn) {
		return nil, errFakeRevert
	}
	f.calls = append(f.calls, fakeCall{caller: caller, value: value, data: common.CopyBytes(data)})

	return data, nil
}

func (f *fakeTarget) Snapshot() any { return slices.Clone(f.calls) }

func (f *fakeTarget) Restore(s any) { f.calls = slices.Clone(s.([]fakeCall)) }
