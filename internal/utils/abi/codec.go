package abi

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"

	"github.com/compound-finance/comet-governance/types"
)

// Codec encodes and decodes calldata for a fixed set of functions: a 4 byte selector followed
// by the ABI encoded arguments.
type Codec struct {
	abi abi.ABI
}

// NewCodec parses a JSON ABI definition.
func NewCodec(def string) (*Codec, error) {
	parsed, err := abi.JSON(strings.NewReader(def))
	if err != nil {
		return nil, err
	}

	return &Codec{abi: parsed}, nil
}

// MustNewCodec is NewCodec for package level definitions. Panics on an invalid definition.
func MustNewCodec(def string) *Codec {
	c, err := NewCodec(def)
	if err != nil {
		panic(err)
	}

	return c
}

// Pack encodes a call to the named function.
func (c *Codec) Pack(name string, args ...any) ([]byte, error) {
	return c.abi.Pack(name, args...)
}

// Unpack resolves the selector of data and decodes its arguments.
func (c *Codec) Unpack(data []byte) (string, []any, error) {
	if len(data) < 4 {
		return "", nil, fmt.Errorf("%w: calldata too short (%d bytes)", types.ErrUnknownSelector, len(data))
	}

	method, err := c.abi.MethodById(data[:4])
	if err != nil {
		return "", nil, fmt.Errorf("%w: %#x", types.ErrUnknownSelector, data[:4])
	}

	args, err := method.Inputs.Unpack(data[4:])
	if err != nil {
		return "", nil, fmt.Errorf("decode %s: %w", method.Name, err)
	}

	return method.Name, args, nil
}

// Selector returns the 4 byte selector of the named function.
func (c *Codec) Selector(name string) ([]byte, bool) {
	method, ok := c.abi.Methods[name]
	if !ok {
		return nil, false
	}

	return method.ID, true
}
