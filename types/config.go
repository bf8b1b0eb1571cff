package types //nolint:revive

import (
	"fmt"
	"slices"

	"github.com/ethereum/go-ethereum/common"
)

// GovernanceConfig is the admin set of a governor and the number of distinct admin approvals
// required before a proposal can be queued.
type GovernanceConfig struct {
	// Admins is the ordered set of principals allowed to propose, vote, queue and execute.
	Admins []common.Address `json:"admins"`

	// Threshold is the minimum number of distinct admin approvals. It must be positive and must
	// not exceed the number of admins.
	Threshold uint8 `json:"threshold"`
}

// NewGovernanceConfig returns a new config with the given admins and threshold and ensures it
// is valid.
func NewGovernanceConfig(admins []common.Address, threshold uint8) (GovernanceConfig, error) {
	config := GovernanceConfig{
		Admins:    slices.Clone(admins),
		Threshold: threshold,
	}

	if err := config.Validate(); err != nil {
		return GovernanceConfig{}, err
	}

	return config, nil
}

// Validate checks the threshold bounds and that the admin set holds distinct, non-zero
// addresses.
func (c *GovernanceConfig) Validate() error {
	if c.Threshold == 0 {
		return fmt.Errorf("%w: threshold must be greater than 0", ErrInvalidConfiguration)
	}

	if len(c.Admins) == 0 {
		return fmt.Errorf("%w: config must have at least one admin", ErrInvalidConfiguration)
	}

	if int(c.Threshold) > len(c.Admins) {
		return fmt.Errorf("%w: threshold must be less than or equal to the number of admins", ErrInvalidConfiguration)
	}

	seen := make(map[common.Address]struct{}, len(c.Admins))
	for _, admin := range c.Admins {
		if admin == (common.Address{}) {
			return fmt.Errorf("%w: admin cannot be the zero address", ErrInvalidConfiguration)
		}
		if _, ok := seen[admin]; ok {
			return fmt.Errorf("%w: duplicate admin %s", ErrInvalidConfiguration, admin.Hex())
		}
		seen[admin] = struct{}{}
	}

	return nil
}

// IsAdmin reports whether addr is in the admin set.
func (c *GovernanceConfig) IsAdmin(addr common.Address) bool {
	return slices.Contains(c.Admins, addr)
}

// Equals checks if two configs are equal. Admin order does not matter.
func (c *GovernanceConfig) Equals(other *GovernanceConfig) bool {
	return c.Threshold == other.Threshold && unorderedArrayEquals(c.Admins, other.Admins)
}

// Copy returns a deep copy of the config.
func (c GovernanceConfig) Copy() GovernanceConfig {
	return GovernanceConfig{Admins: slices.Clone(c.Admins), Threshold: c.Threshold}
}

// unorderedArrayEquals checks if two arrays are equal regardless of order.
func unorderedArrayEquals[T comparable](a, b []T) bool {
	if len(a) != len(b) {
		return false
	}

	countMap := make(map[T]int)
	for _, elem := range a {
		countMap[elem]++
	}
	for _, elem := range b {
		if countMap[elem] == 0 {
			return false
		}
		countMap[elem]--
	}

	return true
}
