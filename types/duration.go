package types

import (
	"encoding/json"
	"fmt"
	"math"
	"time"
)

// Duration wraps time.Duration with support for JSON encoding. Durations are always whole
// seconds when they reach the timelock, matching the uint256 seconds of its parameters.
type Duration struct {
	time.Duration
}

// NewDuration wraps a time.Duration with a Duration.
func NewDuration(d time.Duration) Duration {
	return Duration{Duration: d}
}

// NewDurationFromSeconds builds a Duration from a number of seconds.
func NewDurationFromSeconds(s uint64) (Duration, error) {
	if s > uint64(math.MaxInt64/int64(time.Second)) {
		return Duration{}, fmt.Errorf("duration of %d seconds overflows", s)
	}

	return NewDuration(time.Duration(s) * time.Second), nil
}

// ParseDuration parses a duration string in the time.Duration format.
func ParseDuration(s string) (Duration, error) {
	d, err := time.ParseDuration(s)
	if err != nil {
		return Duration{}, err
	}

	return NewDuration(d), nil
}

// MustParseDuration parses a duration string in the time.Duration format.
// Panics if the string is invalid.
//
// Useful for tests, but should be avoided in production code.
func MustParseDuration(s string) Duration {
	d, err := ParseDuration(s)
	if err != nil {
		panic(err)
	}

	return d
}

// Secs returns the duration truncated to whole seconds. Negative durations map to 0.
func (d Duration) Secs() uint64 {
	if d.Duration <= 0 {
		return 0
	}

	return uint64(d.Duration / time.Second)
}

// String returns a string representing the duration in the form "72h3m0.5s".
func (d Duration) String() string {
	return d.Duration.String()
}

// MarshalJSON marshals the duration into JSON bytes and implements the json.Marshaler interface.
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON accepts either a time.Duration string ("48h") or a number of seconds.
func (d *Duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case string:
		var err error
		if d.Duration, err = time.ParseDuration(value); err != nil {
			return err
		}

		return nil
	case float64:
		if value < 0 || value != math.Trunc(value) {
			return fmt.Errorf("invalid duration seconds: %v", value)
		}
		parsed, err := NewDurationFromSeconds(uint64(value))
		if err != nil {
			return err
		}
		*d = parsed

		return nil
	default:
		return fmt.Errorf("invalid duration type: %T", v)
	}
}
