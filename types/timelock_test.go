package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimelockConfig_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		give    func(c *TimelockConfig)
		wantErr string
	}{
		{
			name: "success: defaults",
			give: func(*TimelockConfig) {},
		},
		{
			name: "success: zero minimum delay",
			give: func(c *TimelockConfig) {
				c.MinimumDelay = Duration{}
				c.Delay = Duration{}
			},
		},
		{
			name:    "failure: zero grace period",
			give:    func(c *TimelockConfig) { c.GracePeriod = Duration{} },
			wantErr: "GracePeriod",
		},
		{
			name: "failure: minimum above maximum",
			give: func(c *TimelockConfig) {
				c.MinimumDelay = NewDuration(40 * 24 * time.Hour)
			},
			wantErr: "exceeds maximum delay",
		},
		{
			name:    "failure: delay below minimum",
			give:    func(c *TimelockConfig) { c.Delay = NewDuration(time.Hour) },
			wantErr: "must exceed minimum delay",
		},
		{
			name:    "failure: delay above maximum",
			give:    func(c *TimelockConfig) { c.Delay = NewDuration(31 * 24 * time.Hour) },
			wantErr: "must not exceed maximum delay",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := DefaultTimelockConfig()
			tt.give(&c)
			err := c.Validate()

			if tt.wantErr != "" {
				require.ErrorIs(t, err, ErrInvalidConfiguration)
				assert.ErrorContains(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestTransactionStatus_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "unqueued", TransactionUnqueued.String())
	assert.Equal(t, "pending", TransactionPending.String())
	assert.Equal(t, "ready", TransactionReady.String())
	assert.Equal(t, "expired", TransactionExpired.String())
	assert.Equal(t, "TransactionStatus(9)", TransactionStatus(9).String())
}
