package safecast

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Int64ToUint64(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		give    int64
		want    uint64
		wantErr bool
	}{
		{name: "Valid int64 within range", give: 1_700_000_000, want: 1_700_000_000},
		{name: "Zero", give: 0, want: 0},
		{name: "Max int64", give: math.MaxInt64, want: math.MaxInt64},
		{name: "Negative int64", give: -1, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := Int64ToUint64(tt.give)

			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func Test_AddUint64(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		a, b    uint64
		want    uint64
		wantErr bool
	}{
		{name: "Small values", a: 1_700_000_000, b: 172_800, want: 1_700_172_800},
		{name: "Sum is max uint64", a: math.MaxUint64 - 1, b: 1, want: math.MaxUint64},
		{name: "Overflow", a: math.MaxUint64, b: 1, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := AddUint64(tt.a, tt.b)

			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}
		})
	}
}
