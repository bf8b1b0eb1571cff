package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/compound-finance/comet-governance/types"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

// Tests in this file set environment variables and cannot run in parallel.

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, DefaultDataDir, cfg.DataDir)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, common.HexToAddress(DefaultGovernor), cfg.GovernorAddress())
	assert.Equal(t, common.HexToAddress(DefaultTimelock), cfg.TimelockAddress())
	assert.Equal(t, types.DefaultTimelockConfig(), cfg.TimelockParams())
}

func TestLoad_File(t *testing.T) {
	path := writeFile(t, "govctl.yaml", `
data_dir: /var/lib/govctl
log_level: debug
governor: "0x1111111111111111111111111111111111111111"
timelock:
  address: "0x2222222222222222222222222222222222222222"
  delay: 72h
  minimum_delay: 24h
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/var/lib/govctl", cfg.DataDir)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, common.HexToAddress("0x1111111111111111111111111111111111111111"), cfg.GovernorAddress())
	assert.Equal(t, common.HexToAddress("0x2222222222222222222222222222222222222222"), cfg.TimelockAddress())
	assert.Equal(t, 72*time.Hour, cfg.Timelock.Delay)
	assert.Equal(t, 24*time.Hour, cfg.Timelock.MinimumDelay)
	assert.Equal(t, types.DefaultGracePeriod.Duration, cfg.Timelock.GracePeriod)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeFile(t, "govctl.yaml", `
data_dir: /from/file
timelock:
  delay: 72h
`)
	t.Setenv("GOVCTL_DATA_DIR", "/from/env")
	t.Setenv("GOVCTL_TIMELOCK_DELAY", "96h")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/from/env", cfg.DataDir)
	assert.Equal(t, 96*time.Hour, cfg.Timelock.Delay)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		file    string
		wantErr error
	}{
		{
			name:    "failure: governor is not an address",
			env:     map[string]string{"GOVCTL_GOVERNOR": "governor"},
			wantErr: types.ErrInvalidConfiguration,
		},
		{
			name:    "failure: unknown log level",
			env:     map[string]string{"GOVCTL_LOG_LEVEL": "loud"},
			wantErr: types.ErrInvalidConfiguration,
		},
		{
			name:    "failure: delay below minimum",
			env:     map[string]string{"GOVCTL_TIMELOCK_DELAY": "1h"},
			wantErr: types.ErrInvalidConfiguration,
		},
		{
			name:    "failure: minimum above maximum",
			env:     map[string]string{"GOVCTL_TIMELOCK_MINIMUM_DELAY": "720h", "GOVCTL_TIMELOCK_MAXIMUM_DELAY": "24h"},
			wantErr: types.ErrInvalidConfiguration,
		},
		{
			name: "failure: malformed duration",
			env:  map[string]string{"GOVCTL_TIMELOCK_DELAY": "2 days"},
		},
		{
			name: "failure: malformed file",
			file: "timelock: [",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			path := filepath.Join(t.TempDir(), "missing.yaml")
			if tt.file != "" {
				path = writeFile(t, "govctl.yaml", tt.file)
			}

			_, err := Load(path)
			require.Error(t, err)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}
