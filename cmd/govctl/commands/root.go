// Package commands implements the govctl command line. Every command loads the session from
// the data directory, runs one governance call and saves the session back.
package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/compound-finance/comet-governance/cmd/govctl/config"
)

type rootOptions struct {
	configPath string
	dataDir    string
}

func (o *rootOptions) load() (*config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, err
	}
	if o.dataDir != "" {
		cfg.DataDir = o.dataDir
	}

	return cfg, nil
}

// BuildGovctlCmd returns the govctl root command.
func BuildGovctlCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := cobra.Command{
		Use:   "govctl",
		Short: "Drive a multisig governance session",
		Long: `govctl runs a governor and its timelock against a session stored in a data directory.
Calls to targets other than the governor and the timelock are recorded, not performed.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "govctl.yaml", "Path of the config file")
	cmd.PersistentFlags().StringVar(&opts.dataDir, "data-dir", "", "Directory of the session database (overrides GOVCTL_DATA_DIR)")

	cmd.AddCommand(buildInitCmd(opts))
	cmd.AddCommand(buildProposeCmd(opts))
	cmd.AddCommand(buildVoteCmd(opts))
	cmd.AddCommand(buildQueueCmd(opts))
	cmd.AddCommand(buildExecuteCmd(opts))
	cmd.AddCommand(buildCancelCmd(opts))
	cmd.AddCommand(buildStateCmd(opts))
	cmd.AddCommand(buildShowCmd(opts))
	cmd.AddCommand(buildEventsCmd(opts))
	cmd.AddCommand(buildAdvanceCmd(opts))

	return &cmd
}

func newLogger(level string) (*zap.SugaredLogger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	zcfg := zap.NewDevelopmentConfig()
	zcfg.Level = zap.NewAtomicLevelAt(lvl)
	zcfg.DisableStacktrace = true

	lggr, err := zcfg.Build()
	if err != nil {
		return nil, err
	}

	return lggr.Sugar(), nil
}
