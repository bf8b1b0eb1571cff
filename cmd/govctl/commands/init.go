package commands

import (
	"errors"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"

	"github.com/compound-finance/comet-governance/storage"
	"github.com/compound-finance/comet-governance/types"
)

func buildInitCmd(opts *rootOptions) *cobra.Command {
	var (
		admins    []string
		threshold uint8
		token     string
		start     string
		force     bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Deploy a governor and its timelock into a new session",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			lggr, err := newLogger(cfg.LogLevel)
			if err != nil {
				return err
			}
			defer func() { _ = lggr.Sync() }()

			adminAddrs, err := parseAddresses("admin", admins)
			if err != nil {
				return err
			}
			var tokenAddr common.Address
			if token != "" {
				if tokenAddr, err = parseAddress("token", token); err != nil {
					return err
				}
			}

			startTime := time.Now().UTC().Truncate(time.Second)
			if start != "" {
				if startTime, err = time.Parse(time.RFC3339, start); err != nil {
					return fmt.Errorf("invalid start time: %w", err)
				}
			}

			db, err := storage.Open(cfg.DataDir)
			if err != nil {
				return err
			}
			defer db.Close()

			if _, err := db.LoadSession(); err == nil && !force {
				return fmt.Errorf("%w: a session already exists in %s, use --force to replace it",
					types.ErrAlreadyInitialized, cfg.DataDir)
			} else if err != nil && !errors.Is(err, storage.ErrNotFound) {
				return err
			}

			ctx := cmd.Context()
			s := newSession(db, lggr, startTime)
			if err := s.deploy(cfg); err != nil {
				return err
			}
			if err := s.governor.Initialize(ctx, s.timelock, tokenAddr, adminAddrs, threshold); err != nil {
				return err
			}
			if err := s.save(ctx); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Governor %s initialized with timelock %s at %s\n",
				s.governor.Address().Hex(), s.timelock.Address().Hex(), startTime.Format(time.RFC3339))

			return nil
		},
	}

	cmd.Flags().StringSliceVar(&admins, "admin", nil, "Admin addresses, repeat or separate with commas")
	cmd.Flags().Uint8Var(&threshold, "threshold", 1, "Number of approvals a proposal needs")
	cmd.Flags().StringVar(&token, "token", "", "Address of the governance token")
	cmd.Flags().StringVar(&start, "start", "", "Session start time in RFC3339, defaults to now")
	cmd.Flags().BoolVar(&force, "force", false, "Replace an existing session")
	_ = cmd.MarkFlagRequired("admin")

	return cmd
}
