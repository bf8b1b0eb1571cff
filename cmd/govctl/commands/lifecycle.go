package commands

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
)

// proposalCall is a governor call made by --from on proposal --id.
type proposalCall func(ctx context.Context, s *session, caller common.Address, id uint64) error

func buildProposalCallCmd(opts *rootOptions, use, short, done string, call proposalCall) *cobra.Command {
	var (
		from string
		id   uint64
	)

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			caller, err := parseAddress("from", from)
			if err != nil {
				return err
			}

			return runSession(cmd.Context(), opts, func(ctx context.Context, s *session) error {
				if err := call(ctx, s, caller, id); err != nil {
					return err
				}

				fmt.Fprintf(cmd.OutOrStdout(), "%s proposal %d\n", done, id)

				return nil
			})
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "Address of the caller")
	cmd.Flags().Uint64Var(&id, "id", 0, "Proposal id")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("id")

	return cmd
}

func buildVoteCmd(opts *rootOptions) *cobra.Command {
	var support uint8

	cmd := buildProposalCallCmd(opts, "vote", "Vote on a proposal", "Voted on",
		func(ctx context.Context, s *session, caller common.Address, id uint64) error {
			return s.governor.CastVote(ctx, caller, id, support)
		})
	cmd.Flags().Uint8Var(&support, "support", 1, "Vote value, every vote counts as an approval")

	return cmd
}

func buildQueueCmd(opts *rootOptions) *cobra.Command {
	return buildProposalCallCmd(opts, "queue", "Queue an approved proposal in the timelock", "Queued",
		func(ctx context.Context, s *session, caller common.Address, id uint64) error {
			return s.governor.Queue(ctx, caller, id)
		})
}

func buildExecuteCmd(opts *rootOptions) *cobra.Command {
	return buildProposalCallCmd(opts, "execute", "Execute a queued proposal once its eta is reached", "Executed",
		func(ctx context.Context, s *session, caller common.Address, id uint64) error {
			return s.governor.Execute(ctx, caller, id)
		})
}

func buildCancelCmd(opts *rootOptions) *cobra.Command {
	return buildProposalCallCmd(opts, "cancel", "Cancel a proposal, only its proposer may", "Canceled",
		func(ctx context.Context, s *session, caller common.Address, id uint64) error {
			return s.governor.Cancel(ctx, caller, id)
		})
}
