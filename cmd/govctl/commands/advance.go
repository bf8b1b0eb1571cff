package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func buildAdvanceCmd(opts *rootOptions) *cobra.Command {
	var (
		by time.Duration
		to string
	)

	cmd := &cobra.Command{
		Use:   "advance",
		Short: "Move the session clock forward",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSession(cmd.Context(), opts, func(ctx context.Context, s *session) error {
				now := s.clock.Now()
				next := now.Add(by)
				if to != "" {
					t, err := time.Parse(time.RFC3339, to)
					if err != nil {
						return fmt.Errorf("invalid time: %w", err)
					}
					next = t
				}
				if next.Before(now) {
					return errors.New("the session clock cannot move backwards")
				}

				s.clock.Set(next)
				s.lggr.Infow("Advanced clock", "from", now, "to", next)
				fmt.Fprintf(cmd.OutOrStdout(), "Session time is %s\n", next.UTC().Format(time.RFC3339))

				return nil
			})
		},
	}

	cmd.Flags().DurationVar(&by, "by", 0, "Duration to move the clock by")
	cmd.Flags().StringVar(&to, "to", "", "Time in RFC3339 to move the clock to")
	cmd.MarkFlagsMutuallyExclusive("by", "to")
	cmd.MarkFlagsOneRequired("by", "to")

	return cmd
}
