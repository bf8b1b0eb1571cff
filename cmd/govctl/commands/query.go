package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/compound-finance/comet-governance/types"
)

func buildStateCmd(opts *rootOptions) *cobra.Command {
	var id uint64

	cmd := &cobra.Command{
		Use:   "state",
		Short: "Print the state of a proposal, or of every proposal when --id is omitted",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSession(cmd.Context(), opts, func(ctx context.Context, s *session) error {
				ids := []uint64{id}
				if id == 0 {
					ids = ids[:0]
					for i := uint64(1); i <= s.governor.ProposalCount(ctx); i++ {
						ids = append(ids, i)
					}
				}

				for _, pid := range ids {
					state, err := s.governor.State(ctx, pid)
					if err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\n", pid, state)
				}

				return nil
			})
		},
	}

	cmd.Flags().Uint64Var(&id, "id", 0, "Proposal id")

	return cmd
}

// proposalView is a proposal together with its computed state.
type proposalView struct {
	types.Proposal
	State types.ProposalState `json:"state"`
}

// sessionView is the full session as printed by show.
type sessionView struct {
	Time     time.Time           `json:"time"`
	Version  string              `json:"version"`
	Governor types.GovernorState `json:"governor"`
	Timelock types.TimelockState `json:"timelock"`
}

func buildShowCmd(opts *rootOptions) *cobra.Command {
	var id uint64

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print a proposal, or the whole session when --id is omitted, as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSession(cmd.Context(), opts, func(ctx context.Context, s *session) error {
				if id == 0 {
					return writeJSON(cmd.OutOrStdout(), sessionView{
						Time:     s.engine.Now(ctx).UTC(),
						Version:  s.governor.Version(ctx),
						Governor: s.governor.ExportState(ctx),
						Timelock: s.timelock.ExportState(ctx),
					})
				}

				p, err := s.governor.Proposal(ctx, id)
				if err != nil {
					return err
				}
				state, err := s.governor.State(ctx, id)
				if err != nil {
					return err
				}

				return writeJSON(cmd.OutOrStdout(), proposalView{Proposal: p, State: state})
			})
		},
	}

	cmd.Flags().Uint64Var(&id, "id", 0, "Proposal id")

	return cmd
}

func buildEventsCmd(opts *rootOptions) *cobra.Command {
	var (
		name  string
		limit int
	)

	cmd := &cobra.Command{
		Use:   "events",
		Short: "Print the event journal",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSession(cmd.Context(), opts, func(ctx context.Context, s *session) error {
				events := s.engine.Events()
				if name != "" {
					filtered := events[:0]
					for _, ev := range events {
						if ev.Name == name {
							filtered = append(filtered, ev)
						}
					}
					events = filtered
				}
				if limit > 0 && len(events) > limit {
					events = events[len(events)-limit:]
				}

				for _, ev := range events {
					fields, err := json.Marshal(ev.Fields)
					if err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\t%s\n",
						ev.Time.UTC().Format(time.RFC3339), ev.Emitter.Hex(), ev.Name, fields)
				}

				return nil
			})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Only print events with this name")
	cmd.Flags().IntVar(&limit, "limit", 0, "Only print the last n events")

	return cmd
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(v)
}
