package commands

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/spf13/cobra"

	governance "github.com/compound-finance/comet-governance"
	"github.com/compound-finance/comet-governance/types"
)

func buildProposeCmd(opts *rootOptions) *cobra.Command {
	var (
		from         string
		proposalPath string
		description  string
		targets      []string
		values       []string
		payloads     []string
	)

	cmd := &cobra.Command{
		Use:   "propose",
		Short: "Create a proposal from a proposal file or from parallel --target, --value and --data lists",
		RunE: func(cmd *cobra.Command, args []string) error {
			caller, err := parseAddress("from", from)
			if err != nil {
				return err
			}

			return runSession(cmd.Context(), opts, func(ctx context.Context, s *session) error {
				var id uint64
				if proposalPath != "" {
					id, err = proposeFromFile(ctx, s.governor, caller, proposalPath)
				} else {
					id, err = proposeFromFlags(ctx, s.governor, caller, targets, values, payloads, description)
				}
				if err != nil {
					return err
				}

				fmt.Fprintf(cmd.OutOrStdout(), "Created proposal %d\n", id)

				return nil
			})
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "Address of the proposer")
	cmd.Flags().StringVar(&proposalPath, "proposal", "", "Path of a proposal file")
	cmd.Flags().StringVar(&description, "description", "", "Proposal description")
	cmd.Flags().StringArrayVar(&targets, "target", nil, "Target address of an action")
	cmd.Flags().StringArrayVar(&values, "value", nil, "Value of an action")
	cmd.Flags().StringArrayVar(&payloads, "data", nil, "Hex encoded calldata of an action")
	cmd.MarkFlagsMutuallyExclusive("proposal", "target")
	_ = cmd.MarkFlagRequired("from")

	return cmd
}

func proposeFromFile(ctx context.Context, g *governance.Governor, caller common.Address, path string) (uint64, error) {
	req, err := governance.LoadProposalRequest(path)
	if err != nil {
		return 0, err
	}

	return req.Submit(ctx, g, caller)
}

// proposeFromFlags passes the lists through unchanged, so lists of different lengths are
// rejected by the governor.
func proposeFromFlags(
	ctx context.Context, g *governance.Governor, caller common.Address,
	rawTargets, rawValues, rawPayloads []string, description string,
) (uint64, error) {
	targets, err := parseAddresses("target", rawTargets)
	if err != nil {
		return 0, err
	}

	values := make([]*big.Int, len(rawValues))
	for i, v := range rawValues {
		n, ok := math.ParseBig256(v)
		if !ok {
			return 0, fmt.Errorf("invalid value %q: not a decimal or hex uint256", v)
		}
		if err := types.CheckUint256(n); err != nil {
			return 0, fmt.Errorf("invalid value %q: %w", v, err)
		}
		values[i] = n
	}

	payloads := make([][]byte, len(rawPayloads))
	for i, d := range rawPayloads {
		b, err := hexutil.Decode(d)
		if err != nil {
			return 0, fmt.Errorf("invalid data %q: %w", d, err)
		}
		payloads[i] = b
	}

	return g.Propose(ctx, caller, targets, values, payloads, description)
}
