package governance

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/ethereum/go-ethereum/common"

	"github.com/compound-finance/comet-governance/types"
)

// ProposalRequest is the file form of a proposal: what an admin submits to Propose.
type ProposalRequest struct {
	Description string         `json:"description" validate:"required"`
	Actions     []types.Action `json:"actions" validate:"required,dive"`
}

// NewProposalRequest unmarshals a JSON proposal request from r and validates it.
func NewProposalRequest(r io.Reader) (*ProposalRequest, error) {
	var req ProposalRequest
	if err := json.NewDecoder(r).Decode(&req); err != nil {
		return nil, err
	}

	if err := req.Validate(); err != nil {
		return nil, err
	}

	return &req, nil
}

// LoadProposalRequest reads and validates the proposal request file at filePath.
func LoadProposalRequest(filePath string) (*ProposalRequest, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open proposal file: %w", err)
	}
	defer f.Close()

	return NewProposalRequest(f)
}

// WriteProposalRequest writes req to w as indented JSON.
func WriteProposalRequest(w io.Writer, req *ProposalRequest) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(req)
}

// Validate runs the tag based validation and the action count bounds Propose enforces.
func (r *ProposalRequest) Validate() error {
	if len(r.Actions) == 0 {
		return types.ErrEmptyActions
	}
	if len(r.Actions) > MaxActions {
		return fmt.Errorf("%w: %d actions, at most %d", types.ErrTooManyActions, len(r.Actions), MaxActions)
	}
	for i, a := range r.Actions {
		if err := a.CheckValue(); err != nil {
			return fmt.Errorf("action %d: %w", i, err)
		}
	}

	if err := types.NewValidator().Struct(r); err != nil {
		return err
	}

	return nil
}

// Submit validates the request and proposes it on g as caller.
func (r *ProposalRequest) Submit(ctx context.Context, g *Governor, caller common.Address) (uint64, error) {
	if err := r.Validate(); err != nil {
		return 0, err
	}

	return g.ProposeActions(ctx, caller, r.Actions, r.Description)
}
