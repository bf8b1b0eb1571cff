package governance

import (
	"maps"
	"slices"

	"github.com/ethereum/go-ethereum/common"

	"github.com/compound-finance/comet-governance/types"
)

// Store is the durable state of a governor: the admin set, the proposal table and the
// collaborators fixed at initialization. It belongs to the proxy and survives upgrades.
type Store struct {
	Initialized   bool
	Timelock      common.Address
	Token         common.Address
	Config        types.GovernanceConfig
	ProposalCount uint64
	Proposals     map[uint64]*types.Proposal
}

// NewStore returns an empty, uninitialized store.
func NewStore() *Store {
	return &Store{Proposals: make(map[uint64]*types.Proposal)}
}

// Proposal returns the proposal with the given id.
func (s *Store) Proposal(id uint64) (*types.Proposal, error) {
	p, ok := s.Proposals[id]
	if !ok {
		return nil, types.NewProposalNotFoundError(id)
	}

	return p, nil
}

// Copy returns a deep copy of the store.
func (s *Store) Copy() *Store {
	cp := *s
	cp.Config = s.Config.Copy()
	cp.Proposals = make(map[uint64]*types.Proposal, len(s.Proposals))
	for id, p := range s.Proposals {
		pc := p.Copy()
		cp.Proposals[id] = &pc
	}

	return &cp
}

func (s *Store) export(address, implementation common.Address) types.GovernorState {
	proposals := make([]types.Proposal, 0, len(s.Proposals))
	for _, id := range slices.Sorted(maps.Keys(s.Proposals)) {
		proposals = append(proposals, s.Proposals[id].Copy())
	}

	return types.GovernorState{
		Address:        address,
		Initialized:    s.Initialized,
		Implementation: implementation,
		Timelock:       s.Timelock,
		Token:          s.Token,
		Config:         s.Config.Copy(),
		ProposalCount:  s.ProposalCount,
		Proposals:      proposals,
	}
}

func storeFromState(st types.GovernorState) (*Store, error) {
	s := NewStore()
	s.Initialized = st.Initialized
	s.Timelock = st.Timelock
	s.Token = st.Token
	s.Config = st.Config.Copy()
	s.ProposalCount = st.ProposalCount

	if st.Initialized {
		if err := s.Config.Validate(); err != nil {
			return nil, err
		}
	}

	for _, p := range st.Proposals {
		if p.ID == 0 || p.ID > st.ProposalCount {
			return nil, types.NewProposalNotFoundError(p.ID)
		}
		pc := p.Copy()
		s.Proposals[p.ID] = &pc
	}

	return s, nil
}
