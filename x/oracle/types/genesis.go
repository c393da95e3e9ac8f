package types

import (
	"fmt"
)

// GenesisState defines the oracle module's genesis state.
type GenesisState struct {
	Params    Params     `json:"params"`
	Reporters []Reporter `json:"reporters,omitempty"`
	Feeds     []Feed     `json:"feeds,omitempty"`
	Rounds    []Round    `json:"rounds,omitempty"`
}

// DefaultGenesis returns the default genesis state.
func DefaultGenesis() *GenesisState {
	return &GenesisState{
		Params: DefaultParams(),
	}
}

// Validate performs basic genesis state validation.
func (gs GenesisState) Validate() error {
	if err := gs.Params.Validate(); err != nil {
		return fmt.Errorf("invalid params: %w", err)
	}

	reporters := make(map[string]struct{}, len(gs.Reporters))
	for _, r := range gs.Reporters {
		if err := r.Validate(); err != nil {
			return fmt.Errorf("invalid reporter %s: %w", r.Address, err)
		}
		if _, ok := reporters[r.Address]; ok {
			return fmt.Errorf("duplicate reporter: %s", r.Address)
		}
		if r.Reputation > gs.Params.MaxReputation {
			return fmt.Errorf("reporter %s reputation %d exceeds bound %d", r.Address, r.Reputation, gs.Params.MaxReputation)
		}
		reporters[r.Address] = struct{}{}
	}

	feeds := make(map[string]struct{}, len(gs.Feeds))
	for _, f := range gs.Feeds {
		if err := f.Validate(); err != nil {
			return fmt.Errorf("invalid feed %s: %w", f.Id, err)
		}
		if _, ok := feeds[f.Id]; ok {
			return fmt.Errorf("duplicate feed: %s", f.Id)
		}
		for _, addr := range f.AuthorizedReporters {
			if _, ok := reporters[addr]; !ok {
				return fmt.Errorf("feed %s references unknown reporter %s", f.Id, addr)
			}
		}
		feeds[f.Id] = struct{}{}
	}

	for _, r := range gs.Rounds {
		if _, ok := feeds[r.FeedId]; !ok {
			return fmt.Errorf("round %d references unknown feed %s", r.Number, r.FeedId)
		}
		if r.Number == 0 {
			return fmt.Errorf("feed %s has a zero-numbered round", r.FeedId)
		}
	}

	return nil
}
