package keeper

import (
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/oracle-chain/oraclechain/x/oracle/types"
)

// InitGenesis initializes the oracle module state from a genesis state. State
// arrives pre-validated; reporters are written before feeds so feed creation's
// referential checks hold, and stored rounds overwrite the fresh round opened
// for each feed.
func (k Keeper) InitGenesis(ctx sdk.Context, genState types.GenesisState) error {
	if err := k.Initialize(ctx, genState.Params); err != nil {
		return err
	}

	for _, reporter := range genState.Reporters {
		if err := k.SetReporter(ctx, reporter); err != nil {
			return err
		}
	}

	for _, feed := range genState.Feeds {
		if feed.CurrentRound == 0 {
			// A fresh feed from genesis config gets its first round opened.
			if err := k.openRound(ctx, &feed); err != nil {
				return err
			}
		}
		if err := k.SetFeed(ctx, feed); err != nil {
			return err
		}
	}

	for _, round := range genState.Rounds {
		if err := k.SetRound(ctx, round); err != nil {
			return err
		}
	}

	return nil
}

// ExportGenesis returns the oracle module's exported genesis.
func (k Keeper) ExportGenesis(ctx sdk.Context) (*types.GenesisState, error) {
	reporters, err := k.GetAllReporters(ctx)
	if err != nil {
		return nil, err
	}
	feeds, err := k.GetAllFeeds(ctx)
	if err != nil {
		return nil, err
	}

	rounds := make([]types.Round, 0, len(feeds))
	for _, feed := range feeds {
		if err := k.IterateRounds(ctx, feed.Id, func(round types.Round) bool {
			rounds = append(rounds, round)
			return false
		}); err != nil {
			return nil, err
		}
	}

	return &types.GenesisState{
		Params:    k.GetParams(ctx),
		Reporters: reporters,
		Feeds:     feeds,
		Rounds:    rounds,
	}, nil
}
