package keeper

import (
	"encoding/json"
	"fmt"

	"cosmossdk.io/math"
	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/oracle-chain/oraclechain/x/oracle/types"
)

// SetRound persists a round record
func (k Keeper) SetRound(ctx sdk.Context, round types.Round) error {
	bz, err := json.Marshal(round)
	if err != nil {
		return fmt.Errorf("failed to marshal round %s/%d: %w", round.FeedId, round.Number, err)
	}
	k.getStore(ctx).Set(GetRoundKey(round.FeedId, round.Number), bz)
	return nil
}

// GetRound retrieves one round of a feed by (feed, number)
func (k Keeper) GetRound(ctx sdk.Context, feedID string, number uint64) (types.Round, error) {
	bz := k.getStore(ctx).Get(GetRoundKey(feedID, number))
	if bz == nil {
		return types.Round{}, types.ErrRoundNotFound.Wrapf("%s/%d", feedID, number)
	}

	var round types.Round
	if err := json.Unmarshal(bz, &round); err != nil {
		return types.Round{}, fmt.Errorf("failed to unmarshal round %s/%d: %w", feedID, number, err)
	}
	return round, nil
}

// GetCurrentRound retrieves the feed's current round
func (k Keeper) GetCurrentRound(ctx sdk.Context, feed types.Feed) (types.Round, error) {
	return k.GetRound(ctx, feed.Id, feed.CurrentRound)
}

// IterateRounds iterates a feed's rounds in ascending round order
func (k Keeper) IterateRounds(ctx sdk.Context, feedID string, cb func(round types.Round) (stop bool)) error {
	iterator := storetypes.KVStorePrefixIterator(k.getStore(ctx), GetRoundsByFeedKey(feedID))
	defer iterator.Close()

	for ; iterator.Valid(); iterator.Next() {
		var round types.Round
		if err := json.Unmarshal(iterator.Value(), &round); err != nil {
			return err
		}
		if cb(round) {
			break
		}
	}
	return nil
}

// openRound advances the feed to its next round and creates the Open round
// record with a snapshot of the feed's authorized set. The caller persists the
// feed.
func (k Keeper) openRound(ctx sdk.Context, feed *types.Feed) error {
	feed.CurrentRound++

	authorized := make([]string, len(feed.AuthorizedReporters))
	copy(authorized, feed.AuthorizedReporters)

	round := types.Round{
		FeedId:            feed.Id,
		Number:            feed.CurrentRound,
		OpenedAt:          ctx.BlockTime().Unix(),
		State:             types.RoundStateOpen,
		Authorized:        authorized,
		AuthorizedVersion: feed.AuthorizedVersion,
		DispersionScore:   math.LegacyZeroDec(),
		ConsensusValue:    types.NewNumericValue(math.LegacyZeroDec()),
	}
	if err := k.SetRound(ctx, round); err != nil {
		return err
	}

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeRoundOpened,
			sdk.NewAttribute(types.AttributeKeyFeedId, feed.Id),
			sdk.NewAttribute(types.AttributeKeyRound, fmt.Sprintf("%d", round.Number)),
			sdk.NewAttribute(types.AttributeKeyVersion, fmt.Sprintf("%d", round.AuthorizedVersion)),
		),
	)
	return nil
}

// OpenNextRound opens a new round for a feed whose current round reached a
// terminal state. The external scheduler drives this; the engine has no
// background execution.
func (k Keeper) OpenNextRound(ctx sdk.Context, feedID string) (uint64, error) {
	if err := k.requireInitialized(ctx); err != nil {
		return 0, err
	}

	feed, err := k.GetFeed(ctx, feedID)
	if err != nil {
		return 0, err
	}
	round, err := k.GetCurrentRound(ctx, feed)
	if err != nil {
		return 0, err
	}
	if !round.State.IsTerminal() {
		return 0, types.ErrRoundInProgress.Wrapf("feed %s round %d is %s", feedID, round.Number, round.State)
	}

	if err := k.openRound(ctx, &feed); err != nil {
		return 0, err
	}
	if err := k.SetFeed(ctx, feed); err != nil {
		return 0, err
	}

	k.pruneRounds(ctx, feed)
	return feed.CurrentRound, nil
}

// pruneRounds deletes terminal rounds older than the retention window.
// Submissions of pruned rounds are history the engine no longer needs for
// audit or slashing.
func (k Keeper) pruneRounds(ctx sdk.Context, feed types.Feed) {
	retention := k.GetParams(ctx).RetentionRounds
	if feed.CurrentRound <= retention {
		return
	}
	cutoff := feed.CurrentRound - retention

	store := k.getStore(ctx)
	pruned := 0
	for n := cutoff; n > 0; n-- {
		key := GetRoundKey(feed.Id, n)
		if !store.Has(key) {
			break
		}
		store.Delete(key)
		pruned++
	}

	if pruned > 0 {
		k.Logger(ctx).Debug("pruned rounds", "feed", feed.Id, "count", pruned, "cutoff", cutoff)
	}
}
