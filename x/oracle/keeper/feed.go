package keeper

import (
	"encoding/json"
	"fmt"
	"strings"

	"cosmossdk.io/math"
	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/oracle-chain/oraclechain/x/oracle/types"
)

// SetFeed persists a feed record
func (k Keeper) SetFeed(ctx sdk.Context, feed types.Feed) error {
	bz, err := json.Marshal(feed)
	if err != nil {
		return fmt.Errorf("failed to marshal feed %s: %w", feed.Id, err)
	}
	k.getStore(ctx).Set(GetFeedKey(feed.Id), bz)
	return nil
}

// GetFeed retrieves a feed by identifier
func (k Keeper) GetFeed(ctx sdk.Context, feedID string) (types.Feed, error) {
	bz := k.getStore(ctx).Get(GetFeedKey(feedID))
	if bz == nil {
		return types.Feed{}, types.ErrFeedNotFound.Wrap(feedID)
	}

	var feed types.Feed
	if err := json.Unmarshal(bz, &feed); err != nil {
		return types.Feed{}, fmt.Errorf("failed to unmarshal feed %s: %w", feedID, err)
	}
	return feed, nil
}

// HasFeed reports whether a feed exists
func (k Keeper) HasFeed(ctx sdk.Context, feedID string) bool {
	return k.getStore(ctx).Has(GetFeedKey(feedID))
}

// IterateFeeds iterates over all feeds in the store
func (k Keeper) IterateFeeds(ctx sdk.Context, cb func(feed types.Feed) (stop bool)) error {
	iterator := storetypes.KVStorePrefixIterator(k.getStore(ctx), FeedKeyPrefix)
	defer iterator.Close()

	for ; iterator.Valid(); iterator.Next() {
		var feed types.Feed
		if err := json.Unmarshal(iterator.Value(), &feed); err != nil {
			return err
		}
		if cb(feed) {
			break
		}
	}
	return nil
}

// GetAllFeeds returns all registered feeds
func (k Keeper) GetAllFeeds(ctx sdk.Context) ([]types.Feed, error) {
	feeds := make([]types.Feed, 0, 16)
	err := k.IterateFeeds(ctx, func(feed types.Feed) bool {
		feeds = append(feeds, feed)
		return false
	})
	return feeds, err
}

// CreateFeed registers a new feed and opens its first round. Every authorized
// reporter must already exist in the Reporter Registry; the feed holds their
// addresses only, never the records.
func (k Keeper) CreateFeed(ctx sdk.Context, feed types.Feed) error {
	if err := k.requireInitialized(ctx); err != nil {
		return err
	}
	if k.HasFeed(ctx, feed.Id) {
		return types.ErrDuplicateFeed.Wrap(feed.Id)
	}
	if err := feed.Validate(); err != nil {
		return types.ErrInvalidConfig.Wrap(err.Error())
	}

	params := k.GetParams(ctx)
	if feed.MinQuorum < params.MinSources {
		return types.ErrInvalidConfig.Wrapf("quorum %d below minimum source count %d", feed.MinQuorum, params.MinSources)
	}

	for _, addr := range feed.AuthorizedReporters {
		if !k.HasReporter(ctx, addr) {
			return types.ErrReporterNotFound.Wrap(addr)
		}
	}

	feed.CurrentRound = 0
	feed.AuthorizedVersion = 1
	feed.LastCommitTime = 0
	if feed.CurrentValue.Numeric.IsNil() {
		feed.CurrentValue = types.NewNumericValue(math.LegacyZeroDec())
	}

	if err := k.openRound(ctx, &feed); err != nil {
		return err
	}
	if err := k.SetFeed(ctx, feed); err != nil {
		return err
	}

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeFeedCreated,
			sdk.NewAttribute(types.AttributeKeyFeedId, feed.Id),
			sdk.NewAttribute(types.AttributeKeyKind, string(feed.Kind)),
			sdk.NewAttribute(types.AttributeKeyQuorum, fmt.Sprintf("%d", feed.MinQuorum)),
			sdk.NewAttribute(types.AttributeKeyReporters, fmt.Sprintf("%d", len(feed.AuthorizedReporters))),
		),
	)

	k.Logger(ctx).Info("feed created",
		"feed", feed.Id,
		"kind", feed.Kind,
		"quorum", feed.MinQuorum,
		"reporters", len(feed.AuthorizedReporters),
	)
	return nil
}

// UpdateAuthorizedReporters mutates a feed's authorized set. Allowed only
// between rounds; the version bump keeps in-flight history attributable to the
// snapshot it was accepted under.
func (k Keeper) UpdateAuthorizedReporters(ctx sdk.Context, feedID string, add, remove []string) (uint64, error) {
	if err := k.requireInitialized(ctx); err != nil {
		return 0, err
	}

	feed, err := k.GetFeed(ctx, feedID)
	if err != nil {
		return 0, err
	}

	round, err := k.GetRound(ctx, feedID, feed.CurrentRound)
	if err != nil {
		return 0, err
	}
	if !round.State.IsTerminal() {
		return 0, types.ErrRoundInProgress.Wrapf("feed %s round %d is %s", feedID, round.Number, round.State)
	}

	authorized := make([]string, 0, len(feed.AuthorizedReporters)+len(add))
	removing := make(map[string]struct{}, len(remove))
	for _, addr := range remove {
		removing[addr] = struct{}{}
	}
	for _, addr := range feed.AuthorizedReporters {
		if _, ok := removing[addr]; !ok {
			authorized = append(authorized, addr)
		}
	}

	for _, addr := range add {
		if !k.HasReporter(ctx, addr) {
			return 0, types.ErrReporterNotFound.Wrap(addr)
		}
		if feed.IsAuthorized(addr) {
			return 0, types.ErrInvalidConfig.Wrapf("reporter %s already authorized", addr)
		}
		authorized = append(authorized, addr)
	}

	if int(feed.MinQuorum) > len(authorized) {
		return 0, types.ErrInvalidConfig.Wrapf("quorum %d exceeds resulting reporter count %d", feed.MinQuorum, len(authorized))
	}

	feed.AuthorizedReporters = authorized
	feed.AuthorizedVersion++
	if err := k.SetFeed(ctx, feed); err != nil {
		return 0, err
	}

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeReportersUpdated,
			sdk.NewAttribute(types.AttributeKeyFeedId, feedID),
			sdk.NewAttribute(types.AttributeKeyAdded, strings.Join(add, ",")),
			sdk.NewAttribute(types.AttributeKeyRemoved, strings.Join(remove, ",")),
			sdk.NewAttribute(types.AttributeKeyVersion, fmt.Sprintf("%d", feed.AuthorizedVersion)),
		),
	)

	return feed.AuthorizedVersion, nil
}

// removeFromAuthorizedSet drops a reporter from a feed's authorized set,
// failing closed: the removal takes effect starting with the next round's
// snapshot. Used by the reputation module when a reporter falls below the
// floor.
func (k Keeper) removeFromAuthorizedSet(ctx sdk.Context, feed *types.Feed, addr string) {
	kept := make([]string, 0, len(feed.AuthorizedReporters))
	for _, a := range feed.AuthorizedReporters {
		if a != addr {
			kept = append(kept, a)
		}
	}
	if len(kept) == len(feed.AuthorizedReporters) {
		return
	}

	feed.AuthorizedReporters = kept
	feed.AuthorizedVersion++

	if int(feed.MinQuorum) > len(kept) {
		k.Logger(ctx).Warn("feed authorized set fell below quorum",
			"feed", feed.Id,
			"quorum", feed.MinQuorum,
			"reporters", len(kept),
		)
	}

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeReporterRemoved,
			sdk.NewAttribute(types.AttributeKeyFeedId, feed.Id),
			sdk.NewAttribute(types.AttributeKeyReporter, addr),
			sdk.NewAttribute(types.AttributeKeyReason, "reputation below floor"),
			sdk.NewAttribute(types.AttributeKeyVersion, fmt.Sprintf("%d", feed.AuthorizedVersion)),
		),
	)
}
