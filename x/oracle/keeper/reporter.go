package keeper

import (
	"encoding/binary"
	"encoding/json"
	"fmt"

	"cosmossdk.io/math"
	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/oracle-chain/oraclechain/x/oracle/types"
)

// SetReporter persists a reporter record
func (k Keeper) SetReporter(ctx sdk.Context, reporter types.Reporter) error {
	bz, err := json.Marshal(reporter)
	if err != nil {
		return fmt.Errorf("failed to marshal reporter %s: %w", reporter.Address, err)
	}
	k.getStore(ctx).Set(GetReporterKey(reporter.Address), bz)

	if k.metrics != nil {
		k.metrics.ReporterReputation.WithLabelValues(reporter.Address).Set(float64(reporter.Reputation))
	}
	return nil
}

// GetReporter retrieves a reporter by address
func (k Keeper) GetReporter(ctx sdk.Context, addr string) (types.Reporter, error) {
	bz := k.getStore(ctx).Get(GetReporterKey(addr))
	if bz == nil {
		return types.Reporter{}, types.ErrReporterNotFound.Wrap(addr)
	}

	var reporter types.Reporter
	if err := json.Unmarshal(bz, &reporter); err != nil {
		return types.Reporter{}, fmt.Errorf("failed to unmarshal reporter %s: %w", addr, err)
	}
	return reporter, nil
}

// HasReporter reports whether a reporter is registered
func (k Keeper) HasReporter(ctx sdk.Context, addr string) bool {
	return k.getStore(ctx).Has(GetReporterKey(addr))
}

// IterateReporters iterates over all reporters in the registry
func (k Keeper) IterateReporters(ctx sdk.Context, cb func(reporter types.Reporter) (stop bool)) error {
	iterator := storetypes.KVStorePrefixIterator(k.getStore(ctx), ReporterKeyPrefix)
	defer iterator.Close()

	for ; iterator.Valid(); iterator.Next() {
		var reporter types.Reporter
		if err := json.Unmarshal(iterator.Value(), &reporter); err != nil {
			return err
		}
		if cb(reporter) {
			break
		}
	}
	return nil
}

// GetAllReporters returns all registered reporters
func (k Keeper) GetAllReporters(ctx sdk.Context) ([]types.Reporter, error) {
	reporters := make([]types.Reporter, 0, 32)
	err := k.IterateReporters(ctx, func(r types.Reporter) bool {
		reporters = append(reporters, r)
		return false
	})
	return reporters, err
}

// RegisterReporter adds a reporter to the registry, escrowing its stake into
// the module account. Stake below the registry minimum is rejected before any
// transfer.
func (k Keeper) RegisterReporter(ctx sdk.Context, addr sdk.AccAddress, credential string, stake sdk.Coin) error {
	if err := k.requireInitialized(ctx); err != nil {
		return err
	}
	if k.HasReporter(ctx, addr.String()) {
		return types.ErrDuplicateReporter.Wrap(addr.String())
	}

	params := k.GetParams(ctx)
	if stake.Denom != params.BondDenom {
		return types.ErrInsufficientStake.Wrapf("stake denom %s, want %s", stake.Denom, params.BondDenom)
	}
	if stake.Amount.LT(params.MinReporterStake) {
		return types.ErrInsufficientStake.Wrapf("%s below minimum %s%s", stake, params.MinReporterStake, params.BondDenom)
	}

	reporter := types.Reporter{
		Address:    addr.String(),
		Credential: credential,
		Stake:      stake.Amount,
		Reputation: params.InitialReputation,
	}
	if err := reporter.Validate(); err != nil {
		return types.ErrInvalidConfig.Wrap(err.Error())
	}

	if err := k.bankKeeper.SendCoinsFromAccountToModule(ctx, addr, types.ModuleName, sdk.NewCoins(stake)); err != nil {
		return err
	}
	if err := k.SetReporter(ctx, reporter); err != nil {
		return err
	}

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeReporterRegistered,
			sdk.NewAttribute(types.AttributeKeyReporter, addr.String()),
			sdk.NewAttribute(types.AttributeKeyStake, stake.String()),
			sdk.NewAttribute(types.AttributeKeyReputation, fmt.Sprintf("%d", reporter.Reputation)),
		),
	)

	k.Logger(ctx).Info("reporter registered", "reporter", addr.String(), "stake", stake.String())
	return nil
}

// SlashReporter burns part of a reporter's escrowed stake and reduces its
// reputation by the configured delta.
func (k Keeper) SlashReporter(ctx sdk.Context, addr string, amount math.Int) error {
	reporter, err := k.GetReporter(ctx, addr)
	if err != nil {
		return err
	}

	params := k.GetParams(ctx)
	if amount.GT(reporter.Stake) {
		amount = reporter.Stake
	}

	if amount.IsPositive() {
		coins := sdk.NewCoins(sdk.NewCoin(params.BondDenom, amount))
		if err := k.bankKeeper.BurnCoins(ctx, types.ModuleName, coins); err != nil {
			return err
		}
		reporter.Stake = reporter.Stake.Sub(amount)
	}

	reporter.Slashes++
	if err := k.SetReporter(ctx, reporter); err != nil {
		return err
	}
	k.AdjustReputation(ctx, addr, -int64(params.ReputationDelta))

	if k.metrics != nil {
		k.metrics.SlashingEvents.WithLabelValues(addr).Inc()
	}

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeReporterSlashed,
			sdk.NewAttribute(types.AttributeKeyReporter, addr),
			sdk.NewAttribute(types.AttributeKeySlashed, amount.String()),
		),
	)

	k.Logger(ctx).Info("reporter slashed", "reporter", addr, "amount", amount.String())
	return nil
}

// AdjustReputation applies a saturating reputation delta, clamped to
// [0, MaxReputation]. It never fails; an unknown reporter is a no-op.
func (k Keeper) AdjustReputation(ctx sdk.Context, addr string, delta int64) {
	reporter, err := k.GetReporter(ctx, addr)
	if err != nil {
		return
	}

	params := k.GetParams(ctx)
	next := int64(reporter.Reputation) + delta
	switch {
	case next < 0:
		next = 0
	case next > int64(params.MaxReputation):
		next = int64(params.MaxReputation)
	}
	reporter.Reputation = uint32(next)

	if err := k.SetReporter(ctx, reporter); err != nil {
		k.Logger(ctx).Error("failed to persist reputation adjustment", "reporter", addr, "error", err)
	}
}

// lastAppliedReputationRound returns the last round whose reputation
// adjustment was applied for a (feed, reporter) pair.
func (k Keeper) lastAppliedReputationRound(ctx sdk.Context, feedID, reporter string) uint64 {
	bz := k.getStore(ctx).Get(GetReputationRoundKey(feedID, reporter))
	if len(bz) != 8 {
		return 0
	}
	return binary.BigEndian.Uint64(bz)
}

func (k Keeper) setLastAppliedReputationRound(ctx sdk.Context, feedID, reporter string, round uint64) {
	bz := make([]byte, 8)
	binary.BigEndian.PutUint64(bz, round)
	k.getStore(ctx).Set(GetReputationRoundKey(feedID, reporter), bz)
}
