package keeper

import (
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/oracle-chain/oraclechain/x/oracle/types"
)

// applyReputation settles reputation and slashing for every submission of a
// committed round, banded by deviation from the consensus value:
//
//   - within the inner band (InnerBandFraction of the feed's deviation
//     threshold): reputation rises by one delta;
//   - beyond the feed's deviation threshold: the reporter is slashed, which
//     burns SlashFraction of stake and drops reputation by one delta;
//   - in between: no change.
//
// A per-(feed, reporter) marker of the last settled round makes the whole pass
// idempotent, so replaying CloseRound can never double-apply an adjustment.
// Only Committed rounds ever reach this; disputed and aborted rounds carry no
// consensus to measure against.
func (k Keeper) applyReputation(ctx sdk.Context, feed *types.Feed, round types.Round, result types.RoundResult) error {
	params := k.GetParams(ctx)
	innerBand := feed.DeviationThreshold.Mul(params.InnerBandFraction)

	for _, sub := range round.Submissions {
		if k.lastAppliedReputationRound(ctx, feed.Id, sub.Reporter) >= round.Number {
			continue
		}

		reporter, err := k.GetReporter(ctx, sub.Reporter)
		if err != nil {
			// Deregistered after submitting; nothing left to adjust.
			k.setLastAppliedReputationRound(ctx, feed.Id, sub.Reporter, round.Number)
			continue
		}

		var deviation math.LegacyDec
		switch feed.Kind {
		case types.FeedKindCategorical:
			deviation = categoricalDeviation(sub.Value, result.ConsensusValue)
		default:
			deviation = relativeDeviation(sub.Value.Numeric, result.ConsensusValue.Numeric)
		}

		switch {
		case deviation.LTE(innerBand):
			k.AdjustReputation(ctx, sub.Reporter, int64(params.ReputationDelta))

		case deviation.GT(feed.DeviationThreshold):
			penalty := params.SlashFraction.MulInt(reporter.Stake).TruncateInt()
			if err := k.SlashReporter(ctx, sub.Reporter, penalty); err != nil {
				return err
			}
		}

		k.setLastAppliedReputationRound(ctx, feed.Id, sub.Reporter, round.Number)

		updated, err := k.GetReporter(ctx, sub.Reporter)
		if err != nil {
			continue
		}
		if updated.Reputation < params.ReputationFloor {
			k.removeFromAuthorizedSet(ctx, feed, sub.Reporter)
		}
	}

	return nil
}
