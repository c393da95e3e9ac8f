package keeper

import (
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/oracle-chain/oraclechain/x/oracle/types"
)

// CloseRound evaluates the closing triggers for a feed's current round and,
// when one fires, drives the round through aggregation to a terminal state.
// Triggers are evaluated at call time against the latest committed state:
//
//   - quorum of accepted submissions reached, or
//   - staleness timeout elapsed (aggregates if quorum was met, aborts
//     otherwise).
//
// Calling it on an already-terminal round is an idempotent no-op returning the
// stored result; the aggregator never runs twice for one round. The feed's
// committed value is mutated here and only here, and only on a Committed
// outcome.
func (k Keeper) CloseRound(ctx sdk.Context, feedID string) (types.RoundResult, error) {
	if err := k.requireInitialized(ctx); err != nil {
		return types.RoundResult{}, err
	}

	feed, err := k.GetFeed(ctx, feedID)
	if err != nil {
		return types.RoundResult{}, err
	}
	round, err := k.GetCurrentRound(ctx, feed)
	if err != nil {
		return types.RoundResult{}, err
	}

	if round.State.IsTerminal() {
		return round.Result(), nil
	}

	now := ctx.BlockTime().Unix()
	quorumMet := uint32(len(round.Submissions)) >= feed.MinQuorum
	timedOut := now > round.Deadline(feed.StalenessTimeout)

	if !quorumMet && !timedOut {
		return types.RoundResult{}, types.ErrRoundInProgress.Wrapf(
			"feed %s round %d: %d/%d submissions, deadline %d",
			feedID, round.Number, len(round.Submissions), feed.MinQuorum, round.Deadline(feed.StalenessTimeout))
	}

	if !round.State.CanTransitionTo(types.RoundStateAggregating) {
		return types.RoundResult{}, types.ErrRoundClosed.Wrapf("round %d is %s", round.Number, round.State)
	}
	round.State = types.RoundStateAggregating

	var result types.RoundResult
	if quorumMet {
		result = k.Aggregate(ctx, feed, round)
	} else {
		// Timeout without quorum: nothing to aggregate.
		result = types.RoundResult{
			ConsensusValue:  round.ConsensusValue,
			DispersionScore: round.DispersionScore,
			Outcome:         types.RoundStateAborted,
		}
	}

	if !round.State.CanTransitionTo(result.Outcome) {
		return types.RoundResult{}, fmt.Errorf("illegal round transition %s -> %s", round.State, result.Outcome)
	}

	round.State = result.Outcome
	round.ClosedAt = now
	round.ConsensusValue = result.ConsensusValue
	round.DispersionScore = result.DispersionScore
	round.ContributingReporters = result.ContributingReporters
	if err := k.SetRound(ctx, round); err != nil {
		return types.RoundResult{}, err
	}

	switch result.Outcome {
	case types.RoundStateCommitted:
		feed.CurrentValue = result.ConsensusValue
		feed.LastCommitTime = now
		if err := k.applyReputation(ctx, &feed, round, result); err != nil {
			return types.RoundResult{}, err
		}
		if err := k.SetFeed(ctx, feed); err != nil {
			return types.RoundResult{}, err
		}

		ctx.EventManager().EmitEvent(
			sdk.NewEvent(
				types.EventTypeValueCommitted,
				sdk.NewAttribute(types.AttributeKeyFeedId, feedID),
				sdk.NewAttribute(types.AttributeKeyRound, fmt.Sprintf("%d", round.Number)),
				sdk.NewAttribute(types.AttributeKeyValue, result.ConsensusValue.String()),
				sdk.NewAttribute(types.AttributeKeyDispersion, result.DispersionScore.String()),
			),
		)

	case types.RoundStateDisputed:
		// Value recorded on the round for audit; the feed's committed value
		// does not advance and no reputation moves on ambiguous consensus.
		ctx.EventManager().EmitEvent(
			sdk.NewEvent(
				types.EventTypeRoundDisputed,
				sdk.NewAttribute(types.AttributeKeyFeedId, feedID),
				sdk.NewAttribute(types.AttributeKeyRound, fmt.Sprintf("%d", round.Number)),
				sdk.NewAttribute(types.AttributeKeyValue, result.ConsensusValue.String()),
				sdk.NewAttribute(types.AttributeKeyDispersion, result.DispersionScore.String()),
			),
		)

		k.Logger(ctx).Info("round disputed",
			"feed", feedID,
			"round", round.Number,
			"dispersion", result.DispersionScore.String(),
		)
	}

	if k.metrics != nil {
		k.metrics.RoundsTotal.WithLabelValues(feedID, string(result.Outcome)).Inc()
	}

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeRoundClosed,
			sdk.NewAttribute(types.AttributeKeyFeedId, feedID),
			sdk.NewAttribute(types.AttributeKeyRound, fmt.Sprintf("%d", round.Number)),
			sdk.NewAttribute(types.AttributeKeyOutcome, string(result.Outcome)),
		),
	)

	return result, nil
}
