package keeper

import (
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/oracle-chain/oraclechain/x/oracle/types"
)

// ValidateSubmission checks a single incoming submission for admissibility.
// It is stateless: all required state arrives as arguments and nothing is
// written. Rules run in a fixed order and the first failing rule wins, so
// rejection reasons are deterministic.
func ValidateSubmission(feed types.Feed, round types.Round, reporter types.Reporter, sub types.Submission) error {
	// 1. Reporter must be in the round's authorized snapshot, not the feed's
	// live set: mid-round eligibility changes do not apply retroactively.
	if !round.IsAuthorized(sub.Reporter) {
		return types.ErrNotAuthorized.Wrapf("reporter %s not in round %d snapshot", sub.Reporter, round.Number)
	}

	// 2. Round must be open.
	if round.State != types.RoundStateOpen {
		return types.ErrRoundClosed.Wrapf("round %d is %s", round.Number, round.State)
	}
	if sub.Round != round.Number {
		return types.ErrRoundClosed.Wrapf("submission targets round %d, current round is %d", sub.Round, round.Number)
	}

	// 3. At most one submission per reporter per round.
	if round.HasSubmissionFrom(sub.Reporter) {
		return types.ErrDuplicateSubmission.Wrapf("reporter %s already submitted to round %d", sub.Reporter, round.Number)
	}

	// 4. Timestamp must fall inside the round's staleness window.
	if sub.Timestamp < round.OpenedAt || sub.Timestamp > round.Deadline(feed.StalenessTimeout) {
		return types.ErrStaleSubmission.Wrapf(
			"timestamp %d outside [%d, %d]", sub.Timestamp, round.OpenedAt, round.Deadline(feed.StalenessTimeout))
	}

	// 5. Value must be inside the feed's declared sanity bounds.
	switch feed.Kind {
	case types.FeedKindNumeric:
		if sub.Value.Label != "" || !feed.InNumericBounds(sub.Value.Numeric) {
			return types.ErrValueOutOfBounds.Wrapf("value %s outside feed bounds", sub.Value)
		}
	case types.FeedKindCategorical:
		if !feed.IsAllowedLabel(sub.Value.Label) {
			return types.ErrValueOutOfBounds.Wrapf("label %q not in allowed set", sub.Value.Label)
		}
	}

	// 6. Proof must verify against the reporter's credential.
	pubKey, err := reporter.PubKey()
	if err != nil {
		return types.ErrInvalidProof.Wrap(err.Error())
	}
	signBytes := types.SubmissionSignBytes(sub.FeedId, sub.Round, sub.Value, sub.Timestamp)
	if !pubKey.VerifySignature(signBytes, sub.Proof) {
		return types.ErrInvalidProof.Wrapf("signature does not verify for reporter %s", sub.Reporter)
	}

	return nil
}

// SubmitValue records one reporter's value against the feed's current round.
// The staleness trigger is evaluated first: a timed-out round is closed before
// validation, so time is a measured input rather than an ambient side effect.
// A rejected submission mutates nothing.
func (k Keeper) SubmitValue(ctx sdk.Context, sub types.Submission) error {
	if err := k.requireInitialized(ctx); err != nil {
		return err
	}

	feed, err := k.GetFeed(ctx, sub.FeedId)
	if err != nil {
		return err
	}
	round, err := k.GetCurrentRound(ctx, feed)
	if err != nil {
		return err
	}

	if round.State == types.RoundStateOpen && ctx.BlockTime().Unix() > round.Deadline(feed.StalenessTimeout) {
		if _, err := k.CloseRound(ctx, feed.Id); err != nil {
			return err
		}
		round, err = k.GetRound(ctx, feed.Id, round.Number)
		if err != nil {
			return err
		}
	}

	reporter, repErr := k.GetReporter(ctx, sub.Reporter)
	if repErr != nil && round.IsAuthorized(sub.Reporter) {
		// In the snapshot but gone from the registry: surface the registry
		// error rather than NotAuthorized.
		return repErr
	}

	if err := ValidateSubmission(feed, round, reporter, sub); err != nil {
		if k.metrics != nil {
			k.metrics.SubmissionsTotal.WithLabelValues(feed.Id, "rejected").Inc()
		}
		return err
	}

	round.Submissions = append(round.Submissions, sub)
	if err := k.SetRound(ctx, round); err != nil {
		return err
	}

	reporter.Submissions++
	if err := k.SetReporter(ctx, reporter); err != nil {
		return err
	}

	if k.metrics != nil {
		k.metrics.SubmissionsTotal.WithLabelValues(feed.Id, "accepted").Inc()
	}

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeValueSubmitted,
			sdk.NewAttribute(types.AttributeKeyFeedId, sub.FeedId),
			sdk.NewAttribute(types.AttributeKeyReporter, sub.Reporter),
			sdk.NewAttribute(types.AttributeKeyRound, fmt.Sprintf("%d", round.Number)),
			sdk.NewAttribute(types.AttributeKeyValue, sub.Value.String()),
		),
	)

	return nil
}
