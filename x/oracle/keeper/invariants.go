package keeper

import (
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/oracle-chain/oraclechain/x/oracle/types"
)

// RegisterInvariants registers all oracle module invariants
func RegisterInvariants(ir sdk.InvariantRegistry, k Keeper) {
	ir.RegisterRoute(types.ModuleName, "reputation-bounds",
		ReputationBoundsInvariant(k))
	ir.RegisterRoute(types.ModuleName, "round-monotonicity",
		RoundMonotonicityInvariant(k))
	ir.RegisterRoute(types.ModuleName, "submission-uniqueness",
		SubmissionUniquenessInvariant(k))
	ir.RegisterRoute(types.ModuleName, "committed-value-provenance",
		CommittedValueProvenanceInvariant(k))
}

// AllInvariants runs all invariants of the oracle module
func AllInvariants(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		res, stop := ReputationBoundsInvariant(k)(ctx)
		if stop {
			return res, stop
		}
		res, stop = RoundMonotonicityInvariant(k)(ctx)
		if stop {
			return res, stop
		}
		res, stop = SubmissionUniquenessInvariant(k)(ctx)
		if stop {
			return res, stop
		}
		return CommittedValueProvenanceInvariant(k)(ctx)
	}
}

// ReputationBoundsInvariant checks that every reporter's reputation is within
// [0, MaxReputation] and its stake is non-negative.
func ReputationBoundsInvariant(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		var issues []string
		params := k.GetParams(ctx)

		_ = k.IterateReporters(ctx, func(r types.Reporter) bool {
			if r.Reputation > params.MaxReputation {
				issues = append(issues, fmt.Sprintf(
					"reporter %s reputation %d exceeds max %d", r.Address, r.Reputation, params.MaxReputation))
			}
			if r.Stake.IsNil() || r.Stake.IsNegative() {
				issues = append(issues, fmt.Sprintf("reporter %s has negative stake", r.Address))
			}
			return false
		})

		broken := len(issues) > 0
		return sdk.FormatInvariant(types.ModuleName, "reputation-bounds",
			fmt.Sprintf("found %d reputation bound violations\n%v", len(issues), issues)), broken
	}
}

// RoundMonotonicityInvariant checks that no stored round of a feed exceeds the
// feed's current round number, and that the current round record exists.
func RoundMonotonicityInvariant(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		var issues []string

		_ = k.IterateFeeds(ctx, func(feed types.Feed) bool {
			if feed.CurrentRound == 0 {
				issues = append(issues, fmt.Sprintf("feed %s has no opened round", feed.Id))
				return false
			}
			if _, err := k.GetRound(ctx, feed.Id, feed.CurrentRound); err != nil {
				issues = append(issues, fmt.Sprintf(
					"feed %s current round %d missing from store", feed.Id, feed.CurrentRound))
			}
			_ = k.IterateRounds(ctx, feed.Id, func(round types.Round) bool {
				if round.Number > feed.CurrentRound {
					issues = append(issues, fmt.Sprintf(
						"feed %s stores round %d beyond current round %d", feed.Id, round.Number, feed.CurrentRound))
				}
				if round.Number < feed.CurrentRound && !round.State.IsTerminal() {
					issues = append(issues, fmt.Sprintf(
						"feed %s past round %d is non-terminal (%s)", feed.Id, round.Number, round.State))
				}
				return false
			})
			return false
		})

		broken := len(issues) > 0
		return sdk.FormatInvariant(types.ModuleName, "round-monotonicity",
			fmt.Sprintf("found %d round ordering violations\n%v", len(issues), issues)), broken
	}
}

// SubmissionUniquenessInvariant checks that no round holds two submissions
// from the same reporter and that every submission targets its own round.
func SubmissionUniquenessInvariant(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		var issues []string

		_ = k.IterateFeeds(ctx, func(feed types.Feed) bool {
			_ = k.IterateRounds(ctx, feed.Id, func(round types.Round) bool {
				seen := make(map[string]struct{}, len(round.Submissions))
				for _, sub := range round.Submissions {
					if _, dup := seen[sub.Reporter]; dup {
						issues = append(issues, fmt.Sprintf(
							"feed %s round %d has duplicate submission from %s", feed.Id, round.Number, sub.Reporter))
					}
					seen[sub.Reporter] = struct{}{}

					if sub.Round != round.Number || sub.FeedId != feed.Id {
						issues = append(issues, fmt.Sprintf(
							"feed %s round %d holds mistargeted submission (%s, round %d)",
							feed.Id, round.Number, sub.FeedId, sub.Round))
					}
					if !round.IsAuthorized(sub.Reporter) {
						issues = append(issues, fmt.Sprintf(
							"feed %s round %d holds submission from unauthorized %s", feed.Id, round.Number, sub.Reporter))
					}
				}
				return false
			})
			return false
		})

		broken := len(issues) > 0
		return sdk.FormatInvariant(types.ModuleName, "submission-uniqueness",
			fmt.Sprintf("found %d submission violations\n%v", len(issues), issues)), broken
	}
}

// CommittedValueProvenanceInvariant checks that a feed carrying a committed
// value has at least one committed round, and that committed rounds met their
// feed's quorum.
func CommittedValueProvenanceInvariant(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		var issues []string

		_ = k.IterateFeeds(ctx, func(feed types.Feed) bool {
			committed := false
			_ = k.IterateRounds(ctx, feed.Id, func(round types.Round) bool {
				if round.State != types.RoundStateCommitted {
					return false
				}
				committed = true
				if uint32(len(round.Submissions)) < feed.MinQuorum {
					issues = append(issues, fmt.Sprintf(
						"feed %s round %d committed on %d submissions, quorum is %d",
						feed.Id, round.Number, len(round.Submissions), feed.MinQuorum))
				}
				if round.ConsensusValue.IsZero() && feed.Kind == types.FeedKindCategorical {
					issues = append(issues, fmt.Sprintf(
						"feed %s round %d committed without a consensus label", feed.Id, round.Number))
				}
				return false
			})

			// Retention pruning may have dropped the committing round; only
			// flag feeds whose history is fully retained.
			if feed.LastCommitTime > 0 && !committed && feed.CurrentRound <= k.GetParams(ctx).RetentionRounds {
				issues = append(issues, fmt.Sprintf(
					"feed %s carries a committed value but no committed round survives", feed.Id))
			}
			return false
		})

		broken := len(issues) > 0
		return sdk.FormatInvariant(types.ModuleName, "committed-value-provenance",
			fmt.Sprintf("found %d provenance violations\n%v", len(issues), issues)), broken
	}
}
