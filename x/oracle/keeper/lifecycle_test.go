package keeper_test

import (
	"testing"
	"time"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"

	keepertest "github.com/oracle-chain/oraclechain/testutil/keeper"
	"github.com/oracle-chain/oraclechain/x/oracle/keeper"
	"github.com/oracle-chain/oraclechain/x/oracle/types"
)

func submitNumeric(t *testing.T, k *keeper.Keeper, ctx sdk.Context, r keepertest.TestReporter, feedID string, round uint64, value int64) {
	t.Helper()
	sub := keepertest.SignSubmission(t, r, feedID, round,
		types.NewNumericValue(math.LegacyNewDec(value)), ctx.BlockTime().Unix())
	require.NoError(t, k.SubmitValue(ctx, sub))
}

func TestCloseRoundCommitsTightConsensus(t *testing.T) {
	k, bk, ctx := keepertest.OracleKeeper(t)
	reporters := newTestFeed(t, k, bk, ctx, "BTC/USD", 3, 3)
	params := k.GetParams(ctx)

	for i, v := range []int64{100, 101, 102} {
		submitNumeric(t, k, ctx, reporters[i], "BTC/USD", 1, v)
	}

	result, err := k.CloseRound(ctx, "BTC/USD")
	require.NoError(t, err)
	require.Equal(t, types.RoundStateCommitted, result.Outcome)
	require.Equal(t, math.LegacyNewDec(101), result.ConsensusValue.Numeric)
	require.Len(t, result.ContributingReporters, 3)

	feed, err := k.GetFeed(ctx, "BTC/USD")
	require.NoError(t, err)
	require.Equal(t, math.LegacyNewDec(101), feed.CurrentValue.Numeric)
	require.Equal(t, ctx.BlockTime().Unix(), feed.LastCommitTime)

	// Everyone landed in the inner band, so everyone earned a delta.
	for _, r := range reporters {
		reporter, err := k.GetReporter(ctx, r.Address.String())
		require.NoError(t, err)
		require.Equal(t, params.InitialReputation+params.ReputationDelta, reporter.Reputation)
		require.Equal(t, params.MinReporterStake, reporter.Stake)
	}
}

func TestCloseRoundDisputesDivergentMinority(t *testing.T) {
	k, bk, ctx := keepertest.OracleKeeper(t)
	reporters := newTestFeed(t, k, bk, ctx, "BTC/USD", 3, 3)
	params := k.GetParams(ctx)

	// One of three equal-weight reporters is 48% off the consensus. The
	// weighted MAD stays tiny, but a third of the weight disagreeing beyond
	// the threshold is ambiguity, not consensus.
	for i, v := range []int64{100, 101, 150} {
		submitNumeric(t, k, ctx, reporters[i], "BTC/USD", 1, v)
	}

	result, err := k.CloseRound(ctx, "BTC/USD")
	require.NoError(t, err)
	require.Equal(t, types.RoundStateDisputed, result.Outcome)

	// The committed value does not advance on a dispute.
	feed, err := k.GetFeed(ctx, "BTC/USD")
	require.NoError(t, err)
	require.True(t, feed.CurrentValue.Numeric.IsZero())
	require.Zero(t, feed.LastCommitTime)

	// No reputation moves on ambiguous consensus, not even for the outlier.
	for _, r := range reporters {
		reporter, err := k.GetReporter(ctx, r.Address.String())
		require.NoError(t, err)
		require.Equal(t, params.InitialReputation, reporter.Reputation)
		require.Equal(t, params.MinReporterStake, reporter.Stake)
	}

	// The disputed round still records what was measured, for audit.
	round, err := k.GetRound(ctx, "BTC/USD", 1)
	require.NoError(t, err)
	require.Equal(t, types.RoundStateDisputed, round.State)
	require.Equal(t, math.LegacyNewDec(101), round.ConsensusValue.Numeric)
}

func TestCloseRoundAbortsOnTimeoutWithoutQuorum(t *testing.T) {
	k, bk, ctx := keepertest.OracleKeeper(t)
	reporters := newTestFeed(t, k, bk, ctx, "BTC/USD", 3, 3)
	params := k.GetParams(ctx)

	submitNumeric(t, k, ctx, reporters[0], "BTC/USD", 1, 100)
	submitNumeric(t, k, ctx, reporters[1], "BTC/USD", 1, 101)

	// Two of three short of quorum: no trigger yet.
	_, err := k.CloseRound(ctx, "BTC/USD")
	require.ErrorIs(t, err, types.ErrRoundInProgress)

	ctx = ctx.WithBlockTime(ctx.BlockTime().Add(301 * time.Second))
	result, err := k.CloseRound(ctx, "BTC/USD")
	require.NoError(t, err)
	require.Equal(t, types.RoundStateAborted, result.Outcome)

	feed, err := k.GetFeed(ctx, "BTC/USD")
	require.NoError(t, err)
	require.True(t, feed.CurrentValue.Numeric.IsZero())

	// The submitters keep their reputation; an abort blames nobody.
	for _, r := range reporters[:2] {
		reporter, err := k.GetReporter(ctx, r.Address.String())
		require.NoError(t, err)
		require.Equal(t, params.InitialReputation, reporter.Reputation)
	}

	// The round counter still advances.
	next, err := k.OpenNextRound(ctx, "BTC/USD")
	require.NoError(t, err)
	require.Equal(t, uint64(2), next)
}

func TestCloseRoundAggregatesOnTimeoutWithQuorum(t *testing.T) {
	k, bk, ctx := keepertest.OracleKeeper(t)
	reporters := newTestFeed(t, k, bk, ctx, "BTC/USD", 2, 3)

	submitNumeric(t, k, ctx, reporters[0], "BTC/USD", 1, 100)
	submitNumeric(t, k, ctx, reporters[1], "BTC/USD", 1, 102)

	ctx = ctx.WithBlockTime(ctx.BlockTime().Add(301 * time.Second))
	result, err := k.CloseRound(ctx, "BTC/USD")
	require.NoError(t, err)
	require.Equal(t, types.RoundStateCommitted, result.Outcome)
	require.Equal(t, math.LegacyNewDec(101), result.ConsensusValue.Numeric)
}

func TestCloseRoundIsIdempotent(t *testing.T) {
	k, bk, ctx := keepertest.OracleKeeper(t)
	reporters := newTestFeed(t, k, bk, ctx, "BTC/USD", 3, 3)
	params := k.GetParams(ctx)

	for i, v := range []int64{100, 101, 102} {
		submitNumeric(t, k, ctx, reporters[i], "BTC/USD", 1, v)
	}

	first, err := k.CloseRound(ctx, "BTC/USD")
	require.NoError(t, err)
	second, err := k.CloseRound(ctx, "BTC/USD")
	require.NoError(t, err)

	require.Equal(t, first.Outcome, second.Outcome)
	require.Equal(t, first.ConsensusValue, second.ConsensusValue)
	require.Equal(t, first.DispersionScore, second.DispersionScore)

	// Reputation applied exactly once despite the replay.
	for _, r := range reporters {
		reporter, err := k.GetReporter(ctx, r.Address.String())
		require.NoError(t, err)
		require.Equal(t, params.InitialReputation+params.ReputationDelta, reporter.Reputation)
	}
}

func TestCloseRoundSlashesOutlierInCommittedRound(t *testing.T) {
	k, bk, ctx := keepertest.OracleKeeper(t)
	reporters := newTestFeed(t, k, bk, ctx, "BTC/USD", 4, 4)
	params := k.GetParams(ctx)

	// Three agree at 100, one sits 20% out. A quarter of the weight is not
	// enough to dispute, so the round commits and the outlier pays.
	for i, v := range []int64{100, 100, 100, 120} {
		submitNumeric(t, k, ctx, reporters[i], "BTC/USD", 1, v)
	}

	result, err := k.CloseRound(ctx, "BTC/USD")
	require.NoError(t, err)
	require.Equal(t, types.RoundStateCommitted, result.Outcome)
	require.Equal(t, math.LegacyNewDec(100), result.ConsensusValue.Numeric)

	for _, r := range reporters[:3] {
		reporter, err := k.GetReporter(ctx, r.Address.String())
		require.NoError(t, err)
		require.Equal(t, params.InitialReputation+params.ReputationDelta, reporter.Reputation)
		require.Equal(t, params.MinReporterStake, reporter.Stake)
	}

	outlier, err := k.GetReporter(ctx, reporters[3].Address.String())
	require.NoError(t, err)
	require.Equal(t, params.InitialReputation-params.ReputationDelta, outlier.Reputation)
	expectedStake := params.MinReporterStake.Sub(params.SlashFraction.MulInt(params.MinReporterStake).TruncateInt())
	require.Equal(t, expectedStake, outlier.Stake)
	require.Equal(t, uint64(1), outlier.Slashes)
}

func TestCloseRoundRemovesReporterBelowFloor(t *testing.T) {
	k, bk, ctx := keepertest.OracleKeeper(t)
	reporters := newTestFeed(t, k, bk, ctx, "BTC/USD", 4, 4)

	// A single slash from the default 500 straight through the floor.
	params := k.GetParams(ctx)
	params.ReputationDelta = 301
	require.NoError(t, k.SetParams(ctx, params))

	for i, v := range []int64{100, 100, 100, 120} {
		submitNumeric(t, k, ctx, reporters[i], "BTC/USD", 1, v)
	}

	result, err := k.CloseRound(ctx, "BTC/USD")
	require.NoError(t, err)
	require.Equal(t, types.RoundStateCommitted, result.Outcome)

	outlier, err := k.GetReporter(ctx, reporters[3].Address.String())
	require.NoError(t, err)
	require.Less(t, outlier.Reputation, params.ReputationFloor)

	feed, err := k.GetFeed(ctx, "BTC/USD")
	require.NoError(t, err)
	require.False(t, feed.IsAuthorized(reporters[3].Address.String()))
	require.Equal(t, uint64(2), feed.AuthorizedVersion)

	// The next round's snapshot excludes the removed reporter.
	next, err := k.OpenNextRound(ctx, "BTC/USD")
	require.NoError(t, err)
	round, err := k.GetRound(ctx, "BTC/USD", next)
	require.NoError(t, err)
	require.False(t, round.IsAuthorized(reporters[3].Address.String()))
}

func TestCloseRoundUnknownFeed(t *testing.T) {
	k, _, ctx := keepertest.OracleKeeper(t)
	_, err := k.CloseRound(ctx, "ghost")
	require.ErrorIs(t, err, types.ErrFeedNotFound)
}

func TestOpenNextRoundRequiresTerminalState(t *testing.T) {
	k, bk, ctx := keepertest.OracleKeeper(t)
	newTestFeed(t, k, bk, ctx, "BTC/USD", 2, 3)

	_, err := k.OpenNextRound(ctx, "BTC/USD")
	require.ErrorIs(t, err, types.ErrRoundInProgress)
}

func TestCategoricalFeedLifecycle(t *testing.T) {
	k, bk, ctx := keepertest.OracleKeeper(t)
	params := k.GetParams(ctx)

	reporters := make([]keepertest.TestReporter, 3)
	addrs := make([]string, 3)
	for i := range reporters {
		reporters[i] = keepertest.RegisterTestReporter(t, k, bk, ctx, params.MinReporterStake)
		addrs[i] = reporters[i].Address.String()
	}

	feed := types.Feed{
		Id:                  "chain-halted",
		Kind:                types.FeedKindCategorical,
		AuthorizedReporters: addrs,
		DeviationThreshold:  math.LegacyMustNewDecFromStr("0.4"),
		MinQuorum:           3,
		StalenessTimeout:    300,
		AllowedLabels:       []string{"healthy", "halted"},
	}
	require.NoError(t, k.CreateFeed(ctx, feed))

	now := ctx.BlockTime().Unix()
	for _, r := range reporters {
		sub := keepertest.SignSubmission(t, r, "chain-halted", 1, types.NewCategoricalValue("healthy"), now)
		require.NoError(t, k.SubmitValue(ctx, sub))
	}

	result, err := k.CloseRound(ctx, "chain-halted")
	require.NoError(t, err)
	require.Equal(t, types.RoundStateCommitted, result.Outcome)
	require.Equal(t, "healthy", result.ConsensusValue.Label)
	require.True(t, result.DispersionScore.IsZero())

	got, err := k.GetFeed(ctx, "chain-halted")
	require.NoError(t, err)
	require.Equal(t, "healthy", got.CurrentValue.Label)
}

func TestCategoricalDisputeOnSplitVote(t *testing.T) {
	k, bk, ctx := keepertest.OracleKeeper(t)
	params := k.GetParams(ctx)

	reporters := make([]keepertest.TestReporter, 3)
	addrs := make([]string, 3)
	for i := range reporters {
		reporters[i] = keepertest.RegisterTestReporter(t, k, bk, ctx, params.MinReporterStake)
		addrs[i] = reporters[i].Address.String()
	}

	feed := types.Feed{
		Id:                  "chain-halted",
		Kind:                types.FeedKindCategorical,
		AuthorizedReporters: addrs,
		DeviationThreshold:  math.LegacyMustNewDecFromStr("0.25"),
		MinQuorum:           3,
		StalenessTimeout:    300,
		AllowedLabels:       []string{"healthy", "halted"},
	}
	require.NoError(t, k.CreateFeed(ctx, feed))

	now := ctx.BlockTime().Unix()
	for i, label := range []string{"healthy", "healthy", "halted"} {
		sub := keepertest.SignSubmission(t, reporters[i], "chain-halted", 1, types.NewCategoricalValue(label), now)
		require.NoError(t, k.SubmitValue(ctx, sub))
	}

	// A third of the weight on the losing label breaches both the feed's
	// threshold and the dispute fraction.
	result, err := k.CloseRound(ctx, "chain-halted")
	require.NoError(t, err)
	require.Equal(t, types.RoundStateDisputed, result.Outcome)
}
