package keeper_test

import (
	"testing"
	"time"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"

	keepertest "github.com/oracle-chain/oraclechain/testutil/keeper"
	"github.com/oracle-chain/oraclechain/x/oracle/types"
)

func TestRoundNumbersAreMonotonic(t *testing.T) {
	k, bk, ctx := keepertest.OracleKeeper(t)
	newTestFeed(t, k, bk, ctx, "BTC/USD", 2, 3)

	for want := uint64(2); want <= 5; want++ {
		ctx = ctx.WithBlockTime(ctx.BlockTime().Add(301 * time.Second))
		result, err := k.CloseRound(ctx, "BTC/USD")
		require.NoError(t, err)
		require.Equal(t, types.RoundStateAborted, result.Outcome)

		got, err := k.OpenNextRound(ctx, "BTC/USD")
		require.NoError(t, err)
		require.Equal(t, want, got)
	}

	feed, err := k.GetFeed(ctx, "BTC/USD")
	require.NoError(t, err)
	require.Equal(t, uint64(5), feed.CurrentRound)
}

func TestRoundPruningRespectsRetention(t *testing.T) {
	k, bk, ctx := keepertest.OracleKeeper(t)
	newTestFeed(t, k, bk, ctx, "BTC/USD", 2, 3)

	params := k.GetParams(ctx)
	params.RetentionRounds = 2
	require.NoError(t, k.SetParams(ctx, params))

	cycle := func(ctx sdk.Context) sdk.Context {
		ctx = ctx.WithBlockTime(ctx.BlockTime().Add(301 * time.Second))
		_, err := k.CloseRound(ctx, "BTC/USD")
		require.NoError(t, err)
		_, err = k.OpenNextRound(ctx, "BTC/USD")
		require.NoError(t, err)
		return ctx
	}

	for i := 0; i < 4; i++ {
		ctx = cycle(ctx)
	}

	// Current round is 5; only rounds above 5-2 survive.
	for _, n := range []uint64{1, 2, 3} {
		_, err := k.GetRound(ctx, "BTC/USD", n)
		require.ErrorIs(t, err, types.ErrRoundNotFound, "round %d should be pruned", n)
	}
	for _, n := range []uint64{4, 5} {
		_, err := k.GetRound(ctx, "BTC/USD", n)
		require.NoError(t, err, "round %d should survive", n)
	}
}

func TestGetRoundUnknown(t *testing.T) {
	k, bk, ctx := keepertest.OracleKeeper(t)
	newTestFeed(t, k, bk, ctx, "BTC/USD", 2, 3)

	_, err := k.GetRound(ctx, "BTC/USD", 42)
	require.ErrorIs(t, err, types.ErrRoundNotFound)
}
