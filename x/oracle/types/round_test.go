package types_test

import (
	"testing"

	"cosmossdk.io/math"
	"github.com/stretchr/testify/require"

	"github.com/oracle-chain/oraclechain/x/oracle/types"
)

func TestRoundStateTransitions(t *testing.T) {
	tests := []struct {
		from    types.RoundState
		to      types.RoundState
		allowed bool
	}{
		{types.RoundStateOpen, types.RoundStateAggregating, true},
		{types.RoundStateOpen, types.RoundStateCommitted, false},
		{types.RoundStateOpen, types.RoundStateAborted, false},
		{types.RoundStateAggregating, types.RoundStateCommitted, true},
		{types.RoundStateAggregating, types.RoundStateDisputed, true},
		{types.RoundStateAggregating, types.RoundStateAborted, true},
		{types.RoundStateAggregating, types.RoundStateOpen, false},
		{types.RoundStateCommitted, types.RoundStateOpen, false},
		{types.RoundStateCommitted, types.RoundStateAggregating, false},
		{types.RoundStateDisputed, types.RoundStateCommitted, false},
		{types.RoundStateAborted, types.RoundStateAggregating, false},
	}

	for _, tc := range tests {
		require.Equal(t, tc.allowed, tc.from.CanTransitionTo(tc.to),
			"%s -> %s", tc.from, tc.to)
	}
}

func TestRoundStateIsTerminal(t *testing.T) {
	require.False(t, types.RoundStateOpen.IsTerminal())
	require.False(t, types.RoundStateAggregating.IsTerminal())
	require.True(t, types.RoundStateCommitted.IsTerminal())
	require.True(t, types.RoundStateDisputed.IsTerminal())
	require.True(t, types.RoundStateAborted.IsTerminal())
}

func TestSubmissionSignBytesDeterministic(t *testing.T) {
	value := types.NewNumericValue(math.LegacyNewDec(100))

	a := types.SubmissionSignBytes("BTC/USD", 7, value, 1_700_000_000)
	b := types.SubmissionSignBytes("BTC/USD", 7, value, 1_700_000_000)
	require.Equal(t, a, b)

	// Every field participates in the digest.
	require.NotEqual(t, a, types.SubmissionSignBytes("ETH/USD", 7, value, 1_700_000_000))
	require.NotEqual(t, a, types.SubmissionSignBytes("BTC/USD", 8, value, 1_700_000_000))
	require.NotEqual(t, a, types.SubmissionSignBytes("BTC/USD", 7, types.NewNumericValue(math.LegacyNewDec(101)), 1_700_000_000))
	require.NotEqual(t, a, types.SubmissionSignBytes("BTC/USD", 7, value, 1_700_000_001))
}

func TestRoundMembership(t *testing.T) {
	round := types.Round{
		FeedId:     "BTC/USD",
		Number:     3,
		Authorized: []string{"alice", "bob"},
		Submissions: []types.Submission{
			{Reporter: "alice", Round: 3},
		},
	}

	require.True(t, round.IsAuthorized("alice"))
	require.True(t, round.IsAuthorized("bob"))
	require.False(t, round.IsAuthorized("mallory"))

	require.True(t, round.HasSubmissionFrom("alice"))
	require.False(t, round.HasSubmissionFrom("bob"))
}

func TestSubmissionValidate(t *testing.T) {
	valid := types.Submission{
		FeedId:    "BTC/USD",
		Reporter:  "alice",
		Round:     1,
		Value:     types.NewNumericValue(math.LegacyNewDec(100)),
		Timestamp: 1_700_000_000,
		Proof:     []byte{0x01},
	}
	require.NoError(t, valid.Validate())

	missingProof := valid
	missingProof.Proof = nil
	require.Error(t, missingProof.Validate())

	zeroRound := valid
	zeroRound.Round = 0
	require.Error(t, zeroRound.Validate())

	nilValue := valid
	nilValue.Value = types.DataValue{}
	require.Error(t, nilValue.Validate())
}
