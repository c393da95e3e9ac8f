package types_test

import (
	"testing"

	"cosmossdk.io/math"
	"github.com/stretchr/testify/require"

	"github.com/oracle-chain/oraclechain/x/oracle/types"
)

func validNumericFeed() types.Feed {
	return types.Feed{
		Id:                  "BTC/USD",
		Kind:                types.FeedKindNumeric,
		Decimals:            8,
		AuthorizedReporters: []string{"reporter-a", "reporter-b", "reporter-c"},
		DeviationThreshold:  math.LegacyMustNewDecFromStr("0.05"),
		MinQuorum:           2,
		StalenessTimeout:    300,
		MinValue:            math.LegacyZeroDec(),
		MaxValue:            math.LegacyNewDec(10_000_000),
	}
}

func TestFeedValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(f *types.Feed)
		wantErr string
	}{
		{
			name:   "valid numeric feed",
			mutate: func(f *types.Feed) {},
		},
		{
			name: "valid categorical feed",
			mutate: func(f *types.Feed) {
				f.Kind = types.FeedKindCategorical
				f.AllowedLabels = []string{"up", "down"}
			},
		},
		{
			name:    "empty id",
			mutate:  func(f *types.Feed) { f.Id = "" },
			wantErr: "feed id",
		},
		{
			name:    "unknown kind",
			mutate:  func(f *types.Feed) { f.Kind = "fancy" },
			wantErr: "unknown feed kind",
		},
		{
			name:    "zero quorum",
			mutate:  func(f *types.Feed) { f.MinQuorum = 0 },
			wantErr: "quorum",
		},
		{
			name:    "quorum above reporter count",
			mutate:  func(f *types.Feed) { f.MinQuorum = 4 },
			wantErr: "exceeds authorized reporter count",
		},
		{
			name:    "zero deviation threshold",
			mutate:  func(f *types.Feed) { f.DeviationThreshold = math.LegacyZeroDec() },
			wantErr: "deviation threshold",
		},
		{
			name:    "zero staleness timeout",
			mutate:  func(f *types.Feed) { f.StalenessTimeout = 0 },
			wantErr: "staleness timeout",
		},
		{
			name: "duplicate reporter",
			mutate: func(f *types.Feed) {
				f.AuthorizedReporters = []string{"reporter-a", "reporter-a"}
			},
			wantErr: "duplicate authorized reporter",
		},
		{
			name: "inverted bounds",
			mutate: func(f *types.Feed) {
				f.MinValue = math.LegacyNewDec(100)
				f.MaxValue = math.LegacyNewDec(50)
			},
			wantErr: "below min value",
		},
		{
			name: "categorical without labels",
			mutate: func(f *types.Feed) {
				f.Kind = types.FeedKindCategorical
			},
			wantErr: "requires allowed labels",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			feed := validNumericFeed()
			tc.mutate(&feed)
			err := feed.Validate()
			if tc.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			require.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestFeedInNumericBounds(t *testing.T) {
	feed := validNumericFeed()
	feed.MinValue = math.LegacyNewDec(10)
	feed.MaxValue = math.LegacyNewDec(100)

	require.True(t, feed.InNumericBounds(math.LegacyNewDec(10)))
	require.True(t, feed.InNumericBounds(math.LegacyNewDec(100)))
	require.False(t, feed.InNumericBounds(math.LegacyNewDec(9)))
	require.False(t, feed.InNumericBounds(math.LegacyNewDec(101)))
	require.False(t, feed.InNumericBounds(math.LegacyDec{}))

	// Zero max disables the upper bound.
	feed.MaxValue = math.LegacyZeroDec()
	require.True(t, feed.InNumericBounds(math.LegacyNewDec(1_000_000_000)))
}

func TestDataValueString(t *testing.T) {
	require.Equal(t, "up", types.NewCategoricalValue("up").String())
	require.Equal(t, "42.500000000000000000", types.NewNumericValue(math.LegacyMustNewDecFromStr("42.5")).String())
	require.Equal(t, "", types.DataValue{}.String())
}
