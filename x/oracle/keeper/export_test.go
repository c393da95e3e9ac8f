package keeper

// This file exports private aggregation helpers for testing purposes.
// This is a standard Go testing pattern for white-box testing.

import (
	sdkmath "cosmossdk.io/math"

	"github.com/oracle-chain/oraclechain/x/oracle/types"
)

func makeWeighted(values []types.DataValue, weights []sdkmath.Int) ([]weightedValue, sdkmath.Int) {
	weighted := make([]weightedValue, len(values))
	total := sdkmath.ZeroInt()
	for i := range values {
		weighted[i] = weightedValue{Value: values[i], Weight: weights[i]}
		total = total.Add(weights[i])
	}
	return weighted, total
}

// Exported for testing: stake-weighted median
func WeightedMedian(values []sdkmath.LegacyDec, weights []sdkmath.Int) sdkmath.LegacyDec {
	dvs := make([]types.DataValue, len(values))
	for i, v := range values {
		dvs[i] = types.NewNumericValue(v)
	}
	weighted, total := makeWeighted(dvs, weights)
	return weightedMedian(weighted, total)
}

// Exported for testing: weighted median absolute deviation
func WeightedDispersion(values []sdkmath.LegacyDec, weights []sdkmath.Int, consensus sdkmath.LegacyDec) sdkmath.LegacyDec {
	dvs := make([]types.DataValue, len(values))
	for i, v := range values {
		dvs[i] = types.NewNumericValue(v)
	}
	weighted, total := makeWeighted(dvs, weights)
	return weightedDispersion(weighted, total, consensus)
}

// Exported for testing: weighted plurality vote
func AggregateCategorical(labels []string, weights []sdkmath.Int) (types.DataValue, sdkmath.LegacyDec) {
	dvs := make([]types.DataValue, len(labels))
	for i, l := range labels {
		dvs[i] = types.NewCategoricalValue(l)
	}
	weighted, total := makeWeighted(dvs, weights)
	return aggregateCategorical(weighted, total)
}

// Exported for testing: relative deviation from consensus
func RelativeDeviation(v, consensus sdkmath.LegacyDec) sdkmath.LegacyDec {
	return relativeDeviation(v, consensus)
}
