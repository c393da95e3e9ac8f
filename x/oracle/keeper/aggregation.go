package keeper

import (
	"sort"
	"time"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/oracle-chain/oraclechain/x/oracle/types"
)

// weightedValue pairs one accepted submission with its reporter's aggregation
// weight (stake scaled by reputation).
type weightedValue struct {
	Reporter string
	Value    types.DataValue
	Weight   math.Int
}

// Aggregate combines a closed round's accepted submissions into one consensus
// value with a dispersion score. It never fails: a round that cannot be
// aggregated (no submissions, zero total weight) aborts.
func (k Keeper) Aggregate(ctx sdk.Context, feed types.Feed, round types.Round) types.RoundResult {
	start := time.Now()
	defer func() {
		if k.metrics != nil {
			k.metrics.AggregationLatency.Observe(time.Since(start).Seconds())
		}
	}()

	ctx.GasMeter().ConsumeGas(30000, "oracle_aggregate_base")

	weighted := k.collectWeights(ctx, round)
	ctx.GasMeter().ConsumeGas(uint64(len(weighted))*1000, "oracle_aggregate_weights")

	totalWeight := math.ZeroInt()
	for _, wv := range weighted {
		totalWeight = totalWeight.Add(wv.Weight)
	}
	if len(weighted) == 0 || !totalWeight.IsPositive() {
		return types.RoundResult{
			ConsensusValue:  types.NewNumericValue(math.LegacyZeroDec()),
			DispersionScore: math.LegacyZeroDec(),
			Outcome:         types.RoundStateAborted,
		}
	}

	params := k.GetParams(ctx)

	var consensus types.DataValue
	var dispersion math.LegacyDec
	var disputedWeight math.Int

	ctx.GasMeter().ConsumeGas(uint64(len(weighted))*500, "oracle_aggregate_consensus")

	switch feed.Kind {
	case types.FeedKindCategorical:
		consensus, dispersion = aggregateCategorical(weighted, totalWeight)
		disputedWeight = math.ZeroInt()
		for _, wv := range weighted {
			if wv.Value.Label != consensus.Label {
				disputedWeight = disputedWeight.Add(wv.Weight)
			}
		}
	default:
		median := weightedMedian(weighted, totalWeight)
		consensus = types.NewNumericValue(median)
		dispersion = weightedDispersion(weighted, totalWeight, median)
		disputedWeight = math.ZeroInt()
		for _, wv := range weighted {
			if relativeDeviation(wv.Value.Numeric, median).GT(feed.DeviationThreshold) {
				disputedWeight = disputedWeight.Add(wv.Weight)
			}
		}
	}

	outcome := types.RoundStateCommitted
	disputedShare := math.LegacyNewDecFromInt(disputedWeight).Quo(math.LegacyNewDecFromInt(totalWeight))
	if dispersion.GT(feed.DeviationThreshold) || disputedShare.GTE(params.DisputeWeightFraction) {
		outcome = types.RoundStateDisputed
	}

	contributing := make([]string, 0, len(weighted))
	for _, wv := range weighted {
		contributing = append(contributing, wv.Reporter)
	}

	if k.metrics != nil {
		k.metrics.Dispersion.WithLabelValues(feed.Id).Set(mustFloat(dispersion))
		if feed.Kind == types.FeedKindNumeric {
			k.metrics.ConsensusValue.WithLabelValues(feed.Id).Set(mustFloat(consensus.Numeric))
		}
	}

	return types.RoundResult{
		ConsensusValue:        consensus,
		DispersionScore:       dispersion,
		Outcome:               outcome,
		ContributingReporters: contributing,
	}
}

// collectWeights resolves each submission's reporter weight at aggregation
// time. A reporter missing from the registry contributes zero weight but
// stays attributable in the round history.
func (k Keeper) collectWeights(ctx sdk.Context, round types.Round) []weightedValue {
	weighted := make([]weightedValue, 0, len(round.Submissions))
	for _, sub := range round.Submissions {
		weight := math.ZeroInt()
		if reporter, err := k.GetReporter(ctx, sub.Reporter); err == nil {
			weight = reporter.Weight()
		}
		weighted = append(weighted, weightedValue{
			Reporter: sub.Reporter,
			Value:    sub.Value,
			Weight:   weight,
		})
	}
	return weighted
}

// weightedMedian returns the value at which cumulative weight first reaches
// half of the total. An exact half split averages the two boundary values, so
// a single high-stake outlier cannot drag the consensus.
func weightedMedian(weighted []weightedValue, totalWeight math.Int) math.LegacyDec {
	sorted := make([]weightedValue, len(weighted))
	copy(sorted, weighted)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Value.Numeric.LT(sorted[j].Value.Numeric)
	})

	cumulative := math.ZeroInt()
	for i, wv := range sorted {
		cumulative = cumulative.Add(wv.Weight)
		doubled := cumulative.MulRaw(2)
		if doubled.Equal(totalWeight) && i+1 < len(sorted) {
			return wv.Value.Numeric.Add(sorted[i+1].Value.Numeric).QuoInt64(2)
		}
		if doubled.GTE(totalWeight) {
			return wv.Value.Numeric
		}
	}
	return sorted[len(sorted)-1].Value.Numeric
}

// weightedDispersion is the weighted median absolute deviation from the
// consensus value, relative to the consensus when it is nonzero.
func weightedDispersion(weighted []weightedValue, totalWeight math.Int, consensus math.LegacyDec) math.LegacyDec {
	deviations := make([]weightedValue, len(weighted))
	for i, wv := range weighted {
		deviations[i] = weightedValue{
			Reporter: wv.Reporter,
			Value:    types.NewNumericValue(wv.Value.Numeric.Sub(consensus).Abs()),
			Weight:   wv.Weight,
		}
	}

	mad := weightedMedian(deviations, totalWeight)
	if consensus.IsZero() {
		return mad
	}
	return mad.Quo(consensus.Abs())
}

// aggregateCategorical returns the weighted plurality label and the losing
// weight share as dispersion.
func aggregateCategorical(weighted []weightedValue, totalWeight math.Int) (types.DataValue, math.LegacyDec) {
	tally := make(map[string]math.Int, len(weighted))
	order := make([]string, 0, len(weighted))
	for _, wv := range weighted {
		if _, ok := tally[wv.Value.Label]; !ok {
			tally[wv.Value.Label] = math.ZeroInt()
			order = append(order, wv.Value.Label)
		}
		tally[wv.Value.Label] = tally[wv.Value.Label].Add(wv.Weight)
	}

	// Deterministic winner: highest weight, ties broken by arrival order.
	winner := order[0]
	for _, label := range order[1:] {
		if tally[label].GT(tally[winner]) {
			winner = label
		}
	}

	losing := totalWeight.Sub(tally[winner])
	dispersion := math.LegacyNewDecFromInt(losing).Quo(math.LegacyNewDecFromInt(totalWeight))
	return types.NewCategoricalValue(winner), dispersion
}

// relativeDeviation returns |v - consensus| / |consensus|, or the absolute
// deviation when the consensus is zero.
func relativeDeviation(v, consensus math.LegacyDec) math.LegacyDec {
	dev := v.Sub(consensus).Abs()
	if consensus.IsZero() {
		return dev
	}
	return dev.Quo(consensus.Abs())
}

// categoricalDeviation is 0 for the consensus label and 1 otherwise, so the
// reputation band logic treats disagreeing attesters as out-of-threshold.
func categoricalDeviation(v types.DataValue, consensus types.DataValue) math.LegacyDec {
	if v.Label == consensus.Label {
		return math.LegacyZeroDec()
	}
	return math.LegacyOneDec()
}

func mustFloat(d math.LegacyDec) float64 {
	f, err := d.Float64()
	if err != nil {
		return 0
	}
	return f
}
