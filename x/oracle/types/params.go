package types

import (
	"fmt"

	"cosmossdk.io/math"
)

// DefaultBondDenom is the stake denomination reporters escrow on registration.
const DefaultBondDenom = "uorc"

// Params holds the registry-wide tunables of the oracle engine. Aggregation
// and slashing policies are deliberately parameters, not constants, so
// governance can retune them without a code change.
type Params struct {
	// BondDenom is the denomination of reporter stake.
	BondDenom string `json:"bond_denom"`

	// MinReporterStake is the feed-independent registration minimum.
	MinReporterStake math.Int `json:"min_reporter_stake"`

	// MinSources floors every feed's quorum. A consensus over fewer than two
	// independent reporters is no consensus at all.
	MinSources uint32 `json:"min_sources"`

	// Reputation bounds and adjustment step.
	InitialReputation uint32 `json:"initial_reputation"`
	MaxReputation     uint32 `json:"max_reputation"`
	ReputationFloor   uint32 `json:"reputation_floor"`
	ReputationDelta   uint32 `json:"reputation_delta"`

	// InnerBandFraction scales a feed's deviation threshold down to the tight
	// band inside which committed reporters earn reputation.
	InnerBandFraction math.LegacyDec `json:"inner_band_fraction"`

	// DisputeWeightFraction is the weight share of beyond-threshold
	// submissions at which a round outcome flips from Committed to Disputed.
	DisputeWeightFraction math.LegacyDec `json:"dispute_weight_fraction"`

	// SlashFraction of stake is burned when a committed reporter lands outside
	// the feed's deviation threshold.
	SlashFraction math.LegacyDec `json:"slash_fraction"`

	// RetentionRounds is how many terminal rounds are kept per feed before
	// pruning.
	RetentionRounds uint64 `json:"retention_rounds"`
}

// DefaultParams returns the default oracle parameters.
func DefaultParams() Params {
	return Params{
		BondDenom:        DefaultBondDenom,
		MinReporterStake: math.NewInt(1_000_000),
		MinSources:       2,

		InitialReputation: 500,
		MaxReputation:     1000,
		ReputationFloor:   200,
		ReputationDelta:   10,

		InnerBandFraction: math.LegacyMustNewDecFromStr("0.5"),
		// One third mirrors the classic BFT bound: if a third of the weight
		// disagrees beyond the threshold, the round is ambiguous.
		DisputeWeightFraction: math.LegacyMustNewDecFromStr("0.333333333333333333"),
		SlashFraction:         math.LegacyMustNewDecFromStr("0.01"),

		RetentionRounds: 100,
	}
}

// Validate performs basic sanity checks on the parameters.
func (p Params) Validate() error {
	if p.BondDenom == "" {
		return fmt.Errorf("bond denom cannot be empty")
	}
	if p.MinReporterStake.IsNil() || !p.MinReporterStake.IsPositive() {
		return fmt.Errorf("minimum reporter stake must be positive")
	}
	if p.MinSources < 2 {
		return fmt.Errorf("minimum sources must be at least 2")
	}
	if p.MaxReputation == 0 {
		return fmt.Errorf("max reputation must be positive")
	}
	if p.InitialReputation > p.MaxReputation {
		return fmt.Errorf("initial reputation %d exceeds max %d", p.InitialReputation, p.MaxReputation)
	}
	if p.ReputationFloor > p.MaxReputation {
		return fmt.Errorf("reputation floor %d exceeds max %d", p.ReputationFloor, p.MaxReputation)
	}
	if p.ReputationDelta == 0 || p.ReputationDelta > p.MaxReputation {
		return fmt.Errorf("reputation delta must be in (0, %d]", p.MaxReputation)
	}
	if p.InnerBandFraction.IsNil() || !p.InnerBandFraction.IsPositive() || p.InnerBandFraction.GT(math.LegacyOneDec()) {
		return fmt.Errorf("inner band fraction must be in (0, 1]")
	}
	if p.DisputeWeightFraction.IsNil() || !p.DisputeWeightFraction.IsPositive() || p.DisputeWeightFraction.GT(math.LegacyOneDec()) {
		return fmt.Errorf("dispute weight fraction must be in (0, 1]")
	}
	if p.SlashFraction.IsNil() || p.SlashFraction.IsNegative() || p.SlashFraction.GT(math.LegacyOneDec()) {
		return fmt.Errorf("slash fraction must be in [0, 1]")
	}
	if p.RetentionRounds == 0 {
		return fmt.Errorf("retention rounds must be positive")
	}
	return nil
}
