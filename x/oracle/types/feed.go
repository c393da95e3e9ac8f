package types

import (
	"fmt"

	"cosmossdk.io/math"
)

// FeedKind selects the aggregation strategy for a feed's data values.
type FeedKind string

const (
	// FeedKindNumeric aggregates decimal values with a stake-weighted median.
	FeedKindNumeric FeedKind = "numeric"

	// FeedKindCategorical aggregates attestation labels with a stake-weighted
	// plurality vote.
	FeedKindCategorical FeedKind = "categorical"
)

// IsValid reports whether the kind is a known feed kind.
func (k FeedKind) IsValid() bool {
	return k == FeedKindNumeric || k == FeedKindCategorical
}

// DataValue is the tagged value variant carried by submissions and committed
// feed state. The feed's kind decides which field is meaningful.
type DataValue struct {
	Numeric math.LegacyDec `json:"numeric"`
	Label   string         `json:"label,omitempty"`
}

// NewNumericValue returns a numeric data value.
func NewNumericValue(v math.LegacyDec) DataValue {
	return DataValue{Numeric: v}
}

// NewCategoricalValue returns a categorical attestation value. The numeric
// field is zeroed so the struct always marshals cleanly.
func NewCategoricalValue(label string) DataValue {
	return DataValue{Numeric: math.LegacyZeroDec(), Label: label}
}

// IsZero reports whether the value carries no data.
func (v DataValue) IsZero() bool {
	return v.Label == "" && (v.Numeric.IsNil() || v.Numeric.IsZero())
}

// String returns the canonical textual form used in sign bytes and events.
func (v DataValue) String() string {
	if v.Label != "" {
		return v.Label
	}
	if v.Numeric.IsNil() {
		return ""
	}
	return v.Numeric.String()
}

// Feed is the durable record of a tracked data feed: its configuration and
// current committed state. Authorized reporters are held as addresses only;
// the Reporter Registry owns the reporter records.
type Feed struct {
	Id                  string         `json:"id"`
	Kind                FeedKind       `json:"kind"`
	Decimals            uint32         `json:"decimals"`
	AuthorizedReporters []string       `json:"authorized_reporters"`
	AuthorizedVersion   uint64         `json:"authorized_version"`
	CurrentValue        DataValue      `json:"current_value"`
	LastCommitTime      int64          `json:"last_commit_time"`
	CurrentRound        uint64         `json:"current_round"`
	DeviationThreshold  math.LegacyDec `json:"deviation_threshold"`
	MinQuorum           uint32         `json:"min_quorum"`
	StalenessTimeout    int64          `json:"staleness_timeout"`

	// Numeric sanity range. MaxValue of zero disables the upper bound.
	MinValue math.LegacyDec `json:"min_value"`
	MaxValue math.LegacyDec `json:"max_value"`

	// Allowed labels for categorical feeds.
	AllowedLabels []string `json:"allowed_labels,omitempty"`
}

// Validate performs stateless configuration checks on a feed.
func (f Feed) Validate() error {
	if f.Id == "" {
		return fmt.Errorf("feed id cannot be empty")
	}
	if !f.Kind.IsValid() {
		return fmt.Errorf("unknown feed kind: %q", f.Kind)
	}
	if f.MinQuorum == 0 {
		return fmt.Errorf("quorum must be at least 1")
	}
	if int(f.MinQuorum) > len(f.AuthorizedReporters) {
		return fmt.Errorf("quorum %d exceeds authorized reporter count %d", f.MinQuorum, len(f.AuthorizedReporters))
	}
	if f.DeviationThreshold.IsNil() || !f.DeviationThreshold.IsPositive() {
		return fmt.Errorf("deviation threshold must be positive")
	}
	if f.StalenessTimeout <= 0 {
		return fmt.Errorf("staleness timeout must be positive")
	}

	seen := make(map[string]struct{}, len(f.AuthorizedReporters))
	for _, addr := range f.AuthorizedReporters {
		if addr == "" {
			return fmt.Errorf("authorized reporter address cannot be empty")
		}
		if _, ok := seen[addr]; ok {
			return fmt.Errorf("duplicate authorized reporter: %s", addr)
		}
		seen[addr] = struct{}{}
	}

	switch f.Kind {
	case FeedKindNumeric:
		if f.MinValue.IsNil() || f.MaxValue.IsNil() {
			return fmt.Errorf("numeric feed requires value bounds")
		}
		if !f.MaxValue.IsZero() && f.MaxValue.LT(f.MinValue) {
			return fmt.Errorf("max value %s below min value %s", f.MaxValue, f.MinValue)
		}
	case FeedKindCategorical:
		if len(f.AllowedLabels) == 0 {
			return fmt.Errorf("categorical feed requires allowed labels")
		}
	}

	return nil
}

// IsAuthorized reports whether the address is in the feed's current
// authorized set.
func (f Feed) IsAuthorized(addr string) bool {
	for _, r := range f.AuthorizedReporters {
		if r == addr {
			return true
		}
	}
	return false
}

// InNumericBounds reports whether a numeric value is inside the feed's
// declared sanity range.
func (f Feed) InNumericBounds(v math.LegacyDec) bool {
	if v.IsNil() || v.LT(f.MinValue) {
		return false
	}
	if !f.MaxValue.IsZero() && v.GT(f.MaxValue) {
		return false
	}
	return true
}

// IsAllowedLabel reports whether a label is in the feed's declared label set.
func (f Feed) IsAllowedLabel(label string) bool {
	for _, l := range f.AllowedLabels {
		if l == label {
			return true
		}
	}
	return false
}
