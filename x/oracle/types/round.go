package types

import (
	"encoding/binary"
	"fmt"

	"cosmossdk.io/math"
)

// RoundState is the lifecycle state of an aggregation round.
type RoundState string

const (
	RoundStateOpen        RoundState = "open"
	RoundStateAggregating RoundState = "aggregating"
	RoundStateCommitted   RoundState = "committed"
	RoundStateDisputed    RoundState = "disputed"
	RoundStateAborted     RoundState = "aborted"
)

// IsTerminal reports whether the state ends the round. Terminal rounds are
// immutable history; a new round is opened only via OpenNextRound.
func (s RoundState) IsTerminal() bool {
	switch s {
	case RoundStateCommitted, RoundStateDisputed, RoundStateAborted:
		return true
	}
	return false
}

// CanTransitionTo encodes the legal state machine:
// Open -> Aggregating -> {Committed, Disputed, Aborted}.
func (s RoundState) CanTransitionTo(next RoundState) bool {
	switch s {
	case RoundStateOpen:
		return next == RoundStateAggregating
	case RoundStateAggregating:
		return next.IsTerminal()
	}
	return false
}

// Submission is a single reporter's value for one round. Submissions are owned
// by the round they target; once the round closes they are immutable history.
type Submission struct {
	FeedId    string    `json:"feed_id"`
	Reporter  string    `json:"reporter"`
	Round     uint64    `json:"round"`
	Value     DataValue `json:"value"`
	Timestamp int64     `json:"timestamp"`
	Proof     []byte    `json:"proof"`
}

// Validate performs stateless shape checks on a submission.
func (s Submission) Validate() error {
	if s.FeedId == "" {
		return fmt.Errorf("feed id cannot be empty")
	}
	if s.Reporter == "" {
		return fmt.Errorf("reporter address cannot be empty")
	}
	if s.Round == 0 {
		return fmt.Errorf("round number cannot be zero")
	}
	if s.Value.IsZero() && s.Value.Numeric.IsNil() {
		return fmt.Errorf("value cannot be nil")
	}
	if s.Timestamp <= 0 {
		return fmt.Errorf("timestamp must be positive")
	}
	if len(s.Proof) == 0 {
		return fmt.Errorf("proof cannot be empty")
	}
	return nil
}

// SubmissionSignBytes returns the canonical bytes a reporter signs to prove
// authorship of a submission. Reporters, the validator and tests must agree on
// this layout, so it is defined once here.
func SubmissionSignBytes(feedID string, round uint64, value DataValue, timestamp int64) []byte {
	buf := make([]byte, 0, len(feedID)+len(value.String())+20)
	buf = append(buf, feedID...)
	buf = append(buf, '/')
	buf = binary.BigEndian.AppendUint64(buf, round)
	buf = append(buf, value.String()...)
	buf = binary.BigEndian.AppendUint64(buf, uint64(timestamp))
	return buf
}

// Round is one aggregation cycle for a feed. It owns its accepted submissions
// in arrival order and carries the authorized-reporter snapshot taken when the
// round opened, so mid-round eligibility changes cannot invalidate accepted
// submissions.
type Round struct {
	FeedId            string     `json:"feed_id"`
	Number            uint64     `json:"number"`
	OpenedAt          int64      `json:"opened_at"`
	ClosedAt          int64      `json:"closed_at,omitempty"`
	State             RoundState `json:"state"`
	Authorized        []string   `json:"authorized"`
	AuthorizedVersion uint64     `json:"authorized_version"`

	Submissions []Submission `json:"submissions,omitempty"`

	// Outcome fields, populated when the round reaches a terminal state.
	ConsensusValue        DataValue      `json:"consensus_value"`
	DispersionScore       math.LegacyDec `json:"dispersion_score"`
	ContributingReporters []string       `json:"contributing_reporters,omitempty"`
}

// HasSubmissionFrom reports whether the reporter already submitted this round.
func (r Round) HasSubmissionFrom(addr string) bool {
	for _, s := range r.Submissions {
		if s.Reporter == addr {
			return true
		}
	}
	return false
}

// IsAuthorized reports whether the address is in the round's authorized
// snapshot.
func (r Round) IsAuthorized(addr string) bool {
	for _, a := range r.Authorized {
		if a == addr {
			return true
		}
	}
	return false
}

// Deadline returns the timestamp after which the round is stale.
func (r Round) Deadline(stalenessTimeout int64) int64 {
	return r.OpenedAt + stalenessTimeout
}

// Result reconstructs the aggregation outcome of a terminal round.
func (r Round) Result() RoundResult {
	return RoundResult{
		ConsensusValue:        r.ConsensusValue,
		DispersionScore:       r.DispersionScore,
		Outcome:               r.State,
		ContributingReporters: r.ContributingReporters,
	}
}

// RoundResult is the aggregator's verdict for a closed round.
type RoundResult struct {
	ConsensusValue        DataValue      `json:"consensus_value"`
	DispersionScore       math.LegacyDec `json:"dispersion_score"`
	Outcome               RoundState     `json:"outcome"`
	ContributingReporters []string       `json:"contributing_reporters,omitempty"`
}
