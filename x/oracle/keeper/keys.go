package keeper

import (
	"encoding/binary"
)

var (
	// ModuleNamespace is the namespace byte for the oracle module.
	// All store keys are prefixed with this byte to prevent collisions with other modules
	ModuleNamespace = byte(0x05)

	// ParamsKey is the key for module parameters
	ParamsKey = []byte{0x05, 0x01}

	// InitializedKey marks the one-time registry bootstrap
	InitializedKey = []byte{0x05, 0x02}

	// FeedKeyPrefix is the prefix for feed records
	FeedKeyPrefix = []byte{0x05, 0x03}

	// ReporterKeyPrefix is the prefix for reporter records
	ReporterKeyPrefix = []byte{0x05, 0x04}

	// RoundKeyPrefix is the prefix for round records, keyed (feed, number)
	RoundKeyPrefix = []byte{0x05, 0x05}

	// ReputationRoundKeyPrefix tracks the last round whose reputation
	// adjustment was applied, per (feed, reporter). Retried commits are
	// idempotent through it.
	ReputationRoundKeyPrefix = []byte{0x05, 0x06}
)

// GetFeedKey returns the store key for a feed by identifier
func GetFeedKey(feedID string) []byte {
	return append(FeedKeyPrefix, []byte(feedID)...)
}

// GetReporterKey returns the store key for a reporter by address
func GetReporterKey(addr string) []byte {
	return append(ReporterKeyPrefix, []byte(addr)...)
}

// GetRoundKey returns the store key for a round by (feed, number)
func GetRoundKey(feedID string, number uint64) []byte {
	key := append(RoundKeyPrefix, []byte(feedID)...)
	key = append(key, byte(0x00)) // separator
	return binary.BigEndian.AppendUint64(key, number)
}

// GetRoundsByFeedKey returns the prefix for all rounds of a feed, ordered by
// round number
func GetRoundsByFeedKey(feedID string) []byte {
	key := append(RoundKeyPrefix, []byte(feedID)...)
	return append(key, byte(0x00))
}

// GetReputationRoundKey returns the store key for the last applied reputation
// round of a (feed, reporter) pair
func GetReputationRoundKey(feedID, reporter string) []byte {
	key := append(ReputationRoundKeyPrefix, []byte(feedID)...)
	key = append(key, byte(0x00)) // separator
	return append(key, []byte(reporter)...)
}
