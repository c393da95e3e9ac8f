package types

// Event types for the oracle module.
// All event types use lowercase with underscore separator (module_action format)
const (
	EventTypeInitialized        = "oracle_initialized"
	EventTypeFeedCreated        = "oracle_feed_created"
	EventTypeReportersUpdated   = "oracle_reporters_updated"
	EventTypeReporterRegistered = "oracle_reporter_registered"
	EventTypeReporterSlashed    = "oracle_reporter_slashed"
	EventTypeReporterRemoved    = "oracle_reporter_removed"
	EventTypeValueSubmitted     = "oracle_value_submitted"
	EventTypeRoundClosed        = "oracle_round_closed"
	EventTypeRoundOpened        = "oracle_round_opened"
	EventTypeValueCommitted     = "oracle_value_committed"
	EventTypeRoundDisputed      = "oracle_round_disputed"
	EventTypeParamsUpdated      = "oracle_params_updated"
)

// Event attribute keys for the oracle module
const (
	AttributeKeyFeedId     = "feed_id"
	AttributeKeyKind       = "kind"
	AttributeKeyReporter   = "reporter"
	AttributeKeyRound      = "round"
	AttributeKeyState      = "state"
	AttributeKeyOutcome    = "outcome"
	AttributeKeyValue      = "value"
	AttributeKeyDispersion = "dispersion"
	AttributeKeyQuorum     = "quorum"
	AttributeKeyStake      = "stake"
	AttributeKeyReputation = "reputation"
	AttributeKeySlashed    = "slashed"
	AttributeKeyAdded      = "added"
	AttributeKeyRemoved    = "removed"
	AttributeKeyVersion    = "version"
	AttributeKeyReason     = "reason"
	AttributeKeyReporters  = "num_reporters"
)
