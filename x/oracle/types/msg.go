package types

import (
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// Message type names
const (
	TypeMsgInitialize                = "initialize"
	TypeMsgCreateFeed                = "create_feed"
	TypeMsgRegisterReporter          = "register_reporter"
	TypeMsgSubmitValue               = "submit_value"
	TypeMsgCloseRound                = "close_round"
	TypeMsgOpenNextRound             = "open_next_round"
	TypeMsgUpdateAuthorizedReporters = "update_authorized_reporters"
	TypeMsgUpdateParams              = "update_params"
)

// MsgInitialize performs the one-time creation of the feed and reporter
// registries.
type MsgInitialize struct {
	Authority string `json:"authority"`
	Params    Params `json:"params"`
}

// NewMsgInitialize creates a new MsgInitialize instance
func NewMsgInitialize(authority string, params Params) *MsgInitialize {
	return &MsgInitialize{Authority: authority, Params: params}
}

// ValidateBasic performs stateless validation
func (msg *MsgInitialize) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Authority); err != nil {
		return ErrUnauthorized.Wrapf("invalid authority address: %s", err)
	}
	if err := msg.Params.Validate(); err != nil {
		return ErrInvalidParams.Wrap(err.Error())
	}
	return nil
}

// MsgInitializeResponse is the response for MsgInitialize
type MsgInitializeResponse struct{}

// MsgCreateFeed registers a new data feed with the Feed Registry.
type MsgCreateFeed struct {
	Authority string `json:"authority"`
	Feed      Feed   `json:"feed"`
}

// NewMsgCreateFeed creates a new MsgCreateFeed instance
func NewMsgCreateFeed(authority string, feed Feed) *MsgCreateFeed {
	return &MsgCreateFeed{Authority: authority, Feed: feed}
}

// ValidateBasic performs stateless validation
func (msg *MsgCreateFeed) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Authority); err != nil {
		return ErrUnauthorized.Wrapf("invalid authority address: %s", err)
	}
	if err := msg.Feed.Validate(); err != nil {
		return ErrInvalidConfig.Wrap(err.Error())
	}
	return nil
}

// MsgCreateFeedResponse is the response for MsgCreateFeed
type MsgCreateFeedResponse struct{}

// MsgRegisterReporter registers a data submitter with the Reporter Registry,
// escrowing its stake.
type MsgRegisterReporter struct {
	Reporter   string   `json:"reporter"`
	Credential string   `json:"credential"`
	Stake      sdk.Coin `json:"stake"`
}

// NewMsgRegisterReporter creates a new MsgRegisterReporter instance
func NewMsgRegisterReporter(reporter, credential string, stake sdk.Coin) *MsgRegisterReporter {
	return &MsgRegisterReporter{Reporter: reporter, Credential: credential, Stake: stake}
}

// ValidateBasic performs stateless validation
func (msg *MsgRegisterReporter) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Reporter); err != nil {
		return ErrReporterNotFound.Wrapf("invalid reporter address: %s", err)
	}
	if msg.Credential == "" {
		return ErrInvalidConfig.Wrap("credential cannot be empty")
	}
	if err := msg.Stake.Validate(); err != nil {
		return ErrInsufficientStake.Wrapf("invalid stake: %s", err)
	}
	if msg.Stake.IsZero() {
		return ErrInsufficientStake.Wrap("stake cannot be zero")
	}
	return nil
}

// MsgRegisterReporterResponse is the response for MsgRegisterReporter
type MsgRegisterReporterResponse struct{}

// MsgSubmitValue submits one reporter's value for a feed's current round.
type MsgSubmitValue struct {
	Reporter  string    `json:"reporter"`
	FeedId    string    `json:"feed_id"`
	Round     uint64    `json:"round"`
	Value     DataValue `json:"value"`
	Timestamp int64     `json:"timestamp"`
	Proof     []byte    `json:"proof"`
}

// NewMsgSubmitValue creates a new MsgSubmitValue instance
func NewMsgSubmitValue(reporter, feedID string, round uint64, value DataValue, timestamp int64, proof []byte) *MsgSubmitValue {
	return &MsgSubmitValue{
		Reporter:  reporter,
		FeedId:    feedID,
		Round:     round,
		Value:     value,
		Timestamp: timestamp,
		Proof:     proof,
	}
}

// Submission converts the message into its submission record.
func (msg *MsgSubmitValue) Submission() Submission {
	return Submission{
		FeedId:    msg.FeedId,
		Reporter:  msg.Reporter,
		Round:     msg.Round,
		Value:     msg.Value,
		Timestamp: msg.Timestamp,
		Proof:     msg.Proof,
	}
}

// ValidateBasic performs stateless validation
func (msg *MsgSubmitValue) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Reporter); err != nil {
		return ErrNotAuthorized.Wrapf("invalid reporter address: %s", err)
	}
	return msg.Submission().Validate()
}

// MsgSubmitValueResponse is the response for MsgSubmitValue
type MsgSubmitValueResponse struct {
	Accepted bool `json:"accepted"`
}

// MsgCloseRound asks the engine to evaluate the closing triggers for a feed's
// current round. Callable by any external scheduler.
type MsgCloseRound struct {
	Caller string `json:"caller"`
	FeedId string `json:"feed_id"`
}

// NewMsgCloseRound creates a new MsgCloseRound instance
func NewMsgCloseRound(caller, feedID string) *MsgCloseRound {
	return &MsgCloseRound{Caller: caller, FeedId: feedID}
}

// ValidateBasic performs stateless validation
func (msg *MsgCloseRound) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Caller); err != nil {
		return ErrUnauthorized.Wrapf("invalid caller address: %s", err)
	}
	if msg.FeedId == "" {
		return ErrFeedNotFound.Wrap("feed id cannot be empty")
	}
	return nil
}

// MsgCloseRoundResponse carries the round outcome after a close attempt.
type MsgCloseRoundResponse struct {
	Result RoundResult `json:"result"`
}

// MsgOpenNextRound opens a new round after the current one reached a terminal
// state. Callable by any external scheduler.
type MsgOpenNextRound struct {
	Caller string `json:"caller"`
	FeedId string `json:"feed_id"`
}

// NewMsgOpenNextRound creates a new MsgOpenNextRound instance
func NewMsgOpenNextRound(caller, feedID string) *MsgOpenNextRound {
	return &MsgOpenNextRound{Caller: caller, FeedId: feedID}
}

// ValidateBasic performs stateless validation
func (msg *MsgOpenNextRound) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Caller); err != nil {
		return ErrUnauthorized.Wrapf("invalid caller address: %s", err)
	}
	if msg.FeedId == "" {
		return ErrFeedNotFound.Wrap("feed id cannot be empty")
	}
	return nil
}

// MsgOpenNextRoundResponse is the response for MsgOpenNextRound
type MsgOpenNextRoundResponse struct {
	Round uint64 `json:"round"`
}

// MsgUpdateAuthorizedReporters mutates a feed's authorized set between rounds.
type MsgUpdateAuthorizedReporters struct {
	Authority string   `json:"authority"`
	FeedId    string   `json:"feed_id"`
	Add       []string `json:"add,omitempty"`
	Remove    []string `json:"remove,omitempty"`
}

// NewMsgUpdateAuthorizedReporters creates a new MsgUpdateAuthorizedReporters instance
func NewMsgUpdateAuthorizedReporters(authority, feedID string, add, remove []string) *MsgUpdateAuthorizedReporters {
	return &MsgUpdateAuthorizedReporters{Authority: authority, FeedId: feedID, Add: add, Remove: remove}
}

// ValidateBasic performs stateless validation
func (msg *MsgUpdateAuthorizedReporters) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Authority); err != nil {
		return ErrUnauthorized.Wrapf("invalid authority address: %s", err)
	}
	if msg.FeedId == "" {
		return ErrFeedNotFound.Wrap("feed id cannot be empty")
	}
	if len(msg.Add) == 0 && len(msg.Remove) == 0 {
		return ErrInvalidConfig.Wrap("nothing to add or remove")
	}
	for _, addr := range append(append([]string{}, msg.Add...), msg.Remove...) {
		if _, err := sdk.AccAddressFromBech32(addr); err != nil {
			return ErrReporterNotFound.Wrapf("invalid reporter address %q: %s", addr, err)
		}
	}
	return nil
}

// MsgUpdateAuthorizedReportersResponse is the response for MsgUpdateAuthorizedReporters
type MsgUpdateAuthorizedReportersResponse struct {
	Version uint64 `json:"version"`
}

// MsgUpdateParams updates the module parameters. Authority-gated.
type MsgUpdateParams struct {
	Authority string `json:"authority"`
	Params    Params `json:"params"`
}

// NewMsgUpdateParams creates a new MsgUpdateParams instance
func NewMsgUpdateParams(authority string, params Params) *MsgUpdateParams {
	return &MsgUpdateParams{Authority: authority, Params: params}
}

// ValidateBasic performs stateless validation
func (msg *MsgUpdateParams) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Authority); err != nil {
		return ErrUnauthorized.Wrapf("invalid authority address: %s", err)
	}
	if err := msg.Params.Validate(); err != nil {
		return ErrInvalidParams.Wrap(err.Error())
	}
	return nil
}

// MsgUpdateParamsResponse is the response for MsgUpdateParams
type MsgUpdateParamsResponse struct{}

// MsgServer is the transaction entry-point surface the external scaffolding
// drives. Each method maps to a single atomic call against the engine.
type MsgServer interface {
	Initialize(ctx sdk.Context, msg *MsgInitialize) (*MsgInitializeResponse, error)
	CreateFeed(ctx sdk.Context, msg *MsgCreateFeed) (*MsgCreateFeedResponse, error)
	RegisterReporter(ctx sdk.Context, msg *MsgRegisterReporter) (*MsgRegisterReporterResponse, error)
	SubmitValue(ctx sdk.Context, msg *MsgSubmitValue) (*MsgSubmitValueResponse, error)
	CloseRound(ctx sdk.Context, msg *MsgCloseRound) (*MsgCloseRoundResponse, error)
	OpenNextRound(ctx sdk.Context, msg *MsgOpenNextRound) (*MsgOpenNextRoundResponse, error)
	UpdateAuthorizedReporters(ctx sdk.Context, msg *MsgUpdateAuthorizedReporters) (*MsgUpdateAuthorizedReportersResponse, error)
	UpdateParams(ctx sdk.Context, msg *MsgUpdateParams) (*MsgUpdateParamsResponse, error)
}
