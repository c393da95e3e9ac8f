package types

import (
	sdkerrors "cosmossdk.io/errors"
)

// Oracle module sentinel errors
var (
	// Configuration errors - caller mistakes, always rejected before any state mutation
	ErrAlreadyInitialized = sdkerrors.Register(ModuleName, 2, "registries already initialized")
	ErrNotInitialized     = sdkerrors.Register(ModuleName, 3, "registries not initialized")
	ErrInvalidConfig      = sdkerrors.Register(ModuleName, 4, "invalid feed configuration")
	ErrDuplicateFeed      = sdkerrors.Register(ModuleName, 5, "feed already exists")

	// Authorization errors - rejected, no mutation
	ErrNotAuthorized     = sdkerrors.Register(ModuleName, 6, "reporter not authorized for feed")
	ErrReporterNotFound  = sdkerrors.Register(ModuleName, 7, "reporter not found")
	ErrDuplicateReporter = sdkerrors.Register(ModuleName, 8, "reporter already registered")
	ErrInsufficientStake = sdkerrors.Register(ModuleName, 9, "stake below registry minimum")

	// Temporal/state errors - rejected, no mutation, caller should retry against current state
	ErrFeedNotFound    = sdkerrors.Register(ModuleName, 10, "feed not found")
	ErrRoundNotFound   = sdkerrors.Register(ModuleName, 11, "round not found")
	ErrRoundInProgress = sdkerrors.Register(ModuleName, 12, "round still in progress")
	ErrRoundClosed     = sdkerrors.Register(ModuleName, 13, "round is closed")
	ErrStaleSubmission = sdkerrors.Register(ModuleName, 14, "submission timestamp outside staleness window")

	// Data errors - rejected, no mutation
	ErrDuplicateSubmission = sdkerrors.Register(ModuleName, 15, "duplicate submission for round")
	ErrValueOutOfBounds    = sdkerrors.Register(ModuleName, 16, "value outside declared feed bounds")
	ErrInvalidProof        = sdkerrors.Register(ModuleName, 17, "submission proof verification failed")

	// Parameter errors
	ErrInvalidParams = sdkerrors.Register(ModuleName, 18, "invalid module parameters")
	ErrUnauthorized  = sdkerrors.Register(ModuleName, 19, "signer is not the module authority")
)
