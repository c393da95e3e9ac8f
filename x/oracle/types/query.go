package types

import (
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// QueryFeedRequest queries a feed by identifier.
type QueryFeedRequest struct {
	FeedId string `json:"feed_id"`
}

// QueryFeedResponse carries the feed and the age of its committed value, so
// callers can apply their own staleness policy.
type QueryFeedResponse struct {
	Feed     Feed  `json:"feed"`
	ValueAge int64 `json:"value_age"`
}

// QueryFeedsRequest queries all feeds.
type QueryFeedsRequest struct{}

// QueryFeedsResponse lists all registered feeds.
type QueryFeedsResponse struct {
	Feeds []Feed `json:"feeds"`
}

// QueryReporterRequest queries a reporter by address.
type QueryReporterRequest struct {
	Reporter string `json:"reporter"`
}

// QueryReporterResponse carries the reporter record.
type QueryReporterResponse struct {
	Reporter Reporter `json:"reporter"`
}

// QueryRoundRequest queries one round of a feed; rounds are addressable
// independently by (feed, round number).
type QueryRoundRequest struct {
	FeedId string `json:"feed_id"`
	Round  uint64 `json:"round"`
}

// QueryRoundResponse carries the round with its submission history.
type QueryRoundResponse struct {
	Round Round `json:"round"`
}

// QueryParamsRequest queries the module parameters.
type QueryParamsRequest struct{}

// QueryParamsResponse carries the module parameters.
type QueryParamsResponse struct {
	Params Params `json:"params"`
}

// QueryServer is the read-only entry-point surface.
type QueryServer interface {
	Feed(ctx sdk.Context, req *QueryFeedRequest) (*QueryFeedResponse, error)
	Feeds(ctx sdk.Context, req *QueryFeedsRequest) (*QueryFeedsResponse, error)
	Reporter(ctx sdk.Context, req *QueryReporterRequest) (*QueryReporterResponse, error)
	Round(ctx sdk.Context, req *QueryRoundRequest) (*QueryRoundResponse, error)
	Params(ctx sdk.Context, req *QueryParamsRequest) (*QueryParamsResponse, error)
}
