package keeper

import (
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/oracle-chain/oraclechain/x/oracle/types"
)

type queryServer struct {
	Keeper
}

// NewQueryServerImpl returns an implementation of the oracle QueryServer.
func NewQueryServerImpl(k Keeper) types.QueryServer {
	return &queryServer{Keeper: k}
}

var _ types.QueryServer = queryServer{}

func (q queryServer) Feed(ctx sdk.Context, req *types.QueryFeedRequest) (*types.QueryFeedResponse, error) {
	if req == nil || req.FeedId == "" {
		return nil, types.ErrFeedNotFound.Wrap("feed id cannot be empty")
	}

	feed, err := q.GetFeed(ctx, req.FeedId)
	if err != nil {
		return nil, err
	}

	// Age of the committed value; -1 means the feed has never committed.
	age := int64(-1)
	if feed.LastCommitTime > 0 {
		age = ctx.BlockTime().Unix() - feed.LastCommitTime
	}

	return &types.QueryFeedResponse{Feed: feed, ValueAge: age}, nil
}

func (q queryServer) Feeds(ctx sdk.Context, _ *types.QueryFeedsRequest) (*types.QueryFeedsResponse, error) {
	feeds, err := q.GetAllFeeds(ctx)
	if err != nil {
		return nil, err
	}
	return &types.QueryFeedsResponse{Feeds: feeds}, nil
}

func (q queryServer) Reporter(ctx sdk.Context, req *types.QueryReporterRequest) (*types.QueryReporterResponse, error) {
	if req == nil || req.Reporter == "" {
		return nil, types.ErrReporterNotFound.Wrap("reporter address cannot be empty")
	}

	reporter, err := q.GetReporter(ctx, req.Reporter)
	if err != nil {
		return nil, err
	}
	return &types.QueryReporterResponse{Reporter: reporter}, nil
}

func (q queryServer) Round(ctx sdk.Context, req *types.QueryRoundRequest) (*types.QueryRoundResponse, error) {
	if req == nil || req.FeedId == "" {
		return nil, types.ErrFeedNotFound.Wrap("feed id cannot be empty")
	}

	round, err := q.GetRound(ctx, req.FeedId, req.Round)
	if err != nil {
		return nil, err
	}
	return &types.QueryRoundResponse{Round: round}, nil
}

func (q queryServer) Params(ctx sdk.Context, _ *types.QueryParamsRequest) (*types.QueryParamsResponse, error) {
	return &types.QueryParamsResponse{Params: q.GetParams(ctx)}, nil
}
