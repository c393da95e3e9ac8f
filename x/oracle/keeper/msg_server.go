package keeper

import (
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/oracle-chain/oraclechain/x/oracle/types"
)

type msgServer struct {
	Keeper
}

// NewMsgServerImpl returns an implementation of the oracle MsgServer.
func NewMsgServerImpl(k Keeper) types.MsgServer {
	return &msgServer{Keeper: k}
}

var _ types.MsgServer = msgServer{}

func (m msgServer) Initialize(ctx sdk.Context, msg *types.MsgInitialize) (*types.MsgInitializeResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}
	if msg.Authority != m.GetAuthority() {
		return nil, types.ErrUnauthorized.Wrapf("expected %s, got %s", m.GetAuthority(), msg.Authority)
	}

	if err := m.Keeper.Initialize(ctx, msg.Params); err != nil {
		return nil, err
	}
	return &types.MsgInitializeResponse{}, nil
}

func (m msgServer) CreateFeed(ctx sdk.Context, msg *types.MsgCreateFeed) (*types.MsgCreateFeedResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}
	if msg.Authority != m.GetAuthority() {
		return nil, types.ErrUnauthorized.Wrapf("expected %s, got %s", m.GetAuthority(), msg.Authority)
	}

	if err := m.Keeper.CreateFeed(ctx, msg.Feed); err != nil {
		return nil, err
	}
	return &types.MsgCreateFeedResponse{}, nil
}

func (m msgServer) RegisterReporter(ctx sdk.Context, msg *types.MsgRegisterReporter) (*types.MsgRegisterReporterResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}

	addr, err := sdk.AccAddressFromBech32(msg.Reporter)
	if err != nil {
		return nil, types.ErrReporterNotFound.Wrapf("invalid reporter address: %s", err)
	}

	if err := m.Keeper.RegisterReporter(ctx, addr, msg.Credential, msg.Stake); err != nil {
		return nil, err
	}
	return &types.MsgRegisterReporterResponse{}, nil
}

func (m msgServer) SubmitValue(ctx sdk.Context, msg *types.MsgSubmitValue) (*types.MsgSubmitValueResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}

	if err := m.Keeper.SubmitValue(ctx, msg.Submission()); err != nil {
		return nil, err
	}
	return &types.MsgSubmitValueResponse{Accepted: true}, nil
}

func (m msgServer) CloseRound(ctx sdk.Context, msg *types.MsgCloseRound) (*types.MsgCloseRoundResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}

	result, err := m.Keeper.CloseRound(ctx, msg.FeedId)
	if err != nil {
		return nil, err
	}
	return &types.MsgCloseRoundResponse{Result: result}, nil
}

func (m msgServer) OpenNextRound(ctx sdk.Context, msg *types.MsgOpenNextRound) (*types.MsgOpenNextRoundResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}

	round, err := m.Keeper.OpenNextRound(ctx, msg.FeedId)
	if err != nil {
		return nil, err
	}
	return &types.MsgOpenNextRoundResponse{Round: round}, nil
}

func (m msgServer) UpdateAuthorizedReporters(ctx sdk.Context, msg *types.MsgUpdateAuthorizedReporters) (*types.MsgUpdateAuthorizedReportersResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}
	if msg.Authority != m.GetAuthority() {
		return nil, types.ErrUnauthorized.Wrapf("expected %s, got %s", m.GetAuthority(), msg.Authority)
	}

	version, err := m.Keeper.UpdateAuthorizedReporters(ctx, msg.FeedId, msg.Add, msg.Remove)
	if err != nil {
		return nil, err
	}
	return &types.MsgUpdateAuthorizedReportersResponse{Version: version}, nil
}

func (m msgServer) UpdateParams(ctx sdk.Context, msg *types.MsgUpdateParams) (*types.MsgUpdateParamsResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}
	if msg.Authority != m.GetAuthority() {
		return nil, types.ErrUnauthorized.Wrapf("expected %s, got %s", m.GetAuthority(), msg.Authority)
	}

	if err := m.requireInitialized(ctx); err != nil {
		return nil, err
	}
	if err := m.SetParams(ctx, msg.Params); err != nil {
		return nil, err
	}

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(types.EventTypeParamsUpdated),
	)
	return &types.MsgUpdateParamsResponse{}, nil
}
