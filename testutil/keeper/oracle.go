package keeper

import (
	"testing"
	"time"

	"cosmossdk.io/log"
	"cosmossdk.io/math"
	"cosmossdk.io/store"
	"cosmossdk.io/store/metrics"
	storetypes "cosmossdk.io/store/types"
	cmtproto "github.com/cometbft/cometbft/proto/tendermint/types"
	dbm "github.com/cosmos/cosmos-db"
	"github.com/cosmos/cosmos-sdk/codec"
	"github.com/cosmos/cosmos-sdk/codec/address"
	codectypes "github.com/cosmos/cosmos-sdk/codec/types"
	"github.com/cosmos/cosmos-sdk/crypto/keys/ed25519"
	"github.com/cosmos/cosmos-sdk/runtime"
	sdkstd "github.com/cosmos/cosmos-sdk/std"
	sdk "github.com/cosmos/cosmos-sdk/types"
	authkeeper "github.com/cosmos/cosmos-sdk/x/auth/keeper"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"
	bankkeeper "github.com/cosmos/cosmos-sdk/x/bank/keeper"
	banktypes "github.com/cosmos/cosmos-sdk/x/bank/types"
	govtypes "github.com/cosmos/cosmos-sdk/x/gov/types"
	minttypes "github.com/cosmos/cosmos-sdk/x/mint/types"
	"github.com/stretchr/testify/require"

	"github.com/oracle-chain/oraclechain/x/oracle/keeper"
	"github.com/oracle-chain/oraclechain/x/oracle/types"
)

// GenesisTime is the fixed block time every test context starts at, so
// staleness arithmetic in tests is deterministic.
var GenesisTime = time.Unix(1_700_000_000, 0).UTC()

// Authority returns the governance module address used as the test authority.
func Authority() string {
	return authtypes.NewModuleAddress(govtypes.ModuleName).String()
}

// OracleKeeper creates an initialized test keeper for the Oracle module backed
// by real auth and bank keepers, so stake escrow and slashing burns move real
// balances. Returns the oracle keeper, the bank keeper (for funding test
// accounts), and a context at GenesisTime.
func OracleKeeper(t testing.TB) (*keeper.Keeper, bankkeeper.BaseKeeper, sdk.Context) {
	k, bk, ctx := OracleKeeperUninitialized(t)
	require.NoError(t, k.Initialize(ctx, types.DefaultParams()))
	return k, bk, ctx
}

// OracleKeeperUninitialized is OracleKeeper without the Initialize call, for
// tests exercising the bootstrap path itself.
func OracleKeeperUninitialized(t testing.TB) (*keeper.Keeper, bankkeeper.BaseKeeper, sdk.Context) {
	storeKey := storetypes.NewKVStoreKey(types.StoreKey)
	authStoreKey := storetypes.NewKVStoreKey(authtypes.StoreKey)
	bankStoreKey := storetypes.NewKVStoreKey(banktypes.StoreKey)

	db := dbm.NewMemDB()
	stateStore := store.NewCommitMultiStore(db, log.NewNopLogger(), metrics.NewNoOpMetrics())
	stateStore.MountStoreWithDB(storeKey, storetypes.StoreTypeIAVL, db)
	stateStore.MountStoreWithDB(authStoreKey, storetypes.StoreTypeIAVL, db)
	stateStore.MountStoreWithDB(bankStoreKey, storetypes.StoreTypeIAVL, db)
	require.NoError(t, stateStore.LoadLatestVersion())

	registry := codectypes.NewInterfaceRegistry()
	sdkstd.RegisterInterfaces(registry)
	authtypes.RegisterInterfaces(registry)
	banktypes.RegisterInterfaces(registry)
	cdc := codec.NewProtoCodec(registry)
	authority := authtypes.NewModuleAddress(govtypes.ModuleName)

	maccPerms := map[string][]string{
		authtypes.FeeCollectorName: nil,
		minttypes.ModuleName:       {authtypes.Minter},
		types.ModuleName:           {authtypes.Burner},
	}

	accountKeeper := authkeeper.NewAccountKeeper(
		cdc,
		runtime.NewKVStoreService(authStoreKey),
		authtypes.ProtoBaseAccount,
		maccPerms,
		address.NewBech32Codec(sdk.GetConfig().GetBech32AccountAddrPrefix()),
		sdk.GetConfig().GetBech32AccountAddrPrefix(),
		authority.String(),
	)

	bankKeeper := bankkeeper.NewBaseKeeper(
		cdc,
		runtime.NewKVStoreService(bankStoreKey),
		accountKeeper,
		map[string]bool{},
		authority.String(),
		log.NewNopLogger(),
	)

	k := keeper.NewKeeper(storeKey, bankKeeper, authority.String())

	ctx := sdk.NewContext(stateStore, cmtproto.Header{Height: 1, Time: GenesisTime}, false, log.NewNopLogger())
	return k, bankKeeper, ctx
}

// FundAccount mints fresh coins and sends them to the address.
func FundAccount(t testing.TB, bk bankkeeper.BaseKeeper, ctx sdk.Context, addr sdk.AccAddress, coins sdk.Coins) {
	require.NoError(t, bk.MintCoins(ctx, minttypes.ModuleName, coins))
	require.NoError(t, bk.SendCoinsFromModuleToAccount(ctx, minttypes.ModuleName, addr, coins))
}

// TestReporter bundles a registered reporter's address and submission signing
// key.
type TestReporter struct {
	Address sdk.AccAddress
	PrivKey *ed25519.PrivKey
}

// RegisterTestReporter creates a funded account, registers it as a reporter
// with the given stake, and returns its address and signing key.
func RegisterTestReporter(t testing.TB, k *keeper.Keeper, bk bankkeeper.BaseKeeper, ctx sdk.Context, stake math.Int) TestReporter {
	priv := ed25519.GenPrivKey()
	addr := sdk.AccAddress(priv.PubKey().Address())

	denom := k.GetParams(ctx).BondDenom
	FundAccount(t, bk, ctx, addr, sdk.NewCoins(sdk.NewCoin(denom, stake.AddRaw(1))))

	credential := types.EncodeCredential(priv.PubKey().Bytes())
	require.NoError(t, k.RegisterReporter(ctx, addr, credential, sdk.NewCoin(denom, stake)))

	return TestReporter{Address: addr, PrivKey: priv}
}

// SignSubmission builds a fully-signed submission for the reporter.
func SignSubmission(t testing.TB, r TestReporter, feedID string, round uint64, value types.DataValue, timestamp int64) types.Submission {
	proof, err := r.PrivKey.Sign(types.SubmissionSignBytes(feedID, round, value, timestamp))
	require.NoError(t, err)

	return types.Submission{
		FeedId:    feedID,
		Reporter:  r.Address.String(),
		Round:     round,
		Value:     value,
		Timestamp: timestamp,
		Proof:     proof,
	}
}
