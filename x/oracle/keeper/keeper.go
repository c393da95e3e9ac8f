package keeper

import (
	"encoding/json"
	"fmt"

	"cosmossdk.io/log"
	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/oracle-chain/oraclechain/x/oracle/types"
)

// Keeper maintains the state of the oracle module: the feed and reporter
// registries, per-feed round history and the module parameters. Feeds are
// fully independent of each other; every operation touches a single feed's
// keyspace.
type Keeper struct {
	storeKey   storetypes.StoreKey
	bankKeeper types.BankKeeper
	authority  string // module authority (usually governance module account)
	metrics    *OracleMetrics
}

// NewKeeper creates a new oracle Keeper instance
func NewKeeper(
	storeKey storetypes.StoreKey,
	bankKeeper types.BankKeeper,
	authority string,
) *Keeper {
	return &Keeper{
		storeKey:   storeKey,
		bankKeeper: bankKeeper,
		authority:  authority,
		metrics:    NewOracleMetrics(),
	}
}

// Logger returns a module-specific logger
func (k Keeper) Logger(ctx sdk.Context) log.Logger {
	return ctx.Logger().With("module", fmt.Sprintf("x/%s", types.ModuleName))
}

// GetAuthority returns the module's authority (governance account)
func (k Keeper) GetAuthority() string {
	return k.authority
}

func (k Keeper) getStore(ctx sdk.Context) storetypes.KVStore {
	return ctx.KVStore(k.storeKey)
}

// Initialize performs the one-time creation of the feed and reporter
// registries. A second call fails with ErrAlreadyInitialized and mutates
// nothing.
func (k Keeper) Initialize(ctx sdk.Context, params types.Params) error {
	store := k.getStore(ctx)
	if store.Has(InitializedKey) {
		return types.ErrAlreadyInitialized
	}

	if err := k.SetParams(ctx, params); err != nil {
		return err
	}
	store.Set(InitializedKey, []byte{0x01})

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(types.EventTypeInitialized),
	)

	k.Logger(ctx).Info("oracle registries initialized")
	return nil
}

// IsInitialized reports whether the registries have been bootstrapped.
func (k Keeper) IsInitialized(ctx sdk.Context) bool {
	return k.getStore(ctx).Has(InitializedKey)
}

func (k Keeper) requireInitialized(ctx sdk.Context) error {
	if !k.IsInitialized(ctx) {
		return types.ErrNotInitialized
	}
	return nil
}

// GetParams gets all parameters from the store
func (k Keeper) GetParams(ctx sdk.Context) types.Params {
	bz := k.getStore(ctx).Get(ParamsKey)
	if bz == nil {
		return types.DefaultParams()
	}

	var params types.Params
	if err := json.Unmarshal(bz, &params); err != nil {
		return types.DefaultParams()
	}
	return params
}

// SetParams sets the module parameters
func (k Keeper) SetParams(ctx sdk.Context, params types.Params) error {
	if err := params.Validate(); err != nil {
		return types.ErrInvalidParams.Wrap(err.Error())
	}

	bz, err := json.Marshal(params)
	if err != nil {
		return fmt.Errorf("failed to marshal params: %w", err)
	}
	k.getStore(ctx).Set(ParamsKey, bz)
	return nil
}
