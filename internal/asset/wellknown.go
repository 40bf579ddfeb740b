package asset

import "github.com/ethereum/go-ethereum/common"

// Chain IDs
const (
	ChainIDEthereum = 1
	ChainIDFraxtal  = 252
	ChainIDSepolia  = 11155111
)

// devAddress derives a deterministic placeholder address from a symbol.
// Real deployments register their token addresses through configuration;
// these placeholders only back the dev registry used by tests and example
// scenarios.
func devAddress(symbol string) common.Address {
	return common.BytesToAddress(common.RightPadBytes([]byte(symbol), 20))
}

// Protocol assets on the dev registry's Fraxtal chain.
var (
	DUSD    = MustNewToken(ChainIDFraxtal, devAddress("dUSD"), "dUSD", "dTRINITY USD", 18)
	FRAX    = MustNewToken(ChainIDFraxtal, devAddress("FRAX"), "FRAX", "Frax", 18)
	SFRAX   = MustNewToken(ChainIDFraxtal, devAddress("sFRAX"), "sFRAX", "Staked Frax", 18)
	WFRXETH = MustNewToken(ChainIDFraxtal, devAddress("wfrxETH"), "wfrxETH", "Wrapped Frax Ether", 18)
	USDC    = MustNewToken(ChainIDFraxtal, devAddress("USDC"), "USDC", "USD Coin", 6)
)

// DevRegistry returns a registry pre-populated with the protocol assets.
func DevRegistry() *Registry {
	r := NewRegistry()
	r.Register(DUSD)
	r.Register(FRAX)
	r.Register(SFRAX)
	r.Register(WFRXETH)
	r.Register(USDC)
	return r
}

// DevAsset creates an asset on the dev registry's chain with a placeholder
// address, for scenarios that declare assets by symbol alone.
func DevAsset(symbol string, decimals uint8) *Asset {
	return MustNewToken(ChainIDFraxtal, devAddress(symbol), symbol, symbol, decimals)
}

// MustNewToken creates a new ERC20 token asset with the given parameters.
func MustNewToken(chainID uint64, address common.Address, symbol, name string, decimals uint8) *Asset {
	id := NewTokenAssetID(chainID, address)
	return NewAssetWithName(id, symbol, name, decimals)
}

// MustNewNative creates a new native coin asset.
func MustNewNative(chainID uint64, symbol, name string, decimals uint8) *Asset {
	id := NewNativeAssetID(chainID)
	return NewAssetWithName(id, symbol, name, decimals)
}
