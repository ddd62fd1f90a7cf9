package asset_test

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fd1az/crosschain-cycler/internal/asset"
)

var (
	usdtKite = common.HexToAddress("0x0fF5393387ad2f9f691FD6Fd28e07E3969e27e63")
	wkite    = common.HexToAddress("0x3bC8f037691Ce1d28c0bB224BD33563b49F99dE8")
)

func testAssets(t *testing.T) *asset.NetworkAssets {
	t.Helper()
	na, err := asset.NewNetworkAssets(asset.ChainIDBaseSepolia, asset.ChainIDKiteTestnet, asset.NetworkAddresses{
		USDTTokenKite:       usdtKite,
		WKITEKite:           wkite,
		ETHBridgeKite:       common.HexToAddress("0x7AEFdb35EEaAD1A15E869a6Ce0409F26BFd31239"),
		KiteTokenBridgeBase: common.HexToAddress("0xFB9a6AF5C014c32414b4a6e208a89904c6dAe266"),
		USDTBridgeBase:      common.HexToAddress("0xdAD5b9eB32831D54b7f2D8c92ef4E2A68008989C"),
	}, 18, 6)
	require.NoError(t, err)
	return na
}

func TestParseString_MinorUnits(t *testing.T) {
	na := testAssets(t)

	tests := []struct {
		name  string
		asset *asset.Asset
		in    string
		want  string
	}{
		{"eth to wei", na.BaseETH, "0.001234", "1234000000000000"},
		{"usdt six decimals", na.KiteUSDT, "0.123456", "123456"},
		{"kite native", na.KiteKITE, "0.25", "250000000000000000"},
		{"zero", na.BaseUSDT, "0.000000", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			amt, err := asset.ParseString(tt.asset, tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, amt.Raw().String())
		})
	}
}

func TestParseString_TooManyDecimals(t *testing.T) {
	na := testAssets(t)

	_, err := asset.ParseString(na.KiteUSDT, "0.1234567")

	assert.ErrorIs(t, err, asset.ErrTooManyDecimals)
}

func TestParseString_Rejects(t *testing.T) {
	na := testAssets(t)

	_, err := asset.ParseString(na.BaseETH, "-1")
	assert.ErrorIs(t, err, asset.ErrNegativeAmount)

	_, err = asset.ParseString(na.BaseETH, "1e")
	assert.Error(t, err)

	_, err = asset.ParseString(nil, "1")
	assert.ErrorIs(t, err, asset.ErrNilAsset)
}

func TestAmount_RoundTrip(t *testing.T) {
	na := testAssets(t)

	amt, err := asset.NewAmount(na.KiteUSDT, big.NewInt(150000))
	require.NoError(t, err)

	assert.True(t, amt.ToDecimal().Equal(decimal.RequireFromString("0.15")))
	assert.Equal(t, "0.15 USDT", amt.String())
	assert.False(t, amt.IsZero())

	raw := amt.Raw()
	raw.SetInt64(0)
	assert.Equal(t, "150000", amt.Raw().String(), "Raw must return a copy")
}

func TestNetworkAssets_Registry(t *testing.T) {
	na := testAssets(t)

	reg, err := na.Registry()
	require.NoError(t, err)
	assert.Equal(t, 7, reg.Count())

	kite, err := reg.Lookup(asset.ChainIDKiteTestnet, asset.SymbolKITE)
	require.NoError(t, err)
	assert.True(t, kite.IsNative())

	usdt, ok := reg.Get(asset.TokenID(asset.ChainIDKiteTestnet, usdtKite))
	require.True(t, ok)
	assert.Equal(t, int32(6), usdt.Decimals())

	baseKite, err := reg.Lookup(asset.ChainIDBaseSepolia, asset.SymbolKITE)
	require.NoError(t, err)
	assert.Equal(t, asset.KindBridged, baseKite.ID().Kind())

	_, err = reg.Lookup(asset.ChainIDBaseSepolia, asset.SymbolWKITE)
	assert.Error(t, err)
}
