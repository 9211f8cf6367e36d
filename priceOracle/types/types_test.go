package types

import (
	"testing"

	sdkmath "cosmossdk.io/math"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseChainID(t *testing.T) {
	tests := []struct {
		input       string
		expected    ChainID
		expectError bool
	}{
		{input: "2", expected: 2},
		{input: "10002", expected: 10002},
		{input: "65535", expected: 65535},
		{input: "0", expectError: true},
		{input: "65536", expectError: true},
		{input: "-4", expectError: true},
		{input: "eth", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			id, err := ParseChainID(tt.input)
			if tt.expectError {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, id)
		})
	}
}

func TestChainNames(t *testing.T) {
	names := ChainNames{4: "bnb-mainnet"}

	assert.Equal(t, "bnb-mainnet", names.Lookup(4))
	assert.Equal(t, "ethereum", names.Lookup(2))
	assert.Equal(t, "chain-4242", names.Lookup(4242))
	assert.Equal(t, "ethereum", ChainNames(nil).Lookup(2))
	assert.Equal(t, "6", ChainID(6).String())
}

func TestPendingUpdateValidate(t *testing.T) {
	valid := PendingUpdate{
		ChainID: 2,
		Kind:    PayloadDeliveryProviderPrices,
		Prices: []PriceInfo{
			{RemoteChainID: 4, GasPrice: sdkmath.NewInt(5), NativePrice: sdkmath.NewInt(300)},
		},
	}
	require.NoError(t, valid.Validate())

	noKind := valid
	noKind.Kind = ""
	assert.Error(t, noKind.Validate())

	empty := valid
	empty.Prices = nil
	assert.Error(t, empty.Validate())

	unset := valid
	unset.Prices = []PriceInfo{{RemoteChainID: 4, NativePrice: sdkmath.NewInt(1)}}
	assert.Error(t, unset.Validate())

	negative := valid
	negative.Prices = []PriceInfo{{RemoteChainID: 4, GasPrice: sdkmath.NewInt(-1), NativePrice: sdkmath.NewInt(1)}}
	assert.Error(t, negative.Validate())
}
