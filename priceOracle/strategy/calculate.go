package strategy

import (
	"fmt"

	sdkmath "cosmossdk.io/math"
	"github.com/rs/zerolog"

	oerrors "github.com/pushchain/relayer-price-oracle/priceOracle/errors"
	"github.com/pushchain/relayer-price-oracle/priceOracle/pricing"
	"github.com/pushchain/relayer-price-oracle/priceOracle/types"
)

// calculateRequiredUpdates compares a home chain's stored prices with the
// snapshot and returns the entries that moved past tolerance while staying
// inside the safeguard bounds. Entries are returned in on-chain state order.
func calculateRequiredUpdates(
	home types.ChainID,
	state []types.OnChainPrice,
	snap *pricing.Snapshot,
	params Params,
	logger zerolog.Logger,
) []types.PriceInfo {
	updates := make([]types.PriceInfo, 0, len(state))

	for _, entry := range state {
		remote := entry.RemoteChainID
		entryLog := logger.With().
			Uint16("home_chain", uint16(home)).
			Uint16("remote_chain", uint16(remote)).
			Logger()

		newNative, ok := snap.NativePrice(remote)
		if !ok {
			entryLog.Error().Msg("no native price in snapshot, skipping entry")
			continue
		}
		rawGas, ok := snap.GasPrice(remote)
		if !ok {
			entryLog.Error().Msg("no gas price in snapshot, skipping entry")
			continue
		}

		markedUpGas, err := mulFactor(rawGas, params.markupFactor())
		if err != nil {
			entryLog.Error().Err(err).Msg("snapshot gas price out of range, skipping entry")
			continue
		}

		// read failures were logged when the state was read
		if entry.Data == nil {
			continue
		}
		old := entry.Data

		nativeDelta := newNative.Sub(old.NativePrice).Abs()
		gasDelta := markedUpGas.Sub(old.GasPrice).Abs()
		nativeTolerance, gasTolerance, err := tolerances(old, params)
		if err != nil {
			entryLog.Error().
				Err(oerrors.NewOnChainReadError(home.String(), "stored price out of range", err)).
				Msg("skipping entry")
			continue
		}

		if !params.OverrideSafeGuard {
			if err := checkBounds(home, "native price", newNative, old.NativePrice, params); err != nil {
				entryLog.Error().Err(err).Msg("safeguard rejected native price")
				continue
			}
			if err := checkBounds(home, "gas price", markedUpGas, old.GasPrice, params); err != nil {
				entryLog.Error().Err(err).Msg("safeguard rejected gas price")
				continue
			}
		}

		if nativeDelta.GT(nativeTolerance) || gasDelta.GT(gasTolerance) {
			entryLog.Debug().
				Str("old_native", old.NativePrice.String()).
				Str("new_native", newNative.String()).
				Str("old_gas", old.GasPrice.String()).
				Str("new_gas", markedUpGas.String()).
				Msg("price update required")
			updates = append(updates, types.PriceInfo{
				RemoteChainID: remote,
				GasPrice:      markedUpGas,
				NativePrice:   newNative,
			})
		}
	}

	return updates
}

func tolerances(old *types.PriceData, params Params) (native, gas sdkmath.Int, err error) {
	if native, err = mulFactor(old.NativePrice, params.NativePriceTolerance); err != nil {
		return sdkmath.Int{}, sdkmath.Int{}, err
	}
	if gas, err = mulFactor(old.GasPrice, params.GasPriceTolerance); err != nil {
		return sdkmath.Int{}, sdkmath.Int{}, err
	}
	return native, gas, nil
}

func checkBounds(home types.ChainID, what string, value, old sdkmath.Int, params Params) error {
	lower, upper, err := params.bounds(old)
	if err != nil {
		return oerrors.NewOnChainReadError(home.String(), fmt.Sprintf("stored %s out of range", what), err)
	}
	if value.LT(lower) || value.GT(upper) {
		return oerrors.NewSafeguardViolation(home.String(),
			fmt.Sprintf("new %s %s is outside of [%s, %s]", what, value, lower, upper))
	}
	return nil
}
