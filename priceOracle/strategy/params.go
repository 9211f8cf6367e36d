package strategy

import (
	"fmt"
	"math/big"

	sdkmath "cosmossdk.io/math"

	"github.com/pushchain/relayer-price-oracle/priceOracle/config"
	"github.com/pushchain/relayer-price-oracle/priceOracle/utils"
)

// Params are the reconciliation tuning parameters as exact decimals.
type Params struct {
	GasPriceTolerance    sdkmath.LegacyDec
	NativePriceTolerance sdkmath.LegacyDec
	GasPriceMarkup       sdkmath.LegacyDec
	MaxIncrease          sdkmath.LegacyDec
	MaxDecrease          sdkmath.LegacyDec
	OverrideSafeGuard    bool
}

// ParamsFromConfig converts the configured floats using their shortest
// decimal representation, so 0.1 is exactly one tenth.
func ParamsFromConfig(cfg config.StrategyConfig) (Params, error) {
	var p Params
	fields := []struct {
		name  string
		value float64
		dst   *sdkmath.LegacyDec
	}{
		{"gas_price_tolerance", cfg.GasPriceTolerance, &p.GasPriceTolerance},
		{"native_price_tolerance", cfg.NativePriceTolerance, &p.NativePriceTolerance},
		{"gas_price_markup", cfg.GasPriceMarkup, &p.GasPriceMarkup},
		{"max_increase", cfg.MaxIncrease, &p.MaxIncrease},
		{"max_decrease", cfg.MaxDecrease, &p.MaxDecrease},
	}
	for _, f := range fields {
		dec, err := utils.DecFromFloat(f.value)
		if err != nil {
			return Params{}, fmt.Errorf("%s: %w", f.name, err)
		}
		if !dec.IsPositive() {
			return Params{}, fmt.Errorf("%s must be positive", f.name)
		}
		*f.dst = dec
	}
	p.OverrideSafeGuard = cfg.OverrideSafeGuard
	return p, nil
}

// markupFactor is 1 + GasPriceMarkup.
func (p Params) markupFactor() sdkmath.LegacyDec {
	return sdkmath.LegacyOneDec().Add(p.GasPriceMarkup)
}

// bounds returns the inclusive range a new price may take given the stored one.
// The decrease and increase limits are configured independently.
func (p Params) bounds(old sdkmath.Int) (lower, upper sdkmath.Int, err error) {
	one := sdkmath.LegacyOneDec()
	if lower, err = mulFactor(old, one.Sub(p.MaxDecrease)); err != nil {
		return sdkmath.Int{}, sdkmath.Int{}, err
	}
	if upper, err = mulFactor(old, one.Add(p.MaxIncrease)); err != nil {
		return sdkmath.Int{}, sdkmath.Int{}, err
	}
	return lower, upper, nil
}

// decimalScale is 10^18, the fixed point of LegacyDec.
var decimalScale = new(big.Int).Exp(big.NewInt(10), big.NewInt(sdkmath.LegacyPrecision), nil)

// mulFactor multiplies an on-chain integer by a decimal factor and rounds the
// result half to even. The product is computed exactly, so the final rounding
// is the only one. A zero operand yields zero. Results wider than a uint256
// are an error.
func mulFactor(x sdkmath.Int, f sdkmath.LegacyDec) (sdkmath.Int, error) {
	if x.IsNil() || f.IsNil() || x.IsZero() || f.IsZero() {
		return sdkmath.ZeroInt(), nil
	}

	prod := new(big.Int).Mul(x.BigInt(), f.BigInt())
	neg := prod.Sign() < 0
	prod.Abs(prod)

	quo, rem := new(big.Int).QuoRem(prod, decimalScale, new(big.Int))
	switch rem.Lsh(rem, 1).Cmp(decimalScale) {
	case 1:
		quo.Add(quo, big.NewInt(1))
	case 0:
		if quo.Bit(0) == 1 {
			quo.Add(quo, big.NewInt(1))
		}
	}
	if neg {
		quo.Neg(quo)
	}

	if quo.BitLen() > sdkmath.MaxBitLen {
		return sdkmath.Int{}, fmt.Errorf("%s * %s exceeds %d bits", x, f, sdkmath.MaxBitLen)
	}
	return sdkmath.NewIntFromBigInt(quo), nil
}
