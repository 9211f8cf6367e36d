package utils

import (
	"fmt"
	"math"
	"math/big"
	"strconv"

	sdkmath "cosmossdk.io/math"
)

// GweiDecimals is the scale between gwei and wei.
const GweiDecimals = 9

// DecFromFloat converts a configured float into an 18-decimal fixed-point value
// using its shortest decimal representation, so 0.1 becomes exactly 0.1.
func DecFromFloat(v float64) (sdkmath.LegacyDec, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return sdkmath.LegacyDec{}, fmt.Errorf("invalid decimal value %v", v)
	}
	return sdkmath.LegacyNewDecFromStr(strconv.FormatFloat(v, 'f', -1, 64))
}

// ScaleFloat converts a quote (e.g. a USD price) into an on-chain integer.
// The quote is first rounded to precision fractional digits, then expressed with decimals digits.
func ScaleFloat(v float64, precision, decimals uint32) (sdkmath.Int, error) {
	if v < 0 {
		return sdkmath.Int{}, fmt.Errorf("negative quote %v", v)
	}
	if precision > decimals {
		precision = decimals
	}
	dec, err := DecFromFloat(v)
	if err != nil {
		return sdkmath.Int{}, err
	}
	rounded := dec.Mul(pow10Dec(precision)).RoundInt()
	return rounded.Mul(pow10Int(decimals - precision)), nil
}

// ParseUnits converts a decimal string such as "30" or "1.5" into an integer with the given decimals.
func ParseUnits(s string, decimals uint32) (sdkmath.Int, error) {
	dec, err := sdkmath.LegacyNewDecFromStr(s)
	if err != nil {
		return sdkmath.Int{}, fmt.Errorf("invalid decimal %q: %w", s, err)
	}
	if dec.IsNegative() {
		return sdkmath.Int{}, fmt.Errorf("negative value %q", s)
	}
	return dec.Mul(pow10Dec(decimals)).RoundInt(), nil
}

// ParseInt parses a non-negative base-10 integer string.
func ParseInt(s string) (sdkmath.Int, error) {
	v, ok := sdkmath.NewIntFromString(s)
	if !ok {
		return sdkmath.Int{}, fmt.Errorf("invalid integer %q", s)
	}
	if v.IsNegative() {
		return sdkmath.Int{}, fmt.Errorf("negative value %q", s)
	}
	return v, nil
}

// ToFloat64 converts an on-chain integer for gauge reporting. Precision loss is acceptable there.
func ToFloat64(x sdkmath.Int) float64 {
	if x.IsNil() {
		return 0
	}
	f, _ := new(big.Float).SetInt(x.BigInt()).Float64()
	return f
}

func pow10Int(n uint32) sdkmath.Int {
	return sdkmath.NewIntFromBigInt(new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(n)), nil))
}

func pow10Dec(n uint32) sdkmath.LegacyDec {
	return sdkmath.LegacyNewDecFromInt(pow10Int(n))
}
