package debugcore

import (
	"fmt"
	"math/big"
	"strings"
)

// ParseUnits converts a decimal token amount ("0.01") into base units.
func ParseUnits(amount string, decimals int) (*big.Int, error) {
	amount = strings.TrimSpace(amount)
	if amount == "" {
		return nil, fmt.Errorf("empty amount")
	}
	if decimals < 0 {
		decimals = 18
	}
	parts := strings.SplitN(amount, ".", 2)
	intPart := parts[0]
	fracPart := ""
	if len(parts) == 2 {
		fracPart = parts[1]
	}
	if len(fracPart) > decimals {
		return nil, fmt.Errorf("too many fractional digits for %d decimals", decimals)
	}
	fracPart = fracPart + strings.Repeat("0", decimals-len(fracPart))
	clean := strings.TrimLeft(intPart+fracPart, "0")
	if clean == "" {
		return big.NewInt(0), nil
	}
	v, ok := new(big.Int).SetString(clean, 10)
	if !ok || v.Sign() < 0 {
		return nil, fmt.Errorf("bad amount %q", amount)
	}
	return v, nil
}

// FormatUnits renders base units with trailing zeros trimmed ("1.5", "0", "0.01").
func FormatUnits(v *big.Int, decimals int) string {
	if v == nil {
		return "0"
	}
	if decimals <= 0 {
		return v.String()
	}
	s := new(big.Int).Abs(v).String()
	sign := ""
	if v.Sign() < 0 {
		sign = "-"
	}
	if len(s) <= decimals {
		frac := strings.TrimRight(strings.Repeat("0", decimals-len(s))+s, "0")
		if frac == "" {
			return "0"
		}
		return sign + "0." + frac
	}
	intPart := s[:len(s)-decimals]
	frac := strings.TrimRight(s[len(s)-decimals:], "0")
	if frac == "" {
		return sign + intPart
	}
	return sign + intPart + "." + frac
}
