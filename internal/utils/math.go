package utils

// USDTDecimals the sale contract books accepted amounts in 6-decimal
// fixed-point USDT units.
const USDTDecimals = 1_000_000

// USDTToDisplay converts a raw 6-decimal fixed-point amount into its
// human-scaled value. The result is exact for amounts below 2^53 raw
// units (~9e9 USDT); above that, float64 rounding applies.
func USDTToDisplay(raw uint64) float64 {
	return float64(raw) / float64(USDTDecimals)
}
