package netpbm

// Scale maps a sample in [0, maxValue] onto [0, 255], rounding to nearest.
// Samples outside the range are clamped; maxValue < 1 yields 0.
func Scale(value, maxValue int) uint8 {
	switch {
	case maxValue < 1 || value <= 0:
		return 0
	case value >= maxValue:
		return 0xFF
	}
	// round(value*255/maxValue) in integer arithmetic
	return uint8((value*0xFF*2 + maxValue) / (2 * maxValue))
}
