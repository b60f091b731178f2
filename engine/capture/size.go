package capture

// TargetSize scales the window size by scale and clamps it to the smaller
// of the device texture limit and the configured maximum on each axis.
//
// The clamp runs in two passes, width first. Each pass shrinks both axes by
// the same factor and truncates, so the aspect ratio is kept up to integer
// rounding. The result is never smaller than 1x1. A deviceMax of zero or
// less means the device reported no limit.
func TargetSize(winW, winH int, scale float32, deviceMax, maxW, maxH int) (w, h int) {
	w = int(float64(winW) * float64(scale))
	h = int(float64(winH) * float64(scale))

	if deviceMax > 0 {
		maxW = min(maxW, deviceMax)
		maxH = min(maxH, deviceMax)
	}

	if w > maxW {
		// multiply before dividing so the clamped axis lands exactly on the limit
		h = int(float64(h) * float64(maxW) / float64(w))
		w = maxW
	}
	if h > maxH {
		w = int(float64(w) * float64(maxH) / float64(h))
		h = maxH
	}
	return max(w, 1), max(h, 1)
}
