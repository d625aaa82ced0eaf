//go:build !linux

package metrics

// Load average and host memory are only sampled on linux; other platforms
// report zero.
func loadAverage1() (float64, bool) {
	return 0, false
}

func memoryFreeTotal() (uint64, uint64, bool) {
	return 0, 0, false
}
