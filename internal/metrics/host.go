package metrics

import (
	"math"
	"runtime"
)

// HostSampler reports host CPU and memory pressure as percentages in [0,100].
type HostSampler interface {
	CPUPercent() float64
	MemoryPercent() float64
}

type hostSampler struct {
	numCPU int
}

func NewHostSampler() HostSampler {
	return hostSampler{numCPU: runtime.NumCPU()}
}

// CPUPercent is the one-minute load average divided by the core count.
func (h hostSampler) CPUPercent() float64 {
	load1, ok := loadAverage1()
	if !ok || h.numCPU <= 0 {
		return 0
	}
	return percent(load1 / float64(h.numCPU))
}

// MemoryPercent is the share of host memory not available to new allocations.
func (h hostSampler) MemoryPercent() float64 {
	free, total, ok := memoryFreeTotal()
	if !ok || total == 0 {
		return 0
	}
	return percent(1 - float64(free)/float64(total))
}

// percent converts a ratio to a percentage clamped to [0,100] with two decimals.
func percent(ratio float64) float64 {
	if math.IsNaN(ratio) || ratio <= 0 {
		return 0
	}
	v := ratio * 100
	if v > 100 {
		v = 100
	}
	return math.Round(v*100) / 100
}
