//go:build linux

package metrics

import (
	"bufio"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/sys/unix"
)

// sysinfo load averages are fixed point with 16 fractional bits.
const loadShift = 1 << 16

func loadAverage1() (float64, bool) {
	var info unix.Sysinfo_t
	if err := unix.Sysinfo(&info); err != nil {
		log.Debug().Err(err).Msg("sysinfo failed")
		return 0, false
	}
	return float64(info.Loads[0]) / loadShift, true
}

func memoryFreeTotal() (uint64, uint64, bool) {
	if free, total, ok := procMeminfo("/proc/meminfo"); ok {
		return free, total, true
	}
	var info unix.Sysinfo_t
	if err := unix.Sysinfo(&info); err != nil {
		log.Debug().Err(err).Msg("sysinfo failed")
		return 0, 0, false
	}
	unit := uint64(info.Unit)
	if unit == 0 {
		unit = 1
	}
	return uint64(info.Freeram) * unit, uint64(info.Totalram) * unit, true
}

// procMeminfo reads MemAvailable (MemFree on old kernels) and MemTotal in kB.
func procMeminfo(path string) (uint64, uint64, bool) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, false
	}
	defer f.Close()

	values := map[string]uint64{}
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		key, rest, ok := strings.Cut(sc.Text(), ":")
		if !ok {
			continue
		}
		fields := strings.Fields(rest)
		if len(fields) == 0 {
			continue
		}
		n, err := strconv.ParseUint(fields[0], 10, 64)
		if err != nil {
			continue
		}
		values[key] = n
	}
	total, ok := values["MemTotal"]
	if !ok || total == 0 {
		return 0, 0, false
	}
	free, ok := values["MemAvailable"]
	if !ok {
		free = values["MemFree"]
	}
	return free, total, true
}
