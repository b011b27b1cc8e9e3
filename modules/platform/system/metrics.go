// Package system samples host resource usage for the built-in stats
// visualization.
package system

import (
	"context"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/load"
	"github.com/shirou/gopsutil/v3/mem"
)

// Snapshot holds one sample of system resource usage.
type Snapshot struct {
	CPUPercent float64   // CPU usage percentage (0-100)
	MemUsedGB  float64   // memory used in GB
	MemTotalGB float64   // total memory in GB
	MemPercent float64   // memory usage percentage (0-100)
	LoadAvg1   float64   // 1 minute load average
	LoadAvg5   float64   // 5 minute load average
	LoadAvg15  float64   // 15 minute load average
	NumCPU     int       // number of CPUs
	Taken      time.Time // when the sample was taken
}

// Sample takes a single snapshot. Sources that fail (load average on
// Windows, for example) are left at zero rather than failing the whole
// sample.
func Sample() Snapshot {
	snap := Snapshot{
		NumCPU: runtime.NumCPU(),
		Taken:  time.Now(),
	}

	if percents, err := cpu.Percent(0, false); err == nil && len(percents) > 0 {
		snap.CPUPercent = percents[0]
	}

	if vmStat, err := mem.VirtualMemory(); err == nil {
		snap.MemTotalGB = float64(vmStat.Total) / 1024 / 1024 / 1024
		snap.MemUsedGB = float64(vmStat.Used) / 1024 / 1024 / 1024
		snap.MemPercent = vmStat.UsedPercent
	}

	if avgStat, err := load.Avg(); err == nil {
		snap.LoadAvg1 = avgStat.Load1
		snap.LoadAvg5 = avgStat.Load5
		snap.LoadAvg15 = avgStat.Load15
	}

	return snap
}

// Watch emits a snapshot every interval until ctx is cancelled. The
// channel is closed on cancellation.
func Watch(ctx context.Context, interval time.Duration) <-chan Snapshot {
	if interval < time.Second {
		interval = time.Second
	}

	out := make(chan Snapshot, 1)
	go func() {
		defer close(out)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		out <- Sample()
		for {
			select {
			case <-ticker.C:
				select {
				case out <- Sample():
				default:
				}
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}
