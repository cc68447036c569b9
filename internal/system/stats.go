package system

import (
	"fmt"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// Stats is a point-in-time snapshot of the host resources a render job
// cares about.
type Stats struct {
	LogicalCores  int
	MemoryUsedPct float64
	MemoryTotalMB uint64
}

// Snapshot reads the current host stats. Fields that cannot be read stay at
// their zero value; resource reporting never fails a render.
func Snapshot() Stats {
	var s Stats
	if n, err := cpu.Counts(true); err == nil {
		s.LogicalCores = n
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		s.MemoryUsedPct = vm.UsedPercent
		s.MemoryTotalMB = vm.Total / (1024 * 1024)
	}
	return s
}

// String formats the snapshot for the end-of-job report.
func (s Stats) String() string {
	return fmt.Sprintf("cores=%d mem=%.1f%% of %dMB", s.LogicalCores, s.MemoryUsedPct, s.MemoryTotalMB)
}
