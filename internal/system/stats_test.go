package system

import (
	"strings"
	"testing"
)

func TestStatsString(t *testing.T) {
	s := Stats{LogicalCores: 8, MemoryUsedPct: 42.5, MemoryTotalMB: 16384}
	got := s.String()
	for _, want := range []string{"cores=8", "42.5%", "16384MB"} {
		if !strings.Contains(got, want) {
			t.Errorf("String() = %q, missing %q", got, want)
		}
	}
}

func TestSnapshotNeverPanics(t *testing.T) {
	s := Snapshot()
	if s.LogicalCores < 0 {
		t.Errorf("LogicalCores = %d", s.LogicalCores)
	}
}
