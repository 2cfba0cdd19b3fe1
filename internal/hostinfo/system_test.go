package hostinfo

import (
	"context"
	"testing"
)

func TestCollectSystemSmoke(t *testing.T) {
	if testing.Short() {
		t.Skip("samples CPU usage for a second, skipping in short mode")
	}

	rep, err := CollectSystem(context.Background())
	if err != nil {
		t.Fatalf("CollectSystem() error = %v", err)
	}

	if rep.Hostname == "" {
		t.Error("Hostname is empty")
	}
	if rep.Kernel == "" {
		t.Error("Kernel is empty")
	}
	if rep.Uptime <= 0 {
		t.Errorf("Uptime = %v, want > 0", rep.Uptime)
	}
	if rep.Memory.Total == 0 {
		t.Error("Memory.Total = 0")
	}
	if rep.LogicalCores < 1 {
		t.Errorf("LogicalCores = %d, want >= 1", rep.LogicalCores)
	}
	if rep.LogicalCores < rep.PhysicalCores {
		t.Errorf("LogicalCores %d < PhysicalCores %d", rep.LogicalCores, rep.PhysicalCores)
	}

	// At minimum the test process itself is visible with a resident set.
	if len(rep.TopProcesses) == 0 {
		t.Error("TopProcesses is empty")
	}
	if len(rep.TopProcesses) > topProcessCount {
		t.Errorf("TopProcesses has %d entries, want at most %d", len(rep.TopProcesses), topProcessCount)
	}
	for i := 1; i < len(rep.TopProcesses); i++ {
		if rep.TopProcesses[i].RSS > rep.TopProcesses[i-1].RSS {
			t.Errorf("TopProcesses not sorted by resident size at %d", i)
		}
	}
}
