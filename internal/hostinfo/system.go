package hostinfo

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/disk"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/load"
	"github.com/shirou/gopsutil/v4/mem"
	"github.com/shirou/gopsutil/v4/process"
)

// CollectSystem gathers the system report. The returned error covers only
// the basic host query; every other section degrades to empty fields.
func CollectSystem(ctx context.Context) (*SystemReport, error) {
	info, err := host.InfoWithContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("query host info: %w", err)
	}

	rep := &SystemReport{
		Hostname:     info.Hostname,
		OS:           strings.TrimSpace(info.Platform + " " + info.PlatformVersion),
		Kernel:       info.KernelVersion,
		Architecture: info.KernelArch,
		Uptime:       time.Duration(info.Uptime) * time.Second,
		BootTime:     time.Unix(int64(info.BootTime), 0),
	}

	collectCPU(ctx, rep)
	collectMemory(ctx, rep)
	collectDisks(ctx, rep)
	collectTopProcesses(ctx, rep)
	collectHardware(ctx, rep)

	return rep, nil
}

func collectCPU(ctx context.Context, rep *SystemReport) {
	if infos, err := cpu.InfoWithContext(ctx); err == nil && len(infos) > 0 {
		rep.CPUModel = infos[0].ModelName
		rep.CPUMHz = infos[0].Mhz
	}
	if n, err := cpu.CountsWithContext(ctx, false); err == nil {
		rep.PhysicalCores = n
	}
	if n, err := cpu.CountsWithContext(ctx, true); err == nil {
		rep.LogicalCores = n
	}
	// A short sampling window; instantaneous usage is meaningless.
	if pcts, err := cpu.PercentWithContext(ctx, time.Second, false); err == nil && len(pcts) > 0 {
		rep.CPUUsagePct = pcts[0]
	}
	if avg, err := load.AvgWithContext(ctx); err == nil {
		rep.Load1 = avg.Load1
		rep.Load5 = avg.Load5
		rep.Load15 = avg.Load15
	}
}

func collectMemory(ctx context.Context, rep *SystemReport) {
	if vm, err := mem.VirtualMemoryWithContext(ctx); err == nil {
		rep.Memory = MemoryStats{
			Total:     vm.Total,
			Available: vm.Available,
			Used:      vm.Used,
			Free:      vm.Free,
			UsedPct:   vm.UsedPercent,
		}
	}
	if sw, err := mem.SwapMemoryWithContext(ctx); err == nil {
		rep.Swap = SwapStats{
			Total:   sw.Total,
			Used:    sw.Used,
			Free:    sw.Free,
			UsedPct: sw.UsedPercent,
		}
	}
}

func collectDisks(ctx context.Context, rep *SystemReport) {
	parts, err := disk.PartitionsWithContext(ctx, false)
	if err == nil {
		for _, part := range parts {
			usage, err := disk.UsageWithContext(ctx, part.Mountpoint)
			if err != nil {
				// Mounts we may not statfs are left out, same as any
				// other unreadable diagnostic.
				continue
			}
			rep.Disks = append(rep.Disks, DiskStat{
				Device:     part.Device,
				Mountpoint: part.Mountpoint,
				Fstype:     part.Fstype,
				Total:      usage.Total,
				Used:       usage.Used,
				Free:       usage.Free,
				UsedPct:    usage.UsedPercent,
			})
		}
	}

	if counters, err := disk.IOCountersWithContext(ctx); err == nil && len(counters) > 0 {
		total := &DiskIOStat{}
		for _, c := range counters {
			total.ReadCount += c.ReadCount
			total.WriteCount += c.WriteCount
			total.ReadBytes += c.ReadBytes
			total.WriteBytes += c.WriteBytes
		}
		rep.DiskIO = total
	}
}

// topProcessCount bounds the process table section of the report.
const topProcessCount = 5

func collectTopProcesses(ctx context.Context, rep *SystemReport) {
	procs, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return
	}

	stats := make([]ProcessStat, 0, len(procs))
	for _, p := range procs {
		mi, err := p.MemoryInfoWithContext(ctx)
		if err != nil || mi == nil || mi.RSS == 0 {
			continue
		}
		name, err := p.NameWithContext(ctx)
		if err != nil {
			continue
		}
		stats = append(stats, ProcessStat{PID: p.Pid, Name: name, RSS: mi.RSS})
	}

	sort.Slice(stats, func(i, j int) bool {
		if stats[i].RSS != stats[j].RSS {
			return stats[i].RSS > stats[j].RSS
		}
		return stats[i].PID < stats[j].PID
	})
	if len(stats) > topProcessCount {
		stats = stats[:topProcessCount]
	}
	rep.TopProcesses = stats
}

func collectHardware(ctx context.Context, rep *SystemReport) {
	if out := runCommand(ctx, "lspci"); out != "" {
		rep.PCIDevices = firstN(strings.Split(out, "\n"), 10)
	}
	if out := runCommand(ctx, "lsusb"); out != "" {
		for _, line := range strings.Split(out, "\n") {
			if strings.TrimSpace(line) != "" {
				rep.USBDevices = append(rep.USBDevices, line)
			}
		}
	}
}
