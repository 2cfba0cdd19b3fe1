package output

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/blackwell-systems/sysx/internal/hostinfo"
)

// writeHeader renders a diagnostic section title with a rule under it.
func writeHeader(sb *strings.Builder, title string) {
	sb.WriteString(title)
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("─", 60))
	sb.WriteString("\n")
}

// writeKV renders one aligned "label: value" line inside a section.
func writeKV(sb *strings.Builder, label, value string) {
	sb.WriteString(fmt.Sprintf("  %-24s %s\n", label+":", value))
}

// RenderSystemReport renders the host resource view: identity, CPU,
// memory, disks, and enumerated hardware.
func RenderSystemReport(rep *hostinfo.SystemReport) string {
	var sb strings.Builder

	writeHeader(&sb, "System")
	writeKV(&sb, "Hostname", orDash(rep.Hostname))
	writeKV(&sb, "OS", orDash(rep.OS))
	writeKV(&sb, "Kernel", orDash(rep.Kernel))
	writeKV(&sb, "Architecture", orDash(rep.Architecture))
	writeKV(&sb, "Uptime", formatUptime(rep.Uptime))
	if !rep.BootTime.IsZero() {
		writeKV(&sb, "Booted", fmt.Sprintf("%s (%s)",
			rep.BootTime.Format("2006-01-02 15:04"), formatRelativeTime(rep.BootTime)))
	}

	sb.WriteString("\n")
	writeHeader(&sb, "CPU")
	writeKV(&sb, "Model", orDash(rep.CPUModel))
	writeKV(&sb, "Cores", fmt.Sprintf("%d physical, %d logical", rep.PhysicalCores, rep.LogicalCores))
	if rep.CPUMHz > 0 {
		writeKV(&sb, "Clock", fmt.Sprintf("%.0f MHz", rep.CPUMHz))
	}
	writeKV(&sb, "Usage", fmt.Sprintf("%.1f%%", rep.CPUUsagePct))
	writeKV(&sb, "Load (1/5/15)", fmt.Sprintf("%.2f %.2f %.2f", rep.Load1, rep.Load5, rep.Load15))

	sb.WriteString("\n")
	writeHeader(&sb, "Memory")
	writeKV(&sb, "Total", humanize.IBytes(rep.Memory.Total))
	writeKV(&sb, "Available", humanize.IBytes(rep.Memory.Available))
	writeKV(&sb, "Used", fmt.Sprintf("%s (%.1f%%)", humanize.IBytes(rep.Memory.Used), rep.Memory.UsedPct))
	writeKV(&sb, "Free", humanize.IBytes(rep.Memory.Free))
	if rep.Swap.Total > 0 {
		writeKV(&sb, "Swap", fmt.Sprintf("%s total, %s used (%.1f%%)",
			humanize.IBytes(rep.Swap.Total), humanize.IBytes(rep.Swap.Used), rep.Swap.UsedPct))
	} else {
		writeKV(&sb, "Swap", "none")
	}

	sb.WriteString("\n")
	writeHeader(&sb, "Disks")
	if len(rep.Disks) == 0 {
		sb.WriteString("  No mounted filesystems found.\n")
	} else {
		sb.WriteString(fmt.Sprintf("  %-16s %-18s %-8s %-10s %-10s %-10s %s\n",
			"Device", "Mount", "Type", "Size", "Used", "Free", "Use%"))
		for _, d := range rep.Disks {
			sb.WriteString(fmt.Sprintf("  %-16s %-18s %-8s %-10s %-10s %-10s %.1f%%\n",
				truncate(d.Device, 16),
				truncate(d.Mountpoint, 18),
				d.Fstype,
				humanize.IBytes(d.Total),
				humanize.IBytes(d.Used),
				humanize.IBytes(d.Free),
				d.UsedPct))
		}
	}
	if io := rep.DiskIO; io != nil {
		sb.WriteString(fmt.Sprintf("  I/O since boot: %s reads (%s) · %s writes (%s)\n",
			humanize.Comma(int64(io.ReadCount)), humanize.IBytes(io.ReadBytes),
			humanize.Comma(int64(io.WriteCount)), humanize.IBytes(io.WriteBytes)))
	}

	if len(rep.TopProcesses) > 0 {
		sb.WriteString("\n")
		writeHeader(&sb, "Top processes by memory")
		sb.WriteString(fmt.Sprintf("  %-8s %-28s %s\n", "PID", "Name", "Resident"))
		for _, p := range rep.TopProcesses {
			sb.WriteString(fmt.Sprintf("  %-8d %-28s %s\n",
				p.PID, truncate(p.Name, 28), humanize.IBytes(p.RSS)))
		}
	}

	if len(rep.PCIDevices) > 0 || len(rep.USBDevices) > 0 {
		sb.WriteString("\n")
		writeHeader(&sb, "Hardware")
		for _, line := range rep.PCIDevices {
			sb.WriteString("  " + line + "\n")
		}
		for _, line := range rep.USBDevices {
			sb.WriteString("  " + line + "\n")
		}
	}

	return sb.String()
}

// RenderNetworkReport renders interfaces, traffic counters, the capped
// connection table, and routing information.
func RenderNetworkReport(rep *hostinfo.NetworkReport) string {
	var sb strings.Builder

	writeHeader(&sb, "Interfaces")
	if len(rep.Interfaces) == 0 {
		sb.WriteString("  No interfaces found.\n")
	} else {
		sb.WriteString(fmt.Sprintf("  %-12s %-6s %-16s %-26s %s\n",
			"Name", "State", "IPv4", "IPv6", "MAC"))
		for _, nic := range rep.Interfaces {
			// Pad before colorizing so escape codes do not skew the columns.
			state := colorize(colorGray, fmt.Sprintf("%-6s", "down"))
			if nic.Up {
				state = colorize(colorGreen, fmt.Sprintf("%-6s", "up"))
			}
			sb.WriteString(fmt.Sprintf("  %-12s %s %-16s %-26s %s\n",
				truncate(nic.Name, 12),
				state,
				orDash(nic.IPv4),
				truncate(orDash(nic.IPv6), 26),
				orDash(nic.MAC)))
		}
	}

	sb.WriteString("\n")
	writeHeader(&sb, "Traffic")
	t := rep.Totals
	sb.WriteString(fmt.Sprintf("  Total: sent %s (%s packets) · received %s (%s packets)\n",
		humanize.IBytes(t.BytesSent), humanize.Comma(int64(t.PacketsSent)),
		humanize.IBytes(t.BytesRecv), humanize.Comma(int64(t.PacketsRecv))))
	sb.WriteString(fmt.Sprintf("  Errors: %d in, %d out · Drops: %d in, %d out\n",
		t.ErrIn, t.ErrOut, t.DropIn, t.DropOut))
	if len(rep.PerNIC) > 0 {
		sb.WriteString(fmt.Sprintf("  %-12s %-12s %s\n", "Name", "Sent", "Received"))
		for _, nic := range rep.PerNIC {
			sb.WriteString(fmt.Sprintf("  %-12s %-12s %s\n",
				truncate(nic.Name, 12),
				humanize.IBytes(nic.BytesSent),
				humanize.IBytes(nic.BytesRecv)))
		}
	}

	sb.WriteString("\n")
	header := "Connections"
	if rep.ConnTotal > len(rep.Connections) {
		header = fmt.Sprintf("Connections (%d of %d shown)", len(rep.Connections), rep.ConnTotal)
	}
	writeHeader(&sb, header)
	switch {
	case rep.ConnDenied:
		sb.WriteString(colorize(colorYellow, "  listing denied: requires elevated privileges\n"))
	case len(rep.Connections) == 0:
		sb.WriteString("  No connections.\n")
	default:
		sb.WriteString(fmt.Sprintf("  %-6s %-26s %-26s %s\n", "Proto", "Local", "Remote", "Status"))
		for _, c := range rep.Connections {
			sb.WriteString(fmt.Sprintf("  %-6s %-26s %-26s %s\n",
				c.Proto,
				truncate(c.Local, 26),
				truncate(c.Remote, 26),
				c.Status))
		}
	}

	sb.WriteString("\n")
	writeHeader(&sb, "Routing")
	for _, r := range rep.Routes {
		sb.WriteString("  " + r + "\n")
	}
	writeKV(&sb, "Gateway", orDash(rep.Gateway))
	writeKV(&sb, "Nameservers", orDash(strings.Join(rep.Nameservers, ", ")))

	return sb.String()
}

// RenderSecurityReport renders the security posture view: firewall,
// listening sockets, auth failures, services, accounts, and sshd settings.
func RenderSecurityReport(rep *hostinfo.SecurityReport) string {
	var sb strings.Builder

	title := "Firewall"
	if rep.FirewallSource != "" {
		title = fmt.Sprintf("Firewall (%s)", rep.FirewallSource)
	}
	writeHeader(&sb, title)
	if len(rep.Firewall) == 0 {
		sb.WriteString(colorize(colorYellow, "  No firewall tooling answered.\n"))
	} else {
		for _, line := range rep.Firewall {
			sb.WriteString("  " + line + "\n")
		}
	}

	sb.WriteString("\n")
	writeHeader(&sb, "Listening ports")
	switch {
	case rep.PortsDenied:
		sb.WriteString(colorize(colorYellow, "  listing denied: requires elevated privileges\n"))
	case len(rep.ListeningPorts) == 0:
		sb.WriteString("  No listening sockets.\n")
	default:
		sb.WriteString(fmt.Sprintf("  %-7s %-6s %-26s %s\n", "Port", "Proto", "Address", "Process"))
		for _, p := range rep.ListeningPorts {
			proc := "-"
			if p.Process != "" {
				proc = fmt.Sprintf("%s (pid %d)", p.Process, p.PID)
			}
			sb.WriteString(fmt.Sprintf("  %-7d %-6s %-26s %s\n",
				p.Port, p.Proto, truncate(p.Address, 26), proc))
		}
	}

	sb.WriteString("\n")
	writeHeader(&sb, "Failed logins")
	if rep.AuthLogPath == "" {
		sb.WriteString("  No readable auth log found.\n")
	} else {
		writeKV(&sb, "Log", rep.AuthLogPath)
		writeKV(&sb, "Recent failures", fmt.Sprintf("%d", rep.FailedTotal))
		for _, line := range rep.FailedLogins {
			sb.WriteString(colorize(colorGray, "  "+line+"\n"))
		}
	}

	sb.WriteString("\n")
	header := "Services"
	if rep.ServiceTotal > len(rep.Services) {
		header = fmt.Sprintf("Services (%d of %d shown)", len(rep.Services), rep.ServiceTotal)
	}
	writeHeader(&sb, header)
	if len(rep.Services) == 0 {
		sb.WriteString("  No service listing available.\n")
	} else {
		for _, svc := range rep.Services {
			sb.WriteString(fmt.Sprintf("  %-36s %s\n", truncate(svc.Name, 36), svc.Status))
		}
	}

	sb.WriteString("\n")
	writeHeader(&sb, "Users")
	if len(rep.Users) == 0 {
		sb.WriteString("  No account listing available.\n")
	} else {
		sb.WriteString(fmt.Sprintf("  %-20s %-6s %s\n", "Name", "UID", "Shell"))
		for _, u := range rep.Users {
			line := fmt.Sprintf("  %-20s %-6d %s", truncate(u.Name, 20), u.UID, u.Shell)
			// A second UID-0 account is the classic backdoor.
			if u.UID == 0 && u.Name != "root" {
				line = colorize(colorRed, line+"  (extra superuser!)")
			}
			sb.WriteString(line + "\n")
		}
	}

	sb.WriteString("\n")
	writeHeader(&sb, "SSH daemon")
	writeKV(&sb, "PermitRootLogin", sshValueCell(rep.SSH.PermitRootLogin))
	writeKV(&sb, "PasswordAuthentication", sshValueCell(rep.SSH.PasswordAuthentication))
	writeKV(&sb, "Port", rep.SSH.Port)

	sb.WriteString("\n")
	writeHeader(&sb, "Mandatory access control")
	writeKV(&sb, "SELinux", orNotPresent(rep.SELinux))
	if len(rep.AppArmor) == 0 {
		writeKV(&sb, "AppArmor", "not present")
	} else {
		writeKV(&sb, "AppArmor", rep.AppArmor[0])
		for _, line := range rep.AppArmor[1:] {
			sb.WriteString("  " + strings.Repeat(" ", 25) + line + "\n")
		}
	}

	return sb.String()
}

// sshValueCell highlights permissive sshd settings.
func sshValueCell(v string) string {
	if strings.EqualFold(v, "yes") {
		return colorize(colorRed, v)
	}
	return v
}

// formatUptime renders a duration the way uptime(1) reads, coarsest two
// units only.
func formatUptime(d time.Duration) string {
	if d <= 0 {
		return "unknown"
	}
	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	mins := int(d.Minutes()) % 60
	switch {
	case days > 0:
		return fmt.Sprintf("%dd %dh", days, hours)
	case hours > 0:
		return fmt.Sprintf("%dh %dm", hours, mins)
	default:
		return fmt.Sprintf("%dm", mins)
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func orNotPresent(s string) string {
	if s == "" {
		return "not present"
	}
	return s
}
