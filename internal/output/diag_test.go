package output

import (
	"strings"
	"testing"
	"time"

	"github.com/blackwell-systems/sysx/internal/hostinfo"
)

func systemReportFixture() *hostinfo.SystemReport {
	return &hostinfo.SystemReport{
		Hostname:     "web-01",
		OS:           "ubuntu 22.04",
		Kernel:       "5.15.0-78-generic",
		Architecture: "x86_64",
		Uptime:       73 * time.Hour,
		BootTime:     time.Now().Add(-73 * time.Hour),

		CPUModel:      "AMD EPYC 7543",
		PhysicalCores: 16,
		LogicalCores:  32,
		CPUMHz:        2800,
		CPUUsagePct:   12.3,
		Load1:         0.42,
		Load5:         0.51,
		Load15:        0.47,

		Memory: hostinfo.MemoryStats{
			Total:     8589934592,
			Available: 4294967296,
			Used:      4294967296,
			Free:      1073741824,
			UsedPct:   50.0,
		},
		Swap: hostinfo.SwapStats{
			Total:   2147483648,
			Used:    1073741824,
			UsedPct: 50.0,
		},

		Disks: []hostinfo.DiskStat{
			{
				Device:     "/dev/sda1",
				Mountpoint: "/",
				Fstype:     "ext4",
				Total:      107374182400,
				Used:       53687091200,
				Free:       53687091200,
				UsedPct:    50.0,
			},
		},
		DiskIO: &hostinfo.DiskIOStat{
			ReadCount:  1234567,
			WriteCount: 7654321,
			ReadBytes:  1073741824,
			WriteBytes: 2147483648,
		},

		TopProcesses: []hostinfo.ProcessStat{
			{PID: 812, Name: "postgres", RSS: 2147483648},
			{PID: 4411, Name: "java", RSS: 1073741824},
		},

		PCIDevices: []string{"00:00.0 Host bridge: Intel Corporation"},
	}
}

func TestRenderSystemReport(t *testing.T) {
	result := RenderSystemReport(systemReportFixture())

	contains := []string{
		"System", "web-01", "ubuntu 22.04", "5.15.0-78-generic", "x86_64",
		"3d 1h",
		"CPU", "AMD EPYC 7543", "16 physical, 32 logical", "2800 MHz", "12.3%",
		"0.42 0.51 0.47",
		"Memory", "8.0 GiB", "4.0 GiB (50.0%)",
		"Swap", "2.0 GiB total, 1.0 GiB used (50.0%)",
		"Disks", "/dev/sda1", "ext4", "100 GiB",
		"I/O since boot: 1,234,567 reads (1.0 GiB)", "7,654,321 writes (2.0 GiB)",
		"Top processes by memory", "postgres", "java",
		"Hardware", "00:00.0 Host bridge",
	}
	for _, expected := range contains {
		if !strings.Contains(result, expected) {
			t.Errorf("RenderSystemReport() missing expected string %q\nGot:\n%s", expected, result)
		}
	}
}

func TestRenderSystemReportEmptySwap(t *testing.T) {
	rep := systemReportFixture()
	rep.Swap = hostinfo.SwapStats{}
	rep.DiskIO = nil
	rep.TopProcesses = nil
	rep.PCIDevices = nil
	rep.USBDevices = nil

	result := RenderSystemReport(rep)
	if !strings.Contains(result, "Swap:") || !strings.Contains(result, "none") {
		t.Errorf("RenderSystemReport() should report missing swap\nGot:\n%s", result)
	}
	if strings.Contains(result, "I/O since boot") {
		t.Errorf("RenderSystemReport() should omit I/O line without counters\nGot:\n%s", result)
	}
	if strings.Contains(result, "Top processes") {
		t.Errorf("RenderSystemReport() should omit process section when empty\nGot:\n%s", result)
	}
	if strings.Contains(result, "Hardware") {
		t.Errorf("RenderSystemReport() should omit hardware section when empty\nGot:\n%s", result)
	}
}

func networkReportFixture() *hostinfo.NetworkReport {
	return &hostinfo.NetworkReport{
		Interfaces: []hostinfo.Interface{
			{Name: "eth0", Up: true, IPv4: "192.168.1.10", IPv6: "fe80::1", MAC: "aa:bb:cc:dd:ee:ff"},
			{Name: "wlan0", Up: false},
		},
		Totals: hostinfo.TrafficTotals{
			BytesSent:   1073741824,
			BytesRecv:   3221225472,
			PacketsSent: 1234567,
			PacketsRecv: 7654321,
			DropIn:      12,
		},
		PerNIC: []hostinfo.NICTraffic{
			{Name: "eth0", BytesSent: 1073741824, BytesRecv: 3221225472},
		},
		Connections: []hostinfo.Connection{
			{Proto: "tcp", Local: "192.168.1.10:22", Remote: "10.0.0.5:53211", Status: "ESTABLISHED"},
		},
		ConnTotal:   134,
		Routes:      []string{"default via 192.168.1.1 dev eth0"},
		Gateway:     "192.168.1.1",
		Nameservers: []string{"1.1.1.1", "8.8.8.8"},
	}
}

func TestRenderNetworkReport(t *testing.T) {
	result := RenderNetworkReport(networkReportFixture())

	contains := []string{
		"Interfaces",
		"eth0", "up", "192.168.1.10", "fe80::1", "aa:bb:cc:dd:ee:ff",
		"wlan0", "down",
		"Traffic",
		"sent 1.0 GiB (1,234,567 packets)", "received 3.0 GiB (7,654,321 packets)",
		"Drops: 12 in, 0 out",
		"Connections (1 of 134 shown)",
		"tcp", "192.168.1.10:22", "10.0.0.5:53211", "ESTABLISHED",
		"Routing",
		"default via 192.168.1.1 dev eth0",
		"192.168.1.1",
		"1.1.1.1, 8.8.8.8",
	}
	for _, expected := range contains {
		if !strings.Contains(result, expected) {
			t.Errorf("RenderNetworkReport() missing expected string %q\nGot:\n%s", expected, result)
		}
	}
}

func TestRenderNetworkReportDeniedConnections(t *testing.T) {
	rep := networkReportFixture()
	rep.Connections = nil
	rep.ConnTotal = 0
	rep.ConnDenied = true

	result := RenderNetworkReport(rep)
	if !strings.Contains(result, "listing denied: requires elevated privileges") {
		t.Errorf("RenderNetworkReport() should explain denied listing\nGot:\n%s", result)
	}
}

func securityReportFixture() *hostinfo.SecurityReport {
	return &hostinfo.SecurityReport{
		FirewallSource: "ufw",
		Firewall:       []string{"Status: active"},
		ListeningPorts: []hostinfo.ListeningPort{
			{Port: 22, Proto: "tcp", Address: "0.0.0.0", Process: "sshd", PID: 812},
			{Port: 53, Proto: "udp", Address: "127.0.0.53"},
		},
		FailedLogins: []string{"Aug 20 11:02:17 web-01 sshd[999]: Failed password for root"},
		FailedTotal:  7,
		AuthLogPath:  "/var/log/auth.log",
		Services: []hostinfo.Service{
			{Name: "ssh", Status: "active"},
		},
		ServiceTotal: 42,
		Users: []hostinfo.UserAccount{
			{Name: "root", UID: 0, Shell: "/bin/bash"},
			{Name: "toor", UID: 0, Shell: "/bin/sh"},
			{Name: "alice", UID: 1000, Shell: "/bin/bash"},
		},
		SSH: hostinfo.SSHConfig{
			PermitRootLogin:        "yes",
			PasswordAuthentication: "no",
			Port:                   "22",
		},
		SELinux: "",
		AppArmor: []string{
			"apparmor module is loaded.",
			"36 profiles are loaded.",
		},
	}
}

func TestRenderSecurityReport(t *testing.T) {
	result := RenderSecurityReport(securityReportFixture())

	contains := []string{
		"Firewall (ufw)", "Status: active",
		"Listening ports", "22", "sshd (pid 812)", "127.0.0.53",
		"Failed logins", "/var/log/auth.log", "7", "Failed password for root",
		"Services (1 of 42 shown)", "ssh", "active",
		"Users", "root", "alice",
		"toor", "(extra superuser!)",
		"SSH daemon", "PermitRootLogin:", "yes", "PasswordAuthentication:", "no", "Port:",
		"Mandatory access control", "not present", "apparmor module is loaded.",
	}
	for _, expected := range contains {
		if !strings.Contains(result, expected) {
			t.Errorf("RenderSecurityReport() missing expected string %q\nGot:\n%s", expected, result)
		}
	}

	// root itself and regular accounts must not be flagged
	if got := strings.Count(result, "(extra superuser!)"); got != 1 {
		t.Errorf("expected exactly one flagged account, got %d\nOutput:\n%s", got, result)
	}
}

func TestRenderSecurityReportFallbacks(t *testing.T) {
	rep := &hostinfo.SecurityReport{
		SSH: hostinfo.SSHConfig{PermitRootLogin: "not set", PasswordAuthentication: "not set", Port: "22"},
	}

	result := RenderSecurityReport(rep)
	contains := []string{
		"No firewall tooling answered.",
		"No listening sockets.",
		"No readable auth log found.",
		"No service listing available.",
		"No account listing available.",
		"not set",
	}
	for _, expected := range contains {
		if !strings.Contains(result, expected) {
			t.Errorf("RenderSecurityReport() missing expected string %q\nGot:\n%s", expected, result)
		}
	}
}

func TestFormatUptime(t *testing.T) {
	tests := []struct {
		name string
		d    time.Duration
		want string
	}{
		{"zero", 0, "unknown"},
		{"minutes only", 25 * time.Minute, "25m"},
		{"hours and minutes", 3*time.Hour + 12*time.Minute, "3h 12m"},
		{"days and hours", 73 * time.Hour, "3d 1h"},
		{"exact day", 24 * time.Hour, "1d 0h"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := formatUptime(tt.d)
			if got != tt.want {
				t.Errorf("formatUptime(%v) = %q, want %q", tt.d, got, tt.want)
			}
		})
	}
}

// Visual test - prints the full diagnostic views for manual verification
func TestVisualDiagnostics(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping visual test in short mode")
	}

	t.Log("\n" + RenderSystemReport(systemReportFixture()))
	t.Log("\n" + RenderNetworkReport(networkReportFixture()))
	t.Log("\n" + RenderSecurityReport(securityReportFixture()))
}
