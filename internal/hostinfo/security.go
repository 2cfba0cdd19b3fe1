package hostinfo

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	gnet "github.com/shirou/gopsutil/v4/net"
	"github.com/shirou/gopsutil/v4/process"
)

const (
	authLogWindow  = 100 // log lines scanned for failures
	failedLoginCap = 10
	serviceCap     = 20
)

// CollectSecurity gathers the security report. Everything here is best
// effort; sections the process may not read come back empty or flagged.
func CollectSecurity(ctx context.Context) *SecurityReport {
	rep := &SecurityReport{}

	collectFirewall(ctx, rep)
	collectListeningPorts(ctx, rep)
	collectAuthLog(rep)

	if out := runCommand(ctx, "systemctl", "list-units", "--type=service", "--state=running", "--no-pager"); out != "" {
		services := parseServices(out)
		rep.ServiceTotal = len(services)
		rep.Services = services
		if len(rep.Services) > serviceCap {
			rep.Services = rep.Services[:serviceCap]
		}
	}

	rep.Users = parsePasswdUsers(readLines("/etc/passwd"))
	rep.SSH = parseSSHConfig(readLines("/etc/ssh/sshd_config"))

	rep.SELinux = runCommand(ctx, "getenforce")
	if out := runCommand(ctx, "aa-status"); out != "" {
		rep.AppArmor = firstN(strings.Split(out, "\n"), 5)
	}

	return rep
}

func collectFirewall(ctx context.Context, rep *SecurityReport) {
	if out := runCommand(ctx, "ufw", "status"); out != "" {
		rep.FirewallSource = "ufw"
		rep.Firewall = firstN(strings.Split(out, "\n"), 10)
		return
	}
	if out := runCommand(ctx, "iptables", "-L", "-n"); out != "" {
		rep.FirewallSource = "iptables"
		rep.Firewall = firstN(strings.Split(out, "\n"), 15)
	}
}

func collectListeningPorts(ctx context.Context, rep *SecurityReport) {
	conns, err := gnet.ConnectionsWithContext(ctx, "inet")
	if err != nil {
		rep.PortsDenied = true
		return
	}

	seen := make(map[string]bool)
	for _, conn := range conns {
		if conn.Status != "LISTEN" {
			continue
		}
		port := ListeningPort{
			Port:    conn.Laddr.Port,
			Proto:   protoName(conn.Type),
			Address: conn.Laddr.IP,
			Process: "-",
			PID:     conn.Pid,
		}
		if conn.Pid > 0 {
			if p, err := process.NewProcessWithContext(ctx, conn.Pid); err == nil {
				if name, err := p.NameWithContext(ctx); err == nil && name != "" {
					port.Process = name
				}
			}
		}
		key := fmt.Sprintf("%d/%s/%s", port.Port, port.Proto, port.Address)
		if seen[key] {
			continue
		}
		seen[key] = true
		rep.ListeningPorts = append(rep.ListeningPorts, port)
	}

	sort.Slice(rep.ListeningPorts, func(i, j int) bool {
		return rep.ListeningPorts[i].Port < rep.ListeningPorts[j].Port
	})
}

func collectAuthLog(rep *SecurityReport) {
	for _, path := range []string{"/var/log/auth.log", "/var/log/secure"} {
		lines := readLines(path)
		if lines == nil {
			continue
		}
		rep.AuthLogPath = path
		matches := filterFailedLogins(lastN(lines, authLogWindow))
		rep.FailedTotal = len(matches)
		for _, line := range lastN(matches, failedLoginCap) {
			rep.FailedLogins = append(rep.FailedLogins, truncateLine(line, 100))
		}
		return
	}
}

func filterFailedLogins(lines []string) []string {
	var matches []string
	for _, line := range lines {
		if strings.Contains(line, "Failed password") || strings.Contains(line, "authentication failure") {
			matches = append(matches, line)
		}
	}
	return matches
}

func parseServices(out string) []Service {
	var services []Service
	for _, line := range strings.Split(out, "\n") {
		// Failed units carry a "●" marker in its own column.
		line = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), "●"))
		fields := strings.Fields(line)
		if len(fields) < 4 || !strings.HasSuffix(fields[0], ".service") {
			continue
		}
		services = append(services, Service{
			Name:   strings.TrimSuffix(fields[0], ".service"),
			Status: fields[2],
		})
	}
	return services
}

// parsePasswdUsers keeps root and regular accounts (uid >= 1000); system
// accounts in between are noise for an audit summary.
func parsePasswdUsers(lines []string) []UserAccount {
	var users []UserAccount
	for _, line := range lines {
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.Split(line, ":")
		if len(parts) < 7 {
			continue
		}
		uid, err := strconv.Atoi(parts[2])
		if err != nil {
			continue
		}
		if uid != 0 && uid < 1000 {
			continue
		}
		users = append(users, UserAccount{Name: parts[0], UID: uid, Shell: parts[6]})
	}
	return users
}

func parseSSHConfig(lines []string) SSHConfig {
	cfg := SSHConfig{
		PermitRootLogin:        "not set",
		PasswordAuthentication: "not set",
		Port:                   "22",
	}
	for _, raw := range lines {
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		switch fields[0] {
		case "PermitRootLogin":
			cfg.PermitRootLogin = fields[1]
		case "PasswordAuthentication":
			cfg.PasswordAuthentication = fields[1]
		case "Port":
			cfg.Port = fields[1]
		}
	}
	return cfg
}
