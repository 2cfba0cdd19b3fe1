package hostinfo

import (
	"context"
	"fmt"
	"strings"

	gnet "github.com/shirou/gopsutil/v4/net"
	"golang.org/x/sys/unix"
)

// connectionCap bounds the connection listing; the report still carries
// the full count.
const connectionCap = 20

// CollectNetwork gathers the network report. The returned error covers
// only the interface listing; traffic, connections, routing and DNS
// degrade to empty sections.
func CollectNetwork(ctx context.Context) (*NetworkReport, error) {
	ifaces, err := gnet.InterfacesWithContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("query interfaces: %w", err)
	}

	rep := &NetworkReport{}
	for _, iface := range ifaces {
		rep.Interfaces = append(rep.Interfaces, summarizeInterface(iface))
	}

	collectTraffic(ctx, rep)
	collectConnections(ctx, rep)

	rep.Routes = routeLines(runCommand(ctx, "ip", "route"))
	rep.Gateway = gatewayFrom(rep.Routes)
	rep.Nameservers = parseNameservers(readLines("/etc/resolv.conf"))

	return rep, nil
}

func summarizeInterface(iface gnet.InterfaceStat) Interface {
	out := Interface{
		Name: iface.Name,
		MAC:  iface.HardwareAddr,
	}
	for _, flag := range iface.Flags {
		if flag == "up" {
			out.Up = true
		}
	}
	for _, addr := range iface.Addrs {
		ip := addr.Addr
		if i := strings.IndexByte(ip, '/'); i >= 0 {
			ip = ip[:i]
		}
		if strings.Contains(ip, ":") {
			if out.IPv6 == "" {
				out.IPv6 = ip
			}
		} else if out.IPv4 == "" {
			out.IPv4 = ip
		}
	}
	return out
}

func collectTraffic(ctx context.Context, rep *NetworkReport) {
	if totals, err := gnet.IOCountersWithContext(ctx, false); err == nil && len(totals) > 0 {
		t := totals[0]
		rep.Totals = TrafficTotals{
			BytesSent:   t.BytesSent,
			BytesRecv:   t.BytesRecv,
			PacketsSent: t.PacketsSent,
			PacketsRecv: t.PacketsRecv,
			ErrIn:       t.Errin,
			ErrOut:      t.Errout,
			DropIn:      t.Dropin,
			DropOut:     t.Dropout,
		}
	}
	if perNIC, err := gnet.IOCountersWithContext(ctx, true); err == nil {
		for _, c := range perNIC {
			rep.PerNIC = append(rep.PerNIC, NICTraffic{
				Name:        c.Name,
				BytesSent:   c.BytesSent,
				BytesRecv:   c.BytesRecv,
				PacketsSent: c.PacketsSent,
				PacketsRecv: c.PacketsRecv,
			})
		}
	}
}

func collectConnections(ctx context.Context, rep *NetworkReport) {
	conns, err := gnet.ConnectionsWithContext(ctx, "inet")
	if err != nil {
		rep.ConnDenied = true
		return
	}
	rep.ConnTotal = len(conns)
	for _, conn := range conns {
		if len(rep.Connections) == connectionCap {
			break
		}
		rep.Connections = append(rep.Connections, Connection{
			Proto:  protoName(conn.Type),
			Local:  formatAddr(conn.Laddr.IP, conn.Laddr.Port),
			Remote: formatAddr(conn.Raddr.IP, conn.Raddr.Port),
			Status: conn.Status,
		})
	}
}

func protoName(sockType uint32) string {
	if sockType == unix.SOCK_STREAM {
		return "tcp"
	}
	return "udp"
}

func formatAddr(ip string, port uint32) string {
	if ip == "" {
		return "-"
	}
	return fmt.Sprintf("%s:%d", ip, port)
}

func routeLines(out string) []string {
	if out == "" {
		return nil
	}
	var routes []string
	for _, line := range strings.Split(out, "\n") {
		if strings.TrimSpace(line) != "" {
			routes = append(routes, line)
		}
	}
	return routes
}

// gatewayFrom picks the default gateway out of `ip route` output.
func gatewayFrom(routes []string) string {
	for _, line := range routes {
		fields := strings.Fields(line)
		if len(fields) >= 3 && fields[0] == "default" && fields[1] == "via" {
			return fields[2]
		}
	}
	return ""
}

func parseNameservers(lines []string) []string {
	var servers []string
	for _, line := range lines {
		if !strings.HasPrefix(line, "nameserver") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) >= 2 {
			servers = append(servers, fields[1])
		}
	}
	return servers
}
