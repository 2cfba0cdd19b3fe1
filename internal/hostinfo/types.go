// Package hostinfo collects read-only diagnostic reports about the local
// host: system resources, network state, and security posture. Collectors
// query the OS (gopsutil, /proc, a few well-known commands) and fill value
// structs; rendering belongs to the output package. Every section is best
// effort: what cannot be read is left empty, never fatal.
package hostinfo

import "time"

// SystemReport describes the host's hardware and resource usage.
type SystemReport struct {
	Hostname     string
	OS           string // platform name and version
	Kernel       string
	Architecture string
	Uptime       time.Duration
	BootTime     time.Time

	CPUModel      string
	PhysicalCores int
	LogicalCores  int
	CPUMHz        float64
	CPUUsagePct   float64
	Load1         float64
	Load5         float64
	Load15        float64

	Memory MemoryStats
	Swap   SwapStats

	Disks  []DiskStat
	DiskIO *DiskIOStat // nil when counters are unavailable

	TopProcesses []ProcessStat // largest resident sets first

	PCIDevices []string
	USBDevices []string
}

// ProcessStat identifies one process and its resident memory.
type ProcessStat struct {
	PID  int32
	Name string
	RSS  uint64
}

// MemoryStats mirrors the interesting fields of virtual memory.
type MemoryStats struct {
	Total     uint64
	Available uint64
	Used      uint64
	Free      uint64
	UsedPct   float64
}

// SwapStats mirrors swap usage.
type SwapStats struct {
	Total   uint64
	Used    uint64
	Free    uint64
	UsedPct float64
}

// DiskStat is one mounted filesystem.
type DiskStat struct {
	Device     string
	Mountpoint string
	Fstype     string
	Total      uint64
	Used       uint64
	Free       uint64
	UsedPct    float64
}

// DiskIOStat aggregates block I/O since boot.
type DiskIOStat struct {
	ReadCount  uint64
	WriteCount uint64
	ReadBytes  uint64
	WriteBytes uint64
}

// NetworkReport describes interfaces, traffic, connections and resolution.
type NetworkReport struct {
	Interfaces  []Interface
	Totals      TrafficTotals
	PerNIC      []NICTraffic
	Connections []Connection
	ConnTotal   int  // full connection count, Connections may be capped
	ConnDenied  bool // listing needed privileges we do not have
	Routes      []string
	Gateway     string
	Nameservers []string
}

// Interface is one network interface with its primary addresses.
type Interface struct {
	Name string
	Up   bool
	IPv4 string
	IPv6 string
	MAC  string
}

// TrafficTotals aggregates traffic across all interfaces since boot.
type TrafficTotals struct {
	BytesSent   uint64
	BytesRecv   uint64
	PacketsSent uint64
	PacketsRecv uint64
	ErrIn       uint64
	ErrOut      uint64
	DropIn      uint64
	DropOut     uint64
}

// NICTraffic is per-interface traffic since boot.
type NICTraffic struct {
	Name        string
	BytesSent   uint64
	BytesRecv   uint64
	PacketsSent uint64
	PacketsRecv uint64
}

// Connection is one socket in the inet table.
type Connection struct {
	Proto  string
	Local  string
	Remote string
	Status string
}

// SecurityReport describes the host's security posture.
type SecurityReport struct {
	FirewallSource string // "ufw", "iptables", or "" when neither answered
	Firewall       []string

	ListeningPorts []ListeningPort
	PortsDenied    bool

	FailedLogins []string // most recent matching auth log lines
	FailedTotal  int
	AuthLogPath  string // log that was read, "" when none was readable

	Services     []Service
	ServiceTotal int

	Users []UserAccount

	SSH SSHConfig

	SELinux  string
	AppArmor []string
}

// ListeningPort is one listening inet socket.
type ListeningPort struct {
	Port    uint32
	Proto   string
	Address string
	Process string
	PID     int32
}

// Service is one running system service.
type Service struct {
	Name   string
	Status string
}

// UserAccount is one login account worth showing: root or a regular user.
type UserAccount struct {
	Name  string
	UID   int
	Shell string
}

// SSHConfig holds the sshd settings an auditor looks at first.
type SSHConfig struct {
	PermitRootLogin        string
	PasswordAuthentication string
	Port                   string
}
