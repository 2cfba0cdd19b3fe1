package app

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/sysx/internal/hostinfo"
	"github.com/blackwell-systems/sysx/internal/output"
)

var securityCmd = &cobra.Command{
	Use:   "security",
	Short: "Show firewall, ports, logins, and hardening posture",
	Long: `Report the host's security posture: firewall status (ufw or iptables,
whichever answers), listening sockets with their owning process, recent
failed logins from the auth log, running services, login-capable
accounts, the sshd settings an auditor checks first, and whether
SELinux or AppArmor is present.

Most sections read privileged sources; run with sudo for the complete
picture. Without it, sections degrade and say what they could not read.`,
	Example: `  sudo sysx security`,
	RunE:    runSecurity,
}

func init() {
	RootCmd.AddCommand(securityCmd)
}

func runSecurity(cmd *cobra.Command, args []string) error {
	if os.Geteuid() != 0 {
		fmt.Fprintln(os.Stderr, "⚠  running without root: some sections will be incomplete")
	}

	ctx, cancel := context.WithTimeout(context.Background(), collectTimeout)
	defer cancel()

	rep := hostinfo.CollectSecurity(ctx)
	fmt.Print(output.RenderSecurityReport(rep))
	return nil
}
