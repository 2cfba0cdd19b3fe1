package hostinfo

import (
	"context"
	"strings"
	"testing"
)

func TestParseServices(t *testing.T) {
	out := strings.Join([]string{
		"  UNIT                  LOAD   ACTIVE SUB     DESCRIPTION",
		"  cron.service          loaded active running Regular background program processing daemon",
		"● ssh.service           loaded active running OpenBSD Secure Shell server",
		"  short.service loaded",
		"",
		"LOAD   = Reflects whether the unit definition was properly loaded.",
	}, "\n")

	got := parseServices(out)

	if len(got) != 2 {
		t.Fatalf("got %d services, want 2: %+v", len(got), got)
	}
	if got[0].Name != "cron" || got[0].Status != "active" {
		t.Errorf("service 0 = %+v, want cron/active", got[0])
	}
	if got[1].Name != "ssh" {
		t.Errorf("service 1 = %+v, want ssh (marker prefix stripped)", got[1])
	}
}

func TestParsePasswdUsers(t *testing.T) {
	lines := []string{
		"root:x:0:0:root:/root:/bin/bash",
		"daemon:x:1:1:daemon:/usr/sbin:/usr/sbin/nologin",
		"systemd-network:x:998:998::/:/usr/sbin/nologin",
		"alice:x:1000:1000:Alice:/home/alice:/bin/zsh",
		"nobody:x:65534:65534:nobody:/nonexistent:/usr/sbin/nologin",
		"# a comment",
		"",
		"broken:line",
	}

	got := parsePasswdUsers(lines)

	want := []UserAccount{
		{Name: "root", UID: 0, Shell: "/bin/bash"},
		{Name: "alice", UID: 1000, Shell: "/bin/zsh"},
		{Name: "nobody", UID: 65534, Shell: "/usr/sbin/nologin"},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d users, want %d: %+v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("user %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestParseSSHConfig(t *testing.T) {
	lines := []string{
		"# sshd_config",
		"Port 2222",
		"#PermitRootLogin yes",
		"PermitRootLogin prohibit-password",
		"PasswordAuthentication no",
		"UsePAM yes",
	}

	got := parseSSHConfig(lines)

	if got.Port != "2222" {
		t.Errorf("Port = %q, want 2222", got.Port)
	}
	if got.PermitRootLogin != "prohibit-password" {
		t.Errorf("PermitRootLogin = %q (commented line must not win)", got.PermitRootLogin)
	}
	if got.PasswordAuthentication != "no" {
		t.Errorf("PasswordAuthentication = %q", got.PasswordAuthentication)
	}
}

func TestParseSSHConfigDefaults(t *testing.T) {
	got := parseSSHConfig(nil)

	if got.Port != "22" {
		t.Errorf("default Port = %q, want 22", got.Port)
	}
	if got.PermitRootLogin != "not set" {
		t.Errorf("default PermitRootLogin = %q", got.PermitRootLogin)
	}
	if got.PasswordAuthentication != "not set" {
		t.Errorf("default PasswordAuthentication = %q", got.PasswordAuthentication)
	}
}

func TestFilterFailedLogins(t *testing.T) {
	lines := []string{
		"Aug 25 10:00:01 host sshd[123]: Accepted publickey for alice",
		"Aug 25 10:00:02 host sshd[124]: Failed password for root from 10.0.0.9 port 51111 ssh2",
		"Aug 25 10:00:03 host su[200]: pam_unix(su:auth): authentication failure; logname=bob",
		"Aug 25 10:00:04 host CRON[300]: session opened for user root",
	}

	got := filterFailedLogins(lines)

	if len(got) != 2 {
		t.Fatalf("got %d matches, want 2: %v", len(got), got)
	}
	if !strings.Contains(got[0], "Failed password") {
		t.Errorf("first match = %q", got[0])
	}
	if !strings.Contains(got[1], "authentication failure") {
		t.Errorf("second match = %q", got[1])
	}
}

func TestCollectSecuritySmoke(t *testing.T) {
	if testing.Short() {
		t.Skip("samples the live host")
	}

	rep := CollectSecurity(context.Background())
	if rep == nil {
		t.Fatal("CollectSecurity() returned nil")
	}

	// /etc/passwd is world-readable, so root must be present.
	foundRoot := false
	for _, u := range rep.Users {
		if u.UID == 0 {
			foundRoot = true
		}
	}
	if !foundRoot {
		t.Error("root account missing from user listing")
	}

	if rep.SSH.Port == "" {
		t.Error("SSH.Port should at least carry the default")
	}
}
