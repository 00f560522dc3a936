// SPDX-License-Identifier: MPL-2.0

package cli

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	tcexec "github.com/testcontainers/testcontainers-go/exec"

	"rustle/internal/testutil"
)

// roundTripTimeout is the maximum time for a single container round trip.
// It covers the image pull, the apt update and install inside the
// container, and the restore. True hangs fail fast instead of holding the
// suite until the global test deadline.
const roundTripTimeout = 5 * time.Minute

// checkTestcontainersAvailable safely checks if testcontainers can be used.
// Returns true if containers are available, false otherwise.
func checkTestcontainersAvailable() (available bool) {
	defer func() {
		if r := recover(); r != nil {
			available = false
		}
	}()

	provider, err := testcontainers.ProviderDocker.GetProvider()
	if err != nil {
		return false
	}
	defer provider.Close()
	return true
}

// containerExec runs argv inside the container and returns its combined
// output, failing the test on a non-zero exit.
func containerExec(ctx context.Context, t *testing.T, ctr testcontainers.Container, argv ...string) string {
	t.Helper()

	code, reader, err := ctr.Exec(ctx, argv, tcexec.Multiplexed())
	if err != nil {
		t.Fatalf("exec %v: %v", argv, err)
	}

	var out bytes.Buffer
	if _, err := io.Copy(&out, reader); err != nil {
		t.Fatalf("exec %v: reading output: %v", argv, err)
	}
	if code != 0 {
		t.Fatalf("exec %v: exit code %d\n%s", argv, code, out.String())
	}
	return out.String()
}

// startUbuntuContainer starts a long-lived Ubuntu container with the rustle
// binary installed at /usr/local/bin/rustle.
func startUbuntuContainer(ctx context.Context, t *testing.T) testcontainers.Container {
	t.Helper()

	ctr, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image: "ubuntu:24.04",
			Cmd:   []string{"sleep", "infinity"},
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("starting ubuntu container: %v", err)
	}
	t.Cleanup(func() {
		termCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		_ = ctr.Terminate(termCtx)
	})

	if err := ctr.CopyFileToContainer(ctx, binaryPath, "/usr/local/bin/rustle", 0o755); err != nil {
		t.Fatalf("copying rustle binary into container: %v", err)
	}
	return ctr
}

// TestEnableDisableRoundTrip enables the coreutils experiment inside a real
// Ubuntu container, checks the symlinks and backups, disables it again and
// verifies the stock binaries come back byte for byte.
//
// The container runs as root on Ubuntu 24.04, so every guard passes and the
// real apt flow is exercised end to end.
func TestEnableDisableRoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	if !checkTestcontainersAvailable() {
		t.Skip("skipping: testcontainers provider not available")
	}

	// Concurrent Ubuntu containers exhaust constrained CI runners.
	sem := testutil.ContainerSemaphore()
	sem <- struct{}{}
	defer func() { <-sem }()

	ctx, cancel := context.WithTimeout(context.Background(), roundTripTimeout)
	defer cancel()

	ctr := startUbuntuContainer(ctx, t)

	// Fingerprint a few stock binaries before anything changes.
	before := containerExec(ctx, t, ctr, "sha256sum", "/usr/bin/ls", "/usr/bin/cat", "/usr/bin/date")

	out := containerExec(ctx, t, ctr, "rustle", "enable", "-y", "-e", "coreutils")
	if !strings.Contains(out, "Enabled coreutils") {
		t.Errorf("enable output does not report success:\n%s", out)
	}

	// The covered binaries now resolve through the multicall binary.
	link := strings.TrimSpace(containerExec(ctx, t, ctr, "readlink", "/usr/bin/ls"))
	if link != "/usr/bin/coreutils" {
		t.Errorf("readlink /usr/bin/ls = %q, want /usr/bin/coreutils", link)
	}

	// The original is parked next to its path, hidden and suffixed.
	containerExec(ctx, t, ctr, "test", "-f", "/usr/bin/.ls.rustle.bak")

	// The replacement must actually work.
	if lsOut := containerExec(ctx, t, ctr, "/usr/bin/ls", "/usr/local/bin"); !strings.Contains(lsOut, "rustle") {
		t.Errorf("replaced ls output %q does not list the binary", lsOut)
	}

	status := containerExec(ctx, t, ctr, "rustle", "status")
	if !strings.Contains(statusLineFor(status, "rust-coreutils"), "enabled") {
		t.Errorf("status does not report coreutils enabled:\n%s", status)
	}

	out = containerExec(ctx, t, ctr, "rustle", "disable", "-y", "-e", "coreutils")
	if !strings.Contains(out, "Disabled coreutils") {
		t.Errorf("disable output does not report success:\n%s", out)
	}

	// Byte-for-byte restore: same binaries, same hashes, no leftovers.
	after := containerExec(ctx, t, ctr, "sha256sum", "/usr/bin/ls", "/usr/bin/cat", "/usr/bin/date")
	if before != after {
		t.Errorf("binaries differ after the round trip:\nbefore:\n%s\nafter:\n%s", before, after)
	}

	code, _, err := ctr.Exec(ctx, []string{"test", "-e", "/usr/bin/.ls.rustle.bak"})
	if err != nil {
		t.Fatalf("checking leftover backup: %v", err)
	}
	if code == 0 {
		t.Error("backup file still present after disable")
	}
}

// TestEnableSkipsUnsupportedRelease selects an experiment whose release
// requirement the container cannot meet, expecting a clean no-op rather
// than a broken install.
func TestEnableSkipsUnsupportedRelease(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	if !checkTestcontainersAvailable() {
		t.Skip("skipping: testcontainers provider not available")
	}

	sem := testutil.ContainerSemaphore()
	sem <- struct{}{}
	defer func() { <-sem }()

	ctx, cancel := context.WithTimeout(context.Background(), roundTripTimeout)
	defer cancel()

	ctr := startUbuntuContainer(ctx, t)

	// diffutils needs 24.10; on 24.04 the experiment is skipped and the
	// run still succeeds.
	out := containerExec(ctx, t, ctr, "rustle", "enable", "-y", "-e", "diffutils")
	if strings.Contains(out, "Enabled diffutils") {
		t.Errorf("enable reported success for an incompatible experiment:\n%s", out)
	}

	code, _, err := ctr.Exec(ctx, []string{"test", "-L", "/usr/bin/diff"})
	if err != nil {
		t.Fatalf("checking diff symlink: %v", err)
	}
	if code == 0 {
		t.Error("diff was replaced despite the failed release requirement")
	}
}

// statusLineFor returns the status output line mentioning token.
func statusLineFor(out, token string) string {
	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(line, token) {
			return line
		}
	}
	return fmt.Sprintf("<no line for %s>", token)
}
