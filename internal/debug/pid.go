package debug

import (
	"context"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// pidPollInterval paces the bounded wait for the simulator process.
const pidPollInterval = 500 * time.Millisecond

// WaitForProcess polls until a process matching the pattern is visible and
// returns its pid, or 0 when the timeout elapses. A timeout is advisory:
// the simulator's own supervision may still bring the process up, so
// callers proceed with whatever descriptor they can build.
func WaitForProcess(ctx context.Context, pattern string, timeout time.Duration) int {
	deadline := time.Now().Add(timeout)
	for {
		if pid := findProcess(pattern); pid != 0 {
			return pid
		}
		if time.Now().After(deadline) {
			return 0
		}
		select {
		case <-ctx.Done():
			return 0
		case <-time.After(pidPollInterval):
		}
	}
}

func findProcess(pattern string) int {
	out, err := exec.Command("pgrep", "-f", pattern).Output()
	if err != nil {
		return 0
	}
	first := strings.TrimSpace(strings.SplitN(string(out), "\n", 2)[0])
	pid, err := strconv.Atoi(first)
	if err != nil {
		return 0
	}
	return pid
}
