package execute

import (
	"fmt"
	"strings"
	"time"

	"github.com/halgrim/gauntlet/internal/docker"
	"github.com/halgrim/gauntlet/internal/scaffold"
)

// Fault text is bounded so a runaway traceback cannot bloat results.
const maxFaultChars = 4096

// normalize maps a raw container outcome to the canonical Result. Exactly one
// of Output and ErrorMessage is populated, and ExecutionTime is always set:
// on timeout it equals the configured timeout, not the wall-clock overshoot.
func normalize(res *docker.RunResult, timeout time.Duration) *Result {
	out := &Result{
		ExecutionTime: res.Duration,
		Stderr:        res.Stderr,
		TimedOut:      res.TimedOut,
	}

	switch {
	case res.TimedOut:
		out.ErrorMessage = fmt.Sprintf("timeout after %ds", int(timeout.Seconds()))
		out.ExecutionTime = timeout
	case res.ExitCode == scaffold.ExitOK:
		out.Output = strings.TrimSpace(res.Stdout)
	case res.ExitCode == scaffold.ExitBadReturn:
		out.ErrorMessage = "invalid return type: " + lastLine(res.Stderr)
	case res.ExitCode == scaffold.ExitMissingSym:
		out.ErrorMessage = fmt.Sprintf("scaffold does not define %s:\n%s",
			scaffold.EntryPoint, truncate(res.Stderr, maxFaultChars))
	default:
		out.ErrorMessage = fmt.Sprintf("error from scaffold (exit code %d):\n%s",
			res.ExitCode, truncate(res.Stderr, maxFaultChars))
	}
	return out
}

func truncate(s string, max int) string {
	s = strings.TrimSpace(s)
	if len(s) <= max {
		return s
	}
	return s[:max] + fmt.Sprintf("\n... [truncated from %d chars]", len(s))
}

func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	if len(lines) == 0 {
		return ""
	}
	return lines[len(lines)-1]
}
