package hook

import (
	"fmt"
	"os"
	"strings"
)

// JoinCommandLine builds a single command line from an executable and its
// arguments, quoting elements that contain spaces.
func JoinCommandLine(executable string, args []string) string {
	parts := make([]string, 0, len(args)+1)
	parts = append(parts, quoteIfNeeded(executable))
	for _, arg := range args {
		parts = append(parts, quoteIfNeeded(arg))
	}
	return strings.Join(parts, " ")
}

func quoteIfNeeded(s string) string {
	if strings.ContainsRune(s, ' ') && !strings.HasPrefix(s, `"`) {
		return `"` + s + `"`
	}
	return s
}

// TrampolineCommandLine wraps a command line so the command interpreter
// first changes into cwd and then runs it. Used when the target executable
// is not yet visible on real disk and may only appear under the virtual
// view.
func TrampolineCommandLine(cwd, commandLine string) string {
	return fmt.Sprintf(`cmd /C "cd %s && %s"`, cwd, commandLine)
}

// MergeEnvironment layers overrides on top of the process environment.
func MergeEnvironment(processEnv []string, overrides map[string]string) map[string]string {
	merged := make(map[string]string, len(processEnv)+len(overrides))
	for _, entry := range processEnv {
		if idx := strings.IndexByte(entry, '='); idx > 0 {
			merged[entry[:idx]] = entry[idx+1:]
		}
	}
	for key, value := range overrides {
		merged[key] = value
	}
	return merged
}

// ProcessEnv returns the current process environment. Tests substitute their
// own source.
func ProcessEnv() []string {
	return os.Environ()
}
