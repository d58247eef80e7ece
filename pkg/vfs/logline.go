package vfs

import (
	"regexp"
	"strconv"
	"strings"
)

// Severity is the decoded level of an engine log line.
type Severity int

const (
	SeverityDebug Severity = iota
	SeverityInfo
	SeverityWarning
	SeverityError
)

// benignMutexMessage is emitted by the engine at error severity when a hooked
// process exits without releasing its shared-memory mutex. It is known-benign
// noise and gets downgraded to debug.
const benignMutexMessage = "never released the mutex"

// Engine lines look like:
//
//	10:25:41.307 [4242:4311] [E] failed to map directory
//
// a fixed-width timestamp, a process/thread id pair and a one-letter severity
// tag, followed by free text.
var linePattern = regexp.MustCompile(`^(\S+) \[(\d+):(\d+)\] \[([A-Z])\] ?(.*)$`)

// Line is one decoded engine log line.
type Line struct {
	Timestamp string
	PID       int
	TID       int
	Severity  Severity
	Text      string
}

// ParseLine decodes a raw engine log line. ok is false when the line does not
// match the expected shape; callers should forward such lines verbatim.
func ParseLine(raw string) (line Line, ok bool) {
	m := linePattern.FindStringSubmatch(raw)
	if m == nil {
		return Line{}, false
	}

	pid, _ := strconv.Atoi(m[2])
	tid, _ := strconv.Atoi(m[3])

	line = Line{
		Timestamp: m[1],
		PID:       pid,
		TID:       tid,
		Severity:  severityFromTag(m[4]),
		Text:      m[5],
	}

	if line.Severity == SeverityError && strings.Contains(line.Text, benignMutexMessage) {
		line.Severity = SeverityDebug
	}
	return line, true
}

// severityFromTag maps the one-letter tag to a severity. Unknown tags map to
// warning.
func severityFromTag(tag string) Severity {
	switch tag {
	case "D":
		return SeverityDebug
	case "I":
		return SeverityInfo
	case "W":
		return SeverityWarning
	case "E":
		return SeverityError
	default:
		return SeverityWarning
	}
}
