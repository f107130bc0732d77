package logger

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Stage of a traced command
type Stage int

const (
	// Built the command was rendered from a model
	Built Stage = iota + 1
	// Executed the command was sent to a connection
	Executed
)

func (s Stage) String() string {
	switch s {
	case Built:
		return "built"
	case Executed:
		return "executed"
	default:
		return "stage(" + strconv.Itoa(int(s)) + ")"
	}
}

// Event describes one traced command
type Event struct {
	Stage     Stage
	Operation string // e.g. "insert", "get page", "exec"
	Model     string // Go type of the model, empty for executions
	Table     string // escaped table name, empty when the schema could not be built
	SQL       string // empty when nothing was built
	Params    int64  // -1 when nothing was built
	// RowsAffected is reported by executions only, -1 when unknown
	RowsAffected int64
}

// Message returns the log message of the event, e.g. "command built"
func (e Event) Message() string {
	return "command " + e.Stage.String()
}

// Target returns the table, or the model when the table is unknown
func (e Event) Target() string {
	if e.Table != "" {
		return e.Table
	}
	return e.Model
}

// Summary returns "<operation> <target>"
func (e Event) Summary() string {
	return strings.TrimSpace(e.Operation + " " + e.Target())
}

// Counts renders the parameter count, and the affected rows of executions
func (e Event) Counts() string {
	counts := "[params:" + countString(e.Params) + "]"
	if e.Stage == Executed {
		counts += " [rows:" + countString(e.RowsAffected) + "]"
	}
	return counts
}

func countString(n int64) string {
	if n < 0 {
		return "-"
	}
	return strconv.FormatInt(n, 10)
}

// traceLevel picks the level a trace is logged at, Silent when it must not be logged.
// slow reports whether the threshold was exceeded.
func traceLevel(level LogLevel, slowThreshold, elapsed time.Duration, err error) (traced LogLevel, slow bool) {
	switch {
	case level <= Silent:
		return Silent, false
	case err != nil && level >= Error:
		return Error, false
	case slowThreshold != 0 && elapsed > slowThreshold && level >= Warn:
		return Warn, true
	case level >= Info:
		return Info, false
	}
	return Silent, false
}

func milliseconds(elapsed time.Duration) float64 {
	return float64(elapsed.Nanoseconds()) / 1e6
}

func durationString(elapsed time.Duration) string {
	return fmt.Sprintf("%.3fms", milliseconds(elapsed))
}
