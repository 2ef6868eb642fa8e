// Package console defines the diagnostic-output surface that consolemock
// substitutes during tests.
//
// A Console exposes one method per Severity in a fixed catalog. Programs
// write through a Slot (usually the process-wide Global slot) so that a test
// can swap the active Console for a mock and restore the original afterwards.
//
// # Severity Catalog
//
// The catalog is a single table: each row binds a Severity to its name and to
// the Console method that handles it. Dispatch, Severities and ParseSeverity
// all read that table, so adding a severity means adding one row and one
// method.
//
// # Implementations
//
//   - NewSlog: writes through a *slog.Logger (the default global console)
//   - NewZap: writes through a *zap.Logger
//   - Recorder: keeps every call in memory for later inspection
package console

import (
	"fmt"
	"strings"
)

// Console is the callable surface of a diagnostic-output sink.
type Console interface {
	Log(args ...any)
	Trace(args ...any)
	Warn(args ...any)
	Error(args ...any)
	Info(args ...any)
	Exception(args ...any)
	Dirxml(args ...any)
	Dir(args ...any)
	Debug(args ...any)
	Assert(args ...any)
}

// Severity identifies one entry of the catalog.
type Severity int

const (
	SeverityLog Severity = iota
	SeverityTrace
	SeverityWarn
	SeverityError
	SeverityInfo
	SeverityException
	SeverityDirxml
	SeverityDir
	SeverityDebug
	SeverityAssert
)

type catalogEntry struct {
	name string
	call func(Console, ...any)
}

// catalog is indexed by Severity. Order matters: it is the iteration order of
// Severities.
var catalog = [...]catalogEntry{
	SeverityLog:       {"log", Console.Log},
	SeverityTrace:     {"trace", Console.Trace},
	SeverityWarn:      {"warn", Console.Warn},
	SeverityError:     {"error", Console.Error},
	SeverityInfo:      {"info", Console.Info},
	SeverityException: {"exception", Console.Exception},
	SeverityDirxml:    {"dirxml", Console.Dirxml},
	SeverityDir:       {"dir", Console.Dir},
	SeverityDebug:     {"debug", Console.Debug},
	SeverityAssert:    {"assert", Console.Assert},
}

// Severities returns every catalog severity in catalog order.
func Severities() []Severity {
	out := make([]Severity, len(catalog))
	for i := range catalog {
		out[i] = Severity(i)
	}
	return out
}

// Valid reports whether s is part of the catalog.
func (s Severity) Valid() bool {
	return s >= 0 && int(s) < len(catalog)
}

// String returns the catalog name ("log", "warn", ...).
func (s Severity) String() string {
	if !s.Valid() {
		return fmt.Sprintf("severity(%d)", int(s))
	}
	return catalog[s].name
}

// ParseSeverity looks up a severity by name, ignoring case.
func ParseSeverity(name string) (Severity, error) {
	lower := strings.ToLower(strings.TrimSpace(name))
	for i, entry := range catalog {
		if entry.name == lower {
			return Severity(i), nil
		}
	}
	return 0, fmt.Errorf("unknown severity %q", name)
}

// Dispatch calls the method of c that handles sev.
// It panics if sev is not part of the catalog.
func Dispatch(c Console, sev Severity, args ...any) {
	if !sev.Valid() {
		panic(fmt.Sprintf("console: dispatch of unknown %s", sev))
	}
	catalog[sev].call(c, args...)
}
