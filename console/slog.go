package console

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/davecgh/go-spew/spew"
)

// dirConfig renders the object argument of dir and dirxml calls.
var dirConfig = spew.ConfigState{
	Indent:                  "  ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

// line joins args the way console output does: operands separated by a
// single space.
func line(args []any) string {
	return strings.TrimSuffix(fmt.Sprintln(args...), "\n")
}

// render produces the message text for a call, and reports false when the
// call should produce no output (a passing assert).
func render(sev Severity, args []any) (string, bool) {
	switch sev {
	case SeverityAssert:
		if len(args) > 0 {
			if ok, isBool := args[0].(bool); isBool && ok {
				return "", false
			}
			args = args[1:]
		}
		if len(args) == 0 {
			return "Assertion failed", true
		}
		return "Assertion failed: " + line(args), true
	case SeverityDir, SeverityDirxml:
		if len(args) == 0 {
			return "", true
		}
		return strings.TrimSuffix(dirConfig.Sdump(args[0]), "\n"), true
	default:
		return line(args), true
	}
}

// SlogConsole writes console calls through a *slog.Logger.
type SlogConsole struct {
	logger *slog.Logger
}

// NewSlog creates a console backed by logger. A nil logger uses slog.Default.
func NewSlog(logger *slog.Logger) *SlogConsole {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogConsole{logger: logger}
}

// SlogLevel maps a severity onto a slog level.
func SlogLevel(sev Severity) slog.Level {
	switch sev {
	case SeverityTrace, SeverityDebug:
		return slog.LevelDebug
	case SeverityWarn:
		return slog.LevelWarn
	case SeverityError, SeverityException, SeverityAssert:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func (c *SlogConsole) write(sev Severity, args []any) {
	msg, ok := render(sev, args)
	if !ok {
		return
	}
	c.logger.Log(context.Background(), SlogLevel(sev), msg, "console", sev.String())
}

func (c *SlogConsole) Log(args ...any)       { c.write(SeverityLog, args) }
func (c *SlogConsole) Trace(args ...any)     { c.write(SeverityTrace, args) }
func (c *SlogConsole) Warn(args ...any)      { c.write(SeverityWarn, args) }
func (c *SlogConsole) Error(args ...any)     { c.write(SeverityError, args) }
func (c *SlogConsole) Info(args ...any)      { c.write(SeverityInfo, args) }
func (c *SlogConsole) Exception(args ...any) { c.write(SeverityException, args) }
func (c *SlogConsole) Dirxml(args ...any)    { c.write(SeverityDirxml, args) }
func (c *SlogConsole) Dir(args ...any)       { c.write(SeverityDir, args) }
func (c *SlogConsole) Debug(args ...any)     { c.write(SeverityDebug, args) }
func (c *SlogConsole) Assert(args ...any)    { c.write(SeverityAssert, args) }
