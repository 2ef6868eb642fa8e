package console

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ZapConsole writes console calls through a *zap.Logger.
type ZapConsole struct {
	logger *zap.Logger
}

// NewZap creates a console backed by logger. A nil logger discards output.
func NewZap(logger *zap.Logger) *ZapConsole {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ZapConsole{logger: logger}
}

// ZapLevel maps a severity onto a zap level.
func ZapLevel(sev Severity) zapcore.Level {
	switch sev {
	case SeverityTrace, SeverityDebug:
		return zapcore.DebugLevel
	case SeverityWarn:
		return zapcore.WarnLevel
	case SeverityError, SeverityException, SeverityAssert:
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func (c *ZapConsole) write(sev Severity, args []any) {
	msg, ok := render(sev, args)
	if !ok {
		return
	}
	if ce := c.logger.Check(ZapLevel(sev), msg); ce != nil {
		ce.Write(zap.String("console", sev.String()))
	}
}

func (c *ZapConsole) Log(args ...any)       { c.write(SeverityLog, args) }
func (c *ZapConsole) Trace(args ...any)     { c.write(SeverityTrace, args) }
func (c *ZapConsole) Warn(args ...any)      { c.write(SeverityWarn, args) }
func (c *ZapConsole) Error(args ...any)     { c.write(SeverityError, args) }
func (c *ZapConsole) Info(args ...any)      { c.write(SeverityInfo, args) }
func (c *ZapConsole) Exception(args ...any) { c.write(SeverityException, args) }
func (c *ZapConsole) Dirxml(args ...any)    { c.write(SeverityDirxml, args) }
func (c *ZapConsole) Dir(args ...any)       { c.write(SeverityDir, args) }
func (c *ZapConsole) Debug(args ...any)     { c.write(SeverityDebug, args) }
func (c *ZapConsole) Assert(args ...any)    { c.write(SeverityAssert, args) }
