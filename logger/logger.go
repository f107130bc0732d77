package logger

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/peregrinedb/peregrine/utils"
)

// Colors
const (
	Reset       = "\033[0m"
	Red         = "\033[31m"
	Green       = "\033[32m"
	Yellow      = "\033[33m"
	Blue        = "\033[34m"
	Magenta     = "\033[35m"
	Cyan        = "\033[36m"
	White       = "\033[37m"
	BlueBold    = "\033[34;1m"
	MagentaBold = "\033[35;1m"
	RedBold     = "\033[31;1m"
	YellowBold  = "\033[33;1m"
)

// LogLevel log level
type LogLevel int

const (
	// Silent silent log level
	Silent LogLevel = iota + 1
	// Error error log level
	Error
	// Warn warn log level
	Warn
	// Info info log level
	Info
)

// Writer log writer interface
type Writer interface {
	Printf(string, ...interface{})
}

// Config logger config
type Config struct {
	SlowThreshold        time.Duration
	Colorful             bool
	ParameterizedQueries bool
	LogLevel             LogLevel
}

// Interface logger interface
type Interface interface {
	LogMode(LogLevel) Interface
	Info(context.Context, string, ...interface{})
	Warn(context.Context, string, ...interface{})
	Error(context.Context, string, ...interface{})
	// Trace reports a built or executed command, fc is only called when the event is logged
	Trace(ctx context.Context, begin time.Time, fc func() Event, err error)
}

// ParamsFilter filter params
type ParamsFilter interface {
	ParamsFilter(ctx context.Context, sql string, params ...interface{}) (string, []interface{})
}

var (
	// Discard logger will print any log to io.Discard
	Discard = New(log.New(io.Discard, "", log.LstdFlags), Config{})
	// Default Default logger
	Default = New(log.New(os.Stdout, "\r\n", log.LstdFlags), Config{
		SlowThreshold: 20 * time.Millisecond,
		LogLevel:      Warn,
		Colorful:      true,
	})
)

// New initialize logger
func New(writer Writer, config Config) Interface {
	var (
		infoStr      = "%s\n[info] "
		warnStr      = "%s\n[warn] "
		errStr       = "%s\n[error] "
		traceStr     = "%s\n[%.3fms] [%s] %s %s"
		traceWarnStr = "%s %s\n[%.3fms] [%s] %s %s"
		traceErrStr  = "%s %s\n[%.3fms] [%s] %s %s"
	)

	if config.Colorful {
		infoStr = Green + "%s\n" + Reset + Green + "[info] " + Reset
		warnStr = BlueBold + "%s\n" + Reset + Magenta + "[warn] " + Reset
		errStr = Magenta + "%s\n" + Reset + Red + "[error] " + Reset
		traceStr = Green + "%s\n" + Reset + Yellow + "[%.3fms] " + Cyan + "[%s] " + BlueBold + "%s" + Reset + " %s"
		traceWarnStr = Green + "%s " + Yellow + "%s\n" + Reset + RedBold + "[%.3fms] " + Cyan + "[%s] " + Yellow + "%s" + Magenta + " %s" + Reset
		traceErrStr = RedBold + "%s " + MagentaBold + "%s\n" + Reset + Yellow + "[%.3fms] " + Cyan + "[%s] " + BlueBold + "%s" + Reset + " %s"
	}

	return &logger{
		Writer:       writer,
		Config:       config,
		infoStr:      infoStr,
		warnStr:      warnStr,
		errStr:       errStr,
		traceStr:     traceStr,
		traceWarnStr: traceWarnStr,
		traceErrStr:  traceErrStr,
	}
}

type logger struct {
	Writer
	Config
	infoStr, warnStr, errStr            string
	traceStr, traceErrStr, traceWarnStr string
}

// LogMode log mode
func (l *logger) LogMode(level LogLevel) Interface {
	newlogger := *l
	newlogger.LogLevel = level
	return &newlogger
}

// Info print info
func (l *logger) Info(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= Info {
		l.Printf(l.infoStr+msg, append([]interface{}{utils.FileWithLineNum()}, data...)...)
	}
}

// Warn print warn messages
func (l *logger) Warn(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= Warn {
		l.Printf(l.warnStr+msg, append([]interface{}{utils.FileWithLineNum()}, data...)...)
	}
}

// Error print error messages
func (l *logger) Error(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= Error {
		l.Printf(l.errStr+msg, append([]interface{}{utils.FileWithLineNum()}, data...)...)
	}
}

// Trace print built and executed commands, the summary carries the stage
func (l *logger) Trace(ctx context.Context, begin time.Time, fc func() Event, err error) {
	elapsed := time.Since(begin)
	level, slow := traceLevel(l.LogLevel, l.SlowThreshold, elapsed, err)
	if level == Silent {
		return
	}

	event := fc()
	summary := event.Summary() + " " + event.Stage.String()
	switch {
	case level == Error:
		l.Printf(l.traceErrStr, utils.FileWithLineNum(), err, milliseconds(elapsed), summary, event.Counts(), event.SQL)
	case slow:
		slowLog := fmt.Sprintf("SLOW COMMAND >= %v", l.SlowThreshold)
		l.Printf(l.traceWarnStr, utils.FileWithLineNum(), slowLog, milliseconds(elapsed), summary, event.Counts(), event.SQL)
	default:
		l.Printf(l.traceStr, utils.FileWithLineNum(), milliseconds(elapsed), summary, event.Counts(), event.SQL)
	}
}

// ParamsFilter filter params
func (l *logger) ParamsFilter(ctx context.Context, sql string, params ...interface{}) (string, []interface{}) {
	if l.Config.ParameterizedQueries {
		return sql, nil
	}
	return sql, params
}
