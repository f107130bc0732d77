package logger

import (
	"context"
	"time"

	"github.com/peregrinedb/peregrine/utils"
	"github.com/rs/zerolog"
)

// ZerologLogger implements Interface using zerolog
type ZerologLogger struct {
	Logger        zerolog.Logger
	LogLevel      LogLevel
	SlowThreshold time.Duration
	Parameterized bool
}

// NewZerologLogger creates a new logger using zerolog
func NewZerologLogger(logger zerolog.Logger, config Config) Interface {
	return &ZerologLogger{
		Logger:        logger,
		LogLevel:      config.LogLevel,
		SlowThreshold: config.SlowThreshold,
		Parameterized: config.ParameterizedQueries,
	}
}

// LogMode sets the log level
func (l *ZerologLogger) LogMode(level LogLevel) Interface {
	newLogger := *l
	newLogger.LogLevel = level
	return &newLogger
}

func (l *ZerologLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	l.logf(ctx, Info, msg, data)
}

func (l *ZerologLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	l.logf(ctx, Warn, msg, data)
}

func (l *ZerologLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	l.logf(ctx, Error, msg, data)
}

func (l *ZerologLogger) logf(ctx context.Context, level LogLevel, msg string, data []interface{}) {
	if l.LogLevel < level {
		return
	}
	l.event(ctx, level).Msgf(msg, data...)
}

// event starts a zerolog event at level, nil events are no-ops in zerolog
func (l *ZerologLogger) event(ctx context.Context, level LogLevel) *zerolog.Event {
	e := l.Logger.WithLevel(ZerologLevel(level)).Str("file", utils.FileWithLineNum())
	if ctx != nil {
		e = e.Ctx(ctx)
	}
	return e
}

// Trace logs built and executed commands, the stage is the message
func (l *ZerologLogger) Trace(ctx context.Context, begin time.Time, fc func() Event, err error) {
	elapsed := time.Since(begin)
	level, slow := traceLevel(l.LogLevel, l.SlowThreshold, elapsed, err)
	if level == Silent {
		return
	}

	event := fc()
	e := l.event(ctx, level).
		Str("operation", event.Operation).
		Str("table", event.Target()).
		Str("duration", durationString(elapsed)).
		Str("sql", event.SQL)

	if event.Params >= 0 {
		e = e.Int64("params", event.Params)
	}
	if event.Stage == Executed && event.RowsAffected >= 0 {
		e = e.Int64("rows_affected", event.RowsAffected)
	}
	if slow {
		e = e.Stringer("slow_threshold", l.SlowThreshold)
	}
	if err != nil {
		e = e.Err(err)
	}
	e.Msg(event.Message())
}

// ParamsFilter filters command parameters
func (l *ZerologLogger) ParamsFilter(ctx context.Context, sql string, params ...interface{}) (string, []interface{}) {
	if l.Parameterized {
		return sql, nil
	}
	return sql, params
}

// ZerologLevel converts LogLevel to zerolog.Level
func ZerologLevel(level LogLevel) zerolog.Level {
	switch level {
	case Silent:
		return zerolog.NoLevel
	case Error:
		return zerolog.ErrorLevel
	case Warn:
		return zerolog.WarnLevel
	default:
		return zerolog.InfoLevel
	}
}
