//go:build go1.21

package logger

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/peregrinedb/peregrine/utils"
)

type slogLogger struct {
	Logger        *slog.Logger
	LogLevel      LogLevel
	SlowThreshold time.Duration
	Parameterized bool
}

// NewSlogLogger creates a new logger using log/slog, records point at the caller outside this module
func NewSlogLogger(logger *slog.Logger, config Config) Interface {
	return &slogLogger{
		Logger:        logger,
		LogLevel:      config.LogLevel,
		SlowThreshold: config.SlowThreshold,
		Parameterized: config.ParameterizedQueries,
	}
}

func (l *slogLogger) LogMode(level LogLevel) Interface {
	newLogger := *l
	newLogger.LogLevel = level
	return &newLogger
}

func (l *slogLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= Info {
		l.log(ctx, Info, fmt.Sprintf(msg, data...))
	}
}

func (l *slogLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= Warn {
		l.log(ctx, Warn, fmt.Sprintf(msg, data...))
	}
}

func (l *slogLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= Error {
		l.log(ctx, Error, fmt.Sprintf(msg, data...))
	}
}

// Trace logs built and executed commands, the stage is the message
func (l *slogLogger) Trace(ctx context.Context, begin time.Time, fc func() Event, err error) {
	elapsed := time.Since(begin)
	level, slow := traceLevel(l.LogLevel, l.SlowThreshold, elapsed, err)
	if level == Silent {
		return
	}

	event := fc()
	attrs := []slog.Attr{
		slog.String("operation", event.Operation),
		slog.String("table", event.Target()),
		slog.String("duration", durationString(elapsed)),
		slog.String("sql", event.SQL),
	}
	if event.Params >= 0 {
		attrs = append(attrs, slog.Int64("params", event.Params))
	}
	if event.Stage == Executed && event.RowsAffected >= 0 {
		attrs = append(attrs, slog.Int64("rows_affected", event.RowsAffected))
	}
	if slow {
		attrs = append(attrs, slog.Duration("slow_threshold", l.SlowThreshold))
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}

	l.log(ctx, level, event.Message(), slog.Attr{Key: "command", Value: slog.GroupValue(attrs...)})
}

func (l *slogLogger) log(ctx context.Context, level LogLevel, msg string, attrs ...slog.Attr) {
	if ctx == nil {
		ctx = context.Background()
	}

	slogLevel := slogLevels[level]
	if !l.Logger.Enabled(ctx, slogLevel) {
		return
	}

	r := slog.NewRecord(time.Now(), slogLevel, msg, utils.CallerFrame().PC)
	r.AddAttrs(attrs...)
	_ = l.Logger.Handler().Handle(ctx, r)
}

var slogLevels = map[LogLevel]slog.Level{
	Error: slog.LevelError,
	Warn:  slog.LevelWarn,
	Info:  slog.LevelInfo,
}

// ParamsFilter filter params
func (l *slogLogger) ParamsFilter(ctx context.Context, sql string, params ...interface{}) (string, []interface{}) {
	if l.Parameterized {
		return sql, nil
	}
	return sql, params
}
