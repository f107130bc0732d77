package logger

import (
	"context"
	"time"

	"github.com/peregrinedb/peregrine/utils"
	"github.com/sirupsen/logrus"
)

// LogrusLogger implements Interface using logrus
type LogrusLogger struct {
	Logger        *logrus.Logger
	LogLevel      LogLevel
	SlowThreshold time.Duration
	Parameterized bool
}

// NewLogrusLogger creates a new logger using logrus
func NewLogrusLogger(logger *logrus.Logger, config Config) Interface {
	return &LogrusLogger{
		Logger:        logger,
		LogLevel:      config.LogLevel,
		SlowThreshold: config.SlowThreshold,
		Parameterized: config.ParameterizedQueries,
	}
}

// LogMode sets the log level
func (l *LogrusLogger) LogMode(level LogLevel) Interface {
	newLogger := *l
	newLogger.LogLevel = level
	return &newLogger
}

func (l *LogrusLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	l.logf(ctx, Info, msg, data)
}

func (l *LogrusLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	l.logf(ctx, Warn, msg, data)
}

func (l *LogrusLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	l.logf(ctx, Error, msg, data)
}

func (l *LogrusLogger) logf(ctx context.Context, level LogLevel, msg string, data []interface{}) {
	if l.LogLevel < level {
		return
	}
	l.Logger.WithContext(ctx).WithField("file", utils.FileWithLineNum()).Logf(logrusLevel(level), msg, data...)
}

// Trace logs built and executed commands, the stage is the message
func (l *LogrusLogger) Trace(ctx context.Context, begin time.Time, fc func() Event, err error) {
	elapsed := time.Since(begin)
	level, slow := traceLevel(l.LogLevel, l.SlowThreshold, elapsed, err)
	if level == Silent {
		return
	}

	event := fc()
	fields := logrus.Fields{
		"file":      utils.FileWithLineNum(),
		"operation": event.Operation,
		"table":     event.Target(),
		"duration":  durationString(elapsed),
		"sql":       event.SQL,
	}
	if event.Params >= 0 {
		fields["params"] = event.Params
	}
	if event.Stage == Executed && event.RowsAffected >= 0 {
		fields["rows_affected"] = event.RowsAffected
	}
	if slow {
		fields["slow_threshold"] = l.SlowThreshold.String()
	}

	entry := l.Logger.WithContext(ctx).WithFields(fields)
	if err != nil {
		entry = entry.WithError(err)
	}
	entry.Log(logrusLevel(level), event.Message())
}

// ParamsFilter filters command parameters
func (l *LogrusLogger) ParamsFilter(ctx context.Context, sql string, params ...interface{}) (string, []interface{}) {
	if l.Parameterized {
		return sql, nil
	}
	return sql, params
}

func logrusLevel(level LogLevel) logrus.Level {
	switch level {
	case Error:
		return logrus.ErrorLevel
	case Warn:
		return logrus.WarnLevel
	default:
		return logrus.InfoLevel
	}
}
