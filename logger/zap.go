package logger

import (
	"context"
	"fmt"
	"time"

	"github.com/peregrinedb/peregrine/utils"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ZapLogger implements Interface using zap
type ZapLogger struct {
	Logger        *zap.Logger
	LogLevel      LogLevel
	SlowThreshold time.Duration
	Parameterized bool
}

// NewZapLogger creates a new logger using zap
func NewZapLogger(logger *zap.Logger, config Config) Interface {
	return &ZapLogger{
		Logger:        logger,
		LogLevel:      config.LogLevel,
		SlowThreshold: config.SlowThreshold,
		Parameterized: config.ParameterizedQueries,
	}
}

// LogMode sets the log level
func (l *ZapLogger) LogMode(level LogLevel) Interface {
	newLogger := *l
	newLogger.LogLevel = level
	return &newLogger
}

func (l *ZapLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	l.logf(Info, msg, data)
}

func (l *ZapLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	l.logf(Warn, msg, data)
}

func (l *ZapLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	l.logf(Error, msg, data)
}

func (l *ZapLogger) logf(level LogLevel, msg string, data []interface{}) {
	if l.LogLevel < level {
		return
	}
	if ce := l.Logger.Check(ZapLevel(level), fmt.Sprintf(msg, data...)); ce != nil {
		ce.Write(zap.String("file", utils.FileWithLineNum()))
	}
}

// Trace logs built and executed commands, the stage is the message
func (l *ZapLogger) Trace(ctx context.Context, begin time.Time, fc func() Event, err error) {
	elapsed := time.Since(begin)
	level, slow := traceLevel(l.LogLevel, l.SlowThreshold, elapsed, err)
	if level == Silent {
		return
	}

	event := fc()
	ce := l.Logger.Check(ZapLevel(level), event.Message())
	if ce == nil {
		return
	}

	fields := []zap.Field{
		zap.String("file", utils.FileWithLineNum()),
		zap.String("operation", event.Operation),
		zap.String("table", event.Target()),
		zap.String("duration", durationString(elapsed)),
		zap.String("sql", event.SQL),
	}
	if event.Params >= 0 {
		fields = append(fields, zap.Int64("params", event.Params))
	}
	if event.Stage == Executed && event.RowsAffected >= 0 {
		fields = append(fields, zap.Int64("rows_affected", event.RowsAffected))
	}
	if slow {
		fields = append(fields, zap.Stringer("slow_threshold", l.SlowThreshold))
	}
	if err != nil {
		fields = append(fields, zap.Error(err))
	}
	ce.Write(fields...)
}

// ParamsFilter filters command parameters
func (l *ZapLogger) ParamsFilter(ctx context.Context, sql string, params ...interface{}) (string, []interface{}) {
	if l.Parameterized {
		return sql, nil
	}
	return sql, params
}

// ZapLevel converts LogLevel to zapcore.Level
func ZapLevel(level LogLevel) zapcore.Level {
	switch level {
	case Silent:
		return zapcore.DPanicLevel // Use DPanic for silent to avoid actual logging
	case Error:
		return zapcore.ErrorLevel
	case Warn:
		return zapcore.WarnLevel
	default:
		return zapcore.InfoLevel
	}
}
