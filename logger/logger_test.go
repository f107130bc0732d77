package logger

import (
	"bytes"
	"context"
	"errors"
	"log"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newBufferLogger(level LogLevel) (Interface, *bytes.Buffer) {
	var buf bytes.Buffer
	return New(log.New(&buf, "", 0), Config{LogLevel: level, SlowThreshold: 100 * time.Millisecond}), &buf
}

func TestLogger_Levels(t *testing.T) {
	ctx := context.Background()
	l, buf := newBufferLogger(Warn)

	l.Info(ctx, "schema built for %s", "Users")
	assert.Empty(t, buf.String())

	l.Warn(ctx, "slow schema %s", "Users")
	assert.Contains(t, buf.String(), "[warn] slow schema Users")

	buf.Reset()
	l.LogMode(Info).Info(ctx, "schema built for %s", "Users")
	assert.Contains(t, buf.String(), "[info] schema built for Users")
	assert.Contains(t, buf.String(), "logger_test.go")
}

var (
	builtDelete = Event{
		Stage:        Built,
		Operation:    "delete by key",
		Model:        "models.User",
		Table:        "Users",
		SQL:          "DELETE FROM Users\nWHERE Id = 5",
		Params:       1,
		RowsAffected: -1,
	}
	executedDelete = Event{
		Stage:        Executed,
		Operation:    "exec",
		Table:        "Users",
		SQL:          "DELETE FROM Users\nWHERE Id = 5",
		Params:       1,
		RowsAffected: 1,
	}
)

func eventOf(e Event) func() Event {
	return func() Event { return e }
}

func TestLogger_Trace(t *testing.T) {
	ctx := context.Background()

	t.Run("Built", func(t *testing.T) {
		l, buf := newBufferLogger(Info)
		l.Trace(ctx, time.Now(), eventOf(builtDelete), nil)
		assert.Contains(t, buf.String(), "[delete by key Users built] [params:1] DELETE FROM Users")
		assert.NotContains(t, buf.String(), "rows")
	})

	t.Run("Executed", func(t *testing.T) {
		l, buf := newBufferLogger(Info)
		l.Trace(ctx, time.Now(), eventOf(executedDelete), nil)
		assert.Contains(t, buf.String(), "[exec Users executed] [params:1] [rows:1] DELETE FROM Users")
	})

	t.Run("Slow", func(t *testing.T) {
		l, buf := newBufferLogger(Warn)
		l.Trace(ctx, time.Now().Add(-time.Second), eventOf(executedDelete), nil)
		assert.Contains(t, buf.String(), "SLOW COMMAND >= 100ms")
		assert.Contains(t, buf.String(), "executed")
	})

	t.Run("Error", func(t *testing.T) {
		l, buf := newBufferLogger(Error)
		l.Trace(ctx, time.Now(), eventOf(Event{Stage: Built, Operation: "insert", Model: "string", Params: -1, RowsAffected: -1}), errors.New("unsupported model"))
		assert.Contains(t, buf.String(), "unsupported model")
		assert.Contains(t, buf.String(), "[insert string built] [params:-]")
	})

	t.Run("Silent", func(t *testing.T) {
		l, buf := newBufferLogger(Silent)
		l.Trace(ctx, time.Now(), func() Event {
			t.Fatal("event built for a silent logger")
			return Event{}
		}, errors.New("ignored"))
		assert.Empty(t, buf.String())
	})
}

func TestEvent(t *testing.T) {
	assert.Equal(t, "command built", builtDelete.Message())
	assert.Equal(t, "command executed", executedDelete.Message())
	assert.Equal(t, "stage(0)", Stage(0).String())

	assert.Equal(t, "Users", builtDelete.Target())
	assert.Equal(t, "models.User", Event{Model: "models.User"}.Target())
	assert.Equal(t, "exec", Event{Operation: "exec"}.Summary())

	assert.Equal(t, "[params:1]", builtDelete.Counts())
	assert.Equal(t, "[params:1] [rows:1]", executedDelete.Counts())
	assert.Equal(t, "[params:-] [rows:-]", Event{Stage: Executed, Params: -1, RowsAffected: -1}.Counts())
}

func TestTraceLevel(t *testing.T) {
	tests := []struct {
		name    string
		level   LogLevel
		elapsed time.Duration
		err     error
		traced  LogLevel
		slow    bool
	}{
		{"silent", Silent, time.Second, assert.AnError, Silent, false},
		{"error", Error, 0, assert.AnError, Error, false},
		{"error level skips slow", Error, time.Second, nil, Silent, false},
		{"slow", Warn, time.Second, nil, Warn, true},
		{"warn skips fast", Warn, time.Millisecond, nil, Silent, false},
		{"info", Info, time.Millisecond, nil, Info, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			traced, slow := traceLevel(tt.level, 100*time.Millisecond, tt.elapsed, tt.err)
			assert.Equal(t, tt.traced, traced)
			assert.Equal(t, tt.slow, slow)
		})
	}
}

func TestLogger_ParamsFilter(t *testing.T) {
	l := New(log.New(&bytes.Buffer{}, "", 0), Config{ParameterizedQueries: true})
	sql, params := l.(ParamsFilter).ParamsFilter(context.Background(), "WHERE Id = {0}", 5)
	assert.Equal(t, "WHERE Id = {0}", sql)
	assert.Nil(t, params)
}
