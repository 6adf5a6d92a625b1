package stdlogger_test

import (
	"bytes"
	"errors"
	"io"
	"os"
	"testing"

	"github.com/robfig/cron/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apota/mydms-sub010/internal/logger"
	"github.com/apota/mydms-sub010/internal/logger/adapter/stdlogger"
)

// capture runs write with the global logger initialised from cfg and
// returns what reached stdout and stderr.
func capture(t *testing.T, cfg logger.Log, write func(*stdlogger.Logger)) string {
	t.Helper()

	stdout, stderr := os.Stdout, os.Stderr

	r, w, err := os.Pipe()
	require.NoError(t, err)

	os.Stdout, os.Stderr = w, w

	t.Cleanup(func() { os.Stdout, os.Stderr = stdout, stderr })

	require.NoError(t, logger.Init(cfg))

	write(stdlogger.New("scheduler"))

	done := make(chan string)

	go func() {
		var buf bytes.Buffer
		_, _ = io.Copy(&buf, r)
		done <- buf.String()
	}()

	_ = w.Close()
	os.Stdout, os.Stderr = stdout, stderr

	return <-done
}

func console(level string) logger.Log {
	return logger.Log{LogLevel: level, AppName: "dms", ServiceName: "reporting", Console: logger.Console{Enabled: true}}
}

func TestLevels(t *testing.T) {
	tests := []struct {
		name   string
		cfg    logger.Log
		want   []string
		absent []string
	}{
		{
			name:   "info hides debug",
			cfg:    console("info"),
			want:   []string{"job queued", "lock busy", "job failed", `"component":"scheduler"`},
			absent: []string{"next run"},
		},
		{
			name: "debug shows everything",
			cfg:  console("debug"),
			want: []string{"next run", "job queued"},
		},
		{
			name:   "console disabled",
			cfg:    logger.Log{LogLevel: "info", AppName: "dms", ServiceName: "reporting"},
			absent: []string{"job queued"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := capture(t, tt.cfg, func(l *stdlogger.Logger) {
				l.Debugf("next run %s", "02:00")
				l.Infof("job %s", "queued")
				l.Warningf("lock %s", "busy")
				l.Errorf("job %s", "failed")
			})

			for _, s := range tt.want {
				assert.Contains(t, out, s)
			}

			for _, s := range tt.absent {
				assert.NotContains(t, out, s)
			}
		})
	}
}

func TestKeyValues(t *testing.T) {
	out := capture(t, console("debug"), func(l *stdlogger.Logger) {
		l.Info("wake", "now", "2026-01-01", "dangling")
		l.Error(errors.New("job failed"), "run", "job", "report-refresh")
	})

	assert.Contains(t, out, `"job":"report-refresh"`)
	assert.Contains(t, out, `"now":"2026-01-01"`)
	assert.Contains(t, out, `"component":"scheduler"`)
}

func TestCronPrintfLogger(t *testing.T) {
	out := capture(t, console("info"), func(l *stdlogger.Logger) {
		cron.PrintfLogger(l).Info("start")
	})

	assert.Contains(t, out, "start")
}
