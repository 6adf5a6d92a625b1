package reporting_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apota/mydms-sub010/internal/db/models"
	"github.com/apota/mydms-sub010/internal/service"
	"github.com/apota/mydms-sub010/internal/service/reporting"
)

type exportStore struct {
	data map[string][]byte
	ttl  map[string]time.Duration
	err  error
}

func newExportStore() *exportStore {
	return &exportStore{data: map[string][]byte{}, ttl: map[string]time.Duration{}}
}

func (s *exportStore) Set(key string, val []byte, exp time.Duration) error {
	if s.err != nil {
		return s.err
	}

	s.data[key] = val
	s.ttl[key] = exp

	return nil
}

func TestRender(t *testing.T) {
	rows := []map[string]any{
		{"b": "x,y", "a": 1.5},
		{"a": 2.0, "c": map[string]any{"k": "v"}},
		{"a": nil, "b": `say "hi"`},
	}

	tests := []struct {
		name   string
		rows   []map[string]any
		format string
		want   string
		ctype  string
	}{
		{
			name: "csv", rows: rows, format: reporting.FormatCSV, ctype: "text/csv; charset=utf-8",
			want: "a,b,c\n1.5,\"x,y\",\n2,,\"{\"\"k\"\":\"\"v\"\"}\"\n,\"say \"\"hi\"\"\",\n",
		},
		{name: "csv without rows", format: reporting.FormatCSV, want: "\n", ctype: "text/csv; charset=utf-8"},
		{name: "json", rows: rows[:1], format: reporting.FormatJSON, want: `[{"a":1.5,"b":"x,y"}]`, ctype: "application/json"},
		{name: "json without rows", format: reporting.FormatJSON, want: `[]`, ctype: "application/json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, ctype, err := reporting.Render(tt.rows, tt.format)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(out))
			assert.Equal(t, tt.ctype, ctype)
		})
	}

	_, _, err := reporting.Render(rows, "xlsx")

	var verr *service.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "format", verr.Fields[0].Field)
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]string{"CSV": "csv", " json ": "json", "csv": "csv"} {
		got, ok := reporting.ParseFormat(in)
		assert.True(t, ok, in)
		assert.Equal(t, want, got)
	}

	for _, in := range []string{"", "PDF", "Excel"} {
		_, ok := reporting.ParseFormat(in)
		assert.False(t, ok, in)
	}
}

func TestExportScheduled(t *testing.T) {
	s := newService(t, nil)
	ctx := context.Background()
	def := newReport(t, s, "Aged stock", "Inventory")

	sched, err := s.Schedules.Create(ctx, &reporting.ScheduleInput{ReportID: def.ID, CronExpression: "@daily", Format: "JSON"})
	require.NoError(t, err)

	exec, err := s.Reports.Execute(ctx, def.ID, nil, "system")
	require.NoError(t, err)

	store := newExportStore()
	exports := reporting.NewExporter(s.Reports, store, "", 24*time.Hour)

	key, err := exports.ExportScheduled(ctx, &sched, exec.ID)
	require.NoError(t, err)
	assert.Equal(t, "exports/"+sched.ID+"/"+exec.ID+".json", key)
	assert.JSONEq(t, `[
		{"column1":1,"column2":"Value1","column3":100},
		{"column1":2,"column2":"Value2","column3":200},
		{"column1":3,"column2":"Value3","column3":300}
	]`, string(store.data[key]))
	assert.Equal(t, 24*time.Hour, store.ttl[key])

	got, err := s.Reports.Execution(ctx, exec.ID)
	require.NoError(t, err)
	assert.Equal(t, key, got.ExportKey)

	// PDF cannot be rendered, the default format is used
	sched.Format = "PDF"

	key, err = exports.ExportScheduled(ctx, &sched, exec.ID)
	require.NoError(t, err)
	assert.Equal(t, reporting.Key(sched.ID, exec.ID, reporting.FormatCSV), key)

	store.err = errors.New("disk full")

	_, err = exports.ExportScheduled(ctx, &sched, exec.ID)
	require.ErrorContains(t, err, "disk full")
}

func TestExportFailedExecution(t *testing.T) {
	s := newService(t, failingEngine{})
	ctx := context.Background()
	def := newReport(t, s, "Broken", "")

	exec, err := s.Reports.Execute(ctx, def.ID, nil, "system")
	require.NoError(t, err)
	require.Equal(t, models.ExecutionFailed, exec.Status)

	_, err = s.Reports.Export(ctx, exec.ID, reporting.FormatCSV)
	require.ErrorIs(t, err, service.ErrNotFound)
}
