package reporting

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"path"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/apota/mydms-sub010/internal/db/models"
	"github.com/apota/mydms-sub010/internal/service"
)

// Export formats.
const (
	FormatCSV  = "csv"
	FormatJSON = "json"
)

// ExportPrefix is the key prefix of stored scheduled exports.
const ExportPrefix = "exports"

// Export is an execution rendered in one format.
type Export struct {
	Name        string
	ContentType string
	Data        []byte
}

// ParseFormat normalizes a client supplied format, ok is false for formats
// that cannot be rendered.
func ParseFormat(format string) (string, bool) {
	switch f := strings.ToLower(strings.TrimSpace(format)); f {
	case FormatCSV, FormatJSON:
		return f, true
	}

	return "", false
}

// Render encodes rows. CSV columns are the sorted union of the row keys,
// missing values stay empty.
func Render(rows []map[string]any, format string) ([]byte, string, error) {
	switch format {
	case FormatJSON:
		if rows == nil {
			rows = []map[string]any{}
		}

		out, err := json.Marshal(rows)
		if err != nil {
			return nil, "", err
		}

		return out, "application/json", nil
	case FormatCSV:
		out, err := renderCSV(rows)
		if err != nil {
			return nil, "", err
		}

		return out, "text/csv; charset=utf-8", nil
	}

	return nil, "", service.Invalid("format", "oneof", "Unsupported export format '"+format+"'")
}

func renderCSV(rows []map[string]any) ([]byte, error) {
	var columns []string

	for _, row := range rows {
		for k := range row {
			if !slices.Contains(columns, k) {
				columns = append(columns, k)
			}
		}
	}

	slices.Sort(columns)

	var buf bytes.Buffer

	w := csv.NewWriter(&buf)
	if err := w.Write(columns); err != nil {
		return nil, err
	}

	record := make([]string, len(columns))

	for _, row := range rows {
		for i, c := range columns {
			record[i] = cell(row[c])
		}

		if err := w.Write(record); err != nil {
			return nil, err
		}
	}

	w.Flush()

	return buf.Bytes(), w.Error()
}

func cell(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		// numbers come back from the JSON column as float64
		return strconv.FormatFloat(v, 'f', -1, 64)
	case map[string]any, []any:
		out, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprint(v)
		}

		return string(out)
	}

	return fmt.Sprint(v)
}

// Export renders the results of a successful execution.
func (r *Reports) Export(ctx context.Context, executionID, format string) (Export, error) {
	f, ok := ParseFormat(format)
	if !ok {
		return Export{}, service.Invalid("format", "oneof", "Unsupported export format '"+format+"'")
	}

	res, err := r.Results(ctx, executionID)
	if err != nil {
		return Export{}, err
	}

	data, contentType, err := Render(res.Rows, f)
	if err != nil {
		return Export{}, err
	}

	return Export{
		Name:        fmt.Sprintf("report-%s-%s.%s", res.ReportID, res.ExecutionID, f),
		ContentType: contentType,
		Data:        data,
	}, nil
}

// SetExportKey records where the export of an execution is stored.
func (r *Reports) SetExportKey(ctx context.Context, executionID, key string) error {
	res := r.executions.DB(ctx).Model(&models.ReportExecution{}).
		Where("id = ?", executionID).
		Update("export_key", key)
	if res.Error != nil {
		return res.Error
	}

	if res.RowsAffected == 0 {
		return service.NotFoundf("Report execution with id '%s' not found", executionID)
	}

	return nil
}

// ExportStore keeps exported files, fiber.Storage implementations fit.
type ExportStore interface {
	Set(key string, val []byte, exp time.Duration) error
}

// Exporter stores the exports of scheduled runs.
type Exporter struct {
	reports   *Reports
	store     ExportStore
	format    string
	retention time.Duration
}

// NewExporter creates an exporter writing to store. Schedules whose format
// cannot be rendered fall back to format, csv when empty.
func NewExporter(reports *Reports, store ExportStore, format string, retention time.Duration) *Exporter {
	f, ok := ParseFormat(format)
	if !ok {
		f = FormatCSV
	}

	return &Exporter{reports: reports, store: store, format: f, retention: retention}
}

// Key returns the storage key of an export.
func Key(scheduleID, executionID, format string) string {
	return path.Join(ExportPrefix, scheduleID, executionID+"."+format)
}

// ExportScheduled renders a scheduled execution, stores it and records the
// storage key on the execution.
func (e *Exporter) ExportScheduled(ctx context.Context, sched *models.ReportSchedule, executionID string) (string, error) {
	format, ok := ParseFormat(sched.Format)
	if !ok {
		log.Ctx(ctx).Debug().Str("schedule", sched.ID).Str("format", sched.Format).
			Str("fallback", e.format).Msg("export format not supported")

		format = e.format
	}

	out, err := e.reports.Export(ctx, executionID, format)
	if err != nil {
		return "", err
	}

	key := Key(sched.ID, executionID, format)

	if err := e.store.Set(key, out.Data, e.retention); err != nil {
		return "", fmt.Errorf("store export %s: %w", key, err)
	}

	if err := e.reports.SetExportKey(ctx, executionID, key); err != nil {
		return "", err
	}

	return key, nil
}
