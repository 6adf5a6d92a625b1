package reporting

import (
	"context"

	"github.com/apota/mydms-sub010/internal/db/models"
)

// Engine produces the rows of a report.
type Engine interface {
	Run(ctx context.Context, report *models.ReportDefinition, params map[string]any) ([]map[string]any, error)
}

// StaticEngine returns the same three rows for every report. It stands in
// until reports are backed by a query engine.
type StaticEngine struct{}

// Run implements Engine.
func (StaticEngine) Run(ctx context.Context, _ *models.ReportDefinition, _ map[string]any) ([]map[string]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return []map[string]any{
		{"column1": 1, "column2": "Value1", "column3": 100},
		{"column1": 2, "column2": "Value2", "column3": 200},
		{"column1": 3, "column2": "Value3", "column3": 300},
	}, nil
}
