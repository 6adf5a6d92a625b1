package scheduler

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/apota/mydms-sub010/internal/config"
	"github.com/apota/mydms-sub010/internal/db/models"
	"github.com/apota/mydms-sub010/internal/service/reporting"
)

// Job names.
const (
	JobReportRefresh   = "report-refresh"
	JobDataMartRefresh = "datamart-refresh"
)

// ScheduledBy is recorded as the user of scheduled executions.
const ScheduledBy = "system"

// ReportingJobs returns the report and data mart jobs on the specs of cfg.
func ReportingJobs(cfg config.Reporting, svc *reporting.Service) []Job {
	reportSpec := cfg.ReportRefreshSpec
	if reportSpec == "" {
		reportSpec = config.DefaultReportRefreshSpec
	}

	martSpec := cfg.DataMartRefreshSpec
	if martSpec == "" {
		martSpec = config.DefaultDataMartRefreshSpec
	}

	return []Job{
		{Name: JobReportRefresh, Spec: reportSpec, Run: ScheduledReports(svc, time.Now)},
		{Name: JobDataMartRefresh, Spec: martSpec, Run: DataMartRefresh(svc, time.Now)},
	}
}

// ScheduledReports executes every due report schedule, exports successful
// runs and moves the schedule to its next run. A failing schedule is logged
// and does not stop the others, a failed export still moves the schedule.
func ScheduledReports(svc *reporting.Service, now func() time.Time) func(context.Context) error {
	return func(ctx context.Context) error {
		at := now().UTC()

		due, err := svc.Schedules.DueToRun(ctx, at)
		if err != nil {
			return err
		}

		var errs []error

		for _, sched := range due {
			l := log.Ctx(ctx).With().Str("schedule", sched.ID).Str("report", sched.ReportID).Logger()

			exec, err := svc.Reports.Execute(ctx, sched.ReportID, sched.Parameters, ScheduledBy)
			if err != nil {
				l.Error().Err(err).Msg("scheduled report failed")
				errs = append(errs, err)

				continue
			}

			switch {
			case exec.Status != models.ExecutionSuccess:
				l.Warn().Str("execution", exec.ID).Str("status", string(exec.Status)).Msg("scheduled report did not succeed")
			case svc.Exports != nil:
				key, err := svc.Exports.ExportScheduled(ctx, &sched, exec.ID)
				if err != nil {
					l.Error().Err(err).Str("execution", exec.ID).Msg("scheduled report export failed")
					errs = append(errs, err)
				} else {
					l.Info().Str("execution", exec.ID).Str("export", key).Msg("scheduled report exported")
				}
			}

			next := reporting.NextRun(sched.CronExpression, at)
			if err := svc.Schedules.UpdateRunDates(ctx, sched.ID, at, next); err != nil {
				l.Error().Err(err).Msg("schedule update failed")
				errs = append(errs, err)

				continue
			}

			l.Info().Str("execution", exec.ID).Time("nextRun", next).Msg("scheduled report executed")
		}

		return errors.Join(errs...)
	}
}

// DataMartRefresh refreshes every due data mart.
func DataMartRefresh(svc *reporting.Service, now func() time.Time) func(context.Context) error {
	return func(ctx context.Context) error {
		n, err := svc.DataMarts.RefreshDue(ctx, now().UTC())
		log.Ctx(ctx).Info().Int("refreshed", n).Msg("data marts refreshed")

		return err
	}
}
