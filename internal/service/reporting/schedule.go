package reporting

import (
	"context"
	"time"

	"gorm.io/datatypes"

	"github.com/apota/mydms-sub010/internal/db/models"
	"github.com/apota/mydms-sub010/internal/repository"
	"github.com/apota/mydms-sub010/internal/service"
)

// Schedules manages report schedules.
type Schedules struct {
	service.CRUD[models.ReportSchedule, string, models.ReportSchedule, ScheduleInput, ScheduleInput]

	repo    *repository.Gorm[models.ReportSchedule, string]
	reports *repository.Gorm[models.ReportDefinition, string]

	now func() time.Time
}

func newSchedules(
	repo *repository.Gorm[models.ReportSchedule, string],
	reports *repository.Gorm[models.ReportDefinition, string],
) *Schedules {
	s := &Schedules{repo: repo, reports: reports, now: time.Now}

	s.CRUD = service.CRUD[models.ReportSchedule, string, models.ReportSchedule, ScheduleInput, ScheduleInput]{
		Repo:  repo,
		Name:  "Report schedule",
		ToDTO: service.Identity[models.ReportSchedule],
		FromCreate: func(ctx context.Context, in *ScheduleInput) (*models.ReportSchedule, error) {
			sched := &models.ReportSchedule{Active: true, Format: "PDF"}

			return sched, s.apply(ctx, sched, in)
		},
		ApplyUpdate: s.apply,
	}

	return s
}

func (s *Schedules) apply(ctx context.Context, sched *models.ReportSchedule, in *ScheduleInput) error {
	exists, err := s.reports.Exists(ctx, in.ReportID)
	if err != nil {
		return err
	}

	if !exists {
		return service.Invalid("reportId", "exists", "Report '"+in.ReportID+"' does not exist")
	}

	if _, err := CronParser.Parse(in.CronExpression); err != nil {
		return service.Invalid("cronExpression", "cron", "Invalid cron expression '"+in.CronExpression+"'")
	}

	rescheduled := sched.CronExpression != in.CronExpression

	sched.ReportID = in.ReportID
	sched.CronExpression = in.CronExpression
	sched.Parameters = datatypes.JSONMap(in.Parameters)
	sched.Recipients = in.Recipients

	if in.Format != "" {
		sched.Format = in.Format
	}

	if in.Active != nil {
		rescheduled = rescheduled || *in.Active != sched.Active
		sched.Active = *in.Active
	}

	switch {
	case !sched.Active:
		sched.NextRunAt = nil
	case rescheduled || sched.NextRunAt == nil:
		next := NextRun(sched.CronExpression, s.now().UTC())
		sched.NextRunAt = &next
	}

	return nil
}

// DueToRun returns the active schedules whose next run is at or before now.
func (s *Schedules) DueToRun(ctx context.Context, now time.Time) ([]models.ReportSchedule, error) {
	return s.repo.Find(ctx, "active = ? AND next_run_at IS NOT NULL AND next_run_at <= ?", true, now.UTC())
}

// UpdateRunDates records a run of schedule id.
func (s *Schedules) UpdateRunDates(ctx context.Context, id string, last, next time.Time) error {
	res := s.repo.DB(ctx).Model(&models.ReportSchedule{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"last_run_at": last.UTC(),
			"next_run_at": next.UTC(),
			"updated_at":  s.now().UTC(),
		})
	if res.Error != nil {
		return res.Error
	}

	if res.RowsAffected == 0 {
		return service.NotFoundf("Report schedule with id '%s' not found", id)
	}

	return nil
}
