package reporting

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/apota/mydms-sub010/internal/db/models"
	"github.com/apota/mydms-sub010/internal/repository"
	"github.com/apota/mydms-sub010/internal/service"
)

// DataMarts manages data marts.
type DataMarts struct {
	service.CRUD[models.DataMart, string, models.DataMart, DataMartInput, DataMartInput]

	repo   *repository.Gorm[models.DataMart, string]
	engine Engine

	now func() time.Time
}

func newDataMarts(repo *repository.Gorm[models.DataMart, string], engine Engine) *DataMarts {
	d := &DataMarts{repo: repo, engine: engine, now: time.Now}

	d.CRUD = service.CRUD[models.DataMart, string, models.DataMart, DataMartInput, DataMartInput]{
		Repo:  repo,
		Name:  "Data mart",
		ToDTO: service.Identity[models.DataMart],
		FromCreate: func(ctx context.Context, in *DataMartInput) (*models.DataMart, error) {
			mart := &models.DataMart{Status: models.DataMartActive}
			if err := d.apply(ctx, mart, in); err != nil {
				return nil, err
			}

			next := NextRun(refreshSchedule(mart), d.now().UTC())
			mart.NextRefreshAt = &next

			return mart, nil
		},
		ApplyUpdate: d.apply,
		Unique:      d.unique,
	}

	return d
}

func (d *DataMarts) apply(_ context.Context, mart *models.DataMart, in *DataMartInput) error {
	if in.RefreshSchedule != "" {
		if _, err := CronParser.Parse(in.RefreshSchedule); err != nil {
			return service.Invalid("refreshSchedule", "cron", "Invalid cron expression '"+in.RefreshSchedule+"'")
		}
	}

	mart.Name = in.Name
	mart.Description = in.Description
	mart.RefreshSchedule = in.RefreshSchedule

	if in.Status != "" {
		mart.Status = in.Status
	}

	return nil
}

func (d *DataMarts) unique(ctx context.Context, mart *models.DataMart) error {
	var other models.DataMart

	err := d.repo.DB(ctx).Where("name = ? AND id <> ?", mart.Name, mart.ID).First(&other).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}

	if err != nil {
		return err
	}

	return service.Conflictf("Data mart with name '%s' already exists", mart.Name)
}

func refreshSchedule(mart *models.DataMart) string {
	if mart.RefreshSchedule == "" {
		return DefaultDataMartSchedule
	}

	return mart.RefreshSchedule
}

// Refresh rebuilds a data mart and schedules its next refresh.
func (d *DataMarts) Refresh(ctx context.Context, id string) (models.DataMart, error) {
	mart, err := d.Load(ctx, id)
	if err != nil {
		return models.DataMart{}, err
	}

	rows, err := d.engine.Run(ctx, &models.ReportDefinition{Name: mart.Name, Category: "datamart"}, nil)
	if err != nil {
		mart.Status = models.DataMartFailed
		if _, saveErr := d.Save(context.WithoutCancel(ctx), mart); saveErr != nil {
			log.Ctx(ctx).Error().Err(saveErr).Str("dataMart", mart.Name).Msg("failed to record refresh failure")
		}

		return models.DataMart{}, err
	}

	now := d.now().UTC()
	next := NextRun(refreshSchedule(mart), now)

	mart.Status = models.DataMartActive
	mart.RowCount = len(rows)
	mart.LastRefreshedAt = &now
	mart.NextRefreshAt = &next

	return d.Save(ctx, mart)
}

// DueForRefresh returns the active data marts whose next refresh is at or
// before now, or which were never scheduled.
func (d *DataMarts) DueForRefresh(ctx context.Context, now time.Time) ([]models.DataMart, error) {
	return d.repo.Find(ctx, "status = ? AND (next_refresh_at IS NULL OR next_refresh_at <= ?)",
		models.DataMartActive, now.UTC())
}

// RefreshDue refreshes every due data mart. A failing mart does not stop the
// others, the failures are returned joined.
func (d *DataMarts) RefreshDue(ctx context.Context, now time.Time) (int, error) {
	due, err := d.DueForRefresh(ctx, now)
	if err != nil {
		return 0, err
	}

	var (
		refreshed int
		errs      []error
	)

	for _, mart := range due {
		if _, err := d.Refresh(ctx, mart.ID); err != nil {
			log.Ctx(ctx).Error().Err(err).Str("dataMart", mart.Name).Msg("data mart refresh failed")
			errs = append(errs, err)

			continue
		}

		refreshed++
	}

	return refreshed, errors.Join(errs...)
}
