package reporting

import (
	"context"

	"gorm.io/datatypes"

	"github.com/apota/mydms-sub010/internal/db/models"
	"github.com/apota/mydms-sub010/internal/repository"
	"github.com/apota/mydms-sub010/internal/service"
)

// Dashboards manages dashboards and their widgets.
type Dashboards struct {
	service.CRUD[models.Dashboard, string, models.Dashboard, DashboardInput, DashboardInput]

	repo    *repository.Gorm[models.Dashboard, string]
	widgets *repository.Gorm[models.DashboardWidget, string]
}

func newDashboards(
	repo *repository.Gorm[models.Dashboard, string],
	widgets *repository.Gorm[models.DashboardWidget, string],
) *Dashboards {
	d := &Dashboards{repo: repo, widgets: widgets}

	d.CRUD = service.CRUD[models.Dashboard, string, models.Dashboard, DashboardInput, DashboardInput]{
		Repo:  repo,
		Name:  "Dashboard",
		ToDTO: service.Identity[models.Dashboard],
		FromCreate: func(ctx context.Context, in *DashboardInput) (*models.Dashboard, error) {
			dash := &models.Dashboard{Owner: service.Actor(ctx, "system"), Status: models.DashboardActive}

			return dash, d.apply(ctx, dash, in)
		},
		ApplyUpdate: d.apply,
	}

	return d
}

func (d *Dashboards) apply(_ context.Context, dash *models.Dashboard, in *DashboardInput) error {
	dash.Name = in.Name
	dash.Description = in.Description
	dash.Layout = datatypes.JSONMap(in.Layout)
	dash.IsDefault = in.IsDefault

	if in.Status != "" {
		dash.Status = in.Status
	}

	return nil
}

// Default returns the default dashboard of the calling user.
func (d *Dashboards) Default(ctx context.Context) (models.Dashboard, error) {
	owner := service.Actor(ctx, "system")

	found, err := d.repo.Find(ctx, "owner = ? AND is_default = ?", owner, true)
	if err != nil {
		return models.Dashboard{}, err
	}

	if len(found) == 0 {
		return models.Dashboard{}, service.NotFoundf("Default dashboard of '%s' not found", owner)
	}

	return found[0], nil
}

// Widgets returns the widgets of a dashboard.
func (d *Dashboards) Widgets(ctx context.Context, dashboardID string) ([]models.DashboardWidget, error) {
	if _, err := d.Load(ctx, dashboardID); err != nil {
		return nil, err
	}

	out, err := d.widgets.Find(ctx, "dashboard_id = ?", dashboardID)
	if err != nil {
		return nil, err
	}

	if out == nil {
		out = []models.DashboardWidget{}
	}

	return out, nil
}

// AddWidget validates in and adds a widget to a dashboard.
func (d *Dashboards) AddWidget(ctx context.Context, dashboardID string, in *WidgetInput) (models.DashboardWidget, error) {
	if err := service.Validate(in); err != nil {
		return models.DashboardWidget{}, err
	}

	if _, err := d.Load(ctx, dashboardID); err != nil {
		return models.DashboardWidget{}, err
	}

	w := &models.DashboardWidget{
		DashboardID:     dashboardID,
		Title:           in.Title,
		WidgetType:      in.WidgetType,
		DataSource:      in.DataSource,
		Position:        datatypes.JSONMap(in.Position),
		Size:            datatypes.JSONMap(in.Size),
		Configuration:   datatypes.JSONMap(in.Configuration),
		RefreshInterval: in.RefreshInterval,
	}

	if _, err := d.widgets.Add(ctx, w); err != nil {
		return models.DashboardWidget{}, err
	}

	return *w, nil
}

// DeleteWidget removes a widget of a dashboard.
func (d *Dashboards) DeleteWidget(ctx context.Context, dashboardID, widgetID string) error {
	w, err := d.widgets.GetByID(ctx, widgetID)
	if err != nil {
		return err
	}

	if w == nil || w.DashboardID != dashboardID {
		return service.NotFoundf("Widget with id '%s' not found", widgetID)
	}

	_, err = d.widgets.Delete(ctx, widgetID)

	return err
}
