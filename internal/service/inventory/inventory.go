// Package inventory implements the vehicle inventory and the workflow tasks
// (reconditioning, acquisition, transfer) run on vehicles.
package inventory

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/apota/mydms-sub010/internal/db/models"
	"github.com/apota/mydms-sub010/internal/repository"
	"github.com/apota/mydms-sub010/internal/service"
	"github.com/apota/mydms-sub010/internal/uniuri"
)

// ServiceName is reported by the health endpoint.
const ServiceName = "DMS Inventory Management API"

// StockNumberPrefix starts every generated stock number.
const StockNumberPrefix = "STK-"

// Service manages vehicles and their workflow tasks.
type Service struct {
	service.CRUD[models.Vehicle, string, models.Vehicle, VehicleInput, VehicleInput]

	vehicles *repository.Gorm[models.Vehicle, string]
	tasks    *repository.Gorm[models.WorkflowTask, string]
	uow      *repository.UnitOfWork

	now func() time.Time
}

// New creates the inventory service on db.
func New(db *gorm.DB) (*Service, error) {
	vehicles, err := repository.NewGorm[models.Vehicle, string](db, "id")
	if err != nil {
		return nil, err
	}

	tasks, err := repository.NewGorm[models.WorkflowTask, string](db, "id")
	if err != nil {
		return nil, err
	}

	uow, err := repository.NewUnitOfWork(db)
	if err != nil {
		return nil, err
	}

	s := &Service{vehicles: vehicles, tasks: tasks, uow: uow, now: time.Now}

	s.CRUD = service.CRUD[models.Vehicle, string, models.Vehicle, VehicleInput, VehicleInput]{
		Repo:        vehicles,
		Name:        "Vehicle",
		KeyName:     "id",
		ToDTO:       service.Identity[models.Vehicle],
		FromCreate:  s.fromInput,
		ApplyUpdate: s.applyInput,
		Unique:      s.unique,
	}

	return s, nil
}

func (s *Service) fromInput(ctx context.Context, in *VehicleInput) (*models.Vehicle, error) {
	v := &models.Vehicle{Status: models.VehicleStatusInTransit}

	if err := s.applyInput(ctx, v, in); err != nil {
		return nil, err
	}

	if v.StockNumber == "" {
		v.StockNumber = uniuri.Code(StockNumberPrefix)
	}

	return v, nil
}

func (s *Service) applyInput(_ context.Context, v *models.Vehicle, in *VehicleInput) error {
	if maxYear := s.now().Year() + 1; in.Year > maxYear {
		return service.Invalid("year", "max", "Field 'year' failed validation tag 'max'")
	}

	v.VIN = strings.ToUpper(in.VIN)
	if in.StockNumber != "" {
		v.StockNumber = in.StockNumber
	}

	v.Make = in.Make
	v.Model = in.Model
	v.Year = in.Year
	v.Trim = in.Trim
	v.ExteriorColor = in.ExteriorColor
	v.InteriorColor = in.InteriorColor
	v.Mileage = in.Mileage
	v.VehicleType = in.VehicleType
	v.AcquisitionCost = in.AcquisitionCost
	v.ListPrice = in.ListPrice
	v.InvoicePrice = in.InvoicePrice
	v.MSRP = in.MSRP
	v.AcquisitionDate = in.AcquisitionDate
	v.AcquisitionSource = in.AcquisitionSource
	v.LotLocation = in.LotLocation

	if in.Status != "" {
		v.Status = in.Status
	}

	return nil
}

// unique rejects a VIN or stock number carried by another vehicle.
func (s *Service) unique(ctx context.Context, v *models.Vehicle) error {
	var other models.Vehicle

	err := s.vehicles.DB(ctx).Where("(vin = ? OR stock_number = ?) AND id <> ?", v.VIN, v.StockNumber, v.ID).
		First(&other).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}

	if err != nil {
		return err
	}

	if other.VIN == v.VIN {
		return service.Conflictf("Vehicle with VIN '%s' already exists", v.VIN)
	}

	return service.Conflictf("Vehicle with stock number '%s' already exists", v.StockNumber)
}

// Search matches q against make, model, VIN and stock number.
func (s *Service) Search(ctx context.Context, q string) ([]models.Vehicle, error) {
	like := service.Like(q)

	return s.vehicles.Find(ctx,
		"LOWER(make) LIKE ? "+service.LikeEscape+
			" OR LOWER(model) LIKE ? "+service.LikeEscape+
			" OR LOWER(vin) LIKE ? "+service.LikeEscape+
			" OR LOWER(stock_number) LIKE ? "+service.LikeEscape,
		like, like, like, like)
}

// SearchHits adapts Search for the gateway search.
func (s *Service) SearchHits(ctx context.Context, q, typ string) ([]service.SearchHit, error) {
	if !service.WantType(typ, "vehicle") {
		return nil, nil
	}

	found, err := s.Search(ctx, q)
	if err != nil {
		return nil, err
	}

	hits := make([]service.SearchHit, len(found))
	for i, v := range found {
		hits[i] = service.SearchHit{
			ID:       v.ID,
			Type:     "vehicle",
			Title:    strings.TrimSpace(strings.Join([]string{strconv.Itoa(v.Year), v.Make, v.Model, v.Trim}, " ")),
			Subtitle: v.StockNumber + " / " + v.VIN,
		}
	}

	return hits, nil
}
