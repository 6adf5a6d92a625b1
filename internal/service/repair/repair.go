// Package repair implements the service department: repair orders and the
// jobs performed on them.
package repair

import (
	"context"
	"errors"
	"math"
	"strings"

	"gorm.io/gorm"

	"github.com/apota/mydms-sub010/internal/db/models"
	"github.com/apota/mydms-sub010/internal/repository"
	"github.com/apota/mydms-sub010/internal/service"
	"github.com/apota/mydms-sub010/internal/uniuri"
)

// ServiceName is reported by the health endpoint.
const ServiceName = "DMS Service Management API"

// NumberPrefix starts every repair order number.
const NumberPrefix = "RO-"

// numberAttempts bounds the retries on a number collision.
const numberAttempts = 5

// ErrNumberExhausted is returned when no free order number was drawn.
var ErrNumberExhausted = errors.New("no free repair order number")

// Store is the repair order repository, it loads the jobs with every order.
type Store struct {
	*repository.Gorm[models.RepairOrder, string]
}

// GetAll returns every order with its jobs, newest first.
func (s *Store) GetAll(ctx context.Context) ([]models.RepairOrder, error) {
	var out []models.RepairOrder

	if err := s.DB(ctx).Preload("Jobs", orderJobs).Order("created_at DESC, id").Find(&out).Error; err != nil {
		return nil, err
	}

	return out, nil
}

// GetByID returns the order with its jobs, nil when missing.
func (s *Store) GetByID(ctx context.Context, id string) (*models.RepairOrder, error) {
	var out models.RepairOrder

	err := s.DB(ctx).Preload("Jobs", orderJobs).Where("id = ?", id).Take(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil //nolint:nilnil
	}

	if err != nil {
		return nil, err
	}

	return &out, nil
}

func orderJobs(db *gorm.DB) *gorm.DB {
	return db.Order("created_at, id")
}

// Service manages repair orders and service jobs.
type Service struct {
	service.CRUD[models.RepairOrder, string, OrderDTO, OrderInput, OrderInput]

	orders *Store
	jobs   *repository.Gorm[models.ServiceJob, string]
}

// New creates the service on db.
func New(db *gorm.DB) (*Service, error) {
	orders, err := repository.NewGorm[models.RepairOrder, string](db, "id")
	if err != nil {
		return nil, err
	}

	jobs, err := repository.NewGorm[models.ServiceJob, string](db, "id")
	if err != nil {
		return nil, err
	}

	s := &Service{orders: &Store{Gorm: orders}, jobs: jobs}

	s.CRUD = service.CRUD[models.RepairOrder, string, OrderDTO, OrderInput, OrderInput]{
		Repo:        s.orders,
		Name:        "Repair order",
		ToDTO:       ToDTO,
		FromCreate:  s.fromInput,
		ApplyUpdate: applyInput,
	}

	return s, nil
}

// ToDTO adds the total to an order.
func ToDTO(o *models.RepairOrder) OrderDTO {
	return OrderDTO{RepairOrder: *o, Total: round(o.Total())}
}

func (s *Service) fromInput(ctx context.Context, in *OrderInput) (*models.RepairOrder, error) {
	number, err := s.nextNumber(ctx)
	if err != nil {
		return nil, err
	}

	o := &models.RepairOrder{Number: number, Status: models.RepairOrderOpen}
	if err := applyInput(ctx, o, in); err != nil {
		return nil, err
	}

	for _, j := range in.Jobs {
		job := newJob(&j)
		job.EnsureID()
		o.Jobs = append(o.Jobs, *job)
	}

	return o, nil
}

func applyInput(_ context.Context, o *models.RepairOrder, in *OrderInput) error {
	o.CustomerID = in.CustomerID
	o.VehicleID = in.VehicleID
	o.VIN = strings.ToUpper(in.VIN)
	o.Description = in.Description
	o.Mileage = in.Mileage
	o.PromisedAt = in.PromisedAt

	if in.Status != "" {
		o.Status = in.Status
	}

	return nil
}

// nextNumber draws order numbers until one is free.
func (s *Service) nextNumber(ctx context.Context) (string, error) {
	for range numberAttempts {
		number := uniuri.Code(NumberPrefix)

		var count int64
		if err := s.orders.DB(ctx).Model(&models.RepairOrder{}).Where("number = ?", number).Count(&count).Error; err != nil {
			return "", err
		}

		if count == 0 {
			return number, nil
		}
	}

	return "", ErrNumberExhausted
}

// Total returns the cost of all jobs of an order.
func (s *Service) Total(ctx context.Context, orderID string) (TotalDTO, error) {
	o, err := s.Load(ctx, orderID)
	if err != nil {
		return TotalDTO{}, err
	}

	return TotalDTO{RepairOrderID: o.ID, Jobs: len(o.Jobs), Total: round(o.Total())}, nil
}

// Jobs returns the jobs of an order.
func (s *Service) Jobs(ctx context.Context, orderID string) ([]models.ServiceJob, error) {
	o, err := s.Load(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if o.Jobs == nil {
		return []models.ServiceJob{}, nil
	}

	return o.Jobs, nil
}

// AddJob adds a job to an order.
func (s *Service) AddJob(ctx context.Context, orderID string, in *JobInput) (models.ServiceJob, error) {
	if err := service.Validate(in); err != nil {
		return models.ServiceJob{}, err
	}

	exists, err := s.orders.Exists(ctx, orderID)
	if err != nil {
		return models.ServiceJob{}, err
	}

	if !exists {
		return models.ServiceJob{}, service.NotFoundf("Repair order with id '%s' not found", orderID)
	}

	job := newJob(in)
	job.RepairOrderID = orderID

	added, err := s.jobs.Add(ctx, job)
	if err != nil {
		return models.ServiceJob{}, err
	}

	return *added, nil
}

// UpdateJob replaces the mutable fields of a job.
func (s *Service) UpdateJob(ctx context.Context, jobID string, in *JobInput) (models.ServiceJob, error) {
	if err := service.Validate(in); err != nil {
		return models.ServiceJob{}, err
	}

	job, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		return models.ServiceJob{}, err
	}

	if job == nil {
		return models.ServiceJob{}, jobNotFound(jobID)
	}

	applyJob(job, in)

	updated, err := s.jobs.Update(ctx, job)
	if err != nil {
		return models.ServiceJob{}, err
	}

	return *updated, nil
}

// DeleteJob removes a job.
func (s *Service) DeleteJob(ctx context.Context, jobID string) error {
	deleted, err := s.jobs.Delete(ctx, jobID)
	if err != nil {
		return err
	}

	if !deleted {
		return jobNotFound(jobID)
	}

	return nil
}

func newJob(in *JobInput) *models.ServiceJob {
	job := &models.ServiceJob{Status: models.ServiceJobPending}
	applyJob(job, in)

	return job
}

func applyJob(job *models.ServiceJob, in *JobInput) {
	job.Description = in.Description
	job.LaborHours = in.LaborHours
	job.LaborRate = in.LaborRate
	job.PartsCost = in.PartsCost
	job.TechnicianID = in.TechnicianID

	if in.Status != "" {
		job.Status = in.Status
	}
}

func jobNotFound(id string) error {
	return service.NotFoundf("Service job with id '%s' not found", id)
}

func round(v float64) float64 {
	return math.Round(v*100) / 100
}
