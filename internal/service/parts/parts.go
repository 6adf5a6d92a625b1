// Package parts implements the parts inventory and its suppliers.
package parts

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/apota/mydms-sub010/internal/db/models"
	"github.com/apota/mydms-sub010/internal/repository"
	"github.com/apota/mydms-sub010/internal/service"
)

// ServiceName is reported by the health endpoint.
const ServiceName = "DMS Parts Management API"

// Parts manages parts.
type Parts struct {
	service.CRUD[models.Part, string, models.Part, PartInput, PartInput]

	repo      *repository.Gorm[models.Part, string]
	suppliers *repository.Gorm[models.Supplier, string]
}

// Suppliers manages suppliers.
type Suppliers struct {
	service.CRUD[models.Supplier, string, models.Supplier, SupplierInput, SupplierInput]

	repo *repository.Gorm[models.Supplier, string]
}

// Service bundles the parts services.
type Service struct {
	Parts     *Parts
	Suppliers *Suppliers
}

// New creates the parts services on db.
func New(db *gorm.DB) (*Service, error) {
	parts, err := repository.NewGorm[models.Part, string](db, "id")
	if err != nil {
		return nil, err
	}

	suppliers, err := repository.NewGorm[models.Supplier, string](db, "id")
	if err != nil {
		return nil, err
	}

	p := &Parts{repo: parts, suppliers: suppliers}
	p.CRUD = service.CRUD[models.Part, string, models.Part, PartInput, PartInput]{
		Repo:        parts,
		Name:        "Part",
		ToDTO:       service.Identity[models.Part],
		FromCreate:  p.fromInput,
		ApplyUpdate: p.applyInput,
		Unique:      p.unique,
	}

	s := &Suppliers{repo: suppliers}
	s.CRUD = service.CRUD[models.Supplier, string, models.Supplier, SupplierInput, SupplierInput]{
		Repo:        suppliers,
		Name:        "Supplier",
		ToDTO:       service.Identity[models.Supplier],
		FromCreate:  fromSupplier,
		ApplyUpdate: applySupplier,
		Unique:      s.unique,
	}

	return &Service{Parts: p, Suppliers: s}, nil
}

func (p *Parts) fromInput(ctx context.Context, in *PartInput) (*models.Part, error) {
	part := new(models.Part)

	return part, p.applyInput(ctx, part, in)
}

func (p *Parts) applyInput(ctx context.Context, part *models.Part, in *PartInput) error {
	if in.SupplierID != nil && *in.SupplierID != "" {
		exists, err := p.suppliers.Exists(ctx, *in.SupplierID)
		if err != nil {
			return err
		}

		if !exists {
			return service.Invalid("supplierId", "exists", "Supplier '"+*in.SupplierID+"' does not exist")
		}

		part.SupplierID = in.SupplierID
	} else {
		part.SupplierID = nil
	}

	part.PartNumber = in.PartNumber
	part.Name = in.Name
	part.Description = in.Description
	part.Category = in.Category
	part.Manufacturer = in.Manufacturer
	part.Cost = in.Cost
	part.ListPrice = in.ListPrice
	part.QuantityOnHand = in.QuantityOnHand
	part.ReorderPoint = in.ReorderPoint
	part.BinLocation = in.BinLocation

	return nil
}

func (p *Parts) unique(ctx context.Context, part *models.Part) error {
	var other models.Part

	err := p.repo.DB(ctx).Where("part_number = ? AND id <> ?", part.PartNumber, part.ID).First(&other).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}

	if err != nil {
		return err
	}

	return service.Conflictf("Part with part number '%s' already exists", part.PartNumber)
}

// Search matches q against part number, name and manufacturer.
func (p *Parts) Search(ctx context.Context, q string) ([]models.Part, error) {
	like := service.Like(q)

	return p.repo.Find(ctx,
		"LOWER(part_number) LIKE ? "+service.LikeEscape+
			" OR LOWER(name) LIKE ? "+service.LikeEscape+
			" OR LOWER(manufacturer) LIKE ? "+service.LikeEscape,
		like, like, like)
}

// SearchHits adapts Search for the gateway search.
func (p *Parts) SearchHits(ctx context.Context, q, typ string) ([]service.SearchHit, error) {
	if !service.WantType(typ, "part") {
		return nil, nil
	}

	found, err := p.Search(ctx, q)
	if err != nil {
		return nil, err
	}

	hits := make([]service.SearchHit, len(found))
	for i, part := range found {
		hits[i] = service.SearchHit{ID: part.ID, Type: "part", Title: part.Name, Subtitle: part.PartNumber}
	}

	return hits, nil
}

// LowStock returns the parts at or below their reorder point.
func (p *Parts) LowStock(ctx context.Context) ([]models.Part, error) {
	return p.repo.Find(ctx, "quantity_on_hand <= reorder_point")
}

// Adjust adds in.Quantity to the stock of a part, stock never goes below zero.
func (p *Parts) Adjust(ctx context.Context, id string, in *AdjustInput) (models.Part, error) {
	if err := service.Validate(in); err != nil {
		return models.Part{}, err
	}

	part, err := p.Load(ctx, id)
	if err != nil {
		return models.Part{}, err
	}

	if part.QuantityOnHand+in.Quantity < 0 {
		return models.Part{}, service.Invalid("quantity", "min",
			"Adjustment would leave a negative stock for part '"+part.PartNumber+"'")
	}

	part.QuantityOnHand += in.Quantity

	out, err := p.Save(ctx, part)
	if err != nil {
		return models.Part{}, err
	}

	log.Ctx(ctx).Info().
		Str("part", part.PartNumber).
		Int("quantity", in.Quantity).
		Int("onHand", out.QuantityOnHand).
		Str("reason", in.Reason).
		Str("by", service.Actor(ctx, "system")).
		Msg("stock adjusted")

	return out, nil
}

func fromSupplier(ctx context.Context, in *SupplierInput) (*models.Supplier, error) {
	s := new(models.Supplier)

	return s, applySupplier(ctx, s, in)
}

func applySupplier(_ context.Context, s *models.Supplier, in *SupplierInput) error {
	s.Name = in.Name
	s.ContactName = in.ContactName
	s.Email = in.Email
	s.Phone = in.Phone
	s.Website = in.Website

	return nil
}

func (s *Suppliers) unique(ctx context.Context, sup *models.Supplier) error {
	var other models.Supplier

	err := s.repo.DB(ctx).Where("name = ? AND id <> ?", sup.Name, sup.ID).First(&other).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}

	if err != nil {
		return err
	}

	return service.Conflictf("Supplier with name '%s' already exists", sup.Name)
}
