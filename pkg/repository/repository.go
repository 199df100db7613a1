package repository

import (
	"context"
	"errors"

	"github.com/etnagroup/residence/pkg/models"
)

// Repository interfaces for domain entities. These are the public contracts
// consumers should depend on; concrete implementations live under internal/.
//
// Get methods return (nil, nil) when the row does not exist. Mutations that
// address a single row return ErrNotFound when nothing was affected.

// ErrNotFound is returned by mutations whose target row does not exist.
var ErrNotFound = errors.New("not found")

type ComplexRepo interface {
	CreateComplex(ctx context.Context, c *models.Complex) (int64, error)
	GetComplex(ctx context.Context, id int64) (*models.Complex, error)
	ListComplexes(ctx context.Context) ([]models.Complex, error)
	UpdateComplex(ctx context.Context, c *models.Complex) error
	DeleteComplex(ctx context.Context, id int64) error
}

type BuildingRepo interface {
	CreateBuilding(ctx context.Context, b *models.Building) (int64, error)
	GetBuilding(ctx context.Context, id int64) (*models.Building, error)
	ListBuildings(ctx context.Context) ([]models.Building, error)
	ListBuildingsByComplex(ctx context.Context, complexID int64) ([]models.Building, error)
	UpdateBuilding(ctx context.Context, b *models.Building) error
	DeleteBuilding(ctx context.Context, id int64) error
}

type UnitRepo interface {
	CreateUnit(ctx context.Context, u *models.Unit) (int64, error)
	GetUnit(ctx context.Context, id int64) (*models.Unit, error)
	ListUnits(ctx context.Context) ([]models.Unit, error)
	ListUnitsByBuilding(ctx context.Context, buildingID int64) ([]models.Unit, error)
	UpdateUnit(ctx context.Context, u *models.Unit) error
	SetUnitStatus(ctx context.Context, id int64, status models.UnitStatus) error
	DeleteUnit(ctx context.Context, id int64) error
}

type InquiryRepo interface {
	CreateInquiry(ctx context.Context, q *models.Inquiry) (int64, error)
	GetInquiry(ctx context.Context, id int64) (*models.Inquiry, error)
	ListInquiries(ctx context.Context) ([]models.Inquiry, error)
	SetInquiryStatus(ctx context.Context, id int64, status models.InquiryStatus) error
}

// InventoryRepo runs the read projections over the unit collection.
type InventoryRepo interface {
	FilterUnits(ctx context.Context, f models.UnitFilter) ([]models.Unit, error)
	SummarizeAvailability(ctx context.Context) ([]models.AvailabilitySummary, error)
	ListMoveInReadyUnits(ctx context.Context) ([]models.Unit, error)
}
