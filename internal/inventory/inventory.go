// Package inventory holds the read projections over the unit collection:
// parameterised filtering and per-building availability counts. Both are
// stateless and delegate predicate evaluation and grouping to the store.
package inventory

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/etnagroup/residence/pkg/models"
	"github.com/etnagroup/residence/pkg/repository"
)

// FilterService answers unit searches.
type FilterService struct {
	repo   repository.InventoryRepo
	logger *slog.Logger
}

func NewFilterService(repo repository.InventoryRepo, logger *slog.Logger) *FilterService {
	if logger == nil {
		logger = slog.Default()
	}
	return &FilterService{repo: repo, logger: logger}
}

// FilterUnits returns the units satisfying every set constraint of f. An
// empty filter returns all units; no match returns an empty slice. A
// min price above the max price is not an error, it simply matches nothing.
func (s *FilterService) FilterUnits(ctx context.Context, f models.UnitFilter) ([]models.Unit, error) {
	units, err := s.repo.FilterUnits(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("filter units: %w", err)
	}
	if units == nil {
		units = []models.Unit{}
	}
	s.logger.Debug("units filtered", slog.Bool("empty_filter", f.IsEmpty()), slog.Int("matched", len(units)))
	return units, nil
}

// AvailabilityService reports sales availability.
type AvailabilityService struct {
	repo   repository.InventoryRepo
	logger *slog.Logger
}

func NewAvailabilityService(repo repository.InventoryRepo, logger *slog.Logger) *AvailabilityService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AvailabilityService{repo: repo, logger: logger}
}

// Summary returns one record per (building name, unit type) group that has
// at least one unit. Group order is unspecified.
func (s *AvailabilityService) Summary(ctx context.Context) ([]models.AvailabilitySummary, error) {
	out, err := s.repo.SummarizeAvailability(ctx)
	if err != nil {
		return nil, fmt.Errorf("availability summary: %w", err)
	}
	if out == nil {
		out = []models.AvailabilitySummary{}
	}
	return out, nil
}

// MoveInReady returns the units that are both available and move-in-ready.
func (s *AvailabilityService) MoveInReady(ctx context.Context) ([]models.Unit, error) {
	units, err := s.repo.ListMoveInReadyUnits(ctx)
	if err != nil {
		return nil, fmt.Errorf("move-in-ready units: %w", err)
	}
	if units == nil {
		units = []models.Unit{}
	}
	return units, nil
}
