package inventory

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/restoops/backend/internal/domain/inventory"
	"github.com/restoops/backend/internal/domain/shared"
)

// VarianceService builds variance reports and manages root-cause tags.
// Everything here is read-side analytics over the ledger: neither reports
// nor tags ever change on-hand quantities.
type VarianceService struct {
	moveRepo  inventory.MovementRepository
	countRepo inventory.StockCountRepository
	tagRepo   inventory.VarianceTagRepository
}

// NewVarianceService creates a new VarianceService
func NewVarianceService(
	moveRepo inventory.MovementRepository,
	countRepo inventory.StockCountRepository,
	tagRepo inventory.VarianceTagRepository,
) *VarianceService {
	return &VarianceService{
		moveRepo:  moveRepo,
		countRepo: countRepo,
		tagRepo:   tagRepo,
	}
}

// Report aggregates a branch's ledger over a window into per-item variance
// rows, attaching any root-cause tag recorded for the same observation.
func (s *VarianceService) Report(ctx context.Context, req VarianceReportRequest) (*VarianceReport, error) {
	if !req.End.After(req.Start) {
		return nil, shared.NewDomainError("INVALID_PERIOD", "Period end must be after period start")
	}

	aggregates, err := s.moveRepo.AggregateByItemAndType(ctx, req.BranchID, req.Start, req.End)
	if err != nil {
		return nil, err
	}

	approved, err := s.countRepo.FindApprovedInRange(ctx, req.BranchID, req.Start, req.End)
	if err != nil {
		return nil, err
	}

	tags, err := s.tagRepo.FindByBranchAndPeriod(ctx, req.BranchID, req.Start, req.End)
	if err != nil {
		return nil, err
	}
	tagByItem := make(map[uuid.UUID]*inventory.VarianceTag, len(tags))
	for i := range tags {
		tagByItem[tags[i].ItemID] = &tags[i]
	}

	report := &VarianceReport{
		BranchID:    req.BranchID,
		PeriodStart: req.Start,
		PeriodEnd:   req.End,
	}
	report.ApprovedCounts = len(approved)

	rowByItem := make(map[uuid.UUID]*VarianceRow)
	order := make([]uuid.UUID, 0)
	rowFor := func(itemID uuid.UUID) *VarianceRow {
		if row, ok := rowByItem[itemID]; ok {
			return row
		}
		row := &VarianceRow{ItemID: itemID}
		rowByItem[itemID] = row
		order = append(order, itemID)
		return row
	}

	for _, agg := range aggregates {
		switch agg.Type {
		case inventory.MovementTypeCountAdjustment:
			row := rowFor(agg.ItemID)
			row.CountAdjustment = row.CountAdjustment.Add(agg.Quantity)
			report.NetCountAdjustment = report.NetCountAdjustment.Add(agg.Quantity)
		case inventory.MovementTypeWaste:
			row := rowFor(agg.ItemID)
			row.Waste = row.Waste.Add(agg.Quantity)
			report.NetWaste = report.NetWaste.Add(agg.Quantity)
		}
	}

	report.Rows = make([]VarianceRow, 0, len(order))
	for _, itemID := range order {
		row := rowByItem[itemID]
		if tag, ok := tagByItem[itemID]; ok {
			tr := ToVarianceTagResponse(tag)
			row.Tag = &tr
		}
		report.Rows = append(report.Rows, *row)
	}

	return report, nil
}

// UpsertTag creates the root-cause tag for an observation, or replaces the
// cause and note if one already exists for the same (item, branch, period).
func (s *VarianceService) UpsertTag(ctx context.Context, req UpsertVarianceTagRequest) (*VarianceTagResponse, error) {
	existing, err := s.tagRepo.FindByObservation(ctx, req.ItemID, req.BranchID, req.PeriodStart, req.PeriodEnd)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	var tag *inventory.VarianceTag
	if existing != nil {
		if err := existing.Retag(req.Cause, req.Note, req.TaggedBy); err != nil {
			return nil, err
		}
		tag = existing
	} else {
		tag, err = inventory.NewVarianceTag(req.ItemID, req.BranchID, req.PeriodStart, req.PeriodEnd, req.Cause, req.Note, req.TaggedBy)
		if err != nil {
			return nil, err
		}
	}

	if err := s.tagRepo.Save(ctx, tag); err != nil {
		return nil, err
	}

	resp := ToVarianceTagResponse(tag)
	return &resp, nil
}

// DeleteTag removes a root-cause tag. The underlying variance stays visible
// in reports, untagged.
func (s *VarianceService) DeleteTag(ctx context.Context, id uuid.UUID) error {
	if _, err := s.tagRepo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.tagRepo.Delete(ctx, id)
}
