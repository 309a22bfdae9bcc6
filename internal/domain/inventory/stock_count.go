package inventory

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/restoops/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// CountStatus represents the status of a stock count session
type CountStatus string

const (
	CountStatusDraft     CountStatus = "DRAFT"
	CountStatusSubmitted CountStatus = "SUBMITTED"
	CountStatusApproved  CountStatus = "APPROVED"
	CountStatusCancelled CountStatus = "CANCELLED"
)

// IsValid checks if the status is a valid CountStatus
func (s CountStatus) IsValid() bool {
	switch s {
	case CountStatusDraft, CountStatusSubmitted, CountStatusApproved, CountStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of CountStatus
func (s CountStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status.
// Transitions are one-way: APPROVED and CANCELLED are terminal.
func (s CountStatus) CanTransitionTo(target CountStatus) bool {
	switch s {
	case CountStatusDraft:
		return target == CountStatusSubmitted || target == CountStatusCancelled
	case CountStatusSubmitted:
		return target == CountStatusApproved || target == CountStatusCancelled
	case CountStatusApproved, CountStatusCancelled:
		return false
	}
	return false
}

// IsTerminal returns true for statuses with no outgoing transitions
func (s CountStatus) IsTerminal() bool {
	return s == CountStatusApproved || s == CountStatusCancelled
}

// VarianceEpsilon is the threshold below which a count line variance is
// treated as floating-point noise and produces no ledger adjustment.
var VarianceEpsilon = decimal.RequireFromString("0.01")

// StockCountLine is one item's row in a stock count. Expected is a snapshot
// of on-hand quantity taken when the count was created and frozen thereafter;
// Actual is entered by the counter and mutable only while the parent count is
// in draft.
type StockCountLine struct {
	ID           uuid.UUID
	StockCountID uuid.UUID
	ItemID       uuid.UUID
	ItemName     string
	BaseUnit     string
	Expected     decimal.Decimal
	Actual       decimal.Decimal
	Counted      bool
	Note         string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Variance returns actual minus expected: positive = overage, negative = shortage
func (l *StockCountLine) Variance() decimal.Decimal {
	return l.Actual.Sub(l.Expected)
}

// NeedsAdjustment returns true if the line's variance exceeds the epsilon
// threshold and therefore requires a ledger adjustment on approval
func (l *StockCountLine) NeedsAdjustment() bool {
	return l.Variance().Abs().GreaterThan(VarianceEpsilon)
}

// StockCount represents a physical count session for one branch. It is the
// aggregate root for the count workflow: DRAFT -> SUBMITTED -> APPROVED or
// CANCELLED, with no path back to an earlier status.
type StockCount struct {
	shared.BaseAggregateRoot
	BranchID     uuid.UUID
	Status       CountStatus
	Notes        string
	CancelReason string
	CreatedBy    uuid.UUID
	SubmittedAt  *time.Time
	ApprovedBy   *uuid.UUID
	ApprovedAt   *time.Time
	Lines        []StockCountLine
}

// CountLineSnapshot carries the per-item on-hand snapshot used to seed lines
type CountLineSnapshot struct {
	ItemID   uuid.UUID
	ItemName string
	BaseUnit string
	OnHand   decimal.Decimal
}

// NewStockCount creates a draft count with one line per snapshot entry.
// A count always covers every active item in the branch at creation time so
// that approving it reconciles the whole branch; partial counts are not
// allowed, which is why an empty snapshot is rejected.
func NewStockCount(branchID, createdBy uuid.UUID, notes string, snapshot []CountLineSnapshot) (*StockCount, error) {
	if branchID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_BRANCH", "Branch ID cannot be empty")
	}
	if createdBy == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CREATOR", "Creator ID cannot be empty")
	}
	if len(snapshot) == 0 {
		return nil, shared.ErrNoActiveItems
	}

	sc := &StockCount{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		BranchID:          branchID,
		Status:            CountStatusDraft,
		Notes:             notes,
		CreatedBy:         createdBy,
		Lines:             make([]StockCountLine, 0, len(snapshot)),
	}

	now := time.Now()
	for _, s := range snapshot {
		sc.Lines = append(sc.Lines, StockCountLine{
			ID:           uuid.New(),
			StockCountID: sc.ID,
			ItemID:       s.ItemID,
			ItemName:     s.ItemName,
			BaseUnit:     s.BaseUnit,
			Expected:     s.OnHand,
			Actual:       decimal.Zero,
			CreatedAt:    now,
			UpdatedAt:    now,
		})
	}

	sc.AddDomainEvent(NewStockCountCreatedEvent(sc))

	return sc, nil
}

// RecordActual sets the counted quantity for a line. Lines are editable only
// while the count is in draft.
func (sc *StockCount) RecordActual(lineID uuid.UUID, actual decimal.Decimal, note string) error {
	if sc.Status != CountStatusDraft {
		return shared.ErrCountNotEditable
	}
	if actual.IsNegative() {
		return shared.NewDomainError("INVALID_QUANTITY", "Counted quantity cannot be negative")
	}

	for i := range sc.Lines {
		if sc.Lines[i].ID == lineID {
			sc.Lines[i].Actual = actual
			sc.Lines[i].Counted = true
			sc.Lines[i].Note = note
			sc.Lines[i].UpdatedAt = time.Now()
			sc.UpdatedAt = time.Now()
			sc.IncrementVersion()
			return nil
		}
	}

	return shared.ErrNotFound
}

// Submit freezes line edits and moves the count to SUBMITTED, pending approval.
// No ledger effect.
func (sc *StockCount) Submit() error {
	if !sc.Status.CanTransitionTo(CountStatusSubmitted) {
		return sc.transitionError(CountStatusSubmitted)
	}

	now := time.Now()
	sc.Status = CountStatusSubmitted
	sc.SubmittedAt = &now
	sc.UpdatedAt = now
	sc.IncrementVersion()

	sc.AddDomainEvent(NewStockCountSubmittedEvent(sc))

	return nil
}

// Approve moves the count to APPROVED and stamps the approver. The caller
// (reconciliation) is responsible for writing the adjustment movements in the
// same transaction as the status flip.
func (sc *StockCount) Approve(approverID uuid.UUID) error {
	if !sc.Status.CanTransitionTo(CountStatusApproved) {
		return sc.transitionError(CountStatusApproved)
	}
	if approverID == uuid.Nil {
		return shared.NewDomainError("INVALID_APPROVER", "Approver ID cannot be empty")
	}

	now := time.Now()
	sc.Status = CountStatusApproved
	sc.ApprovedBy = &approverID
	sc.ApprovedAt = &now
	sc.UpdatedAt = now
	sc.IncrementVersion()

	sc.AddDomainEvent(NewStockCountApprovedEvent(sc))

	return nil
}

// Cancel moves the count to CANCELLED with an optional reason. No ledger effect.
func (sc *StockCount) Cancel(reason string) error {
	if !sc.Status.CanTransitionTo(CountStatusCancelled) {
		return sc.transitionError(CountStatusCancelled)
	}

	sc.Status = CountStatusCancelled
	sc.CancelReason = reason
	sc.UpdatedAt = time.Now()
	sc.IncrementVersion()

	sc.AddDomainEvent(NewStockCountCancelledEvent(sc))

	return nil
}

// LinesNeedingAdjustment returns the lines whose variance exceeds epsilon
func (sc *StockCount) LinesNeedingAdjustment() []StockCountLine {
	result := make([]StockCountLine, 0)
	for _, line := range sc.Lines {
		if line.NeedsAdjustment() {
			result = append(result, line)
		}
	}
	return result
}

// NetVariance returns the signed sum of all line variances
func (sc *StockCount) NetVariance() decimal.Decimal {
	net := decimal.Zero
	for _, line := range sc.Lines {
		net = net.Add(line.Variance())
	}
	return net
}

// FindLine returns the line with the given ID, or nil
func (sc *StockCount) FindLine(lineID uuid.UUID) *StockCountLine {
	for i := range sc.Lines {
		if sc.Lines[i].ID == lineID {
			return &sc.Lines[i]
		}
	}
	return nil
}

func (sc *StockCount) transitionError(target CountStatus) error {
	return shared.NewDomainError("INVALID_TRANSITION",
		fmt.Sprintf("Cannot transition stock count from %s to %s", sc.Status, target))
}
