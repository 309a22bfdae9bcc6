package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/restoops/backend/internal/domain/shared"
)

// RootCause is a fixed category explaining a variance observation
type RootCause string

const (
	RootCauseSpoilage         RootCause = "SPOILAGE"
	RootCauseTheft            RootCause = "THEFT"
	RootCauseMiscount         RootCause = "MISCOUNT"
	RootCauseBreakage         RootCause = "BREAKAGE"
	RootCauseDeliveryShortage RootCause = "DELIVERY_SHORTAGE"
	RootCausePrepWaste        RootCause = "PREP_WASTE"
	RootCauseUnknown          RootCause = "UNKNOWN"
)

// IsValid returns true if the root cause is a known category
func (c RootCause) IsValid() bool {
	switch c {
	case RootCauseSpoilage, RootCauseTheft, RootCauseMiscount,
		RootCauseBreakage, RootCauseDeliveryShortage, RootCausePrepWaste, RootCauseUnknown:
		return true
	}
	return false
}

// String returns the string representation of RootCause
func (c RootCause) String() string {
	return string(c)
}

// VarianceTag attaches a root-cause category and note to the variance of one
// (item, branch, period) observation. Tags live beside the ledger for
// analytics only: creating, changing, or deleting a tag never affects on-hand
// math.
type VarianceTag struct {
	shared.BaseEntity
	ItemID      uuid.UUID
	BranchID    uuid.UUID
	PeriodStart time.Time
	PeriodEnd   time.Time
	Cause       RootCause
	Note        string
	TaggedBy    uuid.UUID
}

// NewVarianceTag creates a variance tag for an item/branch/period observation
func NewVarianceTag(itemID, branchID uuid.UUID, periodStart, periodEnd time.Time, cause RootCause, note string, taggedBy uuid.UUID) (*VarianceTag, error) {
	if itemID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ITEM", "Item ID cannot be empty")
	}
	if branchID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_BRANCH", "Branch ID cannot be empty")
	}
	if !cause.IsValid() {
		return nil, shared.NewDomainError("INVALID_ROOT_CAUSE", "Unknown root cause category")
	}
	if !periodEnd.After(periodStart) {
		return nil, shared.NewDomainError("INVALID_PERIOD", "Period end must be after period start")
	}
	if taggedBy == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_RECORDER", "Tagger ID cannot be empty")
	}

	return &VarianceTag{
		BaseEntity:  shared.NewBaseEntity(),
		ItemID:      itemID,
		BranchID:    branchID,
		PeriodStart: periodStart,
		PeriodEnd:   periodEnd,
		Cause:       cause,
		Note:        note,
		TaggedBy:    taggedBy,
	}, nil
}

// Retag replaces the cause and note on an existing tag
func (t *VarianceTag) Retag(cause RootCause, note string, taggedBy uuid.UUID) error {
	if !cause.IsValid() {
		return shared.NewDomainError("INVALID_ROOT_CAUSE", "Unknown root cause category")
	}
	t.Cause = cause
	t.Note = note
	t.TaggedBy = taggedBy
	t.UpdatedAt = time.Now()
	return nil
}
