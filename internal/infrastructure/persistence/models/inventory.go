package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/restoops/backend/internal/domain/inventory"
	"github.com/shopspring/decimal"
)

// InventoryItemModel is the persistence model for the InventoryItem aggregate root.
type InventoryItemModel struct {
	AggregateModel
	BranchID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	Name         string          `gorm:"type:varchar(200);not null"`
	SKU          string          `gorm:"type:varchar(50);index"`
	BaseUnit     string          `gorm:"type:varchar(20);not null"`
	MinLevel     decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	ReorderPoint decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Active       bool            `gorm:"not null;default:true;index"`
}

// TableName returns the table name for GORM
func (InventoryItemModel) TableName() string {
	return "inventory_items"
}

// ToDomain converts the persistence model to a domain InventoryItem entity.
func (m *InventoryItemModel) ToDomain() *inventory.InventoryItem {
	return &inventory.InventoryItem{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		BranchID:          m.BranchID,
		Name:              m.Name,
		SKU:               m.SKU,
		BaseUnit:          m.BaseUnit,
		MinLevel:          m.MinLevel,
		ReorderPoint:      m.ReorderPoint,
		Active:            m.Active,
	}
}

// FromDomain populates the persistence model from a domain InventoryItem entity.
func (m *InventoryItemModel) FromDomain(i *inventory.InventoryItem) {
	m.FromDomainAggregateRoot(i.BaseAggregateRoot)
	m.BranchID = i.BranchID
	m.Name = i.Name
	m.SKU = i.SKU
	m.BaseUnit = i.BaseUnit
	m.MinLevel = i.MinLevel
	m.ReorderPoint = i.ReorderPoint
	m.Active = i.Active
}

// InventoryItemModelFromDomain creates a new persistence model from a domain InventoryItem entity.
func InventoryItemModelFromDomain(i *inventory.InventoryItem) *InventoryItemModel {
	m := &InventoryItemModel{}
	m.FromDomain(i)
	return m
}

// StockMovementModel is the persistence model for the StockMovement ledger
// entry. The ledger table is append-only: rows are inserted and read, never
// updated or deleted.
type StockMovementModel struct {
	BaseModel
	ItemID     uuid.UUID               `gorm:"type:uuid;not null;index:idx_movements_item_branch,priority:1"`
	BranchID   uuid.UUID               `gorm:"type:uuid;not null;index:idx_movements_item_branch,priority:2"`
	Type       inventory.MovementType  `gorm:"type:varchar(30);not null;index"`
	Quantity   decimal.Decimal         `gorm:"type:decimal(18,4);not null"`
	UnitCost   *decimal.Decimal        `gorm:"type:decimal(18,4)"`
	Note       string                  `gorm:"type:varchar(500)"`
	RecordedBy uuid.UUID               `gorm:"type:uuid;not null"`
	RefType    inventory.ReferenceType `gorm:"type:varchar(20)"`
	RefID      *uuid.UUID              `gorm:"type:uuid;index"`
	RefLineID  *uuid.UUID              `gorm:"type:uuid"`
	OccurredAt time.Time               `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (StockMovementModel) TableName() string {
	return "stock_movements"
}

// ToDomain converts the persistence model to a domain StockMovement entity.
func (m *StockMovementModel) ToDomain() *inventory.StockMovement {
	return &inventory.StockMovement{
		BaseEntity: m.BaseModel.ToDomain(),
		ItemID:     m.ItemID,
		BranchID:   m.BranchID,
		Type:       m.Type,
		Quantity:   m.Quantity,
		UnitCost:   m.UnitCost,
		Note:       m.Note,
		RecordedBy: m.RecordedBy,
		RefType:    m.RefType,
		RefID:      m.RefID,
		RefLineID:  m.RefLineID,
		OccurredAt: m.OccurredAt,
	}
}

// FromDomain populates the persistence model from a domain StockMovement entity.
func (m *StockMovementModel) FromDomain(sm *inventory.StockMovement) {
	m.FromDomainBaseEntity(sm.BaseEntity)
	m.ItemID = sm.ItemID
	m.BranchID = sm.BranchID
	m.Type = sm.Type
	m.Quantity = sm.Quantity
	m.UnitCost = sm.UnitCost
	m.Note = sm.Note
	m.RecordedBy = sm.RecordedBy
	m.RefType = sm.RefType
	m.RefID = sm.RefID
	m.RefLineID = sm.RefLineID
	m.OccurredAt = sm.OccurredAt
}

// StockMovementModelFromDomain creates a new persistence model from a domain StockMovement entity.
func StockMovementModelFromDomain(sm *inventory.StockMovement) *StockMovementModel {
	m := &StockMovementModel{}
	m.FromDomain(sm)
	return m
}

// StockCountModel is the persistence model for the StockCount aggregate root.
type StockCountModel struct {
	AggregateModel
	BranchID     uuid.UUID             `gorm:"type:uuid;not null;index"`
	Status       inventory.CountStatus `gorm:"type:varchar(20);not null;default:'DRAFT';index"`
	Notes        string                `gorm:"type:varchar(500)"`
	CancelReason string                `gorm:"type:varchar(500)"`
	CreatedBy    uuid.UUID             `gorm:"type:uuid;not null"`
	SubmittedAt  *time.Time            `gorm:""`
	ApprovedBy   *uuid.UUID            `gorm:"type:uuid"`
	ApprovedAt   *time.Time            `gorm:""`
	Lines        []StockCountLineModel `gorm:"foreignKey:StockCountID;references:ID"`
}

// TableName returns the table name for GORM
func (StockCountModel) TableName() string {
	return "stock_counts"
}

// ToDomain converts the persistence model to a domain StockCount entity.
func (m *StockCountModel) ToDomain() *inventory.StockCount {
	sc := &inventory.StockCount{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		BranchID:          m.BranchID,
		Status:            m.Status,
		Notes:             m.Notes,
		CancelReason:      m.CancelReason,
		CreatedBy:         m.CreatedBy,
		SubmittedAt:       m.SubmittedAt,
		ApprovedBy:        m.ApprovedBy,
		ApprovedAt:        m.ApprovedAt,
		Lines:             make([]inventory.StockCountLine, len(m.Lines)),
	}
	for i, line := range m.Lines {
		sc.Lines[i] = *line.ToDomain()
	}
	return sc
}

// FromDomain populates the persistence model from a domain StockCount entity.
func (m *StockCountModel) FromDomain(sc *inventory.StockCount) {
	m.FromDomainAggregateRoot(sc.BaseAggregateRoot)
	m.BranchID = sc.BranchID
	m.Status = sc.Status
	m.Notes = sc.Notes
	m.CancelReason = sc.CancelReason
	m.CreatedBy = sc.CreatedBy
	m.SubmittedAt = sc.SubmittedAt
	m.ApprovedBy = sc.ApprovedBy
	m.ApprovedAt = sc.ApprovedAt
	m.Lines = make([]StockCountLineModel, len(sc.Lines))
	for i, line := range sc.Lines {
		m.Lines[i] = *StockCountLineModelFromDomain(&line)
	}
}

// StockCountModelFromDomain creates a new persistence model from a domain StockCount entity.
func StockCountModelFromDomain(sc *inventory.StockCount) *StockCountModel {
	m := &StockCountModel{}
	m.FromDomain(sc)
	return m
}

// StockCountLineModel is the persistence model for the StockCountLine entity.
type StockCountLineModel struct {
	ID           uuid.UUID       `gorm:"type:uuid;primary_key"`
	StockCountID uuid.UUID       `gorm:"type:uuid;not null;index"`
	ItemID       uuid.UUID       `gorm:"type:uuid;not null"`
	ItemName     string          `gorm:"type:varchar(200);not null"`
	BaseUnit     string          `gorm:"type:varchar(20);not null"`
	Expected     decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Actual       decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Counted      bool            `gorm:"not null;default:false"`
	Note         string          `gorm:"type:varchar(500)"`
	CreatedAt    time.Time       `gorm:"not null"`
	UpdatedAt    time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (StockCountLineModel) TableName() string {
	return "stock_count_lines"
}

// ToDomain converts the persistence model to a domain StockCountLine entity.
func (m *StockCountLineModel) ToDomain() *inventory.StockCountLine {
	return &inventory.StockCountLine{
		ID:           m.ID,
		StockCountID: m.StockCountID,
		ItemID:       m.ItemID,
		ItemName:     m.ItemName,
		BaseUnit:     m.BaseUnit,
		Expected:     m.Expected,
		Actual:       m.Actual,
		Counted:      m.Counted,
		Note:         m.Note,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

// FromDomain populates the persistence model from a domain StockCountLine entity.
func (m *StockCountLineModel) FromDomain(l *inventory.StockCountLine) {
	m.ID = l.ID
	m.StockCountID = l.StockCountID
	m.ItemID = l.ItemID
	m.ItemName = l.ItemName
	m.BaseUnit = l.BaseUnit
	m.Expected = l.Expected
	m.Actual = l.Actual
	m.Counted = l.Counted
	m.Note = l.Note
	m.CreatedAt = l.CreatedAt
	m.UpdatedAt = l.UpdatedAt
}

// StockCountLineModelFromDomain creates a new persistence model from a domain StockCountLine entity.
func StockCountLineModelFromDomain(l *inventory.StockCountLine) *StockCountLineModel {
	m := &StockCountLineModel{}
	m.FromDomain(l)
	return m
}

// VarianceTagModel is the persistence model for the VarianceTag entity.
type VarianceTagModel struct {
	BaseModel
	ItemID      uuid.UUID           `gorm:"type:uuid;not null;uniqueIndex:idx_variance_tag_observation,priority:1"`
	BranchID    uuid.UUID           `gorm:"type:uuid;not null;uniqueIndex:idx_variance_tag_observation,priority:2"`
	PeriodStart time.Time           `gorm:"not null;uniqueIndex:idx_variance_tag_observation,priority:3"`
	PeriodEnd   time.Time           `gorm:"not null;uniqueIndex:idx_variance_tag_observation,priority:4"`
	Cause       inventory.RootCause `gorm:"type:varchar(30);not null"`
	Note        string              `gorm:"type:varchar(500)"`
	TaggedBy    uuid.UUID           `gorm:"type:uuid;not null"`
}

// TableName returns the table name for GORM
func (VarianceTagModel) TableName() string {
	return "variance_tags"
}

// ToDomain converts the persistence model to a domain VarianceTag entity.
func (m *VarianceTagModel) ToDomain() *inventory.VarianceTag {
	return &inventory.VarianceTag{
		BaseEntity:  m.BaseModel.ToDomain(),
		ItemID:      m.ItemID,
		BranchID:    m.BranchID,
		PeriodStart: m.PeriodStart,
		PeriodEnd:   m.PeriodEnd,
		Cause:       m.Cause,
		Note:        m.Note,
		TaggedBy:    m.TaggedBy,
	}
}

// FromDomain populates the persistence model from a domain VarianceTag entity.
func (m *VarianceTagModel) FromDomain(t *inventory.VarianceTag) {
	m.FromDomainBaseEntity(t.BaseEntity)
	m.ItemID = t.ItemID
	m.BranchID = t.BranchID
	m.PeriodStart = t.PeriodStart
	m.PeriodEnd = t.PeriodEnd
	m.Cause = t.Cause
	m.Note = t.Note
	m.TaggedBy = t.TaggedBy
}

// VarianceTagModelFromDomain creates a new persistence model from a domain VarianceTag entity.
func VarianceTagModelFromDomain(t *inventory.VarianceTag) *VarianceTagModel {
	m := &VarianceTagModel{}
	m.FromDomain(t)
	return m
}
