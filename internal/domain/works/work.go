package works

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/royaltyops/backend/internal/domain/shared"
)

// ControlledStatus marks whether a writer's share is administered by the
// publisher issuing payouts, or administered elsewhere.
type ControlledStatus string

const (
	StatusControlled    ControlledStatus = "CONTROLLED"
	StatusNonControlled ControlledStatus = "NON_CONTROLLED"
)

// IsValid returns true for known controlled statuses
func (s ControlledStatus) IsValid() bool {
	return s == StatusControlled || s == StatusNonControlled
}

// WriterShare is one writer's stake in a work
type WriterShare struct {
	ID                  uuid.UUID        `gorm:"type:uuid;primary_key" json:"id"`
	WorkID              uuid.UUID        `gorm:"type:uuid;not null;index" json:"work_id"`
	WriterID            uuid.UUID        `gorm:"type:uuid;not null;index" json:"writer_id"`
	WriterName          string           `gorm:"type:varchar(200);not null" json:"writer_name"`
	OwnershipPercentage decimal.Decimal  `gorm:"type:decimal(7,2);not null" json:"ownership_percentage"`
	ControlledStatus    ControlledStatus `gorm:"type:varchar(20);not null" json:"controlled_status"`
	Position            int              `gorm:"not null" json:"position"` // preserves registration order
}

// TableName returns the table name for GORM
func (WriterShare) TableName() string {
	return "writer_shares"
}

// IsControlled returns true if the share is administered here
func (ws WriterShare) IsControlled() bool {
	return ws.ControlledStatus == StatusControlled
}

// PublisherShare is one publisher's stake in a work
type PublisherShare struct {
	ID                  uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	WorkID              uuid.UUID       `gorm:"type:uuid;not null;index" json:"work_id"`
	PublisherID         uuid.UUID       `gorm:"type:uuid;not null;index" json:"publisher_id"`
	PublisherName       string          `gorm:"type:varchar(200);not null" json:"publisher_name"`
	OwnershipPercentage decimal.Decimal `gorm:"type:decimal(7,2);not null" json:"ownership_percentage"`
	Position            int             `gorm:"not null" json:"position"`
}

// TableName returns the table name for GORM
func (PublisherShare) TableName() string {
	return "publisher_shares"
}

// Work represents a registered copyright with its ownership splits.
// Writer and publisher share sums are tracked independently; each must stay
// at or below 100.
type Work struct {
	shared.TenantAggregateRoot
	Title           string           `gorm:"type:varchar(300);not null;index" json:"title"`
	Iswc            string           `gorm:"type:varchar(20)" json:"iswc,omitempty"` // international work code, optional
	WriterShares    []WriterShare    `gorm:"foreignKey:WorkID;references:ID" json:"writer_shares"`
	PublisherShares []PublisherShare `gorm:"foreignKey:WorkID;references:ID" json:"publisher_shares"`
	DeletedAt       *int64           `gorm:"index" json:"-"` // soft delete, audit trail keeps allocations resolvable
}

// TableName returns the table name for GORM
func (Work) TableName() string {
	return "works"
}

// NewWork registers a new work
func NewWork(tenantID uuid.UUID, title string) (*Work, error) {
	if title == "" {
		return nil, shared.NewFieldError(shared.CodeInvalidInput, "title", "Work title cannot be empty")
	}
	if len(title) > 300 {
		return nil, shared.NewFieldError(shared.CodeInvalidInput, "title", "Work title cannot exceed 300 characters")
	}

	w := &Work{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Title:               title,
		WriterShares:        make([]WriterShare, 0),
		PublisherShares:     make([]PublisherShare, 0),
	}

	w.AddDomainEvent(NewWorkRegisteredEvent(w))

	return w, nil
}

// AddWriterShare appends a writer share, enforcing the 100% ceiling
func (w *Work) AddWriterShare(writerID uuid.UUID, writerName string, percentage decimal.Decimal, status ControlledStatus) error {
	if writerID == uuid.Nil {
		return shared.NewFieldError(shared.CodeInvalidInput, "writer_id", "Writer ID cannot be empty")
	}
	if writerName == "" {
		return shared.NewFieldError(shared.CodeInvalidInput, "writer_name", "Writer name cannot be empty")
	}
	if percentage.IsNegative() || percentage.GreaterThan(decimal.NewFromInt(100)) {
		return shared.NewFieldError(shared.CodeInvalidInput, "ownership_percentage", "Ownership percentage must be between 0 and 100")
	}
	if !status.IsValid() {
		return shared.NewFieldError(shared.CodeInvalidInput, "controlled_status", "Controlled status is not valid")
	}
	if w.WriterShareTotal().Add(percentage).GreaterThan(decimal.NewFromInt(100)) {
		return shared.NewFieldError(shared.CodeInvalidInput, "ownership_percentage", "Writer shares cannot exceed 100% in total")
	}

	w.WriterShares = append(w.WriterShares, WriterShare{
		ID:                  uuid.New(),
		WorkID:              w.ID,
		WriterID:            writerID,
		WriterName:          writerName,
		OwnershipPercentage: percentage.Round(2),
		ControlledStatus:    status,
		Position:            len(w.WriterShares),
	})
	w.IncrementVersion()
	w.AddDomainEvent(NewWorkSharesUpdatedEvent(w))

	return nil
}

// AddPublisherShare appends a publisher share, enforcing the 100% ceiling
func (w *Work) AddPublisherShare(publisherID uuid.UUID, publisherName string, percentage decimal.Decimal) error {
	if publisherID == uuid.Nil {
		return shared.NewFieldError(shared.CodeInvalidInput, "publisher_id", "Publisher ID cannot be empty")
	}
	if publisherName == "" {
		return shared.NewFieldError(shared.CodeInvalidInput, "publisher_name", "Publisher name cannot be empty")
	}
	if percentage.IsNegative() || percentage.GreaterThan(decimal.NewFromInt(100)) {
		return shared.NewFieldError(shared.CodeInvalidInput, "ownership_percentage", "Ownership percentage must be between 0 and 100")
	}
	if w.PublisherShareTotal().Add(percentage).GreaterThan(decimal.NewFromInt(100)) {
		return shared.NewFieldError(shared.CodeInvalidInput, "ownership_percentage", "Publisher shares cannot exceed 100% in total")
	}

	w.PublisherShares = append(w.PublisherShares, PublisherShare{
		ID:                  uuid.New(),
		WorkID:              w.ID,
		PublisherID:         publisherID,
		PublisherName:       publisherName,
		OwnershipPercentage: percentage.Round(2),
		Position:            len(w.PublisherShares),
	})
	w.IncrementVersion()
	w.AddDomainEvent(NewWorkSharesUpdatedEvent(w))

	return nil
}

// WriterShareTotal returns the sum of all writer ownership percentages
func (w *Work) WriterShareTotal() decimal.Decimal {
	total := decimal.Zero
	for _, ws := range w.WriterShares {
		total = total.Add(ws.OwnershipPercentage)
	}
	return total
}

// PublisherShareTotal returns the sum of all publisher ownership percentages
func (w *Work) PublisherShareTotal() decimal.Decimal {
	total := decimal.Zero
	for _, ps := range w.PublisherShares {
		total = total.Add(ps.OwnershipPercentage)
	}
	return total
}

// ControlledWriters returns the writer shares administered here, in
// registration order
func (w *Work) ControlledWriters() []WriterShare {
	controlled := make([]WriterShare, 0, len(w.WriterShares))
	for _, ws := range w.WriterShares {
		if ws.IsControlled() {
			controlled = append(controlled, ws)
		}
	}
	return controlled
}

// ControlledPercentageTotal returns the sum of controlled writer percentages
func (w *Work) ControlledPercentageTotal() decimal.Decimal {
	total := decimal.Zero
	for _, ws := range w.ControlledWriters() {
		total = total.Add(ws.OwnershipPercentage)
	}
	return total
}

// ControlledShare returns the controlled fraction of the work (0-1)
func (w *Work) ControlledShare() decimal.Decimal {
	return w.ControlledPercentageTotal().Div(decimal.NewFromInt(100))
}

// IsFullyUncontrolled returns true when no writer share is controlled
func (w *Work) IsFullyUncontrolled() bool {
	return w.ControlledPercentageTotal().IsZero()
}
