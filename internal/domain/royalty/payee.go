package royalty

import (
	"github.com/google/uuid"

	"github.com/royaltyops/backend/internal/domain/shared"
)

// Payee is a payable party. The ownership hierarchy runs
// Payee -> Writer -> Original Publisher -> Agreement; commission rate and
// advance balance are inherited from the resolved agreement, if any.
type Payee struct {
	shared.TenantAggregateRoot
	ContactName         string     `gorm:"type:varchar(200);not null;index" json:"contact_name"`
	WriterID            uuid.UUID  `gorm:"type:uuid;not null;index" json:"writer_id"`
	OriginalPublisherID *uuid.UUID `gorm:"type:uuid;index" json:"original_publisher_id,omitempty"`
	AgreementID         *uuid.UUID `gorm:"type:uuid;index" json:"agreement_id,omitempty"`
}

// TableName returns the table name for GORM
func (Payee) TableName() string {
	return "payees"
}

// NewPayee creates a new payee linked to a writer
func NewPayee(tenantID uuid.UUID, contactName string, writerID uuid.UUID) (*Payee, error) {
	if contactName == "" {
		return nil, shared.NewFieldError(shared.CodeInvalidInput, "contact_name", "Contact name cannot be empty")
	}
	if writerID == uuid.Nil {
		return nil, shared.NewFieldError(shared.CodeInvalidInput, "writer_id", "Writer ID cannot be empty")
	}
	return &Payee{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		ContactName:         contactName,
		WriterID:            writerID,
	}, nil
}

// LinkPublisher records the payee's original publisher
func (p *Payee) LinkPublisher(publisherID uuid.UUID) error {
	if publisherID == uuid.Nil {
		return shared.NewFieldError(shared.CodeInvalidInput, "publisher_id", "Publisher ID cannot be empty")
	}
	p.OriginalPublisherID = &publisherID
	p.IncrementVersion()
	return nil
}

// LinkAgreement records the payee's governing agreement
func (p *Payee) LinkAgreement(agreementID uuid.UUID) error {
	if agreementID == uuid.Nil {
		return shared.NewFieldError(shared.CodeInvalidInput, "agreement_id", "Agreement ID cannot be empty")
	}
	p.AgreementID = &agreementID
	p.IncrementVersion()
	return nil
}

// HasAgreement returns true when an agreement is linked
func (p *Payee) HasAgreement() bool {
	return p.AgreementID != nil && *p.AgreementID != uuid.Nil
}
