package persistence

import (
	"errors"

	"gorm.io/gorm"

	"github.com/royaltyops/backend/internal/domain/shared"
)

// wrapDBError translates driver and connection failures into domain errors at
// the repository boundary. Not-found and duplicate-key keep their specific
// codes; anything else the database throws is an external-service failure,
// which the retry predicate treats as transient.
func wrapDBError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return shared.ErrNotFound
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return shared.ErrAlreadyExists
	}
	if _, ok := err.(*shared.DomainError); ok {
		return err
	}
	return shared.NewDomainError(shared.CodeExternalService, "Database error: "+err.Error())
}
