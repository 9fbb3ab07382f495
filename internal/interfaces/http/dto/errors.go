package dto

import (
	"net/http"

	"github.com/royaltyops/backend/internal/domain/shared"
)

// domainCodeHTTPStatus maps domain error codes to HTTP status codes
var domainCodeHTTPStatus = map[string]int{
	shared.CodeNotFound:             http.StatusNotFound,
	shared.CodeAlreadyExists:        http.StatusConflict,
	shared.CodeInvalidInput:         http.StatusBadRequest,
	shared.CodeInvalidTransition:    http.StatusUnprocessableEntity,
	shared.CodeConflictingOperation: http.StatusConflict,
	shared.CodeResolutionFailure:    http.StatusUnprocessableEntity,
	shared.CodeExternalService:      http.StatusBadGateway,
	shared.CodeTimeout:              http.StatusGatewayTimeout,
}

// GetHTTPStatus returns the HTTP status for a domain error code.
// Unknown codes map to 500.
func GetHTTPStatus(code string) int {
	if status, ok := domainCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
