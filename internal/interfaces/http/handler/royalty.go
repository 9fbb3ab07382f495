package handler

import (
	"github.com/gin-gonic/gin"

	royaltyapp "github.com/royaltyops/backend/internal/application/royalty"
)

// RoyaltyHandler handles fee proration and statement calculation endpoints.
// Both operations are pure calculations; nothing is persisted.
type RoyaltyHandler struct {
	BaseHandler
	feeService       *royaltyapp.FeeService
	statementService *royaltyapp.StatementService
}

// NewRoyaltyHandler creates a new RoyaltyHandler
func NewRoyaltyHandler(feeService *royaltyapp.FeeService, statementService *royaltyapp.StatementService) *RoyaltyHandler {
	return &RoyaltyHandler{
		feeService:       feeService,
		statementService: statementService,
	}
}

// RegisterRoutes registers royalty routes
func (h *RoyaltyHandler) RegisterRoutes(rg *gin.RouterGroup) {
	royalties := rg.Group("/royalties")
	{
		royalties.POST("/prorate-fee", h.ProrateFee)
		royalties.POST("/statements/calculate", h.CalculateStatement)
	}
}

// ProrateFee previews a fee split across the selected works
func (h *RoyaltyHandler) ProrateFee(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	var req royaltyapp.ProrateFeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.feeService.ProrateFee(c.Request.Context(), tenantID, req)
	if err != nil {
		h.DomainError(c, err)
		return
	}
	h.Success(c, result)
}

// CalculateStatement previews a payee's gross-to-net breakdown for a quarter
func (h *RoyaltyHandler) CalculateStatement(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	var req royaltyapp.CalculateStatementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	statement, err := h.statementService.Calculate(c.Request.Context(), tenantID, req)
	if err != nil {
		h.DomainError(c, err)
		return
	}
	h.Success(c, statement)
}
