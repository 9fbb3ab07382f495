package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	payoutapp "github.com/royaltyops/backend/internal/application/payout"
	"github.com/royaltyops/backend/internal/domain/payout"
)

// PayoutHandler handles payout workflow endpoints
type PayoutHandler struct {
	BaseHandler
	payoutService *payoutapp.PayoutService
	reportService *payoutapp.ReportService
}

// NewPayoutHandler creates a new PayoutHandler
func NewPayoutHandler(payoutService *payoutapp.PayoutService, reportService *payoutapp.ReportService) *PayoutHandler {
	return &PayoutHandler{
		payoutService: payoutService,
		reportService: reportService,
	}
}

// RegisterRoutes registers payout routes
func (h *PayoutHandler) RegisterRoutes(rg *gin.RouterGroup) {
	payouts := rg.Group("/payouts")
	{
		payouts.POST("", h.Create)
		payouts.GET("", h.List)
		payouts.GET("/:id", h.Get)
		payouts.POST("/:id/recalculate", h.Recalculate)
		payouts.POST("/:id/transition", h.Transition)
	}
	rg.POST("/batch-operations", h.BatchTransition)

	payees := rg.Group("/payees")
	{
		payees.GET("/:id/reports", h.GetReport)
		payees.GET("/:id/reports/latest", h.GetLatestReport)
	}
}

// Create calculates a payee's statement for the period and stores a draft payout
func (h *PayoutHandler) Create(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	var req payoutapp.CreatePayoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	p, err := h.payoutService.CreatePayout(c.Request.Context(), tenantID, req)
	if err != nil {
		h.DomainError(c, err)
		return
	}
	h.Created(c, toPayoutResponse(p))
}

// List lists payouts with optional filtering
func (h *PayoutHandler) List(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	filter, err := parsePayoutFilter(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	payouts, err := h.payoutService.ListPayouts(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.DomainError(c, err)
		return
	}
	total, err := h.payoutService.CountPayouts(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.DomainError(c, err)
		return
	}
	h.SuccessWithMeta(c, toPayoutResponses(payouts), total, filter.Limit, filter.Offset)
}

// Get loads a payout with its audit trail
func (h *PayoutHandler) Get(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	payoutID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "invalid payout id")
		return
	}

	p, err := h.payoutService.GetPayout(c.Request.Context(), tenantID, payoutID)
	if err != nil {
		h.DomainError(c, err)
		return
	}
	h.Success(c, toPayoutResponse(p))
}

// Recalculate reruns the statement for a draft payout
func (h *PayoutHandler) Recalculate(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	payoutID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "invalid payout id")
		return
	}

	p, err := h.payoutService.Recalculate(c.Request.Context(), tenantID, payoutID)
	if err != nil {
		h.DomainError(c, err)
		return
	}
	h.Success(c, toPayoutResponse(p))
}

// Transition moves a payout to a new workflow stage
func (h *PayoutHandler) Transition(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	payoutID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "invalid payout id")
		return
	}

	var req payoutapp.TransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	p, err := h.payoutService.Transition(c.Request.Context(), tenantID, payoutID, req)
	if err != nil {
		h.DomainError(c, err)
		return
	}
	h.Success(c, toPayoutResponse(p))
}

// BatchTransition applies one stage transition to several payouts
func (h *PayoutHandler) BatchTransition(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	var req payoutapp.BatchTransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	batch, err := h.payoutService.BatchTransition(c.Request.Context(), tenantID, req)
	if err != nil {
		h.DomainError(c, err)
		return
	}
	h.Success(c, toBatchResponse(batch))
}

// GetReport loads the payee's quarterly balance report for ?period=Q1+2025
func (h *PayoutHandler) GetReport(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	payeeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "invalid payee id")
		return
	}
	period := c.Query("period")
	if period == "" {
		h.BadRequest(c, "period query parameter is required")
		return
	}

	report, err := h.reportService.GetForPeriod(c.Request.Context(), tenantID, payeeID, period)
	if err != nil {
		h.DomainError(c, err)
		return
	}
	h.Success(c, toReportResponse(report))
}

// GetLatestReport loads the payee's most recent quarterly balance report
func (h *PayoutHandler) GetLatestReport(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	payeeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "invalid payee id")
		return
	}

	report, err := h.reportService.GetLatest(c.Request.Context(), tenantID, payeeID)
	if err != nil {
		h.DomainError(c, err)
		return
	}
	h.Success(c, toReportResponse(report))
}

func parsePayoutFilter(c *gin.Context) (payout.PayoutFilter, error) {
	filter := payout.PayoutFilter{Limit: 50}

	if raw := c.Query("payee_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return filter, err
		}
		filter.PayeeID = &id
	}
	if period := c.Query("period"); period != "" {
		filter.Period = &period
	}
	if raw := c.Query("stage"); raw != "" {
		stage := payout.WorkflowStage(raw)
		filter.Stage = &stage
	}
	if raw := c.Query("status"); raw != "" {
		status := payout.Status(raw)
		filter.Status = &status
	}
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			return filter, err
		}
		filter.Limit = limit
	}
	if raw := c.Query("offset"); raw != "" {
		offset, err := strconv.Atoi(raw)
		if err != nil {
			return filter, err
		}
		filter.Offset = offset
	}
	return filter, nil
}
