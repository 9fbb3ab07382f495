package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/royaltyops/backend/internal/domain/shared"
	"github.com/royaltyops/backend/internal/interfaces/http/dto"
)

// TenantHeaderKey is the header carrying the tenant scope. The engine never
// derives tenancy itself; the host application supplies the id and it passes
// through unmodified.
const TenantHeaderKey = "X-Tenant-ID"

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// getTenantID extracts the tenant ID from the request header
func getTenantID(c *gin.Context) (uuid.UUID, error) {
	raw := c.GetHeader(TenantHeaderKey)
	if raw == "" {
		return uuid.Nil, errors.New("missing " + TenantHeaderKey + " header")
	}
	return uuid.Parse(raw)
}

// Success sends a success response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// SuccessWithMeta sends a success response with pagination meta
func (h *BaseHandler) SuccessWithMeta(c *gin.Context, data any, total int64, limit, offset int) {
	c.JSON(http.StatusOK, dto.NewSuccessResponseWithMeta(data, total, limit, offset))
}

// Created sends a 201 created response
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// BadRequest sends a 400 bad request response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, dto.NewErrorResponse(shared.CodeInvalidInput, "", message))
}

// DomainError maps a domain error to its HTTP status. Non-domain errors are
// reported as an opaque 500 without leaking internals.
func (h *BaseHandler) DomainError(c *gin.Context, err error) {
	var de *shared.DomainError
	if errors.As(err, &de) {
		c.JSON(dto.GetHTTPStatus(de.Code), dto.NewErrorResponse(de.Code, de.Field, de.Message))
		return
	}
	c.JSON(http.StatusInternalServerError, dto.NewErrorResponse("INTERNAL", "", "Internal server error"))
}
