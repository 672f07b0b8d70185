package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	appshared "github.com/anu-devcode/deploy-test-sub002/internal/application/shared"
	"github.com/anu-devcode/deploy-test-sub002/internal/domain/shared"
	"github.com/anu-devcode/deploy-test-sub002/internal/infrastructure/logger"
	"github.com/anu-devcode/deploy-test-sub002/internal/interfaces/http/dto"
	"github.com/anu-devcode/deploy-test-sub002/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var errNoTenant = errors.New("tenant not resolved")

// BaseHandler provides common handler utilities
type BaseHandler struct{}

func getRequestID(c *gin.Context) string {
	return c.GetString(middleware.RequestIDKey)
}

// getTenantID returns the tenant resolved by the tenant middleware
func getTenantID(c *gin.Context) (uuid.UUID, error) {
	if id, ok := middleware.GetTenantID(c); ok {
		return id, nil
	}
	return uuid.Nil, errNoTenant
}

// getUserID returns the authenticated user from the JWT claims
func getUserID(c *gin.Context) (uuid.UUID, error) {
	raw := middleware.GetJWTUserID(c)
	if raw == "" {
		return uuid.Nil, errors.New("user ID not found in context")
	}
	return uuid.Parse(raw)
}

// currentUser returns the acting user for audit fields, nil on public routes
func currentUser(c *gin.Context) *uuid.UUID {
	id, err := getUserID(c)
	if err != nil {
		return nil
	}
	return &id
}

// Success sends a success response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// SuccessWithMeta sends a list page with pagination meta
func (h *BaseHandler) SuccessWithMeta(c *gin.Context, data any, total int64, query appshared.ListQuery) {
	filter := query.ToFilter()
	c.JSON(http.StatusOK, dto.NewSuccessResponseWithMeta(data, total, filter.Page, filter.PageSize))
}

// Created sends a 201 created response
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// NoContent sends a 204 no content response
func (h *BaseHandler) NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Error sends an error response with the given status
func (h *BaseHandler) Error(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, dto.NewErrorResponseWithRequestID(code, message, getRequestID(c)))
}

func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.Error(c, http.StatusBadRequest, dto.ErrCodeBadRequest, message)
}

func (h *BaseHandler) Unauthorized(c *gin.Context, message string) {
	h.Error(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, message)
}

// ValidationError sends a 400 with per-field details
func (h *BaseHandler) ValidationError(c *gin.Context, details []dto.ValidationDetail) {
	c.JSON(http.StatusBadRequest, dto.NewValidationErrorResponse(
		"Request validation failed",
		getRequestID(c),
		details,
	))
}

// HandleError maps domain errors to their status. Anything else is logged
// and answered with a 500 that hides the cause.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		code := dto.NormalizeErrorCode(domainErr.Code)
		c.JSON(dto.DomainHTTPStatus(code), dto.NewErrorResponseWithRequestID(code, domainErr.Message, getRequestID(c)))
		return
	}

	_ = c.Error(err)
	logger.L(c.Request.Context()).Error("Unhandled error",
		zap.String("route", c.FullPath()),
		zap.Error(err),
	)
	h.Error(c, http.StatusInternalServerError, dto.ErrCodeInternal, "An unexpected error occurred")
}

// tenant resolves the tenant or answers 400. ok is false when a response was written.
func (h *BaseHandler) tenant(c *gin.Context) (uuid.UUID, bool) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return uuid.Nil, false
	}
	return tenantID, true
}

// pathID parses a uuid path parameter or answers 400
func (h *BaseHandler) pathID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidInput, "Invalid "+name+" format")
		return uuid.Nil, false
	}
	return id, true
}

// bindJSON decodes and validates the body. Failures are answered here.
func (h *BaseHandler) bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		h.bindError(c, err)
		return false
	}
	return true
}

// bindQuery decodes and validates query parameters
func (h *BaseHandler) bindQuery(c *gin.Context, req any) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		h.bindError(c, err)
		return false
	}
	return true
}

func (h *BaseHandler) bindError(c *gin.Context, err error) {
	var maxErr *http.MaxBytesError
	var syntaxErr *json.SyntaxError
	switch {
	case errors.As(err, &maxErr):
		h.Error(c, http.StatusRequestEntityTooLarge, dto.ErrCodePayloadTooLarge, "Request body exceeds maximum allowed size")
	case errors.Is(err, io.EOF):
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidJSON, "Request body is required")
	case errors.As(err, &syntaxErr), errors.Is(err, io.ErrUnexpectedEOF):
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidJSON, "Malformed JSON body")
	default:
		if details := middleware.ValidationDetails(err); len(details) > 0 {
			h.ValidationError(c, details)
			return
		}
		h.Error(c, http.StatusBadRequest, dto.ErrCodeBadRequest, err.Error())
	}
}

// statusAction is a service method that moves one resource to a new state
type statusAction[T any] func(ctx context.Context, tenantID, id uuid.UUID) (*T, error)

// runStatusAction serves POST /<resource>/:id/<transition> routes
func runStatusAction[T any](h *BaseHandler, c *gin.Context, apply statusAction[T]) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	result, err := apply(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}
