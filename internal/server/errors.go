package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	catalogdomain "github.com/atelierbooks/facturio/internal/catalog/domain"
	clientdomain "github.com/atelierbooks/facturio/internal/client/domain"
	companydomain "github.com/atelierbooks/facturio/internal/company/domain"
	documentdomain "github.com/atelierbooks/facturio/internal/document/domain"
	stockdomain "github.com/atelierbooks/facturio/internal/stock/domain"
)

type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func (v ValidationErrors) Error() string {
	return "validation error"
}

type errorPayload struct {
	Type    string            `json:"type"`
	Message string            `json:"message"`
	Errors  []ValidationError `json:"errors,omitempty"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var (
	ErrInternal       = errors.New("internal_error")
	ErrInvalidRequest = errors.New("invalid_request")
)

func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func invalidRequestError() error {
	return newValidationError("request", "invalid_request", "invalid request")
}

func newValidationError(field, code, message string) error {
	return &ValidationErrors{
		Errors: []ValidationError{
			{
				Field:   field,
				Code:    code,
				Message: message,
			},
		},
	}
}

func mapError(err error) (int, errorPayload) {
	if vErr := asValidationErrors(err); vErr != nil {
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors:  vErr.Errors,
		}
	}

	if isValidationError(err) {
		code := err.Error()
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors: []ValidationError{
				{
					Field:   validationErrorField(code),
					Code:    code,
					Message: "invalid value",
				},
			},
		}
	}

	switch {
	case errors.Is(err, documentdomain.ErrNotFound):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: "not found",
		}
	case isConflictError(err):
		return http.StatusConflict, errorPayload{
			Type:    "conflict",
			Message: err.Error(),
		}
	default:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}
}

func asValidationErrors(err error) *ValidationErrors {
	var vErr *ValidationErrors
	if errors.As(err, &vErr) && vErr != nil {
		return vErr
	}
	return nil
}

func isValidationError(err error) bool {
	switch {
	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, catalogdomain.ErrInvalidPrice),
		errors.Is(err, catalogdomain.ErrInvalidQuantity),
		errors.Is(err, clientdomain.ErrInvalidName),
		errors.Is(err, companydomain.ErrInvalidName),
		errors.Is(err, stockdomain.ErrInvalidQuantity),
		errors.Is(err, documentdomain.ErrInvalidItems),
		errors.Is(err, documentdomain.ErrInvalidQuantity),
		errors.Is(err, documentdomain.ErrInvalidPrice),
		errors.Is(err, documentdomain.ErrInvalidDiscount),
		errors.Is(err, documentdomain.ErrSerialMismatch),
		errors.Is(err, documentdomain.ErrMailNotSet):
		return true
	default:
		return false
	}
}

// isConflictError reports errors caused by the record's current state
// rather than by the request's shape.
func isConflictError(err error) bool {
	switch {
	case errors.Is(err, documentdomain.ErrDuplicateNumber),
		errors.Is(err, documentdomain.ErrAlreadyInvoice),
		errors.Is(err, documentdomain.ErrNotAQuote),
		errors.Is(err, documentdomain.ErrNotAnInvoice),
		errors.Is(err, stockdomain.ErrInsufficientStock):
		return true
	default:
		return false
	}
}

func validationErrorField(code string) string {
	if strings.HasPrefix(code, "invalid_") {
		return strings.TrimPrefix(code, "invalid_")
	}
	return ""
}
