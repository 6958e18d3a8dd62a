package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	assessmentdomain "github.com/tollgrid/tollgrid/internal/assessment/domain"
	bookingdomain "github.com/tollgrid/tollgrid/internal/booking/domain"
	segmentdomain "github.com/tollgrid/tollgrid/internal/segment/domain"
	tariffdomain "github.com/tollgrid/tollgrid/internal/tariff/domain"
	vehicledomain "github.com/tollgrid/tollgrid/internal/vehicle/domain"
	"gorm.io/gorm"
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

var ErrRateLimited = errors.New("rate_limited")

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
	if err == nil {
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}

	var vErrs *ValidationErrors
	if errors.As(err, &vErrs) {
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors:  vErrs.Errors,
		}
	}

	if isValidationError(err) {
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors: []ValidationError{
				{Field: "request", Code: err.Error(), Message: err.Error()},
			},
		}
	}

	switch {
	case errors.Is(err, assessmentdomain.ErrUnknownVehicle),
		errors.Is(err, assessmentdomain.ErrUnknownSegment),
		errors.Is(err, vehicledomain.ErrNotFound),
		errors.Is(err, segmentdomain.ErrNotFound),
		errors.Is(err, bookingdomain.ErrBookingNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: err.Error(),
		}
	case errors.Is(err, assessmentdomain.ErrInvalidVehicleData):
		return http.StatusUnprocessableEntity, errorPayload{
			Type:    "invalid_vehicle_data",
			Message: "reported axle count contradicts registered vehicle data",
		}
	case errors.Is(err, assessmentdomain.ErrAlreadyCruised):
		return http.StatusConflict, errorPayload{
			Type:    "already_cruised",
			Message: "booking for this segment was already consumed",
		}
	case errors.Is(err, vehicledomain.ErrPlateExists),
		errors.Is(err, bookingdomain.ErrBookingExists):
		return http.StatusConflict, errorPayload{
			Type:    "conflict",
			Message: err.Error(),
		}
	case errors.Is(err, ErrRateLimited):
		return http.StatusTooManyRequests, errorPayload{
			Type:    "rate_limited",
			Message: "too many passage reports, retry later",
		}
	case errors.Is(err, tariffdomain.ErrUnrecognizedAxleRule):
		return http.StatusInternalServerError, errorPayload{
			Type:    "unrecognized_axle_rule",
			Message: "toll category reference data is corrupt",
		}
	default:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}
}

func isValidationError(err error) bool {
	switch {
	case errors.Is(err, assessmentdomain.ErrInvalidPlate),
		errors.Is(err, assessmentdomain.ErrInvalidSegment),
		errors.Is(err, assessmentdomain.ErrInvalidAxles),
		errors.Is(err, vehicledomain.ErrInvalidPlate),
		errors.Is(err, vehicledomain.ErrInvalidOwner),
		errors.Is(err, vehicledomain.ErrInvalidEmissionClass),
		errors.Is(err, vehicledomain.ErrInvalidAxles),
		errors.Is(err, vehicledomain.ErrInvalidID),
		errors.Is(err, vehicledomain.ErrInvalidDeviceStatus),
		errors.Is(err, segmentdomain.ErrInvalidSectionType),
		errors.Is(err, bookingdomain.ErrInvalidPlate),
		errors.Is(err, bookingdomain.ErrInvalidSegment),
		errors.Is(err, bookingdomain.ErrInvalidCategory):
		return true
	default:
		return false
	}
}

// classifyErrorForLog buckets handler errors for the request log.
func classifyErrorForLog(err error) (string, string) {
	status, payload := mapError(err)
	switch {
	case status >= http.StatusInternalServerError:
		return "internal", payload.Type
	case status == http.StatusTooManyRequests:
		return "rate_limit", payload.Type
	default:
		return "client", payload.Type
	}
}
