package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/villagiolabs/villagio/internal/accessscope"
	apartmentdomain "github.com/villagiolabs/villagio/internal/apartment/domain"
	apikeydomain "github.com/villagiolabs/villagio/internal/apikey/domain"
	auditdomain "github.com/villagiolabs/villagio/internal/audit/domain"
	billingdomain "github.com/villagiolabs/villagio/internal/billing/domain"
	bookingdomain "github.com/villagiolabs/villagio/internal/booking/domain"
	"github.com/villagiolabs/villagio/internal/currency"
	paymentdomain "github.com/villagiolabs/villagio/internal/payment/domain"
	servicerequestdomain "github.com/villagiolabs/villagio/internal/servicerequest/domain"
	servicetypedomain "github.com/villagiolabs/villagio/internal/servicetype/domain"
	utilitydomain "github.com/villagiolabs/villagio/internal/utility/domain"
	villagedomain "github.com/villagiolabs/villagio/internal/village/domain"
)

var (
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
	ErrRateLimited    = errors.New("rate_limited")
	errInvalidRequest = errors.New("invalid_request")
)

var notFoundErrors = []error{
	villagedomain.ErrNotFound,
	apartmentdomain.ErrNotFound,
	bookingdomain.ErrNotFound,
	paymentdomain.ErrNotFound,
	servicetypedomain.ErrNotFound,
	servicerequestdomain.ErrNotFound,
	utilitydomain.ErrNotFound,
	billingdomain.ErrNotFound,
	apikeydomain.ErrNotFound,
}

var validationErrors = []error{
	currency.ErrUnsupportedCurrency,
	villagedomain.ErrInvalidName,
	villagedomain.ErrInvalidPhases,
	villagedomain.ErrInvalidPrice,
	villagedomain.ErrInvalidID,
	apartmentdomain.ErrInvalidID,
	apartmentdomain.ErrInvalidName,
	apartmentdomain.ErrInvalidVillage,
	apartmentdomain.ErrInvalidOwner,
	apartmentdomain.ErrInvalidPhase,
	apartmentdomain.ErrInvalidPayingStatus,
	apartmentdomain.ErrInvalidSalesStatus,
	bookingdomain.ErrInvalidID,
	bookingdomain.ErrInvalidApartment,
	bookingdomain.ErrInvalidUser,
	bookingdomain.ErrInvalidUserType,
	bookingdomain.ErrInvalidInterval,
	bookingdomain.ErrInvalidStatus,
	bookingdomain.ErrInvalidPeople,
	paymentdomain.ErrInvalidID,
	paymentdomain.ErrInvalidApartment,
	paymentdomain.ErrInvalidBooking,
	paymentdomain.ErrInvalidAmount,
	paymentdomain.ErrInvalidMethod,
	paymentdomain.ErrInvalidUserType,
	paymentdomain.ErrInvalidDate,
	paymentdomain.ErrInvalidName,
	servicetypedomain.ErrInvalidID,
	servicetypedomain.ErrInvalidName,
	servicetypedomain.ErrInvalidVillage,
	servicetypedomain.ErrInvalidCost,
	servicerequestdomain.ErrInvalidID,
	servicerequestdomain.ErrInvalidType,
	servicerequestdomain.ErrInvalidApartment,
	servicerequestdomain.ErrInvalidBooking,
	servicerequestdomain.ErrInvalidRequester,
	servicerequestdomain.ErrInvalidWhoPays,
	servicerequestdomain.ErrInvalidStatus,
	utilitydomain.ErrInvalidID,
	utilitydomain.ErrInvalidApartment,
	utilitydomain.ErrInvalidBooking,
	utilitydomain.ErrInvalidWhoPays,
	utilitydomain.ErrInvalidPeriod,
	utilitydomain.ErrReadingDecreased,
	billingdomain.ErrInvalidID,
	billingdomain.ErrInvalidVillage,
	billingdomain.ErrInvalidPayerType,
	billingdomain.ErrInvalidWindow,
	billingdomain.ErrInvalidYear,
	apikeydomain.ErrInvalidID,
	apikeydomain.ErrInvalidUser,
	apikeydomain.ErrInvalidRole,
	apikeydomain.ErrInvalidVillage,
	apikeydomain.ErrInvalidName,
	auditdomain.ErrInvalidWindow,
	errInvalidRequest,
}

var conflictErrors = []error{
	villagedomain.ErrHasApartments,
	apartmentdomain.ErrHasReferences,
	bookingdomain.ErrOverlap,
	paymentdomain.ErrMethodInUse,
	servicetypedomain.ErrTypeInUse,
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message,omitempty"`
	Field   string `json:"field,omitempty"`
}

// AbortWithError maps domain sentinels onto transport status codes.
// Anything unrecognized is a transient store failure and surfaces as
// 500 with an opaque body.
func AbortWithError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	body := apiError{Code: "internal_error"}

	switch {
	case errors.Is(err, ErrUnauthorized), errors.Is(err, apikeydomain.ErrUnauthorized):
		status = http.StatusUnauthorized
		body.Code = "unauthorized"
	case errors.Is(err, ErrForbidden), errors.Is(err, accessscope.ErrAccessDenied):
		status = http.StatusForbidden
		body.Code = "access_denied"
	case errors.Is(err, ErrRateLimited):
		status = http.StatusTooManyRequests
		body.Code = "rate_limited"
	case errors.Is(err, servicetypedomain.ErrPricingGap):
		status = http.StatusUnprocessableEntity
		body.Code = "pricing_gap"
		var gap *servicetypedomain.PricingGapError
		if errors.As(err, &gap) {
			body.Message = gap.Error()
		}
	case isAny(err, notFoundErrors):
		status = http.StatusNotFound
		body.Code = err.Error()
	case isAny(err, validationErrors):
		status = http.StatusBadRequest
		body.Code = err.Error()
	case isAny(err, conflictErrors):
		status = http.StatusConflict
		body.Code = err.Error()
	}

	c.AbortWithStatusJSON(status, gin.H{"error": body})
}

func isAny(err error, targets []error) bool {
	for _, target := range targets {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
