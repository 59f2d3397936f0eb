package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/zinsou/pharmapay/internal/domain/errors"
	"github.com/zinsou/pharmapay/internal/server/http/dto"
)

// userIDHeader carries the identity of the staff member acting on behalf of
// the customer. Authentication itself happens upstream.
const userIDHeader = "X-User-ID"

// CurrentUserID extracts the acting user identifier from request headers.
func CurrentUserID(c *gin.Context) string {
	return c.GetHeader(userIDHeader)
}

// respondError maps domain errors onto HTTP statuses: validation failures are
// unprocessable, gateway declines demand payment, unknown entities are not
// found, malformed reconciliation input is a bad request.
func respondError(c *gin.Context, err error) {
	var (
		validation *domainErrors.ValidationError
		decline    *domainErrors.GatewayDeclineError
		timeout    *domainErrors.GatewayTimeoutError
	)

	switch {
	case errors.As(err, &validation):
		c.JSON(http.StatusUnprocessableEntity, dto.ErrorResponse{
			Error:      "validation failed",
			Violations: validation.Violations,
		})
	case errors.As(err, &decline):
		c.JSON(http.StatusPaymentRequired, dto.ErrorResponse{Error: decline.Reason})
	case errors.As(err, &timeout):
		c.JSON(http.StatusGatewayTimeout, dto.ErrorResponse{Error: err.Error()})
	case errors.Is(err, domainErrors.ErrNotFound):
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: err.Error()})
	case errors.Is(err, domainErrors.ErrSignatureMissing), errors.Is(err, domainErrors.ErrSignatureInvalid):
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: err.Error()})
	case errors.Is(err, domainErrors.ErrUnsupportedGateway):
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "internal error"})
	}
}
