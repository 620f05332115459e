package http

import (
	"net/http"
	"strconv"

	commonerrors "github.com/blogchat/backend/internal/common/errors"
	"github.com/blogchat/backend/internal/common/logger"
	"github.com/blogchat/backend/internal/observability/metrics"
)

// HandleError translates any error into the stable JSON envelope. Domain
// errors keep their status and message; everything else becomes a generic
// 500 so internals never leak to the caller.
func HandleError(w http.ResponseWriter, r *http.Request, err error, log *logger.Logger) {
	if err == nil {
		return
	}

	if vErr, ok := commonerrors.AsValidationError(err); ok {
		metrics.DomainErrorsTotal.WithLabelValues(
			string(vErr.Category()), vErr.Code(), strconv.Itoa(vErr.HTTPStatus()),
		).Inc()
		WriteValidationError(w, vErr.Violations)
		return
	}

	if domainErr, ok := commonerrors.AsDomainError(err); ok {
		log.WithFields(r.Context(), logger.Fields{
			"error_code": domainErr.Code(),
			"category":   string(domainErr.Category()),
			"status":     domainErr.HTTPStatus(),
			"action":     "domain_error",
		}).Debugf("domain error: %s", domainErr.Error())

		metrics.DomainErrorsTotal.WithLabelValues(
			string(domainErr.Category()), domainErr.Code(), strconv.Itoa(domainErr.HTTPStatus()),
		).Inc()

		WriteError(w, domainErr.HTTPStatus(), domainErr.Message())
		return
	}

	log.WithFields(r.Context(), logger.Fields{
		"error":  err.Error(),
		"action": "unhandled_error",
	}).Errorf("unhandled error: %v", err)

	metrics.HTTPErrorsTotal.WithLabelValues(
		strconv.Itoa(http.StatusInternalServerError), r.Method,
	).Inc()

	WriteError(w, http.StatusInternalServerError, "internal server error")
}
