package http

import (
	"net/http"

	"github.com/blogchat/backend/internal/common/constants"
	"github.com/blogchat/backend/internal/common/httpmetrics"
	"github.com/blogchat/backend/internal/common/logger"
)

// BuildBaseHandler wires the shared middleware chain around the routed
// handler: security headers, CSP, panic recovery, trace ids, a request size
// cap and HTTP metrics.
func BuildBaseHandler(log *logger.Logger, handler http.Handler) http.Handler {
	metrics := httpmetrics.New()
	recovery := RecoveryMiddleware(log)
	traceID := TraceIDMiddleware
	maxRequestSize := MaxRequestSizeMiddleware(constants.DefaultMaxRequestSize)
	securityHeaders := SecurityHeadersMiddleware
	csp := ContentSecurityPolicyMiddleware("")

	return securityHeaders(csp(recovery(traceID(maxRequestSize(metrics.Wrap(handler))))))
}
