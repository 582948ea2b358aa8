package http

import (
	"net/http"

	"github.com/akarpov/content-api/internal/common/constants"
	"github.com/akarpov/content-api/internal/common/httpmetrics"
	"github.com/akarpov/content-api/internal/common/logger"
)

// BuildBaseHandler stacks the ambient middleware shared by every route:
// security headers, panic recovery, trace IDs, body-size limits and
// request metrics.
func BuildBaseHandler(log *logger.Logger, handler http.Handler) http.Handler {
	collector := httpmetrics.New()
	recovery := RecoveryMiddleware(log)
	maxRequestSize := MaxRequestSizeMiddleware(constants.DefaultMaxRequestSize)

	return SecurityHeadersMiddleware(recovery(TraceIDMiddleware(maxRequestSize(collector.Wrap(handler)))))
}
