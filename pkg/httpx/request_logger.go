package httpx

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Gunvolt24/fx_deals/internal/ports"
	"github.com/Gunvolt24/fx_deals/pkg/ctxmeta"
)

// quietPaths — служебные маршруты, которые не логируются.
var quietPaths = map[string]struct{}{
	"/metrics": {},
	"/ping":    {},
	"/health":  {},
}

// RequestLogger — строка лога на каждый запрос к API; ответы 4xx/5xx пишутся в Warn.
func RequestLogger(log ports.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if _, quiet := quietPaths[route]; quiet {
			return
		}
		if route == "" {
			route = c.Request.URL.Path
		}

		ctx := c.Request.Context()
		status := c.Writer.Status()
		trace, _ := ctxmeta.TraceIDFromContext(ctx)
		span, _ := ctxmeta.SpanIDFromContext(ctx)

		logf := log.Infof
		if status >= http.StatusBadRequest {
			logf = log.Warnf
		}
		logf(ctx, "http %s %s status=%d duration=%s size=%d ip=%s trace=%s span=%s",
			c.Request.Method, route, status, time.Since(start), c.Writer.Size(), c.ClientIP(), trace, span)
	}
}
