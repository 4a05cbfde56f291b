package middleware

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/GriffinCanCode/AgentOS/dock/internal/shared/id"
)

// TraceHeader carries the trace id of a request.
const TraceHeader = "X-Trace-ID"

const tracePrefix = "trace"

type traceKey struct{}

// Trace assigns every request a trace id, taking the caller's when it
// sends one, and echoes it in the response.
func Trace() gin.HandlerFunc {
	return func(c *gin.Context) {
		traceID := c.GetHeader(TraceHeader)
		if traceID == "" || len(traceID) > 128 {
			traceID = id.Default().GenerateWithPrefix(tracePrefix)
		}

		c.Set(TraceHeader, traceID)
		c.Request = c.Request.WithContext(context.WithValue(c.Request.Context(), traceKey{}, traceID))
		c.Header(TraceHeader, traceID)
		c.Next()
	}
}

// TraceID returns the trace id stored by Trace, or "".
func TraceID(ctx context.Context) string {
	if c, ok := ctx.(*gin.Context); ok {
		return c.GetString(TraceHeader)
	}
	traceID, _ := ctx.Value(traceKey{}).(string)
	return traceID
}
