package httpapi

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Gin returns a gin middleware with the same semantics as Wrap: the last
// error attached via c.Error, or a panic, becomes a logged JSON error.
// It also plays the role of TraceID, storing and echoing the trace id.
func (ic *Interceptor) Gin() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := TraceIDFromContext(c.Request.Context())
		if id == "" {
			id = strings.TrimSpace(c.GetHeader(ic.traceHeader))
		}
		if id == "" {
			id = uuid.NewString()
		}
		c.Request = c.Request.WithContext(WithTraceID(c.Request.Context(), id))
		c.Header(ic.traceHeader, id)

		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				ic.handle(c.Writer, c.Request, panicError{value: rec}, ginState(c))
				c.Abort()
			}
		}()
		c.Next()
		if len(c.Errors) == 0 {
			return
		}
		ic.handle(c.Writer, c.Request, c.Errors.Last().Err, ginState(c))
	}
}

// ginState reads the writer's progress: Size is -1 before the header is
// sent and 0 after a header-only write such as AbortWithStatus.
func ginState(c *gin.Context) responseState {
	return responseState{
		headerSent:  c.Writer.Written(),
		bodyWritten: c.Writer.Size() > 0,
	}
}
