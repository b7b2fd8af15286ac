package middleware

import (
	"fmt"
	"log"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"blogapi/internal/http/response"
)

// Recovery is the centralized fallback converting any unhandled handler
// failure into a structured internal-error envelope. The client sees the
// failure message in the debug field only; the stack trace stays in the
// server log. The failure is also attached to the gin context so the
// logging stage still observes it on unwind.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				err, ok := r.(error)
				if !ok {
					err = fmt.Errorf("%v", r)
				}
				log.Printf("[HTTP] event=panic request_id=%s error=%q\n%s",
					response.RequestID(c), err.Error(), debug.Stack())
				_ = c.Error(err)
				response.Error(c, "internal server error", response.CodeInternalError, nil, err.Error())
				c.Abort()
			}
		}()

		c.Next()

		// Errors pushed by handlers that never wrote a response fall back
		// to the same envelope.
		if len(c.Errors) > 0 && !c.Writer.Written() {
			response.Error(c, "internal server error", response.CodeInternalError, nil, c.Errors.Last().Error())
			c.Abort()
		}
	}
}
