package middleware

import (
	mathrand "math/rand"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/oklog/ulid/v2"

	"blogapi/internal/http/response"
)

var (
	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(mathrand.New(mathrand.NewSource(time.Now().UnixNano())), 0)
)

// NewRequestID returns a fresh ULID. The monotonic entropy source keeps ids
// unique within the process without any central coordination.
func NewRequestID() string {
	entropyMu.Lock()
	defer entropyMu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String()
}

// RequestID assigns every request an id before any other stage runs and
// mirrors it in the X-Request-ID response header. Inbound X-Request-ID
// headers are not trusted; ids are always generated server side.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := NewRequestID()
		c.Set(response.RequestIDKey, rid)
		c.Writer.Header().Set("X-Request-ID", rid)
		c.Next()
	}
}
