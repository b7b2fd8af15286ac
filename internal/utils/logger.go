package utils

import (
	"log"
	"strings"
)

// LogEvent prints one standardized application log line tied to a request.
// Messages should be summaries; never log credentials or token contents.
func LogEvent(requestID, module, action, message string) {
	log.Printf("[%s] event=%s request_id=%s msg=%q",
		strings.ToUpper(module), action, strings.TrimSpace(requestID), message)
}
