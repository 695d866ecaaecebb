// Package respond holds the JSON response helpers shared by the /api and
// /admin handlers.
package respond

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/artpar/sportsgate/domain/gateway"
)

// TimeLayout is ISO-8601 with milliseconds, as rendered in every response.
const TimeLayout = "2006-01-02T15:04:05.000Z07:00"

// Time renders t in UTC using TimeLayout.
func Time(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

// JSON writes data with the given status.
func JSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// Error writes an outward error with its headers.
func Error(w http.ResponseWriter, resp gateway.ErrorResponse) {
	for k, v := range resp.Headers {
		w.Header().Set(k, v)
	}
	JSON(w, resp.Status, resp.Body())
}
