// Package health exposes a liveness endpoint that runs a set of named
// dependency checks and reports the first failure.
package health

import (
	"context"
	"encoding/json"
	"net/http"
	"time"
)

// Checker names a single dependency check.
type Checker struct {
	Name  string
	Check func(ctx context.Context) error
}

// Handler returns an http.HandlerFunc that runs every check and answers
// 200 when all pass, 503 naming the first failing dependency otherwise.
func Handler(checks ...Checker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		for _, c := range checks {
			if err := c.Check(ctx); err != nil {
				writeJSON(w, http.StatusServiceUnavailable, map[string]string{
					"status": "unavailable",
					"check":  c.Name,
					"error":  err.Error(),
				})
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

func writeJSON(w http.ResponseWriter, status int, body map[string]string) {
	buf, _ := json.Marshal(body)
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(buf)
}
