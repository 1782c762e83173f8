// Package exchangetest reimplements the deployed worker's exchange endpoint
// validation so probe tests can run end-to-end without the network.
package exchangetest

import (
	"encoding/json"
	"net/http"
	"regexp"
)

const (
	titleMaxLen = 5
	pixelCount  = 16
)

var colorPattern = regexp.MustCompile(`(?i)^#[0-9a-f]{6}$`)

type exchangeRequest struct {
	Title  *string         `json:"title"`
	Pixels json.RawMessage `json:"pixels"`
}

// Handler returns the worker double. Requests whose Origin is not in
// allowedOrigins are rejected with 403 before any body inspection, matching
// the worker's CORS-style allow list.
func Handler(allowedOrigins ...string) http.Handler {
	allowed := make(map[string]struct{}, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		allowed[origin] = struct{}{}
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "method_not_allowed")
			return
		}
		if _, ok := allowed[r.Header.Get("Origin")]; !ok {
			writeError(w, http.StatusForbidden, "origin_not_allowed")
			return
		}

		var req exchangeRequest
		decoder := json.NewDecoder(r.Body)
		if err := decoder.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_json")
			return
		}

		if req.Title == nil || len(*req.Title) == 0 || len(*req.Title) > titleMaxLen {
			writeError(w, http.StatusBadRequest, "invalid_title")
			return
		}

		var pixels []string
		if err := json.Unmarshal(req.Pixels, &pixels); err != nil || len(pixels) != pixelCount {
			writeError(w, http.StatusBadRequest, "invalid_pixels")
			return
		}
		for _, pixel := range pixels {
			if !colorPattern.MatchString(pixel) {
				writeError(w, http.StatusBadRequest, "invalid_pixels")
				return
			}
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]bool{"ok": true})
	})
}

func writeError(w http.ResponseWriter, status int, code string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": code})
}
