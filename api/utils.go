package api

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	jsoniter "github.com/json-iterator/go"

	"hmda-lens/fetch"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// getIntParam retrieves an integer query parameter with default value and optional range validation
func getIntParam(r *http.Request, key string, defaultVal int, minVal, maxVal *int) int {
	valStr := r.URL.Query().Get(key)
	if valStr == "" {
		return defaultVal
	}

	val, err := strconv.Atoi(valStr)
	if err != nil {
		return defaultVal
	}

	if minVal != nil && val < *minVal {
		return defaultVal
	}
	if maxVal != nil && val > *maxVal {
		return defaultVal
	}

	return val
}

// getFloatParam retrieves a float query parameter with default value
func getFloatParam(r *http.Request, key string, defaultVal float64) float64 {
	valStr := r.URL.Query().Get(key)
	if valStr == "" {
		return defaultVal
	}

	val, err := strconv.ParseFloat(valStr, 64)
	if err != nil {
		return defaultVal
	}

	return val
}

// splitParam splits a comma-separated query parameter into trimmed items
func splitParam(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// respondWithError logs the error and sends a plain error response
// Use this to avoid exposing internal errors while still logging them
func respondWithError(w http.ResponseWriter, code int, message string, err error) {
	if err != nil {
		log.Printf("API Error [%d]: %s - %v", code, message, err)
	} else {
		log.Printf("API Error [%d]: %s", code, message)
	}
	http.Error(w, message, code)
}

// respondFetchError maps upstream failures onto responses: missing data is
// a structured 404 body, upstream rejections surface as 502, everything
// else as 500.
func respondFetchError(w http.ResponseWriter, q fetch.Query, err error) {
	if errors.Is(err, fetch.ErrNoData) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"error":  "no data available",
			"year":   q.Year,
			"states": q.States,
			"msamds": q.MSAMDs,
		})
		return
	}

	var upstream *fetch.UpstreamError
	if errors.As(err, &upstream) {
		respondWithError(w, http.StatusBadGateway, "data browser request failed", err)
		return
	}
	respondWithError(w, http.StatusInternalServerError, "failed to load loan data", err)
}
