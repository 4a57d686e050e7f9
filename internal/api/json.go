package api

import (
	"encoding/json"
	"log"
	"net/http"
)

// Problem is an RFC7807 problem details response body.
type Problem struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Detail   string `json:"detail,omitempty"`
	Instance string `json:"instance,omitempty"`
}

// problemType maps an HTTP status onto a stable problem type URN so clients
// can switch on the type instead of parsing titles.
func problemType(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "urn:autumsem:problem:invalid-request"
	case http.StatusNotFound:
		return "urn:autumsem:problem:not-found"
	case http.StatusTooManyRequests:
		return "urn:autumsem:problem:rate-limited"
	case http.StatusServiceUnavailable:
		return "urn:autumsem:problem:not-ready"
	default:
		return "about:blank"
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("response encode: %v", err)
	}
}

func writeProblem(w http.ResponseWriter, status int, title, detail, instance string) {
	body, err := json.Marshal(Problem{
		Type:     problemType(status),
		Title:    title,
		Status:   status,
		Detail:   detail,
		Instance: instance,
	})
	if err != nil {
		http.Error(w, title, status)
		return
	}
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}
