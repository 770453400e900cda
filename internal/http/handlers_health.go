package httpx

import "net/http"

type healthStatus struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}

// healthHandler answers liveness probes. It never touches the backend.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodHead {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		return
	}
	WriteJSON(w, http.StatusOK, healthStatus{Status: "ok", Service: "calculate-funding-portal"})
}
