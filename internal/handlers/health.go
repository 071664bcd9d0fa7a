package handlers

import (
	"encoding/json"
	"net/http"
)

type healthHandlers struct {
	service string
	version string
}

type healthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Version string `json:"version"`
}

func NewHealthHandlers(deps *Deps) *healthHandlers {
	return &healthHandlers{service: deps.Service, version: deps.Version}
}

// Health is unauthenticated and touches no backing service.
func (h *healthHandlers) Health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(healthResponse{Status: "ok", Service: h.service, Version: h.version})
}
