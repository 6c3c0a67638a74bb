// Package handler
package handler

import (
	"net/http"
	"strconv"

	"cpugauge/internal/domain"
)

type SnapshotReader interface {
	Get() (domain.Snapshot, bool)
}

type MetricsHandler struct {
	store SnapshotReader
}

func NewMetricsHandler(store SnapshotReader) *MetricsHandler {
	return &MetricsHandler{store: store}
}

func (h *MetricsHandler) Get(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.store.Get()
	if !ok {
		JSONError(w, http.StatusServiceUnavailable, "No snapshot recorded yet")
		return
	}

	JSONSuccess(w, http.StatusOK, APIResponse{
		Message: "OK",
		Data:    snap,
	})
}

func (h *MetricsHandler) GetCPU(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil || id < 0 {
		JSONError(w, http.StatusBadRequest, "Invalid cpu id")
		return
	}

	snap, ok := h.store.Get()
	if !ok {
		JSONError(w, http.StatusServiceUnavailable, "No snapshot recorded yet")
		return
	}

	reading, ok := snap.CPU(id)
	if !ok {
		JSONError(w, http.StatusNotFound, "CPU not found")
		return
	}

	JSONSuccess(w, http.StatusOK, APIResponse{
		Message: "OK",
		Data:    reading,
	})
}
