package handler

import (
	"encoding/json"
	"net/http"
)

type APIResponse struct {
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func JSONSuccess(w http.ResponseWriter, status int, res APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(res)
}

func JSONError(w http.ResponseWriter, status int, message string) {
	JSONSuccess(w, status, APIResponse{Message: message})
}
