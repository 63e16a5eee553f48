package middleware

import (
	"encoding/json"
	"net/http"

	"go-marketplace/internal/model"
)

func writeResult(w http.ResponseWriter, status int, result model.Result, details string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(model.APIResponse{
		Success: false,
		Error:   model.NewAPIError(result, details),
	})
}
