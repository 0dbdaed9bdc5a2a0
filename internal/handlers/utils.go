package handlers

import (
	"encoding/json"
	"net/http"

	"listify/internal/logging"
)

func writeJSON(w http.ResponseWriter, v interface{}) {
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Error("failed to encode JSON response: %v", err)
	}
}
