package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/GregMSThompson/dadhelper-backend/internal/errs"
)

const maxJSONBody = 64 << 10

// decodeJSON reads a JSON request body into dst. Any decode failure is a
// client error.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return errs.NewValidationError("invalid request body")
	}
	return nil
}
