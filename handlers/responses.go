package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
)

// validate is the shared request-payload validator.
var validate = validator.New(validator.WithRequiredStructEnabled())

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			http.Error(w, `{"errors":[{"code":"INTERNAL_ERROR"}]}`, http.StatusInternalServerError)
		}
	}
}

// decodeAndValidate decodes the JSON request body into dst and runs struct
// validation. It writes the error response itself and reports success.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		WriteAPIError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request payload: "+err.Error())
		return false
	}
	if err := validate.Struct(dst); err != nil {
		WriteValidationError(w, err)
		return false
	}
	return true
}
