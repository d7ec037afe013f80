package shared

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
)

// Global validator instance for reuse
var validate = validator.New()

// DecodeJSON decodes the request body into the given struct.
func DecodeJSON(r *http.Request, v interface{}) error {
	return json.NewDecoder(r.Body).Decode(v)
}

// ValidateRequest validates the given struct using the validator package.
func ValidateRequest(v interface{}) error {
	// A request type may bring its own validation
	if validator, ok := v.(interface{ Validate() error }); ok {
		return validator.Validate()
	}

	return validate.Struct(v)
}
