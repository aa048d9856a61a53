package httpx

import (
	"encoding/json"
	"net/http"

	validatorv10 "github.com/go-playground/validator/v10"
)

// decodeValid binds the JSON body into out and runs struct validation.
// On failure it writes a 400 response and returns false so the handler can
// short-circuit.
func (h *Handler) decodeValid(w http.ResponseWriter, r *http.Request, out any) bool {
	if err := json.NewDecoder(r.Body).Decode(out); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return false
	}
	if err := h.validate.Struct(out); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:  "validation_failed",
			Fields: validationErrorsToMap(err),
		})
		return false
	}
	return true
}

func validationErrorsToMap(err error) map[string]string {
	out := map[string]string{}
	if ve, ok := err.(validatorv10.ValidationErrors); ok {
		for _, fe := range ve {
			out[fe.StructNamespace()] = fe.Tag()
		}
	} else {
		out["error"] = err.Error()
	}
	return out
}
