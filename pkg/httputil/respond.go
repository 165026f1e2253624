package httputil

import (
	"encoding/json"
	"net/http"

	perrors "github.com/matzehuels/pedigree/pkg/errors"
)

// ErrorBody is the JSON body of an error response.
type ErrorBody struct {
	Code    perrors.Code `json:"code"`
	Message string       `json:"message"`
}

// statusByCode maps error codes to HTTP status codes. Codes not listed
// here map to 500.
var statusByCode = map[perrors.Code]int{
	perrors.ErrCodeInvalidInput:     http.StatusBadRequest,
	perrors.ErrCodeInvalidSelection: http.StatusUnprocessableEntity,
	perrors.ErrCodeInvalidStructure: http.StatusBadRequest,
	perrors.ErrCodeInvalidDocument:  http.StatusUnprocessableEntity,
	perrors.ErrCodeInvalidEdge:      http.StatusUnprocessableEntity,
	perrors.ErrCodeInvalidFormat:    http.StatusBadRequest,
	perrors.ErrCodeUnsupported:      http.StatusBadRequest,
	perrors.ErrCodeNodeNotFound:     http.StatusNotFound,
	perrors.ErrCodeEdgeNotFound:     http.StatusNotFound,
	perrors.ErrCodeNoRoots:          http.StatusUnprocessableEntity,
	perrors.ErrCodeBusy:             http.StatusConflict,
	perrors.ErrCodeCanceled:         http.StatusRequestTimeout,
}

// Status returns the HTTP status for err.
func Status(err error) int {
	if s, ok := statusByCode[perrors.GetCode(err)]; ok {
		return s
	}
	return http.StatusInternalServerError
}

// WriteJSON writes v as JSON with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}

// WriteError writes err as an [ErrorBody] with the status from [Status].
func WriteError(w http.ResponseWriter, err error) error {
	code := perrors.GetCode(err)
	if code == "" {
		code = perrors.ErrCodeInternal
	}
	return WriteJSON(w, Status(err), ErrorBody{Code: code, Message: perrors.UserMessage(err)})
}
