package response

import (
	"encoding/json"
	"net/http"

	"raglite/raglite/utils/apperrors"
)

// Envelope is the uniform API response body: {code, message, data}.
type Envelope struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

func writeJSON(w http.ResponseWriter, status int, body Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func Success(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, Envelope{Code: http.StatusOK, Message: "success", Data: data})
}

func SuccessMessage(w http.ResponseWriter, data any, message string) {
	writeJSON(w, http.StatusOK, Envelope{Code: http.StatusOK, Message: message, Data: data})
}

func Error(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, Envelope{Code: status, Message: message, Data: nil})
}

// DomainError maps a typed domain error to its HTTP status.
func DomainError(w http.ResponseWriter, err error) {
	switch {
	case apperrors.IsValidation(err), apperrors.IsDuplicateName(err):
		Error(w, http.StatusBadRequest, err.Error())
	case apperrors.IsAuthorization(err):
		Error(w, http.StatusForbidden, err.Error())
	case apperrors.IsNotFound(err):
		Error(w, http.StatusNotFound, err.Error())
	default:
		Error(w, http.StatusInternalServerError, err.Error())
	}
}
