package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"

	"devconnector/internal/apperr"
)

// ErrorResponse is the body of every single-message failure.
type ErrorResponse struct {
	Msg string `json:"msg"`
}

// ValidationResponse carries itemized field errors.
type ValidationResponse struct {
	Errors []apperr.FieldError `json:"errors"`
}

// MessageResponse is used for plain acknowledgements such as deletes.
type MessageResponse struct {
	Msg string `json:"msg"`
}

// WriteError sends {"msg": message} with the given status.
func WriteError(w http.ResponseWriter, message string, statusCode int) {
	writeSuccess(w, ErrorResponse{Msg: message}, statusCode)
}

func writeSuccess(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

// writeAppError maps a service error onto the response. Internal failures
// are logged here and never leak their cause to the client.
func (h *Handlers) writeAppError(w http.ResponseWriter, r *http.Request, err error) {
	status := apperr.HTTPStatus(err)
	ae, ok := apperr.As(err)
	if !ok {
		ae = &apperr.AppError{Code: apperr.CodeInternal, Message: "Server error", Err: err}
	}

	if ae.Code == apperr.CodeInternal && h.Log != nil {
		h.Log.WithFields(logrus.Fields{
			"op":     ae.Op,
			"method": r.Method,
			"path":   r.URL.Path,
			"error":  ae.Error(),
		}).Error("request failed")
	}

	if len(ae.Fields) > 0 {
		writeSuccess(w, ValidationResponse{Errors: ae.Fields}, status)
		return
	}
	WriteError(w, ae.Message, status)
}
