package response

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/shashiranjanraj/stockpile/pkg/apperr"
	"github.com/shashiranjanraj/stockpile/pkg/logger"
)

type envelope struct {
	Status  int         `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Errors  interface{} `json:"errors,omitempty"`
}

func write(w http.ResponseWriter, status int, body envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body) //nolint:errcheck
}

// Success sends a 200 JSON response with data.
func Success(w http.ResponseWriter, data interface{}) {
	write(w, http.StatusOK, envelope{Status: http.StatusOK, Data: data})
}

// Created sends a 201 JSON response with data.
func Created(w http.ResponseWriter, data interface{}) {
	write(w, http.StatusCreated, envelope{Status: http.StatusCreated, Data: data})
}

// NoContent sends a 204 with an empty body.
func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// Error sends a JSON error response.
func Error(w http.ResponseWriter, status int, message string) {
	write(w, status, envelope{Status: status, Message: message})
}

// ValidationError sends a 400 with the field-level error map.
func ValidationError(w http.ResponseWriter, errs map[string]string) {
	write(w, http.StatusBadRequest, envelope{
		Status:  http.StatusBadRequest,
		Message: "Validation failed",
		Errors:  errs,
	})
}

// FromError maps an application error onto its HTTP status:
//
//	Validation, OutOfStock → 400
//	Authentication         → 401
//	NotFound               → 404
//	Conflict               → 409
//	Storage, anything else → 500 (cause logged, not leaked)
func FromError(w http.ResponseWriter, r *http.Request, err error) {
	var appErr *apperr.Error
	if !errors.As(err, &appErr) {
		logger.WithCtx(r.Context()).Error("unexpected error", "error", err)
		Error(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	switch appErr.Kind {
	case apperr.Validation:
		ValidationError(w, appErr.Fields)
	case apperr.OutOfStock:
		Error(w, http.StatusBadRequest, appErr.Message)
	case apperr.Authentication:
		Error(w, http.StatusUnauthorized, appErr.Message)
	case apperr.NotFound:
		Error(w, http.StatusNotFound, appErr.Message)
	case apperr.Conflict:
		Error(w, http.StatusConflict, appErr.Message)
	default:
		logger.WithCtx(r.Context()).Error("storage error", "error", err)
		Error(w, http.StatusInternalServerError, "Internal Server Error")
	}
}

// NotFound sends a 404.
func NotFound(w http.ResponseWriter) {
	Error(w, http.StatusNotFound, "Not found")
}
