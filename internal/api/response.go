// Package api implements HTTP handlers for the exchange rate lookup service.
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"fxrates/internal/provider"
	"fxrates/internal/service"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error" example:"currency is not supported: XYZ"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}

// writeLookupError maps a lookup failure to a status code. code is the currency
// reported when the source rejected the request without naming one.
func writeLookupError(w http.ResponseWriter, err error, code string) {
	var notSupported *service.CurrencyNotSupportedError
	switch {
	case errors.As(err, &notSupported):
		writeError(w, http.StatusUnprocessableEntity, notSupported.Error())
	case errors.Is(err, provider.ErrInvalidRange):
		writeError(w, http.StatusBadRequest, "end date is before start date")
	case errors.Is(err, provider.ErrInvalidArgument):
		writeError(w, http.StatusUnprocessableEntity, (&service.CurrencyNotSupportedError{Code: code}).Error())
	case errors.Is(err, service.ErrRateUnavailable):
		writeError(w, http.StatusNotFound, "rate unavailable for "+code)
	default:
		writeError(w, http.StatusBadGateway, "upstream error")
	}
}
