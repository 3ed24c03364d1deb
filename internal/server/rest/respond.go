package rest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/dmitrijs2005/levelup/internal/common"
	"github.com/dmitrijs2005/levelup/internal/logging"
	"github.com/go-chi/chi/v5"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// statusFor maps an error kind to its HTTP status. Unknown errors are 500.
func statusFor(err error) int {
	switch {
	case errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound
	case errors.Is(err, common.ErrorConflict):
		return http.StatusConflict
	case errors.Is(err, common.ErrorInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, common.ErrorUnauthorized),
		errors.Is(err, common.ErrInvalidToken),
		errors.Is(err, common.ErrTokenExpired):
		return http.StatusUnauthorized
	case errors.Is(err, common.ErrorForbidden):
		return http.StatusForbidden
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// writeError renders err. Server-side failures are logged and their detail
// is not sent to the client.
func writeError(w http.ResponseWriter, r *http.Request, fallback logging.Logger, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status >= http.StatusInternalServerError {
		logging.FromContext(r.Context(), fallback).Error(r.Context(), "request failed", "error", err)
		msg = http.StatusText(status)
	}
	writeJSON(w, status, errorResponse{Error: msg})
}

func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: request body is empty", common.ErrorInvalidInput)
		}
		return fmt.Errorf("%w: malformed JSON: %v", common.ErrorInvalidInput, err)
	}
	return nil
}

func int64Param(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("%w: %s must be a positive integer, got %q", common.ErrorInvalidInput, name, raw)
	}
	return v, nil
}

// respond returns a sink for a (value, error) pair: the error is rendered
// via writeError, the value as JSON with status.
func respond(w http.ResponseWriter, r *http.Request, l logging.Logger, status int) func(any, error) {
	return func(v any, err error) {
		if err != nil {
			writeError(w, r, l, err)
			return
		}
		writeJSON(w, status, v)
	}
}

func noContent(w http.ResponseWriter, r *http.Request, l logging.Logger, err error) {
	if err != nil {
		writeError(w, r, l, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
