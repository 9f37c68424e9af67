package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.opentelemetry.io/otel/trace"

	"github.com/AleksandrAndreew-Dev/Novamedika-LTS/internal/infrastructure/observability"
	apperrors "github.com/AleksandrAndreew-Dev/Novamedika-LTS/pkg/errors"
)

func respondWithJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(payload)
}

func respondWithError(w http.ResponseWriter, statusCode int, message string) {
	respondWithJSON(w, statusCode, map[string]string{
		"error": message,
	})
}

// respondWithAppError maps the error taxonomy onto HTTP statuses. Internal
// causes are never leaked to the client. Server-side failures are recorded
// on the active trace span.
func respondWithAppError(w http.ResponseWriter, r *http.Request, err error) {
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		observability.RecordError(trace.SpanFromContext(r.Context()), err)
		respondWithError(w, http.StatusInternalServerError, "internal error")
		return
	}

	status := http.StatusInternalServerError
	switch appErr.Type {
	case apperrors.ErrorTypeNotFound:
		status = http.StatusNotFound
	case apperrors.ErrorTypeValidation:
		status = http.StatusBadRequest
	case apperrors.ErrorTypeConflict:
		status = http.StatusConflict
	case apperrors.ErrorTypeUnauthorized:
		status = http.StatusUnauthorized
	case apperrors.ErrorTypeExternal:
		status = http.StatusBadGateway
	}

	if status >= http.StatusInternalServerError {
		observability.RecordError(trace.SpanFromContext(r.Context()), err)
	}

	respondWithError(w, status, appErr.Message)
}
