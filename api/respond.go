package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/connectingdots/blog-backend/errs"
)

type Responder struct {
	logger       zerolog.Logger
	isProduction bool
}

func NewResponder(logger zerolog.Logger, isProduction bool) Responder {
	return Responder{logger: logger, isProduction: isProduction}
}

func (r Responder) WriteJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")

	jsonData, err := json.Marshal(data)
	if err != nil {
		r.logger.Error().Err(err).Msg("error marshaling response data")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	if _, err := w.Write(jsonData); err != nil {
		r.logger.Error().Err(err).Msg("error writing response")
	}
}

func (r Responder) WriteError(w http.ResponseWriter, err error) {
	var apiErr *errs.ApiErr

	w.Header().Set("Content-Type", "application/json; charset=utf-8")

	// For unexpected errors, log and return generic internal error
	if !errors.As(err, &apiErr) {
		r.logger.Error().Msg(err.Error())
		w.WriteHeader(http.StatusInternalServerError)
		response := map[string]any{
			"error":   "Internal Server Error",
			"message": "An unexpected error occurred",
			"status":  "error",
		}
		if !r.isProduction {
			response["details"] = err.Error()
		}
		r.WriteJSON(w, response)
		return
	}

	// Build response based on error details
	response := map[string]any{
		"error":  apiErr.Error(),
		"status": "error",
	}

	// Add field information if present (for validation errors)
	if apiErr.Field != "" {
		response["field"] = apiErr.Field
	}
	if len(apiErr.FieldErrors) > 0 {
		response["errors"] = apiErr.FieldErrors
	}

	if apiErr.Details != "" {
		response["details"] = apiErr.Details
	}

	// Role denials echo the required set and the caller's actual role
	if len(apiErr.RequiredRoles) > 0 {
		response["requiredRole"] = apiErr.RequiredRoles
		response["currentRole"] = apiErr.CurrentRole
	}

	// Full error chain only outside production
	if apiErr.Cause != nil && !r.isProduction {
		response["cause"] = apiErr.GetFullError()
	}

	w.WriteHeader(apiErr.StatusCode)
	r.WriteJSON(w, response)
}

// wrapDatabaseError wraps a database error with context information
func wrapDatabaseError(operation, entity string, cause error) error {
	return errs.NewDatabaseError(operation, entity, cause)
}
