package errorhandler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/guestpost/guestpost-api/internal/pkg/logger"
	"github.com/guestpost/guestpost-api/internal/pkg/response"
)

// Internal logs an unexpected error for operation op and sends a 500
func Internal(ctx context.Context, w http.ResponseWriter, op string, err error) {
	logger.FromContext(ctx).Error().
		Err(err).
		Str("operation", op).
		Msg("Internal error")

	response.InternalError(w)
}

// HandlePanicError logs a recovered panic with its stack trace and sends a 500
func HandlePanicError(ctx context.Context, w http.ResponseWriter, panicErr interface{}, stackTrace string) {
	logger.FromContext(ctx).Error().
		Interface("panic_error", panicErr).
		Str("panic_stack", stackTrace).
		Msg("Request panic error")

	response.InternalError(w)
}

// LogValidationError logs validation errors with details
func LogValidationError(ctx context.Context, fieldErrors map[string]string) {
	errJSON, _ := json.Marshal(fieldErrors)
	logger.FromContext(ctx).Warn().
		RawJSON("validation_errors", errJSON).
		Msg("Validation error")
}
