package handler

import "net/http"

type AppError struct {
	Status  int
	Code    string
	Message string
}

func (e *AppError) Error() string { return e.Message }

var (
	ErrMissingToken     = &AppError{http.StatusUnauthorized, "MISSING_TOKEN", "Authorization header required"}
	ErrInvalidToken     = &AppError{http.StatusUnauthorized, "INVALID_TOKEN", "Token is invalid or expired"}
	ErrInvalidRequest   = &AppError{http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body"}
	ErrValidationFailed = &AppError{http.StatusBadRequest, "VALIDATION_FAILED", "Validation failed"}
	ErrResourceNotFound = &AppError{http.StatusNotFound, "RESOURCE_NOT_FOUND", "Resource not found"}
	ErrInternalError    = &AppError{http.StatusInternalServerError, "INTERNAL_ERROR", "An unexpected error occurred"}

	// Webhook ingestion. Signature and payload failures are 400 so the
	// sender does not retry garbage; conflicts and handler failures are
	// retryable by contract.
	ErrInvalidSignature   = &AppError{http.StatusBadRequest, "INVALID_SIGNATURE", "Webhook signature is missing or invalid"}
	ErrMalformedPayload   = &AppError{http.StatusBadRequest, "MALFORMED_PAYLOAD", "Webhook payload could not be decoded"}
	ErrEventInProgress    = &AppError{http.StatusConflict, "EVENT_IN_PROGRESS", "Event is already being processed, retry later"}
	ErrEventHandlerFailed = &AppError{http.StatusInternalServerError, "EVENT_HANDLER_FAILED", "Event processing failed, redeliver"}

	ErrDuplicateRecord     = &AppError{http.StatusConflict, "DUPLICATE_RECORD", "Record already exists"}
	ErrProviderRejected    = &AppError{http.StatusBadGateway, "PROVIDER_REJECTED", "Payment processor rejected the request"}
	ErrProviderUnreachable = &AppError{http.StatusBadGateway, "PROVIDER_UNREACHABLE", "Payment processor is unreachable"}
)
