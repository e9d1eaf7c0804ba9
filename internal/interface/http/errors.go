package http

import (
	"errors"
	"net/http"

	"github.com/placement-hub/campus-placement-portal/internal/domain/shared"
	"github.com/placement-hub/campus-placement-portal/pkg/logger"
)

// writeDomainError translates a domain error into the matching HTTP status.
// Apply-path rejections (not eligible, duplicate, inactive, expired) are all
// 400 with a distinguishable error code, so clients can branch on the code
// without parsing messages. Unclassified errors are treated as internal and
// logged with the request id; the client only ever sees a generic message
// for those.
func (s *Server) writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case shared.IsValidation(err):
		writeJSONError(w, http.StatusBadRequest, "validation_failed", err.Error())

	case errors.Is(err, shared.ErrUnauthorized):
		writeJSONError(w, http.StatusUnauthorized, "unauthorized", err.Error())

	case errors.Is(err, shared.ErrForbidden):
		writeJSONError(w, http.StatusForbidden, "forbidden", err.Error())

	case shared.IsNotFound(err):
		writeJSONError(w, http.StatusNotFound, "not_found", err.Error())

	case errors.Is(err, shared.ErrNotEligible):
		writeJSONError(w, http.StatusBadRequest, "not_eligible", err.Error())

	case errors.Is(err, shared.ErrInactive):
		writeJSONError(w, http.StatusBadRequest, "job_inactive", err.Error())

	case errors.Is(err, shared.ErrExpired):
		writeJSONError(w, http.StatusBadRequest, "job_expired", err.Error())

	case shared.IsAlreadyExists(err):
		writeJSONError(w, http.StatusBadRequest, "already_exists", err.Error())

	case errors.Is(err, shared.ErrStateTransition), errors.Is(err, shared.ErrConcurrentModification):
		writeJSONError(w, http.StatusConflict, "conflict", err.Error())

	case shared.IsExternalService(err):
		writeJSONError(w, http.StatusServiceUnavailable, "service_unavailable", "A dependent service is unavailable, please retry")

	default:
		s.logger.Error("unhandled error",
			logger.Err(err),
			logger.String("path", r.URL.Path),
			logger.String("request_id", getRequestID(r.Context())),
		)
		writeJSONError(w, http.StatusInternalServerError, "internal_error", "An unexpected error occurred")
	}
}
