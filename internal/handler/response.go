package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/nhel2500/AUPWU/internal/domain"
	"github.com/nhel2500/AUPWU/internal/middleware"
	apperrors "github.com/nhel2500/AUPWU/pkg/errors"
	"github.com/nhel2500/AUPWU/pkg/logger"
)

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError maps service errors onto the JSON error envelope. Domain
// sentinels translate to their HTTP status; anything unrecognized is a
// 500 whose cause is logged but never rendered.
func respondError(w http.ResponseWriter, r *http.Request, err error, log *logger.Logger) {
	appErr := toAppError(err)
	if appErr.StatusCode >= http.StatusInternalServerError {
		log.WithError(err).Error("Request failed")
	} else {
		log.WithError(err).Warn("Request rejected")
	}

	response := &apperrors.ErrorResponse{}
	response.Error.Type = appErr.Type
	response.Error.Message = appErr.Message
	response.Error.Details = appErr.Details
	response.Error.RequestID = middleware.RequestIDFromContext(r.Context())
	response.Error.Timestamp = time.Now().UTC().Format(time.RFC3339)

	respondJSON(w, appErr.StatusCode, response)
}

func toAppError(err error) *apperrors.AppError {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	switch {
	case errors.Is(err, domain.ErrAlreadyVoted):
		return apperrors.NewConflictError("You have already voted for this position")
	case errors.Is(err, domain.ErrHasVotes):
		return apperrors.NewConflictError("Election already has votes and cannot be deleted")
	case errors.Is(err, domain.ErrDuplicateCandidacy):
		return apperrors.NewConflictError("Member is already a candidate for this position")
	case errors.Is(err, domain.ErrElectionNotVotable):
		return apperrors.NewValidationError("Election is not open for voting", nil)
	case errors.Is(err, domain.ErrInvalidCandidate):
		return apperrors.NewValidationError("Candidate is not on the ballot for this position", nil)
	case errors.Is(err, domain.ErrElectionNotFound):
		return apperrors.NewNotFoundError("Election not found")
	case errors.Is(err, domain.ErrPositionNotFound):
		return apperrors.NewNotFoundError("Position not found")
	case errors.Is(err, domain.ErrCandidateNotFound):
		return apperrors.NewNotFoundError("Candidate not found")
	case errors.Is(err, domain.ErrMemberNotFound):
		return apperrors.NewNotFoundError("Member not found")
	default:
		return apperrors.NewInternalError("Internal server error", err)
	}
}
