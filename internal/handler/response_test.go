package handler

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nhel2500/AUPWU/internal/domain"
	apperrors "github.com/nhel2500/AUPWU/pkg/errors"
)

func TestToAppError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantType   apperrors.ErrorType
		wantStatus int
	}{
		{"already voted", domain.ErrAlreadyVoted, apperrors.ErrorTypeConflict, http.StatusConflict},
		{"has votes", domain.ErrHasVotes, apperrors.ErrorTypeConflict, http.StatusConflict},
		{"duplicate candidacy", domain.ErrDuplicateCandidacy, apperrors.ErrorTypeConflict, http.StatusConflict},
		{"not votable", domain.ErrElectionNotVotable, apperrors.ErrorTypeValidation, http.StatusBadRequest},
		{"invalid candidate", domain.ErrInvalidCandidate, apperrors.ErrorTypeValidation, http.StatusBadRequest},
		{"election not found", domain.ErrElectionNotFound, apperrors.ErrorTypeNotFound, http.StatusNotFound},
		{"position not found", domain.ErrPositionNotFound, apperrors.ErrorTypeNotFound, http.StatusNotFound},
		{"candidate not found", domain.ErrCandidateNotFound, apperrors.ErrorTypeNotFound, http.StatusNotFound},
		{"unknown error", errors.New("pool exhausted"), apperrors.ErrorTypeInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			appErr := toAppError(tt.err)
			assert.Equal(t, tt.wantType, appErr.Type)
			assert.Equal(t, tt.wantStatus, appErr.StatusCode)
		})
	}
}

func TestToAppError_WrappedSentinel(t *testing.T) {
	wrapped := errors.Join(errors.New("cast failed"), domain.ErrAlreadyVoted)
	appErr := toAppError(wrapped)
	assert.Equal(t, http.StatusConflict, appErr.StatusCode)
}

func TestToAppError_PassesThroughAppError(t *testing.T) {
	orig := apperrors.NewValidationError("invalid election", map[string]interface{}{"title": "required"})
	appErr := toAppError(orig)
	assert.Same(t, orig, appErr)
}

func TestToAppError_NeverLeaksInternalDetail(t *testing.T) {
	appErr := toAppError(errors.New("connection refused to db-host:5432"))
	assert.Equal(t, "Internal server error", appErr.Message)
	assert.NotContains(t, appErr.Message, "db-host")
}
