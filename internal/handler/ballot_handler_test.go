package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/nhel2500/AUPWU/internal/domain"
	"github.com/nhel2500/AUPWU/internal/middleware"
	"github.com/nhel2500/AUPWU/pkg/logger"
)

type stubBallot struct {
	openElections []domain.Election
	state         *domain.BallotState
	positionBal   *domain.PositionBallot
	castResp      *domain.CastVoteResponse
	err           error
	gotRequest    *domain.CastVoteRequest
}

func (s *stubBallot) ListOpenElections(ctx context.Context) ([]domain.Election, error) {
	return s.openElections, s.err
}

func (s *stubBallot) GetBallot(ctx context.Context, electionID, voterID int64) (*domain.BallotState, error) {
	return s.state, s.err
}

func (s *stubBallot) GetPositionBallot(ctx context.Context, electionID, positionID, voterID int64) (*domain.PositionBallot, error) {
	return s.positionBal, s.err
}

func (s *stubBallot) CastVote(ctx context.Context, req *domain.CastVoteRequest) (*domain.CastVoteResponse, error) {
	s.gotRequest = req
	return s.castResp, s.err
}

func testHandlerLogger() *logger.Logger {
	return &logger.Logger{Logger: zap.NewNop()}
}

func ballotRouter(stub *stubBallot) *chi.Mux {
	h := NewBallotHandler(stub, testHandlerLogger())
	r := chi.NewRouter()
	r.Get("/elections", h.ListOpenElections)
	r.Get("/elections/{electionID}/ballot", h.GetBallot)
	r.Post("/elections/{electionID}/vote", h.CastVote)
	return r
}

func asMember(r *http.Request, memberID int64) *http.Request {
	member := &domain.AuthenticatedMember{MemberID: memberID, Role: domain.RoleMember}
	return r.WithContext(context.WithValue(r.Context(), middleware.MemberContextKey, member))
}

func TestBallotHandler_CastVote(t *testing.T) {
	stub := &stubBallot{
		castResp: &domain.CastVoteResponse{
			ReceiptID:      "VR2026abcdef",
			PositionID:     3,
			NextPositionID: 4,
			CastAt:         time.Now(),
			Message:        "Vote recorded",
		},
	}
	router := ballotRouter(stub)

	body := `{"position_id":3,"candidate_id":7}`
	req := asMember(httptest.NewRequest(http.MethodPost, "/elections/1/vote", strings.NewReader(body)), 42)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	require.NotNil(t, stub.gotRequest)
	assert.Equal(t, int64(1), stub.gotRequest.ElectionID)
	assert.Equal(t, int64(42), stub.gotRequest.VoterID)
	assert.Equal(t, int64(7), stub.gotRequest.CandidateID)

	var resp domain.CastVoteResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "VR2026abcdef", resp.ReceiptID)
}

func TestBallotHandler_CastVote_AlreadyVoted(t *testing.T) {
	stub := &stubBallot{err: domain.ErrAlreadyVoted}
	router := ballotRouter(stub)

	body := `{"position_id":3,"candidate_id":7}`
	req := asMember(httptest.NewRequest(http.MethodPost, "/elections/1/vote", strings.NewReader(body)), 42)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "conflict")
}

func TestBallotHandler_CastVote_Unauthenticated(t *testing.T) {
	router := ballotRouter(&stubBallot{})

	body := `{"position_id":3,"candidate_id":7}`
	req := httptest.NewRequest(http.MethodPost, "/elections/1/vote", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestBallotHandler_CastVote_InvalidBody(t *testing.T) {
	router := ballotRouter(&stubBallot{})

	tests := []struct {
		name string
		body string
	}{
		{name: "malformed json", body: `{`},
		{name: "missing candidate", body: `{"position_id":3}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := asMember(httptest.NewRequest(http.MethodPost, "/elections/1/vote", strings.NewReader(tt.body)), 42)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestBallotHandler_CastVote_InvalidElectionID(t *testing.T) {
	router := ballotRouter(&stubBallot{})

	req := asMember(httptest.NewRequest(http.MethodPost, "/elections/abc/vote", strings.NewReader(`{}`)), 42)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBallotHandler_GetBallot(t *testing.T) {
	stub := &stubBallot{
		state: &domain.BallotState{
			Election:          &domain.Election{ID: 1, Title: "General Election"},
			CurrentPositionID: 2,
			PercentComplete:   50,
		},
	}
	router := ballotRouter(stub)

	req := asMember(httptest.NewRequest(http.MethodGet, "/elections/1/ballot", nil), 42)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var state domain.BallotState
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &state))
	assert.Equal(t, int64(2), state.CurrentPositionID)
}

func TestBallotHandler_GetBallot_ElectionNotVotable(t *testing.T) {
	stub := &stubBallot{err: domain.ErrElectionNotVotable}
	router := ballotRouter(stub)

	req := asMember(httptest.NewRequest(http.MethodGet, "/elections/1/ballot", nil), 42)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBallotHandler_ListOpenElections(t *testing.T) {
	stub := &stubBallot{
		openElections: []domain.Election{{ID: 1, Title: "General Election"}},
	}
	router := ballotRouter(stub)

	req := httptest.NewRequest(http.MethodGet, "/elections", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "General Election")
}
