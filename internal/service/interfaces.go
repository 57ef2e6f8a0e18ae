package service

import (
	"context"

	"github.com/nhel2500/AUPWU/internal/domain"
)

// AuthService validates bearer tokens and resolves the acting member
type AuthService interface {
	// ValidateToken verifies a bearer token and returns the member identity
	ValidateToken(ctx context.Context, token string) (*domain.AuthenticatedMember, error)
}

// Ballot drives a voter through an election's positions
type Ballot interface {
	// ListOpenElections returns elections currently accepting votes
	ListOpenElections(ctx context.Context) ([]domain.Election, error)

	// GetBallot computes the voter's progress and current position
	GetBallot(ctx context.Context, electionID, voterID int64) (*domain.BallotState, error)

	// GetPositionBallot returns the ballot form for one position, or a
	// redirect outcome when the voter already voted for it
	GetPositionBallot(ctx context.Context, electionID, positionID, voterID int64) (*domain.PositionBallot, error)

	// CastVote records one vote atomically and reports where to go next
	CastVote(ctx context.Context, req *domain.CastVoteRequest) (*domain.CastVoteResponse, error)
}

// Tally aggregates votes into ranked results
type Tally interface {
	// Tally returns the ranked result for one position
	Tally(ctx context.Context, electionID, positionID int64) (*domain.PositionResult, error)

	// Winners returns the top max_winners rows of the position tally
	Winners(ctx context.Context, electionID, positionID int64) ([]domain.CandidateTally, error)

	// Turnout reports participation for an election against active members
	Turnout(ctx context.Context, electionID int64) (*domain.TurnoutStats, error)

	// Report aggregates every position's tally plus turnout
	Report(ctx context.Context, electionID int64) (*domain.ElectionReport, error)
}

// ElectionAdmin manages the election lifecycle
type ElectionAdmin interface {
	Create(ctx context.Context, actorID int64, in *domain.ElectionInput) (*domain.Election, error)
	Update(ctx context.Context, actorID, id int64, in *domain.ElectionInput) (*domain.Election, error)
	Delete(ctx context.Context, actorID, id int64) error
	SetPositions(ctx context.Context, actorID, electionID int64, entries []domain.PositionEntry) error
	Get(ctx context.Context, id int64) (*domain.Election, []domain.Position, error)
	List(ctx context.Context) ([]domain.Election, error)
}

// Candidacy manages candidate registration and approval
type Candidacy interface {
	Apply(ctx context.Context, in *domain.CandidacyInput) (*domain.Candidate, error)
	Approve(ctx context.Context, actorID, candidateID int64, approved bool) (*domain.Candidate, error)
	ListForReview(ctx context.Context, positionID int64) ([]domain.Candidate, error)
	ListApproved(ctx context.Context, positionID int64) ([]domain.Candidate, error)
}
