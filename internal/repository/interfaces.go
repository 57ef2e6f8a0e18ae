package repository

import (
	"context"

	"github.com/nhel2500/AUPWU/internal/domain"
)

// ElectionRepository defines persistence for elections and their positions
type ElectionRepository interface {
	// Create inserts a new election and returns the stored row
	Create(ctx context.Context, in *domain.ElectionInput) (*domain.Election, error)

	// Update rewrites the editable fields of an election
	Update(ctx context.Context, id int64, in *domain.ElectionInput) (*domain.Election, error)

	// GetByID retrieves an election, nil when absent
	GetByID(ctx context.Context, id int64) (*domain.Election, error)

	// List returns all elections ordered by start date descending
	List(ctx context.Context) ([]domain.Election, error)

	// ListOpen returns active elections whose window contains now,
	// ordered by start date ascending
	ListOpen(ctx context.Context) ([]domain.Election, error)

	// Delete removes an election with its candidates and positions.
	// Returns domain.ErrHasVotes when any vote references the election.
	Delete(ctx context.Context, id int64) error

	// ListPositions returns an election's positions in stable id order
	ListPositions(ctx context.Context, electionID int64) ([]domain.Position, error)

	// GetPosition retrieves a position, nil when absent
	GetPosition(ctx context.Context, positionID int64) (*domain.Position, error)

	// SetPositions applies a batch submission: entries with ids update,
	// entries without insert, and existing positions missing from the
	// batch are deleted. One transaction.
	SetPositions(ctx context.Context, electionID int64, entries []domain.PositionEntry) error
}

// CandidateRepository defines persistence for candidacies
type CandidateRepository interface {
	// Create registers a pending candidacy. Returns
	// domain.ErrDuplicateCandidacy when the member already runs for the
	// position.
	Create(ctx context.Context, in *domain.CandidacyInput) (*domain.Candidate, error)

	// GetByID retrieves a candidate joined with the member directory,
	// nil when absent
	GetByID(ctx context.Context, id int64) (*domain.Candidate, error)

	// SetApproval sets the approval flag. Returns
	// domain.ErrCandidateNotFound when no such candidate exists.
	SetApproval(ctx context.Context, id int64, approved bool) error

	// ListByPosition returns candidates for a position. With approvedOnly
	// the list is approved candidates by name; otherwise pending-last
	// review order (approved first, then by name).
	ListByPosition(ctx context.Context, positionID int64, approvedOnly bool) ([]domain.Candidate, error)
}

// VoteRepository defines persistence for votes and derived progress
type VoteRepository interface {
	// HasVoted reports whether a vote exists for (position, voter)
	HasVoted(ctx context.Context, electionID, positionID, voterID int64) (bool, error)

	// Progress left-joins an election's positions against the voter's
	// votes, in stable position id order
	Progress(ctx context.Context, electionID, voterID int64) ([]domain.PositionProgress, error)

	// CastVote inserts the vote inside one transaction that re-checks
	// the uniqueness invariant and the approved-candidate join first.
	// Returns domain.ErrAlreadyVoted or domain.ErrInvalidCandidate.
	CastVote(ctx context.Context, vote *domain.Vote) error

	// Tally returns approved candidates with vote counts for a position,
	// ordered by count descending then name ascending
	Tally(ctx context.Context, electionID, positionID int64) ([]domain.CandidateTally, error)

	// CountForElection returns the number of votes referencing an election
	CountForElection(ctx context.Context, electionID int64) (int, error)

	// CountForPosition returns the number of votes cast for a position
	CountForPosition(ctx context.Context, positionID int64) (int, error)

	// DistinctVoters returns how many members have cast at least one
	// vote in the election
	DistinctVoters(ctx context.Context, electionID int64) (int, error)
}

// MemberRepository is the member directory consumed by the voting core
type MemberRepository interface {
	// GetByID retrieves a member record, nil when absent
	GetByID(ctx context.Context, id int64) (*domain.Member, error)

	// CountActive returns the number of active members (turnout denominator)
	CountActive(ctx context.Context) (int, error)
}

// ActivityRepository is the audit log sink
type ActivityRepository interface {
	// Record appends an audit entry
	Record(ctx context.Context, actorID int64, action, details string) error
}

// Repositories aggregates all repository interfaces
type Repositories struct {
	Election  ElectionRepository
	Candidate CandidateRepository
	Vote      VoteRepository
	Member    MemberRepository
	Activity  ActivityRepository
}
