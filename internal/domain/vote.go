package domain

import "time"

// Vote is an immutable record linking one voter to one candidate for one
// position. At most one vote exists per (position, voter) pair; the votes
// table enforces this with a unique index.
type Vote struct {
	ID          int64     `json:"id"`
	ReceiptID   string    `json:"receipt_id"`
	ElectionID  int64     `json:"election_id"`
	PositionID  int64     `json:"position_id"`
	CandidateID int64     `json:"candidate_id"`
	VoterID     int64     `json:"voter_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// PositionProgress pairs one position with whether the voter has a vote for
// it. Derived per request, never persisted.
type PositionProgress struct {
	PositionID    int64  `json:"position_id"`
	PositionTitle string `json:"position_title"`
	Voted         bool   `json:"voted"`
}

// NextPending returns the first position without a vote, in stable position
// id order. ok is false when every position has been voted.
func NextPending(progress []PositionProgress) (int64, bool) {
	for _, p := range progress {
		if !p.Voted {
			return p.PositionID, true
		}
	}
	return 0, false
}

// PercentComplete returns the voter's progress through the election as a
// whole percentage. Zero positions count as 0, not complete.
func PercentComplete(progress []PositionProgress) int {
	if len(progress) == 0 {
		return 0
	}
	voted := 0
	for _, p := range progress {
		if p.Voted {
			voted++
		}
	}
	return voted * 100 / len(progress)
}

// BallotState is the ballot engine's view of one (election, voter) pair
type BallotState struct {
	Election          *Election          `json:"election"`
	Progress          []PositionProgress `json:"progress"`
	CurrentPositionID int64              `json:"current_position_id,omitempty"`
	Complete          bool               `json:"complete"`
	PercentComplete   int                `json:"percent_complete"`
}

// PositionBallot is the ballot form for one position. When the voter has
// already voted for the position, Candidates is empty and the redirect
// fields point at the next pending position.
type PositionBallot struct {
	Position       *Position   `json:"position,omitempty"`
	Candidates     []Candidate `json:"candidates,omitempty"`
	AlreadyVoted   bool        `json:"already_voted"`
	NextPositionID int64       `json:"next_position_id,omitempty"`
	Complete       bool        `json:"complete"`
}

// CastVoteRequest is a single vote submission
type CastVoteRequest struct {
	ElectionID  int64 `json:"election_id"`
	PositionID  int64 `json:"position_id"`
	CandidateID int64 `json:"candidate_id"`
	VoterID     int64 `json:"-"`
}

// CastVoteResponse acknowledges a committed vote and tells the caller where
// to navigate next
type CastVoteResponse struct {
	ReceiptID      string    `json:"receipt_id"`
	PositionID     int64     `json:"position_id"`
	NextPositionID int64     `json:"next_position_id,omitempty"`
	Complete       bool      `json:"complete"`
	CastAt         time.Time `json:"cast_at"`
	Message        string    `json:"message"`
}

// CandidateTally is one candidate's ranked tally row
type CandidateTally struct {
	CandidateID int64  `json:"candidate_id"`
	MemberID    int64  `json:"member_id"`
	Name        string `json:"name"`
	VoteCount   int    `json:"vote_count"`
	IsWinner    bool   `json:"is_winner"`
}

// PositionResult is the tally for one position with the winners cutoff
// applied
type PositionResult struct {
	Position   Position         `json:"position"`
	Candidates []CandidateTally `json:"candidates"`
	TotalVotes int              `json:"total_votes"`
}

// TurnoutStats relates distinct voters to eligible (active) members
type TurnoutStats struct {
	EligibleMembers int     `json:"eligible_members"`
	MembersVoted    int     `json:"members_voted"`
	VotesCast       int     `json:"votes_cast"`
	TurnoutPercent  float64 `json:"turnout_percent"`
}

// ElectionReport aggregates every position's result plus turnout
type ElectionReport struct {
	Election    Election         `json:"election"`
	Results     []PositionResult `json:"results"`
	Turnout     TurnoutStats     `json:"turnout"`
	GeneratedAt time.Time        `json:"generated_at"`
}
