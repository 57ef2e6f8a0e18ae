package domain

import "errors"

// Sentinel errors returned by repositories and services. Handlers map these
// onto the HTTP error taxonomy.
var (
	ErrAlreadyVoted       = errors.New("a vote already exists for this position")
	ErrElectionNotVotable = errors.New("election is not active or outside its voting window")
	ErrInvalidCandidate   = errors.New("candidate is not an approved option for this position")
	ErrHasVotes           = errors.New("election has recorded votes and cannot be deleted")
	ErrDuplicateCandidacy = errors.New("member is already a candidate for this position")

	ErrElectionNotFound  = errors.New("election not found")
	ErrPositionNotFound  = errors.New("position not found")
	ErrCandidateNotFound = errors.New("candidate not found")
	ErrMemberNotFound    = errors.New("member not found")
)
