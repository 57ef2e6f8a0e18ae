package domain

import "time"

// Candidate is a member's approved-or-pending run for a position. Name,
// unit and designation come from the member directory join.
type Candidate struct {
	ID          int64     `json:"id"`
	ElectionID  int64     `json:"election_id"`
	PositionID  int64     `json:"position_id"`
	MemberID    int64     `json:"member_id"`
	Platform    string    `json:"platform,omitempty"`
	IsApproved  bool      `json:"is_approved"`
	CreatedAt   time.Time `json:"created_at"`
	Name        string    `json:"name"`
	UnitCollege string    `json:"unit_college,omitempty"`
	Designation string    `json:"designation,omitempty"`
}

// CandidacyInput is a member's application to run for a position
type CandidacyInput struct {
	ElectionID int64  `json:"election_id"`
	PositionID int64  `json:"position_id"`
	MemberID   int64  `json:"member_id"`
	Platform   string `json:"platform"`
}
