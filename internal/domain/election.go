package domain

import "time"

// Election is a time-boxed voting event containing one or more positions
type Election struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

// IsVotable reports whether votes may be cast right now. The window is
// inclusive on both ends.
func (e *Election) IsVotable(now time.Time) bool {
	return e.IsActive && !now.Before(e.StartDate) && !now.After(e.EndDate)
}

// ElectionInput carries the editable election fields
type ElectionInput struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
	IsActive    bool      `json:"is_active"`
}

// Position is a contestable seat within an election
type Position struct {
	ID          int64  `json:"id"`
	ElectionID  int64  `json:"election_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	MaxWinners  int    `json:"max_winners"`
}

// PositionEntry is one row of a batch position submission. A nil ID means
// insert; a set ID means update in place. Existing positions whose ids are
// absent from the submitted batch are deleted.
type PositionEntry struct {
	ID          *int64 `json:"id,omitempty"`
	Title       string `json:"title"`
	Description string `json:"description"`
	MaxWinners  int    `json:"max_winners"`
}
