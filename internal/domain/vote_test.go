package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNextPending(t *testing.T) {
	tests := []struct {
		name     string
		progress []PositionProgress
		wantID   int64
		wantOK   bool
	}{
		{
			name:   "no positions",
			wantOK: false,
		},
		{
			name: "first pending",
			progress: []PositionProgress{
				{PositionID: 1, Voted: false},
				{PositionID: 2, Voted: false},
			},
			wantID: 1,
			wantOK: true,
		},
		{
			name: "skips voted positions",
			progress: []PositionProgress{
				{PositionID: 1, Voted: true},
				{PositionID: 2, Voted: false},
				{PositionID: 3, Voted: false},
			},
			wantID: 2,
			wantOK: true,
		},
		{
			name: "gap in the middle",
			progress: []PositionProgress{
				{PositionID: 1, Voted: true},
				{PositionID: 2, Voted: false},
				{PositionID: 3, Voted: true},
			},
			wantID: 2,
			wantOK: true,
		},
		{
			name: "all voted",
			progress: []PositionProgress{
				{PositionID: 1, Voted: true},
				{PositionID: 2, Voted: true},
			},
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, ok := NextPending(tt.progress)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.wantID, id)
			}
		})
	}
}

func TestPercentComplete(t *testing.T) {
	assert.Equal(t, 0, PercentComplete(nil))

	progress := []PositionProgress{
		{PositionID: 1, Voted: true},
		{PositionID: 2, Voted: false},
		{PositionID: 3, Voted: false},
	}
	assert.Equal(t, 33, PercentComplete(progress))

	progress[1].Voted = true
	progress[2].Voted = true
	assert.Equal(t, 100, PercentComplete(progress))
}

func TestElectionIsVotable(t *testing.T) {
	now := time.Now()
	election := Election{
		StartDate: now.Add(-time.Hour),
		EndDate:   now.Add(time.Hour),
		IsActive:  true,
	}

	assert.True(t, election.IsVotable(now))
	// The window is inclusive on both ends.
	assert.True(t, election.IsVotable(election.StartDate))
	assert.True(t, election.IsVotable(election.EndDate))

	assert.False(t, election.IsVotable(election.StartDate.Add(-time.Second)))
	assert.False(t, election.IsVotable(election.EndDate.Add(time.Second)))

	election.IsActive = false
	assert.False(t, election.IsVotable(now))
}
