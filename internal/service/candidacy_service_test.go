package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhel2500/AUPWU/internal/domain"
)

type candidacyFixture struct {
	store    *fakeStore
	service  *CandidacyService
	election *domain.Election
	position *domain.Position
	member   *domain.Member
	admin    *domain.Member
}

func newCandidacyFixture(t *testing.T) *candidacyFixture {
	t.Helper()
	store := newFakeStore()

	f := &candidacyFixture{
		store:  store,
		member: store.addMember("Ana Reyes", true),
		admin:  store.addMember("Admin", true),
	}
	f.election = store.addElection(time.Now().Add(-time.Hour), time.Now().Add(time.Hour), true)
	f.position = store.addPosition(f.election.ID, "President", 1)

	audit := NewAuditService(store, testLogger())
	f.service = NewCandidacyService(store, store.candidateRepo(), store.memberRepo(), audit, testLogger())
	return f
}

func TestCandidacyService_Apply(t *testing.T) {
	f := newCandidacyFixture(t)

	candidate, err := f.service.Apply(context.Background(), &domain.CandidacyInput{
		PositionID: f.position.ID,
		MemberID:   f.member.ID,
		Platform:   "Transparent union finances",
	})
	require.NoError(t, err)

	assert.False(t, candidate.IsApproved, "new candidacies start unapproved")
	assert.Equal(t, f.election.ID, candidate.ElectionID)
	assert.Equal(t, "Ana Reyes", candidate.Name)

	entry := f.store.lastActivity()
	require.NotNil(t, entry)
	assert.Equal(t, "apply_candidacy", entry.Action)
}

func TestCandidacyService_Apply_Duplicate(t *testing.T) {
	f := newCandidacyFixture(t)
	in := &domain.CandidacyInput{PositionID: f.position.ID, MemberID: f.member.ID}

	_, err := f.service.Apply(context.Background(), in)
	require.NoError(t, err)

	_, err = f.service.Apply(context.Background(), in)
	assert.ErrorIs(t, err, domain.ErrDuplicateCandidacy)
}

func TestCandidacyService_Apply_UnknownPosition(t *testing.T) {
	f := newCandidacyFixture(t)

	_, err := f.service.Apply(context.Background(), &domain.CandidacyInput{
		PositionID: 9999,
		MemberID:   f.member.ID,
	})
	assert.ErrorIs(t, err, domain.ErrPositionNotFound)
}

func TestCandidacyService_Apply_UnknownMember(t *testing.T) {
	f := newCandidacyFixture(t)

	_, err := f.service.Apply(context.Background(), &domain.CandidacyInput{
		PositionID: f.position.ID,
		MemberID:   9999,
	})
	assert.ErrorIs(t, err, domain.ErrMemberNotFound)
}

func TestCandidacyService_Approve(t *testing.T) {
	f := newCandidacyFixture(t)
	candidate := f.store.addCandidate(f.position.ID, f.member, false)

	approved, err := f.service.Approve(context.Background(), f.admin.ID, candidate.ID, true)
	require.NoError(t, err)
	assert.True(t, approved.IsApproved)

	entry := f.store.lastActivity()
	require.NotNil(t, entry)
	assert.Equal(t, "approve_candidacy", entry.Action)
	assert.Equal(t, f.admin.ID, entry.ActorID)

	// Approving twice is a no-op, not an error.
	approved, err = f.service.Approve(context.Background(), f.admin.ID, candidate.ID, true)
	require.NoError(t, err)
	assert.True(t, approved.IsApproved)
}

func TestCandidacyService_Reject(t *testing.T) {
	f := newCandidacyFixture(t)
	candidate := f.store.addCandidate(f.position.ID, f.member, true)

	rejected, err := f.service.Approve(context.Background(), f.admin.ID, candidate.ID, false)
	require.NoError(t, err)
	assert.False(t, rejected.IsApproved)

	entry := f.store.lastActivity()
	require.NotNil(t, entry)
	assert.Equal(t, "reject_candidacy", entry.Action)
}

func TestCandidacyService_Approve_UnknownCandidate(t *testing.T) {
	f := newCandidacyFixture(t)

	_, err := f.service.Approve(context.Background(), f.admin.ID, 9999, true)
	assert.ErrorIs(t, err, domain.ErrCandidateNotFound)
}

func TestCandidacyService_ListForReview_ApprovedFirst(t *testing.T) {
	f := newCandidacyFixture(t)
	ben := f.store.addMember("Ben Silva", true)
	cai := f.store.addMember("Cai Tan", true)
	f.store.addCandidate(f.position.ID, f.member, false) // Ana, pending
	f.store.addCandidate(f.position.ID, ben, true)
	f.store.addCandidate(f.position.ID, cai, false)

	candidates, err := f.service.ListForReview(context.Background(), f.position.ID)
	require.NoError(t, err)

	require.Len(t, candidates, 3)
	assert.Equal(t, "Ben Silva", candidates[0].Name)
	assert.Equal(t, "Ana Reyes", candidates[1].Name)
	assert.Equal(t, "Cai Tan", candidates[2].Name)
}

func TestCandidacyService_ListApproved(t *testing.T) {
	f := newCandidacyFixture(t)
	ben := f.store.addMember("Ben Silva", true)
	f.store.addCandidate(f.position.ID, f.member, false)
	f.store.addCandidate(f.position.ID, ben, true)

	candidates, err := f.service.ListApproved(context.Background(), f.position.ID)
	require.NoError(t, err)

	require.Len(t, candidates, 1)
	assert.Equal(t, "Ben Silva", candidates[0].Name)

	_, err = f.service.ListApproved(context.Background(), 9999)
	assert.ErrorIs(t, err, domain.ErrPositionNotFound)
}
