package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/nhel2500/AUPWU/internal/domain"
)

// fakeStore is an in-memory implementation of every repository interface,
// shared by the service tests. Vote uniqueness is enforced under a mutex
// the way the database enforces it with a unique index.
type fakeStore struct {
	mu         sync.Mutex
	elections  map[int64]*domain.Election
	positions  map[int64]*domain.Position
	candidates map[int64]*domain.Candidate
	members    map[int64]*domain.Member
	votes      map[string]*domain.Vote
	activities []fakeActivity
	nextID     int64
}

type fakeActivity struct {
	ActorID int64
	Action  string
	Details string
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		elections:  make(map[int64]*domain.Election),
		positions:  make(map[int64]*domain.Position),
		candidates: make(map[int64]*domain.Candidate),
		members:    make(map[int64]*domain.Member),
		votes:      make(map[string]*domain.Vote),
	}
}

func (s *fakeStore) id() int64 {
	s.nextID++
	return s.nextID
}

func voteKey(positionID, voterID int64) string {
	return fmt.Sprintf("%d:%d", positionID, voterID)
}

// Seeding helpers

func (s *fakeStore) addMember(name string, active bool) *domain.Member {
	s.mu.Lock()
	defer s.mu.Unlock()
	m := &domain.Member{ID: s.id(), Name: name, IsActive: active, CreatedAt: time.Now()}
	s.members[m.ID] = m
	return m
}

func (s *fakeStore) addElection(start, end time.Time, active bool) *domain.Election {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := &domain.Election{
		ID:        s.id(),
		Title:     fmt.Sprintf("Election %d", s.nextID),
		StartDate: start,
		EndDate:   end,
		IsActive:  active,
		CreatedAt: time.Now(),
	}
	s.elections[e.ID] = e
	return e
}

func (s *fakeStore) addPosition(electionID int64, title string, maxWinners int) *domain.Position {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := &domain.Position{ID: s.id(), ElectionID: electionID, Title: title, MaxWinners: maxWinners}
	s.positions[p.ID] = p
	return p
}

func (s *fakeStore) addCandidate(positionID int64, member *domain.Member, approved bool) *domain.Candidate {
	s.mu.Lock()
	defer s.mu.Unlock()
	position := s.positions[positionID]
	c := &domain.Candidate{
		ID:         s.id(),
		ElectionID: position.ElectionID,
		PositionID: positionID,
		MemberID:   member.ID,
		IsApproved: approved,
		CreatedAt:  time.Now(),
		Name:       member.Name,
	}
	s.candidates[c.ID] = c
	return c
}

// ElectionRepository

func (s *fakeStore) Create(ctx context.Context, in *domain.ElectionInput) (*domain.Election, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := &domain.Election{
		ID:          s.id(),
		Title:       in.Title,
		Description: in.Description,
		StartDate:   in.StartDate,
		EndDate:     in.EndDate,
		IsActive:    in.IsActive,
		CreatedAt:   time.Now(),
	}
	s.elections[e.ID] = e
	return copyElection(e), nil
}

func (s *fakeStore) Update(ctx context.Context, id int64, in *domain.ElectionInput) (*domain.Election, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.elections[id]
	if !ok {
		return nil, domain.ErrElectionNotFound
	}
	e.Title = in.Title
	e.Description = in.Description
	e.StartDate = in.StartDate
	e.EndDate = in.EndDate
	e.IsActive = in.IsActive
	return copyElection(e), nil
}

func (s *fakeStore) GetByID(ctx context.Context, id int64) (*domain.Election, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.elections[id]
	if !ok {
		return nil, nil
	}
	return copyElection(e), nil
}

func (s *fakeStore) List(ctx context.Context) ([]domain.Election, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Election, 0, len(s.elections))
	for _, e := range s.elections {
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartDate.After(out[j].StartDate) })
	return out, nil
}

func (s *fakeStore) ListOpen(ctx context.Context) ([]domain.Election, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	out := make([]domain.Election, 0)
	for _, e := range s.elections {
		if e.IsVotable(now) {
			out = append(out, *e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartDate.Before(out[j].StartDate) })
	return out, nil
}

func (s *fakeStore) Delete(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.elections[id]; !ok {
		return domain.ErrElectionNotFound
	}
	for _, v := range s.votes {
		if v.ElectionID == id {
			return domain.ErrHasVotes
		}
	}
	for cid, c := range s.candidates {
		if c.ElectionID == id {
			delete(s.candidates, cid)
		}
	}
	for pid, p := range s.positions {
		if p.ElectionID == id {
			delete(s.positions, pid)
		}
	}
	delete(s.elections, id)
	return nil
}

func (s *fakeStore) ListPositions(ctx context.Context, electionID int64) ([]domain.Position, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.positionsOf(electionID), nil
}

func (s *fakeStore) positionsOf(electionID int64) []domain.Position {
	out := make([]domain.Position, 0)
	for _, p := range s.positions {
		if p.ElectionID == electionID {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *fakeStore) GetPosition(ctx context.Context, positionID int64) (*domain.Position, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.positions[positionID]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (s *fakeStore) SetPositions(ctx context.Context, electionID int64, entries []domain.PositionEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	remaining := make(map[int64]bool)
	for id, p := range s.positions {
		if p.ElectionID == electionID {
			remaining[id] = true
		}
	}
	for _, entry := range entries {
		if entry.Title == "" {
			continue
		}
		maxWinners := entry.MaxWinners
		if maxWinners < 1 {
			maxWinners = 1
		}
		if entry.ID != nil {
			p, ok := s.positions[*entry.ID]
			if !ok || p.ElectionID != electionID {
				return domain.ErrPositionNotFound
			}
			p.Title = entry.Title
			p.Description = entry.Description
			p.MaxWinners = maxWinners
			delete(remaining, *entry.ID)
			continue
		}
		p := &domain.Position{
			ID:          s.id(),
			ElectionID:  electionID,
			Title:       entry.Title,
			Description: entry.Description,
			MaxWinners:  maxWinners,
		}
		s.positions[p.ID] = p
	}
	for id := range remaining {
		for cid, c := range s.candidates {
			if c.PositionID == id {
				delete(s.candidates, cid)
			}
		}
		delete(s.positions, id)
	}
	return nil
}

// CandidateRepository

func (s *fakeStore) CreateCandidacy(ctx context.Context, in *domain.CandidacyInput) (*domain.Candidate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.candidates {
		if c.PositionID == in.PositionID && c.MemberID == in.MemberID {
			return nil, domain.ErrDuplicateCandidacy
		}
	}
	c := &domain.Candidate{
		ID:         s.id(),
		ElectionID: in.ElectionID,
		PositionID: in.PositionID,
		MemberID:   in.MemberID,
		Platform:   in.Platform,
		CreatedAt:  time.Now(),
	}
	if m, ok := s.members[in.MemberID]; ok {
		c.Name = m.Name
	}
	s.candidates[c.ID] = c
	cp := *c
	return &cp, nil
}

func (s *fakeStore) GetCandidateByID(ctx context.Context, id int64) (*domain.Candidate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.candidates[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (s *fakeStore) SetApproval(ctx context.Context, id int64, approved bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.candidates[id]
	if !ok {
		return domain.ErrCandidateNotFound
	}
	c.IsApproved = approved
	return nil
}

func (s *fakeStore) ListByPosition(ctx context.Context, positionID int64, approvedOnly bool) ([]domain.Candidate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Candidate, 0)
	for _, c := range s.candidates {
		if c.PositionID != positionID {
			continue
		}
		if approvedOnly && !c.IsApproved {
			continue
		}
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool {
		if !approvedOnly && out[i].IsApproved != out[j].IsApproved {
			return out[i].IsApproved
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

// VoteRepository

func (s *fakeStore) HasVoted(ctx context.Context, electionID, positionID, voterID int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.votes[voteKey(positionID, voterID)]
	return ok, nil
}

func (s *fakeStore) Progress(ctx context.Context, electionID, voterID int64) ([]domain.PositionProgress, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	positions := s.positionsOf(electionID)
	out := make([]domain.PositionProgress, 0, len(positions))
	for _, p := range positions {
		_, voted := s.votes[voteKey(p.ID, voterID)]
		out = append(out, domain.PositionProgress{
			PositionID:    p.ID,
			PositionTitle: p.Title,
			Voted:         voted,
		})
	}
	return out, nil
}

func (s *fakeStore) CastVote(ctx context.Context, vote *domain.Vote) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := voteKey(vote.PositionID, vote.VoterID)
	if _, ok := s.votes[key]; ok {
		return domain.ErrAlreadyVoted
	}
	c, ok := s.candidates[vote.CandidateID]
	if !ok || !c.IsApproved || c.PositionID != vote.PositionID || c.ElectionID != vote.ElectionID {
		return domain.ErrInvalidCandidate
	}
	vote.ID = s.id()
	vote.CreatedAt = time.Now()
	cp := *vote
	s.votes[key] = &cp
	return nil
}

func (s *fakeStore) Tally(ctx context.Context, electionID, positionID int64) ([]domain.CandidateTally, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	counts := make(map[int64]int)
	for _, v := range s.votes {
		if v.PositionID == positionID {
			counts[v.CandidateID]++
		}
	}
	out := make([]domain.CandidateTally, 0)
	for _, c := range s.candidates {
		if c.PositionID != positionID || !c.IsApproved {
			continue
		}
		out = append(out, domain.CandidateTally{
			CandidateID: c.ID,
			MemberID:    c.MemberID,
			Name:        c.Name,
			VoteCount:   counts[c.ID],
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].VoteCount != out[j].VoteCount {
			return out[i].VoteCount > out[j].VoteCount
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (s *fakeStore) CountForElection(ctx context.Context, electionID int64) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, v := range s.votes {
		if v.ElectionID == electionID {
			n++
		}
	}
	return n, nil
}

func (s *fakeStore) CountForPosition(ctx context.Context, positionID int64) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, v := range s.votes {
		if v.PositionID == positionID {
			n++
		}
	}
	return n, nil
}

func (s *fakeStore) DistinctVoters(ctx context.Context, electionID int64) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	voters := make(map[int64]bool)
	for _, v := range s.votes {
		if v.ElectionID == electionID {
			voters[v.VoterID] = true
		}
	}
	return len(voters), nil
}

// MemberRepository

func (s *fakeStore) GetMemberByID(ctx context.Context, id int64) (*domain.Member, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.members[id]
	if !ok {
		return nil, nil
	}
	cp := *m
	return &cp, nil
}

func (s *fakeStore) CountActive(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, m := range s.members {
		if m.IsActive {
			n++
		}
	}
	return n, nil
}

// ActivityRepository

func (s *fakeStore) Record(ctx context.Context, actorID int64, action, details string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.activities = append(s.activities, fakeActivity{ActorID: actorID, Action: action, Details: details})
	return nil
}

func copyElection(e *domain.Election) *domain.Election {
	cp := *e
	return &cp
}

// Adapters renaming the colliding Create/GetByID methods onto the
// repository interfaces.

type fakeCandidateRepo struct{ *fakeStore }

func (r fakeCandidateRepo) Create(ctx context.Context, in *domain.CandidacyInput) (*domain.Candidate, error) {
	return r.CreateCandidacy(ctx, in)
}

func (r fakeCandidateRepo) GetByID(ctx context.Context, id int64) (*domain.Candidate, error) {
	return r.GetCandidateByID(ctx, id)
}

type fakeMemberRepo struct{ *fakeStore }

func (r fakeMemberRepo) GetByID(ctx context.Context, id int64) (*domain.Member, error) {
	return r.GetMemberByID(ctx, id)
}

func (s *fakeStore) candidateRepo() fakeCandidateRepo { return fakeCandidateRepo{s} }
func (s *fakeStore) memberRepo() fakeMemberRepo       { return fakeMemberRepo{s} }

func (s *fakeStore) lastActivity() *fakeActivity {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.activities) == 0 {
		return nil
	}
	return &s.activities[len(s.activities)-1]
}
