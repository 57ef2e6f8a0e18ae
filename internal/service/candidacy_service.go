package service

import (
	"context"
	"fmt"

	"github.com/nhel2500/AUPWU/internal/domain"
	"github.com/nhel2500/AUPWU/internal/repository"
	"github.com/nhel2500/AUPWU/pkg/logger"
)

// CandidacyService registers candidacies and runs the approval workflow.
// Only approved candidates ever reach a ballot.
type CandidacyService struct {
	electionRepo  repository.ElectionRepository
	candidateRepo repository.CandidateRepository
	memberRepo    repository.MemberRepository
	audit         *AuditService
	logger        *logger.Logger
}

func NewCandidacyService(
	electionRepo repository.ElectionRepository,
	candidateRepo repository.CandidateRepository,
	memberRepo repository.MemberRepository,
	audit *AuditService,
	log *logger.Logger,
) *CandidacyService {
	return &CandidacyService{
		electionRepo:  electionRepo,
		candidateRepo: candidateRepo,
		memberRepo:    memberRepo,
		audit:         audit,
		logger:        log,
	}
}

// Apply registers a member's candidacy for a position. The candidacy
// starts unapproved and stays off ballots until an officer approves it.
func (s *CandidacyService) Apply(ctx context.Context, in *domain.CandidacyInput) (*domain.Candidate, error) {
	position, err := s.electionRepo.GetPosition(ctx, in.PositionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get position: %w", err)
	}
	if position == nil {
		return nil, domain.ErrPositionNotFound
	}
	in.ElectionID = position.ElectionID

	member, err := s.memberRepo.GetByID(ctx, in.MemberID)
	if err != nil {
		return nil, fmt.Errorf("failed to get member: %w", err)
	}
	if member == nil {
		return nil, domain.ErrMemberNotFound
	}

	candidate, err := s.candidateRepo.Create(ctx, in)
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, in.MemberID, "apply_candidacy",
		fmt.Sprintf("Applied for %q in election %d", position.Title, position.ElectionID))
	return candidate, nil
}

// Approve sets a candidate's approval flag. Repeating a decision is a
// no-op, not an error.
func (s *CandidacyService) Approve(ctx context.Context, actorID, candidateID int64, approved bool) (*domain.Candidate, error) {
	candidate, err := s.candidateRepo.GetByID(ctx, candidateID)
	if err != nil {
		return nil, fmt.Errorf("failed to get candidate: %w", err)
	}
	if candidate == nil {
		return nil, domain.ErrCandidateNotFound
	}

	if candidate.IsApproved != approved {
		if err := s.candidateRepo.SetApproval(ctx, candidateID, approved); err != nil {
			return nil, err
		}
		candidate.IsApproved = approved
	}

	action := "approve_candidacy"
	verb := "Approved"
	if !approved {
		action = "reject_candidacy"
		verb = "Rejected"
	}
	s.audit.Record(ctx, actorID, action,
		fmt.Sprintf("%s candidacy of %s for position %d in election %d",
			verb, candidate.Name, candidate.PositionID, candidate.ElectionID))
	return candidate, nil
}

// ListForReview returns every candidacy for a position in review order:
// approved first, then by name.
func (s *CandidacyService) ListForReview(ctx context.Context, positionID int64) ([]domain.Candidate, error) {
	if err := s.requirePosition(ctx, positionID); err != nil {
		return nil, err
	}
	candidates, err := s.candidateRepo.ListByPosition(ctx, positionID, false)
	if err != nil {
		return nil, fmt.Errorf("failed to list candidates: %w", err)
	}
	return candidates, nil
}

// ListApproved returns the approved candidates for a position by name.
func (s *CandidacyService) ListApproved(ctx context.Context, positionID int64) ([]domain.Candidate, error) {
	if err := s.requirePosition(ctx, positionID); err != nil {
		return nil, err
	}
	candidates, err := s.candidateRepo.ListByPosition(ctx, positionID, true)
	if err != nil {
		return nil, fmt.Errorf("failed to list candidates: %w", err)
	}
	return candidates, nil
}

func (s *CandidacyService) requirePosition(ctx context.Context, positionID int64) error {
	position, err := s.electionRepo.GetPosition(ctx, positionID)
	if err != nil {
		return fmt.Errorf("failed to get position: %w", err)
	}
	if position == nil {
		return domain.ErrPositionNotFound
	}
	return nil
}
