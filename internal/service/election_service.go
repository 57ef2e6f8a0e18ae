package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/nhel2500/AUPWU/internal/domain"
	"github.com/nhel2500/AUPWU/internal/repository"
	apperrors "github.com/nhel2500/AUPWU/pkg/errors"
	"github.com/nhel2500/AUPWU/pkg/logger"
	"github.com/nhel2500/AUPWU/pkg/redis"
)

// ElectionService manages the election lifecycle: create, update, delete
// and the batch position editor.
type ElectionService struct {
	electionRepo repository.ElectionRepository
	redisClient  *redis.Client
	audit        *AuditService
	logger       *logger.Logger
}

func NewElectionService(
	electionRepo repository.ElectionRepository,
	redisClient *redis.Client,
	audit *AuditService,
	log *logger.Logger,
) *ElectionService {
	return &ElectionService{
		electionRepo: electionRepo,
		redisClient:  redisClient,
		audit:        audit,
		logger:       log,
	}
}

// Create validates and stores a new election.
func (s *ElectionService) Create(ctx context.Context, actorID int64, in *domain.ElectionInput) (*domain.Election, error) {
	if err := validateElectionInput(in); err != nil {
		return nil, err
	}

	election, err := s.electionRepo.Create(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("failed to create election: %w", err)
	}

	s.invalidateOpenElections(ctx)
	s.audit.Record(ctx, actorID, "create_election",
		fmt.Sprintf("Created election %q (id %d)", election.Title, election.ID))
	return election, nil
}

// Update rewrites the editable fields of an election.
func (s *ElectionService) Update(ctx context.Context, actorID, id int64, in *domain.ElectionInput) (*domain.Election, error) {
	if err := validateElectionInput(in); err != nil {
		return nil, err
	}

	election, err := s.electionRepo.Update(ctx, id, in)
	if err != nil {
		return nil, err
	}

	s.invalidateOpenElections(ctx)
	s.audit.Record(ctx, actorID, "update_election",
		fmt.Sprintf("Updated election %q (id %d)", election.Title, election.ID))
	return election, nil
}

// Delete removes an election with its positions and candidates. An
// election that already has votes cannot be deleted.
func (s *ElectionService) Delete(ctx context.Context, actorID, id int64) error {
	if err := s.electionRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.invalidateOpenElections(ctx)
	s.audit.Record(ctx, actorID, "delete_election",
		fmt.Sprintf("Deleted election %d", id))
	return nil
}

// SetPositions applies a batch position submission for an election.
func (s *ElectionService) SetPositions(ctx context.Context, actorID, electionID int64, entries []domain.PositionEntry) error {
	election, err := s.electionRepo.GetByID(ctx, electionID)
	if err != nil {
		return fmt.Errorf("failed to get election: %w", err)
	}
	if election == nil {
		return domain.ErrElectionNotFound
	}

	if err := s.electionRepo.SetPositions(ctx, electionID, entries); err != nil {
		return err
	}

	s.audit.Record(ctx, actorID, "set_positions",
		fmt.Sprintf("Updated positions of election %q (id %d)", election.Title, election.ID))
	return nil
}

// Get returns one election with its positions.
func (s *ElectionService) Get(ctx context.Context, id int64) (*domain.Election, []domain.Position, error) {
	election, err := s.electionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get election: %w", err)
	}
	if election == nil {
		return nil, nil, domain.ErrElectionNotFound
	}

	positions, err := s.electionRepo.ListPositions(ctx, id)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list positions: %w", err)
	}
	return election, positions, nil
}

// List returns every election, newest first.
func (s *ElectionService) List(ctx context.Context) ([]domain.Election, error) {
	elections, err := s.electionRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list elections: %w", err)
	}
	return elections, nil
}

func (s *ElectionService) invalidateOpenElections(ctx context.Context) {
	if s.redisClient == nil {
		return
	}
	key := s.redisClient.KeyBuilder.KeyOpenElections()
	if err := s.redisClient.Delete(ctx, key); err != nil {
		s.logger.WithError(err).Warn("Failed to invalidate open elections cache")
	}
}

func validateElectionInput(in *domain.ElectionInput) error {
	details := map[string]interface{}{}
	if strings.TrimSpace(in.Title) == "" {
		details["title"] = "title is required"
	}
	if in.StartDate.IsZero() {
		details["start_date"] = "start_date is required"
	}
	if in.EndDate.IsZero() {
		details["end_date"] = "end_date is required"
	}
	if !in.StartDate.IsZero() && !in.EndDate.IsZero() && in.EndDate.Before(in.StartDate) {
		details["end_date"] = "end_date must not be before start_date"
	}
	if len(details) > 0 {
		return apperrors.NewValidationError("invalid election", details)
	}
	return nil
}
