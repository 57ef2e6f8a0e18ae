package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/nhel2500/AUPWU/internal/domain"
	"github.com/nhel2500/AUPWU/internal/repository"
	"github.com/nhel2500/AUPWU/pkg/logger"
	"github.com/nhel2500/AUPWU/pkg/redis"
)

// TallyService aggregates votes into ranked, deterministic results.
type TallyService struct {
	electionRepo repository.ElectionRepository
	voteRepo     repository.VoteRepository
	memberRepo   repository.MemberRepository
	redisClient  *redis.Client
	logger       *logger.Logger
}

func NewTallyService(
	electionRepo repository.ElectionRepository,
	voteRepo repository.VoteRepository,
	memberRepo repository.MemberRepository,
	redisClient *redis.Client,
	log *logger.Logger,
) *TallyService {
	return &TallyService{
		electionRepo: electionRepo,
		voteRepo:     voteRepo,
		memberRepo:   memberRepo,
		redisClient:  redisClient,
		logger:       log,
	}
}

// Tally returns the ranked result for one position. Rows are ordered by
// vote count descending, then candidate name ascending, so repeated calls
// over the same votes always rank identically.
func (s *TallyService) Tally(ctx context.Context, electionID, positionID int64) (*domain.PositionResult, error) {
	if s.redisClient != nil {
		key := s.redisClient.KeyBuilder.KeyTally(electionID, positionID)
		if cached, err := s.redisClient.Get(ctx, key); err == nil && cached != "" {
			var result domain.PositionResult
			if err := json.Unmarshal([]byte(cached), &result); err == nil {
				return &result, nil
			}
		}
	}

	result, err := s.tallyPosition(ctx, electionID, positionID)
	if err != nil {
		return nil, err
	}

	if s.redisClient != nil {
		if data, err := json.Marshal(result); err == nil {
			key := s.redisClient.KeyBuilder.KeyTally(electionID, positionID)
			if err := s.redisClient.Set(ctx, key, string(data), redis.TTLTally); err != nil {
				s.logger.Warn("Failed to cache tally", zap.Error(err))
			}
		}
	}

	return result, nil
}

// Winners returns the leading rows of the position tally, at most
// max_winners of them.
func (s *TallyService) Winners(ctx context.Context, electionID, positionID int64) ([]domain.CandidateTally, error) {
	result, err := s.Tally(ctx, electionID, positionID)
	if err != nil {
		return nil, err
	}
	winners := make([]domain.CandidateTally, 0, result.Position.MaxWinners)
	for _, row := range result.Candidates {
		if row.IsWinner {
			winners = append(winners, row)
		}
	}
	return winners, nil
}

// Report aggregates every position's tally for an election plus turnout.
func (s *TallyService) Report(ctx context.Context, electionID int64) (*domain.ElectionReport, error) {
	if s.redisClient != nil {
		key := s.redisClient.KeyBuilder.KeyElectionReport(electionID)
		if cached, err := s.redisClient.Get(ctx, key); err == nil && cached != "" {
			var report domain.ElectionReport
			if err := json.Unmarshal([]byte(cached), &report); err == nil {
				return &report, nil
			}
		}
	}

	election, err := s.electionRepo.GetByID(ctx, electionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get election: %w", err)
	}
	if election == nil {
		return nil, domain.ErrElectionNotFound
	}

	positions, err := s.electionRepo.ListPositions(ctx, electionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list positions: %w", err)
	}

	results := make([]domain.PositionResult, 0, len(positions))
	for _, position := range positions {
		result, err := s.tallyPosition(ctx, electionID, position.ID)
		if err != nil {
			return nil, err
		}
		results = append(results, *result)
	}

	turnout, err := s.Turnout(ctx, electionID)
	if err != nil {
		return nil, err
	}

	report := &domain.ElectionReport{
		Election:    *election,
		Results:     results,
		Turnout:     *turnout,
		GeneratedAt: time.Now(),
	}

	if s.redisClient != nil {
		if data, err := json.Marshal(report); err == nil {
			key := s.redisClient.KeyBuilder.KeyElectionReport(electionID)
			if err := s.redisClient.Set(ctx, key, string(data), redis.TTLReport); err != nil {
				s.logger.Warn("Failed to cache election report", zap.Error(err))
			}
		}
	}

	return report, nil
}

func (s *TallyService) tallyPosition(ctx context.Context, electionID, positionID int64) (*domain.PositionResult, error) {
	position, err := s.electionRepo.GetPosition(ctx, positionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get position: %w", err)
	}
	if position == nil || position.ElectionID != electionID {
		return nil, domain.ErrPositionNotFound
	}

	candidates, err := s.voteRepo.Tally(ctx, electionID, positionID)
	if err != nil {
		return nil, fmt.Errorf("failed to tally votes: %w", err)
	}

	totalVotes := 0
	for i := range candidates {
		totalVotes += candidates[i].VoteCount
		candidates[i].IsWinner = i < position.MaxWinners
	}

	return &domain.PositionResult{
		Position:   *position,
		Candidates: candidates,
		TotalVotes: totalVotes,
	}, nil
}

// Turnout computes distinct voters over active members. Zero eligible
// members yields 0 percent, not a division error.
func (s *TallyService) Turnout(ctx context.Context, electionID int64) (*domain.TurnoutStats, error) {
	eligible, err := s.memberRepo.CountActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count active members: %w", err)
	}
	voted, err := s.voteRepo.DistinctVoters(ctx, electionID)
	if err != nil {
		return nil, fmt.Errorf("failed to count voters: %w", err)
	}
	votesCast, err := s.voteRepo.CountForElection(ctx, electionID)
	if err != nil {
		return nil, fmt.Errorf("failed to count votes: %w", err)
	}

	stats := &domain.TurnoutStats{
		EligibleMembers: eligible,
		MembersVoted:    voted,
		VotesCast:       votesCast,
	}
	if eligible > 0 {
		stats.TurnoutPercent = float64(voted) / float64(eligible) * 100
	}
	return stats, nil
}
