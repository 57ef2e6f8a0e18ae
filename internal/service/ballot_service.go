package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/nhel2500/AUPWU/internal/domain"
	"github.com/nhel2500/AUPWU/internal/repository"
	"github.com/nhel2500/AUPWU/pkg/logger"
	"github.com/nhel2500/AUPWU/pkg/redis"
)

// BallotService walks a voter through an election position by position
// and records votes. It is the only write path into the votes table.
type BallotService struct {
	electionRepo  repository.ElectionRepository
	candidateRepo repository.CandidateRepository
	voteRepo      repository.VoteRepository
	redisClient   *redis.Client
	audit         *AuditService
	logger        *logger.Logger
	now           func() time.Time
}

func NewBallotService(
	electionRepo repository.ElectionRepository,
	candidateRepo repository.CandidateRepository,
	voteRepo repository.VoteRepository,
	redisClient *redis.Client,
	audit *AuditService,
	log *logger.Logger,
) *BallotService {
	return &BallotService{
		electionRepo:  electionRepo,
		candidateRepo: candidateRepo,
		voteRepo:      voteRepo,
		redisClient:   redisClient,
		audit:         audit,
		logger:        log,
		now:           time.Now,
	}
}

// ListOpenElections returns elections inside their voting window,
// serving from cache when available.
func (s *BallotService) ListOpenElections(ctx context.Context) ([]domain.Election, error) {
	if s.redisClient != nil {
		key := s.redisClient.KeyBuilder.KeyOpenElections()
		if cached, err := s.redisClient.Get(ctx, key); err == nil && cached != "" {
			var elections []domain.Election
			if err := json.Unmarshal([]byte(cached), &elections); err == nil {
				return elections, nil
			}
		}
	}

	elections, err := s.electionRepo.ListOpen(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list open elections: %w", err)
	}

	if s.redisClient != nil {
		if data, err := json.Marshal(elections); err == nil {
			key := s.redisClient.KeyBuilder.KeyOpenElections()
			if err := s.redisClient.Set(ctx, key, string(data), redis.TTLOpenElections); err != nil {
				s.logger.Warn("Failed to cache open elections", zap.Error(err))
			}
		}
	}

	return elections, nil
}

// GetBallot computes the voter's position-by-position progress for an
// election and points at the first position still awaiting a vote.
func (s *BallotService) GetBallot(ctx context.Context, electionID, voterID int64) (*domain.BallotState, error) {
	election, err := s.votableElection(ctx, electionID)
	if err != nil {
		return nil, err
	}

	progress, err := s.loadProgress(ctx, electionID, voterID)
	if err != nil {
		return nil, err
	}

	state := &domain.BallotState{
		Election:        election,
		Progress:        progress,
		PercentComplete: domain.PercentComplete(progress),
	}
	if next, ok := domain.NextPending(progress); ok {
		state.CurrentPositionID = next
	} else {
		state.Complete = true
	}
	return state, nil
}

// GetPositionBallot returns the ballot form for one position. When the
// voter already voted for it, no candidate list is returned; instead the
// response carries the next pending position so the client can move on.
func (s *BallotService) GetPositionBallot(ctx context.Context, electionID, positionID, voterID int64) (*domain.PositionBallot, error) {
	if _, err := s.votableElection(ctx, electionID); err != nil {
		return nil, err
	}

	position, err := s.electionRepo.GetPosition(ctx, positionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get position: %w", err)
	}
	if position == nil || position.ElectionID != electionID {
		return nil, domain.ErrPositionNotFound
	}

	voted, err := s.voteRepo.HasVoted(ctx, electionID, positionID, voterID)
	if err != nil {
		return nil, fmt.Errorf("failed to check vote: %w", err)
	}

	ballot := &domain.PositionBallot{
		Position:     position,
		AlreadyVoted: voted,
	}
	if voted {
		progress, err := s.loadProgress(ctx, electionID, voterID)
		if err != nil {
			return nil, err
		}
		if next, ok := domain.NextPending(progress); ok {
			ballot.NextPositionID = next
		} else {
			ballot.Complete = true
		}
		return ballot, nil
	}

	candidates, err := s.candidateRepo.ListByPosition(ctx, positionID, true)
	if err != nil {
		return nil, fmt.Errorf("failed to list candidates: %w", err)
	}
	ballot.Candidates = candidates
	return ballot, nil
}

// CastVote records one vote for the voter. Double votes are rejected no
// matter how many requests race; the unique index on (position_id,
// voter_id) is the authoritative guard.
func (s *BallotService) CastVote(ctx context.Context, req *domain.CastVoteRequest) (*domain.CastVoteResponse, error) {
	if _, err := s.votableElection(ctx, req.ElectionID); err != nil {
		return nil, err
	}

	// Cache check short-circuits obvious repeats; the database decides.
	if s.redisClient != nil {
		key := s.redisClient.KeyBuilder.KeyBallotVoted(req.VoterID, req.PositionID)
		if n, err := s.redisClient.Exists(ctx, key); err == nil && n > 0 {
			return nil, domain.ErrAlreadyVoted
		}
	}

	vote := &domain.Vote{
		ReceiptID:   s.generateReceiptID(),
		ElectionID:  req.ElectionID,
		PositionID:  req.PositionID,
		CandidateID: req.CandidateID,
		VoterID:     req.VoterID,
	}
	if err := s.voteRepo.CastVote(ctx, vote); err != nil {
		return nil, err
	}

	s.markVoted(ctx, req)
	s.audit.Record(ctx, req.VoterID, "cast_vote",
		fmt.Sprintf("Voted for position %d in election %d", req.PositionID, req.ElectionID))

	progress, err := s.loadProgress(ctx, req.ElectionID, req.VoterID)
	if err != nil {
		return nil, err
	}

	resp := &domain.CastVoteResponse{
		ReceiptID:  vote.ReceiptID,
		PositionID: req.PositionID,
		CastAt:     vote.CreatedAt,
		Message:    "Vote recorded",
	}
	if next, ok := domain.NextPending(progress); ok {
		resp.NextPositionID = next
	} else {
		resp.Complete = true
		resp.Message = "Ballot complete"
	}
	return resp, nil
}

// loadProgress returns the voter's per-position progress, serving from
// cache when available. The cache entry is dropped on every cast.
func (s *BallotService) loadProgress(ctx context.Context, electionID, voterID int64) ([]domain.PositionProgress, error) {
	var key string
	if s.redisClient != nil {
		key = s.redisClient.KeyBuilder.KeyBallotProgress(voterID, electionID)
		if cached, err := s.redisClient.Get(ctx, key); err == nil && cached != "" {
			var progress []domain.PositionProgress
			if err := json.Unmarshal([]byte(cached), &progress); err == nil {
				return progress, nil
			}
		}
	}

	progress, err := s.voteRepo.Progress(ctx, electionID, voterID)
	if err != nil {
		return nil, fmt.Errorf("failed to load ballot progress: %w", err)
	}

	if s.redisClient != nil {
		if data, err := json.Marshal(progress); err == nil {
			if err := s.redisClient.Set(ctx, key, string(data), redis.TTLProgress); err != nil {
				s.logger.Warn("Failed to cache ballot progress", zap.Error(err))
			}
		}
	}
	return progress, nil
}

// votableElection loads an election and enforces the voting window.
func (s *BallotService) votableElection(ctx context.Context, electionID int64) (*domain.Election, error) {
	election, err := s.electionRepo.GetByID(ctx, electionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get election: %w", err)
	}
	if election == nil {
		return nil, domain.ErrElectionNotFound
	}
	if !election.IsVotable(s.now()) {
		return nil, domain.ErrElectionNotVotable
	}
	return election, nil
}

// markVoted flips the cached voted flag and drops caches the new vote
// invalidates. Cache errors are logged and ignored.
func (s *BallotService) markVoted(ctx context.Context, req *domain.CastVoteRequest) {
	if s.redisClient == nil {
		return
	}
	votedKey := s.redisClient.KeyBuilder.KeyBallotVoted(req.VoterID, req.PositionID)
	if err := s.redisClient.Set(ctx, votedKey, "1", redis.TTLVoted); err != nil {
		s.logger.Warn("Failed to cache voted flag", zap.Error(err))
	}
	stale := []string{
		s.redisClient.KeyBuilder.KeyBallotProgress(req.VoterID, req.ElectionID),
		s.redisClient.KeyBuilder.KeyTally(req.ElectionID, req.PositionID),
		s.redisClient.KeyBuilder.KeyElectionReport(req.ElectionID),
	}
	for _, key := range stale {
		if err := s.redisClient.Delete(ctx, key); err != nil {
			s.logger.Warn("Failed to invalidate cache", zap.String("key", key), zap.Error(err))
		}
	}
}

// generateReceiptID builds a vote receipt like "VR2026a1b2c3d4e5f6".
func (s *BallotService) generateReceiptID() string {
	buf := make([]byte, 6)
	if _, err := rand.Read(buf); err != nil {
		return fmt.Sprintf("VR%d%d", s.now().Year(), s.now().UnixNano())
	}
	return fmt.Sprintf("VR%d%s", s.now().Year(), hex.EncodeToString(buf))
}
