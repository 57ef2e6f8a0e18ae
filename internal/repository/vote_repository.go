package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/nhel2500/AUPWU/internal/domain"
	"github.com/nhel2500/AUPWU/pkg/database"
)

type PostgresVoteRepository struct {
	db *database.PostgresDB
}

func NewVoteRepository(db *database.PostgresDB) *PostgresVoteRepository {
	return &PostgresVoteRepository{db: db}
}

func (r *PostgresVoteRepository) HasVoted(ctx context.Context, electionID, positionID, voterID int64) (bool, error) {
	var exists bool
	query := `
		SELECT EXISTS (
			SELECT 1 FROM votes
			WHERE election_id = $1 AND position_id = $2 AND voter_id = $3
		)
	`

	if err := r.db.Pool.QueryRow(ctx, query, electionID, positionID, voterID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check vote: %w", err)
	}

	return exists, nil
}

// Progress left-joins the election's positions against this voter's votes.
// Position id order keeps the ballot navigation stable.
func (r *PostgresVoteRepository) Progress(ctx context.Context, electionID, voterID int64) ([]domain.PositionProgress, error) {
	query := `
		SELECT p.id, p.title, v.id IS NOT NULL AS voted
		FROM positions p
		LEFT JOIN votes v ON p.id = v.position_id AND v.voter_id = $1
		WHERE p.election_id = $2
		ORDER BY p.id ASC
	`

	rows, err := r.db.Pool.Query(ctx, query, voterID, electionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load voting progress: %w", err)
	}
	defer rows.Close()

	var progress []domain.PositionProgress
	for rows.Next() {
		var p domain.PositionProgress
		if err := rows.Scan(&p.PositionID, &p.PositionTitle, &p.Voted); err != nil {
			return nil, fmt.Errorf("failed to scan progress row: %w", err)
		}
		progress = append(progress, p)
	}

	return progress, rows.Err()
}

// CastVote performs the guarded check-then-insert as one transaction. The
// unique index on (position_id, voter_id) is the authoritative guard; the
// pre-check only produces a friendlier path for the common replay case.
func (r *PostgresVoteRepository) CastVote(ctx context.Context, vote *domain.Vote) error {
	err := r.db.WithTx(ctx, func(tx pgx.Tx) error {
		var exists bool
		err := tx.QueryRow(ctx, `
			SELECT EXISTS (
				SELECT 1 FROM votes
				WHERE position_id = $1 AND voter_id = $2
			)
		`, vote.PositionID, vote.VoterID).Scan(&exists)
		if err != nil {
			return fmt.Errorf("failed to re-check vote: %w", err)
		}
		if exists {
			return domain.ErrAlreadyVoted
		}

		// Single source of truth for candidate eligibility: the approved
		// candidate must match position and election exactly.
		var candidateOK bool
		err = tx.QueryRow(ctx, `
			SELECT EXISTS (
				SELECT 1 FROM candidates
				WHERE id = $1 AND position_id = $2 AND election_id = $3 AND is_approved = true
			)
		`, vote.CandidateID, vote.PositionID, vote.ElectionID).Scan(&candidateOK)
		if err != nil {
			return fmt.Errorf("failed to verify candidate: %w", err)
		}
		if !candidateOK {
			return domain.ErrInvalidCandidate
		}

		err = tx.QueryRow(ctx, `
			INSERT INTO votes (receipt_id, election_id, position_id, candidate_id, voter_id)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id, created_at
		`, vote.ReceiptID, vote.ElectionID, vote.PositionID, vote.CandidateID, vote.VoterID).
			Scan(&vote.ID, &vote.CreatedAt)
		if err != nil {
			return err
		}

		return nil
	})

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode &&
			strings.Contains(pgErr.ConstraintName, "voter") {
			// Lost the race against a concurrent cast for the same pair
			return domain.ErrAlreadyVoted
		}
		return err
	}

	return nil
}

func (r *PostgresVoteRepository) Tally(ctx context.Context, electionID, positionID int64) ([]domain.CandidateTally, error) {
	query := `
		SELECT c.id, c.member_id, m.name, COUNT(v.id) AS vote_count
		FROM candidates c
		JOIN members m ON c.member_id = m.id
		LEFT JOIN votes v ON c.id = v.candidate_id AND v.position_id = c.position_id
		WHERE c.election_id = $1 AND c.position_id = $2 AND c.is_approved = true
		GROUP BY c.id, c.member_id, m.name
		ORDER BY vote_count DESC, m.name ASC
	`

	rows, err := r.db.Pool.Query(ctx, query, electionID, positionID)
	if err != nil {
		return nil, fmt.Errorf("failed to tally votes: %w", err)
	}
	defer rows.Close()

	var tallies []domain.CandidateTally
	for rows.Next() {
		var t domain.CandidateTally
		if err := rows.Scan(&t.CandidateID, &t.MemberID, &t.Name, &t.VoteCount); err != nil {
			return nil, fmt.Errorf("failed to scan tally row: %w", err)
		}
		tallies = append(tallies, t)
	}

	return tallies, rows.Err()
}

func (r *PostgresVoteRepository) CountForElection(ctx context.Context, electionID int64) (int, error) {
	var count int
	err := r.db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM votes WHERE election_id = $1`, electionID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count election votes: %w", err)
	}
	return count, nil
}

func (r *PostgresVoteRepository) CountForPosition(ctx context.Context, positionID int64) (int, error) {
	var count int
	err := r.db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM votes WHERE position_id = $1`, positionID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count position votes: %w", err)
	}
	return count, nil
}

func (r *PostgresVoteRepository) DistinctVoters(ctx context.Context, electionID int64) (int, error) {
	var count int
	err := r.db.Pool.QueryRow(ctx, `SELECT COUNT(DISTINCT voter_id) FROM votes WHERE election_id = $1`, electionID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count distinct voters: %w", err)
	}
	return count, nil
}
