package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/nhel2500/AUPWU/internal/domain"
	"github.com/nhel2500/AUPWU/pkg/database"
)

const uniqueViolationCode = "23505"

type PostgresCandidateRepository struct {
	db *database.PostgresDB
}

func NewCandidateRepository(db *database.PostgresDB) *PostgresCandidateRepository {
	return &PostgresCandidateRepository{db: db}
}

func (r *PostgresCandidateRepository) Create(ctx context.Context, in *domain.CandidacyInput) (*domain.Candidate, error) {
	query := `
		INSERT INTO candidates (election_id, position_id, member_id, platform, is_approved)
		VALUES ($1, $2, $3, $4, false)
		RETURNING id, created_at
	`

	c := &domain.Candidate{
		ElectionID: in.ElectionID,
		PositionID: in.PositionID,
		MemberID:   in.MemberID,
		Platform:   in.Platform,
	}

	err := r.db.Pool.QueryRow(ctx, query,
		in.ElectionID,
		in.PositionID,
		in.MemberID,
		in.Platform,
	).Scan(&c.ID, &c.CreatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return nil, domain.ErrDuplicateCandidacy
		}
		return nil, fmt.Errorf("failed to create candidate: %w", err)
	}

	return c, nil
}

func (r *PostgresCandidateRepository) GetByID(ctx context.Context, id int64) (*domain.Candidate, error) {
	query := `
		SELECT c.id, c.election_id, c.position_id, c.member_id, c.platform,
		       c.is_approved, c.created_at, m.name, m.unit_college, m.designation
		FROM candidates c
		JOIN members m ON c.member_id = m.id
		WHERE c.id = $1
	`

	var c domain.Candidate
	err := r.db.Pool.QueryRow(ctx, query, id).Scan(
		&c.ID, &c.ElectionID, &c.PositionID, &c.MemberID, &c.Platform,
		&c.IsApproved, &c.CreatedAt, &c.Name, &c.UnitCollege, &c.Designation,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get candidate: %w", err)
	}

	return &c, nil
}

func (r *PostgresCandidateRepository) SetApproval(ctx context.Context, id int64, approved bool) error {
	tag, err := r.db.Pool.Exec(ctx, `UPDATE candidates SET is_approved = $1 WHERE id = $2`, approved, id)
	if err != nil {
		return fmt.Errorf("failed to set approval: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCandidateNotFound
	}
	return nil
}

func (r *PostgresCandidateRepository) ListByPosition(ctx context.Context, positionID int64, approvedOnly bool) ([]domain.Candidate, error) {
	query := `
		SELECT c.id, c.election_id, c.position_id, c.member_id, c.platform,
		       c.is_approved, c.created_at, m.name, m.unit_college, m.designation
		FROM candidates c
		JOIN members m ON c.member_id = m.id
		WHERE c.position_id = $1
		ORDER BY c.is_approved DESC, m.name ASC
	`
	if approvedOnly {
		query = `
			SELECT c.id, c.election_id, c.position_id, c.member_id, c.platform,
			       c.is_approved, c.created_at, m.name, m.unit_college, m.designation
			FROM candidates c
			JOIN members m ON c.member_id = m.id
			WHERE c.position_id = $1 AND c.is_approved = true
			ORDER BY m.name ASC
		`
	}

	rows, err := r.db.Pool.Query(ctx, query, positionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list candidates: %w", err)
	}
	defer rows.Close()

	var candidates []domain.Candidate
	for rows.Next() {
		var c domain.Candidate
		if err := rows.Scan(
			&c.ID, &c.ElectionID, &c.PositionID, &c.MemberID, &c.Platform,
			&c.IsApproved, &c.CreatedAt, &c.Name, &c.UnitCollege, &c.Designation,
		); err != nil {
			return nil, fmt.Errorf("failed to scan candidate: %w", err)
		}
		candidates = append(candidates, c)
	}

	return candidates, rows.Err()
}
