package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/nhel2500/AUPWU/internal/domain"
	"github.com/nhel2500/AUPWU/pkg/database"
)

type PostgresMemberRepository struct {
	db *database.PostgresDB
}

func NewMemberRepository(db *database.PostgresDB) *PostgresMemberRepository {
	return &PostgresMemberRepository{db: db}
}

func (r *PostgresMemberRepository) GetByID(ctx context.Context, id int64) (*domain.Member, error) {
	query := `
		SELECT id, name, email, unit_college, designation, is_active, created_at
		FROM members
		WHERE id = $1
	`

	var m domain.Member
	err := r.db.Pool.QueryRow(ctx, query, id).Scan(
		&m.ID, &m.Name, &m.Email, &m.UnitCollege, &m.Designation, &m.IsActive, &m.CreatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get member: %w", err)
	}

	return &m, nil
}

func (r *PostgresMemberRepository) CountActive(ctx context.Context) (int, error) {
	var count int
	err := r.db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM members WHERE is_active = true`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count active members: %w", err)
	}
	return count, nil
}
