package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/nhel2500/AUPWU/internal/domain"
	"github.com/nhel2500/AUPWU/pkg/database"
)

type PostgresElectionRepository struct {
	db *database.PostgresDB
}

func NewElectionRepository(db *database.PostgresDB) *PostgresElectionRepository {
	return &PostgresElectionRepository{db: db}
}

func (r *PostgresElectionRepository) Create(ctx context.Context, in *domain.ElectionInput) (*domain.Election, error) {
	query := `
		INSERT INTO elections (title, description, start_date, end_date, is_active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, title, description, start_date, end_date, is_active, created_at
	`

	var e domain.Election
	err := r.db.Pool.QueryRow(ctx, query,
		in.Title,
		in.Description,
		in.StartDate,
		in.EndDate,
		in.IsActive,
	).Scan(&e.ID, &e.Title, &e.Description, &e.StartDate, &e.EndDate, &e.IsActive, &e.CreatedAt)

	if err != nil {
		return nil, fmt.Errorf("failed to create election: %w", err)
	}

	return &e, nil
}

func (r *PostgresElectionRepository) Update(ctx context.Context, id int64, in *domain.ElectionInput) (*domain.Election, error) {
	query := `
		UPDATE elections
		SET title = $1, description = $2, start_date = $3, end_date = $4, is_active = $5
		WHERE id = $6
		RETURNING id, title, description, start_date, end_date, is_active, created_at
	`

	var e domain.Election
	err := r.db.Pool.QueryRow(ctx, query,
		in.Title,
		in.Description,
		in.StartDate,
		in.EndDate,
		in.IsActive,
		id,
	).Scan(&e.ID, &e.Title, &e.Description, &e.StartDate, &e.EndDate, &e.IsActive, &e.CreatedAt)

	if err == pgx.ErrNoRows {
		return nil, domain.ErrElectionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update election: %w", err)
	}

	return &e, nil
}

func (r *PostgresElectionRepository) GetByID(ctx context.Context, id int64) (*domain.Election, error) {
	query := `
		SELECT id, title, description, start_date, end_date, is_active, created_at
		FROM elections
		WHERE id = $1
	`

	var e domain.Election
	err := r.db.Pool.QueryRow(ctx, query, id).Scan(
		&e.ID, &e.Title, &e.Description, &e.StartDate, &e.EndDate, &e.IsActive, &e.CreatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get election: %w", err)
	}

	return &e, nil
}

func (r *PostgresElectionRepository) List(ctx context.Context) ([]domain.Election, error) {
	query := `
		SELECT id, title, description, start_date, end_date, is_active, created_at
		FROM elections
		ORDER BY start_date DESC
	`
	return r.queryElections(ctx, query)
}

func (r *PostgresElectionRepository) ListOpen(ctx context.Context) ([]domain.Election, error) {
	query := `
		SELECT id, title, description, start_date, end_date, is_active, created_at
		FROM elections
		WHERE is_active = true AND start_date <= NOW() AND end_date >= NOW()
		ORDER BY start_date ASC
	`
	return r.queryElections(ctx, query)
}

func (r *PostgresElectionRepository) queryElections(ctx context.Context, query string) ([]domain.Election, error) {
	rows, err := r.db.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list elections: %w", err)
	}
	defer rows.Close()

	var elections []domain.Election
	for rows.Next() {
		var e domain.Election
		if err := rows.Scan(&e.ID, &e.Title, &e.Description, &e.StartDate, &e.EndDate, &e.IsActive, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan election: %w", err)
		}
		elections = append(elections, e)
	}

	return elections, rows.Err()
}

// Delete removes the election and its children inside one transaction.
// Children go first to satisfy referential constraints; the vote-count guard
// runs in the same transaction so a concurrent cast cannot slip between the
// check and the deletes.
func (r *PostgresElectionRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithTx(ctx, func(tx pgx.Tx) error {
		var exists bool
		if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM elections WHERE id = $1)`, id).Scan(&exists); err != nil {
			return fmt.Errorf("failed to check election: %w", err)
		}
		if !exists {
			return domain.ErrElectionNotFound
		}

		var voteCount int
		if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM votes WHERE election_id = $1`, id).Scan(&voteCount); err != nil {
			return fmt.Errorf("failed to count votes: %w", err)
		}
		if voteCount > 0 {
			return domain.ErrHasVotes
		}

		if _, err := tx.Exec(ctx, `DELETE FROM candidates WHERE election_id = $1`, id); err != nil {
			return fmt.Errorf("failed to delete candidates: %w", err)
		}
		if _, err := tx.Exec(ctx, `DELETE FROM positions WHERE election_id = $1`, id); err != nil {
			return fmt.Errorf("failed to delete positions: %w", err)
		}
		if _, err := tx.Exec(ctx, `DELETE FROM elections WHERE id = $1`, id); err != nil {
			return fmt.Errorf("failed to delete election: %w", err)
		}
		return nil
	})
}

func (r *PostgresElectionRepository) ListPositions(ctx context.Context, electionID int64) ([]domain.Position, error) {
	query := `
		SELECT id, election_id, title, description, max_winners
		FROM positions
		WHERE election_id = $1
		ORDER BY id ASC
	`

	rows, err := r.db.Pool.Query(ctx, query, electionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list positions: %w", err)
	}
	defer rows.Close()

	var positions []domain.Position
	for rows.Next() {
		var p domain.Position
		if err := rows.Scan(&p.ID, &p.ElectionID, &p.Title, &p.Description, &p.MaxWinners); err != nil {
			return nil, fmt.Errorf("failed to scan position: %w", err)
		}
		positions = append(positions, p)
	}

	return positions, rows.Err()
}

func (r *PostgresElectionRepository) GetPosition(ctx context.Context, positionID int64) (*domain.Position, error) {
	query := `
		SELECT id, election_id, title, description, max_winners
		FROM positions
		WHERE id = $1
	`

	var p domain.Position
	err := r.db.Pool.QueryRow(ctx, query, positionID).Scan(
		&p.ID, &p.ElectionID, &p.Title, &p.Description, &p.MaxWinners,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get position: %w", err)
	}

	return &p, nil
}

// SetPositions upserts the submitted batch and deletes positions that were
// not resubmitted. Rows with an empty title are skipped, matching the admin
// form behavior of ignoring blank rows.
func (r *PostgresElectionRepository) SetPositions(ctx context.Context, electionID int64, entries []domain.PositionEntry) error {
	return r.db.WithTx(ctx, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, `SELECT id FROM positions WHERE election_id = $1`, electionID)
		if err != nil {
			return fmt.Errorf("failed to load existing positions: %w", err)
		}
		remaining := make(map[int64]bool)
		for rows.Next() {
			var id int64
			if err := rows.Scan(&id); err != nil {
				rows.Close()
				return fmt.Errorf("failed to scan position id: %w", err)
			}
			remaining[id] = true
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return err
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
				tag, err := tx.Exec(ctx, `
					UPDATE positions
					SET title = $1, description = $2, max_winners = $3
					WHERE id = $4 AND election_id = $5
				`, entry.Title, entry.Description, maxWinners, *entry.ID, electionID)
				if err != nil {
					return fmt.Errorf("failed to update position: %w", err)
				}
				if tag.RowsAffected() == 0 {
					return domain.ErrPositionNotFound
				}
				delete(remaining, *entry.ID)
			} else {
				if _, err := tx.Exec(ctx, `
					INSERT INTO positions (election_id, title, description, max_winners)
					VALUES ($1, $2, $3, $4)
				`, electionID, entry.Title, entry.Description, maxWinners); err != nil {
					return fmt.Errorf("failed to insert position: %w", err)
				}
			}
		}

		// Positions omitted from the submission are removed
		for id := range remaining {
			if _, err := tx.Exec(ctx, `DELETE FROM candidates WHERE position_id = $1`, id); err != nil {
				return fmt.Errorf("failed to delete position candidates: %w", err)
			}
			if _, err := tx.Exec(ctx, `DELETE FROM positions WHERE id = $1 AND election_id = $2`, id, electionID); err != nil {
				return fmt.Errorf("failed to delete position: %w", err)
			}
		}

		return nil
	})
}
