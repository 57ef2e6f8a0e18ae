package repository

import (
	"context"
	"fmt"

	"github.com/nhel2500/AUPWU/pkg/database"
)

type PostgresActivityRepository struct {
	db *database.PostgresDB
}

func NewActivityRepository(db *database.PostgresDB) *PostgresActivityRepository {
	return &PostgresActivityRepository{db: db}
}

// Record appends one audit entry. Callers treat failures as non-fatal.
func (r *PostgresActivityRepository) Record(ctx context.Context, actorID int64, action, details string) error {
	_, err := r.db.Pool.Exec(ctx, `
		INSERT INTO activity_logs (actor_id, action, details)
		VALUES ($1, $2, $3)
	`, actorID, action, details)
	if err != nil {
		return fmt.Errorf("failed to record activity: %w", err)
	}
	return nil
}
