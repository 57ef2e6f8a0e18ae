package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is not set")
	}

	if len(os.Args) < 2 {
		fmt.Println("Usage: go run main.go [drop|up|seed]")
		os.Exit(1)
	}

	command := os.Args[1]

	ctx := context.Background()
	conn, err := pgx.Connect(ctx, dbURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer conn.Close(ctx)

	switch command {
	case "drop":
		if err := dropTables(ctx, conn); err != nil {
			log.Fatalf("Failed to drop tables: %v", err)
		}
		fmt.Println("✅ All tables dropped successfully")

	case "up":
		if err := createTables(ctx, conn); err != nil {
			log.Fatalf("Failed to create tables: %v", err)
		}
		fmt.Println("✅ All tables created successfully")

	case "seed":
		if err := seedData(ctx, conn); err != nil {
			log.Fatalf("Failed to seed data: %v", err)
		}
		fmt.Println("✅ Data seeded successfully")

	default:
		fmt.Printf("Unknown command: %s\n", command)
		fmt.Println("Usage: go run main.go [drop|up|seed]")
		os.Exit(1)
	}
}

func dropTables(ctx context.Context, conn *pgx.Conn) error {
	queries := []string{
		`DROP TABLE IF EXISTS activity_logs CASCADE`,
		`DROP TABLE IF EXISTS votes CASCADE`,
		`DROP TABLE IF EXISTS candidates CASCADE`,
		`DROP TABLE IF EXISTS positions CASCADE`,
		`DROP TABLE IF EXISTS elections CASCADE`,
		`DROP TABLE IF EXISTS members CASCADE`,
	}

	for _, query := range queries {
		if _, err := conn.Exec(ctx, query); err != nil {
			return fmt.Errorf("failed to execute query: %w", err)
		}
		fmt.Printf("  Dropped: %s\n", query)
	}

	return nil
}

func createTables(ctx context.Context, conn *pgx.Conn) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS members (
			id BIGSERIAL PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			email VARCHAR(255) UNIQUE NOT NULL,
			unit_college VARCHAR(255) NOT NULL DEFAULT '',
			designation VARCHAR(255) NOT NULL DEFAULT '',
			role VARCHAR(20) NOT NULL DEFAULT 'member',
			is_active BOOLEAN DEFAULT true,
			created_at TIMESTAMPTZ DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS elections (
			id BIGSERIAL PRIMARY KEY,
			title VARCHAR(255) NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			start_date TIMESTAMPTZ NOT NULL,
			end_date TIMESTAMPTZ NOT NULL,
			is_active BOOLEAN DEFAULT true,
			created_at TIMESTAMPTZ DEFAULT NOW(),
			CONSTRAINT chk_elections_window CHECK (end_date >= start_date)
		)`,

		`CREATE TABLE IF NOT EXISTS positions (
			id BIGSERIAL PRIMARY KEY,
			election_id BIGINT NOT NULL REFERENCES elections(id) ON DELETE CASCADE,
			title VARCHAR(255) NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			max_winners INTEGER NOT NULL DEFAULT 1 CHECK (max_winners >= 1)
		)`,

		`CREATE TABLE IF NOT EXISTS candidates (
			id BIGSERIAL PRIMARY KEY,
			election_id BIGINT NOT NULL REFERENCES elections(id) ON DELETE CASCADE,
			position_id BIGINT NOT NULL REFERENCES positions(id) ON DELETE CASCADE,
			member_id BIGINT NOT NULL REFERENCES members(id),
			platform TEXT NOT NULL DEFAULT '',
			is_approved BOOLEAN DEFAULT false,
			created_at TIMESTAMPTZ DEFAULT NOW(),
			CONSTRAINT uq_candidates_position_member UNIQUE (position_id, member_id)
		)`,

		// The unique (position_id, voter_id) index is the authoritative
		// double-vote guard; its name must contain "voter".
		`CREATE TABLE IF NOT EXISTS votes (
			id BIGSERIAL PRIMARY KEY,
			receipt_id VARCHAR(30) UNIQUE NOT NULL,
			election_id BIGINT NOT NULL REFERENCES elections(id),
			position_id BIGINT NOT NULL REFERENCES positions(id),
			candidate_id BIGINT NOT NULL REFERENCES candidates(id),
			voter_id BIGINT NOT NULL REFERENCES members(id),
			created_at TIMESTAMPTZ DEFAULT NOW(),
			CONSTRAINT uq_votes_position_voter UNIQUE (position_id, voter_id)
		)`,

		`CREATE TABLE IF NOT EXISTS activity_logs (
			id BIGSERIAL PRIMARY KEY,
			actor_id BIGINT NOT NULL,
			action VARCHAR(100) NOT NULL,
			details TEXT,
			created_at TIMESTAMPTZ DEFAULT NOW()
		)`,

		`CREATE INDEX IF NOT EXISTS idx_positions_election_id ON positions(election_id)`,
		`CREATE INDEX IF NOT EXISTS idx_candidates_position_id ON candidates(position_id)`,
		`CREATE INDEX IF NOT EXISTS idx_votes_election_id ON votes(election_id)`,
		`CREATE INDEX IF NOT EXISTS idx_votes_candidate_id ON votes(candidate_id)`,
		`CREATE INDEX IF NOT EXISTS idx_votes_voter_id ON votes(voter_id)`,
		`CREATE INDEX IF NOT EXISTS idx_activity_logs_actor_id ON activity_logs(actor_id)`,
		`CREATE INDEX IF NOT EXISTS idx_elections_window ON elections(is_active, start_date, end_date)`,
	}

	for _, query := range queries {
		if _, err := conn.Exec(ctx, query); err != nil {
			return fmt.Errorf("failed to execute query: %w\nQuery: %s", err, query)
		}
		fmt.Printf("  Created: %s\n", getObjectName(query))
	}

	return nil
}

func seedData(ctx context.Context, conn *pgx.Conn) error {
	queries := []string{
		`INSERT INTO members (name, email, unit_college, designation, role) VALUES
			('Maria Santos', 'maria.santos@aupwu.example', 'College of Engineering', 'Professor', 'admin'),
			('Juan Dela Cruz', 'juan.delacruz@aupwu.example', 'College of Science', 'Instructor', 'member'),
			('Ana Reyes', 'ana.reyes@aupwu.example', 'College of Arts', 'Associate Professor', 'member'),
			('Pedro Bautista', 'pedro.bautista@aupwu.example', 'University Library', 'Librarian', 'member')
		ON CONFLICT (email) DO NOTHING`,

		`INSERT INTO elections (title, description, start_date, end_date, is_active) VALUES
			('AUPWU General Election 2026', 'Biennial election of union officers',
			 NOW() - INTERVAL '1 day', NOW() + INTERVAL '13 days', true)
		ON CONFLICT DO NOTHING`,

		`INSERT INTO positions (election_id, title, description, max_winners)
		SELECT e.id, p.title, p.description, p.max_winners
		FROM elections e,
		     (VALUES
				('President', 'Union president', 1),
				('Vice President', 'Union vice president', 1),
				('Board Member', 'Members of the board', 5)
		     ) AS p(title, description, max_winners)
		WHERE e.title = 'AUPWU General Election 2026'
		  AND NOT EXISTS (
			SELECT 1 FROM positions x WHERE x.election_id = e.id AND x.title = p.title
		  )`,
	}

	for _, query := range queries {
		if _, err := conn.Exec(ctx, query); err != nil {
			return fmt.Errorf("failed to execute query: %w", err)
		}
	}

	fmt.Println("  Seeded members, election and positions")
	return nil
}

func getObjectName(query string) string {
	fields := strings.Fields(query)
	for i, f := range fields {
		if strings.EqualFold(f, "EXISTS") && i+1 < len(fields) {
			return fields[i+1]
		}
	}
	if len(fields) > 2 {
		return fields[2]
	}
	return query
}
