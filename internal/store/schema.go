package store

import "context"

// schema is applied at startup. Statements are idempotent so both binaries
// can run it unconditionally, the way the platform's other services migrate.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS projects (
	id uuid PRIMARY KEY DEFAULT gen_random_uuid(),
	name varchar(100) NOT NULL UNIQUE CHECK (length(name) >= 1),
	description text NOT NULL CHECK (length(description) >= 1),
	full_amount bigint NOT NULL CHECK (full_amount > 0),
	invested_amount bigint NOT NULL DEFAULT 0 CHECK (invested_amount >= 0 AND invested_amount <= full_amount),
	fully_invested boolean NOT NULL DEFAULT false,
	create_date timestamptz NOT NULL DEFAULT now(),
	close_date timestamptz
)`,
	`CREATE TABLE IF NOT EXISTS donations (
	id uuid PRIMARY KEY DEFAULT gen_random_uuid(),
	user_id uuid,
	comment text,
	country text,
	full_amount bigint NOT NULL CHECK (full_amount > 0),
	invested_amount bigint NOT NULL DEFAULT 0 CHECK (invested_amount >= 0 AND invested_amount <= full_amount),
	fully_invested boolean NOT NULL DEFAULT false,
	create_date timestamptz NOT NULL DEFAULT now(),
	close_date timestamptz
)`,
	`CREATE INDEX IF NOT EXISTS idx_projects_open ON projects (create_date) WHERE NOT fully_invested`,
	`CREATE INDEX IF NOT EXISTS idx_donations_open ON donations (create_date) WHERE NOT fully_invested`,
	`CREATE INDEX IF NOT EXISTS idx_donations_user ON donations (user_id) WHERE user_id IS NOT NULL`,
}

// EnsureSchema creates the tables and indexes when they do not exist yet.
func (s *Store) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
