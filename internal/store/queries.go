package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"charityfund/internal/domain"
)

// DBTX is satisfied by both *pgxpool.Pool and pgx.Tx, so the same queries
// serve plain reads and transaction-scoped matching passes.
type DBTX interface {
	Exec(ctx context.Context, query string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, query string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, query string, args ...any) pgx.Row
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

type Queries struct {
	db DBTX
}

func NewQueries(db DBTX) *Queries {
	return &Queries{db: db}
}

const projectColumns = `id, name, description, full_amount, invested_amount, fully_invested, create_date, close_date`

const donationColumns = `id, user_id, comment, coalesce(country, ''), full_amount, invested_amount, fully_invested, create_date, close_date`

func scanProject(row pgx.Row) (*domain.Project, error) {
	var p domain.Project
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.FullAmount, &p.InvestedAmount, &p.FullyInvested, &p.CreateDate, &p.CloseDate)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func collectProjects(rows pgx.Rows) ([]*domain.Project, error) {
	defer rows.Close()
	var items []*domain.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	return items, rows.Err()
}

func scanDonation(row pgx.Row) (*domain.Donation, error) {
	var d domain.Donation
	var comment *string
	err := row.Scan(&d.ID, &d.UserID, &comment, &d.Country, &d.FullAmount, &d.InvestedAmount, &d.FullyInvested, &d.CreateDate, &d.CloseDate)
	if err != nil {
		return nil, err
	}
	if comment != nil {
		d.Comment = *comment
	}
	return &d, nil
}

func collectDonations(rows pgx.Rows) ([]*domain.Donation, error) {
	defer rows.Close()
	var items []*domain.Donation
	for rows.Next() {
		d, err := scanDonation(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, d)
	}
	return items, rows.Err()
}

// InsertProject persists a new project and fills the generated fields.
func (q *Queries) InsertProject(ctx context.Context, p *domain.Project) error {
	row := q.db.QueryRow(ctx, `
INSERT INTO projects (name, description, full_amount)
VALUES ($1, $2, $3)
RETURNING id, create_date
`, p.Name, p.Description, p.FullAmount)
	return row.Scan(&p.ID, &p.CreateDate)
}

// ProjectByID returns a single project or domain.ErrNotFound.
func (q *Queries) ProjectByID(ctx context.Context, id uuid.UUID) (*domain.Project, error) {
	p, err := scanProject(q.db.QueryRow(ctx, `
SELECT `+projectColumns+`
FROM projects
WHERE id = $1
`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return p, err
}

// ProjectIDByName backs the uniqueness check on create and update.
func (q *Queries) ProjectIDByName(ctx context.Context, name string) (uuid.UUID, error) {
	var id uuid.UUID
	err := q.db.QueryRow(ctx, `
SELECT id
FROM projects
WHERE name = $1
`, name).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return uuid.Nil, domain.ErrNotFound
	}
	return id, err
}

// ListProjects returns every project in creation order.
func (q *Queries) ListProjects(ctx context.Context) ([]*domain.Project, error) {
	rows, err := q.db.Query(ctx, `
SELECT `+projectColumns+`
FROM projects
ORDER BY create_date
`)
	if err != nil {
		return nil, err
	}
	return collectProjects(rows)
}

// UpdateProject persists name, description and funding state changes made
// by the update workflow.
func (q *Queries) UpdateProject(ctx context.Context, p *domain.Project) error {
	tag, err := q.db.Exec(ctx, `
UPDATE projects
SET name = $2, description = $3, full_amount = $4, invested_amount = $5, fully_invested = $6, close_date = $7
WHERE id = $1
`, p.ID, p.Name, p.Description, p.FullAmount, p.InvestedAmount, p.FullyInvested, p.CloseDate)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// DeleteProject removes a project row.
func (q *Queries) DeleteProject(ctx context.Context, id uuid.UUID) error {
	tag, err := q.db.Exec(ctx, `
DELETE FROM projects
WHERE id = $1
`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// InsertDonation persists a new donation and fills the generated fields.
func (q *Queries) InsertDonation(ctx context.Context, d *domain.Donation) error {
	row := q.db.QueryRow(ctx, `
INSERT INTO donations (user_id, comment, country, full_amount)
VALUES ($1, nullif($2, ''), nullif($3, ''), $4)
RETURNING id, create_date
`, d.UserID, d.Comment, d.Country, d.FullAmount)
	return row.Scan(&d.ID, &d.CreateDate)
}

// DonationByID returns a single donation or domain.ErrNotFound.
func (q *Queries) DonationByID(ctx context.Context, id uuid.UUID) (*domain.Donation, error) {
	d, err := scanDonation(q.db.QueryRow(ctx, `
SELECT `+donationColumns+`
FROM donations
WHERE id = $1
`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return d, err
}

// ListDonations returns every donation in creation order.
func (q *Queries) ListDonations(ctx context.Context) ([]*domain.Donation, error) {
	rows, err := q.db.Query(ctx, `
SELECT `+donationColumns+`
FROM donations
ORDER BY create_date
`)
	if err != nil {
		return nil, err
	}
	return collectDonations(rows)
}

// ListDonationsByUser returns the donations made by one user, newest last.
func (q *Queries) ListDonationsByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Donation, error) {
	rows, err := q.db.Query(ctx, `
SELECT `+donationColumns+`
FROM donations
WHERE user_id = $1
ORDER BY create_date
`, userID)
	if err != nil {
		return nil, err
	}
	return collectDonations(rows)
}

// ListOpenProjects loads projects still accepting funds, oldest first.
// Order is the matching priority, so it must stay create_date ascending.
func (q *Queries) ListOpenProjects(ctx context.Context) ([]*domain.Project, error) {
	rows, err := q.db.Query(ctx, `
SELECT `+projectColumns+`
FROM projects
WHERE NOT fully_invested
ORDER BY create_date
`)
	if err != nil {
		return nil, err
	}
	return collectProjects(rows)
}

// ListOpenDonations loads donations with unallocated capacity, oldest first.
func (q *Queries) ListOpenDonations(ctx context.Context) ([]*domain.Donation, error) {
	rows, err := q.db.Query(ctx, `
SELECT `+donationColumns+`
FROM donations
WHERE NOT fully_invested
ORDER BY create_date
`)
	if err != nil {
		return nil, err
	}
	return collectDonations(rows)
}

// UpdateFunding persists the rows a matching pass mutated as one batch.
// Atomicity comes from the surrounding transaction.
func (q *Queries) UpdateFunding(ctx context.Context, projects []*domain.Project, donations []*domain.Donation) error {
	batch := &pgx.Batch{}
	for _, p := range projects {
		batch.Queue(`
UPDATE projects
SET invested_amount = $2, fully_invested = $3, close_date = $4
WHERE id = $1
`, p.ID, p.InvestedAmount, p.FullyInvested, p.CloseDate)
	}
	for _, d := range donations {
		batch.Queue(`
UPDATE donations
SET invested_amount = $2, fully_invested = $3, close_date = $4
WHERE id = $1
`, d.ID, d.InvestedAmount, d.FullyInvested, d.CloseDate)
	}
	results := q.db.SendBatch(ctx, batch)
	defer results.Close()
	for i := 0; i < batch.Len(); i++ {
		if _, err := results.Exec(); err != nil {
			return err
		}
	}
	return results.Close()
}

// FundingStats aggregates the ledger totals served by the stats endpoint.
type FundingStats struct {
	OpenProjects        int64     `json:"open_projects"`
	ClosedProjects      int64     `json:"closed_projects"`
	OpenDonations       int64     `json:"open_donations"`
	ClosedDonations     int64     `json:"closed_donations"`
	ProjectDemand       int64     `json:"project_demand"`
	UnallocatedCapacity int64     `json:"unallocated_capacity"`
	GeneratedAt         time.Time `json:"generated_at"`
}

// Stats computes aggregate funding counters across both tables.
func (q *Queries) Stats(ctx context.Context) (*FundingStats, error) {
	var s FundingStats
	err := q.db.QueryRow(ctx, `
SELECT
  (SELECT count(*) FROM projects WHERE NOT fully_invested),
  (SELECT count(*) FROM projects WHERE fully_invested),
  (SELECT count(*) FROM donations WHERE NOT fully_invested),
  (SELECT count(*) FROM donations WHERE fully_invested),
  (SELECT coalesce(sum(full_amount - invested_amount), 0) FROM projects WHERE NOT fully_invested),
  (SELECT coalesce(sum(full_amount - invested_amount), 0) FROM donations WHERE NOT fully_invested),
  now()
`).Scan(&s.OpenProjects, &s.ClosedProjects, &s.OpenDonations, &s.ClosedDonations, &s.ProjectDemand, &s.UnallocatedCapacity, &s.GeneratedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
