package ledger

import (
	"context"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"charityfund/internal/domain"
	"charityfund/internal/store"
)

// fakeDB is an in-memory stand-in for the store.DBTX surface, keeping real
// table state so workflow tests observe allocation effects end to end.
type fakeDB struct {
	projects  []*domain.Project
	donations []*domain.Donation
	now       func() time.Time
}

func newFakeDB(now func() time.Time) *fakeDB {
	return &fakeDB{now: now}
}

// Queries returns pool-bound queries, mirroring store.Store.
func (f *fakeDB) Queries() *store.Queries {
	return store.NewQueries(f)
}

// WithTx runs fn against the same state; transactional semantics are the
// real store's concern, not the workflows'.
func (f *fakeDB) WithTx(ctx context.Context, fn func(q *store.Queries) error) error {
	return fn(store.NewQueries(f))
}

func (f *fakeDB) Ping(ctx context.Context) error { return nil }

func assign(dest []any, values ...any) error {
	if len(dest) != len(values) {
		return fmt.Errorf("scan arity mismatch: %d dest, %d values", len(dest), len(values))
	}
	for i, v := range values {
		target := reflect.ValueOf(dest[i]).Elem()
		if v == nil {
			target.Set(reflect.Zero(target.Type()))
			continue
		}
		target.Set(reflect.ValueOf(v))
	}
	return nil
}

func (f *fakeDB) projectValues(p *domain.Project) []any {
	return []any{p.ID, p.Name, p.Description, p.FullAmount, p.InvestedAmount, p.FullyInvested, p.CreateDate, p.CloseDate}
}

func (f *fakeDB) donationValues(d *domain.Donation) []any {
	var comment *string
	if d.Comment != "" {
		c := d.Comment
		comment = &c
	}
	return []any{d.ID, d.UserID, comment, d.Country, d.FullAmount, d.InvestedAmount, d.FullyInvested, d.CreateDate, d.CloseDate}
}

type fakeRow struct {
	scan func(dest ...any) error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.scan == nil {
		return pgx.ErrNoRows
	}
	return r.scan(dest...)
}

type fakeRows struct {
	rows [][]any
	idx  int
}

func (r *fakeRows) Next() bool {
	if r.idx >= len(r.rows) {
		return false
	}
	r.idx++
	return true
}

func (r *fakeRows) Scan(dest ...any) error {
	return assign(dest, r.rows[r.idx-1]...)
}

func (r *fakeRows) Err() error                                   { return nil }
func (r *fakeRows) Close()                                       {}
func (r *fakeRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (r *fakeRows) Conn() *pgx.Conn                              { return nil }
func (r *fakeRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *fakeRows) RawValues() [][]byte                          { return nil }
func (r *fakeRows) Values() ([]any, error) {
	return nil, fmt.Errorf("values not supported in fake rows")
}

func (f *fakeDB) QueryRow(ctx context.Context, query string, args ...any) pgx.Row {
	switch {
	case strings.Contains(query, "INSERT INTO projects"):
		p := &domain.Project{Name: args[0].(string), Description: args[1].(string)}
		p.ID = uuid.New()
		p.FullAmount = args[2].(int64)
		p.CreateDate = f.now()
		f.projects = append(f.projects, p)
		return fakeRow{scan: func(dest ...any) error { return assign(dest, p.ID, p.CreateDate) }}

	case strings.Contains(query, "INSERT INTO donations"):
		d := &domain.Donation{}
		if id, ok := args[0].(*uuid.UUID); ok {
			d.UserID = id
		}
		d.Comment = args[1].(string)
		d.Country = args[2].(string)
		d.FullAmount = args[3].(int64)
		d.ID = uuid.New()
		d.CreateDate = f.now()
		f.donations = append(f.donations, d)
		return fakeRow{scan: func(dest ...any) error { return assign(dest, d.ID, d.CreateDate) }}

	case strings.Contains(query, "FROM projects") && strings.Contains(query, "WHERE name"):
		name := args[0].(string)
		for _, p := range f.projects {
			if p.Name == name {
				id := p.ID
				return fakeRow{scan: func(dest ...any) error { return assign(dest, id) }}
			}
		}
		return fakeRow{}

	case strings.Contains(query, "FROM projects") && strings.Contains(query, "WHERE id"):
		id := args[0].(uuid.UUID)
		for _, p := range f.projects {
			if p.ID == id {
				return fakeRow{scan: func(dest ...any) error { return assign(dest, f.projectValues(p)...) }}
			}
		}
		return fakeRow{}

	case strings.Contains(query, "FROM donations") && strings.Contains(query, "WHERE id"):
		id := args[0].(uuid.UUID)
		for _, d := range f.donations {
			if d.ID == id {
				return fakeRow{scan: func(dest ...any) error { return assign(dest, f.donationValues(d)...) }}
			}
		}
		return fakeRow{}
	}
	return fakeRow{scan: func(dest ...any) error { return fmt.Errorf("unexpected query: %s", query) }}
}

func (f *fakeDB) Query(ctx context.Context, query string, args ...any) (pgx.Rows, error) {
	openOnly := strings.Contains(query, "NOT fully_invested")
	switch {
	case strings.Contains(query, "FROM projects"):
		rows := &fakeRows{}
		for _, p := range f.projects {
			if openOnly && p.FullyInvested {
				continue
			}
			rows.rows = append(rows.rows, f.projectValues(p))
		}
		return rows, nil
	case strings.Contains(query, "FROM donations"):
		rows := &fakeRows{}
		for _, d := range f.donations {
			if openOnly && d.FullyInvested {
				continue
			}
			if strings.Contains(query, "WHERE user_id") {
				userID := args[0].(uuid.UUID)
				if d.UserID == nil || *d.UserID != userID {
					continue
				}
			}
			rows.rows = append(rows.rows, f.donationValues(d))
		}
		return rows, nil
	}
	return nil, fmt.Errorf("unexpected query: %s", query)
}

func (f *fakeDB) Exec(ctx context.Context, query string, args ...any) (pgconn.CommandTag, error) {
	switch {
	case strings.Contains(query, "UPDATE projects") && strings.Contains(query, "name ="):
		id := args[0].(uuid.UUID)
		for _, p := range f.projects {
			if p.ID == id {
				p.Name = args[1].(string)
				p.Description = args[2].(string)
				p.FullAmount = args[3].(int64)
				p.InvestedAmount = args[4].(int64)
				p.FullyInvested = args[5].(bool)
				p.CloseDate, _ = args[6].(*time.Time)
				return pgconn.NewCommandTag("UPDATE 1"), nil
			}
		}
		return pgconn.NewCommandTag("UPDATE 0"), nil

	case strings.Contains(query, "DELETE FROM projects"):
		id := args[0].(uuid.UUID)
		for i, p := range f.projects {
			if p.ID == id {
				f.projects = append(f.projects[:i], f.projects[i+1:]...)
				return pgconn.NewCommandTag("DELETE 1"), nil
			}
		}
		return pgconn.NewCommandTag("DELETE 0"), nil
	}
	return pgconn.CommandTag{}, fmt.Errorf("unexpected exec: %s", query)
}

func (f *fakeDB) applyFundingUpdate(query string, args []any) error {
	id := args[0].(uuid.UUID)
	if strings.Contains(query, "UPDATE projects") {
		for _, p := range f.projects {
			if p.ID == id {
				p.InvestedAmount = args[1].(int64)
				p.FullyInvested = args[2].(bool)
				p.CloseDate, _ = args[3].(*time.Time)
				return nil
			}
		}
	}
	if strings.Contains(query, "UPDATE donations") {
		for _, d := range f.donations {
			if d.ID == id {
				d.InvestedAmount = args[1].(int64)
				d.FullyInvested = args[2].(bool)
				d.CloseDate, _ = args[3].(*time.Time)
				return nil
			}
		}
	}
	return fmt.Errorf("funding update for unknown row %s", id)
}

type fakeBatchResults struct {
	err error
}

func (b *fakeBatchResults) Exec() (pgconn.CommandTag, error) {
	if b.err != nil {
		return pgconn.CommandTag{}, b.err
	}
	return pgconn.NewCommandTag("UPDATE 1"), nil
}

func (b *fakeBatchResults) Query() (pgx.Rows, error) {
	return nil, fmt.Errorf("query not supported in fake batch")
}

func (b *fakeBatchResults) QueryRow() pgx.Row {
	return fakeRow{scan: func(dest ...any) error { return fmt.Errorf("query row not supported in fake batch") }}
}

func (b *fakeBatchResults) Close() error { return b.err }

func (f *fakeDB) SendBatch(ctx context.Context, batch *pgx.Batch) pgx.BatchResults {
	res := &fakeBatchResults{}
	for _, q := range batch.QueuedQueries {
		if err := f.applyFundingUpdate(q.SQL, q.Arguments); err != nil {
			res.err = err
			return res
		}
	}
	return res
}

var _ store.DBTX = (*fakeDB)(nil)
var _ Datastore = (*fakeDB)(nil)
