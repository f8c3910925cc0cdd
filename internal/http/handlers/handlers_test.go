package handlers

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"charityfund/internal/domain"
	"charityfund/internal/ledger"
	"charityfund/internal/store"
)

// fakeLedger implements Ledger with canned results for handler tests.
type fakeLedger struct {
	createProjectFn  func(ctx context.Context, p *domain.Project) (*domain.Project, error)
	updateProjectFn  func(ctx context.Context, id uuid.UUID, patch ledger.ProjectPatch) (*domain.Project, error)
	createDonationFn func(ctx context.Context, d *domain.Donation) (*domain.Donation, error)

	projects  []*domain.Project
	donations []*domain.Donation
	stats     *store.FundingStats
	deleteErr error
	getErr    error
	pingErr   error
}

func (f *fakeLedger) CreateProject(ctx context.Context, p *domain.Project) (*domain.Project, error) {
	if f.createProjectFn != nil {
		return f.createProjectFn(ctx, p)
	}
	return p, nil
}

func (f *fakeLedger) ListProjects(ctx context.Context) ([]*domain.Project, error) {
	return f.projects, nil
}

func (f *fakeLedger) GetProject(ctx context.Context, id uuid.UUID) (*domain.Project, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	for _, p := range f.projects {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeLedger) UpdateProject(ctx context.Context, id uuid.UUID, patch ledger.ProjectPatch) (*domain.Project, error) {
	if f.updateProjectFn != nil {
		return f.updateProjectFn(ctx, id, patch)
	}
	return nil, domain.ErrNotFound
}

func (f *fakeLedger) DeleteProject(ctx context.Context, id uuid.UUID) error {
	return f.deleteErr
}

func (f *fakeLedger) CreateDonation(ctx context.Context, d *domain.Donation) (*domain.Donation, error) {
	if f.createDonationFn != nil {
		return f.createDonationFn(ctx, d)
	}
	return d, nil
}

func (f *fakeLedger) ListDonations(ctx context.Context) ([]*domain.Donation, error) {
	return f.donations, nil
}

func (f *fakeLedger) ListDonationsByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Donation, error) {
	var mine []*domain.Donation
	for _, d := range f.donations {
		if d.UserID != nil && *d.UserID == userID {
			mine = append(mine, d)
		}
	}
	return mine, nil
}

func (f *fakeLedger) Stats(ctx context.Context) (*store.FundingStats, error) {
	return f.stats, nil
}

func (f *fakeLedger) Ping(ctx context.Context) error {
	return f.pingErr
}

func newTestApp(l Ledger) *App {
	return NewApp(l, zerolog.Nop(), nil)
}

func sampleProject(name string, full, invested int64, closed bool) *domain.Project {
	p := &domain.Project{Name: name, Description: "desc"}
	p.ID = uuid.New()
	p.FullAmount = full
	p.InvestedAmount = invested
	p.FullyInvested = closed
	p.CreateDate = time.Date(2025, 4, 1, 8, 0, 0, 0, time.UTC)
	if closed {
		closeDate := p.CreateDate.Add(time.Hour)
		p.CloseDate = &closeDate
	}
	return p
}
