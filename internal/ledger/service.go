// Package ledger implements the entity-creation workflows. Each create
// persists the new row and triggers a matching pass inside one serializable
// transaction, so a create and its resulting allocation are atomic to
// external readers.
package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"charityfund/internal/allocation"
	"charityfund/internal/domain"
	"charityfund/internal/infra"
	"charityfund/internal/store"
)

// Datastore is the slice of store.Store the workflows use.
type Datastore interface {
	Queries() *store.Queries
	WithTx(ctx context.Context, fn func(q *store.Queries) error) error
	Ping(ctx context.Context) error
}

// Service coordinates persistence and the allocation engine.
type Service struct {
	db     Datastore
	logger infra.Logger
	now    func() time.Time
}

func NewService(db Datastore, logger infra.Logger) *Service {
	return &Service{db: db, logger: logger, now: time.Now}
}

// WithClock overrides the close_date clock, used by tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// CreateProject persists a new project, runs a matching pass and returns the
// project's state after allocation.
func (s *Service) CreateProject(ctx context.Context, p *domain.Project) (*domain.Project, error) {
	var created *domain.Project
	err := s.db.WithTx(ctx, func(q *store.Queries) error {
		if err := s.checkNameFree(ctx, q, p.Name, uuid.Nil); err != nil {
			return err
		}
		if err := q.InsertProject(ctx, p); err != nil {
			return err
		}
		res, err := allocation.Run(ctx, q, s.now)
		if err != nil {
			return err
		}
		s.logResult(res)
		created, err = q.ProjectByID(ctx, p.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// ProjectPatch carries the optional fields of a project update.
type ProjectPatch struct {
	Name        *string
	Description *string
	FullAmount  *int64
}

// UpdateProject applies the update rules: a closed project is immutable, the
// name stays unique, and the target can never drop below the amount already
// invested. Setting the target to exactly the invested amount closes the
// project.
func (s *Service) UpdateProject(ctx context.Context, id uuid.UUID, patch ProjectPatch) (*domain.Project, error) {
	var updated *domain.Project
	err := s.db.WithTx(ctx, func(q *store.Queries) error {
		p, err := q.ProjectByID(ctx, id)
		if err != nil {
			return err
		}
		if p.FullyInvested {
			return domain.ErrProjectClosed
		}
		if patch.Name != nil && *patch.Name != p.Name {
			if err := s.checkNameFree(ctx, q, *patch.Name, p.ID); err != nil {
				return err
			}
			p.Name = *patch.Name
		}
		if patch.Description != nil {
			p.Description = *patch.Description
		}
		if patch.FullAmount != nil {
			if *patch.FullAmount < p.InvestedAmount {
				return domain.ErrAmountBelowInvested
			}
			p.FullAmount = *patch.FullAmount
			if p.InvestedAmount == p.FullAmount {
				p.Close(s.now())
			}
		}
		if err := q.UpdateProject(ctx, p); err != nil {
			return err
		}
		updated = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteProject removes a project that has not received any funds yet.
func (s *Service) DeleteProject(ctx context.Context, id uuid.UUID) error {
	return s.db.WithTx(ctx, func(q *store.Queries) error {
		p, err := q.ProjectByID(ctx, id)
		if err != nil {
			return err
		}
		if p.InvestedAmount > 0 {
			return domain.ErrHasInvestment
		}
		return q.DeleteProject(ctx, id)
	})
}

// CreateDonation persists a new donation, runs a matching pass and returns
// the donation's state after allocation.
func (s *Service) CreateDonation(ctx context.Context, d *domain.Donation) (*domain.Donation, error) {
	var created *domain.Donation
	err := s.db.WithTx(ctx, func(q *store.Queries) error {
		if err := q.InsertDonation(ctx, d); err != nil {
			return err
		}
		res, err := allocation.Run(ctx, q, s.now)
		if err != nil {
			return err
		}
		s.logResult(res)
		created, err = q.DonationByID(ctx, d.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *Service) ListProjects(ctx context.Context) ([]*domain.Project, error) {
	return s.db.Queries().ListProjects(ctx)
}

func (s *Service) GetProject(ctx context.Context, id uuid.UUID) (*domain.Project, error) {
	return s.db.Queries().ProjectByID(ctx, id)
}

func (s *Service) ListDonations(ctx context.Context) ([]*domain.Donation, error) {
	return s.db.Queries().ListDonations(ctx)
}

func (s *Service) ListDonationsByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Donation, error) {
	return s.db.Queries().ListDonationsByUser(ctx, userID)
}

func (s *Service) Stats(ctx context.Context) (*store.FundingStats, error) {
	return s.db.Queries().Stats(ctx)
}

func (s *Service) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

func (s *Service) checkNameFree(ctx context.Context, q *store.Queries, name string, self uuid.UUID) error {
	id, err := q.ProjectIDByName(ctx, name)
	if errors.Is(err, domain.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if id == self {
		return nil
	}
	return domain.ErrNameTaken
}

func (s *Service) logResult(res *allocation.Result) {
	if !res.Moved() {
		return
	}
	s.logger.Info().
		Int64("transferred", res.Transferred).
		Int("closed_projects", res.ClosedProjects).
		Int("closed_donations", res.ClosedDonations).
		Msg("allocation pass")
}
