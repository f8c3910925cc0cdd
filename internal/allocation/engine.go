// Package allocation implements the matching pass that moves unallocated
// donation capacity into open projects in strict creation order.
package allocation

import (
	"context"
	"time"

	"charityfund/internal/domain"
)

// Store is the transaction-scoped access one matching pass needs. The
// implementation must read both collections in ascending create_date order
// and persist updates atomically with the surrounding transaction.
type Store interface {
	ListOpenProjects(ctx context.Context) ([]*domain.Project, error)
	ListOpenDonations(ctx context.Context) ([]*domain.Donation, error)
	UpdateFunding(ctx context.Context, projects []*domain.Project, donations []*domain.Donation) error
}

// Result describes what one matching pass changed.
type Result struct {
	Transferred     int64
	Projects        []*domain.Project
	Donations       []*domain.Donation
	ClosedProjects  int
	ClosedDonations int
}

// Moved reports whether the pass mutated anything.
func (r *Result) Moved() bool {
	return r.Transferred > 0
}

// Match pairs open projects with open donations front to front. Both slices
// must be ordered by create_date ascending. Each iteration moves the smaller
// remaining amount, closing whichever side it exhausts; equal remainders
// close both sides in the same step. Entities are mutated in place and the
// mutated prefixes are returned in the Result for persistence.
func Match(projects []*domain.Project, donations []*domain.Donation, now func() time.Time) (*Result, error) {
	for _, p := range projects {
		if err := p.CheckOpen(); err != nil {
			return nil, err
		}
	}
	for _, d := range donations {
		if err := d.CheckOpen(); err != nil {
			return nil, err
		}
	}

	res := &Result{}
	i, j := 0, 0
	touchedProjects, touchedDonations := 0, 0
	for i < len(projects) && j < len(donations) {
		project, donation := projects[i], donations[j]
		transfer := min(project.Remaining(), donation.Remaining())

		ts := now()
		project.Invest(transfer, ts)
		donation.Invest(transfer, ts)
		res.Transferred += transfer
		touchedProjects, touchedDonations = i+1, j+1

		// min always exhausts at least one side, so at least one cursor
		// advances and the loop terminates.
		if project.FullyInvested {
			res.ClosedProjects++
			i++
		}
		if donation.FullyInvested {
			res.ClosedDonations++
			j++
		}
	}

	res.Projects = projects[:touchedProjects]
	res.Donations = donations[:touchedDonations]
	return res, nil
}

// Run executes one matching pass against the given transaction-scoped store.
// It never commits: the caller owns the transaction, so the triggering create
// and its resulting match are atomic to external readers. Store failures
// propagate unchanged.
func Run(ctx context.Context, store Store, now func() time.Time) (*Result, error) {
	projects, err := store.ListOpenProjects(ctx)
	if err != nil {
		return nil, err
	}
	donations, err := store.ListOpenDonations(ctx)
	if err != nil {
		return nil, err
	}

	res, err := Match(projects, donations, now)
	if err != nil {
		return nil, err
	}
	if !res.Moved() {
		return res, nil
	}
	if err := store.UpdateFunding(ctx, res.Projects, res.Donations); err != nil {
		return nil, err
	}
	return res, nil
}
