package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Fundable carries the funding progress shared by projects and donations.
// Only the allocation engine mutates these fields after creation.
type Fundable struct {
	ID             uuid.UUID
	FullAmount     int64
	InvestedAmount int64
	FullyInvested  bool
	CreateDate     time.Time
	CloseDate      *time.Time
}

// Remaining returns the capacity still open for matching.
func (f *Fundable) Remaining() int64 {
	return f.FullAmount - f.InvestedAmount
}

// Open reports whether the entity is still eligible for matching.
func (f *Fundable) Open() bool {
	return !f.FullyInvested
}

// Invest adds amount to the invested total and closes the entity once the
// target is reached. The caller guarantees amount <= Remaining().
func (f *Fundable) Invest(amount int64, now time.Time) {
	f.InvestedAmount += amount
	if f.InvestedAmount == f.FullAmount {
		f.Close(now)
	}
}

// Close marks the entity fully invested and stamps the close date exactly once.
func (f *Fundable) Close(now time.Time) {
	if f.FullyInvested {
		return
	}
	f.FullyInvested = true
	t := now
	f.CloseDate = &t
}

// CheckOpen validates the invariants an open entity must satisfy before it
// enters a matching pass. A failure here means the stored row is corrupt.
func (f *Fundable) CheckOpen() error {
	if f.FullAmount <= 0 {
		return fmt.Errorf("%w: entity %s has full_amount %d", ErrInvariant, f.ID, f.FullAmount)
	}
	if f.InvestedAmount < 0 || f.InvestedAmount > f.FullAmount {
		return fmt.Errorf("%w: entity %s invested %d of %d", ErrInvariant, f.ID, f.InvestedAmount, f.FullAmount)
	}
	if f.FullyInvested {
		return fmt.Errorf("%w: entity %s is closed but was loaded as open", ErrInvariant, f.ID)
	}
	if f.Remaining() <= 0 {
		return fmt.Errorf("%w: open entity %s has no remaining capacity", ErrInvariant, f.ID)
	}
	return nil
}
