package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestInvestClosesAtTarget(t *testing.T) {
	now := time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)
	f := Fundable{ID: uuid.New(), FullAmount: 100, CreateDate: now.Add(-time.Hour)}

	f.Invest(60, now)
	if f.FullyInvested || f.CloseDate != nil {
		t.Fatalf("entity closed before reaching target")
	}
	if f.Remaining() != 40 {
		t.Fatalf("expected 40 remaining, got %d", f.Remaining())
	}

	f.Invest(40, now)
	if !f.FullyInvested {
		t.Fatalf("entity should close at target")
	}
	if f.CloseDate == nil || !f.CloseDate.Equal(now) {
		t.Fatalf("close date not stamped")
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	first := time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)
	f := Fundable{ID: uuid.New(), FullAmount: 10, InvestedAmount: 10}

	f.Close(first)
	f.Close(first.Add(time.Hour))
	if !f.CloseDate.Equal(first) {
		t.Fatalf("close date must be set exactly once, got %v", f.CloseDate)
	}
}

func TestCheckOpen(t *testing.T) {
	cases := []struct {
		name string
		f    Fundable
		ok   bool
	}{
		{"fresh", Fundable{FullAmount: 100}, true},
		{"partial", Fundable{FullAmount: 100, InvestedAmount: 60}, true},
		{"zero target", Fundable{FullAmount: 0}, false},
		{"negative invested", Fundable{FullAmount: 100, InvestedAmount: -1}, false},
		{"over invested", Fundable{FullAmount: 100, InvestedAmount: 101}, false},
		{"closed flag", Fundable{FullAmount: 100, InvestedAmount: 50, FullyInvested: true}, false},
		{"exhausted but open", Fundable{FullAmount: 100, InvestedAmount: 100}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.f.CheckOpen()
			if tc.ok && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !tc.ok {
				if !errors.Is(err, ErrInvariant) {
					t.Fatalf("expected ErrInvariant, got %v", err)
				}
			}
		})
	}
}
