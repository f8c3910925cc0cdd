package domain

import "github.com/google/uuid"

// Donation represents a supporter contribution awaiting allocation.
// UserID is nil for anonymous donations. Country holds the ISO code
// resolved at creation time when a GeoIP database is configured.
type Donation struct {
	Fundable
	UserID  *uuid.UUID
	Comment string
	Country string
}
