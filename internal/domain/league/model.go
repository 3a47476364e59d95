package league

import "time"

// League mirrors the competition block of a provider fixture, keyed by the
// provider's league id.
type League struct {
	ExternalID int64
	Name       string
	Logo       string
	Country    string
	Season     int
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
