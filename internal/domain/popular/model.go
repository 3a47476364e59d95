package popular

import "time"

// Snapshot is one day's popular-matches payload exactly as the provider
// returned it. The payload is opaque to the service beyond being valid
// JSON.
type Snapshot struct {
	CacheDate string
	Payload   []byte
	CreatedAt time.Time
}
