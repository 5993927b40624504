package storage

import "context"

// Well-known keys used by the ingestion flows
const (
	KeyLiveGames  = "live.json"
	KeyPendingIDs = "pending_ids.json"
)

// DayBucketKey names the per-day record bucket for a YYMMDD prefix
func DayBucketKey(day string) string {
	return "records/" + day + ".json"
}

// Store is a key/value blob store for JSON-serializable values
type Store interface {
	// Get loads the value for key into out, reporting whether the key exists
	Get(ctx context.Context, key string, out interface{}) (bool, error)

	// Set stores the value for key, overwriting any previous value
	Set(ctx context.Context, key string, value interface{}) error

	// Close closes any resources used by the store
	Close() error
}
