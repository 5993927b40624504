package record

import (
	"context"

	"github.com/soulstats/collector/pkg/entities"
)

//go:generate mockgen -source=$GOFILE -destination=mock/mock.go -package=mock_record

// Repository defines storage operations for match headers, round statistics,
// and codec schemas. Implementations must be upsert-safe: reprocessing the
// same match id overwrites rather than duplicates.
type Repository interface {
	// FindExisting returns the subset of ids already persisted. No order
	// guarantee; callers re-sort before use.
	FindExisting(ctx context.Context, ids []string) ([]string, error)

	// SaveGameHeader persists match-level metadata and the codec version it
	// was fetched under
	SaveGameHeader(ctx context.Context, head *entities.GameSummary, schemaVersion string) error

	// EnsureSchema persists a codec schema definition exactly once per
	// version; repeat calls are no-ops
	EnsureSchema(ctx context.Context, version string, definition []byte) error

	// SaveRounds persists one match's reconstructed round statistics
	SaveRounds(ctx context.Context, game *entities.GameSummary, rounds [][]entities.RoundResult) error

	// GetLatestRecord returns the most recently started persisted match, or
	// nil when the store is empty
	GetLatestRecord(ctx context.Context) (*entities.GameSummary, error)

	// RefreshViews makes recent writes visible to downstream queries
	RefreshViews(ctx context.Context) error

	// Close closes any resources used by the repository
	Close() error
}
