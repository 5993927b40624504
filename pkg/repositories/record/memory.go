package record

import (
	"context"
	"sync"

	"github.com/soulstats/collector/pkg/entities"
)

// MemoryRepository is an in-memory Repository for tests and local runs
type MemoryRepository struct {
	mu       sync.RWMutex
	games    map[string]*gameDocument
	rounds   map[string]*roundsDocument
	schemas  map[string][]byte
	refreshs int
}

// NewMemoryRepository creates a new in-memory repository
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		games:   make(map[string]*gameDocument),
		rounds:  make(map[string]*roundsDocument),
		schemas: make(map[string][]byte),
	}
}

// FindExisting returns the subset of ids already saved
func (r *MemoryRepository) FindExisting(ctx context.Context, ids []string) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	existing := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := r.games[id]; ok {
			existing = append(existing, id)
		}
	}
	return existing, nil
}

// SaveGameHeader saves or overwrites a match header
func (r *MemoryRepository) SaveGameHeader(ctx context.Context, head *entities.GameSummary, schemaVersion string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.games[head.UUID] = toGameDocument(head, schemaVersion)
	return nil
}

// EnsureSchema stores a schema definition once per version
func (r *MemoryRepository) EnsureSchema(ctx context.Context, version string, definition []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.schemas[version]; ok {
		return nil
	}
	r.schemas[version] = definition
	return nil
}

// SaveRounds saves or overwrites a match's round statistics
func (r *MemoryRepository) SaveRounds(ctx context.Context, game *entities.GameSummary, rounds [][]entities.RoundResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.rounds[game.UUID] = &roundsDocument{
		UUID:      game.UUID,
		StartTime: game.StartTime,
		Rounds:    rounds,
	}
	return nil
}

// GetLatestRecord returns the saved match with the greatest start time
func (r *MemoryRepository) GetLatestRecord(ctx context.Context) (*entities.GameSummary, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var latest *gameDocument
	for _, doc := range r.games {
		if latest == nil || doc.StartTime > latest.StartTime {
			latest = doc
		}
	}
	if latest == nil {
		return nil, nil
	}
	return toGameSummary(latest), nil
}

// RefreshViews counts refreshes so tests can assert on them
func (r *MemoryRepository) RefreshViews(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.refreshs++
	return nil
}

// RefreshCount reports how many times RefreshViews was called
func (r *MemoryRepository) RefreshCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.refreshs
}

// SavedRounds returns the stored rounds for a match, or nil
func (r *MemoryRepository) SavedRounds(uuid string) [][]entities.RoundResult {
	r.mu.RLock()
	defer r.mu.RUnlock()

	doc, ok := r.rounds[uuid]
	if !ok {
		return nil
	}
	return doc.Rounds
}

// SchemaVersions returns the stored schema versions
func (r *MemoryRepository) SchemaVersions() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	versions := make([]string, 0, len(r.schemas))
	for v := range r.schemas {
		versions = append(versions, v)
	}
	return versions
}

// Close closes the repository
func (r *MemoryRepository) Close() error {
	return nil
}
