// Package pipeline orchestrates match ingestion: discovering finished
// matches, deduplicating against the repository, fetching raw payloads, and
// feeding them through the reconstruction engine one match at a time.
package pipeline

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/soulstats/collector/internal/logging"
	"github.com/soulstats/collector/internal/types"
	"github.com/soulstats/collector/pkg/engine"
	"github.com/soulstats/collector/pkg/entities"
	"github.com/soulstats/collector/pkg/gateway"
	"github.com/soulstats/collector/pkg/repositories/record"
	"github.com/soulstats/collector/pkg/storage"
)

// Existence lookups are chunked so one id list never exceeds the document
// store's per-query limit.
const existenceBatchSize = 100

// One match is fully processed before the next begins; the pacing sleep
// keeps the remote service from seeing a burst of record fetches.
const defaultPaceInterval = time.Second

// Config wires the pipeline's collaborators. Client, Repository, and Store
// are required; the rest default sensibly.
type Config struct {
	Client     gateway.Client
	Repository record.Repository
	Store      storage.Store

	HTTPClient   *http.Client
	Logger       *logging.Logger
	PaceInterval time.Duration

	// Sleep and Now are overridable for tests
	Sleep func(time.Duration)
	Now   func() time.Time
}

// Pipeline runs the three ingestion flows against a single shared gateway
// connection. It is not safe for concurrent use; all flows are sequential.
type Pipeline struct {
	client gateway.Client
	repo   record.Repository
	store  storage.Store

	httpClient *http.Client
	logger     *logging.Logger
	pace       time.Duration
	sleep      func(time.Duration)
	now        func() time.Time
}

// New creates a Pipeline from cfg.
func New(cfg Config) (*Pipeline, error) {
	if cfg.Client == nil {
		return nil, types.NewIngestError(types.ErrConfig, "pipeline requires a gateway client")
	}
	if cfg.Repository == nil {
		return nil, types.NewIngestError(types.ErrConfig, "pipeline requires a repository")
	}
	if cfg.Store == nil {
		return nil, types.NewIngestError(types.ErrConfig, "pipeline requires a blob store")
	}

	p := &Pipeline{
		client:     cfg.Client,
		repo:       cfg.Repository,
		store:      cfg.Store,
		httpClient: cfg.HTTPClient,
		logger:     cfg.Logger,
		pace:       cfg.PaceInterval,
		sleep:      cfg.Sleep,
		now:        cfg.Now,
	}
	if p.httpClient == nil {
		p.httpClient = &http.Client{Timeout: payloadFetchTimeout}
	}
	if p.logger == nil {
		p.logger = logging.Default
	}
	if p.pace == 0 {
		p.pace = defaultPaceInterval
	}
	if p.sleep == nil {
		p.sleep = time.Sleep
	}
	if p.now == nil {
		p.now = time.Now
	}
	return p, nil
}

// FilterUnseen returns the subset of ids not yet persisted. Lookups are
// chunked at existenceBatchSize; output order follows input order.
func (p *Pipeline) FilterUnseen(ctx context.Context, ids []string) ([]string, error) {
	existing := make(map[string]struct{})
	for start := 0; start < len(ids); start += existenceBatchSize {
		end := start + existenceBatchSize
		if end > len(ids) {
			end = len(ids)
		}
		found, err := p.repo.FindExisting(ctx, ids[start:end])
		if err != nil {
			return nil, types.WrapError(types.ErrStorage, "existence lookup failed", err)
		}
		for _, id := range found {
			existing[id] = struct{}{}
		}
	}

	unseen := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := existing[id]; !ok {
			unseen = append(unseen, id)
		}
	}
	return unseen, nil
}

// ProcessBatch ingests the given match ids: dedup, sort, then per id fetch
// the payload, persist the header and schema, reconstruct, and persist the
// rounds, pacing between matches. View refresh runs after every batch, even
// an empty one, so earlier partial runs become visible.
func (p *Pipeline) ProcessBatch(ctx context.Context, ids []string) error {
	unseen, err := p.FilterUnseen(ctx, ids)
	if err != nil {
		return err
	}
	sort.Strings(unseen)

	for _, id := range unseen {
		if err := p.processOne(ctx, id); err != nil {
			if types.IsIngestError(err, types.ErrEmptyPayload) {
				p.logger.Info("no data in response, skipping %s", id)
				continue
			}
			return err
		}
		p.sleep(p.pace)
	}

	if err := p.repo.RefreshViews(ctx); err != nil {
		return types.WrapError(types.ErrStorage, "view refresh failed", err)
	}
	return nil
}

func (p *Pipeline) processOne(ctx context.Context, id string) error {
	p.logger.Info("processing %s", id)

	rec, err := p.fetchRecord(ctx, id)
	if err != nil {
		return err
	}

	game := headToSummary(id, rec)
	version := p.client.CodecVersion()

	if err := p.persistWithRetry(ctx, "save game header", func() error {
		return p.repo.SaveGameHeader(ctx, game, version)
	}); err != nil {
		return err
	}
	if err := p.persistWithRetry(ctx, "ensure schema", func() error {
		return p.repo.EnsureSchema(ctx, version, p.client.SchemaDefinition())
	}); err != nil {
		return err
	}

	rounds, err := engine.Reconstruct(game, rec.Data)
	if err != nil {
		return err
	}
	return p.persistWithRetry(ctx, "save rounds", func() error {
		return p.repo.SaveRounds(ctx, game, rounds)
	})
}

func (p *Pipeline) persistWithRetry(ctx context.Context, op string, fn func() error) error {
	err := p.withRetry(ctx, op, fn, nil)
	if err != nil {
		return types.WrapError(types.ErrStorage, op+" failed", err)
	}
	return nil
}

func headToSummary(id string, rec *fetchedRecord) *entities.GameSummary {
	game := &entities.GameSummary{UUID: id}
	if rec.Head == nil {
		return game
	}
	game.UUID = rec.Head.UUID
	game.StartTime = rec.Head.StartTime
	game.ModeID = rec.Head.ModeID
	for _, pl := range rec.Head.Players {
		game.Players = append(game.Players, entities.PlayerInfo{
			AccountID: pl.AccountID,
			Nickname:  pl.Nickname,
			Level:     pl.Level,
		})
	}
	return game
}
