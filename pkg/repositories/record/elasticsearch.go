package record

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/soulstats/collector/pkg/entities"
)

// ElasticsearchConfig holds configuration options for the Elasticsearch repository
type ElasticsearchConfig struct {
	URL         string
	Username    string
	Password    string
	IndexPrefix string
	// Suffix namespaces a separate store, e.g. for contest resyncs
	Suffix string
}

// DefaultElasticsearchConfig returns a default configuration for Elasticsearch
func DefaultElasticsearchConfig() *ElasticsearchConfig {
	return &ElasticsearchConfig{
		URL:         "http://localhost:9200",
		IndexPrefix: "majsoul",
	}
}

// ElasticsearchRepository implements the Repository interface using Elasticsearch
type ElasticsearchRepository struct {
	client      *elasticsearch.Client
	indexPrefix string
}

// NewElasticsearchRepository creates a new Elasticsearch repository
func NewElasticsearchRepository(config *ElasticsearchConfig) (*ElasticsearchRepository, error) {
	// Configure the Elasticsearch client
	cfg := elasticsearch.Config{
		Addresses: []string{config.URL},
	}

	// Add authentication if provided
	if config.Username != "" && config.Password != "" {
		cfg.Username = config.Username
		cfg.Password = config.Password
	}

	// Create the client
	client, err := elasticsearch.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("error creating Elasticsearch client: %w", err)
	}

	// Set default index prefix if not provided
	if config.IndexPrefix == "" {
		config.IndexPrefix = "majsoul"
	}

	repo := &ElasticsearchRepository{
		client:      client,
		indexPrefix: config.IndexPrefix + config.Suffix,
	}

	// Initialize indices
	ctx := context.Background()
	if err := repo.initIndices(ctx); err != nil {
		return nil, fmt.Errorf("error initializing indices: %w", err)
	}

	return repo, nil
}

func (r *ElasticsearchRepository) gamesIndex() string   { return r.indexPrefix + "_games" }
func (r *ElasticsearchRepository) roundsIndex() string  { return r.indexPrefix + "_rounds" }
func (r *ElasticsearchRepository) schemasIndex() string { return r.indexPrefix + "_schemas" }

// initIndices creates the necessary indices if they don't exist
func (r *ElasticsearchRepository) initIndices(ctx context.Context) error {
	gameMapping := `{
		"mappings": {
			"properties": {
				"uuid": { "type": "keyword" },
				"mode_id": { "type": "integer" },
				"start_time": { "type": "date", "format": "epoch_second" },
				"schema_version": { "type": "keyword" },
				"players": {
					"type": "nested",
					"properties": {
						"account_id": { "type": "long" },
						"nickname": { "type": "keyword" },
						"level": { "type": "long" }
					}
				}
			}
		}
	}`

	roundsMapping := `{
		"mappings": {
			"properties": {
				"uuid": { "type": "keyword" },
				"start_time": { "type": "date", "format": "epoch_second" },
				"rounds": {
					"properties": {
						"dealer": { "type": "boolean" },
						"hand": { "type": "keyword" },
						"starting_shanten": { "type": "integer" },
						"melds": { "type": "integer" },
						"riichi_turn": { "type": "integer" },
						"double_riichi": { "type": "boolean" },
						"furiten_riichi": { "type": "boolean" },
						"self_draw": { "type": "boolean" },
						"furiten_self_draw": { "type": "boolean" },
						"deal_in_paid": { "type": "integer" },
						"liability_paid": { "type": "integer" },
						"nagashi_mangan": { "type": "boolean" },
						"tenpai_at_draw": { "type": "boolean" },
						"abort_reason": { "type": "integer" },
						"win": {
							"properties": {
								"delta": { "type": "integer" },
								"yaku": { "type": "integer" },
								"turn": { "type": "integer" }
							}
						}
					}
				}
			}
		}
	}`

	schemaMapping := `{
		"mappings": {
			"properties": {
				"version": { "type": "keyword" },
				"definition": { "type": "binary" }
			}
		}
	}`

	for _, idx := range []struct {
		name    string
		mapping string
	}{
		{r.gamesIndex(), gameMapping},
		{r.roundsIndex(), roundsMapping},
		{r.schemasIndex(), schemaMapping},
	} {
		res, err := r.client.Indices.Exists([]string{idx.name})
		if err != nil {
			return fmt.Errorf("error checking if index %s exists: %w", idx.name, err)
		}
		res.Body.Close()
		if res.StatusCode != 404 {
			continue
		}

		req := esapi.IndicesCreateRequest{
			Index: idx.name,
			Body:  bytes.NewReader([]byte(idx.mapping)),
		}
		createRes, err := req.Do(ctx, r.client)
		if err != nil {
			return fmt.Errorf("error creating index %s: %w", idx.name, err)
		}
		defer createRes.Body.Close()

		if createRes.IsError() {
			return fmt.Errorf("error creating index %s: %s", idx.name, createRes.String())
		}
	}

	return nil
}

// FindExisting returns the subset of ids already persisted as game headers
func (r *ElasticsearchRepository) FindExisting(ctx context.Context, ids []string) ([]string, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	body, err := json.Marshal(map[string]interface{}{"ids": ids})
	if err != nil {
		return nil, fmt.Errorf("error marshaling mget request: %w", err)
	}

	req := esapi.MgetRequest{
		Index:          r.gamesIndex(),
		Body:           bytes.NewReader(body),
		SourceExcludes: []string{"*"},
	}
	res, err := req.Do(ctx, r.client)
	if err != nil {
		return nil, fmt.Errorf("error looking up existing records: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("error looking up existing records: %s", res.String())
	}

	var result struct {
		Docs []struct {
			ID    string `json:"_id"`
			Found bool   `json:"found"`
		} `json:"docs"`
	}
	if err := json.NewDecoder(res.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("error parsing mget response: %w", err)
	}

	existing := make([]string, 0, len(result.Docs))
	for _, doc := range result.Docs {
		if doc.Found {
			existing = append(existing, doc.ID)
		}
	}
	return existing, nil
}

// SaveGameHeader persists match metadata keyed by uuid (upsert-safe)
func (r *ElasticsearchRepository) SaveGameHeader(ctx context.Context, head *entities.GameSummary, schemaVersion string) error {
	jsonData, err := json.Marshal(toGameDocument(head, schemaVersion))
	if err != nil {
		return fmt.Errorf("error marshaling game header: %w", err)
	}

	res, err := r.client.Index(
		r.gamesIndex(),
		bytes.NewReader(jsonData),
		r.client.Index.WithContext(ctx),
		r.client.Index.WithDocumentID(head.UUID),
	)
	if err != nil {
		return fmt.Errorf("error indexing game header: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("error indexing game header: %s", res.String())
	}
	return nil
}

// EnsureSchema persists a schema definition once per version; a version that
// already exists is left untouched
func (r *ElasticsearchRepository) EnsureSchema(ctx context.Context, version string, definition []byte) error {
	jsonData, err := json.Marshal(&schemaDocument{Version: version, Definition: definition})
	if err != nil {
		return fmt.Errorf("error marshaling schema document: %w", err)
	}

	// op_type create turns a repeat write into a version conflict
	req := esapi.CreateRequest{
		Index:      r.schemasIndex(),
		DocumentID: version,
		Body:       bytes.NewReader(jsonData),
	}
	res, err := req.Do(ctx, r.client)
	if err != nil {
		return fmt.Errorf("error persisting schema %s: %w", version, err)
	}
	defer res.Body.Close()

	// 409 means the version is already persisted, which is the goal
	if res.StatusCode == 409 {
		return nil
	}
	if res.IsError() {
		return fmt.Errorf("error persisting schema %s: %s", version, res.String())
	}
	return nil
}

// SaveRounds persists one match's round statistics keyed by uuid
func (r *ElasticsearchRepository) SaveRounds(ctx context.Context, game *entities.GameSummary, rounds [][]entities.RoundResult) error {
	doc := &roundsDocument{
		UUID:      game.UUID,
		StartTime: game.StartTime,
		Rounds:    rounds,
	}
	jsonData, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("error marshaling rounds document: %w", err)
	}

	res, err := r.client.Index(
		r.roundsIndex(),
		bytes.NewReader(jsonData),
		r.client.Index.WithContext(ctx),
		r.client.Index.WithDocumentID(game.UUID),
	)
	if err != nil {
		return fmt.Errorf("error indexing rounds for %s: %w", game.UUID, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("error indexing rounds for %s: %s", game.UUID, res.String())
	}
	return nil
}

// GetLatestRecord returns the most recently started persisted match
func (r *ElasticsearchRepository) GetLatestRecord(ctx context.Context) (*entities.GameSummary, error) {
	query := `{
		"query": { "match_all": {} },
		"sort": [
			{ "start_time": { "order": "desc" } }
		]
	}`

	res, err := r.client.Search(
		r.client.Search.WithContext(ctx),
		r.client.Search.WithIndex(r.gamesIndex()),
		r.client.Search.WithBody(bytes.NewReader([]byte(query))),
		r.client.Search.WithSize(1),
	)
	if err != nil {
		return nil, fmt.Errorf("error searching for latest record: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("error searching for latest record: %s", res.String())
	}

	var result struct {
		Hits struct {
			Total struct {
				Value int `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source gameDocument `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("error parsing latest record: %w", err)
	}

	if result.Hits.Total.Value == 0 {
		return nil, nil
	}
	return toGameSummary(&result.Hits.Hits[0].Source), nil
}

// RefreshViews refreshes the store's indices so recent writes become visible
func (r *ElasticsearchRepository) RefreshViews(ctx context.Context) error {
	req := esapi.IndicesRefreshRequest{
		Index: []string{r.indexPrefix + "_*"},
	}
	res, err := req.Do(ctx, r.client)
	if err != nil {
		return fmt.Errorf("error refreshing indices: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("error refreshing indices: %s", res.String())
	}
	return nil
}

// Close closes the repository
func (r *ElasticsearchRepository) Close() error {
	// The underlying HTTP client needs no explicit shutdown
	return nil
}
