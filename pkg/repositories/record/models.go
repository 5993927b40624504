package record

import (
	"github.com/soulstats/collector/pkg/entities"
)

// gameDocument is the Elasticsearch shape of one match header
type gameDocument struct {
	UUID          string                `json:"uuid"`
	ModeID        int64                 `json:"mode_id,omitempty"`
	StartTime     int64                 `json:"start_time,omitempty"`
	Players       []entities.PlayerInfo `json:"players,omitempty"`
	SchemaVersion string                `json:"schema_version"`
}

// roundsDocument is the Elasticsearch shape of one match's reconstructed
// rounds; keyed by the match uuid so reprocessing overwrites
type roundsDocument struct {
	UUID      string                   `json:"uuid"`
	StartTime int64                    `json:"start_time,omitempty"`
	Rounds    [][]entities.RoundResult `json:"rounds"`
}

// schemaDocument is one codec schema definition, keyed by version
type schemaDocument struct {
	Version    string `json:"version"`
	Definition []byte `json:"definition"`
}

func toGameDocument(head *entities.GameSummary, schemaVersion string) *gameDocument {
	return &gameDocument{
		UUID:          head.UUID,
		ModeID:        head.ModeID,
		StartTime:     head.StartTime,
		Players:       head.Players,
		SchemaVersion: schemaVersion,
	}
}

func toGameSummary(doc *gameDocument) *entities.GameSummary {
	return &entities.GameSummary{
		UUID:      doc.UUID,
		ModeID:    doc.ModeID,
		StartTime: doc.StartTime,
		Players:   doc.Players,
	}
}
