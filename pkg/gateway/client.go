// Package gateway maintains the connection to the remote game service: a
// single websocket carrying request/response frames correlated by index,
// with the server's codec version and raw schema definition pushed once per
// session.
package gateway

import (
	"context"

	"github.com/soulstats/collector/pkg/codec"
)

//go:generate mockgen -source=client.go -destination=mock/mock.go -package=mock_gateway

// Client is the RPC seam the ingestion pipeline talks through. Calls address
// lobby methods by fully-qualified name (see pkg/codec for the method
// constants and message shapes).
type Client interface {
	// Call issues one request and returns the raw response payload
	Call(ctx context.Context, method string, req []byte) ([]byte, error)

	// Reconnect tears the transport down and starts a fresh dial; callers
	// follow up with WaitForReady before issuing calls
	Reconnect()

	// WaitForReady blocks until the transport is connected and the session
	// schema has been received
	WaitForReady(ctx context.Context) error

	// CodecVersion reports the schema version the server's codec is using
	CodecVersion() string

	// SchemaDefinition returns the raw schema definition for CodecVersion
	SchemaDefinition() []byte

	// Close shuts the connection down
	Close() error
}

// CallLiveList fetches one live-game list partition
func CallLiveList(ctx context.Context, c Client, filterID int64) ([]codec.LiveGame, error) {
	resp, err := c.Call(ctx, codec.MethodFetchGameLiveList, codec.MarshalReqGameLiveList(filterID))
	if err != nil {
		return nil, err
	}
	return codec.UnmarshalResGameLiveList(resp)
}

// CallGameRecord fetches one match's record response
func CallGameRecord(ctx context.Context, c Client, gameUUID string) (*codec.ResGameRecord, error) {
	resp, err := c.Call(ctx, codec.MethodFetchGameRecord, codec.MarshalReqGameRecord(gameUUID))
	if err != nil {
		return nil, err
	}
	return codec.UnmarshalResGameRecord(resp)
}

// CallRecordsDetail resolves pending match ids to their headers
func CallRecordsDetail(ctx context.Context, c Client, uuids []string) ([]codec.GameRecordHead, error) {
	resp, err := c.Call(ctx, codec.MethodFetchGameRecordsDetail, codec.MarshalReqGameRecordsDetail(uuids))
	if err != nil {
		return nil, err
	}
	return codec.UnmarshalResGameRecordsDetail(resp)
}

// CallContestInfo resolves a public contest id to its internal unique id
func CallContestInfo(ctx context.Context, c Client, contestID int64) (int64, error) {
	resp, err := c.Call(ctx, codec.MethodFetchContestInfo, codec.MarshalReqContestInfo(contestID))
	if err != nil {
		return 0, err
	}
	return codec.UnmarshalResContestInfo(resp)
}

// CallContestRecords fetches one page of a contest's game list
func CallContestRecords(ctx context.Context, c Client, uniqueID, lastIndex int64) (*codec.ResContestRecords, error) {
	resp, err := c.Call(ctx, codec.MethodFetchContestRecords, codec.MarshalReqContestRecords(uniqueID, lastIndex))
	if err != nil {
		return nil, err
	}
	return codec.UnmarshalResContestRecords(resp)
}
