package pipeline

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/soulstats/collector/internal/types"
	"github.com/soulstats/collector/pkg/codec"
	"github.com/soulstats/collector/pkg/gateway"
)

const (
	payloadFetchTimeout  = 5 * time.Second
	reconnectDelay       = time.Second
	reconnectReadyWindow = 30 * time.Second
)

// fetchedRecord is a record response with its payload fully resolved: if the
// server pointed at a secondary URL, Data holds the downloaded bytes.
type fetchedRecord struct {
	Head *codec.GameRecordHead
	Data []byte
}

// fetchRecord retrieves one match's record. A failed RPC gets exactly one
// reconnect-and-retry; a response with neither inline data nor a payload URL
// comes back as an empty-payload error for the caller to skip.
func (p *Pipeline) fetchRecord(ctx context.Context, id string) (*fetchedRecord, error) {
	resp, err := gateway.CallGameRecord(ctx, p.client, id)
	if err != nil {
		p.logger.Warn("record fetch failed for %s, reconnecting: %v", id, err)
		p.sleep(reconnectDelay)
		p.client.Reconnect()

		readyCtx, cancel := context.WithTimeout(ctx, reconnectReadyWindow)
		defer cancel()
		if err := p.client.WaitForReady(readyCtx); err != nil {
			return nil, err
		}
		resp, err = gateway.CallGameRecord(ctx, p.client, id)
		if err != nil {
			return nil, types.WrapError(types.ErrTransport,
				fmt.Sprintf("record fetch failed for %s after reconnect", id), err)
		}
	}

	if resp.DataURL == "" && len(resp.Data) == 0 {
		return nil, types.NewIngestError(types.ErrEmptyPayload,
			fmt.Sprintf("no data in response for %s", id))
	}

	rec := &fetchedRecord{Head: resp.Head, Data: resp.Data}
	if resp.DataURL != "" {
		data, err := p.downloadPayload(ctx, resp.DataURL)
		if err != nil {
			return nil, err
		}
		rec.Data = data
	}
	return rec, nil
}

// downloadPayload pulls a record payload from its secondary URL. Transient
// failures retry on the standard schedule; a 403 is a permanent denial and
// ends the loop at once.
func (p *Pipeline) downloadPayload(ctx context.Context, url string) ([]byte, error) {
	var data []byte
	err := p.withRetry(ctx, "payload download", func() error {
		b, err := p.downloadOnce(ctx, url)
		if err != nil {
			return err
		}
		data = b
		return nil
	}, func(err error) bool {
		return types.IsIngestError(err, types.ErrPermanentDenial)
	})
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (p *Pipeline) downloadOnce(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, types.WrapError(types.ErrTransport, "bad payload url", err)
	}
	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, types.WrapError(types.ErrTransport, "payload download failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusForbidden {
		return nil, types.NewIngestError(types.ErrPermanentDenial,
			fmt.Sprintf("payload url denied with status %d", resp.StatusCode))
	}
	if resp.StatusCode != http.StatusOK {
		return nil, types.NewIngestError(types.ErrTransport,
			fmt.Sprintf("payload url returned status %d", resp.StatusCode))
	}
	return io.ReadAll(resp.Body)
}
