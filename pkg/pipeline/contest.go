package pipeline

import (
	"context"
	"sort"

	"github.com/soulstats/collector/internal/types"
	"github.com/soulstats/collector/pkg/gateway"
)

// SyncContest ingests every match of one contest: the public contest id is
// resolved to the server's internal unique id, then the contest's game list
// is paged through by cursor until the server reports no further page or an
// empty one. Tenant separation happens at construction time: the caller
// builds the pipeline around a suffix-namespaced repository.
func (p *Pipeline) SyncContest(ctx context.Context, contestID int64) error {
	uniqueID, err := gateway.CallContestInfo(ctx, p.client, contestID)
	if err != nil {
		return types.WrapError(types.ErrTransport, "contest lookup failed", err)
	}
	if uniqueID == 0 {
		return types.NewIngestError(types.ErrTransport, "contest lookup returned no unique id")
	}

	seen := make(map[string]struct{})
	var lastIndex int64
	for {
		page, err := gateway.CallContestRecords(ctx, p.client, uniqueID, lastIndex)
		if err != nil {
			return types.WrapError(types.ErrTransport, "contest page fetch failed", err)
		}
		for _, id := range page.UUIDs {
			seen[id] = struct{}{}
		}
		if page.NextIndex == 0 || len(page.UUIDs) == 0 {
			break
		}
		lastIndex = page.NextIndex
	}

	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	p.logger.Info("contest %d resolved to %d matches", contestID, len(ids))
	return p.ProcessBatch(ctx, ids)
}
