package pipeline

import (
	"context"
	"sort"
	"strings"

	"github.com/soulstats/collector/internal/types"
	"github.com/soulstats/collector/pkg/codec"
	"github.com/soulstats/collector/pkg/gateway"
	"github.com/soulstats/collector/pkg/storage"
)

// The live list is served in two filter partitions that together cover the
// ranked modes being collected.
var liveListFilters = []int64{216, 212}

// liveSnapshotEntry is one live match in the persisted poll snapshot.
type liveSnapshotEntry struct {
	UUID      string `json:"uuid"`
	StartTime int64  `json:"start_time,omitempty"`
	ModeID    int64  `json:"mode_id,omitempty"`
}

// dayRecord is a resolved match header filed under its day bucket.
type dayRecord struct {
	UUID      string `json:"uuid"`
	StartTime int64  `json:"start_time,omitempty"`
	ModeID    int64  `json:"mode_id,omitempty"`
}

// PollOnce runs one poll-for-new cycle: matches that were live last cycle
// but are gone now have finished, so they join the pending set; pending ids
// that resolve to record headers get filed into their day buckets and
// processed; unresolved ids carry over to the next cycle.
func (p *Pipeline) PollOnce(ctx context.Context) (int, error) {
	var oldLive []liveSnapshotEntry
	if _, err := p.store.Get(ctx, storage.KeyLiveGames, &oldLive); err != nil {
		return 0, types.WrapError(types.ErrStorage, "loading live snapshot failed", err)
	}
	var pending []string
	if _, err := p.store.Get(ctx, storage.KeyPendingIDs, &pending); err != nil {
		return 0, types.WrapError(types.ErrStorage, "loading pending ids failed", err)
	}

	live, err := p.fetchLiveGames(ctx)
	if err != nil {
		return 0, err
	}

	liveIDs := make(map[string]struct{}, len(live))
	for _, g := range live {
		liveIDs[g.UUID] = struct{}{}
	}
	for _, old := range oldLive {
		if _, stillLive := liveIDs[old.UUID]; !stillLive {
			pending = append(pending, old.UUID)
		}
	}
	pending = dedupeIDs(pending)
	if err := p.store.Set(ctx, storage.KeyPendingIDs, pending); err != nil {
		return 0, types.WrapError(types.ErrStorage, "saving pending ids failed", err)
	}

	var resolved []codec.GameRecordHead
	if len(pending) > 0 {
		resolved, err = gateway.CallRecordsDetail(ctx, p.client, pending)
		if err != nil {
			return 0, types.WrapError(types.ErrTransport, "resolving pending ids failed", err)
		}
		if err := p.fileDayBuckets(ctx, resolved); err != nil {
			return 0, err
		}
	}

	resolvedIDs := make(map[string]struct{}, len(resolved))
	for _, h := range resolved {
		resolvedIDs[h.UUID] = struct{}{}
	}
	sort.Strings(pending)
	carryover := pending[:0]
	for _, id := range pending {
		if _, ok := resolvedIDs[id]; !ok {
			carryover = append(carryover, id)
		}
	}
	if err := p.store.Set(ctx, storage.KeyPendingIDs, carryover); err != nil {
		return 0, types.WrapError(types.ErrStorage, "saving pending ids failed", err)
	}

	snapshot := make([]liveSnapshotEntry, 0, len(live))
	for _, g := range live {
		snapshot = append(snapshot, liveSnapshotEntry{UUID: g.UUID, StartTime: g.StartTime, ModeID: g.ModeID})
	}
	if err := p.store.Set(ctx, storage.KeyLiveGames, snapshot); err != nil {
		return 0, types.WrapError(types.ErrStorage, "saving live snapshot failed", err)
	}

	if len(resolvedIDs) > 0 {
		ids := make([]string, 0, len(resolvedIDs))
		for id := range resolvedIDs {
			ids = append(ids, id)
		}
		if err := p.ProcessBatch(ctx, ids); err != nil {
			return 0, err
		}
	}
	return len(resolved), nil
}

func (p *Pipeline) fetchLiveGames(ctx context.Context) ([]codec.LiveGame, error) {
	var all []codec.LiveGame
	for _, filter := range liveListFilters {
		games, err := gateway.CallLiveList(ctx, p.client, filter)
		if err != nil {
			return nil, types.WrapError(types.ErrTransport, "live list fetch failed", err)
		}
		all = append(all, games...)
	}
	return all, nil
}

// fileDayBuckets merges resolved headers into their per-day bucket files,
// keyed by the YYMMDD prefix of the match id.
func (p *Pipeline) fileDayBuckets(ctx context.Context, heads []codec.GameRecordHead) error {
	grouped := make(map[string][]codec.GameRecordHead)
	for _, h := range heads {
		day := dayPrefix(h.UUID)
		if day == "" {
			p.logger.Warn("skipping id with no day prefix: %s", h.UUID)
			continue
		}
		grouped[day] = append(grouped[day], h)
	}

	for day, records := range grouped {
		key := storage.DayBucketKey(day)
		bucket := make(map[string]dayRecord)
		if _, err := p.store.Get(ctx, key, &bucket); err != nil {
			return types.WrapError(types.ErrStorage, "loading day bucket failed", err)
		}
		for _, h := range records {
			bucket[h.UUID] = dayRecord{UUID: h.UUID, StartTime: h.StartTime, ModeID: h.ModeID}
		}
		if err := p.store.Set(ctx, key, bucket); err != nil {
			return types.WrapError(types.ErrStorage, "saving day bucket failed", err)
		}
	}
	return nil
}

// dayPrefix extracts the YYMMDD portion of a match id, or "" when the id
// does not carry one.
func dayPrefix(id string) string {
	day, _, ok := strings.Cut(id, "-")
	if !ok || len(day) != 6 {
		return ""
	}
	for _, r := range day {
		if r < '0' || r > '9' {
			return ""
		}
	}
	return day
}

func dedupeIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := ids[:0]
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
