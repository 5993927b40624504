package pipeline

import (
	"context"
	"sort"
	"time"

	"github.com/soulstats/collector/internal/types"
	"github.com/soulstats/collector/pkg/storage"
)

// The day walk starts this far before the newest persisted match, so a
// partially ingested day gets re-covered on the next run.
const backfillLookback = 36 * time.Hour

// Backfill walks day buckets from just before the newest persisted match up
// to today, processing each day's id list in order. Day buckets are keyed in
// UTC to match the YYMMDD prefixes of the ids themselves.
func (p *Pipeline) Backfill(ctx context.Context) error {
	latest, err := p.repo.GetLatestRecord(ctx)
	if err != nil {
		return types.WrapError(types.ErrStorage, "loading latest record failed", err)
	}

	start := p.now()
	if latest != nil {
		start = time.Unix(latest.StartTime, 0)
	} else {
		p.logger.Info("no persisted records yet, backfilling from the lookback window only")
	}

	for _, day := range dayWalk(start.Add(-backfillLookback), p.now()) {
		ids, err := p.dayBucketIDs(ctx, day)
		if err != nil {
			return err
		}
		p.logger.Info("backfilling day %s: %d candidate ids", day, len(ids))
		if err := p.ProcessBatch(ctx, ids); err != nil {
			return err
		}
	}
	return nil
}

// dayWalk lists the YYMMDD keys from the day containing start through the
// day containing end, inclusive.
func dayWalk(start, end time.Time) []string {
	day := start.UTC().Truncate(24 * time.Hour)
	last := end.UTC().Truncate(24 * time.Hour)
	var days []string
	for !day.After(last) {
		days = append(days, day.Format("060102"))
		day = day.AddDate(0, 0, 1)
	}
	return days
}

func (p *Pipeline) dayBucketIDs(ctx context.Context, day string) ([]string, error) {
	bucket := make(map[string]dayRecord)
	if _, err := p.store.Get(ctx, storage.DayBucketKey(day), &bucket); err != nil {
		return nil, types.WrapError(types.ErrStorage, "loading day bucket failed", err)
	}
	ids := make([]string, 0, len(bucket))
	for id := range bucket {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}
