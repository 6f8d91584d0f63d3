//go:build integration

package integration

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"fxrates/internal/provider"
	"fxrates/internal/rates"
	"fxrates/internal/testkit"
)

// countingSource answers every call with a fixed EUR snapshot and counts calls.
type countingSource struct {
	provider.RatesSource
	calls atomic.Int32
	err   error
}

func (s *countingSource) snapshot(date time.Time) rates.Snapshot {
	return rates.New("EUR", date, map[string]float64{"USD": 1.2, "SEK": 10.3})
}

func (s *countingSource) Latest(_ context.Context) (rates.Snapshot, error) {
	s.calls.Add(1)
	if s.err != nil {
		return rates.Snapshot{}, s.err
	}
	return s.snapshot(time.Now()), nil
}

func (s *countingSource) LatestForBase(_ context.Context, base string) (rates.Snapshot, error) {
	s.calls.Add(1)
	if s.err != nil {
		return rates.Snapshot{}, s.err
	}
	return rates.New(base, time.Now(), map[string]float64{"USD": 1.1}), nil
}

func (s *countingSource) HistoricalRange(_ context.Context, start, end time.Time) ([]rates.Snapshot, error) {
	s.calls.Add(1)
	if s.err != nil {
		return nil, s.err
	}
	var out []rates.Snapshot
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		out = append(out, s.snapshot(d))
	}
	return out, nil
}

// freshRedis returns a client on database db with all keys removed.
func freshRedis(t *testing.T, db int) *goredis.Client {
	t.Helper()
	client := testkit.Global().NewRedisClient(t, db)
	if err := client.FlushDB(context.Background()).Err(); err != nil {
		t.Fatalf("failed to flush redis: %v", err)
	}
	return client
}
