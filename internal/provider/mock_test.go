package provider

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"fxrates/internal/rates"
)

type MockSource struct {
	mock.Mock
}

func (m *MockSource) Latest(ctx context.Context) (rates.Snapshot, error) {
	args := m.Called(ctx)
	return args.Get(0).(rates.Snapshot), args.Error(1)
}

func (m *MockSource) LatestForBase(ctx context.Context, base string) (rates.Snapshot, error) {
	args := m.Called(ctx, base)
	return args.Get(0).(rates.Snapshot), args.Error(1)
}

func (m *MockSource) LatestForSymbols(ctx context.Context, symbols []string) ([]rates.Snapshot, error) {
	args := m.Called(ctx, symbols)
	snaps, _ := args.Get(0).([]rates.Snapshot)
	return snaps, args.Error(1)
}

func (m *MockSource) Historical(ctx context.Context, date time.Time) (rates.Snapshot, error) {
	args := m.Called(ctx, date)
	return args.Get(0).(rates.Snapshot), args.Error(1)
}

func (m *MockSource) HistoricalRange(ctx context.Context, start, end time.Time) ([]rates.Snapshot, error) {
	args := m.Called(ctx, start, end)
	snaps, _ := args.Get(0).([]rates.Snapshot)
	return snaps, args.Error(1)
}

func (m *MockSource) HistoricalRangeForSymbols(ctx context.Context, start, end time.Time, symbols []string) ([]rates.Snapshot, error) {
	args := m.Called(ctx, start, end, symbols)
	snaps, _ := args.Get(0).([]rates.Snapshot)
	return snaps, args.Error(1)
}

func (m *MockSource) HistoricalRangeForBase(ctx context.Context, start, end time.Time, base string) ([]rates.Snapshot, error) {
	args := m.Called(ctx, start, end, base)
	snaps, _ := args.Get(0).([]rates.Snapshot)
	return snaps, args.Error(1)
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func eurSnapshot(date time.Time, usd float64) rates.Snapshot {
	return rates.New("EUR", date, map[string]float64{"USD": usd, "SEK": 10.30})
}
