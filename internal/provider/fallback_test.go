package provider

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"fxrates/internal/rates"
)

func TestFallbackSource_Latest(t *testing.T) {
	snap := eurSnapshot(day(2020, 1, 3), 1.22)

	t.Run("first succeeds", func(t *testing.T) {
		m1 := new(MockSource)
		m2 := new(MockSource)
		m1.On("Latest", mock.Anything).Return(snap, nil)

		s, err := NewFallbackSource(m1, m2).Latest(context.Background())

		assert.NoError(t, err)
		assert.Equal(t, "EUR", s.Base())
		m1.AssertExpectations(t)
		m2.AssertNotCalled(t, "Latest", mock.Anything)
	})

	t.Run("first fails, second succeeds", func(t *testing.T) {
		m1 := new(MockSource)
		m2 := new(MockSource)
		m1.On("Latest", mock.Anything).Return(rates.Snapshot{}, errors.New("m1 failed"))
		m2.On("Latest", mock.Anything).Return(snap, nil)

		s, err := NewFallbackSource(m1, m2).Latest(context.Background())

		assert.NoError(t, err)
		usd, _ := s.Get("USD")
		assert.Equal(t, 1.22, usd)
		m1.AssertExpectations(t)
		m2.AssertExpectations(t)
	})

	t.Run("all fail", func(t *testing.T) {
		m1 := new(MockSource)
		m2 := new(MockSource)
		m1.On("Latest", mock.Anything).Return(rates.Snapshot{}, errors.New("m1 failed"))
		m2.On("Latest", mock.Anything).Return(rates.Snapshot{}, errors.New("m2 failed"))

		_, err := NewFallbackSource(m1, m2).Latest(context.Background())

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "all sources failed")
		assert.Contains(t, err.Error(), "m1 failed")
		assert.Contains(t, err.Error(), "m2 failed")
	})
}

func TestFallbackSource_InvalidArgument(t *testing.T) {
	rejected := func() error { return fmt.Errorf("%w: unknown currency", ErrInvalidArgument) }

	t.Run("every source rejected", func(t *testing.T) {
		m1 := new(MockSource)
		m2 := new(MockSource)
		m1.On("Historical", mock.Anything, day(2020, 1, 3)).Return(rates.Snapshot{}, rejected())
		m2.On("Historical", mock.Anything, day(2020, 1, 3)).Return(rates.Snapshot{}, rejected())

		_, err := NewFallbackSource(m1, m2).Historical(context.Background(), day(2020, 1, 3))

		assert.ErrorIs(t, err, ErrInvalidArgument)
	})

	t.Run("rejection mixed with transport failure", func(t *testing.T) {
		transport := errors.New("timeout")
		m1 := new(MockSource)
		m2 := new(MockSource)
		m1.On("Historical", mock.Anything, day(2020, 1, 3)).Return(rates.Snapshot{}, transport)
		m2.On("Historical", mock.Anything, day(2020, 1, 3)).Return(rates.Snapshot{}, rejected())

		_, err := NewFallbackSource(m1, m2).Historical(context.Background(), day(2020, 1, 3))

		assert.NotErrorIs(t, err, ErrInvalidArgument)
		assert.ErrorIs(t, err, transport)
		assert.Contains(t, err.Error(), "unknown currency")
	})
}

func TestFallbackSource_Range(t *testing.T) {
	series := []rates.Snapshot{eurSnapshot(day(2020, 1, 1), 1.20), eurSnapshot(day(2020, 1, 2), 1.21)}
	m1 := new(MockSource)
	m2 := new(MockSource)
	m1.On("HistoricalRangeForSymbols", mock.Anything, day(2020, 1, 1), day(2020, 1, 2), []string{"USD"}).
		Return(nil, errors.New("down"))
	m2.On("HistoricalRangeForSymbols", mock.Anything, day(2020, 1, 1), day(2020, 1, 2), []string{"USD"}).
		Return(series, nil)

	got, err := NewFallbackSource(m1, m2).HistoricalRangeForSymbols(context.Background(), day(2020, 1, 1), day(2020, 1, 2), []string{"USD"})

	assert.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestFallbackSource_Empty(t *testing.T) {
	_, err := NewFallbackSource().Latest(context.Background())
	assert.Error(t, err)
}

func TestFallbackSource_CanceledContext(t *testing.T) {
	m1 := new(MockSource)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewFallbackSource(m1).Latest(ctx)

	assert.ErrorIs(t, err, context.Canceled)
	m1.AssertNotCalled(t, "Latest", mock.Anything)
}
