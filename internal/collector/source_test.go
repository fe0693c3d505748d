package collector

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"DCABacktest/internal/model"
)

var histStart = time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)

// hourlyBars generates count hourly bars starting at start whose close walks
// by step per hour from base.
func hourlyBars(start time.Time, count int, base, step float64) []model.OHLCV {
	bars := make([]model.OHLCV, count)
	for i := 0; i < count; i++ {
		p := base + float64(i)*step
		bars[i] = model.OHLCV{
			Time:   start.Add(time.Duration(i) * time.Hour),
			Open:   p * 0.999,
			High:   p * 1.005,
			Low:    p * 0.995,
			Close:  p,
			Volume: 10,
		}
	}
	return bars
}

func newTiered(t *testing.T, f Fetcher) *TieredSource {
	t.Helper()
	return &TieredSource{
		Cache:        NewCSVCache(filepath.Join(t.TempDir(), "btc.csv")),
		Fetcher:      f,
		Symbol:       "BTCUSDT",
		Interval:     "1h",
		HistoryStart: histStart,
		HistoryEnd:   histStart.AddDate(0, 0, 10),
	}
}

func TestTieredSource_FetchesOnceThenServesCache(t *testing.T) {
	mock := &MockFetcher{Bars: hourlyBars(histStart, 72, 100, 1)}
	src := newTiered(t, mock)

	first, err := src.Bars(context.Background())
	require.NoError(t, err)
	require.Len(t, first, 72)
	assert.Equal(t, 1, mock.Calls)
	assert.Equal(t, 171.0, first[71].LastATH)

	second, err := src.Bars(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, mock.Calls, "second call must be served from cache")
	assert.Equal(t, first, second)
}

func TestTieredSource_Refresh(t *testing.T) {
	mock := &MockFetcher{Bars: hourlyBars(histStart, 24, 100, 0)}
	src := newTiered(t, mock)

	_, err := src.Bars(context.Background())
	require.NoError(t, err)
	src.Refresh = true
	_, err = src.Bars(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, mock.Calls)
}

func TestTieredSource_FetchErrorSurfaces(t *testing.T) {
	boom := errors.New("exchange down")
	src := newTiered(t, &MockFetcher{Err: boom})

	_, err := src.Bars(context.Background())
	require.ErrorIs(t, err, boom)

	_, err = src.Cache.Load()
	require.ErrorIs(t, err, ErrCacheMiss, "nothing is cached on failure")
}

func TestTieredSource_EmptyFetchIsNotCached(t *testing.T) {
	mock := &MockFetcher{}
	src := newTiered(t, mock)

	_, err := src.Bars(context.Background())
	require.ErrorIs(t, err, model.ErrNoData)
	_, err = src.Cache.Load()
	require.ErrorIs(t, err, ErrCacheMiss)

	// the next run goes back to the network
	mock.Bars = hourlyBars(histStart, 48, 100, 1)
	s, err := NewCollector(src, "BTCUSDT").Series(context.Background(), histStart, histStart.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Equal(t, 2, s.Len())
	assert.Equal(t, 2, mock.Calls)
}

func TestCollector_Series(t *testing.T) {
	mock := &MockFetcher{Bars: hourlyBars(histStart, 24*5, 100, 1)}
	c := NewCollector(newTiered(t, mock), "BTCUSDT")

	s, err := c.Series(context.Background(), histStart.AddDate(0, 0, 1), histStart.AddDate(0, 0, 3))
	require.NoError(t, err)
	require.Equal(t, 3, s.Len())
	assert.Equal(t, "BTCUSDT", s.Symbol)
	assert.Equal(t, histStart.AddDate(0, 0, 1), s.First().Time)
	// last hourly close of day index 1 is bar 47
	assert.Equal(t, 147.0, s.First().Close)
	assert.Equal(t, 195.0, s.Last().Close)
}

func TestCollector_NoData(t *testing.T) {
	mock := &MockFetcher{Bars: hourlyBars(histStart, 24, 100, 1)}
	c := NewCollector(newTiered(t, mock), "BTCUSDT")

	_, err := c.Series(context.Background(), histStart.AddDate(1, 0, 0), histStart.AddDate(2, 0, 0))
	require.ErrorIs(t, err, model.ErrNoData)
}
