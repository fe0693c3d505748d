package collector

import (
	"context"
	"errors"
	"fmt"
	"time"

	"DCABacktest/internal/calculator"
	"DCABacktest/internal/model"

	"github.com/rs/zerolog/log"
)

// Source supplies the full bar history for one symbol.
type Source interface {
	Bars(ctx context.Context) ([]model.OHLCV, error)
}

// TieredSource serves bars from the cache and falls back to the fetcher when
// the cache is missing. A fetched history is written to the cache once.
type TieredSource struct {
	Cache        *CSVCache
	Fetcher      Fetcher
	Symbol       string
	Interval     string
	HistoryStart time.Time
	HistoryEnd   time.Time
	Refresh      bool // skip the cache lookup and fetch again
}

// Bars implements Source.
func (s *TieredSource) Bars(ctx context.Context) ([]model.OHLCV, error) {
	if !s.Refresh {
		bars, err := s.Cache.Load()
		switch {
		case err == nil:
			log.Info().Str("file", s.Cache.Path).Int("bars", len(bars)).Msg("loaded price history from cache")
			return bars, nil
		case errors.Is(err, ErrCacheMiss):
			log.Info().Str("file", s.Cache.Path).Msg("cache file not found, fetching price history")
		default:
			return nil, err
		}
	}

	log.Info().Str("source", s.Fetcher.Name()).Str("symbol", s.Symbol).Str("interval", s.Interval).
		Str("from", s.HistoryStart.Format(time.DateOnly)).Str("to", s.HistoryEnd.Format(time.DateOnly)).
		Msg("fetching price history")
	bars, err := s.Fetcher.FetchBars(ctx, s.Symbol, s.Interval, s.HistoryStart, s.HistoryEnd)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.Fetcher.Name(), err)
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("%w: %s returned no bars for %s", model.ErrNoData, s.Fetcher.Name(), s.Symbol)
	}
	calculator.RunningHigh(bars)

	if err := s.Cache.Save(bars); err != nil {
		return nil, err
	}
	log.Info().Str("file", s.Cache.Path).Int("bars", len(bars)).Msg("price history saved to cache")
	return bars, nil
}
