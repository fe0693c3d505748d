package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"DCABacktest/internal/model"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"
)

const (
	DefaultBinanceURL = "https://api.binance.com"
	klinesPageLimit   = 1000
)

// BinanceFetcher implements Fetcher using the public Binance klines endpoint.
// No API key is needed for historical candles.
type BinanceFetcher struct {
	BaseURL string
	Client  *http.Client
	Limiter *rate.Limiter
	Breaker *gobreaker.CircuitBreaker
}

// BinanceOptions tunes the fetcher. Zero values pick defaults.
type BinanceOptions struct {
	BaseURL           string
	Proxy             string
	Timeout           time.Duration
	RequestsPerSecond float64
}

// NewBinanceFetcher creates a fetcher paced to opts.RequestsPerSecond.
func NewBinanceFetcher(opts BinanceOptions) *BinanceFetcher {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBinanceURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.RequestsPerSecond <= 0 {
		opts.RequestsPerSecond = 5
	}
	return &BinanceFetcher{
		BaseURL: opts.BaseURL,
		Client:  newHTTPClient(opts.Proxy, opts.Timeout),
		Limiter: rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), 1),
		Breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        "binance",
			MaxRequests: 1,
			Timeout:     30 * time.Second,
			ReadyToTrip: func(c gobreaker.Counts) bool {
				return c.ConsecutiveFailures >= 3
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state change")
			},
		}),
	}
}

func (f *BinanceFetcher) Name() string { return "binance" }

// FetchBars pages through /api/v3/klines from start until end.
func (f *BinanceFetcher) FetchBars(ctx context.Context, symbol, interval string, start, end time.Time) ([]model.OHLCV, error) {
	var bars []model.OHLCV
	from := start.UnixMilli()
	to := end.UnixMilli()

	for from <= to {
		page, err := f.fetchPage(ctx, symbol, interval, from, to)
		if err != nil {
			return nil, err
		}
		if len(page) == 0 {
			break
		}
		bars = append(bars, page...)
		log.Debug().Str("symbol", symbol).Int("bars", len(bars)).
			Time("through", page[len(page)-1].Time).Msg("klines page")

		if len(page) < klinesPageLimit {
			break
		}
		from = page[len(page)-1].Time.UnixMilli() + 1
	}
	return bars, nil
}

func (f *BinanceFetcher) fetchPage(ctx context.Context, symbol, interval string, from, to int64) ([]model.OHLCV, error) {
	if err := f.Limiter.Wait(ctx); err != nil {
		return nil, err
	}

	q := url.Values{}
	q.Set("symbol", symbol)
	q.Set("interval", interval)
	q.Set("startTime", strconv.FormatInt(from, 10))
	q.Set("endTime", strconv.FormatInt(to, 10))
	q.Set("limit", strconv.Itoa(klinesPageLimit))
	endpoint := f.BaseURL + "/api/v3/klines?" + q.Encode()

	out, err := f.Breaker.Execute(func() (interface{}, error) {
		return f.get(ctx, endpoint)
	})
	if err != nil {
		return nil, fmt.Errorf("fetch klines: %w", err)
	}
	return out.([]model.OHLCV), nil
}

func (f *BinanceFetcher) get(ctx context.Context, endpoint string) ([]model.OHLCV, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("binance read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("binance: status %d, body: %s", resp.StatusCode, string(body))
	}

	var rows [][]json.RawMessage
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("binance decode: %w", err)
	}
	bars := make([]model.OHLCV, 0, len(rows))
	for i, row := range rows {
		b, err := parseKline(row)
		if err != nil {
			return nil, fmt.Errorf("binance kline %d: %w", i, err)
		}
		bars = append(bars, b)
	}
	return bars, nil
}

// parseKline decodes [openTime, "open", "high", "low", "close", "volume", ...].
func parseKline(row []json.RawMessage) (model.OHLCV, error) {
	if len(row) < 6 {
		return model.OHLCV{}, fmt.Errorf("expected at least 6 fields, got %d", len(row))
	}
	var openTime int64
	if err := json.Unmarshal(row[0], &openTime); err != nil {
		return model.OHLCV{}, fmt.Errorf("open time: %w", err)
	}
	var vals [5]float64
	for i := range vals {
		var s string
		if err := json.Unmarshal(row[i+1], &s); err != nil {
			return model.OHLCV{}, fmt.Errorf("field %d: %w", i+1, err)
		}
		d, err := decimal.NewFromString(s)
		if err != nil {
			return model.OHLCV{}, fmt.Errorf("field %d: %w", i+1, err)
		}
		vals[i] = d.InexactFloat64()
	}
	return model.OHLCV{
		Time:   time.UnixMilli(openTime).UTC(),
		Open:   vals[0],
		High:   vals[1],
		Low:    vals[2],
		Close:  vals[3],
		Volume: vals[4],
	}, nil
}
