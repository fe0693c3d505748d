package collector

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"DCABacktest/internal/model"
)

// ErrCacheMiss is returned by CSVCache.Load when no cache file exists.
var ErrCacheMiss = errors.New("cache miss")

const cacheTimeLayout = "2006-01-02 15:04:05"

var cacheHeader = []string{"timestamp", "open", "high", "low", "close", "volume", "last_ath"}

// CSVCache stores bars in a single CSV file keyed by timestamp.
type CSVCache struct {
	Path string
}

// NewCSVCache creates a cache backed by path.
func NewCSVCache(path string) *CSVCache {
	return &CSVCache{Path: path}
}

// Load reads every bar from the cache file. A missing file or one without
// any rows is a miss.
func (c *CSVCache) Load() ([]model.OHLCV, error) {
	f, err := os.Open(c.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("open cache: %w", err)
	}
	defer f.Close()

	bars, err := readBars(f)
	if err != nil {
		return nil, err
	}
	if len(bars) == 0 {
		return nil, ErrCacheMiss
	}
	return bars, nil
}

// Save writes bars to the cache file, replacing it atomically.
func (c *CSVCache) Save(bars []model.OHLCV) error {
	dir := filepath.Dir(c.Path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(c.Path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create cache temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := writeBars(tmp, bars); err != nil {
		tmp.Close()
		return fmt.Errorf("write cache: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close cache: %w", err)
	}
	if err := os.Rename(tmp.Name(), c.Path); err != nil {
		return fmt.Errorf("replace cache: %w", err)
	}
	return nil
}

func writeBars(w io.Writer, bars []model.OHLCV) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(cacheHeader); err != nil {
		return err
	}
	ff := func(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }
	for _, b := range bars {
		rec := []string{
			b.Time.UTC().Format(cacheTimeLayout),
			ff(b.Open), ff(b.High), ff(b.Low), ff(b.Close), ff(b.Volume), ff(b.LastATH),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func readBars(r io.Reader) ([]model.OHLCV, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(cacheHeader)

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: cache header: %v", model.ErrInvalidInput, err)
	}
	if header[0] != cacheHeader[0] {
		return nil, fmt.Errorf("%w: cache header starts with %q, want %q", model.ErrInvalidInput, header[0], cacheHeader[0])
	}

	var bars []model.OHLCV
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: cache line %d: %v", model.ErrInvalidInput, line, err)
		}
		b, err := parseRecord(rec)
		if err != nil {
			return nil, fmt.Errorf("%w: cache line %d: %v", model.ErrInvalidInput, line, err)
		}
		if n := len(bars); n > 0 && !b.Time.After(bars[n-1].Time) {
			return nil, fmt.Errorf("%w: cache line %d: timestamp %s not after previous row",
				model.ErrInvalidInput, line, rec[0])
		}
		bars = append(bars, b)
	}
	return bars, nil
}

func parseRecord(rec []string) (model.OHLCV, error) {
	ts, err := parseCacheTime(rec[0])
	if err != nil {
		return model.OHLCV{}, err
	}
	var vals [6]float64
	for i := range vals {
		v, err := strconv.ParseFloat(rec[i+1], 64)
		if err != nil {
			return model.OHLCV{}, fmt.Errorf("column %s: %w", cacheHeader[i+1], err)
		}
		vals[i] = v
	}
	return model.OHLCV{
		Time:    ts,
		Open:    vals[0],
		High:    vals[1],
		Low:     vals[2],
		Close:   vals[3],
		Volume:  vals[4],
		LastATH: vals[5],
	}, nil
}

func parseCacheTime(s string) (time.Time, error) {
	for _, layout := range []string{cacheTimeLayout, time.RFC3339, time.DateOnly} {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("bad timestamp %q", s)
}
