package collector

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"DCABacktest/internal/calculator"
	"DCABacktest/internal/model"
)

func TestCSVCache_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "btc.csv")
	cache := NewCSVCache(path)

	bars := hourlyBars(time.Date(2018, 2, 3, 0, 0, 0, 0, time.UTC), 30, 8000.12, -3.3)
	calculator.RunningHigh(bars)
	require.NoError(t, cache.Save(bars))

	got, err := cache.Load()
	require.NoError(t, err)
	assert.Equal(t, bars, got)
}

func TestCSVCache_Header(t *testing.T) {
	path := filepath.Join(t.TempDir(), "btc.csv")
	require.NoError(t, NewCSVCache(path).Save(hourlyBars(time.Date(2018, 1, 1, 5, 0, 0, 0, time.UTC), 1, 100, 0)))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "timestamp,open,high,low,close,volume,last_ath", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "2018-01-01 05:00:00,"), lines[1])
}

func TestCSVCache_Miss(t *testing.T) {
	_, err := NewCSVCache(filepath.Join(t.TempDir(), "absent.csv")).Load()
	require.ErrorIs(t, err, ErrCacheMiss)
}

func TestCSVCache_HeaderOnlyIsMiss(t *testing.T) {
	path := filepath.Join(t.TempDir(), "btc.csv")
	require.NoError(t, NewCSVCache(path).Save(nil))

	_, err := NewCSVCache(path).Load()
	require.ErrorIs(t, err, ErrCacheMiss)
}

func TestCSVCache_Malformed(t *testing.T) {
	tests := map[string]string{
		"bad number": "timestamp,open,high,low,close,volume,last_ath\n2020-01-01 00:00:00,1,2,3,abc,5,6\n",
		"bad time":   "timestamp,open,high,low,close,volume,last_ath\nyesterday,1,2,3,4,5,6\n",
		"unsorted": "timestamp,open,high,low,close,volume,last_ath\n" +
			"2020-01-02 00:00:00,1,2,3,4,5,6\n2020-01-01 00:00:00,1,2,3,4,5,6\n",
		"short row":  "timestamp,open,high,low,close,volume,last_ath\n2020-01-01 00:00:00,1,2\n",
		"bad header": "date,open,high,low,close,volume,last_ath\n",
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "btc.csv")
			require.NoError(t, os.WriteFile(path, []byte(content), 0644))
			_, err := NewCSVCache(path).Load()
			require.ErrorIs(t, err, model.ErrInvalidInput)
		})
	}
}
