package collector

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestYahooFetcher_FetchBars(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v8/finance/chart/BTC-USD", r.URL.Path)
		assert.Equal(t, "1d", r.URL.Query().Get("interval"))
		_, _ = w.Write([]byte(`{"chart":{"result":[{"timestamp":[1577923200,1577836800,1578009600],
			"indicators":{"quote":[{"open":[2,1,null],"high":[2,1,null],"low":[2,1,null],
			"close":[7200.5,7100.25,null],"volume":[10,20,null]}]}}],"error":null}}`))
	}))
	defer srv.Close()

	f := NewYahooFetcher(srv.URL, "")
	bars, err := f.FetchBars(context.Background(), "BTCUSDT", "1d",
		time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2020, 1, 3, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	require.Len(t, bars, 2, "null bar is skipped")
	assert.Equal(t, time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), bars[0].Time)
	assert.Equal(t, 7100.25, bars[0].Close)
	assert.Equal(t, 7200.5, bars[1].Close)
}

func TestYahooFetcher_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found"}}}`))
	}))
	defer srv.Close()

	_, err := NewYahooFetcher(srv.URL, "").FetchBars(context.Background(), "XXX", "1d", time.Unix(0, 0), time.Unix(86400, 0))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "No data found")
}
