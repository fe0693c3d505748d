package calculator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"DCABacktest/internal/model"
)

func TestResampleDaily_LastCloseOfDay(t *testing.T) {
	start := time.Date(2021, 5, 1, 20, 0, 0, 0, time.UTC)
	bars := hourly(start, 1, 2, 3, 4, 5, 6) // 20h..01h next day

	pts := ResampleDaily(bars)
	require.Len(t, pts, 2)
	assert.Equal(t, time.Date(2021, 5, 1, 0, 0, 0, 0, time.UTC), pts[0].Time)
	assert.Equal(t, 4.0, pts[0].Close)
	assert.Equal(t, time.Date(2021, 5, 2, 0, 0, 0, 0, time.UTC), pts[1].Time)
	assert.Equal(t, 6.0, pts[1].Close)
}

func TestResampleDaily_FillsGaps(t *testing.T) {
	bars := []model.OHLCV{
		{Time: time.Date(2021, 5, 1, 10, 0, 0, 0, time.UTC), Close: 100},
		{Time: time.Date(2021, 5, 4, 10, 0, 0, 0, time.UTC), Close: 130},
	}
	pts := ResampleDaily(bars)
	require.Len(t, pts, 4)
	assert.Equal(t, []float64{100, 100, 100, 130}, []float64{pts[0].Close, pts[1].Close, pts[2].Close, pts[3].Close})
	for i := 1; i < len(pts); i++ {
		assert.Equal(t, pts[i-1].Time.AddDate(0, 0, 1), pts[i].Time)
	}
}

func TestResampleDaily_Empty(t *testing.T) {
	assert.Nil(t, ResampleDaily(nil))
}
