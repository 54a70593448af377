package data

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nii-stress/internal/metrics"
	"nii-stress/internal/model"
)

const testKey = "0123456789abcdef"

type obs struct {
	Date  string `json:"date"`
	Value string `json:"value"`
}

// fakeFred serves ascending observations per series and honours sort_order/limit.
func fakeFred(t *testing.T, series map[string][]obs, hits *int32) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits != nil {
			atomic.AddInt32(hits, 1)
		}
		if r.URL.Path != "/fred/series/observations" {
			http.NotFound(w, r)
			return
		}
		q := r.URL.Query()
		if q.Get("api_key") != testKey {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error_code":400,"error_message":"Bad Request.  The value for variable api_key is not registered."}`))
			return
		}
		rows, ok := series[q.Get("series_id")]
		if !ok {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error_code":400,"error_message":"Bad Request.  The series does not exist."}`))
			return
		}
		var out []obs
		for _, o := range rows {
			if s := q.Get("observation_start"); s != "" && o.Date < s {
				continue
			}
			if e := q.Get("observation_end"); e != "" && o.Date > e {
				continue
			}
			out = append(out, o)
		}
		if q.Get("sort_order") == "desc" {
			for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
				out[i], out[j] = out[j], out[i]
			}
		}
		if q.Get("limit") == "5" && len(out) > 5 {
			out = out[:5]
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"observations": out})
	}))
}

func treasurySeries() map[string][]obs {
	return map[string][]obs{
		"GS1": {
			{"2024-01-01", "4.80"}, {"2024-02-01", "4.90"}, {"2024-03-01", "5.00"},
		},
		"GS10": {
			{"2024-01-01", "4.00"}, {"2024-02-01", "."}, {"2024-03-01", "4.20"},
		},
	}
}

func TestFredLatest(t *testing.T) {
	srv := fakeFred(t, treasurySeries(), nil)
	defer srv.Close()

	c := NewFredClient(testKey, srv.URL, nil)
	curve, err := c.Latest(context.Background(), SeriesMap{"1Y": "GS1", "10Y": "GS10"})
	require.NoError(t, err)

	r, err := curve.Rate("1Y")
	require.NoError(t, err)
	assert.InDelta(t, 0.05, r, 1e-12)
	r, err = curve.Rate("10Y")
	require.NoError(t, err)
	assert.InDelta(t, 0.042, r, 1e-12)
}

func TestFredHistoryDropsIncompleteDates(t *testing.T) {
	srv := fakeFred(t, treasurySeries(), nil)
	defer srv.Close()

	c := NewFredClient(testKey, srv.URL, nil)
	start, _ := time.Parse(time.DateOnly, "2024-01-01")
	end, _ := time.Parse(time.DateOnly, "2024-12-31")
	h, err := c.History(context.Background(), SeriesMap{"1Y": "GS1", "10Y": "GS10"}, start, end)
	require.NoError(t, err)

	require.Len(t, h, 2)
	assert.Equal(t, "2024-01-01", h[0].Date.Format(time.DateOnly))
	assert.Equal(t, "2024-03-01", h[1].Date.Format(time.DateOnly))
	assert.InDelta(t, 0.048, h[0].Rates["1Y"], 1e-12)
	assert.InDelta(t, 0.042, h[1].Rates["10Y"], 1e-12)
}

func TestFredHistoryInvertedWindow(t *testing.T) {
	c := NewFredClient(testKey, "http://unused", nil)
	start, _ := time.Parse(time.DateOnly, "2024-05-01")
	end, _ := time.Parse(time.DateOnly, "2024-01-01")
	_, err := c.History(context.Background(), DefaultSeries(), start, end)
	assert.Error(t, err)
}

func TestFredAPIKeyValidation(t *testing.T) {
	tests := []struct {
		key  string
		code string
	}{
		{"", "MISSING_API_KEY"},
		{"short", "INVALID_API_KEY_FORMAT"},
	}
	for _, tt := range tests {
		c := NewFredClient(tt.key, "http://unused", nil)
		_, err := c.Observations(context.Background(), ObservationsQuery{SeriesID: "GS1"})
		var ferr *FredError
		require.True(t, errors.As(err, &ferr))
		assert.Equal(t, tt.code, ferr.Code)
	}
}

func TestFredStatusMapping(t *testing.T) {
	tests := []struct {
		status int
		header string
		code   string
	}{
		{http.StatusForbidden, "", "INVALID_API_KEY"},
		{http.StatusUnauthorized, "", "UNAUTHORIZED"},
		{http.StatusTooManyRequests, "30", "RATE_LIMIT_EXCEEDED"},
		{http.StatusInternalServerError, "", "API_ERROR"},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if tt.header != "" {
					w.Header().Set("Retry-After", tt.header)
				}
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			c := NewFredClient(testKey, srv.URL, nil)
			_, err := c.Observations(context.Background(), ObservationsQuery{SeriesID: "GS1"})
			var ferr *FredError
			require.True(t, errors.As(err, &ferr))
			assert.Equal(t, tt.code, ferr.Code)
			assert.Equal(t, tt.status, ferr.StatusCode)
			assert.Equal(t, tt.header, ferr.RetryAfter)
		})
	}
}

func TestFredErrorBodyMessage(t *testing.T) {
	srv := fakeFred(t, treasurySeries(), nil)
	defer srv.Close()

	c := NewFredClient(testKey, srv.URL, nil)
	_, err := c.Latest(context.Background(), SeriesMap{"30Y": "GS30"})
	var ferr *FredError
	require.True(t, errors.As(err, &ferr))
	assert.Equal(t, "API_ERROR", ferr.Code)
	assert.Contains(t, ferr.Message, "does not exist")
	assert.Contains(t, err.Error(), "GS30")
}

func TestFredUsesCache(t *testing.T) {
	var hits int32
	srv := fakeFred(t, treasurySeries(), &hits)
	defer srv.Close()

	cache := NewMemoryCache(time.Minute)
	defer cache.Close()
	m := metrics.New()
	c := NewFredClient(testKey, srv.URL, cache)
	c.Metrics = m

	series := SeriesMap{"1Y": "GS1"}
	first, err := c.Latest(context.Background(), series)
	require.NoError(t, err)
	second, err := c.Latest(context.Background(), series)
	require.NoError(t, err)

	assert.Equal(t, first.Rates(), second.Rates())
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
	assert.Equal(t, 1, cache.Len())
}

func TestJoinSeries(t *testing.T) {
	d := func(s string) time.Time { v, _ := time.Parse(time.DateOnly, s); return v }
	h := JoinSeries(map[model.Tenor][]Point{
		"1Y": {{d("2024-01-02"), 0.01}, {d("2024-01-01"), 0.02}},
		"5Y": {{d("2024-01-01"), 0.03}},
	})
	require.Len(t, h, 1)
	assert.Equal(t, d("2024-01-01"), h[0].Date)
	assert.Equal(t, map[model.Tenor]float64{"1Y": 0.02, "5Y": 0.03}, h[0].Rates)
}
