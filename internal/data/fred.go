package data

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"nii-stress/internal/metrics"
	"nii-stress/internal/model"
)

const DefaultFredBaseURL = "https://api.stlouisfed.org"

// missingValue is FRED's marker for a date with no observation.
const missingValue = "."

// SeriesMap maps curve tenors to FRED series ids, e.g. "10Y" -> "GS10".
type SeriesMap map[model.Tenor]string

// DefaultSeries are the constant-maturity Treasury series behind the default curve.
func DefaultSeries() SeriesMap {
	return SeriesMap{"3M": "GS3M", "1Y": "GS1", "5Y": "GS5", "10Y": "GS10"}
}

// FredClient fetches Treasury yields from the FRED observations API.
type FredClient struct {
	APIKey  string
	BaseURL string
	Client  *http.Client
	// Cache is optional; nil disables response caching.
	Cache   Cache
	Metrics *metrics.Metrics
	Logger  *slog.Logger
}

// NewFredClient creates a FRED client.
// If baseURL is empty, defaults to DefaultFredBaseURL.
func NewFredClient(apiKey, baseURL string, cache Cache) *FredClient {
	if baseURL == "" {
		baseURL = DefaultFredBaseURL
	}
	return &FredClient{
		APIKey:  apiKey,
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client: &http.Client{
			Timeout: 30 * time.Second,
		},
		Cache:  cache,
		Logger: slog.Default(),
	}
}

// FredError represents an error from the FRED API or a rejected request.
type FredError struct {
	StatusCode int
	Code       string
	Message    string
	RetryAfter string
}

func (e *FredError) Error() string {
	return e.Message
}

// ObservationsQuery selects observations of one series.
type ObservationsQuery struct {
	SeriesID string
	Start    time.Time // zero = series start
	End      time.Time // zero = latest
	Desc     bool
	Limit    int
}

func (q ObservationsQuery) values() url.Values {
	v := url.Values{}
	v.Set("series_id", q.SeriesID)
	v.Set("file_type", "json")
	if !q.Start.IsZero() {
		v.Set("observation_start", q.Start.Format(time.DateOnly))
	}
	if !q.End.IsZero() {
		v.Set("observation_end", q.End.Format(time.DateOnly))
	}
	if q.Desc {
		v.Set("sort_order", "desc")
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	return v
}

// Point is one parsed observation, already converted from percent to a decimal fraction.
type Point struct {
	Date  time.Time
	Value float64
}

type observationsResponse struct {
	Observations []struct {
		Date  string `json:"date"`
		Value string `json:"value"`
	} `json:"observations"`
}

type fredErrorBody struct {
	ErrorCode    int    `json:"error_code"`
	ErrorMessage string `json:"error_message"`
}

// Observations fetches one series. Missing values (".") are dropped.
func (c *FredClient) Observations(ctx context.Context, q ObservationsQuery) ([]Point, error) {
	if err := c.validateAPIKey(); err != nil {
		return nil, err
	}
	if q.SeriesID == "" {
		return nil, fmt.Errorf("series_id is required")
	}
	if !q.Start.IsZero() && !q.End.IsZero() && q.Start.After(q.End) {
		return nil, fmt.Errorf("observation_start must be before observation_end")
	}

	log := c.logger().With(slog.String("series", q.SeriesID))
	cacheKey := GenerateCacheKey(q)
	if c.Cache != nil {
		raw, found, err := c.Cache.Get(ctx, cacheKey)
		if err != nil {
			log.WarnContext(ctx, "fred cache get failed", slog.Any("error", err))
		}
		c.Metrics.CacheLookup(found)
		if found {
			log.DebugContext(ctx, "fred cache hit")
			return parseObservations(raw)
		}
	}

	u, err := url.Parse(c.BaseURL + "/fred/series/observations")
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	params := q.values()
	params.Set("api_key", c.APIKey)
	u.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.Client.Do(req)
	duration := time.Since(start)
	if err != nil {
		c.Metrics.FredRequest(err)
		log.ErrorContext(ctx, "fred request failed", slog.Any("error", err), slog.Duration("duration", duration))
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.Metrics.FredRequest(err)
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	log.InfoContext(ctx, "fred response", slog.Int("status", resp.StatusCode), slog.Duration("duration", duration))

	if ferr := statusError(resp, body); ferr != nil {
		c.Metrics.FredRequest(ferr)
		log.WarnContext(ctx, "fred error", slog.String("code", ferr.Code), slog.String("message", ferr.Message))
		return nil, ferr
	}

	points, err := parseObservations(body)
	c.Metrics.FredRequest(err)
	if err != nil {
		return nil, err
	}
	if c.Cache != nil {
		if err := c.Cache.Set(ctx, cacheKey, body); err != nil {
			log.WarnContext(ctx, "fred cache set failed", slog.Any("error", err))
		}
	}
	return points, nil
}

func statusError(resp *http.Response, body []byte) *FredError {
	switch resp.StatusCode {
	case http.StatusOK:
		return nil
	case http.StatusForbidden:
		return &FredError{
			StatusCode: resp.StatusCode,
			Code:       "INVALID_API_KEY",
			Message:    "Invalid API key or insufficient permissions",
		}
	case http.StatusTooManyRequests:
		retryAfter := resp.Header.Get("Retry-After")
		return &FredError{
			StatusCode: resp.StatusCode,
			Code:       "RATE_LIMIT_EXCEEDED",
			Message:    fmt.Sprintf("Rate limit exceeded. Retry after: %s", retryAfter),
			RetryAfter: retryAfter,
		}
	case http.StatusUnauthorized:
		return &FredError{
			StatusCode: resp.StatusCode,
			Code:       "UNAUTHORIZED",
			Message:    "Unauthorized: Invalid API key",
		}
	}
	msg := fmt.Sprintf("API returned status %d: %s", resp.StatusCode, resp.Status)
	var eb fredErrorBody
	if json.Unmarshal(body, &eb) == nil && eb.ErrorMessage != "" {
		msg = fmt.Sprintf("API returned status %d: %s", resp.StatusCode, eb.ErrorMessage)
	}
	return &FredError{
		StatusCode: resp.StatusCode,
		Code:       "API_ERROR",
		Message:    msg,
	}
}

func parseObservations(raw []byte) ([]Point, error) {
	var r observationsResponse
	if err := json.Unmarshal(raw, &r); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	out := make([]Point, 0, len(r.Observations))
	for _, o := range r.Observations {
		if o.Value == missingValue || o.Value == "" {
			continue
		}
		d, err := time.Parse(time.DateOnly, o.Date)
		if err != nil {
			return nil, fmt.Errorf("bad observation date %q: %w", o.Date, err)
		}
		v, err := strconv.ParseFloat(o.Value, 64)
		if err != nil {
			return nil, fmt.Errorf("bad observation value %q on %s: %w", o.Value, o.Date, err)
		}
		out = append(out, Point{Date: d, Value: v / 100})
	}
	return out, nil
}

// validateAPIKey rejects empty and obviously truncated keys before any request is made.
func (c *FredClient) validateAPIKey() error {
	if c.APIKey == "" {
		return &FredError{
			Code:    "MISSING_API_KEY",
			Message: "API key is required",
		}
	}
	if len(c.APIKey) < 10 {
		return &FredError{
			Code:    "INVALID_API_KEY_FORMAT",
			Message: "API key appears to be invalid (too short)",
		}
	}
	return nil
}

func (c *FredClient) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}

// Latest returns the most recent observed yield of every series as a curve.
func (c *FredClient) Latest(ctx context.Context, series SeriesMap) (model.YieldCurve, error) {
	latest, err := c.fetchAll(ctx, series, func(id string) ObservationsQuery {
		// a few rows so a trailing "." still leaves a value
		return ObservationsQuery{SeriesID: id, Desc: true, Limit: 5}
	})
	if err != nil {
		return model.YieldCurve{}, err
	}
	rates := make(map[model.Tenor]float64, len(series))
	for t, pts := range latest {
		if len(pts) == 0 {
			return model.YieldCurve{}, fmt.Errorf("series %s (%s): no recent observation", series[t], t)
		}
		rates[t] = pts[0].Value
	}
	return model.NewYieldCurve(rates), nil
}

// History returns joined observations of every series in [start, end], oldest first.
// Dates on which any series has no value are dropped.
func (c *FredClient) History(ctx context.Context, series SeriesMap, start, end time.Time) (model.History, error) {
	if start.After(end) {
		return nil, fmt.Errorf("start date %s is after end date %s", start.Format(time.DateOnly), end.Format(time.DateOnly))
	}
	all, err := c.fetchAll(ctx, series, func(id string) ObservationsQuery {
		return ObservationsQuery{SeriesID: id, Start: start, End: end}
	})
	if err != nil {
		return nil, err
	}
	return JoinSeries(all), nil
}

// fetchAll runs one query per series concurrently and stops at the first failure.
func (c *FredClient) fetchAll(ctx context.Context, series SeriesMap, query func(id string) ObservationsQuery) (map[model.Tenor][]Point, error) {
	if len(series) == 0 {
		return nil, fmt.Errorf("no series configured")
	}
	var mu sync.Mutex
	out := make(map[model.Tenor][]Point, len(series))

	g, gctx := errgroup.WithContext(ctx)
	for tenor, id := range series {
		g.Go(func() error {
			pts, err := c.Observations(gctx, query(id))
			if err != nil {
				return fmt.Errorf("series %s (%s): %w", id, tenor, err)
			}
			mu.Lock()
			out[tenor] = pts
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// JoinSeries aligns per-tenor series on date, keeping only dates present in every series.
func JoinSeries(series map[model.Tenor][]Point) model.History {
	byDate := map[time.Time]map[model.Tenor]float64{}
	for t, pts := range series {
		for _, p := range pts {
			row, ok := byDate[p.Date]
			if !ok {
				row = make(map[model.Tenor]float64, len(series))
				byDate[p.Date] = row
			}
			row[t] = p.Value
		}
	}
	out := make(model.History, 0, len(byDate))
	for d, row := range byDate {
		if len(row) != len(series) {
			continue
		}
		out = append(out, model.Observation{Date: d, Rates: row})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}
