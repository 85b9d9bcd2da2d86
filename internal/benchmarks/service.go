package benchmarks

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Index symbols tracked on every snapshot (Yahoo Finance notation).
const (
	SymbolNifty  = "^NSEI"
	SymbolSensex = "^BSESN"
)

// Service fetches benchmark index closes from a Yahoo-chart-style endpoint,
// caching values in Redis. Every failure degrades to a nil value: benchmark
// data is decorative on a snapshot and must never block a merge.
type Service struct {
	HTTP    *http.Client
	Rdb     *redis.Client // optional; nil disables caching
	BaseURL string
	TTL     time.Duration
}

// New returns a Service with sane timeouts. rdb may be nil.
func New(baseURL string, rdb *redis.Client, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Service{
		HTTP:    &http.Client{Timeout: 10 * time.Second},
		Rdb:     rdb,
		BaseURL: baseURL,
		TTL:     ttl,
	}
}

type chartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				RegularMarketPrice float64 `json:"regularMarketPrice"`
			} `json:"meta"`
		} `json:"result"`
	} `json:"chart"`
}

// Benchmarks returns the current Nifty 50 and Sensex values, either of which
// may be nil when unavailable.
func (s *Service) Benchmarks(ctx context.Context) (nifty, sensex *float64) {
	return s.quote(ctx, SymbolNifty), s.quote(ctx, SymbolSensex)
}

func (s *Service) quote(ctx context.Context, symbol string) *float64 {
	if v, ok := s.cached(ctx, symbol); ok {
		return &v
	}
	v, err := s.fetch(ctx, symbol)
	if err != nil {
		log.Warn().Err(err).Str("symbol", symbol).Msg("benchmark fetch failed")
		return nil
	}
	s.cache(ctx, symbol, v)
	return &v
}

func (s *Service) fetch(ctx context.Context, symbol string) (float64, error) {
	u := fmt.Sprintf("%s/v8/finance/chart/%s?range=1d&interval=1d", s.BaseURL, url.PathEscape(symbol))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return 0, err
	}
	resp, err := s.HTTP.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("benchmark endpoint returned %d for %s", resp.StatusCode, symbol)
	}
	var body chartResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return 0, err
	}
	if len(body.Chart.Result) == 0 {
		return 0, fmt.Errorf("no chart result for %s", symbol)
	}
	return body.Chart.Result[0].Meta.RegularMarketPrice, nil
}

func (s *Service) cached(ctx context.Context, symbol string) (float64, bool) {
	if s.Rdb == nil {
		return 0, false
	}
	raw, err := s.Rdb.Get(ctx, cacheKey(symbol)).Result()
	if err != nil {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func (s *Service) cache(ctx context.Context, symbol string, v float64) {
	if s.Rdb == nil {
		return
	}
	if err := s.Rdb.Set(ctx, cacheKey(symbol), strconv.FormatFloat(v, 'f', -1, 64), s.TTL).Err(); err != nil {
		log.Warn().Err(err).Str("symbol", symbol).Msg("benchmark cache write failed")
	}
}

func cacheKey(symbol string) string {
	return "benchmark:" + symbol
}
