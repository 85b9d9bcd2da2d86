package benchmarks

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chartServer(t *testing.T, prices map[string]float64, hits *int) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*hits++
		symbol := strings.TrimPrefix(r.URL.Path, "/v8/finance/chart/")
		price, ok := prices[symbol]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		fmt.Fprintf(w, `{"chart":{"result":[{"meta":{"regularMarketPrice":%g}}]}}`, price)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testRedis(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	return redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func TestBenchmarks_FetchesBothIndices(t *testing.T) {
	var hits int
	srv := chartServer(t, map[string]float64{
		SymbolNifty:  24100.5,
		SymbolSensex: 79200.25,
	}, &hits)

	svc := New(srv.URL, nil, time.Minute)
	nifty, sensex := svc.Benchmarks(context.Background())

	require.NotNil(t, nifty)
	assert.Equal(t, 24100.5, *nifty)
	require.NotNil(t, sensex)
	assert.Equal(t, 79200.25, *sensex)
	assert.Equal(t, 2, hits)
}

func TestBenchmarks_CachesInRedis(t *testing.T) {
	var hits int
	srv := chartServer(t, map[string]float64{
		SymbolNifty:  24100.5,
		SymbolSensex: 79200.25,
	}, &hits)

	svc := New(srv.URL, testRedis(t), time.Minute)
	ctx := context.Background()

	svc.Benchmarks(ctx)
	require.Equal(t, 2, hits)

	// Second call is served from cache.
	nifty, sensex := svc.Benchmarks(ctx)
	assert.Equal(t, 2, hits)
	require.NotNil(t, nifty)
	assert.Equal(t, 24100.5, *nifty)
	require.NotNil(t, sensex)
	assert.Equal(t, 79200.25, *sensex)
}

func TestBenchmarks_PartialFailure(t *testing.T) {
	var hits int
	srv := chartServer(t, map[string]float64{SymbolNifty: 24100.5}, &hits)

	svc := New(srv.URL, nil, time.Minute)
	nifty, sensex := svc.Benchmarks(context.Background())

	require.NotNil(t, nifty)
	assert.Equal(t, 24100.5, *nifty)
	assert.Nil(t, sensex)
}

func TestBenchmarks_EndpointDown(t *testing.T) {
	svc := New("http://127.0.0.1:1", nil, time.Minute)
	svc.HTTP.Timeout = time.Second

	nifty, sensex := svc.Benchmarks(context.Background())
	assert.Nil(t, nifty)
	assert.Nil(t, sensex)
}

func TestBenchmarks_EmptyChartResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"chart":{"result":[]}}`)
	}))
	t.Cleanup(srv.Close)

	svc := New(srv.URL, nil, time.Minute)
	nifty, sensex := svc.Benchmarks(context.Background())
	assert.Nil(t, nifty)
	assert.Nil(t, sensex)
}
