package routes

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/inventory/api/responses"
	"github.com/angelmondragon/inventory/api/views"
	"github.com/angelmondragon/inventory/internal/inventory"
	"github.com/angelmondragon/inventory/pkg/config"
	"github.com/angelmondragon/inventory/pkg/logger"
	"github.com/angelmondragon/inventory/pkg/metrics"
	"github.com/angelmondragon/inventory/pkg/redis"
)

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{
			Env:         config.AppEnvDev,
			CORSOrigins: []string{"http://localhost:3000"},
		},
		RateLimit:    config.RateLimitConfig{Window: time.Minute, Limit: 20},
		FeatureFlags: config.FeatureFlagsConfig{RateLimit: true},
	}
}

func newTestRouter(t *testing.T, redisClient *redis.Client) (http.Handler, *inventory.MemoryStore) {
	t.Helper()
	return newConfiguredRouter(t, testConfig(), redisClient)
}

func newConfiguredRouter(t *testing.T, cfg *config.Config, redisClient *redis.Client) (http.Handler, *inventory.MemoryStore) {
	t.Helper()
	logg := logger.Nop()
	store := inventory.NewMemoryStore()

	cats, err := inventory.NewCategoryService(store, logg)
	require.NoError(t, err)
	items, err := inventory.NewItemService(store, logg)
	require.NoError(t, err)

	renderer, err := views.New(BasePath)
	require.NoError(t, err)
	reg := prometheus.NewRegistry()
	presenter, err := responses.NewPresenter(responses.PresenterParams{
		Renderer:     renderer,
		Logger:       logg,
		Metrics:      metrics.NewWorkflowMetrics(reg),
		BasePath:     BasePath,
		ExposeErrors: true,
	})
	require.NoError(t, err)

	handler := NewRouter(cfg, logg, presenter, reg, metrics.NewHTTPMetrics(reg), store, redisClient, cats, items)
	return handler, store
}

func serve(h http.Handler, method, target string, header ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRootRedirectsToInventory(t *testing.T) {
	h, _ := newTestRouter(t, nil)

	rec := serve(h, http.MethodGet, "/")
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, BasePath, rec.Header().Get("Location"))
}

func TestInventoryPagesRender(t *testing.T) {
	h, store := newTestRouter(t, nil)
	c := inventory.Category{Name: "Men&#x27;s Fashion"}
	require.NoError(t, store.InsertCategory(context.Background(), &c))

	for _, target := range []string{
		BasePath,
		BasePath + "/categories",
		BasePath + "/category/" + c.ID,
		BasePath + "/category/create",
		BasePath + "/category/" + c.ID + "/delete",
		BasePath + "/items",
		BasePath + "/item/create",
	} {
		rec := serve(h, http.MethodGet, target)
		require.Equal(t, http.StatusOK, rec.Code, target)
		assert.Contains(t, rec.Header().Get("Content-Type"), "text/html", target)
		assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"), target)
		assert.NotEmpty(t, rec.Header().Get("X-Request-Id"), target)
	}

	rec := serve(h, http.MethodGet, BasePath+"/categories")
	assert.Contains(t, rec.Body.String(), "Men&#39;s Fashion")
}

func TestUnmatchedRoutesAreNotFound(t *testing.T) {
	h, _ := newTestRouter(t, nil)

	rec := serve(h, http.MethodGet, "/nowhere")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Not Found")

	rec = serve(h, http.MethodPut, BasePath+"/items")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = serve(h, http.MethodGet, "/nowhere", "Accept", "application/json")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")
}

func TestCategoryUpdateStub(t *testing.T) {
	h, _ := newTestRouter(t, nil)

	rec := serve(h, http.MethodPost, BasePath+"/category/abc/update")
	assert.Equal(t, http.StatusNotImplemented, rec.Code)
	assert.Contains(t, rec.Body.String(), "NOT IMPLEMENTED: Category update POST")
}

func TestHealthAndMetrics(t *testing.T) {
	h, _ := newTestRouter(t, nil)

	rec := serve(h, http.MethodGet, "/health/live")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = serve(h, http.MethodGet, "/health/ready")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"store"`)
	assert.NotContains(t, rec.Body.String(), `"redis"`)

	serve(h, http.MethodGet, BasePath+"/items")
	rec = serve(h, http.MethodGet, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(body), `route="/inventory/items"`), string(body))
	assert.Contains(t, string(body), "inventory_workflow_outcomes_total")
}

func TestRateLimitAppliesToInventoryOnly(t *testing.T) {
	srv := miniredis.RunT(t)
	client, err := redis.New(context.Background(), config.RedisConfig{Address: srv.Addr()}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	h, _ := newTestRouter(t, client)

	for i := 0; i < 20; i++ {
		rec := serve(h, http.MethodGet, BasePath+"/items", "X-Forwarded-For", "203.0.113.7")
		require.Equal(t, http.StatusOK, rec.Code, "request %d", i)
	}
	rec := serve(h, http.MethodGet, BasePath+"/items", "X-Forwarded-For", "203.0.113.7")
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))

	rec = serve(h, http.MethodGet, "/health/ready", "X-Forwarded-For", "203.0.113.7")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"redis"`)
}

func TestRateLimitKeysOnSocketUnlessProxyTrusted(t *testing.T) {
	srv := miniredis.RunT(t)
	client, err := redis.New(context.Background(), config.RedisConfig{Address: srv.Addr()}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	h, _ := newTestRouter(t, client)
	codes := map[int]int{}
	for i := 0; i < 30; i++ {
		rec := serve(h, http.MethodGet, BasePath+"/items", "X-Forwarded-For", fmt.Sprintf("203.0.113.%d", i))
		codes[rec.Code]++
	}
	assert.Equal(t, 20, codes[http.StatusOK])
	assert.Equal(t, 10, codes[http.StatusTooManyRequests])

	srv.FlushAll()
	cfg := testConfig()
	cfg.App.TrustProxy = true
	h, _ = newConfiguredRouter(t, cfg, client)
	for i := 0; i < 30; i++ {
		rec := serve(h, http.MethodGet, BasePath+"/items", "X-Forwarded-For", fmt.Sprintf("203.0.113.%d", i))
		require.Equal(t, http.StatusOK, rec.Code, "proxied client %d", i)
	}
}
