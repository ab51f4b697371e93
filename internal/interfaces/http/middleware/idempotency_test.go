package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	redispkg "crew-directory.backend/pkg/redis"
	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func useMiniredis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	srv, err := miniredis.Run()
	if err != nil {
		t.Skipf("skip: miniredis unavailable in this environment: %v", err)
	}
	t.Cleanup(srv.Close)

	cli := goredis.NewClient(&goredis.Options{Addr: srv.Addr()})
	prev := redispkg.GetClient()
	redispkg.SetClient(cli)
	t.Cleanup(func() {
		_ = cli.Close()
		redispkg.SetClient(prev)
	})
	return srv
}

func newIdempotentRouter(status int, calls *atomic.Int32) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/contact", IdempotencyMiddleware(), func(c *gin.Context) {
		n := calls.Add(1)
		c.JSON(status, gin.H{"call": n})
	})
	return r
}

func post(r http.Handler, key string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/contact", strings.NewReader(`{}`))
	if key != "" {
		req.Header.Set(IdempotencyHeader, key)
	}
	return serve(r, req)
}

func TestIdempotency_NoHeaderPassthrough(t *testing.T) {
	var calls atomic.Int32
	r := newIdempotentRouter(http.StatusCreated, &calls)

	post(r, "")
	post(r, "")
	require.Equal(t, int32(2), calls.Load())
}

func TestIdempotency_ReplaysStoredResponse(t *testing.T) {
	useMiniredis(t)
	var calls atomic.Int32
	r := newIdempotentRouter(http.StatusCreated, &calls)

	first := post(r, "form-1")
	require.Equal(t, http.StatusCreated, first.Code)

	second := post(r, "form-1")
	require.Equal(t, http.StatusCreated, second.Code)
	assert.Equal(t, "true", second.Header().Get("X-Idempotency-Hit"))
	assert.JSONEq(t, first.Body.String(), second.Body.String())
	assert.Equal(t, int32(1), calls.Load())

	post(r, "form-2")
	assert.Equal(t, int32(2), calls.Load())
}

func TestIdempotency_FailedRequestsCanRetry(t *testing.T) {
	srv := useMiniredis(t)
	var calls atomic.Int32
	r := newIdempotentRouter(http.StatusBadRequest, &calls)

	post(r, "form-1")
	post(r, "form-1")
	assert.Equal(t, int32(2), calls.Load())
	assert.Empty(t, srv.Keys())
}

func TestIdempotency_InProgressConflict(t *testing.T) {
	srv := useMiniredis(t)
	var calls atomic.Int32
	r := newIdempotentRouter(http.StatusCreated, &calls)
	require.NoError(t, srv.Set("idempotency:/contact:192.0.2.1:busy", idempotencyProcessing))

	w := post(r, "busy")
	require.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, int32(0), calls.Load())
}

func TestIdempotency_KeyTooLong(t *testing.T) {
	var calls atomic.Int32
	r := newIdempotentRouter(http.StatusCreated, &calls)

	w := post(r, strings.Repeat("k", maxIdempotencyKeyLen+1))
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestIdempotency_HookedRedis(t *testing.T) {
	origGet, origSet, origSetNX, origDel := redisGet, redisSet, redisSetNX, redisDel
	t.Cleanup(func() {
		redisGet, redisSet, redisSetNX, redisDel = origGet, origSet, origSetNX, origDel
	})
	redisSet = func(context.Context, string, interface{}, time.Duration) error { return nil }
	redisDel = func(context.Context, string) error { return nil }

	t.Run("store unavailable passes through", func(t *testing.T) {
		redisGet = func(context.Context, string) (string, error) { return "", errors.New("dial tcp: refused") }
		var calls atomic.Int32
		w := post(newIdempotentRouter(http.StatusCreated, &calls), "k")
		require.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, int32(1), calls.Load())
	})

	t.Run("lost lock race", func(t *testing.T) {
		redisGet = func(context.Context, string) (string, error) { return "", goredis.Nil }
		redisSetNX = func(context.Context, string, interface{}, time.Duration) (bool, error) { return false, nil }
		var calls atomic.Int32
		w := post(newIdempotentRouter(http.StatusCreated, &calls), "k")
		require.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("unreadable entry is discarded", func(t *testing.T) {
		redisGet = func(context.Context, string) (string, error) { return "not json", nil }
		redisSetNX = func(context.Context, string, interface{}, time.Duration) (bool, error) { return true, nil }
		var calls atomic.Int32
		w := post(newIdempotentRouter(http.StatusCreated, &calls), "k")
		require.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, int32(1), calls.Load())
	})
}
