package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"supplychain-wallet-gateway/internal/adapter/http/middleware"
	redisStore "supplychain-wallet-gateway/internal/adapter/storage/redis"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func newRateLimitStore(t *testing.T) *redisStore.RateLimitStore {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return redisStore.NewRateLimitStore(client, "walletgw:")
}

// setupRateLimitRouter sets the caller's account from the X-Test-Account
// header the way WalletAuth would.
func setupRateLimitRouter(store *redisStore.RateLimitStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	rule := middleware.RateLimitRule{Limit: 3, Window: time.Minute}
	r.GET("/test", func(c *gin.Context) {
		if acct := c.GetHeader("X-Test-Account"); acct != "" {
			c.Set(middleware.CtxAccountID, acct)
		}
		c.Next()
	}, middleware.RateLimiter(store, "test", rule, zerolog.Nop()), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	return r
}

func get(router *gin.Engine, account string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	if account != "" {
		req.Header.Set("X-Test-Account", account)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRateLimiter_AllowsWithinLimit(t *testing.T) {
	router := setupRateLimitRouter(newRateLimitStore(t))

	for i := 0; i < 3; i++ {
		w := get(router, "")
		assert.Equal(t, http.StatusOK, w.Code, "request %d should succeed", i+1)
		assert.Equal(t, "3", w.Header().Get("X-RateLimit-Limit"))
		assert.NotEmpty(t, w.Header().Get("X-RateLimit-Remaining"))
		assert.NotEmpty(t, w.Header().Get("X-RateLimit-Reset"))
	}
}

func TestRateLimiter_BlocksOverLimit(t *testing.T) {
	router := setupRateLimitRouter(newRateLimitStore(t))

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, get(router, "").Code)
	}

	w := get(router, "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
}

func TestRateLimiter_KeysByAccount(t *testing.T) {
	router := setupRateLimitRouter(newRateLimitStore(t))

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, get(router, "0.0.1111").Code)
	}
	assert.Equal(t, http.StatusTooManyRequests, get(router, "0.0.1111").Code)

	// Independent counter for another account.
	assert.Equal(t, http.StatusOK, get(router, "0.0.2222").Code)
}

func TestRateLimiter_DegradesWhenRedisDown(t *testing.T) {
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })
	router := setupRateLimitRouter(redisStore.NewRateLimitStore(client, "walletgw:"))

	mr.Close()

	assert.Equal(t, http.StatusOK, get(router, "").Code)
}

func TestDefaultRateLimitRules(t *testing.T) {
	rules := middleware.DefaultRateLimitRules()
	assert.Equal(t, int64(10), rules["wallet_pairing"].Limit)
	assert.Equal(t, int64(120), rules["wallet_status"].Limit)
	assert.Equal(t, int64(60), rules["transactions"].Limit)
	assert.Equal(t, int64(20), rules["tokens"].Limit)
	assert.Equal(t, int64(60), rules["receipts"].Limit)
	for group, rule := range rules {
		assert.Equal(t, time.Minute, rule.Window, group)
	}
}
