package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go-leave/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
)

func TestIdempotency(t *testing.T) {
	gin.SetMode(gin.TestMode)

	const (
		cacheKey = "idemp:/leave/request:u-1:key-123"
		lockKey  = cacheKey + ":lock"
	)

	t.Run("first request stores the response", func(t *testing.T) {
		db, mock := redismock.NewClientMock()

		calls := 0
		r := gin.New()
		r.Use(func(c *gin.Context) {
			c.Set("user_id", "u-1")
			c.Next()
		})
		r.POST("/leave/request", middleware.Idempotency(db), func(c *gin.Context) {
			calls++
			c.JSON(http.StatusOK, gin.H{"ok": true})
		})

		mock.ExpectGet(cacheKey).RedisNil()
		mock.ExpectSetNX(lockKey, "locked", 30*time.Second).SetVal(true)
		mock.ExpectSet(cacheKey, []byte(`{"status":200,"body":{"ok":true}}`), 24*time.Hour).SetVal("OK")
		mock.ExpectDel(lockKey).SetVal(1)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/leave/request", nil)
		req.Header.Set("Idempotency-Key", "key-123")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, 1, calls)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("replay returns cached response without hitting the handler", func(t *testing.T) {
		db, mock := redismock.NewClientMock()

		calls := 0
		r := gin.New()
		r.Use(func(c *gin.Context) {
			c.Set("user_id", "u-1")
			c.Next()
		})
		r.POST("/leave/request", middleware.Idempotency(db), func(c *gin.Context) {
			calls++
			c.JSON(http.StatusOK, gin.H{"ok": true})
		})

		mock.ExpectGet(cacheKey).SetVal(`{"status":200,"body":{"ok":true}}`)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/leave/request", nil)
		req.Header.Set("Idempotency-Key", "key-123")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"ok":true}`, w.Body.String())
		assert.Equal(t, 0, calls)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("concurrent duplicate gets 409", func(t *testing.T) {
		db, mock := redismock.NewClientMock()

		r := gin.New()
		r.Use(func(c *gin.Context) {
			c.Set("user_id", "u-1")
			c.Next()
		})
		r.POST("/leave/request", middleware.Idempotency(db), func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"ok": true})
		})

		mock.ExpectGet(cacheKey).RedisNil()
		mock.ExpectSetNX(lockKey, "locked", 30*time.Second).SetVal(false)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/leave/request", nil)
		req.Header.Set("Idempotency-Key", "key-123")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no key passes straight through", func(t *testing.T) {
		db, mock := redismock.NewClientMock()

		calls := 0
		r := gin.New()
		r.POST("/leave/request", middleware.Idempotency(db), func(c *gin.Context) {
			calls++
			c.JSON(http.StatusOK, gin.H{"ok": true})
		})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/leave/request", nil)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, 1, calls)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
