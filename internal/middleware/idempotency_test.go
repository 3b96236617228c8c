package middleware_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go-leavedesk/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type storedResponse struct {
	Status int    `json:"status"`
	Body   []byte `json:"body"`
}

func TestIdempotency(t *testing.T) {
	accountID := "c56a4180-65aa-42ec-a945-5fd21dec0538"
	handlerBody := `{"ok":true,"data":{"id":"L001","status":"APPROVED"}}`

	newRouter := func(mw gin.HandlerFunc) *gin.Engine {
		r := gin.New()
		r.POST("/leaves/:id/approve", func(c *gin.Context) {
			c.Set("account_id", accountID)
		}, mw, func(c *gin.Context) {
			c.Data(http.StatusOK, "application/json", []byte(handlerBody))
		})
		return r
	}

	t.Run("passes through without a key", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		r := newRouter(middleware.Idempotency(rdb))

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/leaves/L001/approve", nil)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, handlerBody, w.Body.String())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("first request locks, runs and caches", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		cacheKey := "idemp:/leaves/:id/approve:" + accountID + ":abc-123"
		lockKey := cacheKey + ":lock"

		mock.ExpectGet(cacheKey).RedisNil()
		mock.ExpectSetNX(lockKey, "locked", 30*time.Second).SetVal(true)
		payload, err := json.Marshal(storedResponse{Status: http.StatusOK, Body: []byte(handlerBody)})
		assert.NoError(t, err)
		mock.ExpectSet(cacheKey, payload, 24*time.Hour).SetVal("OK")
		mock.ExpectDel(lockKey).SetVal(1)

		r := newRouter(middleware.Idempotency(rdb))
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/leaves/L001/approve", nil)
		req.Header.Set("Idempotency-Key", "abc-123")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, handlerBody, w.Body.String())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("replays the cached response", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		cacheKey := "idemp:/leaves/:id/approve:" + accountID + ":abc-123"

		payload, err := json.Marshal(storedResponse{Status: http.StatusOK, Body: []byte(handlerBody)})
		assert.NoError(t, err)
		mock.ExpectGet(cacheKey).SetVal(string(payload))

		handlerCalls := 0
		r := gin.New()
		r.POST("/leaves/:id/approve", func(c *gin.Context) {
			c.Set("account_id", accountID)
		}, middleware.Idempotency(rdb), func(c *gin.Context) {
			handlerCalls++
			c.Data(http.StatusOK, "application/json", []byte(handlerBody))
		})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/leaves/L001/approve", nil)
		req.Header.Set("Idempotency-Key", "abc-123")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, handlerBody, w.Body.String())
		assert.Equal(t, 0, handlerCalls)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("concurrent duplicate gets conflict", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		cacheKey := "idemp:/leaves/:id/approve:" + accountID + ":abc-123"
		lockKey := cacheKey + ":lock"

		mock.ExpectGet(cacheKey).RedisNil()
		mock.ExpectSetNX(lockKey, "locked", 30*time.Second).SetVal(false)

		r := newRouter(middleware.Idempotency(rdb))
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/leaves/L001/approve", nil)
		req.Header.Set("Idempotency-Key", "abc-123")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), "PROCESSING")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
