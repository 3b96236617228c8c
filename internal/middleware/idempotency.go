package middleware

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const (
	idempotencyTTL     = 24 * time.Hour
	idempotencyLockTTL = 30 * time.Second
)

type cachedResponse struct {
	Status int    `json:"status"`
	Body   []byte `json:"body"`
}

type bodyRecorder struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *bodyRecorder) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// Idempotency replays the stored response for POSTs carrying an
// Idempotency-Key already seen from the same caller on the same route, and
// rejects a duplicate arriving while the first attempt is still running.
// Approve and reject are terminal transitions, so a retried click must not
// surface AlreadyProcessed to the user who caused the first transition.
func Idempotency(rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		idempKey := c.GetHeader("Idempotency-Key")
		accountID := c.GetString("account_id")

		if idempKey == "" || c.Request.Method != http.MethodPost {
			c.Next()
			return
		}

		cacheKey := fmt.Sprintf("idemp:%s:%s:%s", c.FullPath(), accountID, idempKey)
		lockKey := cacheKey + ":lock"

		if val, err := rdb.Get(c.Request.Context(), cacheKey).Result(); err == nil {
			var cached cachedResponse
			if err := json.Unmarshal([]byte(val), &cached); err == nil {
				c.Data(cached.Status, "application/json", cached.Body)
				c.Abort()
				return
			}
		}

		isNew, _ := rdb.SetNX(c.Request.Context(), lockKey, "locked", idempotencyLockTTL).Result()
		if !isNew {
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{
				"code":    "PROCESSING",
				"message": "Your request is still being processed, please wait",
			})
			return
		}

		recorder := &bodyRecorder{ResponseWriter: c.Writer, body: &bytes.Buffer{}}
		c.Writer = recorder

		c.Next()

		status := recorder.Status()
		if status >= http.StatusOK && status < http.StatusMultipleChoices {
			payload, err := json.Marshal(cachedResponse{
				Status: status,
				Body:   recorder.body.Bytes(),
			})
			if err == nil {
				_ = rdb.Set(c.Request.Context(), cacheKey, payload, idempotencyTTL).Err()
			}
		}
		_ = rdb.Del(c.Request.Context(), lockKey).Err()
	}
}
