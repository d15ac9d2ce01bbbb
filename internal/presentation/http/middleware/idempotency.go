package middleware

import (
	"bytes"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/restobill-api/internal/domain/entity"
	"github.com/sangkips/restobill-api/internal/domain/repository"
	"github.com/sangkips/restobill-api/internal/presentation/http/dto/response"
	"github.com/sangkips/restobill-api/internal/presentation/http/handler"
	"github.com/sangkips/restobill-api/pkg/logger"
)

const (
	// IdempotencyKeyHeader is the HTTP header for idempotency keys
	IdempotencyKeyHeader = "Idempotency-Key"
	// IdempotencyKeyTTL is how long keys are valid
	IdempotencyKeyTTL = 24 * time.Hour
	// IdempotencyPendingTTL frees a reservation whose request never finished
	IdempotencyPendingTTL = time.Minute
)

// IdempotencyConfig holds configuration for the idempotency middleware
type IdempotencyConfig struct {
	Repo repository.IdempotencyRepository
	Log  *logger.Logger
}

// responseWriter wraps gin.ResponseWriter to capture the response body
type responseWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w responseWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// Idempotency replays the stored response when a request repeats an
// Idempotency-Key, so a double-clicked save writes one bill. The key is
// reserved before the handler runs; a repeat that arrives while the first
// request is still running gets 409. Requests without a key pass through.
// Only successful responses are kept, so a failed save can be retried with
// the same key.
func Idempotency(config IdempotencyConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		idempotencyKey := c.GetHeader(IdempotencyKeyHeader)
		if idempotencyKey == "" {
			c.Next()
			return
		}

		userID := handler.GetUserID(c)
		if userID == nil {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		reserved, err := config.Repo.Reserve(ctx, &entity.IdempotencyKey{
			Key:       idempotencyKey,
			UserID:    *userID,
			Endpoint:  c.Request.Method + " " + c.FullPath(),
			ExpiresAt: time.Now().Add(IdempotencyPendingTTL),
		})
		if err != nil {
			config.Log.Warn("idempotency reserve failed", "error", err)
			c.Next()
			return
		}

		if !reserved {
			existing, err := config.Repo.GetByKey(ctx, idempotencyKey, *userID)
			if err != nil || existing == nil {
				config.Log.Warn("idempotency lookup failed", "error", err)
				response.InternalServerError(c, "Could not check Idempotency-Key")
				c.Abort()
				return
			}
			if existing.IsPending() {
				response.ErrorWithCode(c, http.StatusConflict, "A request with this Idempotency-Key is still in progress")
				c.Abort()
				return
			}
			c.Header("X-Idempotency-Replayed", "true")
			c.Data(existing.ResponseCode, "application/json; charset=utf-8", []byte(existing.ResponseBody))
			c.Abort()
			return
		}

		blw := &responseWriter{body: &bytes.Buffer{}, ResponseWriter: c.Writer}
		c.Writer = blw

		c.Next()

		status := c.Writer.Status()
		if status < 200 || status >= 300 {
			if err := config.Repo.Release(ctx, idempotencyKey, *userID); err != nil {
				config.Log.Warn("release idempotency key failed", "error", err)
			}
			return
		}

		ikey := &entity.IdempotencyKey{
			Key:          idempotencyKey,
			UserID:       *userID,
			ResponseCode: status,
			ResponseBody: blw.body.String(),
			ExpiresAt:    time.Now().Add(IdempotencyKeyTTL),
		}
		if err := config.Repo.Complete(ctx, ikey); err != nil {
			config.Log.Warn("store idempotency key failed", "error", err)
		}
	}
}
