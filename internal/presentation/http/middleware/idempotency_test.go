package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/restobill-api/internal/domain/entity"
	"github.com/sangkips/restobill-api/internal/presentation/http/handler"
	"github.com/sangkips/restobill-api/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryKeys struct {
	mu   sync.Mutex
	keys map[string]*entity.IdempotencyKey
}

func newMemoryKeys() *memoryKeys {
	return &memoryKeys{keys: make(map[string]*entity.IdempotencyKey)}
}

func (m *memoryKeys) GetByKey(ctx context.Context, key string, userID uuid.UUID) (*entity.IdempotencyKey, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if ikey, ok := m.keys[userID.String()+key]; ok {
		copied := *ikey
		return &copied, nil
	}
	return nil, nil
}

func (m *memoryKeys) Reserve(ctx context.Context, ikey *entity.IdempotencyKey) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.keys[ikey.UserID.String()+ikey.Key]; ok && !existing.IsExpired() {
		return false, nil
	}
	m.keys[ikey.UserID.String()+ikey.Key] = ikey
	return true, nil
}

func (m *memoryKeys) Complete(ctx context.Context, ikey *entity.IdempotencyKey) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.keys[ikey.UserID.String()+ikey.Key] = ikey
	return nil
}

func (m *memoryKeys) Release(ctx context.Context, key string, userID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.keys, userID.String()+key)
	return nil
}

func (m *memoryKeys) DeleteExpired(ctx context.Context) error {
	return nil
}

func idempotentRouter(repo *memoryKeys, userID uuid.UUID, h gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(handler.ContextUserID, userID)
		c.Next()
	})
	r.POST("/bills", Idempotency(IdempotencyConfig{Repo: repo, Log: logger.NewNop()}), h)
	return r
}

func postBill(r *gin.Engine, key string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/bills", nil)
	if key != "" {
		req.Header.Set(IdempotencyKeyHeader, key)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestIdempotencyReplaysCompletedRequest(t *testing.T) {
	var saves atomic.Int32
	r := idempotentRouter(newMemoryKeys(), uuid.New(), func(c *gin.Context) {
		n := saves.Add(1)
		c.JSON(http.StatusCreated, gin.H{"save": n})
	})

	first := postBill(r, "k1")
	second := postBill(r, "k1")

	assert.Equal(t, http.StatusCreated, second.Code)
	assert.Equal(t, "true", second.Header().Get("X-Idempotency-Replayed"))
	assert.JSONEq(t, first.Body.String(), second.Body.String())
	assert.Equal(t, int32(1), saves.Load())

	postBill(r, "")
	assert.Equal(t, int32(2), saves.Load())
}

func TestIdempotencyRejectsRepeatWhileInFlight(t *testing.T) {
	var saves atomic.Int32
	entered := make(chan struct{})
	release := make(chan struct{})
	r := idempotentRouter(newMemoryKeys(), uuid.New(), func(c *gin.Context) {
		saves.Add(1)
		close(entered)
		<-release
		c.JSON(http.StatusCreated, gin.H{"ok": true})
	})

	done := make(chan *httptest.ResponseRecorder)
	go func() { done <- postBill(r, "k2") }()
	<-entered

	repeat := postBill(r, "k2")
	assert.Equal(t, http.StatusConflict, repeat.Code)

	close(release)
	select {
	case first := <-done:
		assert.Equal(t, http.StatusCreated, first.Code)
	case <-time.After(time.Second):
		t.Fatal("first request did not finish")
	}

	replay := postBill(r, "k2")
	assert.Equal(t, http.StatusCreated, replay.Code)
	assert.Equal(t, "true", replay.Header().Get("X-Idempotency-Replayed"))
	assert.Equal(t, int32(1), saves.Load())
}

func TestIdempotencyReleasesFailedRequest(t *testing.T) {
	repo := newMemoryKeys()
	userID := uuid.New()
	var calls atomic.Int32
	r := idempotentRouter(repo, userID, func(c *gin.Context) {
		if calls.Add(1) == 1 {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Please add items to the cart before saving"})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"ok": true})
	})

	assert.Equal(t, http.StatusBadRequest, postBill(r, "k3").Code)
	stored, err := repo.GetByKey(context.Background(), "k3", userID)
	require.NoError(t, err)
	assert.Nil(t, stored)

	retry := postBill(r, "k3")
	assert.Equal(t, http.StatusCreated, retry.Code)
	assert.Empty(t, retry.Header().Get("X-Idempotency-Replayed"))
}
