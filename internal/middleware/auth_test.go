package middleware

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/ishimweeli/homeSchoolingExamSystem-sub001/internal/util"

	"github.com/gin-gonic/gin"
)

type recordingActivityRepo struct {
	mu    sync.Mutex
	calls []uint
	done  chan struct{}
}

func (r *recordingActivityRepo) UpdateLastSeen(userID uint) error {
	r.mu.Lock()
	r.calls = append(r.calls, userID)
	r.mu.Unlock()
	r.done <- struct{}{}
	return nil
}

func TestActivityMiddleware_DebouncesPerUser(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := &recordingActivityRepo{done: make(chan struct{}, 8)}

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("user", &util.Claims{UserID: 7})
	}, ActivityMiddleware(repo))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		if w.Code != http.StatusOK {
			t.Fatalf("request %d: status = %d", i+1, w.Code)
		}
	}

	select {
	case <-repo.done:
	case <-time.After(time.Second):
		t.Fatalf("UpdateLastSeen was never called")
	}
	select {
	case <-repo.done:
		t.Fatalf("UpdateLastSeen called again inside the debounce window")
	case <-time.After(50 * time.Millisecond):
	}

	repo.mu.Lock()
	defer repo.mu.Unlock()
	if len(repo.calls) != 1 || repo.calls[0] != 7 {
		t.Fatalf("calls = %v, want exactly one for user 7", repo.calls)
	}
}

func TestActivityMiddleware_SkipsAnonymous(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := &recordingActivityRepo{done: make(chan struct{}, 1)}

	r := gin.New()
	r.Use(ActivityMiddleware(repo))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	select {
	case <-repo.done:
		t.Fatalf("UpdateLastSeen must not run without claims")
	case <-time.After(50 * time.Millisecond):
	}
}
