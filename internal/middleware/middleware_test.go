package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/retvol/internal/domain/dto"
)

type assertErr struct{}

func (assertErr) Error() string { return "boom" }

func TestErrorHandler(t *testing.T) {
	cases := []struct {
		name    string
		handler gin.HandlerFunc
		want    int
	}{
		{name: "error without response", handler: func(c *gin.Context) { _ = c.Error(assertErr{}) }, want: http.StatusInternalServerError},
		{name: "error keeps 4xx status", handler: func(c *gin.Context) { c.Status(http.StatusBadRequest); _ = c.Error(assertErr{}) }, want: http.StatusBadRequest},
		{name: "written response untouched", handler: func(c *gin.Context) { c.String(http.StatusOK, "ok"); _ = c.Error(assertErr{}) }, want: http.StatusOK},
		{name: "no error", handler: func(c *gin.Context) { c.String(http.StatusOK, "ok") }, want: http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			gin.SetMode(gin.TestMode)
			r := gin.New()
			r.Use(RequestID(), ErrorHandler)
			r.GET("/", tc.handler)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
			if w.Code != tc.want {
				t.Fatalf("code=%d want %d", w.Code, tc.want)
			}
		})
	}
}

func TestRecoveryMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID(), RecoveryMiddleware())
	r.GET("/panic", func(c *gin.Context) { panic("boom") })
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))
	if w.Code != 500 {
		t.Fatalf("code=%d", w.Code)
	}
	var body dto.ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil || body.ErrorDetails != "boom" {
		t.Fatalf("body=%s err=%v", w.Body.String(), err)
	}
}

func TestRateLimiter(t *testing.T) {
	cases := []struct {
		name   string
		reqs   int
		lim    int
		window time.Duration
		expect int
	}{
		{name: "within limit", reqs: 2, lim: 3, window: time.Minute, expect: http.StatusOK},
		{name: "exceed limit", reqs: 5, lim: 3, window: time.Minute, expect: http.StatusTooManyRequests},
		{name: "at limit", reqs: 3, lim: 3, window: time.Minute, expect: http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			gin.SetMode(gin.TestMode)
			r := gin.New()
			r.Use(RateLimiter(tc.lim, tc.window))
			r.GET("/", func(c *gin.Context) { c.String(200, "ok") })
			var last int
			for i := 0; i < tc.reqs; i++ {
				w := httptest.NewRecorder()
				r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
				last = w.Code
			}
			if last != tc.expect {
				t.Fatalf("expected %d, got %d", tc.expect, last)
			}
		})
	}
}

func TestRateLimiter_WindowResets(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RateLimiter(1, 20*time.Millisecond))
	r.GET("/", func(c *gin.Context) { c.String(200, "ok") })

	do := func() int {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		return w.Code
	}
	if do() != http.StatusOK || do() != http.StatusTooManyRequests {
		t.Fatalf("limit not enforced inside window")
	}
	time.Sleep(30 * time.Millisecond)
	if code := do(); code != http.StatusOK {
		t.Fatalf("window did not reset, got %d", code)
	}
}

func TestAbortWithError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/err", func(c *gin.Context) {
		AbortWithError(c, http.StatusBadRequest, "bad stuff", assertErr{})
	})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/err", nil))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("code=%d", w.Code)
	}
	var body dto.ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil || body.Message != "bad stuff" || body.ErrorDetails != "boom" {
		t.Fatalf("body=%s err=%v", w.Body.String(), err)
	}
}
