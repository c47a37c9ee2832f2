package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/guregu/null/v6"

	"github.com/guttosm/retvol/internal/domain/dto"
	"github.com/guttosm/retvol/internal/domain/models"
	"github.com/guttosm/retvol/internal/regression"
	"github.com/guttosm/retvol/internal/service"
)

type mockMonthlyService struct {
	items []models.MonthlyStat
	res   *regression.Result
	err   error

	gotTicker, gotFrom, gotTo string
	gotOpts                   regression.Options
}

func (m *mockMonthlyService) GetMonthly(_ context.Context, ticker, from, to string) ([]models.MonthlyStat, error) {
	m.gotTicker, m.gotFrom, m.gotTo = ticker, from, to
	return m.items, m.err
}

func (m *mockMonthlyService) GetRegression(_ context.Context, opts regression.Options) (*regression.Result, error) {
	m.gotOpts = opts
	return m.res, m.err
}

var _ service.MonthlyService = (*mockMonthlyService)(nil)

func setupRouterWithMock(s service.MonthlyService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(s)
	r := gin.New()
	v1 := r.Group("/api/v1")
	v1.GET("/monthly", h.GetMonthly)
	v1.GET("/regression", h.GetRegression)
	return r
}

var sampleItems = []models.MonthlyStat{
	{MDate: "2020-02", Ticker: "AAA", MRet: null.FloatFrom(0.0990099)},
	{MDate: "2020-03", Ticker: "AAA", MRet: null.FloatFrom(0.01), MVol: null.FloatFrom(0.2)},
}

func TestGetMonthly_TableDriven(t *testing.T) {
	cases := []struct {
		name   string
		svc    *mockMonthlyService
		query  string
		status int
		assert func(t *testing.T, svc *mockMonthlyService, body []byte)
	}{
		{name: "missing ticker", svc: &mockMonthlyService{}, query: "/api/v1/monthly", status: http.StatusBadRequest},
		{name: "invalid from", svc: &mockMonthlyService{}, query: "/api/v1/monthly?ticker=AAA&from=2020-13", status: http.StatusBadRequest},
		{name: "invalid to", svc: &mockMonthlyService{}, query: "/api/v1/monthly?ticker=AAA&to=2020/01", status: http.StatusBadRequest},
		{name: "inverted range", svc: &mockMonthlyService{}, query: "/api/v1/monthly?ticker=AAA&from=2020-05&to=2020-01", status: http.StatusBadRequest},
		{name: "not found", svc: &mockMonthlyService{}, query: "/api/v1/monthly?ticker=ZZZ", status: http.StatusNotFound},
		{name: "internal error", svc: &mockMonthlyService{err: errors.New("db down")}, query: "/api/v1/monthly?ticker=AAA", status: http.StatusInternalServerError},
		{
			name:   "success",
			svc:    &mockMonthlyService{items: sampleItems},
			query:  "/api/v1/monthly?ticker=aaa&from=2020-01&to=2020-12",
			status: http.StatusOK,
			assert: func(t *testing.T, svc *mockMonthlyService, body []byte) {
				if svc.gotTicker != "AAA" || svc.gotFrom != "2020-01" || svc.gotTo != "2020-12" {
					t.Fatalf("service called with %q %q %q", svc.gotTicker, svc.gotFrom, svc.gotTo)
				}
				var out struct {
					Ticker string `json:"ticker"`
					Count  int    `json:"count"`
					Items  []struct {
						MDate string   `json:"mdate"`
						MRet  *float64 `json:"mret"`
						MVol  *float64 `json:"mvol"`
					} `json:"items"`
				}
				if err := json.Unmarshal(body, &out); err != nil {
					t.Fatalf("invalid json: %v", err)
				}
				if out.Ticker != "AAA" || out.Count != 2 || len(out.Items) != 2 {
					t.Fatalf("unexpected body: %s", body)
				}
				if out.Items[0].MVol != nil || out.Items[1].MVol == nil {
					t.Fatalf("missing mvol must be null: %s", body)
				}
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := setupRouterWithMock(tc.svc)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tc.query, nil))
			if w.Code != tc.status {
				t.Fatalf("want %d got %d body=%s", tc.status, w.Code, w.Body.String())
			}
			if tc.status != http.StatusOK {
				var e dto.ErrorResponse
				if err := json.Unmarshal(w.Body.Bytes(), &e); err != nil || e.Message == "" {
					t.Fatalf("expected ErrorResponse body, got %s", w.Body.String())
				}
			}
			if tc.assert != nil {
				tc.assert(t, tc.svc, w.Body.Bytes())
			}
		})
	}
}

func TestGetRegression_TableDriven(t *testing.T) {
	fit := &regression.Result{Regressor: "mvol", N: 10, Slope: regression.Coef{Estimate: 0.5}, R2: 0.3, DF: 8}

	cases := []struct {
		name    string
		svc     *mockMonthlyService
		query   string
		status  int
		wantLag bool
	}{
		{name: "invalid lag", svc: &mockMonthlyService{}, query: "/api/v1/regression?lag=maybe", status: http.StatusBadRequest},
		{name: "insufficient", svc: &mockMonthlyService{err: fmt.Errorf("wrap: %w", regression.ErrInsufficientData)}, query: "/api/v1/regression", status: http.StatusUnprocessableEntity},
		{name: "internal", svc: &mockMonthlyService{err: errors.New("db")}, query: "/api/v1/regression", status: http.StatusInternalServerError},
		{name: "success", svc: &mockMonthlyService{res: fit}, query: "/api/v1/regression", status: http.StatusOK},
		{name: "success lagged", svc: &mockMonthlyService{res: fit}, query: "/api/v1/regression?lag=true", status: http.StatusOK, wantLag: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := setupRouterWithMock(tc.svc)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tc.query, nil))
			if w.Code != tc.status {
				t.Fatalf("want %d got %d body=%s", tc.status, w.Code, w.Body.String())
			}
			if tc.status != http.StatusOK {
				return
			}
			if tc.svc.gotOpts.Lag != tc.wantLag {
				t.Fatalf("lag option not forwarded")
			}
			var out dto.RegressionResponse
			if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
				t.Fatalf("invalid json: %v", err)
			}
			if out.N != 10 || out.Slope.Estimate != 0.5 || out.Model != "mret ~ mvol" || out.Summary == "" {
				t.Fatalf("unexpected body: %+v", out)
			}
		})
	}
}

func TestParseMonth(t *testing.T) {
	cases := map[string]struct {
		want string
		ok   bool
	}{
		"":         {"", true},
		" 2020-01": {"2020-01", true},
		"2020-1":   {"", false},
		"2020-13":  {"", false},
		"01-2020":  {"", false},
	}
	for in, c := range cases {
		got, err := parseMonth(in)
		if (err == nil) != c.ok || got != c.want {
			t.Fatalf("parseMonth(%q)=%q,%v", in, got, err)
		}
	}
}
