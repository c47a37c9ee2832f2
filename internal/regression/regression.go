// Package regression fits the ordinary least squares model mret ~ mvol over
// monthly statistics.
package regression

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/guregu/null/v6"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/guttosm/retvol/internal/domain/models"
)

// ErrInsufficientData is returned when fewer than three usable rows remain or
// the regressor has no variance.
var ErrInsufficientData = errors.New("insufficient data for regression")

const minRows = 3

// Options controls how the regressor is built.
//
//   - Lag: regress mret(M) on the same ticker's mvol(M-1) instead of mvol(M).
//   - PriorVol: mvol by ticker and month ("YYYY-MM") for lag lookups. A
//     ticker's first month never has a MonthlyStat row, so without PriorVol
//     its second month drops out of a lagged fit.
type Options struct {
	Lag      bool
	PriorVol map[string]map[string]null.Float
}

// Coef is one estimated coefficient.
type Coef struct {
	Estimate float64 `json:"estimate"`
	StdErr   float64 `json:"std_err"`
	T        float64 `json:"t"`
	P        float64 `json:"p"`
}

// Result is a fitted model.
type Result struct {
	Regressor string  `json:"regressor"`
	N         int     `json:"n"`
	Intercept Coef    `json:"intercept"`
	Slope     Coef    `json:"slope"`
	R2        float64 `json:"r2"`
	AdjR2     float64 `json:"adj_r2"`
	DF        int     `json:"df_resid"`
}

// Design returns the (x, y) pairs Fit would use. Rows with a missing value
// are dropped.
func Design(stats []models.MonthlyStat, opts Options) (xs, ys []float64) {
	var prevVol map[string]models.MonthlyStat
	if opts.Lag {
		prevVol = make(map[string]models.MonthlyStat, len(stats))
		for _, s := range stats {
			prevVol[s.Ticker+"|"+s.MDate] = s
		}
	}

	for _, s := range stats {
		if !s.MRet.Valid {
			continue
		}
		x := s.MVol
		if opts.Lag {
			key, ok := previousMonth(s.MDate)
			if !ok {
				continue
			}
			x = null.Float{}
			if p, found := prevVol[s.Ticker+"|"+key]; found {
				x = p.MVol
			}
			if !x.Valid {
				x = opts.PriorVol[s.Ticker][key]
			}
		}
		if !x.Valid {
			continue
		}
		xs = append(xs, x.Float64)
		ys = append(ys, s.MRet.Float64)
	}
	return xs, ys
}

// Fit estimates mret = a + b*mvol by OLS.
func Fit(stats []models.MonthlyStat, opts Options) (Result, error) {
	xs, ys := Design(stats, opts)
	n := len(xs)
	if n < minRows {
		return Result{}, fmt.Errorf("%w: %d usable rows", ErrInsufficientData, n)
	}

	meanX, varX := stat.MeanVariance(xs, nil)
	if varX == 0 || math.IsNaN(varX) {
		return Result{}, fmt.Errorf("%w: regressor has zero variance", ErrInsufficientData)
	}

	alpha, beta := stat.LinearRegression(xs, ys, nil, false)
	r2 := stat.RSquared(xs, ys, nil, alpha, beta)

	var ssr, sxx float64
	for i := range xs {
		e := ys[i] - (alpha + beta*xs[i])
		ssr += e * e
		dx := xs[i] - meanX
		sxx += dx * dx
	}
	df := n - 2
	sigma2 := ssr / float64(df)

	seBeta := math.Sqrt(sigma2 / sxx)
	seAlpha := math.Sqrt(sigma2 * (1/float64(n) + meanX*meanX/sxx))

	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(df)}
	res := Result{
		Regressor: regressorName(opts),
		N:         n,
		Intercept: coef(alpha, seAlpha, dist),
		Slope:     coef(beta, seBeta, dist),
		R2:        r2,
		AdjR2:     1 - (1-r2)*float64(n-1)/float64(df),
		DF:        df,
	}
	return res, nil
}

// coef leaves T and P at zero when se is zero (perfect fit).
func coef(est, se float64, dist distuv.StudentsT) Coef {
	c := Coef{Estimate: est, StdErr: se}
	if se == 0 {
		return c
	}
	c.T = est / se
	c.P = 2 * dist.Survival(math.Abs(c.T))
	return c
}

func regressorName(opts Options) string {
	if opts.Lag {
		return "mvol_lag1"
	}
	return "mvol"
}

func previousMonth(mdate string) (string, bool) {
	t, err := time.Parse("2006-01", mdate)
	if err != nil {
		return "", false
	}
	return t.AddDate(0, -1, 0).Format("2006-01"), true
}

// Summary renders the fit as a plain-text table.
func (r Result) Summary() string {
	var b strings.Builder
	line := strings.Repeat("=", 66)
	thin := strings.Repeat("-", 66)

	fmt.Fprintln(&b, "                      OLS Regression Results")
	fmt.Fprintln(&b, line)
	fmt.Fprintf(&b, "%-18s %-14s %-18s %12.4f\n", "Dep. Variable:", "mret", "R-squared:", r.R2)
	fmt.Fprintf(&b, "%-18s %-14s %-18s %12.4f\n", "Model:", "OLS", "Adj. R-squared:", r.AdjR2)
	fmt.Fprintf(&b, "%-18s %-14d %-18s %12d\n", "No. Observations:", r.N, "Df Residuals:", r.DF)
	fmt.Fprintln(&b, line)
	fmt.Fprintf(&b, "%-12s %12s %12s %10s %10s\n", "", "coef", "std err", "t", "P>|t|")
	fmt.Fprintln(&b, thin)
	for _, row := range []struct {
		name string
		c    Coef
	}{{"Intercept", r.Intercept}, {r.Regressor, r.Slope}} {
		fmt.Fprintf(&b, "%-12s %12.4f %12.4f %10.3f %10.3f\n", row.name, row.c.Estimate, row.c.StdErr, row.c.T, row.c.P)
	}
	fmt.Fprintln(&b, line)
	return b.String()
}
