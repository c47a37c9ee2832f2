package aggregate

import (
	"math"
	"sort"
	"time"

	"github.com/guregu/null/v6"
	"gonum.org/v1/gonum/stat"

	"github.com/guttosm/retvol/internal/domain/models"
)

// TradingDaysPerMonth scales daily volatility to a monthly figure.
const TradingDaysPerMonth = 21

const monthLayout = "2006-01"

// MonthEnd is the last observed price of a calendar month.
type MonthEnd struct {
	Month time.Time // first day of the month, UTC
	Price float64
}

// DailyReturn is the simple return from the previous observation to Date.
type DailyReturn struct {
	Date   time.Time
	Return float64
}

// TickerSeries holds the intermediate per-ticker series the monthly
// statistics are derived from.
type TickerSeries struct {
	Ticker    string
	MonthEnds []MonthEnd
	Returns   []DailyReturn
}

// Series sorts one ticker's records by date and derives its month-end prices
// and daily returns. A return whose prior price is zero is dropped.
func Series(ticker string, recs []models.PriceRecord) TickerSeries {
	sorted := make([]models.PriceRecord, len(recs))
	copy(sorted, recs)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Date.Before(sorted[j].Date) })

	s := TickerSeries{Ticker: ticker}
	for i, r := range sorted {
		m := monthStart(r.Date)
		if n := len(s.MonthEnds); n > 0 && s.MonthEnds[n-1].Month.Equal(m) {
			s.MonthEnds[n-1].Price = r.Price
		} else {
			s.MonthEnds = append(s.MonthEnds, MonthEnd{Month: m, Price: r.Price})
		}

		if i == 0 {
			continue
		}
		prev := sorted[i-1].Price
		if prev == 0 {
			continue
		}
		s.Returns = append(s.Returns, DailyReturn{Date: r.Date, Return: r.Price/prev - 1})
	}
	return s
}

// Volatilities groups daily returns by month key ("YYYY-MM") and returns the
// scaled volatility of each month that has at least one return.
func (s TickerSeries) Volatilities() map[string]null.Float {
	byMonth := make(map[string][]float64)
	for _, r := range s.Returns {
		k := r.Date.Format(monthLayout)
		byMonth[k] = append(byMonth[k], r.Return)
	}
	out := make(map[string]null.Float, len(byMonth))
	for k, rets := range byMonth {
		out[k] = Volatility(rets)
	}
	return out
}

// Stats emits one MonthlyStat per month whose immediately preceding calendar
// month also has a month-end price. Months are ascending.
func (s TickerSeries) Stats() []models.MonthlyStat {
	vols := s.Volatilities()
	var out []models.MonthlyStat
	for i := 1; i < len(s.MonthEnds); i++ {
		prev, cur := s.MonthEnds[i-1], s.MonthEnds[i]
		if !prev.Month.AddDate(0, 1, 0).Equal(cur.Month) {
			continue
		}
		ret := Return(prev.Price, cur.Price)
		if !ret.Valid {
			continue
		}
		k := cur.Month.Format(monthLayout)
		out = append(out, models.MonthlyStat{
			MDate:  k,
			Ticker: s.Ticker,
			MRet:   ret,
			MVol:   vols[k],
		})
	}
	return out
}

// Return is cur/prev - 1, invalid when prev is zero.
func Return(prev, cur float64) null.Float {
	if prev == 0 {
		return null.Float{}
	}
	return null.FloatFrom(cur/prev - 1)
}

// Volatility is the sample standard deviation of rets times sqrt(21).
// Fewer than two returns give an invalid value, never zero.
func Volatility(rets []float64) null.Float {
	if len(rets) < 2 {
		return null.Float{}
	}
	sd := stat.StdDev(rets, nil)
	if math.IsNaN(sd) || math.IsInf(sd, 0) {
		return null.Float{}
	}
	return null.FloatFrom(sd * math.Sqrt(TradingDaysPerMonth))
}

func monthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}
