package models

import "github.com/guregu/null/v6"

// MonthlyStat is one row of the regression input table.
//
// Fields:
//   - MDate:  month key formatted as "YYYY-MM".
//   - Ticker: upper-cased ticker.
//   - MRet:   monthly simple return; invalid for a ticker's first month.
//   - MVol:   std of the month's daily returns * sqrt(21); invalid with fewer than 2 returns.
//
// swagger:model MonthlyStat
type MonthlyStat struct {
	MDate  string     `json:"mdate" example:"2020-02"`
	Ticker string     `json:"ticker" example:"AAA"`
	MRet   null.Float `json:"mret" swaggertype:"number" example:"0.0990"`
	MVol   null.Float `json:"mvol" swaggertype:"number" example:"0.0812"`
}

// Complete reports whether both statistics are present.
func (m MonthlyStat) Complete() bool {
	return m.MRet.Valid && m.MVol.Valid
}
