package dto

import "github.com/guttosm/retvol/internal/domain/models"

// MonthlyResponse represents the JSON structure returned by the
// GET /api/v1/monthly endpoint.
//
// From and To echo the inclusive month bounds of the request, if any.
type MonthlyResponse struct {
	Ticker string               `json:"ticker" example:"AAA"`
	From   string               `json:"from,omitempty" example:"2020-01"`
	To     string               `json:"to,omitempty" example:"2020-12"`
	Count  int                  `json:"count" example:"12"`
	Items  []models.MonthlyStat `json:"items"`
}
