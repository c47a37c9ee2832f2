package dto

// CoefResponse is one estimated coefficient.
type CoefResponse struct {
	Estimate float64 `json:"estimate" example:"0.0123"`
	StdErr   float64 `json:"std_err" example:"0.0051"`
	T        float64 `json:"t" example:"2.41"`
	P        float64 `json:"p" example:"0.018"`
}

// RegressionResponse represents the JSON structure returned by the
// GET /api/v1/regression endpoint.
type RegressionResponse struct {
	Model     string       `json:"model" example:"mret ~ mvol"`
	Lag       bool         `json:"lag" example:"false"`
	N         int          `json:"n" example:"120"`
	Intercept CoefResponse `json:"intercept"`
	Slope     CoefResponse `json:"slope"`
	R2        float64      `json:"r2" example:"0.04"`
	AdjR2     float64      `json:"adj_r2" example:"0.03"`
	Summary   string       `json:"summary"`
}
