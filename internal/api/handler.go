package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/retvol/internal/domain/dto"
	"github.com/guttosm/retvol/internal/middleware"
	"github.com/guttosm/retvol/internal/regression"
	"github.com/guttosm/retvol/internal/service"
)

const monthLayout = "2006-01"

// Handler provides HTTP handlers for the monthly statistics endpoints.
type Handler struct {
	svc service.MonthlyService
}

// NewHandler constructs a new Handler instance.
func NewHandler(svc service.MonthlyService) *Handler {
	return &Handler{svc: svc}
}

// GetMonthly handles GET /api/v1/monthly requests.
//
// GetMonthly godoc
// @Summary      Monthly return and volatility for a ticker
// @Description  Returns the stored monthly statistics of a ticker, optionally bounded by inclusive months
// @Tags         monthly
// @Accept       json
// @Produce      json
// @Param        ticker  query     string  true   "Ticker" example(AAA)
// @Param        from    query     string  false  "First month, YYYY-MM" example(2020-01)
// @Param        to      query     string  false  "Last month, YYYY-MM" example(2020-12)
// @Success      200     {object}  dto.MonthlyResponse  "Success"
// @Failure      400     {object}  dto.ErrorResponse    "Bad Request"
// @Failure      404     {object}  dto.ErrorResponse    "Not Found"
// @Failure      500     {object}  dto.ErrorResponse    "Internal Error"
// @Router       /api/v1/monthly [get]
func (h *Handler) GetMonthly(c *gin.Context) {
	ticker := strings.ToUpper(strings.TrimSpace(c.Query("ticker")))
	if ticker == "" {
		middleware.AbortWithError(c, http.StatusBadRequest, "ticker is required", nil)
		return
	}

	from, err := parseMonth(c.Query("from"))
	if err != nil {
		middleware.AbortWithError(c, http.StatusBadRequest, "invalid from, expected YYYY-MM", err)
		return
	}
	to, err := parseMonth(c.Query("to"))
	if err != nil {
		middleware.AbortWithError(c, http.StatusBadRequest, "invalid to, expected YYYY-MM", err)
		return
	}
	if from != "" && to != "" && from > to {
		middleware.AbortWithError(c, http.StatusBadRequest, "from must not be after to", nil)
		return
	}

	items, err := h.svc.GetMonthly(c.Request.Context(), ticker, from, to)
	if err != nil {
		middleware.AbortWithError(c, http.StatusInternalServerError, "failed to fetch monthly statistics", err)
		return
	}
	if len(items) == 0 {
		middleware.AbortWithError(c, http.StatusNotFound, "no data found", nil)
		return
	}

	c.JSON(http.StatusOK, dto.MonthlyResponse{
		Ticker: ticker,
		From:   from,
		To:     to,
		Count:  len(items),
		Items:  items,
	})
}

// GetRegression handles GET /api/v1/regression requests.
//
// GetRegression godoc
// @Summary      OLS of monthly return on monthly volatility
// @Description  Fits mret ~ mvol over every stored monthly statistic; lag=true uses the previous month's volatility
// @Tags         regression
// @Produce      json
// @Param        lag  query     bool  false  "Regress on lagged volatility" example(false)
// @Success      200  {object}  dto.RegressionResponse  "Success"
// @Failure      400  {object}  dto.ErrorResponse       "Bad Request"
// @Failure      422  {object}  dto.ErrorResponse       "Not enough data"
// @Failure      500  {object}  dto.ErrorResponse       "Internal Error"
// @Router       /api/v1/regression [get]
func (h *Handler) GetRegression(c *gin.Context) {
	lag := false
	if s := c.Query("lag"); s != "" {
		v, err := strconv.ParseBool(s)
		if err != nil {
			middleware.AbortWithError(c, http.StatusBadRequest, "invalid lag, expected true or false", err)
			return
		}
		lag = v
	}

	res, err := h.svc.GetRegression(c.Request.Context(), regression.Options{Lag: lag})
	switch {
	case errors.Is(err, regression.ErrInsufficientData):
		middleware.AbortWithError(c, http.StatusUnprocessableEntity, "not enough monthly data for a regression", err)
		return
	case err != nil:
		middleware.AbortWithError(c, http.StatusInternalServerError, "failed to fit regression", err)
		return
	}

	c.JSON(http.StatusOK, dto.RegressionResponse{
		Model:     "mret ~ " + res.Regressor,
		Lag:       lag,
		N:         res.N,
		Intercept: coefResponse(res.Intercept),
		Slope:     coefResponse(res.Slope),
		R2:        res.R2,
		AdjR2:     res.AdjR2,
		Summary:   res.Summary(),
	})
}

func coefResponse(c regression.Coef) dto.CoefResponse {
	return dto.CoefResponse{Estimate: c.Estimate, StdErr: c.StdErr, T: c.T, P: c.P}
}

// parseMonth validates an optional YYYY-MM value and returns it canonicalized.
func parseMonth(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", nil
	}
	t, err := time.Parse(monthLayout, s)
	if err != nil {
		return "", fmt.Errorf("month %q: %w", s, err)
	}
	return t.Format(monthLayout), nil
}
