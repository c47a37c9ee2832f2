package service

import (
	"context"
	"strings"

	"github.com/guttosm/retvol/internal/domain/models"
	"github.com/guttosm/retvol/internal/regression"
	"github.com/guttosm/retvol/internal/storage"
)

// MonthlyService serves stored monthly statistics to the HTTP layer.
type MonthlyService interface {
	GetMonthly(ctx context.Context, ticker, from, to string) ([]models.MonthlyStat, error)
	GetRegression(ctx context.Context, opts regression.Options) (*regression.Result, error)
}

type monthlyService struct {
	repo storage.PricesRepository
}

func NewMonthlyService(repo storage.PricesRepository) MonthlyService {
	return &monthlyService{repo: repo}
}

func (s *monthlyService) GetMonthly(ctx context.Context, ticker, from, to string) ([]models.MonthlyStat, error) {
	return s.repo.GetMonthlyByTicker(ctx, strings.ToUpper(strings.TrimSpace(ticker)), from, to)
}

// GetRegression fits the model over every stored monthly statistic. Only
// emitted months are stored, so a lagged fit here has no regressor for each
// ticker's second month; analyze runs fill it from the daily panel.
func (s *monthlyService) GetRegression(ctx context.Context, opts regression.Options) (*regression.Result, error) {
	stats, err := s.repo.ListMonthlyStats(ctx)
	if err != nil {
		return nil, err
	}
	res, err := regression.Fit(stats, opts)
	if err != nil {
		return nil, err
	}
	return &res, nil
}
