package service

import (
	"context"
	"fmt"
	"time"

	"backend/internal/repository"

	"github.com/google/uuid"
)

// --- DTOs ---

type ActivityDataPoint struct {
	Period     string `json:"period"`
	Revenue    string `json:"revenue"`
	OutputVAT  string `json:"output_vat"`
	Expenses   string `json:"expenses"`
	Deductible string `json:"deductible"`
	InputVAT   string `json:"input_vat"`
}

type ActivityFilter struct {
	GroupBy   string // week, month, quarter, year
	StartDate string // RFC3339
	EndDate   string // RFC3339
}

type ObligationSummary struct {
	TaxType  string `json:"tax_type"`
	Period   string `json:"period"`
	Pending  string `json:"pending"`
	Status   string `json:"status"`
	Deadline string `json:"deadline"`
	Stale    bool   `json:"stale"`
}

// --- Interface ---

type DashboardService interface {
	GetActivity(ctx context.Context, entityID string, filter ActivityFilter) ([]ActivityDataPoint, error)
	GetObligations(ctx context.Context, entityID string, year int) ([]ObligationSummary, error)
}

type dashboardService struct {
	dashboardRepo repository.DashboardRepository
	summaryRepo   repository.SummaryRepository
}

func NewDashboardService(
	dashboardRepo repository.DashboardRepository,
	summaryRepo repository.SummaryRepository,
) DashboardService {
	return &dashboardService{
		dashboardRepo: dashboardRepo,
		summaryRepo:   summaryRepo,
	}
}

// --- Implementation ---

func (s *dashboardService) GetActivity(ctx context.Context, entityID string, filter ActivityFilter) ([]ActivityDataPoint, error) {
	eid, err := uuid.Parse(entityID)
	if err != nil {
		return nil, fmt.Errorf("invalid entity id: %w", err)
	}

	// Validate group_by
	groupBy := filter.GroupBy
	switch groupBy {
	case "week", "month", "quarter", "year":
		// valid
	default:
		groupBy = "month" // default
	}

	startDate := filter.StartDate
	endDate := filter.EndDate
	if startDate == "" || endDate == "" {
		now := time.Now().UTC()
		endDate = now.Format(time.RFC3339)
		startDate = now.AddDate(0, -12, 0).Format(time.RFC3339)
	}

	rows, err := s.dashboardRepo.GetActivitySeries(ctx, eid, groupBy, startDate, endDate)
	if err != nil {
		return nil, err
	}

	result := make([]ActivityDataPoint, 0, len(rows))
	for _, row := range rows {
		result = append(result, ActivityDataPoint{
			Period:     row.Period,
			Revenue:    fmt.Sprintf("%.2f", row.Revenue),
			OutputVAT:  fmt.Sprintf("%.2f", row.OutputVAT),
			Expenses:   fmt.Sprintf("%.2f", row.Expenses),
			Deductible: fmt.Sprintf("%.2f", row.Deductible),
			InputVAT:   fmt.Sprintf("%.2f", row.InputVAT),
		})
	}

	return result, nil
}

// GetObligations returns the stored summary rows for the year without
// recomputing them. Stale rows are flagged so the client can trigger a
// recalculation through the summary endpoint.
func (s *dashboardService) GetObligations(ctx context.Context, entityID string, year int) ([]ObligationSummary, error) {
	eid, err := uuid.Parse(entityID)
	if err != nil {
		return nil, fmt.Errorf("invalid entity id: %w", err)
	}

	summaries, err := s.summaryRepo.ListForEntityYear(ctx, eid, year)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch obligations: %w", err)
	}

	result := make([]ObligationSummary, 0, len(summaries))
	for _, sum := range summaries {
		period := fmt.Sprintf("%d", sum.Year)
		if sum.Month != 0 {
			period = fmt.Sprintf("%d-%02d", sum.Year, sum.Month)
		}
		result = append(result, ObligationSummary{
			TaxType:  sum.TaxType,
			Period:   period,
			Pending:  sum.Pending.StringFixed(2),
			Status:   sum.Status,
			Deadline: sum.Deadline.Format(time.RFC3339),
			Stale:    sum.Stale,
		})
	}

	return result, nil
}
