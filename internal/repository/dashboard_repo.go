package repository

import (
	"context"
	"fmt"

	"backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ActivityDataRow is one period bucket of the entity's taxable activity.
type ActivityDataRow struct {
	Period     string  `gorm:"column:period"`
	Revenue    float64 `gorm:"column:revenue"`
	OutputVAT  float64 `gorm:"column:output_vat"`
	Expenses   float64 `gorm:"column:expenses"`
	Deductible float64 `gorm:"column:deductible"`
	InputVAT   float64 `gorm:"column:input_vat"`
}

type DashboardRepository interface {
	// GetActivitySeries buckets recognized revenue and expenses by
	// DATE_TRUNC group (week, month, quarter, year) over a date range.
	GetActivitySeries(ctx context.Context, entityID uuid.UUID, groupBy, startDate, endDate string) ([]ActivityDataRow, error)
}

type dashboardRepository struct {
	db *gorm.DB
}

func NewDashboardRepository(db *gorm.DB) DashboardRepository {
	return &dashboardRepository{db: db}
}

func (r *dashboardRepository) GetActivitySeries(ctx context.Context, entityID uuid.UUID, groupBy, startDate, endDate string) ([]ActivityDataRow, error) {
	query := `
		SELECT period,
		       COALESCE(SUM(revenue), 0)    AS revenue,
		       COALESCE(SUM(output_vat), 0) AS output_vat,
		       COALESCE(SUM(expenses), 0)   AS expenses,
		       COALESCE(SUM(deductible), 0) AS deductible,
		       COALESCE(SUM(input_vat), 0)  AS input_vat
		FROM (
			SELECT TO_CHAR(DATE_TRUNC($2, i.issued_at), 'YYYY-MM-DD') AS period,
			       i.subtotal AS revenue,
			       CASE WHEN NOT i.vat_exempt THEN i.vat_amount ELSE 0 END AS output_vat,
			       0::numeric AS expenses, 0::numeric AS deductible, 0::numeric AS input_vat
			FROM invoices i
			WHERE i.entity_id = $1 AND i.status = $5
			  AND i.issued_at >= $3::timestamptz AND i.issued_at <= $4::timestamptz
			UNION ALL
			SELECT TO_CHAR(DATE_TRUNC($2, e.date), 'YYYY-MM-DD') AS period,
			       0::numeric, 0::numeric,
			       e.amount,
			       CASE WHEN e.is_deductible THEN e.amount ELSE 0 END,
			       CASE WHEN e.is_deductible THEN e.input_vat ELSE 0 END
			FROM expenses e
			WHERE e.entity_id = $1
			  AND e.date >= $3::timestamptz AND e.date <= $4::timestamptz
		) buckets
		GROUP BY period
		ORDER BY period
	`

	var rows []ActivityDataRow
	if err := r.db.WithContext(ctx).Raw(query,
		entityID, groupBy, startDate, endDate, model.InvoicePaid,
	).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to query activity series: %w", err)
	}

	return rows, nil
}
