package ports

import (
	"context"
	"time"

	"github.com/medstock/inventory-tracker/internal/core/domain"
)

// CategoryTotal is the summed quantity of one category.
type CategoryTotal struct {
	Category string `json:"category"`
	Quantity int    `json:"quantity"`
}

// ExpiryBucket is the summed quantity of items expiring in a day range.
type ExpiryBucket struct {
	Label    string `json:"label"`
	Quantity int    `json:"quantity"`
}

// ReportSummary is the aggregate view behind the reports dashboard.
type ReportSummary struct {
	GeneratedAt         time.Time                       `json:"generated_at"`
	TotalItems          int                             `json:"total_items"`
	TotalQuantity       int                             `json:"total_quantity"`
	LowStockThreshold   int                             `json:"low_stock_threshold"`
	LowStockItems       int                             `json:"low_stock_items"`
	ExpiryWindowDays    int                             `json:"expiry_window_days"`
	ExpiringItems       int                             `json:"expiring_items"`
	ByCategory          []CategoryTotal                 `json:"by_category"`
	ByExpiry            []ExpiryBucket                  `json:"by_expiry"`
	AllocationsByStatus map[domain.AllocationStatus]int `json:"allocations_by_status"`
	MovementsByType     map[domain.MovementType]int     `json:"movements_by_type"`
}

// ReportData is the full snapshot handed to an exporter.
type ReportData struct {
	Summary     ReportSummary
	StockItems  []*domain.StockItem
	Allocations []*domain.Allocation
	Movements   []*domain.Movement
}

// ReportExporter renders report data into a downloadable document.
type ReportExporter interface {
	Export(data ReportData) ([]byte, error)
	ContentType() string
	FileExtension() string
}

type ReportService interface {
	Summary(ctx context.Context) (*ReportSummary, error)
	Export(ctx context.Context) ([]byte, error)
}
