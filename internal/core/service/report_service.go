package service

import (
	"cmp"
	"context"
	"slices"
	"time"

	"github.com/rs/zerolog"

	"github.com/medstock/inventory-tracker/internal/core/domain"
	"github.com/medstock/inventory-tracker/internal/core/ports"
)

const (
	DefaultLowStockThreshold = 25
	DefaultExpiryWindowDays  = 30
)

// expiryBuckets partitions days-until-expiry for items not yet expired; an
// item lands in the first bucket whose upper bound it is below.
var expiryBuckets = []struct {
	label string
	below int
}{
	{"< 30 days", 30},
	{"30-90 days", 90},
	{"90-180 days", 180},
}

const (
	labelExpired   = "Expired"
	labelFarExpiry = "> 180 days"
	labelNoExpiry  = "No Expiry"
)

// ReportOptions tunes the thresholds used by the summary.
type ReportOptions struct {
	LowStockThreshold int
	ExpiryWindowDays  int
}

// ReportService builds aggregate views and downloadable exports.
type ReportService struct {
	repos    ports.Repositories
	exporter ports.ReportExporter
	opts     ReportOptions
	logger   zerolog.Logger
}

func NewReportService(repos ports.Repositories, exporter ports.ReportExporter, opts ReportOptions, logger zerolog.Logger) *ReportService {
	if opts.LowStockThreshold < 0 {
		opts.LowStockThreshold = DefaultLowStockThreshold
	}
	if opts.ExpiryWindowDays <= 0 {
		opts.ExpiryWindowDays = DefaultExpiryWindowDays
	}
	return &ReportService{repos: repos, exporter: exporter, opts: opts, logger: logger}
}

func (s *ReportService) Summary(ctx context.Context) (*ports.ReportSummary, error) {
	data, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return &data.Summary, nil
}

// Export renders the full report snapshot with the configured exporter.
func (s *ReportService) Export(ctx context.Context) ([]byte, error) {
	data, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	out, err := s.exporter.Export(*data)
	if err != nil {
		s.logger.Error().Err(err).Msg("report export failed")
		return nil, err
	}
	s.logger.Info().
		Int("stock_items", len(data.StockItems)).
		Int("allocations", len(data.Allocations)).
		Int("movements", len(data.Movements)).
		Msg("report exported")
	return out, nil
}

func (s *ReportService) snapshot(ctx context.Context) (*ports.ReportData, error) {
	items, err := s.repos.Stock.List(ctx, ports.StockFilter{})
	if err != nil {
		return nil, err
	}
	allocs, err := s.repos.Allocations.List(ctx, ports.AllocationFilter{})
	if err != nil {
		return nil, err
	}
	movements, err := s.repos.Movements.List(ctx, "")
	if err != nil {
		return nil, err
	}

	return &ports.ReportData{
		Summary:     summarize(time.Now().UTC(), s.opts, items, allocs, movements),
		StockItems:  items,
		Allocations: allocs,
		Movements:   movements,
	}, nil
}

func summarize(now time.Time, opts ReportOptions, items []*domain.StockItem, allocs []*domain.Allocation, movements []*domain.Movement) ports.ReportSummary {
	sum := ports.ReportSummary{
		GeneratedAt:         now,
		TotalItems:          len(items),
		LowStockThreshold:   opts.LowStockThreshold,
		ExpiryWindowDays:    opts.ExpiryWindowDays,
		AllocationsByStatus: map[domain.AllocationStatus]int{},
		MovementsByType:     map[domain.MovementType]int{},
	}

	byCategory := map[string]int{}
	byExpiry := make([]ports.ExpiryBucket, 0, len(expiryBuckets)+3)
	byExpiry = append(byExpiry, ports.ExpiryBucket{Label: labelExpired})
	for _, b := range expiryBuckets {
		byExpiry = append(byExpiry, ports.ExpiryBucket{Label: b.label})
	}
	byExpiry = append(byExpiry, ports.ExpiryBucket{Label: labelFarExpiry}, ports.ExpiryBucket{Label: labelNoExpiry})

	for _, it := range items {
		sum.TotalQuantity += it.Quantity
		byCategory[it.CategoryOrDefault()] += it.Quantity
		if it.IsLowStock(opts.LowStockThreshold) {
			sum.LowStockItems++
		}
		if it.ExpiresWithin(now, opts.ExpiryWindowDays) {
			sum.ExpiringItems++
		}
		byExpiry[expiryBucketIndex(now, it)].Quantity += it.Quantity
	}

	sum.ByCategory = make([]ports.CategoryTotal, 0, len(byCategory))
	for cat, qty := range byCategory {
		sum.ByCategory = append(sum.ByCategory, ports.CategoryTotal{Category: cat, Quantity: qty})
	}
	slices.SortFunc(sum.ByCategory, func(a, b ports.CategoryTotal) int {
		return cmp.Compare(a.Category, b.Category)
	})
	sum.ByExpiry = byExpiry

	for _, a := range allocs {
		sum.AllocationsByStatus[a.Status]++
	}
	for _, m := range movements {
		sum.MovementsByType[m.Type]++
	}
	return sum
}

// expiryBucketIndex indexes the slice built by summarize: Expired first,
// then expiryBuckets, then far expiry, then no expiry.
func expiryBucketIndex(now time.Time, it *domain.StockItem) int {
	if it.ExpiryDate == nil {
		return len(expiryBuckets) + 2
	}
	if it.ExpiryDate.Before(now) {
		return 0
	}
	days := int(it.ExpiryDate.Sub(now).Hours() / 24)
	for i, b := range expiryBuckets {
		if days < b.below {
			return i + 1
		}
	}
	return len(expiryBuckets) + 1
}
