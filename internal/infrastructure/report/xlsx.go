// Package report renders inventory report snapshots into spreadsheet files.
package report

import (
	"bytes"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/medstock/inventory-tracker/internal/core/domain"
	"github.com/medstock/inventory-tracker/internal/core/ports"
)

const (
	SheetSummary     = "Summary"
	SheetStock       = "Stock"
	SheetAllocations = "Allocations"
	SheetMovements   = "Movements"
)

var _ ports.ReportExporter = (*XLSXExporter)(nil)

// XLSXExporter writes one workbook with a summary sheet followed by the raw
// stock, allocation and movement tables.
type XLSXExporter struct{}

func NewXLSXExporter() *XLSXExporter { return &XLSXExporter{} }

func (*XLSXExporter) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

func (*XLSXExporter) FileExtension() string { return "xlsx" }

func (x *XLSXExporter) Export(data ports.ReportData) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(f.GetActiveSheetIndex()), SheetSummary); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	for _, name := range []string{SheetStock, SheetAllocations, SheetMovements} {
		if _, err := f.NewSheet(name); err != nil {
			return nil, fmt.Errorf("create sheet %s: %w", name, err)
		}
	}

	if err := writeRows(f, SheetSummary, summaryRows(data.Summary)); err != nil {
		return nil, err
	}
	if err := writeRows(f, SheetStock, stockRows(data.StockItems)); err != nil {
		return nil, err
	}
	if err := writeRows(f, SheetAllocations, allocationRows(data.Allocations)); err != nil {
		return nil, err
	}
	if err := writeRows(f, SheetMovements, movementRows(data.Movements)); err != nil {
		return nil, err
	}

	buf := &bytes.Buffer{}
	if err := f.Write(buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("%s row %d: %w", sheet, i+1, err)
		}
		if err := f.SetSheetRow(sheet, cell, &r); err != nil {
			return fmt.Errorf("%s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}

func summaryRows(s ports.ReportSummary) [][]any {
	rows := [][]any{
		{"Generated at", formatTime(s.GeneratedAt)},
		{"Total items", s.TotalItems},
		{"Total quantity", s.TotalQuantity},
		{fmt.Sprintf("Low stock items (<= %d)", s.LowStockThreshold), s.LowStockItems},
		{fmt.Sprintf("Expiring within %d days", s.ExpiryWindowDays), s.ExpiringItems},
		{},
		{"Category", "Quantity"},
	}
	for _, c := range s.ByCategory {
		rows = append(rows, []any{c.Category, c.Quantity})
	}
	rows = append(rows, []any{}, []any{"Expiry", "Quantity"})
	for _, b := range s.ByExpiry {
		rows = append(rows, []any{b.Label, b.Quantity})
	}
	rows = append(rows, []any{}, []any{"Allocation status", "Count"})
	for _, st := range []domain.AllocationStatus{domain.StatusPending, domain.StatusReceived, domain.StatusCancelled} {
		rows = append(rows, []any{string(st), s.AllocationsByStatus[st]})
	}
	return rows
}

func stockRows(items []*domain.StockItem) [][]any {
	rows := [][]any{{"ID", "Name", "Unique number", "Category", "Quantity", "Expiry date", "Created by", "Created at"}}
	for _, it := range items {
		expiry := ""
		if it.ExpiryDate != nil {
			expiry = it.ExpiryDate.UTC().Format(time.DateOnly)
		}
		rows = append(rows, []any{
			it.ID, it.Name, it.UniqueNumber, it.CategoryOrDefault(), it.Quantity,
			expiry, it.CreatedBy, formatTime(it.CreatedAt),
		})
	}
	return rows
}

func allocationRows(allocs []*domain.Allocation) [][]any {
	rows := [][]any{{"ID", "Stock item", "Recipient", "Quantity", "Status", "Allocated by", "Allocated at"}}
	for _, a := range allocs {
		rows = append(rows, []any{
			a.ID, a.StockItemID, a.UserID, a.Quantity, string(a.Status), a.AllocatedBy, formatTime(a.AllocatedAt),
		})
	}
	return rows
}

func movementRows(moves []*domain.Movement) [][]any {
	rows := [][]any{{"ID", "Stock item", "Type", "Quantity", "From", "To", "Performed by", "Performed at"}}
	for _, m := range moves {
		rows = append(rows, []any{
			m.ID, m.StockItemID, string(m.Type), m.Quantity, m.FromUserID, m.ToUserID, m.PerformedBy, formatTime(m.PerformedAt),
		})
	}
	return rows
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
