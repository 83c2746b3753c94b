package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/medstock/inventory-tracker/internal/core/domain"
	"github.com/medstock/inventory-tracker/internal/core/ports"
)

func TestXLSXExporter_Export(t *testing.T) {
	expiry := time.Date(2027, 5, 1, 0, 0, 0, 0, time.UTC)
	data := ports.ReportData{
		Summary: ports.ReportSummary{
			TotalItems:          2,
			TotalQuantity:       70,
			LowStockThreshold:   25,
			ExpiryWindowDays:    30,
			ByCategory:          []ports.CategoryTotal{{Category: "Antibiotics", Quantity: 70}},
			ByExpiry:            []ports.ExpiryBucket{{Label: "No Expiry", Quantity: 70}},
			AllocationsByStatus: map[domain.AllocationStatus]int{domain.StatusPending: 1},
		},
		StockItems: []*domain.StockItem{
			{ID: "s1", Name: "Amoxicillin", UniqueNumber: "AMX-1", Category: "Antibiotics", Quantity: 50, ExpiryDate: &expiry},
			{ID: "s2", Name: "Cefalexin", UniqueNumber: "CFX-1", Quantity: 20},
		},
		Allocations: []*domain.Allocation{
			{ID: "a1", StockItemID: "s1", UserID: "u1", Quantity: 30, Status: domain.StatusPending},
		},
		Movements: []*domain.Movement{
			{ID: "m1", StockItemID: "s1", Type: domain.MovementAllocate, Quantity: 30, ToUserID: "u1"},
		},
	}

	x := NewXLSXExporter()
	out, err := x.Export(data)
	require.NoError(t, err)
	require.NotEmpty(t, out)
	assert.Equal(t, "xlsx", x.FileExtension())

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	assert.Equal(t, []string{SheetSummary, SheetStock, SheetAllocations, SheetMovements}, f.GetSheetList())

	stock, err := f.GetRows(SheetStock)
	require.NoError(t, err)
	require.Len(t, stock, 3)
	assert.Equal(t, "Unique number", stock[0][2])
	assert.Equal(t, "AMX-1", stock[1][2])
	assert.Equal(t, "2027-05-01", stock[1][5])
	assert.Equal(t, "Uncategorized", stock[2][3])

	allocs, err := f.GetRows(SheetAllocations)
	require.NoError(t, err)
	require.Len(t, allocs, 2)
	assert.Equal(t, "pending", allocs[1][4])

	summary, err := f.GetRows(SheetSummary)
	require.NoError(t, err)
	assert.Equal(t, "Total quantity", summary[2][0])
	assert.Equal(t, "70", summary[2][1])
}

func TestXLSXExporter_EmptySnapshot(t *testing.T) {
	out, err := NewXLSXExporter().Export(ports.ReportData{})
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows(SheetMovements)
	require.NoError(t, err)
	assert.Len(t, rows, 1, "header only")
}
