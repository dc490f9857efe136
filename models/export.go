package models

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// ExportPaymentTracker renders the tracker view as an xlsx workbook for
// offline reconciliation.
func (s *Store) ExportPaymentTracker(ctx context.Context) (*excelize.File, error) {
	rows, err := s.ListPaymentTrackerRows(ctx)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	const sheet = "Payment Tracker"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, err
	}

	headers := []string{
		"Sales Invoice", "Order ID", "Brand", "Franchisee", "Site Code",
		"Order Date", "Order Total", "Total COGS",
		"Partner Paid", "Funds Cleared",
		"Supplier Invoices", "Supplier Paid", "Unpaid Supplier Amount",
		"Settlement Status",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	for i, row := range rows {
		n := i + 2
		f.SetCellValue(sheet, "A"+fmt.Sprint(n), row.SalesInvoiceNo)
		f.SetCellValue(sheet, "B"+fmt.Sprint(n), row.OrderId)
		f.SetCellValue(sheet, "C"+fmt.Sprint(n), row.Brand)
		f.SetCellValue(sheet, "D"+fmt.Sprint(n), row.Franchisee)
		f.SetCellValue(sheet, "E"+fmt.Sprint(n), row.FranchiseCode)
		if row.OrderDate != nil {
			f.SetCellValue(sheet, "F"+fmt.Sprint(n), row.OrderDate.Format("2006-01-02"))
		}
		f.SetCellValue(sheet, "G"+fmt.Sprint(n), row.OrderTotal.InexactFloat64())
		f.SetCellValue(sheet, "H"+fmt.Sprint(n), row.TotalCOGS.InexactFloat64())
		f.SetCellValue(sheet, "I"+fmt.Sprint(n), row.PartnerPaid)
		f.SetCellValue(sheet, "J"+fmt.Sprint(n), row.FundsCleared)
		f.SetCellValue(sheet, "K"+fmt.Sprint(n), row.SupplierInvoices)
		f.SetCellValue(sheet, "L"+fmt.Sprint(n), row.SupplierPaid)
		f.SetCellValue(sheet, "M"+fmt.Sprint(n), row.SupplierUnpaidSum.InexactFloat64())
		f.SetCellValue(sheet, "N"+fmt.Sprint(n), string(row.SettlementStatus))
	}

	return f, nil
}
