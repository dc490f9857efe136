package models

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"bitbucket.org/cloudkitchenhq/orders_backend/config"
	"bitbucket.org/cloudkitchenhq/orders_backend/utils"
)

// PaymentTrackerRow is the derived read model: one row per sales invoice,
// aggregating order facts with supplier invoice completeness and the
// settlement status. It is recomputed from the other tabs on every read and
// never persisted by this layer.
type PaymentTrackerRow struct {
	SalesInvoiceNo     string           `json:"sales_invoice_no"`
	OrderId            string           `json:"order_id"`
	Brand              string           `json:"brand"`
	Franchisee         string           `json:"franchisee"`
	FranchiseCode      string           `json:"franchise_code,omitempty"`
	FranchiseName      string           `json:"franchise_name,omitempty"`
	OrderDate          *time.Time       `json:"order_date"`
	OrderTotal         decimal.Decimal  `json:"order_total"`
	TotalCOGS          decimal.Decimal  `json:"total_cogs"`
	PartnerPaid        bool             `json:"partner_paid"`
	FundsCleared       bool             `json:"funds_cleared"`
	SupplierInvoices   int              `json:"supplier_invoice_count"`
	SupplierPaid       int              `json:"supplier_invoices_paid"`
	SupplierInvoiceNos []string         `json:"supplier_invoice_nos,omitempty"`
	SupplierUnpaidSum  decimal.Decimal  `json:"supplier_unpaid_amount"`
	SettlementStatus   SettlementStatus `json:"settlement_status"`
}

// ListPaymentTrackerRows builds the tracker view. Orders plus the supplier
// invoice/allocation tabs are required: a failed supplier lookup must not
// let a row pretend its links were verified, so those errors propagate.
// Franchise enrichment is secondary; when it fails the base rows still go
// out and the failure is only logged.
func (s *Store) ListPaymentTrackerRows(ctx context.Context) ([]*PaymentTrackerRow, error) {
	orders, err := s.ListOrders(ctx)
	if err != nil {
		return nil, err
	}
	invoices, err := s.ListAllSupplierInvoices(ctx)
	if err != nil {
		return nil, err
	}
	allocations, err := s.ListAllocations(ctx)
	if err != nil {
		return nil, err
	}

	franchises, err := s.ListFranchises(ctx)
	if err != nil {
		config.LogError(s.logger, "models/paymentTracker.go", "ListPaymentTrackerRows",
			"franchise enrichment skipped", nil, err)
		franchises = nil
	}

	rows := make([]*PaymentTrackerRow, 0, len(orders))
	for _, o := range orders {
		linked := LinkedSupplierInvoices(o.InvoiceNo, invoices, allocations)

		row := &PaymentTrackerRow{
			SalesInvoiceNo:    o.InvoiceNo,
			OrderId:           o.OrderId,
			Brand:             o.Brand,
			Franchisee:        o.Franchisee,
			OrderDate:         o.OrderDate,
			OrderTotal:        o.OrderTotal,
			TotalCOGS:         o.TotalCOGS,
			PartnerPaid:       o.PartnerPaid,
			FundsCleared:      o.FundsCleared,
			SupplierInvoices:  len(linked),
			SupplierUnpaidSum: decimal.Zero,
			SettlementStatus:  DeriveSettlementStatus(o.PartnerPaid, o.FundsCleared, linked),
		}
		for _, inv := range linked {
			row.SupplierInvoiceNos = append(row.SupplierInvoiceNos, inv.InvoiceNo)
			if inv.Paid {
				row.SupplierPaid++
			} else {
				row.SupplierUnpaidSum = row.SupplierUnpaidSum.Add(inv.Amount)
			}
		}
		// Several sheet rows can carry the same supplier invoice number
		// (one row per line of the same invoice); list the number once.
		row.SupplierInvoiceNos = utils.UniqueSlice(row.SupplierInvoiceNos)

		if len(franchises) > 0 {
			if fr, _ := MatchFranchise(o, franchises); fr != nil {
				row.FranchiseCode = fr.Code
				row.FranchiseName = fr.Name
			}
		}

		rows = append(rows, row)
	}
	return rows, nil
}
