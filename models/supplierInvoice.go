package models

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"bitbucket.org/cloudkitchenhq/orders_backend/sheetdb"
	"bitbucket.org/cloudkitchenhq/orders_backend/utils"
)

// SupplierInvoice is a bill from a goods supplier. Its identity is the row
// position in the backing tab; there is no other stable key, so Id doubles
// as the surrogate id for updates.
type SupplierInvoice struct {
	Id               int             `json:"id"`
	InvoiceNo        string          `json:"invoice_no"`
	SalesInvoiceNo   string          `json:"sales_invoice_no"`
	Supplier         string          `json:"supplier"`
	Amount           decimal.Decimal `json:"amount"`
	Paid             bool            `json:"paid"`
	PaidDate         *time.Time      `json:"paid_date"`
	PaymentReference string          `json:"payment_reference"`
	InvoiceFileLink  string          `json:"invoice_file_link"`
}

// Allocation links a portion of a supplier invoice's amount to a specific
// sales invoice, so one sales invoice can be covered by several supplier
// invoices and vice versa.
type Allocation struct {
	Row               int             `json:"-"`
	SalesInvoiceNo    string          `json:"sales_invoice_no"`
	SupplierInvoiceNo string          `json:"supplier_invoice_no"`
	AllocatedAmount   decimal.Decimal `json:"allocated_amount"`
}

// UpdateSupplierInvoiceFields is the allow-list for supplier invoice
// updates (mark paid, re-link, attach the bill file).
var UpdateSupplierInvoiceFields = []string{
	"paid", "paid_date", "payment_reference", "sales_invoice_no", "invoice_file_link",
}

func supplierInvoiceFromRecord(rec sheetdb.Record) *SupplierInvoice {
	return &SupplierInvoice{
		Id:               rec.Row,
		InvoiceNo:        rec.String("invoice_no"),
		SalesInvoiceNo:   rec.String("sales_invoice_no"),
		Supplier:         rec.String("supplier"),
		Amount:           rec.Decimal("amount"),
		Paid:             rec.Bool("paid"),
		PaidDate:         rec.Date("paid_date"),
		PaymentReference: rec.String("payment_reference"),
		InvoiceFileLink:  rec.String("invoice_file_link"),
	}
}

func (s *Store) ListAllSupplierInvoices(ctx context.Context) ([]*SupplierInvoice, error) {
	data, err := s.sheets.ReadSheet(ctx, SupplierInvoicesSchema.Name)
	if err != nil {
		return nil, err
	}
	records := SupplierInvoicesSchema.MapRows(data, s.logger)
	invoices := make([]*SupplierInvoice, 0, len(records))
	for _, rec := range records {
		invoices = append(invoices, supplierInvoiceFromRecord(rec))
	}
	return invoices, nil
}

func (s *Store) ListAllocations(ctx context.Context) ([]*Allocation, error) {
	data, err := s.sheets.ReadSheet(ctx, AllocationsSchema.Name)
	if err != nil {
		return nil, err
	}
	records := AllocationsSchema.MapRows(data, s.logger)
	allocations := make([]*Allocation, 0, len(records))
	for _, rec := range records {
		allocations = append(allocations, &Allocation{
			Row:               rec.Row,
			SalesInvoiceNo:    rec.String("sales_invoice_no"),
			SupplierInvoiceNo: rec.String("supplier_invoice_no"),
			AllocatedAmount:   rec.Decimal("allocated_amount"),
		})
	}
	return allocations, nil
}

// ListSupplierInvoices returns every supplier invoice, or only those linked
// to the given sales invoice when salesInvoiceNo is non-empty.
func (s *Store) ListSupplierInvoices(ctx context.Context, salesInvoiceNo string) ([]*SupplierInvoice, error) {
	invoices, err := s.ListAllSupplierInvoices(ctx)
	if err != nil {
		return nil, err
	}
	if salesInvoiceNo == "" {
		return invoices, nil
	}

	allocations, err := s.ListAllocations(ctx)
	if err != nil {
		return nil, err
	}
	return LinkedSupplierInvoices(salesInvoiceNo, invoices, allocations), nil
}

// NewSupplierInvoice is one entry of a recorded supplier bill batch.
type NewSupplierInvoice struct {
	InvoiceNo       string          `json:"invoice_no" validate:"required"`
	SalesInvoiceNo  string          `json:"sales_invoice_no"`
	Supplier        string          `json:"supplier" validate:"required"`
	Amount          decimal.Decimal `json:"amount" validate:"required"`
	InvoiceFileLink string          `json:"invoice_file_link"`
}

func (s *Store) CreateSupplierInvoices(ctx context.Context, batch []NewSupplierInvoice) error {
	rows := make([]map[string]any, 0, len(batch))
	for _, inv := range batch {
		rows = append(rows, map[string]any{
			"invoice_no":        inv.InvoiceNo,
			"sales_invoice_no":  inv.SalesInvoiceNo,
			"supplier":          inv.Supplier,
			"amount":            inv.Amount,
			"paid":              false,
			"invoice_file_link": inv.InvoiceFileLink,
		})
	}
	return s.sheets.AppendRows(ctx, SupplierInvoicesSchema, rows)
}

// UpdateSupplierInvoice writes permitted fields on the row identified by
// the surrogate id.
func (s *Store) UpdateSupplierInvoice(ctx context.Context, id int, fields map[string]any) error {
	invoices, err := s.ListAllSupplierInvoices(ctx)
	if err != nil {
		return err
	}
	if id < 1 || id > len(invoices) {
		return utils.ErrorRecordNotFound
	}
	return s.sheets.UpdateRow(ctx, SupplierInvoicesSchema, id, fields, UpdateSupplierInvoiceFields)
}

func (s *Store) CreateAllocation(ctx context.Context, salesInvoiceNo, supplierInvoiceNo string, amount decimal.Decimal) error {
	row := map[string]any{
		"sales_invoice_no":    salesInvoiceNo,
		"supplier_invoice_no": supplierInvoiceNo,
		"allocated_amount":    amount,
	}
	return s.sheets.AppendRows(ctx, AllocationsSchema, []map[string]any{row})
}
