package models

import (
	"context"

	"github.com/shopspring/decimal"

	"bitbucket.org/cloudkitchenhq/orders_backend/sheetdb"
)

// OrderLine is one SKU within an order, owned by it and created with it.
type OrderLine struct {
	Row         int             `json:"-"`
	OrderId     string          `json:"order_id"`
	InvoiceNo   string          `json:"invoice_no"`
	Brand       string          `json:"brand"`
	Sku         string          `json:"sku"`
	ProductName string          `json:"product_name"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	LineTotal   decimal.Decimal `json:"line_total"`
	Supplier    string          `json:"supplier"`
	CogsPerUnit decimal.Decimal `json:"cogs_per_unit"`
	CogsTotal   decimal.Decimal `json:"cogs_total"`
}

func orderLineFromRecord(rec sheetdb.Record) *OrderLine {
	l := &OrderLine{
		Row:         rec.Row,
		OrderId:     rec.String("order_id"),
		InvoiceNo:   rec.String("invoice_no"),
		Brand:       rec.String("brand"),
		Sku:         rec.String("sku"),
		ProductName: rec.String("product_name"),
		Quantity:    rec.Decimal("quantity"),
		UnitPrice:   rec.Decimal("unit_price"),
		LineTotal:   rec.Decimal("line_total"),
		Supplier:    rec.String("supplier"),
		CogsPerUnit: rec.Decimal("cogs_per_unit"),
		CogsTotal:   rec.Decimal("cogs_total"),
	}
	if l.LineTotal.IsZero() {
		l.LineTotal = l.UnitPrice.Mul(l.Quantity)
	}
	if l.CogsTotal.IsZero() {
		l.CogsTotal = l.CogsPerUnit.Mul(l.Quantity)
	}
	return l
}

func (s *Store) ListAllOrderLines(ctx context.Context) ([]*OrderLine, error) {
	data, err := s.sheets.ReadSheet(ctx, OrderLinesSchema.Name)
	if err != nil {
		return nil, err
	}
	records := OrderLinesSchema.MapRows(data, s.logger)
	lines := make([]*OrderLine, 0, len(records))
	for _, rec := range records {
		lines = append(lines, orderLineFromRecord(rec))
	}
	return lines, nil
}

// ListOrderLines returns the lines joined to one order. invoiceNo and brand
// are optional; when present they sharpen the match the same way the
// matcher uses them (invoice number decisive, brand disambiguating
// duplicate order ids).
func (s *Store) ListOrderLines(ctx context.Context, orderId, invoiceNo, brand string) ([]*OrderLine, error) {
	orders, err := s.ListOrders(ctx)
	if err != nil {
		return nil, err
	}

	target := &Order{OrderId: orderId, InvoiceNo: invoiceNo, Brand: brand}
	for _, o := range orders {
		if invoiceNo != "" && NormalizeID(o.InvoiceNo) == NormalizeID(invoiceNo) {
			target = o
			break
		}
		if invoiceNo == "" && NormalizeID(o.OrderId) == NormalizeID(orderId) {
			if brand == "" || equalFoldTrim(o.Brand, brand) {
				target = o
				break
			}
		}
	}

	lines, err := s.ListAllOrderLines(ctx)
	if err != nil {
		return nil, err
	}

	matcher := NewLineMatcher(orders)
	var matched []*OrderLine
	for _, line := range lines {
		if matcher.Matches(target, line) {
			matched = append(matched, line)
		}
	}
	return matched, nil
}
