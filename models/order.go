package models

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"bitbucket.org/cloudkitchenhq/orders_backend/config"
	"bitbucket.org/cloudkitchenhq/orders_backend/sheetdb"
	"bitbucket.org/cloudkitchenhq/orders_backend/utils"
)

// Order is one sales transaction. The invoice number is the preferred
// unique key; order_id can legitimately repeat across brands.
type Order struct {
	Row                     int             `json:"-"`
	OrderId                 string          `json:"order_id"`
	InvoiceNo               string          `json:"invoice_no"`
	Brand                   string          `json:"brand"`
	Franchisee              string          `json:"franchisee"`
	OrderDate               *time.Time      `json:"order_date"`
	OrderStage              string          `json:"order_stage"`
	OrderTotal              decimal.Decimal `json:"order_total"`
	TotalCOGS               decimal.Decimal `json:"total_cogs"`
	GrossProfit             decimal.Decimal `json:"gross_profit"`
	GrossMargin             decimal.Decimal `json:"gross_margin"`
	SupplierOrdered         bool            `json:"supplier_ordered"`
	SupplierShipped         bool            `json:"supplier_shipped"`
	DeliveredToPartner      bool            `json:"delivered_to_partner"`
	PartnerPaid             bool            `json:"partner_paid"`
	FundsCleared            bool            `json:"funds_cleared"`
	PartnerPaymentDate      *time.Time      `json:"partner_payment_date"`
	PartnerPaymentReference string          `json:"partner_payment_reference"`
}

// UpdateOrderStatusFields is the only set of Orders columns the status
// endpoint may touch. Anything else in the payload is skipped with a
// warning, never written.
var UpdateOrderStatusFields = []string{
	"order_stage", "supplier_ordered", "supplier_shipped", "delivered_to_partner",
}

// UpdatePartnerPaymentFields is the allow-list for the partner payment
// endpoint.
var UpdatePartnerPaymentFields = []string{
	"partner_paid", "funds_cleared", "partner_payment_date", "partner_payment_reference",
}

func orderFromRecord(rec sheetdb.Record) *Order {
	o := &Order{
		Row:                     rec.Row,
		OrderId:                 rec.String("order_id"),
		InvoiceNo:               rec.String("invoice_no"),
		Brand:                   rec.String("brand"),
		Franchisee:              rec.String("franchisee"),
		OrderDate:               rec.Date("order_date"),
		OrderStage:              rec.String("order_stage"),
		OrderTotal:              rec.Decimal("order_total"),
		TotalCOGS:               rec.Decimal("total_cogs"),
		GrossProfit:             rec.Decimal("gross_profit"),
		GrossMargin:             rec.Decimal("gross_margin"),
		SupplierOrdered:         rec.Bool("supplier_ordered"),
		SupplierShipped:         rec.Bool("supplier_shipped"),
		DeliveredToPartner:      rec.Bool("delivered_to_partner"),
		PartnerPaid:             rec.Bool("partner_paid"),
		FundsCleared:            rec.Bool("funds_cleared"),
		PartnerPaymentDate:      rec.Date("partner_payment_date"),
		PartnerPaymentReference: rec.String("partner_payment_reference"),
	}

	// Profit columns are usually formulas in the sheet; derive them when the
	// cells came back blank so read models stay complete.
	if o.GrossProfit.IsZero() && !o.OrderTotal.IsZero() {
		o.GrossProfit = o.OrderTotal.Sub(o.TotalCOGS)
	}
	if o.GrossMargin.IsZero() && o.OrderTotal.IsPositive() {
		o.GrossMargin = o.GrossProfit.Div(o.OrderTotal).Round(4)
	}
	return o
}

func (s *Store) ListOrders(ctx context.Context) ([]*Order, error) {
	data, err := s.sheets.ReadSheet(ctx, OrdersSchema.Name)
	if err != nil {
		return nil, err
	}
	records := OrdersSchema.MapRows(data, s.logger)
	orders := make([]*Order, 0, len(records))
	for _, rec := range records {
		orders = append(orders, orderFromRecord(rec))
	}
	return orders, nil
}

// GetOrderByInvoiceNo looks an order up by its normalized invoice number.
// Returns utils.ErrorRecordNotFound when no row matches, including when the
// Orders tab itself was unavailable.
func (s *Store) GetOrderByInvoiceNo(ctx context.Context, invoiceNo string) (*Order, error) {
	orders, err := s.ListOrders(ctx)
	if err != nil {
		return nil, err
	}
	want := NormalizeID(invoiceNo)
	if want == "" {
		return nil, utils.ErrorRecordNotFound
	}
	for _, o := range orders {
		if NormalizeID(o.InvoiceNo) == want {
			return o, nil
		}
	}
	return nil, utils.ErrorRecordNotFound
}

// NewOrder is the creation payload: one order plus its lines, written
// together.
type NewOrder struct {
	OrderId    string           `json:"order_id" validate:"required"`
	InvoiceNo  string           `json:"invoice_no" validate:"required"`
	Brand      string           `json:"brand" validate:"required"`
	Franchisee string           `json:"franchisee"`
	OrderDate  *time.Time       `json:"order_date"`
	OrderStage string           `json:"order_stage"`
	OrderTotal decimal.Decimal  `json:"order_total"`
	TotalCOGS  *decimal.Decimal `json:"total_cogs"`
	Lines      []NewOrderLine   `json:"lines" validate:"required,min=1,dive"`
}

type NewOrderLine struct {
	Sku         string           `json:"sku" validate:"required"`
	ProductName string           `json:"product_name"`
	Quantity    decimal.Decimal  `json:"quantity" validate:"required"`
	UnitPrice   decimal.Decimal  `json:"unit_price"`
	Supplier    string           `json:"supplier"`
	CogsPerUnit decimal.Decimal  `json:"cogs_per_unit"`
	CogsTotal   *decimal.Decimal `json:"cogs_total"`
}

// CreateOrder appends the order row and its line rows through the
// formula-preserving writer. Only raw-input columns are written; the
// sheet's own computed columns (line totals, profit) fill themselves in.
func (s *Store) CreateOrder(ctx context.Context, input NewOrder) error {
	totalCOGS := decimal.Zero
	for _, line := range input.Lines {
		totalCOGS = totalCOGS.Add(utils.DereferencePtr(line.CogsTotal, line.CogsPerUnit.Mul(line.Quantity)))
	}
	// An explicit order-level figure overrides the line sum.
	totalCOGS = utils.DereferencePtr(input.TotalCOGS, totalCOGS)

	stage := input.OrderStage
	if stage == "" {
		stage = "Submitted"
	}

	orderRow := map[string]any{
		"order_id":             input.OrderId,
		"invoice_no":           input.InvoiceNo,
		"brand":                input.Brand,
		"franchisee":           input.Franchisee,
		"order_date":           input.OrderDate,
		"order_stage":          stage,
		"order_total":          input.OrderTotal,
		"total_cogs":           totalCOGS,
		"supplier_ordered":     false,
		"supplier_shipped":     false,
		"delivered_to_partner": false,
		"partner_paid":         false,
		"funds_cleared":        false,
	}
	if err := s.sheets.AppendRows(ctx, OrdersSchema, []map[string]any{orderRow}); err != nil {
		return err
	}

	lineRows := make([]map[string]any, 0, len(input.Lines))
	for _, line := range input.Lines {
		lineRows = append(lineRows, map[string]any{
			"order_id":      input.OrderId,
			"invoice_no":    input.InvoiceNo,
			"brand":         input.Brand,
			"sku":           line.Sku,
			"product_name":  line.ProductName,
			"quantity":      line.Quantity,
			"unit_price":    line.UnitPrice,
			"supplier":      line.Supplier,
			"cogs_per_unit": line.CogsPerUnit,
		})
	}
	return s.sheets.AppendRows(ctx, OrderLinesSchema, lineRows)
}

// UpdateOrderStatus writes a partial set of lifecycle fields on the first
// order row matching the normalized order id.
func (s *Store) UpdateOrderStatus(ctx context.Context, orderId string, fields map[string]any) error {
	order, err := s.findOrderByOrderId(ctx, orderId)
	if err != nil {
		return err
	}
	return s.sheets.UpdateRow(ctx, OrdersSchema, order.Row, fields, UpdateOrderStatusFields)
}

// UpdatePartnerPayment writes partner payment facts on the order row keyed
// by sales invoice number.
func (s *Store) UpdatePartnerPayment(ctx context.Context, salesInvoiceNo string, fields map[string]any) error {
	order, err := s.GetOrderByInvoiceNo(ctx, salesInvoiceNo)
	if err != nil {
		return err
	}
	return s.sheets.UpdateRow(ctx, OrdersSchema, order.Row, fields, UpdatePartnerPaymentFields)
}

// DeleteOrder removes every order row matching the normalized order id and
// cascades to the lines joined to those orders. Rows are deleted highest
// first inside the writer.
func (s *Store) DeleteOrder(ctx context.Context, orderId string) error {
	orders, err := s.ListOrders(ctx)
	if err != nil {
		return err
	}
	want := NormalizeID(orderId)
	var doomed []*Order
	var orderRows []int
	for _, o := range orders {
		if NormalizeID(o.OrderId) == want {
			doomed = append(doomed, o)
			orderRows = append(orderRows, o.Row)
		}
	}
	if len(doomed) == 0 {
		return utils.ErrorRecordNotFound
	}

	lines, err := s.ListAllOrderLines(ctx)
	if err != nil {
		return err
	}
	matcher := NewLineMatcher(orders)
	var lineRows []int
	for _, line := range lines {
		for _, o := range doomed {
			if matcher.Matches(o, line) {
				lineRows = append(lineRows, line.Row)
				break
			}
		}
	}

	if len(lineRows) > 0 {
		if err := s.sheets.DeleteRows(ctx, OrderLinesSchema.Name, lineRows); err != nil {
			return err
		}
	}
	if err := s.sheets.DeleteRows(ctx, OrdersSchema.Name, orderRows); err != nil {
		config.LogError(s.logger, "models/order.go", "DeleteOrder", "orders delete after lines removed", orderId, err)
		return err
	}
	return nil
}

func (s *Store) findOrderByOrderId(ctx context.Context, orderId string) (*Order, error) {
	orders, err := s.ListOrders(ctx)
	if err != nil {
		return nil, err
	}
	want := NormalizeID(orderId)
	if want == "" {
		return nil, utils.ErrorRecordNotFound
	}
	for _, o := range orders {
		if NormalizeID(o.OrderId) == want {
			return o, nil
		}
	}
	return nil, utils.ErrorRecordNotFound
}
