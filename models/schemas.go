package models

import "bitbucket.org/cloudkitchenhq/orders_backend/sheetdb"

// Static per-sheet schemas. The header variants collect every spelling that
// has actually appeared in the operator-maintained tabs; matching still
// runs through the three-tier fallback, so near-misses resolve too.

var OrdersSchema = sheetdb.SheetSchema{
	Name: "Orders",
	HeaderMap: map[string]string{
		"Order ID":              "order_id",
		"Invoice No":            "invoice_no",
		"Invoice Number":        "invoice_no",
		"Brand":                 "brand",
		"Franchisee":            "franchisee",
		"Franchise Partner":     "franchisee",
		"Order Date":            "order_date",
		"Order Stage":           "order_stage",
		"Stage":                 "order_stage",
		"Order Total":           "order_total",
		"Total (inc VAT)":       "order_total",
		"Total COGS":            "total_cogs",
		"Gross Profit":          "gross_profit",
		"Gross Margin":          "gross_margin",
		"GP%":                   "gross_margin",
		"Supplier Ordered?":     "supplier_ordered",
		"Ordered with Supplier": "supplier_ordered",
		"Supplier Shipped?":     "supplier_shipped",
		"Delivered to Partner?": "delivered_to_partner",
		"Partner Paid?":         "partner_paid",
		"Funds Cleared?":        "funds_cleared",
		"Payment Date":          "partner_payment_date",
		"Payment Reference":     "partner_payment_reference",
	},
	IdentifierKeys: []string{"order_id", "invoice_no"},
	RawColumns: []string{
		"order_id", "invoice_no", "brand", "franchisee", "order_date",
		"order_stage", "order_total", "total_cogs",
		"supplier_ordered", "supplier_shipped", "delivered_to_partner",
		"partner_paid", "funds_cleared",
		"partner_payment_date", "partner_payment_reference",
	},
	// gross_profit and gross_margin are formula columns.
}

var OrderLinesSchema = sheetdb.SheetSchema{
	Name: "Order Lines",
	HeaderMap: map[string]string{
		"Order ID":      "order_id",
		"Invoice No":    "invoice_no",
		"Brand":         "brand",
		"SKU":           "sku",
		"Product":       "product_name",
		"Product Name":  "product_name",
		"Qty":           "quantity",
		"Quantity":      "quantity",
		"Unit Price":    "unit_price",
		"Line Total":    "line_total",
		"Supplier":      "supplier",
		"COGS per Unit": "cogs_per_unit",
		"Unit Cost":     "cogs_per_unit",
		"COGS Total":    "cogs_total",
	},
	IdentifierKeys: []string{"order_id", "invoice_no", "sku"},
	RawColumns: []string{
		"order_id", "invoice_no", "brand", "sku", "product_name",
		"quantity", "unit_price", "supplier", "cogs_per_unit",
	},
	// line_total and cogs_total are formula columns.
}

var SupplierInvoicesSchema = sheetdb.SheetSchema{
	Name: "Supplier Invoices",
	HeaderMap: map[string]string{
		"Invoice No":        "invoice_no",
		"Supplier Invoice":  "invoice_no",
		"Sales Invoice No":  "sales_invoice_no",
		"Sales Invoice":     "sales_invoice_no",
		"Supplier":          "supplier",
		"Amount":            "amount",
		"Paid?":             "paid",
		"Paid Date":         "paid_date",
		"Payment Reference": "payment_reference",
		"Invoice File":      "invoice_file_link",
		"Invoice Link":      "invoice_file_link",
	},
	IdentifierKeys: []string{"invoice_no", "sales_invoice_no"},
	RawColumns: []string{
		"invoice_no", "sales_invoice_no", "supplier", "amount",
		"paid", "paid_date", "payment_reference", "invoice_file_link",
	},
}

var AllocationsSchema = sheetdb.SheetSchema{
	Name: "Allocations",
	HeaderMap: map[string]string{
		"Sales Invoice No":    "sales_invoice_no",
		"Supplier Invoice No": "supplier_invoice_no",
		"Allocated Amount":    "allocated_amount",
		"Allocation":          "allocated_amount",
	},
	IdentifierKeys: []string{"sales_invoice_no", "supplier_invoice_no"},
	RawColumns:     []string{"sales_invoice_no", "supplier_invoice_no", "allocated_amount"},
}

var SuppliersSchema = sheetdb.SheetSchema{
	Name: "Suppliers",
	HeaderMap: map[string]string{
		"Supplier":     "name",
		"Name":         "name",
		"Contact":      "contact_name",
		"Contact Name": "contact_name",
		"Phone":        "phone",
		"Email":        "email",
		"Notes":        "notes",
	},
	IdentifierKeys: []string{"phone"},
	RawColumns:     []string{"name", "contact_name", "phone", "email", "notes"},
}

var FranchisesSchema = sheetdb.SheetSchema{
	Name: "Franchises",
	HeaderMap: map[string]string{
		"Code":           "code",
		"Franchise Code": "code",
		"Name":           "name",
		"Franchisee":     "name",
		"Contact":        "contact_name",
		"Phone":          "phone",
		"Active?":        "active",
	},
	IdentifierKeys: []string{"code", "phone"},
	RawColumns:     []string{"code", "name", "contact_name", "phone", "active"},
}
