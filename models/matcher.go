package models

import "strings"

// Matching is layered because the source data is hand-edited: exact keys
// first, then progressively looser strategies. Each tier is a named
// function so it can be tested on its own; the first tier that applies is
// decisive.

func equalFoldTrim(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

// LineMatcher joins order lines to orders. It precomputes which normalized
// order ids appear on more than one order (same human-readable id across
// brands) so the brand guard only kicks in where it is needed.
type LineMatcher struct {
	duplicatedIds map[string]bool
}

func NewLineMatcher(orders []*Order) *LineMatcher {
	seen := make(map[string]int, len(orders))
	for _, o := range orders {
		seen[NormalizeID(o.OrderId)]++
	}
	dup := make(map[string]bool)
	for id, n := range seen {
		if id != "" && n > 1 {
			dup[id] = true
		}
	}
	return &LineMatcher{duplicatedIds: dup}
}

// Matches reports whether line belongs to order. The invoice number is
// globally unique and wins when both sides carry one; order id matching
// (exact normalized, then bare numeric core) is the fallback, guarded by
// brand when the id is ambiguous.
func (m *LineMatcher) Matches(order *Order, line *OrderLine) bool {
	if matched, decisive := matchLineByInvoiceNo(order, line); decisive {
		return matched
	}
	if matchLineByOrderId(order, line) {
		return m.brandGuard(order, line)
	}
	if matchLineByNumericCore(order, line) {
		return m.brandGuard(order, line)
	}
	return false
}

func (m *LineMatcher) brandGuard(order *Order, line *OrderLine) bool {
	if !m.duplicatedIds[NormalizeID(order.OrderId)] {
		return true
	}
	if strings.TrimSpace(line.Brand) == "" {
		return true
	}
	return equalFoldTrim(line.Brand, order.Brand)
}

// matchLineByInvoiceNo is decisive whenever both sides carry an invoice
// number: equality after normalization means match, inequality means no
// match regardless of order ids.
func matchLineByInvoiceNo(order *Order, line *OrderLine) (matched bool, decisive bool) {
	o := NormalizeID(order.InvoiceNo)
	l := NormalizeID(line.InvoiceNo)
	if o == "" || l == "" {
		return false, false
	}
	return o == l, true
}

func matchLineByOrderId(order *Order, line *OrderLine) bool {
	o := NormalizeID(order.OrderId)
	return o != "" && o == NormalizeID(line.OrderId)
}

// matchLineByNumericCore compares only the digits of both ids, which
// absorbs stray prefixes and suffixes ("WS-1005" vs "1005A").
func matchLineByNumericCore(order *Order, line *OrderLine) bool {
	o := NumericCore(order.OrderId)
	return o != "" && o == NumericCore(line.OrderId)
}

// LinkedSupplierInvoices resolves the supplier invoices covering one sales
// invoice. Two paths are unioned, never treated as alternatives: the
// allocation rows (current data) and a direct sales_invoice_no on the
// supplier invoice itself (legacy rows predating the Allocations tab).
func LinkedSupplierInvoices(salesInvoiceNo string, invoices []*SupplierInvoice, allocations []*Allocation) []*SupplierInvoice {
	want := NormalizeID(salesInvoiceNo)
	if want == "" {
		return nil
	}

	allocated := make(map[string]bool)
	for _, a := range allocations {
		if NormalizeID(a.SalesInvoiceNo) == want {
			if no := NormalizeID(a.SupplierInvoiceNo); no != "" {
				allocated[no] = true
			}
		}
	}

	var linked []*SupplierInvoice
	for _, inv := range invoices {
		if allocated[NormalizeID(inv.InvoiceNo)] {
			linked = append(linked, inv)
			continue
		}
		if NormalizeID(inv.SalesInvoiceNo) == want {
			linked = append(linked, inv)
		}
	}
	return linked
}
