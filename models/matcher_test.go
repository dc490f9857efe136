package models

import "testing"

func TestLineMatcher_InvoiceNumberWins(t *testing.T) {
	orderA := &Order{OrderId: "1005", InvoiceNo: "1005WS", Brand: "Wing Shack"}
	orderB := &Order{OrderId: "1005", InvoiceNo: "1005ES", Brand: "Eggs N Stuff"}
	m := NewLineMatcher([]*Order{orderA, orderB})

	line := &OrderLine{OrderId: "9999", InvoiceNo: "#1005ws"}
	if !m.Matches(orderA, line) {
		t.Fatal("line with matching invoice number should join despite different order id")
	}
	if m.Matches(orderB, line) {
		t.Fatal("line with mismatching invoice number must not join, even with matching order id")
	}
}

func TestLineMatcher_DuplicateOrderIdDisambiguatedByBrand(t *testing.T) {
	orderA := &Order{OrderId: "1005", Brand: "Wing Shack"}
	orderB := &Order{OrderId: "1005", Brand: "Eggs N Stuff"}
	m := NewLineMatcher([]*Order{orderA, orderB})

	line := &OrderLine{OrderId: "##1005", Brand: "Eggs N Stuff"}
	if m.Matches(orderA, line) {
		t.Fatal("branded line joined the wrong order")
	}
	if !m.Matches(orderB, line) {
		t.Fatal("branded line failed to join the order of its own brand")
	}
}

func TestLineMatcher_UnbrandedLineMatchesWithoutGuard(t *testing.T) {
	order := &Order{OrderId: "1007", Brand: "Wing Shack"}
	m := NewLineMatcher([]*Order{order})

	line := &OrderLine{OrderId: "#1007"}
	if !m.Matches(order, line) {
		t.Fatal("unique order id should match without a brand on the line")
	}
}

func TestLineMatcher_NumericCoreFallback(t *testing.T) {
	order := &Order{OrderId: "1008"}
	m := NewLineMatcher([]*Order{order})

	line := &OrderLine{OrderId: "WS-1008"}
	if !m.Matches(order, line) {
		t.Fatal("numeric core fallback should absorb the stray prefix")
	}

	other := &OrderLine{OrderId: "WS-1009"}
	if m.Matches(order, other) {
		t.Fatal("different numeric cores must not match")
	}
}

func TestLinkedSupplierInvoices_ViaAllocations(t *testing.T) {
	invoices := []*SupplierInvoice{
		{Id: 1, InvoiceNo: "INV-99"},
		{Id: 2, InvoiceNo: "INV-100"},
	}
	allocations := []*Allocation{
		{SalesInvoiceNo: "1014ws", SupplierInvoiceNo: "inv-99 "},
	}

	linked := LinkedSupplierInvoices("#1014WS", invoices, allocations)
	if len(linked) != 1 || linked[0].Id != 1 {
		t.Fatalf("expected INV-99 linked via allocation, got %d results", len(linked))
	}
}

func TestLinkedSupplierInvoices_UnionsDirectAndAllocated(t *testing.T) {
	invoices := []*SupplierInvoice{
		{Id: 1, InvoiceNo: "INV-1"},
		{Id: 2, InvoiceNo: "INV-2", SalesInvoiceNo: "#2001"},
		{Id: 3, InvoiceNo: "INV-3", SalesInvoiceNo: "9999"},
	}
	allocations := []*Allocation{
		{SalesInvoiceNo: "2001", SupplierInvoiceNo: "INV-1"},
	}

	linked := LinkedSupplierInvoices("2001", invoices, allocations)
	if len(linked) != 2 {
		t.Fatalf("expected union of allocated and direct links, got %d", len(linked))
	}
	ids := map[int]bool{}
	for _, inv := range linked {
		ids[inv.Id] = true
	}
	if !ids[1] || !ids[2] {
		t.Fatalf("expected invoices 1 and 2, got %v", ids)
	}
}

func TestLinkedSupplierInvoices_NoDoubleCount(t *testing.T) {
	// A row can be reachable both through an allocation and its own
	// sales_invoice_no; it must appear once.
	invoices := []*SupplierInvoice{
		{Id: 1, InvoiceNo: "INV-5", SalesInvoiceNo: "3001"},
	}
	allocations := []*Allocation{
		{SalesInvoiceNo: "3001", SupplierInvoiceNo: "INV-5"},
	}
	linked := LinkedSupplierInvoices("3001", invoices, allocations)
	if len(linked) != 1 {
		t.Fatalf("expected 1 linked invoice, got %d", len(linked))
	}
}

func TestLinkedSupplierInvoices_EmptySalesInvoice(t *testing.T) {
	invoices := []*SupplierInvoice{{Id: 1, InvoiceNo: "INV-1"}}
	if got := LinkedSupplierInvoices("  ", invoices, nil); got != nil {
		t.Fatalf("blank sales invoice must link nothing, got %d", len(got))
	}
}
