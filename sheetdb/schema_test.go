package sheetdb

import (
	"testing"
)

var testSchema = SheetSchema{
	Name: "Orders",
	HeaderMap: map[string]string{
		"Order ID":      "order_id",
		"Invoice No":    "invoice_no",
		"Partner Paid?": "partner_paid",
		"Order Total":   "order_total",
	},
	IdentifierKeys: []string{"order_id", "invoice_no"},
	RawColumns:     []string{"order_id", "invoice_no", "partner_paid", "order_total"},
}

func TestResolveHeader_Tiers(t *testing.T) {
	cases := []struct {
		header string
		want   string
		known  bool
	}{
		// exact after normalization: punctuation and case are noise
		{"order id", "order_id", true},
		{"ORDER-ID", "order_id", true},
		{"OrderID", "order_id", true},
		// case-insensitive literal
		{"invoice no", "invoice_no", true},
		// substring containment either direction
		{"Partner Paid? (Y/N)", "partner_paid", true},
		{"Total", "order_total", true},
		// unmapped: sanitized fallback, never dropped
		{"Loyalty Points!", "loyalty_points", false},
		{"  Weird   Col  ", "weird_col", false},
	}
	for _, tc := range cases {
		got, known := testSchema.ResolveHeader(tc.header)
		if got != tc.want || known != tc.known {
			t.Fatalf("ResolveHeader(%q) = (%q, %v), want (%q, %v)", tc.header, got, known, tc.want, tc.known)
		}
	}
}

func TestResolveHeader_Idempotent(t *testing.T) {
	headers := []string{"Order ID", "order id", "Loyalty Points!", "Partner Paid?"}
	for _, h := range headers {
		first, _ := testSchema.ResolveHeader(h)
		second, _ := testSchema.ResolveHeader(h)
		if first != second || first == "" {
			t.Fatalf("ResolveHeader(%q) unstable: %q then %q", h, first, second)
		}
	}
}

func TestResolveHeader_AmbiguousHeaderIsStable(t *testing.T) {
	// "Total" is a substring of two declared variants with different keys;
	// resolution must still pick the same one every time.
	schema := SheetSchema{
		Name: "Orders",
		HeaderMap: map[string]string{
			"Order Total": "order_total",
			"Total COGS":  "total_cogs",
		},
	}
	first, known := schema.ResolveHeader("Total")
	if !known {
		t.Fatal(`"Total" should resolve to a declared key`)
	}
	if first != "order_total" {
		t.Fatalf(`ResolveHeader("Total") = %q, want the first variant in sorted order ("order_total")`, first)
	}
	for i := 0; i < 200; i++ {
		if got, _ := schema.ResolveHeader("Total"); got != first {
			t.Fatalf(`ResolveHeader("Total") unstable: %q then %q on iteration %d`, first, got, i)
		}
	}
}

func TestCoerceValue_BooleanTokens(t *testing.T) {
	truthy := []any{"TRUE", "true", "YES", "Yes", "yes", "Y", "y", true}
	for _, v := range truthy {
		if got := CoerceValue("partner_paid", v, false); got != true {
			t.Fatalf("CoerceValue(%v) = %v, want true", v, got)
		}
	}
	falsy := []any{"FALSE", "false", "NO", "No", "no", "N", "n", "", nil, false}
	for _, v := range falsy {
		if got := CoerceValue("partner_paid", v, false); got != false {
			t.Fatalf("CoerceValue(%v) = %v, want false", v, got)
		}
	}
}

func TestCoerceValue_BooleanCheckPrecedesNumeric(t *testing.T) {
	// "0" is not a recognized falsy token; it must come through as a number.
	if got := CoerceValue("order_total", "0", false); got != float64(0) {
		t.Fatalf(`CoerceValue("0") = %v (%T), want float64 0`, got, got)
	}
	if got := CoerceValue("order_total", "1", false); got != float64(1) {
		t.Fatalf(`CoerceValue("1") = %v (%T), want float64 1`, got, got)
	}
}

func TestCoerceValue_Numbers(t *testing.T) {
	if got := CoerceValue("order_total", 12.5, false); got != 12.5 {
		t.Fatalf("native number not passed through: %v", got)
	}
	if got := CoerceValue("order_total", " 120.50 ", false); got != 120.5 {
		t.Fatalf("numeric string not converted: %v", got)
	}
	if got := CoerceValue("notes", "12 Main St", false); got != "12 Main St" {
		t.Fatalf("non-numeric string mangled: %v", got)
	}
}

func TestCoerceValue_IdentifiersKeepStrings(t *testing.T) {
	// Leading zeros and embedded punctuation are meaningful on ids.
	if got := CoerceValue("order_id", "00451", true); got != "00451" {
		t.Fatalf("identifier converted to number: %v (%T)", got, got)
	}
	if got := CoerceValue("invoice_no", "1014", true); got != "1014" {
		t.Fatalf("numeric-looking invoice number converted: %v (%T)", got, got)
	}
}

func TestLooksLikeIdentifier(t *testing.T) {
	yes := []string{"order_id", "invoice_no", "sku", "franchise_code", "payment_reference", "sales_invoice_no", "phone"}
	for _, k := range yes {
		if !looksLikeIdentifier(k) {
			t.Fatalf("expected %q to look like an identifier", k)
		}
	}
	no := []string{"order_total", "quantity", "brand", "franchisee", "notes"}
	for _, k := range no {
		if looksLikeIdentifier(k) {
			t.Fatalf("did not expect %q to look like an identifier", k)
		}
	}
}

func TestMapRows(t *testing.T) {
	data := SheetData{
		Headers: []string{"Order ID", "Invoice No", "Partner Paid?", "Order Total", "Mystery"},
		Rows: [][]any{
			{"#1005", "1005WS", "YES", "1,250.00"},
			{"0042", "", "no", 99.9, "kept"},
		},
	}
	records := testSchema.MapRows(data, nil)
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}

	first := records[0]
	if first.Row != 1 {
		t.Fatalf("row position = %d, want 1", first.Row)
	}
	if first.String("order_id") != "#1005" {
		t.Fatalf("order_id = %q", first.String("order_id"))
	}
	if !first.Bool("partner_paid") {
		t.Fatal("partner_paid should be true")
	}
	if got := first.Decimal("order_total").String(); got != "1250" {
		t.Fatalf("order_total = %s", got)
	}

	second := records[1]
	if second.String("order_id") != "0042" {
		t.Fatalf("leading zero lost: %q", second.String("order_id"))
	}
	if second.Bool("partner_paid") {
		t.Fatal("partner_paid should be false")
	}
	// unmapped column stays addressable under its sanitized key
	if second.String("mystery") != "kept" {
		t.Fatalf("unmapped column dropped: %q", second.String("mystery"))
	}
	// short row: missing cell reads as zero values, not a crash
	if first.String("mystery") != "" {
		t.Fatalf("missing cell should read empty, got %q", first.String("mystery"))
	}
}

func TestSanitizeHeaderKey(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Gross Profit (GBP)", "gross_profit_gbp"},
		{"  A  B  ", "a_b"},
		{"!!!", ""},
	}
	for _, tc := range cases {
		if got := SanitizeHeaderKey(tc.in); got != tc.want {
			t.Fatalf("SanitizeHeaderKey(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestColumnLetter(t *testing.T) {
	cases := map[int]string{0: "A", 1: "B", 25: "Z", 26: "AA", 27: "AB", 51: "AZ", 52: "BA"}
	for idx, want := range cases {
		if got := ColumnLetter(idx); got != want {
			t.Fatalf("ColumnLetter(%d) = %q, want %q", idx, got, want)
		}
	}
}
