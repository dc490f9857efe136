package sheetdb

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"
)

type capturedBatch struct {
	ValueInputOption string `json:"valueInputOption"`
	Data             []struct {
		Range  string  `json:"range"`
		Values [][]any `json:"values"`
	} `json:"data"`
}

// fakeValuesAPI answers values.get with a fixed grid and records any
// values:batchUpdate body it receives.
func fakeValuesAPI(grid [][]any, captured *capturedBatch) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/values:batchUpdate") {
			json.NewDecoder(r.Body).Decode(captured)
			json.NewEncoder(w).Encode(map[string]any{})
			return
		}
		json.NewEncoder(w).Encode(map[string]any{"values": grid})
	})
}

type capturedGridBatch struct {
	Requests []struct {
		InsertDimension *struct {
			Range struct {
				SheetId    int64  `json:"sheetId"`
				Dimension  string `json:"dimension"`
				StartIndex int64  `json:"startIndex"`
				EndIndex   int64  `json:"endIndex"`
			} `json:"range"`
			InheritFromBefore bool `json:"inheritFromBefore"`
		} `json:"insertDimension"`
	} `json:"requests"`
}

// fakeSheetsAPI extends fakeValuesAPI with the metadata and grid-mutation
// endpoints AppendRows needs.
func fakeSheetsAPI(grid [][]any, values *capturedBatch, mutations *capturedGridBatch) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, "/values:batchUpdate"):
			json.NewDecoder(r.Body).Decode(values)
			json.NewEncoder(w).Encode(map[string]any{})
		case strings.HasSuffix(r.URL.Path, ":batchUpdate"):
			json.NewDecoder(r.Body).Decode(mutations)
			json.NewEncoder(w).Encode(map[string]any{})
		case strings.Contains(r.URL.Path, "/values/"):
			json.NewEncoder(w).Encode(map[string]any{"values": grid})
		default:
			json.NewEncoder(w).Encode(map[string]any{
				"sheets": []map[string]any{
					{"properties": map[string]any{"sheetId": 42, "title": "Orders"}},
				},
			})
		}
	})
}

func TestAppendRows_WritesRawColumnsOnly(t *testing.T) {
	schema := SheetSchema{
		Name: "Orders",
		HeaderMap: map[string]string{
			"Order ID":     "order_id",
			"Invoice No":   "invoice_no",
			"Order Total":  "order_total",
			"Gross Profit": "gross_profit",
		},
		IdentifierKeys: []string{"order_id", "invoice_no"},
		// gross_profit is a formula column: never written.
		RawColumns: []string{"order_id", "invoice_no", "order_total"},
	}
	grid := [][]any{
		{"Order ID", "Invoice No", "Order Total", "Gross Profit"},
		{"1005", "1005WS", "120.00", "30.00"},
		{"1006", "1006BB", "80.00", "20.00"},
	}

	var values capturedBatch
	var mutations capturedGridBatch
	client, _ := newTestClient(t, fakeSheetsAPI(grid, &values, &mutations))

	err := client.AppendRows(context.Background(), schema, []map[string]any{
		{"order_id": "1007", "invoice_no": "1007WS", "order_total": "95.00"},
	})
	if err != nil {
		t.Fatalf("AppendRows: %v", err)
	}

	// Blank row inserted directly below the last data row, inheriting the
	// formulas of the row above.
	if len(mutations.Requests) != 1 || mutations.Requests[0].InsertDimension == nil {
		t.Fatalf("expected one insertDimension request, got %+v", mutations.Requests)
	}
	ins := mutations.Requests[0].InsertDimension
	if ins.Range.SheetId != 42 || ins.Range.Dimension != "ROWS" {
		t.Fatalf("insert range = %+v", ins.Range)
	}
	if ins.Range.StartIndex != 3 || ins.Range.EndIndex != 4 {
		t.Fatalf("insert indices = [%d, %d), want [3, 4)", ins.Range.StartIndex, ins.Range.EndIndex)
	}
	if !ins.InheritFromBefore {
		t.Fatal("inserted row must inherit formulas from the row above")
	}

	// Values land on sheet row 4, one range per raw column, and the formula
	// column (D) is left alone.
	got := make(map[string]bool, len(values.Data))
	for _, vr := range values.Data {
		got[vr.Range] = true
	}
	for _, want := range []string{"Orders!A4:A4", "Orders!B4:B4", "Orders!C4:C4"} {
		if !got[want] {
			t.Fatalf("missing write to %s, got %v", want, got)
		}
	}
	if len(values.Data) != 3 {
		t.Fatalf("expected exactly 3 written ranges, got %d: %v", len(values.Data), got)
	}
	if values.ValueInputOption != "USER_ENTERED" {
		t.Fatalf("valueInputOption = %q", values.ValueInputOption)
	}
}

func TestUpdateRow_SkipsFieldsOutsideAllowList(t *testing.T) {
	var captured capturedBatch
	client, _ := newTestClient(t, fakeValuesAPI([][]any{
		{"Order ID", "Invoice No", "Partner Paid?", "Order Total"},
		{"1005", "1005WS", "NO", "120.00"},
	}, &captured))

	err := client.UpdateRow(context.Background(), testSchema, 1, map[string]any{
		"partner_paid": true,
		"order_total":  999, // not writable on this path
	}, []string{"partner_paid"})
	if err != nil {
		t.Fatalf("UpdateRow: %v", err)
	}

	if captured.ValueInputOption != "USER_ENTERED" {
		t.Fatalf("valueInputOption = %q", captured.ValueInputOption)
	}
	if len(captured.Data) != 1 {
		t.Fatalf("expected 1 written range, got %d: %+v", len(captured.Data), captured.Data)
	}
	// partner_paid is column C; data row 1 sits on sheet row 2.
	if captured.Data[0].Range != "Orders!C2" {
		t.Fatalf("range = %q, want Orders!C2", captured.Data[0].Range)
	}
}

func TestUpdateRow_UnknownAllowedFieldFails(t *testing.T) {
	var captured capturedBatch
	client, _ := newTestClient(t, fakeValuesAPI([][]any{
		{"Order ID", "Invoice No"},
		{"1005", "1005WS"},
	}, &captured))

	err := client.UpdateRow(context.Background(), testSchema, 1, map[string]any{
		"partner_paid": true,
	}, []string{"partner_paid"})
	if err == nil {
		t.Fatal("expected an error when the allowed field has no live column")
	}
	if len(captured.Data) != 0 {
		t.Fatalf("nothing should have been written, got %+v", captured.Data)
	}
}

func TestUpdateRow_RowOutOfRange(t *testing.T) {
	var captured capturedBatch
	client, _ := newTestClient(t, fakeValuesAPI([][]any{
		{"Order ID"},
		{"1005"},
	}, &captured))

	if err := client.UpdateRow(context.Background(), testSchema, 5, map[string]any{"order_id": "x"}, []string{"order_id"}); err == nil {
		t.Fatal("expected row-not-found error")
	}
	if err := client.UpdateRow(context.Background(), testSchema, 0, map[string]any{"order_id": "x"}, []string{"order_id"}); err == nil {
		t.Fatal("expected invalid-index error")
	}
}

func TestUpdateRow_NothingPermittedIsANoOp(t *testing.T) {
	var captured capturedBatch
	client, _ := newTestClient(t, fakeValuesAPI([][]any{
		{"Order ID"},
		{"1005"},
	}, &captured))

	err := client.UpdateRow(context.Background(), testSchema, 1, map[string]any{
		"order_total": 50,
	}, []string{"partner_paid"})
	if err != nil {
		t.Fatalf("UpdateRow: %v", err)
	}
	if len(captured.Data) != 0 {
		t.Fatalf("no batchUpdate should have been issued, got %+v", captured.Data)
	}
}
