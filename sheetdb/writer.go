package sheetdb

import (
	"context"
	"fmt"
	"time"

	"bitbucket.org/cloudkitchenhq/orders_backend/config"
	"github.com/shopspring/decimal"
	"google.golang.org/api/sheets/v4"
)

// The writer only ever touches declared raw-input columns. Formula columns
// keep whatever formula the row above carries, so the sheet's own computed
// columns continue to populate after an insert.
//
// Known hazard, accepted: nothing guards the gap between "find row index"
// and "write to that row index". A concurrent insert or delete elsewhere in
// the tab can land a write on the wrong row. That is the cost of a live
// spreadsheet as the system of record.

// AppendRows inserts len(rows) blank rows directly after the last existing
// row (an explicit insert-dimension, not an append, so row-relative
// formulas in untouched columns keep referencing correctly), then writes
// values into raw-input columns only.
func (c *Client) AppendRows(ctx context.Context, schema SheetSchema, rows []map[string]any) error {
	if len(rows) == 0 {
		return nil
	}

	data, err := c.ReadSheet(ctx, schema.Name)
	if err != nil {
		return err
	}
	if len(data.Headers) == 0 {
		return fmt.Errorf("sheet %q has no header row", schema.Name)
	}

	gridId, err := c.sheetId(ctx, schema.Name)
	if err != nil {
		return err
	}

	// Row indices for InsertDimension are zero-based over the grid; the
	// header occupies index 0.
	start := int64(len(data.Rows) + 1)
	insert := &sheets.Request{
		InsertDimension: &sheets.InsertDimensionRequest{
			Range: &sheets.DimensionRange{
				SheetId:    gridId,
				Dimension:  "ROWS",
				StartIndex: start,
				EndIndex:   start + int64(len(rows)),
			},
			InheritFromBefore: true,
		},
	}
	_, err = c.svc.Spreadsheets.BatchUpdate(c.spreadsheetId, &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{insert},
	}).Context(ctx).Do()
	if err != nil {
		config.LogError(c.logger, "sheetdb/writer.go", "AppendRows", "insertDimension "+schema.Name, nil, err)
		return err
	}

	keys := schema.ResolveHeaders(data.Headers, c.logger)

	firstRow := int(start) + 1 // 1-based A1 row of the first inserted row
	var ranges []*sheets.ValueRange
	for col, key := range keys {
		if !schema.IsRawColumn(key) {
			continue
		}
		letter := ColumnLetter(col)
		values := make([][]any, 0, len(rows))
		for _, row := range rows {
			v, ok := row[key]
			if !ok {
				values = append(values, []any{""})
				continue
			}
			values = append(values, []any{toCellValue(v)})
		}
		ranges = append(ranges, &sheets.ValueRange{
			Range:  fmt.Sprintf("%s!%s%d:%s%d", schema.Name, letter, firstRow, letter, firstRow+len(rows)-1),
			Values: values,
		})
	}

	if len(ranges) == 0 {
		return fmt.Errorf("sheet %q: no raw-input columns resolved from headers", schema.Name)
	}

	_, err = c.svc.Spreadsheets.Values.BatchUpdate(c.spreadsheetId, &sheets.BatchUpdateValuesRequest{
		ValueInputOption: "USER_ENTERED",
		Data:             ranges,
	}).Context(ctx).Do()
	if err != nil {
		config.LogError(c.logger, "sheetdb/writer.go", "AppendRows", "values.batchUpdate "+schema.Name, nil, err)
	}
	return err
}

// UpdateRow writes permitted fields of one data row (1-based position below
// the header). Fields outside the allow-list are skipped with a warning,
// never written, even when present in the input.
func (c *Client) UpdateRow(ctx context.Context, schema SheetSchema, rowIdx int, fields map[string]any, allowList []string) error {
	if rowIdx < 1 {
		return fmt.Errorf("sheet %q: invalid row index %d", schema.Name, rowIdx)
	}

	data, err := c.ReadSheet(ctx, schema.Name)
	if err != nil {
		return err
	}
	if len(data.Headers) == 0 {
		return fmt.Errorf("sheet %q has no header row", schema.Name)
	}
	if rowIdx > len(data.Rows) {
		return fmt.Errorf("sheet %q: row %d not found", schema.Name, rowIdx)
	}

	keys := schema.ResolveHeaders(data.Headers, c.logger)
	colByKey := make(map[string]int, len(keys))
	for col, key := range keys {
		colByKey[key] = col
	}

	allowed := make(map[string]bool, len(allowList))
	for _, k := range allowList {
		allowed[k] = true
	}

	sheetRow := rowIdx + 1
	var ranges []*sheets.ValueRange
	for key, value := range fields {
		if !allowed[key] {
			config.LogWarn(c.logger, "sheetdb/writer.go", "UpdateRow",
				schema.Name, fmt.Sprintf("field %q is not writable here, skipping", key))
			continue
		}
		col, ok := colByKey[key]
		if !ok {
			return fmt.Errorf("sheet %q has no column for field %q", schema.Name, key)
		}
		letter := ColumnLetter(col)
		ranges = append(ranges, &sheets.ValueRange{
			Range:  fmt.Sprintf("%s!%s%d", schema.Name, letter, sheetRow),
			Values: [][]any{{toCellValue(value)}},
		})
	}

	if len(ranges) == 0 {
		return nil
	}

	_, err = c.svc.Spreadsheets.Values.BatchUpdate(c.spreadsheetId, &sheets.BatchUpdateValuesRequest{
		ValueInputOption: "USER_ENTERED",
		Data:             ranges,
	}).Context(ctx).Do()
	if err != nil {
		config.LogError(c.logger, "sheetdb/writer.go", "UpdateRow", schema.Name, fields, err)
	}
	return err
}

// DeleteRows removes the given data rows (1-based positions), highest
// first so earlier deletions do not shift later indices.
func (c *Client) DeleteRows(ctx context.Context, sheetName string, rowIdxs []int) error {
	if len(rowIdxs) == 0 {
		return nil
	}

	gridId, err := c.sheetId(ctx, sheetName)
	if err != nil {
		return err
	}

	sorted := append([]int(nil), rowIdxs...)
	for i := 0; i < len(sorted); i++ {
		for j := i + 1; j < len(sorted); j++ {
			if sorted[j] > sorted[i] {
				sorted[i], sorted[j] = sorted[j], sorted[i]
			}
		}
	}

	var requests []*sheets.Request
	for _, rowIdx := range sorted {
		// Grid index of a data row: header is index 0, data row N is index N.
		requests = append(requests, &sheets.Request{
			DeleteDimension: &sheets.DeleteDimensionRequest{
				Range: &sheets.DimensionRange{
					SheetId:    gridId,
					Dimension:  "ROWS",
					StartIndex: int64(rowIdx),
					EndIndex:   int64(rowIdx) + 1,
				},
			},
		})
	}

	_, err = c.svc.Spreadsheets.BatchUpdate(c.spreadsheetId, &sheets.BatchUpdateSpreadsheetRequest{
		Requests: requests,
	}).Context(ctx).Do()
	if err != nil {
		config.LogError(c.logger, "sheetdb/writer.go", "DeleteRows", sheetName, rowIdxs, err)
	}
	return err
}

func toCellValue(v any) any {
	switch t := v.(type) {
	case decimal.Decimal:
		return t.String()
	case *time.Time:
		if t == nil {
			return ""
		}
		return t.Format("2006-01-02")
	case time.Time:
		return t.Format("2006-01-02")
	case nil:
		return ""
	default:
		return v
	}
}
