package sheetdb

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"bitbucket.org/cloudkitchenhq/orders_backend/config"
	"github.com/sirupsen/logrus"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// Client wraps the Sheets API for a single spreadsheet. It is constructed
// explicitly and injected into the stores; there is no package-level
// singleton.
type Client struct {
	svc           *sheets.Service
	spreadsheetId string
	logger        *logrus.Logger
}

// SheetData is the raw shape of one tab: the literal header row plus every
// data row below it. A missing or unreadable tab is represented as the zero
// value, not an error.
type SheetData struct {
	Headers []string
	Rows    [][]any
}

func NewClient(ctx context.Context, cfg config.SheetsConfig, logger *logrus.Logger) (*Client, error) {
	svc, err := sheets.NewService(ctx, option.WithCredentialsJSON(cfg.CredentialsJSON))
	if err != nil {
		return nil, err
	}
	return &Client{
		svc:           svc,
		spreadsheetId: cfg.SpreadsheetId,
		logger:        logger,
	}, nil
}

func (c *Client) SpreadsheetId() string {
	return c.spreadsheetId
}

// rangeStrategies returns the addressing variants tried for one logical
// sheet, in order: full-width range, bare name, quoted name. Hand-renamed
// tabs (stray spaces, punctuation) often fail one form but not another.
func rangeStrategies(name string) []string {
	return []string{
		fmt.Sprintf("%s!A1:ZZ", name),
		name,
		fmt.Sprintf("'%s'", name),
	}
}

// isParseClassError reports whether the API rejected the range address
// itself. Only these failures fall through to the next strategy; auth,
// permission and quota failures abort immediately.
func isParseClassError(err error) bool {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		if apiErr.Code == 400 {
			return true
		}
		return strings.Contains(strings.ToLower(apiErr.Message), "unable to parse range")
	}
	return false
}

// ReadSheet reads one tab, trying each addressing strategy until one
// succeeds. When every strategy fails for a parse-class reason the tab is
// treated as unavailable and an empty result is returned, so one renamed
// sheet does not take down views that aggregate several. Callers that need
// the sheet to exist must treat the empty result as "not found".
func (c *Client) ReadSheet(ctx context.Context, name string) (SheetData, error) {
	var lastErr error
	for _, rng := range rangeStrategies(name) {
		resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetId, rng).Context(ctx).Do()
		if err != nil {
			if isParseClassError(err) {
				lastErr = err
				continue
			}
			config.LogError(c.logger, "sheetdb/client.go", "ReadSheet", "values.Get "+rng, nil, err)
			return SheetData{}, err
		}
		return toSheetData(resp.Values), nil
	}

	if lastErr != nil {
		config.LogError(c.logger, "sheetdb/client.go", "ReadSheet", "sheet unavailable: "+name, nil, lastErr)
	}
	return SheetData{}, nil
}

func toSheetData(values [][]any) SheetData {
	if len(values) == 0 {
		return SheetData{}
	}
	headers := make([]string, 0, len(values[0]))
	for _, h := range values[0] {
		headers = append(headers, strings.TrimSpace(fmt.Sprint(h)))
	}
	return SheetData{Headers: headers, Rows: values[1:]}
}

// sheetId resolves the numeric grid id for a tab title. Needed for
// dimension operations, which do not accept A1 addresses.
func (c *Client) sheetId(ctx context.Context, name string) (int64, error) {
	meta, err := c.svc.Spreadsheets.Get(c.spreadsheetId).Fields("sheets.properties").Context(ctx).Do()
	if err != nil {
		return 0, err
	}
	for _, sh := range meta.Sheets {
		if sh.Properties != nil && strings.EqualFold(strings.TrimSpace(sh.Properties.Title), strings.TrimSpace(name)) {
			return sh.Properties.SheetId, nil
		}
	}
	return 0, fmt.Errorf("sheet %q not found in spreadsheet", name)
}

// ColumnLetter converts a zero-based column index to its A1 letter ("A",
// "B", ... "AA"). Supports the A..ZZ window the reader uses.
func ColumnLetter(idx int) string {
	letter := ""
	n := idx
	for n >= 0 {
		letter = string(rune('A'+n%26)) + letter
		n = n/26 - 1
	}
	return letter
}
