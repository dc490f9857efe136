package sheetdb

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"bitbucket.org/cloudkitchenhq/orders_backend/config"
	"bitbucket.org/cloudkitchenhq/orders_backend/utils"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// SheetSchema is the static declaration of one tab: which header variants
// map to which canonical keys, which keys carry identifiers (never converted
// to numbers), and which columns hold raw inputs the writer may touch.
// Everything else in a row is a formula column and belongs to the sheet.
type SheetSchema struct {
	Name string

	// HeaderMap: known literal header variant -> canonical key. Variants are
	// matched with the three-tier fallback in ResolveHeader, so one entry
	// per spelling family is enough.
	HeaderMap map[string]string

	// IdentifierKeys lists canonical keys whose values stay strings even
	// when numeric-looking (leading zeros, embedded punctuation matter).
	IdentifierKeys []string

	// RawColumns lists canonical keys written by the writer. Keys absent
	// here are formula columns and are never written.
	RawColumns []string
}

func (s SheetSchema) isIdentifierKey(key string) bool {
	for _, k := range s.IdentifierKeys {
		if k == key {
			return true
		}
	}
	return looksLikeIdentifier(key)
}

func (s SheetSchema) IsRawColumn(key string) bool {
	for _, k := range s.RawColumns {
		if k == key {
			return true
		}
	}
	return false
}

// looksLikeIdentifier is the heuristic for columns that were not declared:
// anything id-, number-, code- or SKU-shaped keeps its string form.
func looksLikeIdentifier(key string) bool {
	k := strings.ToLower(key)
	if k == "sku" || k == "phone" {
		return true
	}
	for _, marker := range []string{"_id", "_no", "_number", "_code", "_reference", "_sku", "_phone"} {
		if strings.HasSuffix(k, marker) || strings.Contains(k, marker+"_") {
			return true
		}
	}
	return strings.HasPrefix(k, "id_") || k == "id" || k == "no" || k == "code" || k == "reference"
}

// normalizeHeaderKey strips everything except letters and digits and
// lower-cases, the strongest form of header equality.
func normalizeHeaderKey(header string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(header) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// SanitizeHeaderKey is the last-resort canonical key for an unmapped
// header: non-alphanumerics collapse to underscores so the column remains
// addressable instead of being dropped.
func SanitizeHeaderKey(header string) string {
	var b strings.Builder
	lastUnderscore := true
	for _, r := range strings.ToLower(strings.TrimSpace(header)) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			lastUnderscore = false
		} else if !lastUnderscore {
			b.WriteRune('_')
			lastUnderscore = true
		}
	}
	return strings.Trim(b.String(), "_")
}

// variants returns the declared header variants in sorted order. Each
// resolution tier walks this list instead of ranging the map, so an
// ambiguous header (one that several variants could claim) always resolves
// to the same canonical key.
func (s SheetSchema) variants() []string {
	out := make([]string, 0, len(s.HeaderMap))
	for variant := range s.HeaderMap {
		out = append(out, variant)
	}
	sort.Strings(out)
	return out
}

// ResolveHeader maps one literal header to its canonical key using, in
// order: exact match after normalization, case-insensitive literal match,
// substring containment in either direction. Unmapped headers fall back to
// the sanitized raw header so no column is silently lost.
func (s SheetSchema) ResolveHeader(header string) (string, bool) {
	variants := s.variants()

	normalized := normalizeHeaderKey(header)
	for _, variant := range variants {
		if normalizeHeaderKey(variant) == normalized {
			return s.HeaderMap[variant], true
		}
	}

	trimmed := strings.TrimSpace(header)
	for _, variant := range variants {
		if strings.EqualFold(strings.TrimSpace(variant), trimmed) {
			return s.HeaderMap[variant], true
		}
	}

	lower := strings.ToLower(trimmed)
	for _, variant := range variants {
		vl := strings.ToLower(strings.TrimSpace(variant))
		if vl == "" || lower == "" {
			continue
		}
		if strings.Contains(lower, vl) || strings.Contains(vl, lower) {
			return s.HeaderMap[variant], true
		}
	}

	return SanitizeHeaderKey(header), false
}

// ResolveHeaders maps a full header row to canonical keys, warning once per
// unmapped column.
func (s SheetSchema) ResolveHeaders(headers []string, logger *logrus.Logger) []string {
	keys := make([]string, len(headers))
	for i, h := range headers {
		key, known := s.ResolveHeader(h)
		if !known && logger != nil {
			config.LogWarn(logger, "sheetdb/schema.go", "ResolveHeaders",
				s.Name, fmt.Sprintf("unmapped header %q kept as %q", h, key))
		}
		keys[i] = key
	}
	return keys
}

var truthyTokens = map[string]bool{
	"TRUE": true, "true": true,
	"YES": true, "Yes": true, "yes": true,
	"Y": true, "y": true,
}

var falsyTokens = map[string]bool{
	"FALSE": true, "false": true,
	"NO": true, "No": true, "no": true,
	"N": true, "n": true,
	"": true,
}

// CoerceValue types one cell. The boolean-token check runs before the
// numeric check: "0" is a number here, not a recognized falsy token.
// Identifier keys keep numeric-looking strings as strings.
func CoerceValue(key string, raw any, identifier bool) any {
	switch v := raw.(type) {
	case nil:
		return false
	case bool:
		return v
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case string:
		trimmed := strings.TrimSpace(v)
		if truthyTokens[trimmed] {
			return true
		}
		if falsyTokens[trimmed] {
			return false
		}
		if !identifier {
			if n, err := strconv.ParseFloat(trimmed, 64); err == nil && !math.IsInf(n, 0) && !math.IsNaN(n) {
				return n
			}
		}
		return trimmed
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}

// Record is one sheet row keyed by canonical field name, with the source
// row position retained as the surrogate id for writes. Row is 1-based over
// data rows (sheet row = Row+1, after the header).
type Record struct {
	Row    int
	Fields map[string]any
}

// MapRows turns raw sheet data into typed records using the schema.
// Mapping is idempotent: the same header row always resolves to the same
// canonical keys.
func (s SheetSchema) MapRows(data SheetData, logger *logrus.Logger) []Record {
	keys := s.ResolveHeaders(data.Headers, logger)
	records := make([]Record, 0, len(data.Rows))
	for i, row := range data.Rows {
		fields := make(map[string]any, len(keys))
		for col, key := range keys {
			if key == "" {
				continue
			}
			var raw any
			if col < len(row) {
				raw = row[col]
			}
			fields[key] = CoerceValue(key, raw, s.isIdentifierKey(key))
		}
		records = append(records, Record{Row: i + 1, Fields: fields})
	}
	return records
}

func (r Record) String(key string) string {
	switch v := r.Fields[key].(type) {
	case string:
		return v
	case nil:
		return ""
	case bool:
		if v {
			return "TRUE"
		}
		return ""
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}

func (r Record) Bool(key string) bool {
	switch v := r.Fields[key].(type) {
	case bool:
		return v
	case float64:
		return v != 0
	default:
		return false
	}
}

func (r Record) Float(key string) float64 {
	switch v := r.Fields[key].(type) {
	case float64:
		return v
	case string:
		if d, err := utils.ParseDecimal(v); err == nil {
			f, _ := d.Float64()
			return f
		}
	}
	return 0
}

// Decimal parses amounts tolerantly: native numbers pass through, strings
// may carry currency prefixes and thousands separators.
func (r Record) Decimal(key string) decimal.Decimal {
	switch v := r.Fields[key].(type) {
	case float64:
		return decimal.NewFromFloat(v)
	case string:
		if d, err := utils.ParseDecimal(v); err == nil {
			return d
		}
	}
	return decimal.Zero
}

// Date parses the formats operators actually type into date cells.
func (r Record) Date(key string) *time.Time {
	s := strings.TrimSpace(r.String(key))
	if s == "" {
		return nil
	}
	for _, layout := range []string{"2006-01-02", "02/01/2006", "1/2/2006", time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}
