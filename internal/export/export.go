// Package export writes widget tables as downloadable CSV or XLSX files.
package export

import (
	"fmt"
	"regexp"
	"slices"
	"sort"
	"strconv"
	"time"

	"github.com/GregMSThompson/quality-dashboard/internal/errs"
	"github.com/GregMSThompson/quality-dashboard/internal/models"
)

// Format is a downloadable file type.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatCSV, FormatXLSX:
		return Format(s), nil
	case "excel":
		return FormatXLSX, nil
	}
	return "", errs.NewValidationError(fmt.Sprintf("unsupported export format %q", s))
}

func (f Format) ContentType() string {
	if f == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv; charset=utf-8"
}

var whitespace = regexp.MustCompile(`\s+`)

// BaseName builds "<title with whitespace runs as _>_<YYYY-MM-DD>".
func BaseName(title string, now time.Time) string {
	return whitespace.ReplaceAllString(title, "_") + "_" + now.Format("2006-01-02")
}

// Filename is BaseName plus the format's extension.
func Filename(title string, now time.Time, f Format) string {
	return BaseName(title, now) + "." + string(f)
}

// Table is a header row of field names and the records under it. Range is
// the period the rows were filtered to, nil for widgets that show every
// record.
type Table struct {
	Title   string
	Range   *models.DateRange
	Columns []string
	Rows    []models.Record
}

// Columns orders the fields of rows: preferred keys that occur come first,
// in the given order, then every other key sorted.
func Columns(rows []models.Record, preferred ...string) []string {
	present := make(map[string]struct{})
	for _, r := range rows {
		for k := range r {
			present[k] = struct{}{}
		}
	}
	out := make([]string, 0, len(present))
	for _, k := range preferred {
		if _, ok := present[k]; ok && !slices.Contains(out, k) {
			out = append(out, k)
		}
	}
	rest := make([]string, 0, len(present))
	for k := range present {
		if !slices.Contains(out, k) {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	return append(out, rest...)
}

// cellText renders a value for the CSV format.
func cellText(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case bool:
		return strconv.FormatBool(x)
	}
	return fmt.Sprint(v)
}
