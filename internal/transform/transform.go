// Package transform reshapes the aggregated transaction table into the
// export layout: derived locality detail and contract date columns, short
// column names, canonical column order.
package transform

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"aptrade/internal/frame"
	"aptrade/internal/schema"
)

// Finalize applies every reshaping step and returns the table in canonical
// column order. The input frame is modified in place before reordering.
func Finalize(f *frame.Frame, sch *schema.Schema) *frame.Frame {
	SplitLocality(f)
	ComposeDealDate(f)
	f.Rename(sch.Renames)
	return f.Select(sch.Columns)
}

// SplitLocality derives the locality detail column. A locality value that
// splits on whitespace into exactly two tokens is replaced by the first
// token, with the second becoming the detail ("역삼동 산1" → "역삼동" + "산1").
// Any other shape is left verbatim with an empty detail.
func SplitLocality(f *frame.Frame) {
	if !f.Has(schema.ColLocality) {
		return
	}
	f.AddColumn(schema.ColLocalityDetail)
	for i := 0; i < f.Len(); i++ {
		tokens := strings.Fields(f.Get(i, schema.ColLocality))
		if len(tokens) != 2 {
			continue
		}
		f.Set(i, schema.ColLocality, tokens[0])
		f.Set(i, schema.ColLocalityDetail, tokens[1])
	}
}

// ComposeDealDate derives the contract date column from the year, month and
// day columns, formatted YYYY-MM-DD with zero-padded month and day. The
// column is only added when all three sources exist; a row whose components
// do not form a real date gets a null (empty) value.
func ComposeDealDate(f *frame.Frame) {
	if !f.Has(schema.ColDealYear) || !f.Has(schema.ColDealMonth) || !f.Has(schema.ColDealDay) {
		return
	}
	f.AddColumn(schema.ColDealDate)
	for i := 0; i < f.Len(); i++ {
		f.Set(i, schema.ColDealDate, composeDate(
			f.Get(i, schema.ColDealYear),
			f.Get(i, schema.ColDealMonth),
			f.Get(i, schema.ColDealDay),
		))
	}
}

func composeDate(year, month, day string) string {
	y, err := strconv.Atoi(strings.TrimSpace(year))
	if err != nil {
		return ""
	}
	m, err := strconv.Atoi(strings.TrimSpace(month))
	if err != nil {
		return ""
	}
	d, err := strconv.Atoi(strings.TrimSpace(day))
	if err != nil {
		return ""
	}
	s := fmt.Sprintf("%04d-%02d-%02d", y, m, d)
	if _, err := time.Parse("2006-01-02", s); err != nil {
		return ""
	}
	return s
}
