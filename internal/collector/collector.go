// Package collector walks the region directory and gathers transaction
// records for each region over the collection window. Regions are processed
// strictly one at a time; a failing region is logged and skipped, never
// aborting the run.
package collector

import (
	"context"
	"log/slog"

	"aptrade/internal/frame"
	"aptrade/internal/molit"
	"aptrade/internal/region"
	"aptrade/internal/window"
)

// Fetcher is the upstream transaction API.
type Fetcher interface {
	Sales(ctx context.Context, regionCode string, w window.Window) ([]molit.Record, error)
}

// Result is the outcome for a single region: rows, empty, or failed.
type Result struct {
	Code  string
	Rows  int
	Frame *frame.Frame // nil unless Rows > 0
	Err   error
}

// OK reports whether the region produced rows.
func (r Result) OK() bool { return r.Err == nil && r.Rows > 0 }

// Empty reports whether the region succeeded with no data.
func (r Result) Empty() bool { return r.Err == nil && r.Rows == 0 }

type Collector struct {
	api    Fetcher
	dir    *region.Directory
	fields map[string]string
}

// New creates a collector. fields maps API field names to display column
// names; fields without a mapping pass through unchanged.
func New(api Fetcher, dir *region.Directory, fields map[string]string) *Collector {
	return &Collector{api: api, dir: dir, fields: fields}
}

// Run collects every region in directory order and returns one result per
// region.
func (c *Collector) Run(ctx context.Context, w window.Window) []Result {
	codes := c.dir.Codes()
	total := len(codes)
	slog.InfoContext(ctx, "Collecting transaction data", "regions", total, "window", w.String())

	results := make([]Result, 0, total)
	for i, code := range codes {
		res := c.collect(ctx, code, w)
		switch {
		case res.Err != nil:
			slog.WarnContext(ctx, "Region failed, skipping",
				"region", code, "index", i+1, "total", total, "error", res.Err)
		case res.Rows == 0:
			slog.InfoContext(ctx, "Region has no data",
				"region", code, "index", i+1, "total", total)
		default:
			slog.InfoContext(ctx, "Region collected",
				"region", code, "index", i+1, "total", total, "rows", res.Rows)
		}
		results = append(results, res)
	}

	tally := TallyResults(results)
	slog.InfoContext(ctx, "Collection finished",
		"regions_with_data", tally.WithData, "regions_empty", tally.Empty, "regions_failed", tally.Failed)
	return results
}

// Tally counts regions by outcome.
type Tally struct {
	WithData int
	Empty    int
	Failed   int
}

// TallyResults summarizes a run's results.
func TallyResults(results []Result) Tally {
	var t Tally
	for _, r := range results {
		switch {
		case r.Err != nil:
			t.Failed++
		case r.Rows == 0:
			t.Empty++
		default:
			t.WithData++
		}
	}
	return t
}

// collect fetches one region, renames fields to display names and attaches
// region names.
func (c *Collector) collect(ctx context.Context, code string, w window.Window) Result {
	recs, err := c.api.Sales(ctx, code, w)
	if err != nil {
		return Result{Code: code, Err: err}
	}
	if len(recs) == 0 {
		return Result{Code: code}
	}
	f := c.toFrame(recs)
	c.dir.Attach(f)
	return Result{Code: code, Rows: f.Len(), Frame: f}
}

// toFrame builds a frame from records, columns in first-seen field order.
// Records may carry different optional fields; missing cells stay empty.
func (c *Collector) toFrame(recs []molit.Record) *frame.Frame {
	f := frame.New()
	for _, rec := range recs {
		for _, fd := range rec {
			f.AddColumn(c.displayName(fd.Name))
		}
	}
	cols := f.Columns()
	idx := make(map[string]int, len(cols))
	for i, col := range cols {
		idx[col] = i
	}
	for _, rec := range recs {
		row := make([]string, len(cols))
		for _, fd := range rec {
			row[idx[c.displayName(fd.Name)]] = fd.Value
		}
		// Row length always matches, error unreachable.
		_ = f.Append(row)
	}
	return f
}

func (c *Collector) displayName(field string) string {
	if name, ok := c.fields[field]; ok {
		return name
	}
	return field
}

// Frames extracts the per-region tables of successful regions, preserving
// processing order.
func Frames(results []Result) []*frame.Frame {
	var out []*frame.Frame
	for _, r := range results {
		if r.OK() {
			out = append(out, r.Frame)
		}
	}
	return out
}
