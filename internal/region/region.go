// Package region loads the administrative region directory that transaction
// records are joined against. The directory maps a 5-digit sigungu code to
// its province and municipality display names.
package region

import (
	"aptrade/internal/frame"
	"aptrade/internal/schema"
)

// Region is one directory entry.
type Region struct {
	Code         string // 5-digit sigungu code
	Province     string // 시도명
	Municipality string // 시군구명
}

// Directory is the deduplicated region lookup table, preserving the order
// regions were first seen in the source.
type Directory struct {
	codes  []string
	byCode map[string]Region
}

// NewDirectory builds a directory from entries, keeping the first entry for
// each code and dropping entries without a code.
func NewDirectory(regions []Region) *Directory {
	d := &Directory{byCode: make(map[string]Region, len(regions))}
	for _, r := range regions {
		if r.Code == "" {
			continue
		}
		if _, ok := d.byCode[r.Code]; ok {
			continue
		}
		d.byCode[r.Code] = r
		d.codes = append(d.codes, r.Code)
	}
	return d
}

// Codes returns the region codes in directory order.
func (d *Directory) Codes() []string {
	out := make([]string, len(d.codes))
	copy(out, d.codes)
	return out
}

// Len returns the number of distinct regions.
func (d *Directory) Len() int {
	return len(d.codes)
}

// Lookup returns the entry for a code.
func (d *Directory) Lookup(code string) (Region, bool) {
	r, ok := d.byCode[code]
	return r, ok
}

// Regions returns all entries in directory order.
func (d *Directory) Regions() []Region {
	out := make([]Region, 0, len(d.codes))
	for _, c := range d.codes {
		out = append(out, d.byCode[c])
	}
	return out
}

// Attach left-joins province and municipality names onto f using the
// region-code column as key. Every row is kept: rows whose code has no
// directory entry get empty names. When f has no region-code column the
// frame is returned untouched.
func (d *Directory) Attach(f *frame.Frame) {
	if !f.Has(schema.ColRegionCode) {
		return
	}
	f.AddColumn(schema.ColProvince)
	f.AddColumn(schema.ColMunicipality)
	for i := 0; i < f.Len(); i++ {
		r, ok := d.byCode[f.Get(i, schema.ColRegionCode)]
		if !ok {
			continue
		}
		f.Set(i, schema.ColProvince, r.Province)
		f.Set(i, schema.ColMunicipality, r.Municipality)
	}
}
