// Package schema holds the fixed target schema for exported transaction
// tables: the MOLIT field-to-display-name map, the final column renames and
// the canonical column order. The schema is data, not code, so it lives in
// an embedded YAML file.
package schema

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed schema.yaml
var schemaYAML []byte

// Well-known column names used by the pipeline.
const (
	ColRegionCode     = "법정동시군구코드"
	ColProvince       = "시도명"
	ColMunicipality   = "시군구명"
	ColLocality       = "법정동"
	ColLocalityDetail = "법정동상세"
	ColDealYear       = "년"
	ColDealMonth      = "월"
	ColDealDay        = "일"
	ColDealDate       = "계약일자"
)

// Schema is the parsed contents of schema.yaml.
type Schema struct {
	// Fields maps MOLIT response tags to display column names.
	// Tags without an entry pass through under their own name.
	Fields map[string]string `yaml:"fields"`

	// Renames maps display columns to their short export names.
	// Applied only where the source column exists.
	Renames map[string]string `yaml:"renames"`

	// Columns is the canonical export column order.
	Columns []string `yaml:"columns"`
}

// Load parses the embedded schema definition.
func Load() (*Schema, error) {
	var s Schema
	if err := yaml.Unmarshal(schemaYAML, &s); err != nil {
		return nil, fmt.Errorf("parse embedded schema: %w", err)
	}
	if len(s.Fields) == 0 || len(s.Columns) == 0 {
		return nil, fmt.Errorf("embedded schema is incomplete: %d fields, %d columns", len(s.Fields), len(s.Columns))
	}
	return &s, nil
}
