package region

import (
	"reflect"
	"strings"
	"testing"

	"aptrade/internal/frame"
	"aptrade/internal/schema"
)

func TestNewDirectoryDedupsFirstWins(t *testing.T) {
	d := NewDirectory([]Region{
		{Code: "11010", Province: "서울특별시", Municipality: "종로구"},
		{Code: "11010", Province: "다른값", Municipality: "다른값"},
		{Code: "11020", Province: "서울특별시", Municipality: "중구"},
		{Code: "", Province: "무시", Municipality: "무시"},
	})
	if d.Len() != 2 {
		t.Fatalf("len = %d, want 2", d.Len())
	}
	r, ok := d.Lookup("11010")
	if !ok || r.Municipality != "종로구" {
		t.Fatalf("lookup 11010 = %+v, %v", r, ok)
	}
	if !reflect.DeepEqual(d.Codes(), []string{"11010", "11020"}) {
		t.Fatalf("codes = %v", d.Codes())
	}
}

func TestParseCodeTable(t *testing.T) {
	csv := strings.Join([]string{
		"법정동코드,시도명,시군구명,읍면동명,폐지여부",
		"1101053000,서울특별시,종로구,사직동,존재",
		"1101054000,서울특별시,종로구,삼청동,존재",
		"1102052000,서울특별시,중구,소공동,존재",
		"1102053000,서울특별시,중구,회현동,폐지",
		"2611051000,부산광역시,중구,중앙동,존재",
	}, "\n")

	regions, err := ParseCodeTable(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	d := NewDirectory(regions)
	if !reflect.DeepEqual(d.Codes(), []string{"11010", "11020", "26110"}) {
		t.Fatalf("codes = %v", d.Codes())
	}
	if r, _ := d.Lookup("26110"); r.Province != "부산광역시" || r.Municipality != "중구" {
		t.Fatalf("26110 = %+v", r)
	}
}

func TestParseCodeTableMissingColumns(t *testing.T) {
	csv := "코드,이름\n11010,종로구\n"
	if _, err := ParseCodeTable(strings.NewReader(csv)); err == nil {
		t.Fatal("expected error for missing header columns")
	}
}

func TestAttachIsLeftJoin(t *testing.T) {
	d := NewDirectory([]Region{
		{Code: "11010", Province: "서울특별시", Municipality: "종로구"},
	})

	f := frame.New(schema.ColRegionCode, "거래금액")
	for _, row := range [][]string{
		{"11010", "100"},
		{"99999", "200"}, // no directory match
		{"11010", "300"},
	} {
		if err := f.Append(row); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	before := f.Len()
	d.Attach(f)
	if f.Len() != before {
		t.Fatalf("row count changed by join: %d != %d", f.Len(), before)
	}
	if f.Get(0, schema.ColProvince) != "서울특별시" || f.Get(0, schema.ColMunicipality) != "종로구" {
		t.Errorf("matched row names = %q/%q", f.Get(0, schema.ColProvince), f.Get(0, schema.ColMunicipality))
	}
	if f.Get(1, schema.ColProvince) != "" || f.Get(1, schema.ColMunicipality) != "" {
		t.Errorf("unmatched row should keep null names, got %q/%q",
			f.Get(1, schema.ColProvince), f.Get(1, schema.ColMunicipality))
	}
}

func TestAttachWithoutKeyColumnIsNoop(t *testing.T) {
	d := NewDirectory([]Region{{Code: "11010", Province: "서울특별시", Municipality: "종로구"}})
	f := frame.New("거래금액")
	if err := f.Append([]string{"100"}); err != nil {
		t.Fatalf("append: %v", err)
	}
	d.Attach(f)
	if f.Has(schema.ColProvince) || f.Has(schema.ColMunicipality) {
		t.Fatalf("columns added despite missing key: %v", f.Columns())
	}
}
