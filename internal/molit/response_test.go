package molit

import (
	"encoding/xml"
	"testing"
)

func TestRecordPreservesFieldOrder(t *testing.T) {
	raw := `<item>
  <aptNm>래미안</aptNm>
  <dealAmount> 125,000 </dealAmount>
  <umdNm>사직동</umdNm>
  <floor>11</floor>
</item>`
	var rec Record
	if err := xml.Unmarshal([]byte(raw), &rec); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	wantNames := []string{"aptNm", "dealAmount", "umdNm", "floor"}
	if len(rec) != len(wantNames) {
		t.Fatalf("fields = %d, want %d", len(rec), len(wantNames))
	}
	for i, name := range wantNames {
		if rec[i].Name != name {
			t.Errorf("field %d = %s, want %s", i, rec[i].Name, name)
		}
	}
	if rec[1].Value != "125,000" {
		t.Errorf("value not trimmed: %q", rec[1].Value)
	}
}

func TestEnvelopeResultCodes(t *testing.T) {
	cases := []struct {
		code string
		ok   bool
	}{
		{"00", true},
		{"000", true},
		{"", true},
		{"03", false},
		{"30", false},
	}
	for i, tc := range cases {
		var e envelope
		e.Header.ResultCode = tc.code
		if got := e.ok(); got != tc.ok {
			t.Errorf("case %d ok(%q) = %v, want %v", i, tc.code, got, tc.ok)
		}
	}
}
