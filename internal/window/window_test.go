package window

import (
	"reflect"
	"testing"
	"time"
)

func TestCalc(t *testing.T) {
	now := time.Date(2025, 1, 15, 10, 30, 0, 0, time.UTC)

	cases := []struct {
		monthsBack int
		start, end string
	}{
		{1, "202501", "202501"},
		{2, "202412", "202501"},
		{4, "202410", "202501"},
		{13, "202401", "202501"},
	}
	for i, tc := range cases {
		w, err := Calc(now, tc.monthsBack)
		if err != nil {
			t.Fatalf("case %d unexpected error: %v", i, err)
		}
		if w.Start != tc.start || w.End != tc.end {
			t.Fatalf("case %d got %s~%s, want %s~%s", i, w.Start, w.End, tc.start, tc.end)
		}
	}
}

func TestCalcEndIsCurrentMonth(t *testing.T) {
	// End of month with fewer days ahead must not shift the window.
	now := time.Date(2024, 3, 31, 23, 59, 0, 0, time.UTC)
	w, err := Calc(now, 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if w.End != "202403" {
		t.Errorf("end = %s, want 202403", w.End)
	}
	if w.Start != "202312" {
		t.Errorf("start = %s, want 202312", w.Start)
	}
}

func TestCalcRejectsZero(t *testing.T) {
	if _, err := Calc(time.Now(), 0); err == nil {
		t.Fatal("expected error for months back 0")
	}
	if _, err := Calc(time.Now(), -3); err == nil {
		t.Fatal("expected error for negative months back")
	}
}

func TestMonths(t *testing.T) {
	w := Window{Start: "202411", End: "202502"}
	got := w.Months()
	want := []string{"202411", "202412", "202501", "202502"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("months = %v, want %v", got, want)
	}

	single := Window{Start: "202501", End: "202501"}
	if got := single.Months(); len(got) != 1 || got[0] != "202501" {
		t.Fatalf("single month window = %v", got)
	}
}
