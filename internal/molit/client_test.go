package molit

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"aptrade/internal/window"
)

const itemXML = `<item>
  <sggCd>%s</sggCd>
  <umdNm> 사직동 </umdNm>
  <aptNm>광화문풍림스페이스본</aptNm>
  <dealAmount>125,000</dealAmount>
  <dealYear>2025</dealYear>
  <dealMonth>1</dealMonth>
  <dealDay>%d</dealDay>
</item>`

func pageBody(regionCode string, items, totalCount int) string {
	body := `<?xml version="1.0" encoding="UTF-8"?><response><header><resultCode>000</resultCode><resultMsg>OK</resultMsg></header><body><items>`
	for i := 0; i < items; i++ {
		body += fmt.Sprintf(itemXML, regionCode, i+1)
	}
	body += fmt.Sprintf(`</items><numOfRows>%d</numOfRows><pageNo>1</pageNo><totalCount>%d</totalCount></body></response>`, items, totalCount)
	return body
}

func TestSalesPagination(t *testing.T) {
	var requests []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		requests = append(requests, q.Get("DEAL_YMD")+"/"+q.Get("pageNo"))
		if q.Get("serviceKey") != "test-key" {
			t.Errorf("serviceKey = %q", q.Get("serviceKey"))
		}
		page, _ := strconv.Atoi(q.Get("pageNo"))
		// 3 records total with page size 2: full page then partial page.
		if page == 1 {
			fmt.Fprint(w, pageBody(q.Get("LAWD_CD"), 2, 3))
		} else {
			fmt.Fprint(w, pageBody(q.Get("LAWD_CD"), 1, 3))
		}
	}))
	defer srv.Close()

	c := NewClient("test-key", srv.URL, 2)
	recs, err := c.Sales(context.Background(), "11010", window.Window{Start: "202501", End: "202501"})
	if err != nil {
		t.Fatalf("sales: %v", err)
	}
	if len(recs) != 3 {
		t.Fatalf("records = %d, want 3", len(recs))
	}
	want := []string{"202501/1", "202501/2"}
	if len(requests) != len(want) || requests[0] != want[0] || requests[1] != want[1] {
		t.Fatalf("requests = %v, want %v", requests, want)
	}
}

func TestSalesSpansWindowMonths(t *testing.T) {
	var months []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		months = append(months, r.URL.Query().Get("DEAL_YMD"))
		fmt.Fprint(w, pageBody("11010", 1, 1))
	}))
	defer srv.Close()

	c := NewClient("k", srv.URL, 100)
	recs, err := c.Sales(context.Background(), "11010", window.Window{Start: "202411", End: "202501"})
	if err != nil {
		t.Fatalf("sales: %v", err)
	}
	if len(recs) != 3 {
		t.Fatalf("records = %d, want one per month", len(recs))
	}
	if len(months) != 3 || months[0] != "202411" || months[2] != "202501" {
		t.Fatalf("months = %v", months)
	}
}

func TestSalesEmptyBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<?xml version="1.0" encoding="UTF-8"?><response><header><resultCode>000</resultCode><resultMsg>OK</resultMsg></header><body><items></items><numOfRows>0</numOfRows><pageNo>1</pageNo><totalCount>0</totalCount></body></response>`)
	}))
	defer srv.Close()

	c := NewClient("k", srv.URL, 100)
	recs, err := c.Sales(context.Background(), "11010", window.Window{Start: "202501", End: "202501"})
	if err != nil {
		t.Fatalf("sales: %v", err)
	}
	if len(recs) != 0 {
		t.Fatalf("records = %d, want 0", len(recs))
	}
}

func TestSalesAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<?xml version="1.0" encoding="UTF-8"?><response><header><resultCode>30</resultCode><resultMsg>SERVICE_KEY_IS_NOT_REGISTERED_ERROR</resultMsg></header><body/></response>`)
	}))
	defer srv.Close()

	c := NewClient("bad", srv.URL, 100)
	if _, err := c.Sales(context.Background(), "11010", window.Window{Start: "202501", End: "202501"}); err == nil {
		t.Fatal("expected error for API result code 30")
	}
}

func TestSalesHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient("k", srv.URL, 100)
	if _, err := c.Sales(context.Background(), "11010", window.Window{Start: "202501", End: "202501"}); err == nil {
		t.Fatal("expected error for HTTP 500")
	}
}
