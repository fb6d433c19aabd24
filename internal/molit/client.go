// Package molit is a client for the MOLIT apartment sale transaction API
// (국토교통부 아파트매매 실거래 상세 자료). One call covers a single region
// code and month; the client pages through results and concatenates months
// across a collection window.
package molit

import (
	"context"
	"encoding/xml"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"aptrade/internal/window"
)

// DefaultBaseURL is the production endpoint for detailed apartment sale data.
const DefaultBaseURL = "http://apis.data.go.kr/1613000/RTMSDataSvcAptTradeDev/getRTMSDataSvcAptTradeDev"

// The endpoint is specific to one property and trade type.
const (
	PropertyType = "아파트"
	TradeType    = "매매"
)

const defaultPageSize = 1000

type Client struct {
	http       *http.Client
	baseURL    string
	serviceKey string
	pageSize   int
}

// NewClient creates a client with the given decoded service key. baseURL
// defaults to DefaultBaseURL when empty; pageSize defaults to 1000.
func NewClient(serviceKey, baseURL string, pageSize int) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	return &Client{
		http:       newPooledHTTPClient(),
		baseURL:    baseURL,
		serviceKey: serviceKey,
		pageSize:   pageSize,
	}
}

// newPooledHTTPClient builds an HTTP client with connection pooling and
// conservative timeouts; a full run issues thousands of requests against the
// same host.
func newPooledHTTPClient() *http.Client {
	dialer := &net.Dialer{
		Timeout:   30 * time.Second,
		KeepAlive: 30 * time.Second,
	}
	transport := &http.Transport{
		DialContext:           dialer.DialContext,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: 30 * time.Second,
	}
	return &http.Client{
		Transport: transport,
		Timeout:   60 * time.Second,
	}
}

// Sales returns every transaction reported for the region across the window,
// in API order. A region with no transactions yields an empty slice.
func (c *Client) Sales(ctx context.Context, regionCode string, w window.Window) ([]Record, error) {
	var out []Record
	for _, ym := range w.Months() {
		for page := 1; ; page++ {
			env, err := c.fetchPage(ctx, regionCode, ym, page)
			if err != nil {
				return nil, fmt.Errorf("fetch %s %s page %d: %w", regionCode, ym, page, err)
			}
			out = append(out, env.Body.Items.Item...)
			if len(env.Body.Items.Item) == 0 || page*c.pageSize >= env.Body.TotalCount {
				break
			}
		}
	}
	return out, nil
}

func (c *Client) fetchPage(ctx context.Context, regionCode, yearMonth string, page int) (*envelope, error) {
	q := url.Values{}
	q.Set("serviceKey", c.serviceKey)
	q.Set("LAWD_CD", regionCode)
	q.Set("DEAL_YMD", yearMonth)
	q.Set("pageNo", strconv.Itoa(page))
	q.Set("numOfRows", strconv.Itoa(c.pageSize))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}

	var env envelope
	if err := xml.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if !env.ok() {
		return nil, fmt.Errorf("API error %s: %s", env.Header.ResultCode, env.Header.ResultMsg)
	}
	return &env, nil
}
