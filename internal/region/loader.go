package region

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// DefaultCodeTableURL is the public legal-dong code table download.
const DefaultCodeTableURL = "https://raw.githubusercontent.com/WooilJeong/PublicDataReader/main/PublicDataReader/data/code_bdong.csv"

// Cache stores the downloaded directory between runs.
type Cache interface {
	LoadRegions(ctx context.Context, maxAge time.Duration) ([]Region, error)
	SaveRegions(ctx context.Context, regions []Region) error
}

// Loader fetches the region directory, preferring a local cache over the
// network source.
type Loader struct {
	http  *http.Client
	url   string
	cache Cache
	ttl   time.Duration
}

// NewLoader creates a loader for the given code table URL. cache may be nil,
// in which case every run downloads the table.
func NewLoader(url string, cache Cache, ttl time.Duration) *Loader {
	if url == "" {
		url = DefaultCodeTableURL
	}
	return &Loader{
		http:  &http.Client{Timeout: 60 * time.Second},
		url:   url,
		cache: cache,
		ttl:   ttl,
	}
}

// Load returns the full region directory. A usable cache entry short-circuits
// the download; after a download the cache is refreshed best-effort.
func (l *Loader) Load(ctx context.Context) (*Directory, error) {
	if l.cache != nil {
		regions, err := l.cache.LoadRegions(ctx, l.ttl)
		if err == nil && len(regions) > 0 {
			dir := NewDirectory(regions)
			slog.InfoContext(ctx, "Region directory loaded from cache", "regions", dir.Len())
			return dir, nil
		}
		if err != nil {
			slog.WarnContext(ctx, "Region cache unavailable, downloading code table", "error", err)
		}
	}

	regions, err := l.download(ctx)
	if err != nil {
		return nil, fmt.Errorf("download region code table: %w", err)
	}
	dir := NewDirectory(regions)
	if dir.Len() == 0 {
		return nil, fmt.Errorf("region code table at %s contained no regions", l.url)
	}
	slog.InfoContext(ctx, "Region directory downloaded", "regions", dir.Len(), "url", l.url)

	if l.cache != nil {
		if err := l.cache.SaveRegions(ctx, dir.Regions()); err != nil {
			slog.WarnContext(ctx, "Failed to refresh region cache", "error", err)
		}
	}
	return dir, nil
}

func (l *Loader) download(ctx context.Context) ([]Region, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	resp, err := l.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}
	return ParseCodeTable(resp.Body)
}

// ParseCodeTable reads the legal-dong code CSV and extracts one entry per
// sigungu code. Abolished entries (폐지여부 != 존재) are skipped; the sigungu
// code is the first five digits of the full legal-dong code.
func ParseCodeTable(r io.Reader) ([]Region, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	col := func(name string) int {
		for i, h := range header {
			if strings.TrimSpace(h) == name {
				return i
			}
		}
		return -1
	}
	codeIdx := col("법정동코드")
	provIdx := col("시도명")
	muniIdx := col("시군구명")
	statusIdx := col("폐지여부")
	if codeIdx < 0 || provIdx < 0 || muniIdx < 0 {
		return nil, fmt.Errorf("code table header missing required columns: %v", header)
	}

	field := func(rec []string, idx int) string {
		if idx < 0 || idx >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[idx])
	}

	var out []Region
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		if statusIdx >= 0 {
			if s := field(rec, statusIdx); s != "" && s != "존재" {
				continue
			}
		}
		code := field(rec, codeIdx)
		if len(code) < 5 {
			continue
		}
		out = append(out, Region{
			Code:         code[:5],
			Province:     field(rec, provIdx),
			Municipality: field(rec, muniIdx),
		})
	}
	return out, nil
}
