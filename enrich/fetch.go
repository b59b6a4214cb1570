package enrich

import (
	"context"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/net/html"

	"github.com/fluxstack/catalog/models"
)

// DefaultTimeout is the hard cap on a metadata fetch. Enrichment degrades to
// the fallback record rather than hanging the request.
const DefaultTimeout = 5 * time.Second

// Pages larger than this are truncated before parsing; metadata lives in the
// document head.
const maxBodyBytes = 1 << 20

// Service fetches pages and produces enrichment records.
type Service struct {
	client  *http.Client
	timeout time.Duration
}

// NewService creates an enrichment service with the given fetch timeout.
// A non-positive timeout selects DefaultTimeout.
func NewService(timeout time.Duration) *Service {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Service{
		client:  &http.Client{Timeout: timeout},
		timeout: timeout,
	}
}

// Enrich fetches targetURL and normalizes its metadata. Every failure mode
// (bad URL, timeout, non-200 status, unparseable body) returns the fallback
// record instead of an error.
func (s *Service) Enrich(ctx context.Context, targetURL string) models.Enrichment {
	parsed, err := url.Parse(targetURL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return Fallback(targetURL)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return Fallback(targetURL)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; CatalogBot/1.0)")

	resp, err := s.client.Do(req)
	if err != nil {
		log.Printf("enrichment fetch failed for %s, using fallback: %v", targetURL, err)
		return Fallback(targetURL)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Printf("enrichment fetch for %s returned %d, using fallback", targetURL, resp.StatusCode)
		return Fallback(targetURL)
	}

	doc, err := html.Parse(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return Fallback(targetURL)
	}

	return Normalize(ExtractMetadata(doc), targetURL)
}
