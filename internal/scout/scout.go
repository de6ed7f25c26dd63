// Package scout pulls listing pages and digs the rentable facts out of them:
// floor plans with prices, amenity mentions, an address, a 3D tour link.
// Listing sites are hostile to scrapers, so everything here is best effort
// and the caller falls back to manual entry when a page yields nothing.
package scout

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	readability "github.com/go-shiori/go-readability"

	"github.com/MikeSquared-Agency/Roost/internal/scoring"
)

const browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 " +
	"(KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Listing is everything scraped from one page.
type Listing struct {
	URL       string
	Name      string
	Address   string
	Plans     []FloorPlan
	Amenities []scoring.AmenityID
	TourURL   string
}

// FloorPlan is one layout offered on a listing page. Bathrooms stays a float
// because half baths are advertised as 1.5 or 2.5.
type FloorPlan struct {
	Bedrooms   int
	Bathrooms  float64
	Sqft       float64
	Units      []Unit
	ServiceFee int
}

// Unit is one priced unit under a floor plan.
type Unit struct {
	Label     string
	Available string
	Rent      int
}

// BestRent is the lowest advertised rent across the plan's units, zero when
// no unit carried a price.
func (p FloorPlan) BestRent() int {
	best := 0
	for _, u := range p.Units {
		if u.Rent > 0 && (best == 0 || u.Rent < best) {
			best = u.Rent
		}
	}
	return best
}

type Scout interface {
	Fetch(ctx context.Context, pageURL string) (*Listing, error)
}

// HTTPScout fetches pages with a desktop browser profile and extracts the
// readable content before parsing.
type HTTPScout struct {
	httpClient *http.Client
	userAgent  string
	logger     *slog.Logger
}

// NewHTTPScout builds a scout with the given identity and timeout. An empty
// user agent falls back to the stock desktop profile, a non-positive timeout
// to 15s.
func NewHTTPScout(userAgent string, timeout time.Duration, logger *slog.Logger) *HTTPScout {
	if userAgent == "" {
		userAgent = browserUserAgent
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &HTTPScout{
		httpClient: &http.Client{Timeout: timeout},
		userAgent:  userAgent,
		logger:     logger,
	}
}

func (s *HTTPScout) Fetch(ctx context.Context, pageURL string) (*Listing, error) {
	html, article, err := s.fetchPage(ctx, pageURL)
	if err != nil {
		return nil, err
	}

	listing := parseListing(pageURL, article.Title, article.TextContent, html)

	// Floor-plan subpages often omit the building name and address; fill the
	// gaps from the site root when we can.
	if strings.Contains(strings.ToLower(pageURL), "/floor-plan") {
		s.mergeFromBase(ctx, pageURL, listing)
	}
	return listing, nil
}

func (s *HTTPScout) fetchPage(ctx context.Context, pageURL string) (string, readability.Article, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", readability.Article{}, fmt.Errorf("build listing request: %w", err)
	}
	req.Header.Set("User-Agent", s.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", readability.Article{}, fmt.Errorf("fetch listing: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", readability.Article{}, fmt.Errorf("fetch listing: status %d", resp.StatusCode)
	}

	html, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", readability.Article{}, fmt.Errorf("read listing: %w", err)
	}

	parsed, _ := url.Parse(pageURL)
	article, err := readability.FromReader(bytes.NewReader(html), parsed)
	if err != nil {
		return "", readability.Article{}, fmt.Errorf("extract listing content: %w", err)
	}
	return string(html), article, nil
}

// mergeFromBase scrapes the site root for fields the subpage was missing.
// Best effort only; the subpage result stands on any failure.
func (s *HTTPScout) mergeFromBase(ctx context.Context, pageURL string, listing *Listing) {
	parsed, err := url.Parse(pageURL)
	if err != nil {
		return
	}
	baseURL := parsed.Scheme + "://" + parsed.Host + "/"

	html, article, err := s.fetchPage(ctx, baseURL)
	if err != nil {
		s.logger.Debug("base page fetch failed", "url", baseURL, "error", err)
		return
	}
	base := parseListing(baseURL, article.Title, article.TextContent, html)

	if listing.Name == "" {
		listing.Name = base.Name
	}
	if listing.Address == "" {
		listing.Address = base.Address
	}
	listing.Amenities = mergeAmenities(listing.Amenities, base.Amenities)
	if listing.TourURL == "" {
		listing.TourURL = base.TourURL
	}
}

func mergeAmenities(a, b []scoring.AmenityID) []scoring.AmenityID {
	seen := make(map[scoring.AmenityID]struct{}, len(a))
	out := append([]scoring.AmenityID(nil), a...)
	for _, id := range a {
		seen[id] = struct{}{}
	}
	for _, id := range b {
		if _, ok := seen[id]; !ok {
			out = append(out, id)
		}
	}
	return out
}
