package scout

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/MikeSquared-Agency/Roost/internal/scoring"
)

// amenityKeywords maps each amenity to the phrases listing sites use for it.
// Matching is substring on lowercased page text, most specific phrase first.
var amenityKeywords = map[scoring.AmenityID][]string{
	scoring.AmenityCoveredParking: {
		"covered parking", "garage parking", "indoor parking", "heated parking",
		"parking garage", "underground parking", "heated underground",
	},
	scoring.AmenityDishwasher: {"dishwasher"},
	scoring.AmenityInUnitLaundry: {
		"in-unit laundry", "in unit laundry", "washer/dryer", "washer and dryer",
		"in-home laundry", "w/d in unit", "washer & dryer", "in unit washer",
		"full-size washer", "in-unit washer", "washer dryer",
	},
	scoring.AmenityAC: {
		"air conditioning", "a/c", "central air", "climate control", "air-conditioning",
	},
	scoring.AmenityPool:        {"pool", "swimming"},
	scoring.AmenitySaunaHotTub: {"sauna", "hot tub", "spa", "steam room"},
	scoring.AmenityGym: {
		"gym", "fitness center", "fitness room", "exercise room", "workout", "fitness",
	},
	scoring.AmenityPackageLockers: {
		"package locker", "parcel locker", "package room", "mailroom",
		"package concierge", "package",
	},
}

var tourPatterns = []string{
	"matterport", "tour.realync", "3dtour", "virtual-tour",
	"virtualtour", "my.tour", "3d-plan", "plan-3d",
}

var (
	bedRe      = regexp.MustCompile(`(\d+)\s*(?:bedroom|bed|br)`)
	bedSplitRe = regexp.MustCompile(`(?i)\d+\s*(?:bedroom|bed|br)`)
	bathRe     = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(?:bathroom|bath|ba)`)

	sqftRes = []*regexp.Regexp{
		regexp.MustCompile(`total\s+(?:interior\s+)?(?:livable\s+)?sq\s*ft[:\s]*([\d,]+)`),
		regexp.MustCompile(`([\d,]+)\s*(?:sq\s*ft|sqft|sf|square\s*feet)`),
		regexp.MustCompile(`(?:sq\s*ft|sqft)[:\s]*([\d,]+)`),
	}

	// "#115 available now, $2,399/mo"
	unitRe        = regexp.MustCompile(`(?i)#(\w+)\s+available\s+([^,]+),\s*\$([\d,]+)/mo`)
	monthlyRentRe = regexp.MustCompile(`\$([\d,]+)\s*/\s*mo`)
	bareDollarRe  = regexp.MustCompile(`\$([\d,]+)`)
	serviceFeeRe  = regexp.MustCompile(`service\s+fee[:\s]*\$([\d,]+)`)

	mnAddressRe = regexp.MustCompile(
		`\d+\s+[A-Za-z\s]+(?:St|Street|Ave|Avenue|Blvd|Boulevard|Dr|Drive|Rd|Road|Way|Ln|Lane|Ct|Court)[^,]*,\s*[A-Za-z\s]+,\s*MN\s*\d{5}`)
	usAddressRe = regexp.MustCompile(
		`\d+\s+[A-Za-z\s]+(?:St|Street|Ave|Avenue|Blvd|Boulevard|Dr|Drive|Rd|Road|Way|Ln|Lane)[^,]*,\s*[A-Za-z\s]+,\s*[A-Z]{2}\s*\d{5}`)

	tourLinkRe = regexp.MustCompile(`(?i)(?:href|src)\s*=\s*["']([^"'<>]+)["']`)
)

func parseListing(pageURL, title, text, html string) *Listing {
	return &Listing{
		URL:       pageURL,
		Name:      listingName(title, pageURL),
		Address:   extractAddress(text),
		Plans:     parseFloorPlans(text),
		Amenities: classifyAmenities(strings.ToLower(text)),
		TourURL:   extractTourURL(html),
	}
}

// listingName cleans the page title down to the building name, falling back
// to the domain when the title is useless.
func listingName(title, pageURL string) string {
	name := strings.TrimSpace(title)
	for _, sep := range []string{"|", "-", "–", ":", "•"} {
		if i := strings.Index(name, sep); i >= 0 {
			name = strings.TrimSpace(name[:i])
		}
	}
	if name != "" && len(name) < 100 {
		return name
	}

	parsed, err := url.Parse(pageURL)
	if err != nil || parsed.Host == "" {
		return ""
	}
	host := strings.TrimPrefix(parsed.Host, "www.")
	base, _, _ := strings.Cut(host, ".")
	if base == "" {
		return ""
	}
	return strings.ToUpper(base[:1]) + base[1:]
}

func extractAddress(text string) string {
	if m := mnAddressRe.FindString(text); m != "" {
		return strings.TrimSpace(m)
	}
	if m := usAddressRe.FindString(text); m != "" {
		return strings.TrimSpace(m)
	}
	return ""
}

// parseFloorPlans chunks the page text at each bedroom mention and parses
// every chunk that looks like a priced floor plan.
func parseFloorPlans(text string) []FloorPlan {
	var plans []FloorPlan
	locs := bedSplitRe.FindAllStringIndex(text, -1)
	for i, loc := range locs {
		end := len(text)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		chunk := text[loc[0]:end]
		if len(chunk) < 20 || len(chunk) > 2000 {
			continue
		}
		if plan, ok := parsePlanText(chunk); ok {
			plans = append(plans, plan)
		}
	}
	return plans
}

// parsePlanText pulls layout and pricing out of one text chunk. A chunk only
// counts as a plan when it names a bedroom count and at least one plausible
// price.
func parsePlanText(chunk string) (FloorPlan, bool) {
	lower := strings.ToLower(chunk)
	var p FloorPlan

	if m := bedRe.FindStringSubmatch(lower); m != nil {
		p.Bedrooms, _ = strconv.Atoi(m[1])
	}
	if p.Bedrooms == 0 {
		return FloorPlan{}, false
	}

	if m := bathRe.FindStringSubmatch(lower); m != nil {
		p.Bathrooms, _ = strconv.ParseFloat(m[1], 64)
	}

	for _, re := range sqftRes {
		m := re.FindStringSubmatch(lower)
		if m == nil {
			continue
		}
		if v, err := strconv.Atoi(strings.ReplaceAll(m[1], ",", "")); err == nil {
			p.Sqft = float64(v)
			break
		}
	}

	for _, m := range unitRe.FindAllStringSubmatch(chunk, -1) {
		rent, err := strconv.Atoi(strings.ReplaceAll(m[3], ",", ""))
		if err != nil {
			continue
		}
		p.Units = append(p.Units, Unit{
			Label:     "#" + m[1],
			Available: strings.TrimSpace(m[2]),
			Rent:      rent,
		})
	}
	if len(p.Units) == 0 {
		for _, m := range monthlyRentRe.FindAllStringSubmatch(chunk, -1) {
			if v, err := strconv.Atoi(strings.ReplaceAll(m[1], ",", "")); err == nil && v >= 500 && v <= 10000 {
				p.Units = append(p.Units, Unit{Label: "unknown", Available: "unknown", Rent: v})
			}
		}
	}
	if len(p.Units) == 0 {
		for _, m := range bareDollarRe.FindAllStringSubmatch(chunk, -1) {
			if v, err := strconv.Atoi(strings.ReplaceAll(m[1], ",", "")); err == nil && v >= 800 && v <= 5000 {
				p.Units = append(p.Units, Unit{Label: "unknown", Available: "unknown", Rent: v})
			}
		}
	}
	if len(p.Units) == 0 {
		return FloorPlan{}, false
	}

	if m := serviceFeeRe.FindStringSubmatch(lower); m != nil {
		if v, err := strconv.Atoi(strings.ReplaceAll(m[1], ",", "")); err == nil {
			p.ServiceFee = v
		}
	}
	return p, true
}

func classifyAmenities(pageText string) []scoring.AmenityID {
	var found []scoring.AmenityID
	for _, id := range scoring.KnownAmenities() {
		for _, kw := range amenityKeywords[id] {
			if strings.Contains(pageText, kw) {
				found = append(found, id)
				break
			}
		}
	}
	return found
}

func extractTourURL(html string) string {
	for _, m := range tourLinkRe.FindAllStringSubmatch(html, -1) {
		lower := strings.ToLower(m[1])
		for _, p := range tourPatterns {
			if strings.Contains(lower, p) {
				return m[1]
			}
		}
	}
	return ""
}
