package scout

import (
	"strings"
	"testing"

	"github.com/MikeSquared-Agency/Roost/internal/scoring"
)

func TestParsePlanTextFullChunk(t *testing.T) {
	chunk := "2 Bedroom / 2 Bath Total Sq Ft: 1,150 " +
		"#115 available now, $2,399/mo #204 available Dec 1, $2,499/mo " +
		"Service fee: $150"

	plan, ok := parsePlanText(chunk)
	if !ok {
		t.Fatal("expected a parsed plan")
	}
	if plan.Bedrooms != 2 {
		t.Errorf("bedrooms = %d, want 2", plan.Bedrooms)
	}
	if plan.Bathrooms != 2 {
		t.Errorf("bathrooms = %v, want 2", plan.Bathrooms)
	}
	if plan.Sqft != 1150 {
		t.Errorf("sqft = %v, want 1150", plan.Sqft)
	}
	if len(plan.Units) != 2 {
		t.Fatalf("units = %d, want 2", len(plan.Units))
	}
	if plan.Units[0].Label != "#115" || plan.Units[0].Available != "now" || plan.Units[0].Rent != 2399 {
		t.Errorf("first unit = %+v", plan.Units[0])
	}
	if plan.Units[1].Rent != 2499 {
		t.Errorf("second unit rent = %d, want 2499", plan.Units[1].Rent)
	}
	if plan.ServiceFee != 150 {
		t.Errorf("service fee = %d, want 150", plan.ServiceFee)
	}
	if plan.BestRent() != 2399 {
		t.Errorf("best rent = %d, want 2399", plan.BestRent())
	}
}

func TestParsePlanTextPriceFallbacks(t *testing.T) {
	tests := []struct {
		name      string
		chunk     string
		wantOK    bool
		wantRents []int
	}{
		{
			"monthly prices without unit numbers",
			"2 bed 1 bath apartment from $1,450 /mo and $1,650/mo this month",
			true,
			[]int{1450, 1650},
		},
		{
			"bare dollar amounts in rent range",
			"3 br unit, rent $2,100, deposit $500, premium penthouse $12,000",
			true,
			[]int{2100},
		},
		{
			"no price at all",
			"2 bedroom with lovely views and hardwood floors throughout",
			false,
			nil,
		},
		{
			"no bedroom count",
			"spacious apartment with den, $1,800/mo, call today",
			false,
			nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan, ok := parsePlanText(tt.chunk)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if len(plan.Units) != len(tt.wantRents) {
				t.Fatalf("units = %d, want %d", len(plan.Units), len(tt.wantRents))
			}
			for i, want := range tt.wantRents {
				if plan.Units[i].Rent != want {
					t.Errorf("unit %d rent = %d, want %d", i, plan.Units[i].Rent, want)
				}
			}
		})
	}
}

func TestParsePlanTextHalfBath(t *testing.T) {
	plan, ok := parsePlanText("2 bed 2.5 bath townhome $1,900/mo")
	if !ok {
		t.Fatal("expected a parsed plan")
	}
	if plan.Bathrooms != 2.5 {
		t.Errorf("bathrooms = %v, want 2.5", plan.Bathrooms)
	}
}

func TestParseFloorPlansChunksOnBedroomMentions(t *testing.T) {
	text := "Floor Plans at The Elmwood. " +
		"1 Bedroom 1 Bath 750 sqft starting at $1,395/mo available today. " +
		"2 Bedroom 2 Bath 1,100 sqft starting at $1,995/mo with balcony."

	plans := parseFloorPlans(text)
	if len(plans) != 2 {
		t.Fatalf("plans = %d, want 2", len(plans))
	}
	if plans[0].Bedrooms != 1 || plans[0].Sqft != 750 || plans[0].BestRent() != 1395 {
		t.Errorf("first plan = %+v", plans[0])
	}
	if plans[1].Bedrooms != 2 || plans[1].Sqft != 1100 || plans[1].BestRent() != 1995 {
		t.Errorf("second plan = %+v", plans[1])
	}
}

func TestParseFloorPlansSkipsUnpricedChatter(t *testing.T) {
	text := "Our 2 bedroom homes are beautiful. Schedule a tour of a 1 bedroom today."
	if plans := parseFloorPlans(text); len(plans) != 0 {
		t.Errorf("expected no plans from unpriced text, got %+v", plans)
	}
}

func TestClassifyAmenities(t *testing.T) {
	text := strings.ToLower("Heated underground parking, dishwasher in every unit, " +
		"in-unit laundry, central air, outdoor pool, private sauna, " +
		"fitness center, and package lockers in the lobby.")

	got := classifyAmenities(text)
	want := []scoring.AmenityID{
		scoring.AmenityCoveredParking, scoring.AmenityDishwasher,
		scoring.AmenityInUnitLaundry, scoring.AmenityAC,
		scoring.AmenityPool, scoring.AmenitySaunaHotTub,
		scoring.AmenityGym, scoring.AmenityPackageLockers,
	}
	if len(got) != len(want) {
		t.Fatalf("classified %v, want all of %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("amenity %d = %s, want %s", i, got[i], want[i])
		}
	}

	if got := classifyAmenities("granite countertops and a nice view"); len(got) != 0 {
		t.Errorf("expected nothing classified, got %v", got)
	}
}

func TestExtractAddress(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{
			"minnesota address",
			"Come live at 400 Excelsior Blvd, Hopkins, MN 55343 near the trail",
			"400 Excelsior Blvd, Hopkins, MN 55343",
		},
		{
			"out of state address",
			"Located at 1234 Maple Street, Madison, WI 53703 downtown",
			"1234 Maple Street, Madison, WI 53703",
		},
		{
			"no address",
			"Call today to schedule your tour of our community",
			"",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := extractAddress(tt.text); got != tt.want {
				t.Errorf("extractAddress = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestListingName(t *testing.T) {
	tests := []struct {
		name    string
		title   string
		pageURL string
		want    string
	}{
		{"title with separator", "The Elmwood | Apartments in Hopkins, MN", "https://example.com", "The Elmwood"},
		{"title with dash", "Luxury Living - Edina", "https://example.com", "Luxury Living"},
		{"empty title falls back to domain", "", "https://www.frededina.com/floor-plans", "Frededina"},
		{"plain title", "The Nordic Apartments", "https://example.com", "The Nordic Apartments"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := listingName(tt.title, tt.pageURL); got != tt.want {
				t.Errorf("listingName = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExtractTourURL(t *testing.T) {
	html := `<html><body>
		<link rel="stylesheet" href="/css/site.css">
		<a href="/contact">Contact</a>
		<a href="https://my.matterport.com/show/?m=abc123">Take the 3D Tour</a>
		<iframe src="https://player.example.com/promo"></iframe>
	</body></html>`

	if got := extractTourURL(html); got != "https://my.matterport.com/show/?m=abc123" {
		t.Errorf("tour url = %q", got)
	}

	iframeOnly := `<iframe src="https://tours.example.com/virtual-tour/unit2"></iframe>`
	if got := extractTourURL(iframeOnly); got != "https://tours.example.com/virtual-tour/unit2" {
		t.Errorf("iframe tour url = %q", got)
	}

	if got := extractTourURL(`<a href="/about">About us</a>`); got != "" {
		t.Errorf("expected no tour url, got %q", got)
	}
}

func TestParseListing(t *testing.T) {
	text := "The Elmwood. 400 Excelsior Blvd, Hopkins, MN 55343. " +
		"2 Bedroom 2 Bath 1,050 sq ft #301 available now, $2,250/mo. " +
		"Heated underground parking and in-unit laundry."
	html := `<a href="https://my.matterport.com/show/?m=elm">Tour</a>`

	l := parseListing("https://elmwood.example.com", "The Elmwood | Hopkins", text, html)

	if l.Name != "The Elmwood" {
		t.Errorf("name = %q", l.Name)
	}
	if l.Address != "400 Excelsior Blvd, Hopkins, MN 55343" {
		t.Errorf("address = %q", l.Address)
	}
	if len(l.Plans) != 1 || l.Plans[0].BestRent() != 2250 {
		t.Errorf("plans = %+v", l.Plans)
	}
	if len(l.Amenities) != 2 {
		t.Errorf("amenities = %v, want covered parking and laundry", l.Amenities)
	}
	if l.TourURL != "https://my.matterport.com/show/?m=elm" {
		t.Errorf("tour = %q", l.TourURL)
	}
}

func TestBestRent(t *testing.T) {
	if got := (FloorPlan{}).BestRent(); got != 0 {
		t.Errorf("empty plan best rent = %d, want 0", got)
	}
	p := FloorPlan{Units: []Unit{{Rent: 2399}, {Rent: 1995}, {Rent: 0}}}
	if got := p.BestRent(); got != 1995 {
		t.Errorf("best rent = %d, want 1995", got)
	}
}
