package scoring

// Profile holds the renter's target values. Every scoring call takes a Profile
// explicitly; nothing in this package reads configuration from a global.
//
// A malformed profile is still a valid input: an empty Necessities set makes the
// necessities category vacuously 100, and an empty NiceToHaves set makes that
// category 100 for every unit.
type Profile struct {
	BudgetCap         int         `json:"budget_cap"`
	MarketAverageRent int         `json:"market_average_rent"`
	IdealBedrooms     int         `json:"ideal_bedrooms"`
	IdealBathrooms    int         `json:"ideal_bathrooms"`
	IdealAreaSqft     float64     `json:"ideal_area_sqft"`
	Necessities       []AmenityID `json:"necessities"`
	NiceToHaves       []AmenityID `json:"nice_to_haves"`
}

// DefaultProfile returns the baseline profile: a $2500 cap against a $1750
// market average, a 2bd/2ba/1000sqft target, and the stock amenity preferences.
func DefaultProfile() Profile {
	return Profile{
		BudgetCap:         2500,
		MarketAverageRent: 1750,
		IdealBedrooms:     2,
		IdealBathrooms:    2,
		IdealAreaSqft:     1000,
		Necessities: []AmenityID{
			AmenityCoveredParking,
			AmenityDishwasher,
			AmenityInUnitLaundry,
			AmenityAC,
		},
		NiceToHaves: []AmenityID{
			AmenityPool,
			AmenitySaunaHotTub,
			AmenityGym,
			AmenityPackageLockers,
		},
	}
}
