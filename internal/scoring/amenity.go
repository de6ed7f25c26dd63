package scoring

// AmenityID is the canonical identifier for a unit amenity. The scraper and the
// manual-entry path both normalize to these before a record is scored. IDs
// outside this list are carried through untouched; they just never match a
// preference.
type AmenityID string

const (
	AmenityCoveredParking AmenityID = "covered_parking"
	AmenityDishwasher     AmenityID = "dishwasher"
	AmenityInUnitLaundry  AmenityID = "in_unit_laundry"
	AmenityAC             AmenityID = "ac"
	AmenityPool           AmenityID = "pool"
	AmenitySaunaHotTub    AmenityID = "sauna_hot_tub"
	AmenityGym            AmenityID = "gym"
	AmenityPackageLockers AmenityID = "package_lockers"
)

// KnownAmenities lists every canonical amenity in display order.
func KnownAmenities() []AmenityID {
	return []AmenityID{
		AmenityCoveredParking,
		AmenityDishwasher,
		AmenityInUnitLaundry,
		AmenityAC,
		AmenityPool,
		AmenitySaunaHotTub,
		AmenityGym,
		AmenityPackageLockers,
	}
}

func hasAmenity(set []AmenityID, want AmenityID) bool {
	for _, a := range set {
		if a == want {
			return true
		}
	}
	return false
}
