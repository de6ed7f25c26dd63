package scoring

// NeutralNeighborhood is the midpoint filled in for any neighborhood category
// the enrichment source did not supply.
const NeutralNeighborhood = 50.0

// resolve applies the documented defaults to a Unit in one pass, before any
// category function runs. This is the only place a missing field is filled:
//
//	rent       -> 0 (unknown rent is treated as within budget)
//	bedrooms   -> profile ideal (unknown layout is neutral, not penalized)
//	bathrooms  -> profile ideal
//	sqft       -> 0 (lowest area tier)
//	amenities  -> empty set
//	each neighborhood category -> NeutralNeighborhood, applied by
//	  NeighborhoodScore together with clamping to [0, 100]
type resolvedUnit struct {
	rent      int
	bedrooms  int
	bathrooms int
	sqft      float64
	amenities []AmenityID
}

func resolve(u Unit, p Profile) resolvedUnit {
	r := resolvedUnit{
		rent:      u.Rent,
		bedrooms:  p.IdealBedrooms,
		bathrooms: p.IdealBathrooms,
		sqft:      u.Sqft,
		amenities: u.Amenities,
	}
	if u.Bedrooms != nil {
		r.bedrooms = *u.Bedrooms
	}
	if u.Bathrooms != nil {
		r.bathrooms = *u.Bathrooms
	}
	if r.amenities == nil {
		r.amenities = []AmenityID{}
	}
	return r
}
