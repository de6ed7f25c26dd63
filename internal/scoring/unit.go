package scoring

// NeighborhoodInputs is a partial mapping of neighborhood category to an
// externally supplied 0-100 value. Missing categories fall back to the neutral
// midpoint; out-of-range values are clamped, never trusted.
type NeighborhoodInputs map[Category]float64

// Unit bundles the scoring-relevant fields of one apartment. Bedrooms and
// Bathrooms are pointers so an unknown layout can be told apart from a studio:
// nil means unknown and resolves to the profile's ideal, 0 means zero.
type Unit struct {
	Rent         int
	Bedrooms     *int
	Bathrooms    *int
	Sqft         float64
	Amenities    []AmenityID
	Neighborhood NeighborhoodInputs
}
