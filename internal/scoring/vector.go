package scoring

import "math"

// Category names one of the ten scored dimensions.
type Category string

const (
	CategoryPrice       Category = "price"
	CategoryRooms       Category = "rooms"
	CategoryNecessities Category = "necessities"
	CategoryNiceToHaves Category = "nice_to_haves"
	CategorySchools     Category = "schools"
	CategoryCrime       Category = "crime"
	CategoryRestaurants Category = "restaurants"
	CategoryCommute     Category = "commute"
	CategoryNightlife   Category = "nightlife"
	CategoryGrocery     Category = "grocery"
)

// AllCategories lists the ten categories in vector order.
func AllCategories() []Category {
	return []Category{
		CategoryPrice,
		CategoryRooms,
		CategoryNecessities,
		CategoryNiceToHaves,
		CategorySchools,
		CategoryCrime,
		CategoryRestaurants,
		CategoryCommute,
		CategoryNightlife,
		CategoryGrocery,
	}
}

// NeighborhoodCategories lists the six categories an enrichment source supplies.
func NeighborhoodCategories() []Category {
	return []Category{
		CategorySchools,
		CategoryCrime,
		CategoryRestaurants,
		CategoryCommute,
		CategoryNightlife,
		CategoryGrocery,
	}
}

// Vector is the fixed-shape output of one scoring call: the ten category
// scores plus the overall aggregate, each an integer in [0, 100].
type Vector struct {
	Price       int `json:"price"`
	Rooms       int `json:"rooms"`
	Necessities int `json:"necessities"`
	NiceToHaves int `json:"nice_to_haves"`
	Schools     int `json:"schools"`
	Crime       int `json:"crime"`
	Restaurants int `json:"restaurants"`
	Commute     int `json:"commute"`
	Nightlife   int `json:"nightlife"`
	Grocery     int `json:"grocery"`
	Overall     int `json:"overall"`
}

// ByCategory returns the vector entry for c, or 0 for an unknown category.
func (v Vector) ByCategory(c Category) int {
	switch c {
	case CategoryPrice:
		return v.Price
	case CategoryRooms:
		return v.Rooms
	case CategoryNecessities:
		return v.Necessities
	case CategoryNiceToHaves:
		return v.NiceToHaves
	case CategorySchools:
		return v.Schools
	case CategoryCrime:
		return v.Crime
	case CategoryRestaurants:
		return v.Restaurants
	case CategoryCommute:
		return v.Commute
	case CategoryNightlife:
		return v.Nightlife
	case CategoryGrocery:
		return v.Grocery
	}
	return 0
}

func (v *Vector) set(c Category, score int) {
	switch c {
	case CategoryPrice:
		v.Price = score
	case CategoryRooms:
		v.Rooms = score
	case CategoryNecessities:
		v.Necessities = score
	case CategoryNiceToHaves:
		v.NiceToHaves = score
	case CategorySchools:
		v.Schools = score
	case CategoryCrime:
		v.Crime = score
	case CategoryRestaurants:
		v.Restaurants = score
	case CategoryCommute:
		v.Commute = score
	case CategoryNightlife:
		v.Nightlife = score
	case CategoryGrocery:
		v.Grocery = score
	}
}

// Breakdown computes the ten per-category rows for one unit, in vector order.
// It is pure and total: missing fields resolve through the defaults table and
// never produce an error.
func Breakdown(u Unit, p Profile) []CategoryScore {
	r := resolve(u, p)

	rows := make([]CategoryScore, 0, 10)
	rows = append(rows,
		PriceScore(r.rent, p),
		RoomsScore(r.bedrooms, r.bathrooms, r.sqft, p),
		NecessitiesScore(r.amenities, p),
		NiceToHavesScore(r.amenities, p),
	)
	for _, c := range NeighborhoodCategories() {
		rows = append(rows, NeighborhoodScore(c, u.Neighborhood))
	}
	return rows
}

// Score computes the full vector for one unit: the ten categories plus the
// overall, which is the unweighted mean of the ten rounded to an integer.
func Score(u Unit, p Profile) Vector {
	rows := Breakdown(u, p)

	var v Vector
	sum := 0
	for _, row := range rows {
		v.set(row.Category, row.Score)
		sum += row.Score
	}
	v.Overall = roundScore(float64(sum) / float64(len(rows)))
	return v
}

// roundScore rounds half away from zero, so 62.5 becomes 63.
func roundScore(v float64) int {
	return int(math.Round(v))
}

// Tier buckets a score for display: green at 75 and above, yellow at 50 and
// above, red below.
func Tier(score int) string {
	switch {
	case score >= 75:
		return "green"
	case score >= 50:
		return "yellow"
	default:
		return "red"
	}
}
