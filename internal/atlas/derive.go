package atlas

import (
	"math"
	"strings"

	"github.com/MikeSquared-Agency/Roost/internal/scoring"
)

// Derive converts raw neighborhood data into 0-100 scoring inputs. Categories
// with no data are omitted so the engine falls back to its neutral default.
func Derive(nd *NeighborhoodData, target CommuteTarget) scoring.NeighborhoodInputs {
	inputs := scoring.NeighborhoodInputs{}
	if v, ok := schoolsInput(nd.SchoolRatings); ok {
		inputs[scoring.CategorySchools] = v
	}
	if v, ok := crimeInput(nd.CrimeIndex); ok {
		inputs[scoring.CategoryCrime] = v
	}
	inputs[scoring.CategoryRestaurants] = venueInput(nd.RestaurantCount, 20, nd.RestaurantAvgRating)
	inputs[scoring.CategoryCommute] = commuteInput(nd, target)
	inputs[scoring.CategoryNightlife] = venueInput(nd.NightlifeCount, 10, nd.NightlifeAvgRating)
	inputs[scoring.CategoryGrocery] = groceryInput(nd.GroceryStores)
	return inputs
}

// schoolsInput averages 1-10 school ratings onto the 0-100 scale.
func schoolsInput(ratings []float64) (float64, bool) {
	if len(ratings) == 0 {
		return 0, false
	}
	var sum float64
	for _, r := range ratings {
		sum += r
	}
	return math.Round(sum / float64(len(ratings)) * 10), true
}

// crimeInput inverts a 0-100 crime index so safer scores higher.
func crimeInput(index *float64) (float64, bool) {
	if index == nil {
		return 0, false
	}
	return math.Round(max(0, 100-*index)), true
}

// venueInput is 50 points density plus 50 points quality. Density reaches
// full marks at fullAt venues; quality reaches it at a 4.5 average rating and
// sits at a neutral 25 when the source has no ratings.
func venueInput(count int, fullAt float64, avgRating *float64) float64 {
	density := min(50, math.Round(float64(count)/fullAt*50))
	quality := 25.0
	if avgRating != nil {
		quality = min(50, math.Round(*avgRating/4.5*50))
	}
	return density + quality
}

// commuteInput is 70 points drive time plus 30 points transit access. The
// drive estimate comes from the service when present, otherwise from the
// straight-line distance to the commute target.
func commuteInput(nd *NeighborhoodData, target CommuteTarget) float64 {
	minutes := 0
	if nd.DriveMinutes != nil {
		minutes = *nd.DriveMinutes
	} else {
		minutes = estimateDriveMinutes(nd.Lat, nd.Lon, target)
	}

	var drive float64
	switch {
	case minutes <= 10:
		drive = 70
	case minutes <= 20:
		drive = 55
	case minutes <= 30:
		drive = 40
	case minutes <= 45:
		drive = 25
	default:
		drive = 10
	}

	var transit float64
	switch {
	case nd.TransitStopCount >= 5:
		transit = 30
	case nd.TransitStopCount >= 2:
		transit = 15
	}
	return drive + transit
}

// groceryInput is 40 points variety (unique stores within 3 miles), 30 points
// closest-store distance, and 30 points for a warehouse club run. No stores
// at all scores zero, not neutral.
func groceryInput(stores []GroceryStore) float64 {
	if len(stores) == 0 {
		return 0
	}

	unique := make(map[string]struct{})
	closest := math.MaxFloat64
	club := math.MaxFloat64
	for _, s := range stores {
		name := strings.ToLower(s.Name)
		if s.DistanceMiles <= 3 {
			unique[name] = struct{}{}
		}
		if s.DistanceMiles < closest {
			closest = s.DistanceMiles
		}
		if strings.Contains(name, "costco") && s.DistanceMiles < club {
			club = s.DistanceMiles
		}
	}

	variety := min(40, math.Round(float64(len(unique))/5*40))

	var proximity float64
	switch {
	case closest <= 0.5:
		proximity = 30
	case closest <= 1:
		proximity = 25
	case closest <= 2:
		proximity = 15
	case closest <= 3:
		proximity = 10
	}

	var wholesale float64
	switch {
	case club <= 3:
		wholesale = 30
	case club <= 5:
		wholesale = 20
	case club <= 10:
		wholesale = 10
	}

	return variety + proximity + wholesale
}
