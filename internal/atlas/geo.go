package atlas

import "math"

// CommuteTarget is the point drive times are measured to.
type CommuteTarget struct {
	Name string
	Lat  float64
	Lon  float64
}

// DefaultCommuteTarget is the Excelsior Blvd corridor in Hopkins, MN.
func DefaultCommuteTarget() CommuteTarget {
	return CommuteTarget{Name: "Excelsior Blvd, Hopkins, MN", Lat: 44.9258, Lon: -93.4083}
}

const earthRadiusMiles = 3959

func haversineMiles(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := radians(lat2 - lat1)
	dLon := radians(lon2 - lon1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(radians(lat1))*math.Cos(radians(lat2))*math.Sin(dLon/2)*math.Sin(dLon/2)
	return earthRadiusMiles * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

func radians(deg float64) float64 { return deg * math.Pi / 180 }

// estimateDriveMinutes turns straight-line distance into a metro drive
// estimate: road factor 1.4 over the crow-flies miles at an average 25 mph.
func estimateDriveMinutes(lat, lon float64, target CommuteTarget) int {
	roadMiles := haversineMiles(lat, lon, target.Lat, target.Lon) * 1.4
	return int(math.Round(roadMiles / 25 * 60))
}
