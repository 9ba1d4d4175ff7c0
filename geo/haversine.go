package geo

import "math"

const EarthRadiusKm = 6371.0

// MetersPerMile is the exact conversion used for store radius queries.
const MetersPerMile = 1609.34

const KmToMiles = 0.621371

// Point is a WGS84 coordinate.
type Point struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// IsZero reports whether the point was never set.
func (p Point) IsZero() bool {
	return p.Lat == 0 && p.Lon == 0
}

// Valid reports whether the coordinate is within WGS84 bounds.
func (p Point) Valid() bool {
	return p.Lat >= -90 && p.Lat <= 90 && p.Lon >= -180 && p.Lon <= 180
}

func MilesToMeters(miles float64) float64 {
	return miles * MetersPerMile
}

// DistanceKm returns the great-circle distance between a and b using the haversine formula.
func DistanceKm(a, b Point) float64 {
	lat1 := toRadians(a.Lat)
	lat2 := toRadians(b.Lat)
	dLat := toRadians(b.Lat - a.Lat)
	dLon := toRadians(b.Lon - a.Lon)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return EarthRadiusKm * c
}

func DistanceMiles(a, b Point) float64 {
	return DistanceKm(a, b) * KmToMiles
}

func DistanceMeters(a, b Point) float64 {
	return DistanceKm(a, b) * 1000
}

// BoundingBox returns the south-west and north-east corners of the box enclosing
// the circle of radiusMeters around p.
// Longitude bounds widen to the full range near the poles.
func BoundingBox(p Point, radiusMeters float64) (sw, ne Point) {
	angular := radiusMeters / (EarthRadiusKm * 1000)
	dLat := toDegrees(angular)

	minLat := math.Max(p.Lat-dLat, -90)
	maxLat := math.Min(p.Lat+dLat, 90)

	cosLat := math.Cos(toRadians(p.Lat))
	if cosLat < 1e-9 || minLat == -90 || maxLat == 90 {
		return Point{Lat: minLat, Lon: -180}, Point{Lat: maxLat, Lon: 180}
	}
	dLon := toDegrees(math.Asin(math.Min(1, math.Sin(angular)/cosLat)))
	return Point{Lat: minLat, Lon: p.Lon - dLon}, Point{Lat: maxLat, Lon: p.Lon + dLon}
}

func toRadians(deg float64) float64 { return deg * math.Pi / 180 }
func toDegrees(rad float64) float64 { return rad * 180 / math.Pi }
