package weather

import (
	"fmt"

	"github.com/kelvins/geocoder"
)

// Geocoder resolves a location's coordinates from its city and country.
type Geocoder func(loc Location) (lat, lon float64, err error)

// GoogleGeocoder returns a Geocoder backed by the Google Geocoding API.
func GoogleGeocoder(apiKey string) Geocoder {
	return func(loc Location) (float64, float64, error) {
		// The geocoder package reads its key from a package variable.
		geocoder.ApiKey = apiKey
		res, err := geocoder.Geocoding(geocoder.Address{
			City:    loc.City,
			Country: loc.Country,
		})
		if err != nil {
			return 0, 0, err
		}
		return res.Latitude, res.Longitude, nil
	}
}

// ResolveLocation fills in missing coordinates using geocode.
// Locations that already have coordinates, or a nil geocode, are returned unchanged.
func ResolveLocation(loc Location, geocode Geocoder) (Location, error) {
	if loc.HasCoordinates() || geocode == nil {
		return loc, nil
	}
	if loc.City == "" {
		return loc, fmt.Errorf("cannot geocode a location without a city")
	}
	lat, lon, err := geocode(loc)
	if err != nil {
		return loc, fmt.Errorf("geocode %s: %w", loc.Key(), err)
	}
	loc.Lat = &lat
	loc.Lon = &lon
	return loc, nil
}
