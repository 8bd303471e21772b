package payload

import "strings"

const geoMarker = "geo:"

func geoScheme() Scheme {
	return Scheme{
		Kind: KindGeolocation,
		Schema: Schema{
			{Name: "latitude", Label: "Latitude", Required: true, Type: TypeDecimal},
			{Name: "longitude", Label: "Longitude", Required: true, Type: TypeDecimal},
		},
		Detect:  func(text string) bool { return hasMarker(text, geoMarker) },
		Encode:  encodeGeo,
		Decode:  decodeGeo,
		Display: displayGeo,
	}
}

// geo:<lat>,<lon> in decimal degrees without padding.
func encodeGeo(v Values) (string, error) {
	lat, _ := parseDecimal(v["latitude"])
	lon, _ := parseDecimal(v["longitude"])
	if lat < -90 || lat > 90 {
		return "", invalid("latitude", "must be between -90 and 90")
	}
	if lon < -180 || lon > 180 {
		return "", invalid("longitude", "must be between -180 and 180")
	}
	return geoMarker + formatDecimal(lat) + "," + formatDecimal(lon), nil
}

// ParseGeoURI extracts in-range coordinates from a "geo:" URI. An altitude
// component and ";crs=" / "?q=" suffixes are tolerated.
func ParseGeoURI(text string) (lat, lon float64, ok bool) {
	text = strings.TrimSpace(text)
	if !hasMarker(text, geoMarker) {
		return 0, 0, false
	}
	coords := text[len(geoMarker):]
	if i := strings.IndexAny(coords, "?;"); i >= 0 {
		coords = coords[:i]
	}
	parts := strings.Split(coords, ",")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, 0, false
	}
	lat, ok1 := parseDecimal(parts[0])
	lon, ok2 := parseDecimal(parts[1])
	if !ok1 || !ok2 || lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return 0, 0, false
	}
	return lat, lon, true
}

// decodeGeo keeps the unparsed remainder under "coordinates" when the
// coordinates are malformed; the text is still a location, just not one
// that can be mapped.
func decodeGeo(text string) Values {
	lat, lon, ok := ParseGeoURI(text)
	if !ok {
		return Values{"coordinates": strings.TrimSpace(text[len(geoMarker):])}
	}
	return Values{"latitude": formatDecimal(lat), "longitude": formatDecimal(lon)}
}

func displayGeo(v Values) []DisplayField {
	if v["latitude"] == "" {
		if v["coordinates"] == "" {
			return nil
		}
		return []DisplayField{{Label: "Coordinates", Value: v["coordinates"]}}
	}
	return []DisplayField{
		{Label: "Latitude", Value: v["latitude"]},
		{Label: "Longitude", Value: v["longitude"]},
	}
}
