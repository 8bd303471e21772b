package actions

import (
	"strconv"

	"github.com/dmitrijs2005/scankeeper/internal/payload"
)

type mapApp struct {
	label    string
	template func(ll string) string
}

var mapApps = []mapApp{
	{"Open in Apple Maps", func(ll string) string { return "https://maps.apple.com/?ll=" + ll }},
	{"Open in Google Maps", func(ll string) string { return "https://www.google.com/maps/search/?api=1&query=" + ll }},
	{"Open in Waze", func(ll string) string { return "https://waze.com/ul?ll=" + ll + "&navigate=yes" }},
}

// mapActions offers every map app for a parseable geo URI and nothing
// otherwise.
func mapActions(raw string) []Action {
	lat, lon, ok := payload.ParseGeoURI(raw)
	if !ok {
		return nil
	}
	ll := strconv.FormatFloat(lat, 'f', -1, 64) + "," + strconv.FormatFloat(lon, 'f', -1, 64)
	acts := make([]Action, 0, len(mapApps))
	for _, app := range mapApps {
		acts = append(acts, Action{
			Type:   TypeOpenMap,
			Label:  app.label,
			Target: app.template(ll),
			Params: map[string]string{"latitude": strconv.FormatFloat(lat, 'f', -1, 64), "longitude": strconv.FormatFloat(lon, 'f', -1, 64)},
		})
	}
	return acts
}
