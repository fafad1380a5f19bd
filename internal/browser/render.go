package browser

import (
	"html/template"
	"strings"

	"hotel_browser/internal/domain"
)

var fragments = template.Must(template.New("fragments").Funcs(template.FuncMap{"favClass": favClassOf}).Parse(`
{{define "hotelDetail"}}<tr><td><input id="{{.HotelID}}" type="button" class="{{favClass .IsFavorite}}" value="Fav &starf;"><h5><a href="/hotel?id={{.HotelID}}"><b>{{.HotelName}}</b></a>, ID {{.HotelID}}</h5><h5>Rated {{.Rating}}</h5><h5>Address: {{.Address}}</h5><h5>Expedia Link:</h5><h5><a href="/click?link={{.Link}}" target="_blank">{{.Link}}</a></h5></td></tr>{{end}}
{{define "hotelRows"}}{{range .}}<tr><td><input id="{{.HotelID}}" type="button" class="{{favClass .IsFavorite}}" value="Fav &starf;"><a href="/hotel?id={{.HotelID}}"><b>{{.HotelName}}</b></a>, ID {{.HotelID}}<br>Rated {{.Rating}}<br>Address: {{.Address}}<br>Expedia Link:<br><a href="/click?link={{.Link}}" target="_blank">{{.Link}}</a></td></tr>{{end}}{{end}}
{{define "reviewRows"}}{{range .}}<tr><td>Review by <b>{{.Username}}</b> on {{.DatePosted}}<br><b>Title</b>:<br>{{.Title}}<br><b>Body</b>:<br>{{.Text}}</td></tr>{{end}}{{end}}
{{define "mutedRow"}}<tr class="text-muted"><td>{{.}}</td></tr>{{end}}
{{define "nameRows"}}{{range .}}<tr><td>{{.}}</td></tr>{{end}}{{end}}
{{define "hotelsTitle"}}{{if .Found}}Hotels{{else}}No hotels{{end}} with '{{.Fragment}}'{{end}}
{{define "noHotel"}}No hotel found with ID {{.}}{{end}}
`))

func favClassOf(isFav bool) string {
	if isFav {
		return domain.ClassFavActive
	}
	return domain.ClassFavInactive
}

// FavoriteClass maps a server-returned fav value onto the toggle style.
// Only the JSON literal true selects the active style.
func FavoriteClass(v any) string { return favClassOf(isTrue(v)) }

func render(name string, data any) (string, error) {
	var b strings.Builder
	if err := fragments.ExecuteTemplate(&b, name, data); err != nil {
		return "", err
	}
	return b.String(), nil
}
