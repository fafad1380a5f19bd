package httpserver

import (
	"errors"
	"html/template"
	"net/http"

	"github.com/rs/zerolog/log"

	"hotel_browser/internal/domain"
)

var hotelPage = template.Must(template.New("hotel").Parse(`<!DOCTYPE html>
<html><head><meta charset="utf-8"><title>{{if .Found}}{{.Hotel.HotelName}}{{else}}Hotel not found{{end}}</title></head>
<body>
{{if .Found}}<h3>{{.Hotel.HotelName}}{{if .Hotel.Fav}} &starf;{{end}}</h3>
<p>ID {{.Hotel.HotelID}}<br>Rated {{.Hotel.Rating}}<br>Address: {{.Hotel.Address}}</p>
{{with .Hotel.Link}}<p>Expedia Link: <a href="/click?link={{.}}" target="_blank">{{.}}</a></p>{{end}}
<h4>{{.Reviews.Len}} reviews</h4>
<table>{{range .Reviews.Reviews}}<tr><td>Review by <b>{{.Username}}</b> on {{.DatePosted}}<br><b>{{.Title}}</b><br>{{.Text}}</td></tr>{{end}}</table>
{{else}}<p>No hotel found with ID {{.ID}}</p>{{end}}
</body></html>
`))

type hotelPageData struct {
	ID      string
	Found   bool
	Hotel   domain.HotelView
	Reviews domain.ReviewSlice
}

// hotelView renders one hotel with its newest reviews.
func (h *Handlers) hotelView(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("id")
	data := hotelPageData{ID: missing(raw)}
	status := http.StatusOK

	id, msg := hotelID(raw)
	switch {
	case msg != "":
		status = http.StatusBadRequest
	default:
		v, err := h.Q.GetHotel(r.Context(), id, userOf(r))
		if err == nil {
			data.Hotel, data.Found = v, true
			data.Reviews, err = h.Q.ReviewsSlice(r.Context(), id, 0)
		}
		if errors.Is(err, domain.ErrNotFound) {
			status = http.StatusNotFound
		} else if err != nil {
			h.fail(w, err, "")
			return
		}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := hotelPage.Execute(w, data); err != nil {
		log.Error().Err(err).Msg("render hotel page failed")
	}
}
