// internal/adapters/http_server/handlers.go
package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"hotel_browser/internal/app"
	"hotel_browser/internal/domain"
)

// UserHeader carries the logged-in username; authentication happens upstream.
const UserHeader = "X-Username"

type Handlers struct {
	Q *app.QueryService
	L *app.LinkService
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Group(func(r chi.Router) {
		r.Use(RequireUser)
		r.Get(domain.PathHotelData, h.hotelData)
		r.Get(domain.PathReviewData, h.reviewData)
		r.Get(domain.PathFavsData, h.favsData)
		r.Get(domain.PathHotelPage, h.hotelView)
		r.Get(domain.PathLinkData, h.linkData)
		r.Get(domain.PathClick, h.click)
		r.Post(domain.PathClick, h.clearClicks)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

// writeError reports an application error the way the browser reads it: {"Error": msg}.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"Error": msg})
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

func missing(s string) string {
	if strings.TrimSpace(s) == "" {
		return "[missing]"
	}
	return s
}

// hotelID validates a raw id parameter; msg is empty on success.
func hotelID(raw string) (int64, string) {
	if !isDigits(raw) {
		return 0, fmt.Sprintf("No hotel found with id '%s'", missing(raw))
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Sprintf("No hotel found with id '%s'", raw)
	}
	return id, ""
}

func (h *Handlers) hotelData(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	user := userOf(r)
	query := q.Get("query")

	switch q.Get("by") {
	case "id":
		id, msg := hotelID(query)
		if msg != "" {
			writeError(w, http.StatusBadRequest, msg)
			return
		}
		v, err := h.Q.GetHotel(r.Context(), id, user)
		if err != nil {
			h.fail(w, err, fmt.Sprintf("No hotel found with id '%s'", query))
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"hotels": []domain.HotelView{v}})
	case "name":
		vs, err := h.Q.SearchHotels(r.Context(), query, user)
		if err != nil {
			h.fail(w, err, fmt.Sprintf("No hotel found with name fragment '%s'", query))
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"hotels": vs})
	default:
		writeError(w, http.StatusBadRequest, "Insufficient request information")
	}
}

func (h *Handlers) reviewData(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	id, msg := hotelID(q.Get("id"))
	if msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}
	rawOffset, dir := q.Get("offset"), q.Get("dir")
	if !isDigits(rawOffset) || (dir != "next" && dir != "prev") {
		writeError(w, http.StatusBadRequest, "Insufficient request information")
		return
	}
	offset, err := strconv.Atoi(rawOffset)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Insufficient request information")
		return
	}
	// The browser sends the offset after the page it shows; prev steps back over it.
	if dir == "prev" {
		offset -= 2 * domain.PageSize
		if offset < 0 {
			offset = 0
		}
	}

	out, err := h.Q.ReviewsSlice(r.Context(), id, offset)
	if err != nil {
		h.fail(w, err, fmt.Sprintf("No hotel found with id '%s'", q.Get("id")))
		return
	}
	if out.Reviews == nil {
		out.Reviews = []domain.Review{}
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) favsData(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	user := userOf(r)

	switch act := q.Get("act"); act {
	case "click":
		raw := q.Get("id")
		id, msg := hotelID(raw)
		if msg != "" {
			writeError(w, http.StatusBadRequest, msg)
			return
		}
		fav, err := h.Q.ToggleFavorite(r.Context(), user, id)
		if err != nil {
			h.fail(w, err, fmt.Sprintf("No hotel found with id '%s'", raw))
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"clicked": raw, "fav": fav})
	case "get":
		names, err := h.Q.FavoriteNames(r.Context(), user)
		if err != nil {
			h.fail(w, err, "")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"fav_hotels": nonNil(names)})
	case "clear":
		names, err := h.Q.ClearFavorites(r.Context(), user)
		if err != nil {
			h.fail(w, err, "")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"fav_hotels": nonNil(names)})
	default:
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Incorrect request action '%s'", act))
	}
}

// fail maps a service error: not-found becomes a 400 with notFound, anything else a 500.
func (h *Handlers) fail(w http.ResponseWriter, err error, notFound string) {
	if errors.Is(err, domain.ErrNotFound) && notFound != "" {
		writeError(w, http.StatusBadRequest, notFound)
		return
	}
	log.Error().Err(err).Msg("request failed")
	writeError(w, http.StatusInternalServerError, "Internal error")
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
