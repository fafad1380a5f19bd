package httpserver

import (
	"errors"
	"fmt"
	"net/http"

	"hotel_browser/internal/domain"
)

// click counts the click and redirects to the hotel's outbound page.
func (h *Handlers) click(w http.ResponseWriter, r *http.Request) {
	link := r.URL.Query().Get("link")
	to, err := h.L.Click(r.Context(), userOf(r), link)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, fmt.Sprintf("Unknown link '%s'", missing(link)))
			return
		}
		h.fail(w, err, "")
		return
	}
	http.Redirect(w, r, to, http.StatusFound)
}

// clearClicks forgets every click of the user.
func (h *Handlers) clearClicks(w http.ResponseWriter, r *http.Request) {
	links, err := h.L.ClearHistory(r.Context(), userOf(r))
	if err != nil {
		h.fail(w, err, "")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"links": links})
}

func (h *Handlers) linkData(w http.ResponseWriter, r *http.Request) {
	links, err := h.L.History(r.Context(), userOf(r))
	if err != nil {
		h.fail(w, err, "")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"links": links})
}
