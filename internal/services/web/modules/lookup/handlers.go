package lookup

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	module "github.com/gettogethercomm/gettogether/internal/services/web/module"
	"github.com/gettogethercomm/gettogether/internal/services/web/platform/httpx"
	"github.com/gettogethercomm/gettogether/internal/services/web/routepath"
)

const searchableEventWindow = 90 * 24 * time.Hour

type handlers struct {
	deps module.Dependencies
}

func lookupQuery(r *http.Request) (string, int) {
	query := r.URL.Query()
	limit := 0
	if raw := query.Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			limit = parsed
		}
	}
	return strings.TrimSpace(query.Get("q")), limit
}

type countryResult struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Code string `json:"code"`
}

func (h handlers) handleCountries(w http.ResponseWriter, r *http.Request) {
	prefix, limit := lookupQuery(r)
	countries, err := h.deps.Store.SearchCountries(httpx.RequestContext(r), prefix, limit)
	if err != nil {
		_ = httpx.WriteJSONError(w, http.StatusInternalServerError, "country lookup failed")
		return
	}
	results := make([]countryResult, 0, len(countries))
	for _, country := range countries {
		results = append(results, countryResult{ID: country.ID, Name: country.Name, Code: country.Code})
	}
	_ = httpx.WriteJSON(w, http.StatusOK, results)
}

type sprResult struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Country string `json:"country"`
}

func (h handlers) handleSPRs(w http.ResponseWriter, r *http.Request) {
	prefix, limit := lookupQuery(r)
	sprs, err := h.deps.Store.SearchSPRs(httpx.RequestContext(r), prefix, limit)
	if err != nil {
		_ = httpx.WriteJSONError(w, http.StatusInternalServerError, "region lookup failed")
		return
	}
	results := make([]sprResult, 0, len(sprs))
	for _, spr := range sprs {
		results = append(results, sprResult{ID: spr.ID, Name: spr.Name, Country: spr.CountryID})
	}
	_ = httpx.WriteJSON(w, http.StatusOK, results)
}

type cityResult struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	SPR       string  `json:"spr"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

func (h handlers) handleCities(w http.ResponseWriter, r *http.Request) {
	prefix, limit := lookupQuery(r)
	cities, err := h.deps.Store.SearchCities(httpx.RequestContext(r), prefix, limit)
	if err != nil {
		_ = httpx.WriteJSONError(w, http.StatusInternalServerError, "city lookup failed")
		return
	}
	results := make([]cityResult, 0, len(cities))
	for _, city := range cities {
		results = append(results, cityResult{
			ID:        city.ID,
			Name:      city.Name,
			SPR:       city.SPRID,
			Latitude:  city.Latitude,
			Longitude: city.Longitude,
		})
	}
	_ = httpx.WriteJSON(w, http.StatusOK, results)
}

type placeResult struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	City string `json:"city"`
}

func (h handlers) handlePlaces(w http.ResponseWriter, r *http.Request) {
	prefix, limit := lookupQuery(r)
	places, err := h.deps.Store.SearchPlaces(httpx.RequestContext(r), prefix, limit)
	if err != nil {
		_ = httpx.WriteJSONError(w, http.StatusInternalServerError, "place lookup failed")
		return
	}
	results := make([]placeResult, 0, len(places))
	for _, place := range places {
		results = append(results, placeResult{ID: place.ID, Name: place.Name, City: place.CityID})
	}
	_ = httpx.WriteJSON(w, http.StatusOK, results)
}

type searchableEvent struct {
	URL       string `json:"event_url"`
	Name      string `json:"event_name"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// handleSearchables publishes upcoming confirmed events as JSON so
// other instances can index them.
func (h handlers) handleSearchables(w http.ResponseWriter, r *http.Request) {
	ctx := httpx.RequestContext(r)
	now := time.Now().UTC()
	events, err := h.deps.Store.ListEventsStartingBetween(ctx, now, now.Add(searchableEventWindow))
	if err != nil {
		_ = httpx.WriteJSONError(w, http.StatusInternalServerError, "event listing failed")
		return
	}
	baseURL := strings.TrimRight(h.deps.BaseURL, "/")
	results := make([]searchableEvent, 0, len(events))
	for _, event := range events {
		results = append(results, searchableEvent{
			URL:       baseURL + routepath.Event(event.ID, event.Slug),
			Name:      event.Name,
			StartTime: event.StartTime.Format(time.RFC3339),
			EndTime:   event.EndTime.Format(time.RFC3339),
		})
	}
	_ = httpx.WriteJSON(w, http.StatusOK, results)
}
