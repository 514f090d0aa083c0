package lookup

import (
	"net/http"

	"github.com/gettogethercomm/gettogether/internal/services/web/routepath"
)

func registerRoutes(mux *http.ServeMux, h handlers) {
	if mux == nil {
		return
	}
	mux.HandleFunc(http.MethodGet+" "+routepath.APIPlaces+"{$}", h.handlePlaces)
	mux.HandleFunc(http.MethodGet+" "+routepath.APICountries+"{$}", h.handleCountries)
	mux.HandleFunc(http.MethodGet+" "+routepath.APISPR+"{$}", h.handleSPRs)
	mux.HandleFunc(http.MethodGet+" "+routepath.APICities+"{$}", h.handleCities)
	mux.HandleFunc(http.MethodGet+" "+routepath.Searchables+"{$}", h.handleSearchables)
}
