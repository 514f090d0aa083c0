package places

import (
	"net/http"

	"github.com/gettogethercomm/gettogether/internal/services/web/routepath"
)

func registerRoutes(mux *http.ServeMux, h handlers) {
	if mux == nil {
		return
	}
	mux.HandleFunc(http.MethodGet+" "+routepath.Places+"{$}", h.handleList)
	mux.HandleFunc(http.MethodGet+" "+routepath.CreatePlace+"{$}", h.handleCreatePage)
	mux.HandleFunc(http.MethodPost+" "+routepath.CreatePlace+"{$}", h.handleCreateSubmit)
}
