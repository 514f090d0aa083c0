package profile

import (
	"net/http"

	"github.com/gettogethercomm/gettogether/internal/services/web/routepath"
)

func registerRoutes(mux *http.ServeMux, h handlers) {
	if mux == nil {
		return
	}
	mux.HandleFunc(http.MethodGet+" "+routepath.Profile+"{$}", h.handleEditPage)
	mux.HandleFunc(http.MethodPost+" "+routepath.Profile+"{$}", h.handleEditSubmit)
	mux.HandleFunc(http.MethodGet+" "+routepath.ConfirmProfile+"{$}", h.handleConfirmPage)
	mux.HandleFunc(http.MethodPost+" "+routepath.ConfirmProfile+"{$}", h.handleConfirmSubmit)
	mux.HandleFunc(http.MethodPost+" "+routepath.Notifications+"{$}", h.handleNotifications)
}
