package orgs

import (
	"net/http"

	"github.com/gettogethercomm/gettogether/internal/services/web/platform/httpx"
	"github.com/gettogethercomm/gettogether/internal/services/web/routepath"
)

func registerRoutes(mux *http.ServeMux, h handlers) {
	if mux == nil {
		return
	}
	mux.HandleFunc(http.MethodGet+" "+routepath.Orgs+"{$}", h.handleList)

	mux.HandleFunc(http.MethodGet+" "+routepath.CreateOrg+"{$}", h.handleCreatePage)
	mux.HandleFunc(http.MethodPost+" "+routepath.CreateOrg+"{$}", h.handleCreateSubmit)

	mux.HandleFunc(http.MethodGet+" "+routepath.OrgPrefix+"{org}/{$}", h.handleDetail)

	mux.HandleFunc(http.MethodPost+" "+routepath.OrgPrefix+"{org}/request/{$}", h.handleRequestToJoin)
	mux.HandleFunc(http.MethodGet+" "+routepath.OrgPrefix+"{org}/request/{$}", httpx.MethodNotAllowed(http.MethodPost))

	mux.HandleFunc(http.MethodPost+" "+routepath.OrgPrefix+"{org}/invite/{$}", h.handleInviteTeam)
	mux.HandleFunc(http.MethodPost+" "+routepath.OrgPrefix+"{org}/accept/{request}/{$}", h.handleAccept)

	mux.HandleFunc(http.MethodPost+" "+routepath.OrgPrefix+"{org}/contact/{$}", h.handleContact)
	mux.HandleFunc(http.MethodGet+" "+routepath.OrgPrefix+"{org}/contact/{$}", httpx.MethodNotAllowed(http.MethodPost))
}
