package teams

import (
	"net/http"

	"github.com/gettogethercomm/gettogether/internal/services/web/platform/httpx"
	"github.com/gettogethercomm/gettogether/internal/services/web/routepath"
)

func registerRoutes(mux *http.ServeMux, h handlers) {
	if mux == nil {
		return
	}
	mux.HandleFunc(http.MethodGet+" "+routepath.Teams+"{$}", h.handleList)

	mux.HandleFunc(http.MethodGet+" "+routepath.CreateTeam+"{$}", h.handleCreatePage)
	mux.HandleFunc(http.MethodPost+" "+routepath.CreateTeam+"{$}", h.handleCreateSubmit)

	mux.HandleFunc(http.MethodGet+" "+routepath.SearchTeams+"{$}", h.handleSearch)

	mux.HandleFunc(http.MethodGet+" "+routepath.AboutPrefix+"{team}/{$}", h.handleAbout)

	mux.HandleFunc(http.MethodGet+" "+routepath.TeamPrefix+"{team}/{$}", h.handleDetail)
	mux.HandleFunc(http.MethodGet+" "+routepath.TeamPrefix+"{team}/edit/{$}", h.handleEditPage)
	mux.HandleFunc(http.MethodPost+" "+routepath.TeamPrefix+"{team}/edit/{$}", h.handleEditSubmit)
	mux.HandleFunc(http.MethodGet+" "+routepath.TeamPrefix+"{team}/events.ics", h.handleEventsFeed)

	mux.HandleFunc(http.MethodGet+" "+routepath.TeamPrefix+"{team}/define/{$}", h.handleDefinePage)
	mux.HandleFunc(http.MethodPost+" "+routepath.TeamPrefix+"{team}/define/{$}", h.handleDefineSubmit)

	mux.HandleFunc(http.MethodGet+" "+routepath.TeamPrefix+"{team}/create-event/{$}", h.handleCreateEventPage)
	mux.HandleFunc(http.MethodPost+" "+routepath.TeamPrefix+"{team}/create-event/{$}", h.handleCreateEventSubmit)

	mux.HandleFunc(http.MethodGet+" "+routepath.TeamPrefix+"{team}/create-series/{$}", h.handleCreateSeriesPage)
	mux.HandleFunc(http.MethodPost+" "+routepath.TeamPrefix+"{team}/create-series/{$}", h.handleCreateSeriesSubmit)
	mux.HandleFunc(http.MethodPost+" "+routepath.TeamPrefix+"{team}/series/{series}/delete/{$}", h.handleDeleteSeries)

	mux.HandleFunc(http.MethodPost+" "+routepath.TeamPrefix+"{team}/sponsors/{$}", h.handleAddSponsor)

	mux.HandleFunc(http.MethodPost+" "+routepath.TeamPrefix+"{team}/invite-to-org/{$}", h.handleInviteToOrg)

	mux.HandleFunc(http.MethodPost+" "+routepath.TeamPrefix+"{team}/join/{$}", h.handleJoin)
	mux.HandleFunc(http.MethodGet+" "+routepath.TeamPrefix+"{team}/join/{$}", httpx.MethodNotAllowed(http.MethodPost))

	mux.HandleFunc(http.MethodPost+" "+routepath.TeamPrefix+"{team}/leave/{$}", h.handleLeave)
	mux.HandleFunc(http.MethodGet+" "+routepath.TeamPrefix+"{team}/leave/{$}", httpx.MethodNotAllowed(http.MethodPost))

	mux.HandleFunc(http.MethodPost+" "+routepath.TeamPrefix+"{team}/invite/{$}", h.handleInvite)
	mux.HandleFunc(http.MethodGet+" "+routepath.TeamPrefix+"{team}/accept-invite/{$}", h.handleAcceptInvitePage)
	mux.HandleFunc(http.MethodPost+" "+routepath.TeamPrefix+"{team}/accept-invite/{$}", h.handleAcceptInviteSubmit)

	mux.HandleFunc(http.MethodPost+" "+routepath.TeamPrefix+"{team}/contact/{$}", h.handleContact)

	mux.HandleFunc(http.MethodPost+" "+routepath.TeamPrefix+"{team}/delete/{$}", h.handleDelete)
	mux.HandleFunc(http.MethodGet+" "+routepath.TeamPrefix+"{team}/delete/{$}", httpx.MethodNotAllowed(http.MethodPost))
}
