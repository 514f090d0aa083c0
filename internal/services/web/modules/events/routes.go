package events

import (
	"net/http"

	"github.com/gettogethercomm/gettogether/internal/services/web/platform/httpx"
	"github.com/gettogethercomm/gettogether/internal/services/web/routepath"
)

func registerRoutes(mux *http.ServeMux, h handlers) {
	if mux == nil {
		return
	}
	mux.HandleFunc(http.MethodGet+" "+routepath.Events+"{$}", h.handleList)
	mux.HandleFunc(http.MethodGet+" "+routepath.Events+"{event}/{slug}/{$}", h.handleDetail)
	mux.HandleFunc(http.MethodGet+" "+routepath.Events+"{event}/{slug}/ics", h.handleFeed)

	mux.HandleFunc(http.MethodGet+" "+routepath.Events+"{event}/add-details/{$}", h.handleDetailsPage)
	mux.HandleFunc(http.MethodPost+" "+routepath.Events+"{event}/add-details/{$}", h.handleDetailsSubmit)

	mux.HandleFunc(http.MethodGet+" "+routepath.Events+"{event}/edit/{$}", h.handleEditPage)
	mux.HandleFunc(http.MethodPost+" "+routepath.Events+"{event}/edit/{$}", h.handleEditSubmit)

	mux.HandleFunc(http.MethodGet+" "+routepath.Events+"{event}/settings/{$}", h.handleSettingsPage)
	mux.HandleFunc(http.MethodPost+" "+routepath.Events+"{event}/settings/{$}", h.handleSettingsSubmit)

	mux.HandleFunc(http.MethodPost+" "+routepath.Events+"{event}/change-host/{$}", h.handleChangeHost)

	mux.HandleFunc(http.MethodPost+" "+routepath.Events+"{event}/attend/{$}", h.handleAttend)
	mux.HandleFunc(http.MethodGet+" "+routepath.Events+"{event}/attend/{$}", httpx.MethodNotAllowed(http.MethodPost))

	mux.HandleFunc(http.MethodPost+" "+routepath.Events+"{event}/leave/{$}", h.handleLeave)
	mux.HandleFunc(http.MethodGet+" "+routepath.Events+"{event}/leave/{$}", httpx.MethodNotAllowed(http.MethodPost))

	mux.HandleFunc(http.MethodPost+" "+routepath.Events+"{event}/cancel/{$}", h.handleCancel)
	mux.HandleFunc(http.MethodPost+" "+routepath.Events+"{event}/delete/{$}", h.handleDelete)

	mux.HandleFunc(http.MethodPost+" "+routepath.Events+"{event}/comments/{$}", h.handleComment)
	mux.HandleFunc(http.MethodPost+" "+routepath.Events+"{event}/comments/{comment}/delete/{$}", h.handleDeleteComment)

	mux.HandleFunc(http.MethodPost+" "+routepath.Events+"{event}/photos/{$}", h.handleAddPhoto)
	mux.HandleFunc(http.MethodPost+" "+routepath.Events+"{event}/photos/{photo}/delete/{$}", h.handleRemovePhoto)

	mux.HandleFunc(http.MethodPost+" "+routepath.Events+"{event}/presentations/{$}", h.handleSchedulePresentation)

	mux.HandleFunc(http.MethodPost+" "+routepath.Events+"{event}/invite/{$}", h.handleInvite)
	mux.HandleFunc(http.MethodPost+" "+routepath.Events+"{event}/invite-member/{$}", h.handleInviteMember)
	mux.HandleFunc(http.MethodPost+" "+routepath.Events+"{event}/contact/{$}", h.handleContact)
}
