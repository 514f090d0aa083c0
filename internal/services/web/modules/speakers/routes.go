package speakers

import (
	"net/http"

	"github.com/gettogethercomm/gettogether/internal/services/web/platform/httpx"
	"github.com/gettogethercomm/gettogether/internal/services/web/routepath"
)

func registerRoutes(mux *http.ServeMux, h handlers) {
	if mux == nil {
		return
	}
	mux.HandleFunc(http.MethodPost+" "+routepath.Speakers+"new/{$}", h.handleCreate)
	mux.HandleFunc(http.MethodGet+" "+routepath.Speakers+"new/{$}", httpx.MethodNotAllowed(http.MethodPost))

	mux.HandleFunc(http.MethodGet+" "+routepath.Speakers+"{speaker}/{$}", h.handleDetail)
	mux.HandleFunc(http.MethodPost+" "+routepath.Speakers+"{speaker}/edit/{$}", h.handleEdit)
	mux.HandleFunc(http.MethodPost+" "+routepath.Speakers+"{speaker}/delete/{$}", h.handleDelete)

	mux.HandleFunc(http.MethodPost+" "+routepath.Speakers+"{speaker}/talks/{$}", h.handleAddTalk)
	mux.HandleFunc(http.MethodPost+" "+routepath.Speakers+"{speaker}/talks/{talk}/delete/{$}", h.handleDeleteTalk)
}
