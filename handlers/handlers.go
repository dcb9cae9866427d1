package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/braincards/webapp/services"
)

var (
	apiClient *services.Client
	appLog    *zap.SugaredLogger
)

// Configure wires the shared API client and logger. Call once before
// registering routes.
func Configure(client *services.Client, log *zap.SugaredLogger) {
	apiClient = client
	appLog = log
}

// httpNavigator turns controller navigation into an HTTP redirect.
type httpNavigator struct {
	w http.ResponseWriter
	r *http.Request
}

func (n *httpNavigator) Navigate(path string) {
	http.Redirect(n.w, n.r, path, http.StatusSeeOther)
}
