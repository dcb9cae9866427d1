package handlers

import (
	"net/http"
	"strconv"

	"github.com/braincards/webapp/header"
	"github.com/braincards/webapp/session"
)

// headerView builds the navigation header snapshot for the current request.
// The scroll offset is reported by the page via a query parameter so the
// solid style survives a round trip.
func headerView(w http.ResponseWriter, r *http.Request) header.View {
	ctrl := header.New(session.NewCookieStore(w, r), &httpNavigator{w, r}, header.NopScrollLocker{}, appLog)
	if raw := r.URL.Query().Get("scroll"); raw != "" {
		if offset, err := strconv.Atoi(raw); err == nil {
			ctrl.HandleScroll(offset)
		}
	}
	return ctrl.View()
}

// LogoutHandler signs the user out: token cleared, back to login.
func LogoutHandler(w http.ResponseWriter, r *http.Request) {
	ctrl := header.New(session.NewCookieStore(w, r), &httpNavigator{w, r}, header.NopScrollLocker{}, appLog)
	ctrl.SignOut()
}
