package handlers

import (
	"html/template"
	"log"
	"net/http"

	"github.com/braincards/webapp/header"
)

func ServeHome(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	tmpl, err := template.ParseFiles(
		"./frontend/templates/home.html",
		"./frontend/templates/partials/header.html",
	)
	if err != nil {
		log.Println("Template parse error:", err)
		http.Error(w, "Template error", http.StatusInternalServerError)
		return
	}
	tmpl.Execute(w, struct {
		Header header.View
	}{headerView(w, r)})
}

// LoginPage is a navigation destination only; authentication itself lives
// with the API.
func LoginPage(w http.ResponseWriter, r *http.Request) {
	tmpl, err := template.ParseFiles(
		"./frontend/templates/login.html",
		"./frontend/templates/partials/header.html",
	)
	if err != nil {
		log.Println("Template parse error:", err)
		http.Error(w, "Template error", http.StatusInternalServerError)
		return
	}
	tmpl.Execute(w, struct {
		Header  header.View
		Message string
	}{headerView(w, r), r.URL.Query().Get("message")})
}
