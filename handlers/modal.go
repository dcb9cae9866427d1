package handlers

import (
	"html/template"
	"log"
	"net/http"
	"net/url"

	"github.com/braincards/webapp/dialog"
	"github.com/braincards/webapp/header"
)

func newRemoveCardConfirm(itemName string) dialog.Confirm {
	return dialog.Confirm{
		Open:     true,
		Title:    "Remove flashcard",
		Message:  "This removes the card from the lesson draft. The change is saved when you update the lesson.",
		ItemName: itemName,
	}
}

// ConfirmRemoveCardPage gates card removal behind the confirmation dialog.
// The dialog itself performs nothing; the confirm button posts to the
// remove endpoint and cancel returns to the form.
func ConfirmRemoveCardPage(w http.ResponseWriter, r *http.Request) {
	slug := r.URL.Query().Get("slug")
	key := r.URL.Query().Get("key")
	if slug == "" || key == "" {
		http.Error(w, "Missing slug or key", http.StatusBadRequest)
		return
	}

	es := currentEditSession(w, r, slug)
	lesson := es.ed.Snapshot()
	_, card := lesson.Flashcards.Find(key)
	if card == nil {
		editRedirect(w, r, slug)
		return
	}

	tmpl, err := template.ParseFiles(
		"./frontend/templates/partials/confirm-delete.html",
		"./frontend/templates/partials/header.html",
	)
	if err != nil {
		log.Println("Template parse error:", err)
		http.Error(w, "Template error", http.StatusInternalServerError)
		return
	}

	confirm := newRemoveCardConfirm(card.Base().Front)
	tmpl.Execute(w, struct {
		Header     header.View
		Slug       string
		Key        string
		CancelURL  string
		Title      string
		Message    string
		ItemPrompt string
	}{
		Header:     headerView(w, r),
		Slug:       slug,
		Key:        key,
		CancelURL:  "/flashcards/edit?slug=" + url.QueryEscape(slug),
		Title:      confirm.Title,
		Message:    confirm.Message,
		ItemPrompt: confirm.ItemPrompt(),
	})
}
