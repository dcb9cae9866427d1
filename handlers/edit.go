package handlers

import (
	"bytes"
	"context"
	"html/template"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/braincards/webapp/editor"
	"github.com/braincards/webapp/header"
	"github.com/braincards/webapp/models"
	"github.com/braincards/webapp/services"
	"github.com/braincards/webapp/session"
)

const draftCookie = "draft_id"

// editSession keeps one editor alive across the round trips of a single
// edit screen. The token is mirrored from the request cookie into a memory
// store before every call that needs it, and controller navigation is
// recorded so the handler can turn it into a redirect.
type editSession struct {
	ed   *editor.Editor
	sess *session.Memory
	nav  *redirectRecorder
}

var editSessions = struct {
	sync.Mutex
	m map[string]*editSession
}{m: make(map[string]*editSession)}

type redirectRecorder struct {
	mu     sync.Mutex
	target string
	set    bool
}

func (n *redirectRecorder) Navigate(path string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.target = path
	n.set = true
}

func (n *redirectRecorder) Consume() (string, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if !n.set {
		return "", false
	}
	target := n.target
	n.target = ""
	n.set = false
	return target, true
}

func currentEditSession(w http.ResponseWriter, r *http.Request, slug string) *editSession {
	draftID := ""
	if c, err := r.Cookie(draftCookie); err == nil {
		draftID = c.Value
	}
	if draftID == "" {
		draftID = uuid.New().String()
		http.SetCookie(w, &http.Cookie{
			Name:     draftCookie,
			Value:    draftID,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}

	key := draftID + "|" + slug

	editSessions.Lock()
	es, ok := editSessions.m[key]
	if !ok {
		sess := &session.Memory{}
		nav := &redirectRecorder{}
		es = &editSession{
			ed:   editor.New(slug, apiClient, apiClient, sess, nav, appLog),
			sess: sess,
			nav:  nav,
		}
		editSessions.m[key] = es
	}
	editSessions.Unlock()

	// Mirror the browser's token into the session store.
	if token, ok := session.NewCookieStore(w, r).Token(); ok {
		es.sess.Save(token)
	} else {
		es.sess.Clear()
	}
	return es
}

func dropEditSession(r *http.Request, slug string) {
	c, err := r.Cookie(draftCookie)
	if err != nil {
		return
	}
	editSessions.Lock()
	delete(editSessions.m, c.Value+"|"+slug)
	editSessions.Unlock()
}

// consumeNavigation redirects if the controller asked to navigate away,
// dropping the edit session when the destination leaves the form.
func consumeNavigation(w http.ResponseWriter, r *http.Request, es *editSession, slug string) bool {
	dest, ok := es.nav.Consume()
	if !ok {
		return false
	}
	dropEditSession(r, slug)
	http.Redirect(w, r, dest, http.StatusSeeOther)
	return true
}

type cardView struct {
	Slug          string
	Key           string
	Number        int
	Type          models.CardType
	Front         string
	Back          string
	ImageURL      string
	AudioURL      string
	Options       []string
	CorrectOption string
	Uploading     bool
	ImageLoading  bool
}

func (v cardView) IsText() bool           { return v.Type == models.CardText }
func (v cardView) IsImage() bool          { return v.Type == models.CardImage }
func (v cardView) IsAudio() bool          { return v.Type == models.CardAudio }
func (v cardView) IsMultipleChoice() bool { return v.Type == models.CardMultipleChoice }

type editView struct {
	Header      header.View
	Slug        string
	Title       string
	Description string
	Visibility  string
	Cards       []cardView
	CanRemove   bool
	Submitting  bool
}

func buildEditView(w http.ResponseWriter, r *http.Request, es *editSession, slug string) editView {
	lesson := es.ed.Snapshot()
	view := editView{
		Header:      headerView(w, r),
		Slug:        slug,
		Title:       lesson.Title,
		Description: lesson.Description,
		Visibility:  string(lesson.Visibility),
		CanRemove:   len(lesson.Flashcards) > 1,
		Submitting:  es.ed.State() == editor.StateSubmitting,
	}
	for i, card := range lesson.Flashcards {
		key := card.Base().Key
		cv := cardView{
			Slug:         slug,
			Key:          key,
			Number:       i + 1,
			Type:         card.Type(),
			Front:        card.Base().Front,
			Back:         card.Base().Back,
			Uploading:    es.ed.Uploading(key),
			ImageLoading: es.ed.ImageDecoding(key),
		}
		switch c := card.(type) {
		case *models.ImageCard:
			cv.ImageURL = c.ImageURL
		case *models.AudioCard:
			cv.AudioURL = c.AudioURL
		case *models.MultipleChoiceCard:
			cv.Options = c.Options
			cv.CorrectOption = c.CorrectOption
		}
		view.Cards = append(view.Cards, cv)
	}
	return view
}

// EditLessonPage renders the lesson edit form, loading the draft on the
// first visit.
func EditLessonPage(w http.ResponseWriter, r *http.Request) {
	slug := r.URL.Query().Get("slug")
	if slug == "" {
		http.Error(w, "Missing slug", http.StatusBadRequest)
		return
	}

	es := currentEditSession(w, r, slug)
	if es.ed.State() == editor.StateLoading {
		es.ed.Load(r.Context())
	}
	if consumeNavigation(w, r, es, slug) {
		return
	}

	tmpl, err := template.ParseFiles(
		"./frontend/templates/edit.html",
		"./frontend/templates/partials/header.html",
		"./frontend/templates/partials/upload-status.html",
	)
	if err != nil {
		log.Println("Template parse error:", err)
		http.Error(w, "Template error", http.StatusInternalServerError)
		return
	}
	tmpl.Execute(w, buildEditView(w, r, es, slug))
}

func editRedirect(w http.ResponseWriter, r *http.Request, slug string) {
	http.Redirect(w, r, "/flashcards/edit?slug="+url.QueryEscape(slug), http.StatusSeeOther)
}

// applyPostedFields copies every field present in the posted form into the
// draft. The edit screen is one big form whose structural buttons all post
// here first, so typed text survives an add/remove round trip.
func applyPostedFields(r *http.Request, es *editSession) {
	if err := r.ParseForm(); err != nil {
		return
	}
	if vals, ok := r.PostForm["title"]; ok && len(vals) > 0 {
		es.ed.SetTitle(vals[0])
	}
	if vals, ok := r.PostForm["description"]; ok && len(vals) > 0 {
		es.ed.SetDescription(vals[0])
	}
	if vals, ok := r.PostForm["visibility"]; ok && len(vals) > 0 {
		es.ed.SetVisibility(models.Visibility(vals[0]))
	}
	for name, vals := range r.PostForm {
		if len(vals) == 0 {
			continue
		}
		value := vals[0]
		switch {
		case strings.HasPrefix(name, "front__"):
			es.ed.SetCardFront(strings.TrimPrefix(name, "front__"), value)
		case strings.HasPrefix(name, "back__"):
			es.ed.SetCardBack(strings.TrimPrefix(name, "back__"), value)
		case strings.HasPrefix(name, "imageUrl__"):
			es.ed.SetImageURL(strings.TrimPrefix(name, "imageUrl__"), value)
		case strings.HasPrefix(name, "audioUrl__"):
			es.ed.SetAudioURL(strings.TrimPrefix(name, "audioUrl__"), value)
		case strings.HasPrefix(name, "correct__"):
			es.ed.SetCorrectOption(strings.TrimPrefix(name, "correct__"), value)
		case strings.HasPrefix(name, "option__"):
			rest := strings.TrimPrefix(name, "option__")
			key, idx, ok := strings.Cut(rest, "__")
			if !ok {
				continue
			}
			if i, err := strconv.Atoi(idx); err == nil {
				es.ed.SetOption(key, i, value)
			}
		}
	}
}

// editMutation wraps the shared shape of the form-post endpoints: resolve
// the edit session, fold in the posted field values, apply one controller
// call, honour any navigation, then bounce back to the form.
func editMutation(w http.ResponseWriter, r *http.Request, apply func(es *editSession)) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}
	slug := r.FormValue("slug")
	if slug == "" {
		http.Error(w, "Missing slug", http.StatusBadRequest)
		return
	}
	es := currentEditSession(w, r, slug)
	applyPostedFields(r, es)
	apply(es)
	if consumeNavigation(w, r, es, slug) {
		return
	}
	editRedirect(w, r, slug)
}

func CardTypeHandler(w http.ResponseWriter, r *http.Request) {
	editMutation(w, r, func(es *editSession) {
		key := r.FormValue("key")
		es.ed.ChangeCardType(key, models.CardType(r.FormValue("type__"+key)))
	})
}

func AddCardHandler(w http.ResponseWriter, r *http.Request) {
	editMutation(w, r, func(es *editSession) {
		es.ed.AddCard()
	})
}

func RemoveCardHandler(w http.ResponseWriter, r *http.Request) {
	editMutation(w, r, func(es *editSession) {
		es.ed.RemoveCard(r.FormValue("key"))
	})
}

func AddOptionHandler(w http.ResponseWriter, r *http.Request) {
	editMutation(w, r, func(es *editSession) {
		es.ed.AddOption(r.FormValue("key"))
	})
}

// RemoveOptionHandler receives the card key and option position joined as
// "key__index" on the pressed button.
func RemoveOptionHandler(w http.ResponseWriter, r *http.Request) {
	editMutation(w, r, func(es *editSession) {
		key, idx, ok := strings.Cut(r.FormValue("target"), "__")
		if !ok {
			return
		}
		i, err := strconv.Atoi(idx)
		if err != nil {
			return
		}
		es.ed.RemoveOption(key, i)
	})
}

// RemoveMediaHandler receives the card key and media kind joined as
// "key__kind" on the pressed button.
func RemoveMediaHandler(w http.ResponseWriter, r *http.Request) {
	editMutation(w, r, func(es *editSession) {
		key, kind, ok := strings.Cut(r.FormValue("media"), "__")
		if !ok {
			return
		}
		switch services.FileKind(kind) {
		case services.FileAudio:
			es.ed.RemoveAudio(key)
		default:
			es.ed.RemoveImage(key)
		}
	})
}

// UploadHandler starts the transfer in the background and sends the user
// straight back to the form, where the status partial shows the spinner.
func UploadHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}
	slug := r.FormValue("slug")
	key := r.FormValue("key")
	if slug == "" || key == "" {
		http.Error(w, "Missing slug or key", http.StatusBadRequest)
		return
	}
	kind := services.FileKind(r.FormValue("fileType"))
	if kind != services.FileImage && kind != services.FileAudio {
		http.Error(w, "Unknown file type", http.StatusBadRequest)
		return
	}

	file, fh, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "Missing file", http.StatusBadRequest)
		return
	}
	defer file.Close()

	// The request body goes away when this handler returns; buffer the file
	// so the background transfer owns its own copy.
	data, err := io.ReadAll(file)
	if err != nil {
		log.Println("Upload read error:", err)
		http.Error(w, "Failed to read file", http.StatusInternalServerError)
		return
	}

	es := currentEditSession(w, r, slug)
	go es.ed.Upload(context.Background(), key, fh.Filename, bytes.NewReader(data), kind)

	editRedirect(w, r, slug)
}

// UploadStatusHandler serves the polling partial for one card's media slot.
func UploadStatusHandler(w http.ResponseWriter, r *http.Request) {
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
		http.Error(w, "Card not found", http.StatusNotFound)
		return
	}

	cv := cardView{
		Slug:         slug,
		Key:          key,
		Type:         card.Type(),
		Uploading:    es.ed.Uploading(key),
		ImageLoading: es.ed.ImageDecoding(key),
	}
	switch c := card.(type) {
	case *models.ImageCard:
		cv.ImageURL = c.ImageURL
	case *models.AudioCard:
		cv.AudioURL = c.AudioURL
	}

	tmpl, err := template.ParseFiles("./frontend/templates/partials/upload-status.html")
	if err != nil {
		log.Println("Template parse error:", err)
		http.Error(w, "Template error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html")
	tmpl.ExecuteTemplate(w, "upload-status", cv)
}

// ImageLoadedHandler is posted by the preview's onload/onerror events so
// the spinner goes away once the image is visually ready.
func ImageLoadedHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}
	slug := r.FormValue("slug")
	key := r.FormValue("key")
	if slug == "" || key == "" {
		http.Error(w, "Missing slug or key", http.StatusBadRequest)
		return
	}
	es := currentEditSession(w, r, slug)
	if r.FormValue("ok") == "false" {
		es.ed.ImageLoadFailed(key)
	} else {
		es.ed.ImageLoaded(key)
	}
	w.WriteHeader(http.StatusNoContent)
}

// SubmitHandler sends the full-replacement update. Success and credential
// loss navigate away; failure re-renders the form.
func SubmitHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}
	slug := r.FormValue("slug")
	if slug == "" {
		http.Error(w, "Missing slug", http.StatusBadRequest)
		return
	}
	es := currentEditSession(w, r, slug)
	applyPostedFields(r, es)
	es.ed.Submit(r.Context())
	if consumeNavigation(w, r, es, slug) {
		return
	}
	editRedirect(w, r, slug)
}
