// Package editor owns the lesson edit form: the draft, its per-card upload
// state and the load/submit lifecycle. It talks to the outside world only
// through injected interfaces so the whole form can be driven in tests.
package editor

import (
	"context"
	"io"
	"sync"

	"go.uber.org/zap"

	"github.com/braincards/webapp/models"
	"github.com/braincards/webapp/services"
	"github.com/braincards/webapp/session"
)

type State int

const (
	StateLoading State = iota
	StateReady
	StateSubmitting
)

// Navigator moves the user to another screen. The web layer redirects;
// tests record the destination.
type Navigator interface {
	Navigate(path string)
}

// Editor is the single source of truth for one lesson draft. All methods
// are safe for concurrent use; async upload completions touch only their
// own card's slot.
type Editor struct {
	mu        sync.Mutex
	slug      string
	state     State
	draft     models.Lesson
	uploading map[string]bool
	decoding  map[string]bool

	api     services.LessonService
	uploads services.Uploader
	session session.Store
	nav     Navigator
	log     *zap.SugaredLogger
}

func New(slug string, api services.LessonService, uploads services.Uploader, sess session.Store, nav Navigator, log *zap.SugaredLogger) *Editor {
	return &Editor{
		slug:      slug,
		state:     StateLoading,
		uploading: make(map[string]bool),
		decoding:  make(map[string]bool),
		api:       api,
		uploads:   uploads,
		session:   sess,
		nav:       nav,
		log:       log,
	}
}

// Load fetches the lesson and normalises it into the draft. Without a token
// it navigates to login; on a failed fetch it navigates home. In both cases
// the form never becomes ready.
func (e *Editor) Load(ctx context.Context) {
	token, ok := e.session.Token()
	if !ok {
		e.nav.Navigate("/login")
		return
	}

	lesson, err := e.api.FetchLesson(ctx, e.slug, token)
	if err != nil {
		e.log.Errorw("fetch lesson failed", "slug", e.slug, "err", err)
		e.nav.Navigate("/")
		return
	}

	if lesson.Visibility == "" {
		lesson.Visibility = models.VisibilityPrivate
	}
	if lesson.Flashcards == nil {
		lesson.Flashcards = models.CardList{}
	}

	e.mu.Lock()
	e.draft = lesson
	e.state = StateReady
	e.mu.Unlock()
}

// Submit sends the sanitised draft as a full replacement. Success navigates
// home; failure logs the server's message and returns the form to ready.
func (e *Editor) Submit(ctx context.Context) bool {
	e.mu.Lock()
	if e.state != StateReady {
		e.mu.Unlock()
		return false
	}
	e.state = StateSubmitting
	draft := e.draft.Clone()
	e.mu.Unlock()

	token, ok := e.session.Token()
	if !ok {
		e.setState(StateReady)
		e.nav.Navigate("/login")
		return false
	}

	err := e.api.UpdateLesson(ctx, e.slug, token, services.SanitiseLesson(draft))
	e.setState(StateReady)
	if err != nil {
		e.log.Errorw("update lesson failed", "slug", e.slug, "err", err)
		return false
	}

	e.nav.Navigate("/")
	return true
}

func (e *Editor) setState(s State) {
	e.mu.Lock()
	e.state = s
	e.mu.Unlock()
}

func (e *Editor) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

func (e *Editor) Slug() string { return e.slug }

// Snapshot returns a deep copy of the draft; callers never observe partial
// mutations.
func (e *Editor) Snapshot() models.Lesson {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.draft.Clone()
}

func (e *Editor) Uploading(key string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.uploading[key]
}

func (e *Editor) ImageDecoding(key string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.decoding[key]
}

func (e *Editor) SetTitle(v string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.draft.Title = v
}

func (e *Editor) SetDescription(v string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.draft.Description = v
}

func (e *Editor) SetVisibility(v models.Visibility) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.draft.Visibility = v
}

func (e *Editor) SetCardFront(key, v string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, card := e.draft.Flashcards.Find(key); card != nil {
		card.Base().Front = v
	}
}

func (e *Editor) SetCardBack(key, v string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, card := e.draft.Flashcards.Find(key); card != nil {
		card.Base().Back = v
	}
}

func (e *Editor) SetImageURL(key, url string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, card := e.draft.Flashcards.Find(key); card != nil {
		if img, ok := card.(*models.ImageCard); ok {
			img.ImageURL = url
		}
	}
}

func (e *Editor) SetAudioURL(key, url string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, card := e.draft.Flashcards.Find(key); card != nil {
		if audio, ok := card.(*models.AudioCard); ok {
			audio.AudioURL = url
		}
	}
}

// RemoveImage clears the uploaded URL and the decode flag. The stored file
// itself is left alone; the API owns storage cleanup.
func (e *Editor) RemoveImage(key string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, card := e.draft.Flashcards.Find(key); card != nil {
		if img, ok := card.(*models.ImageCard); ok {
			img.ImageURL = ""
			delete(e.decoding, key)
		}
	}
}

func (e *Editor) RemoveAudio(key string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, card := e.draft.Flashcards.Find(key); card != nil {
		if audio, ok := card.(*models.AudioCard); ok {
			audio.AudioURL = ""
		}
	}
}

// ChangeCardType swaps the card for a fresh default of the target type,
// keeping only front and back.
func (e *Editor) ChangeCardType(key string, t models.CardType) {
	e.mu.Lock()
	defer e.mu.Unlock()
	i, card := e.draft.Flashcards.Find(key)
	if card == nil {
		return
	}
	if card.Type() == models.CardImage && t != models.CardImage {
		delete(e.decoding, key)
	}
	e.draft.Flashcards[i] = models.ConvertCardType(card, t)
}

func (e *Editor) AddOption(key string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if mc := e.multipleChoice(key); mc != nil {
		mc.Options = append(mc.Options, "")
	}
}

func (e *Editor) SetOption(key string, i int, v string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if mc := e.multipleChoice(key); mc != nil && i >= 0 && i < len(mc.Options) {
		mc.Options[i] = v
	}
}

// RemoveOption deletes the option at i, preserving order. If the correct
// option no longer matches any remaining option it is cleared rather than
// left dangling.
func (e *Editor) RemoveOption(key string, i int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	mc := e.multipleChoice(key)
	if mc == nil || i < 0 || i >= len(mc.Options) {
		return
	}
	mc.Options = append(mc.Options[:i], mc.Options[i+1:]...)
	if mc.CorrectOption != "" && !contains(mc.Options, mc.CorrectOption) {
		mc.CorrectOption = ""
	}
}

func (e *Editor) SetCorrectOption(key, v string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if mc := e.multipleChoice(key); mc != nil {
		mc.CorrectOption = v
	}
}

func (e *Editor) multipleChoice(key string) *models.MultipleChoiceCard {
	_, card := e.draft.Flashcards.Find(key)
	if card == nil {
		return nil
	}
	mc, _ := card.(*models.MultipleChoiceCard)
	return mc
}

func contains(opts []string, v string) bool {
	for _, o := range opts {
		if o == v {
			return true
		}
	}
	return false
}

// AddCard appends a default text card and returns its key.
func (e *Editor) AddCard() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	card := models.NewCard(models.CardText)
	e.draft.Flashcards = append(e.draft.Flashcards, card)
	return card.Base().Key
}

// RemoveCard deletes the card unless it is the last one left.
func (e *Editor) RemoveCard(key string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.draft.Flashcards) <= 1 {
		return false
	}
	i, card := e.draft.Flashcards.Find(key)
	if card == nil {
		return false
	}
	e.draft.Flashcards = append(e.draft.Flashcards[:i], e.draft.Flashcards[i+1:]...)
	delete(e.uploading, key)
	delete(e.decoding, key)
	return true
}

// Upload transfers the file and stores the returned URL on the card. It
// blocks until the transfer finishes; the web layer runs it on its own
// goroutine and renders the flags meanwhile. Completions for different
// cards never interfere.
func (e *Editor) Upload(ctx context.Context, key, filename string, file io.Reader, kind services.FileKind) {
	e.mu.Lock()
	if _, card := e.draft.Flashcards.Find(key); card == nil {
		e.mu.Unlock()
		return
	}
	e.uploading[key] = true
	if kind == services.FileImage {
		e.decoding[key] = true
	}
	e.mu.Unlock()

	url, err := e.uploads.Upload(ctx, file, filename, kind)

	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.uploading, key)
	if err != nil {
		delete(e.decoding, key)
		e.log.Errorw("upload failed", "kind", kind, "err", err)
		return
	}

	// The card may have been removed or retyped while the upload ran; the
	// URL only lands on a still-matching variant.
	if _, card := e.draft.Flashcards.Find(key); card != nil {
		switch c := card.(type) {
		case *models.ImageCard:
			if kind == services.FileImage {
				c.ImageURL = url
			}
		case *models.AudioCard:
			if kind == services.FileAudio {
				c.AudioURL = url
			}
		}
	}
}

// ImageLoaded clears the decode flag once the preview has rendered.
func (e *Editor) ImageLoaded(key string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.decoding, key)
}

func (e *Editor) ImageLoadFailed(key string) {
	e.mu.Lock()
	delete(e.decoding, key)
	e.mu.Unlock()
	e.log.Errorw("image failed to load", "card", key)
}
