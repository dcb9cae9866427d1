package services

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/braincards/webapp/models"
)

func TestFetchLesson(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/flashcards/animals", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"title":"Animals","flashcards":[{"type":"image","front":"cat","imageUrl":"https://x/cat.png"}]}`))
	}))
	defer srv.Close()

	lesson, err := NewClient(srv.URL).FetchLesson(context.Background(), "animals", "tok")
	require.NoError(t, err)
	assert.Equal(t, "Animals", lesson.Title)
	require.Len(t, lesson.Flashcards, 1)
	img, ok := lesson.Flashcards[0].(*models.ImageCard)
	require.True(t, ok)
	assert.Equal(t, "https://x/cat.png", img.ImageURL)
}

func TestFetchLessonEscapesSlug(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).FetchLesson(context.Background(), "a b/c", "tok")
	require.NoError(t, err)
	assert.Equal(t, "/api/flashcards/a%20b%2Fc", gotPath)
}

func TestFetchLessonNonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).FetchLesson(context.Background(), "animals", "tok")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestUpdateLessonSendsSlugInBody(t *testing.T) {
	var gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/flashcards", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
	}))
	defer srv.Close()

	lesson := models.Lesson{
		Title:      "Animals",
		Visibility: models.VisibilityPublic,
		Flashcards: models.CardList{models.NewCard(models.CardText)},
	}
	err := NewClient(srv.URL).UpdateLesson(context.Background(), "animals", "tok", lesson)
	require.NoError(t, err)
	assert.Contains(t, gotBody, `"slug":"animals"`)
	assert.Contains(t, gotBody, `"title":"Animals"`)
	assert.Contains(t, gotBody, `"type":"text"`)
}

func TestUpdateLessonSurfacesServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"error":"title required"}`))
	}))
	defer srv.Close()

	err := NewClient(srv.URL).UpdateLesson(context.Background(), "animals", "tok", models.Lesson{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "title required")
}

func TestUpdateLessonErrorWithoutMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	err := NewClient(srv.URL).UpdateLesson(context.Background(), "animals", "tok", models.Lesson{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
}

func TestUpload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/upload", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))

		file, fh, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "cat.png", fh.Filename)

		buf := make([]byte, 16)
		n, _ := file.Read(buf)
		assert.Equal(t, "png-bytes", string(buf[:n]))
		assert.Equal(t, "image", r.FormValue("fileType"))

		_, _ = w.Write([]byte(`{"url":"https://cdn/cat.png"}`))
	}))
	defer srv.Close()

	url, err := NewClient(srv.URL).Upload(context.Background(), strings.NewReader("png-bytes"), "cat.png", FileImage)
	require.NoError(t, err)
	assert.Equal(t, "https://cdn/cat.png", url)
}

func TestUploadFailureStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).Upload(context.Background(), strings.NewReader("x"), "x.mp3", FileAudio)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "400")
}
