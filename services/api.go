package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/braincards/webapp/models"
)

// LessonService is what the edit screen needs from the API: fetch one
// lesson and replace it wholesale.
type LessonService interface {
	FetchLesson(ctx context.Context, slug, accessToken string) (models.Lesson, error)
	UpdateLesson(ctx context.Context, slug, accessToken string, lesson models.Lesson) error
}

// Client talks to the flashcards API. The zero HTTPClient falls back to
// http.DefaultClient, so transport defaults (no timeout) apply.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{BaseURL: baseURL}
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return http.DefaultClient
}

func (c *Client) FetchLesson(ctx context.Context, slug, accessToken string) (models.Lesson, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/api/flashcards/"+url.PathEscape(slug), nil)
	if err != nil {
		return models.Lesson{}, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return models.Lesson{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return models.Lesson{}, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var lesson models.Lesson
	if err := json.NewDecoder(resp.Body).Decode(&lesson); err != nil {
		return models.Lesson{}, fmt.Errorf("decode lesson: %w", err)
	}
	return lesson, nil
}

func (c *Client) UpdateLesson(ctx context.Context, slug, accessToken string, lesson models.Lesson) error {
	payload := struct {
		models.Lesson
		Slug string `json:"slug"`
	}{lesson, slug}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal lesson: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.BaseURL+"/api/flashcards", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		if apiErr.Error != "" {
			return fmt.Errorf("update failed: %s", apiErr.Error)
		}
		return fmt.Errorf("update failed: status %d", resp.StatusCode)
	}
	return nil
}
