package publisher

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// CMSPublisher posts compiled digests to a content management system over
// its JSON API.
type CMSPublisher struct {
	baseURL    string
	token      string
	userAgent  string
	httpClient *http.Client
}

var _ Publisher = (*CMSPublisher)(nil)

func NewCMSPublisher(httpClient *http.Client, baseURL, token, userAgent string) *CMSPublisher {
	return &CMSPublisher{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		userAgent:  userAgent,
		httpClient: httpClient,
	}
}

type documentPayload struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	Status   string `json:"status"`
	Category int    `json:"category,omitempty"`
}

func (p *CMSPublisher) Publish(ctx context.Context, titleLine, body string, status Status, category int) (string, error) {
	payload := documentPayload{
		Title:    titleLine,
		Content:  body,
		Status:   string(status),
		Category: category,
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to encode document: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", p.baseURL+"/api/documents", bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	p.setHeaders(req)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to publish document: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("sink rejected document: %d %s: %s", resp.StatusCode, resp.Status, strings.TrimSpace(string(snippet)))
	}

	var result struct {
		ID any `json:"id"`
	}
	decoder := json.NewDecoder(resp.Body)
	decoder.UseNumber()
	if err := decoder.Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode sink response: %w", err)
	}
	if result.ID == nil {
		return "", fmt.Errorf("sink response is missing a document id")
	}

	return fmt.Sprint(result.ID), nil
}

func (p *CMSPublisher) CategoryExists(ctx context.Context, categoryID int) (bool, error) {
	url := fmt.Sprintf("%s/api/categories/%d", p.baseURL, categoryID)

	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return false, fmt.Errorf("failed to create request: %w", err)
	}
	p.setHeaders(req)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("failed to check category: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		return true, nil
	case http.StatusNotFound:
		return false, nil
	default:
		return false, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}
}

func (p *CMSPublisher) setHeaders(req *http.Request) {
	req.Header.Set("User-Agent", p.userAgent)
	if p.token != "" {
		req.Header.Set("Authorization", "Bearer "+p.token)
	}
}
