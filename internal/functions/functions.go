// Package functions calls the serverless collaborators: a PDF generator that
// turns a plan id into a downloadable URL, and an email dispatcher. Both are
// opaque HTTP endpoints; this package only does the plumbing.
package functions

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"trainmate/internal/config"

	"github.com/google/uuid"
)

// Client talks to the configured function endpoints.
type Client struct {
	httpClient *http.Client
	pdfURL     string
	emailURL   string
}

// NewClient creates a functions client from configuration.
func NewClient(cfg config.FunctionsConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		pdfURL:     cfg.PDFURL,
		emailURL:   cfg.EmailURL,
	}
}

// GeneratePlanPDF asks the PDF endpoint to render a training plan and returns
// the downloadable URL it produced.
func (c *Client) GeneratePlanPDF(ctx context.Context, planID uuid.UUID) (string, error) {
	if c.pdfURL == "" {
		return "", fmt.Errorf("pdf function endpoint is not configured")
	}

	payload := map[string]string{"training_plan_id": planID.String()}
	var result struct {
		URL string `json:"url"`
	}
	if err := c.post(ctx, c.pdfURL, payload, &result); err != nil {
		return "", fmt.Errorf("generate pdf: %w", err)
	}
	if result.URL == "" {
		return "", fmt.Errorf("generate pdf: endpoint returned no url")
	}
	return result.URL, nil
}

// EmailRequest is the payload of the email dispatch endpoint.
type EmailRequest struct {
	To            string `json:"to"`
	Subject       string `json:"subject"`
	HTML          string `json:"html"`
	AttachmentURL string `json:"attachment_url,omitempty"`
}

// SendEmail dispatches an email through the email endpoint.
func (c *Client) SendEmail(ctx context.Context, req EmailRequest) error {
	if c.emailURL == "" {
		return fmt.Errorf("email function endpoint is not configured")
	}
	if err := c.post(ctx, c.emailURL, req, nil); err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	return nil
}

func (c *Client) post(ctx context.Context, url string, payload interface{}, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("endpoint returned %d: %s", resp.StatusCode, snippet)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
