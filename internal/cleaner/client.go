// Package cleaner is the HTTP client for the external cleaning/analysis
// worker. The worker's endpoint and timeout are injected so tests can
// substitute a fake.
package cleaner

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"strings"

	"commentpulse/internal/config"
	"commentpulse/internal/middleware"
	"commentpulse/internal/models"
)

// PreviewRow is one cleaned row as returned by the worker.
type PreviewRow struct {
	Content      string `json:"content"`
	ContentClean string `json:"content_clean"`
	Username     string `json:"username"`
	CommentTime  string `json:"comment_time"`
	LikeCount    int    `json:"like_count"`
	ReplyCount   int    `json:"reply_count"`
	CommentType  int    `json:"comment_type"`
}

// Text returns the cleaned content, falling back to the raw content when the
// worker did not produce a cleaned variant.
func (r *PreviewRow) Text() string {
	if r.ContentClean != "" {
		return r.ContentClean
	}
	return r.Content
}

// CleanResponse is the worker's reply to a clean request. Any shape other
// than status "success" is treated as failure.
type CleanResponse struct {
	Status     string       `json:"status"`
	Message    string       `json:"message,omitempty"`
	OutputPath string       `json:"output_path"`
	Preview    []PreviewRow `json:"preview"`
}

// Success reports whether the worker accepted and cleaned the file.
func (r *CleanResponse) Success() bool {
	return r.Status == "success"
}

// Client talks to the cleaning/analysis worker.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a worker client from configuration.
func New(cfg *config.Config) *Client {
	return &Client{
		baseURL:    strings.TrimRight(cfg.CleanerURL, "/"),
		httpClient: &http.Client{Timeout: cfg.CleanerTimeout()},
	}
}

// NewWithBaseURL creates a client against an explicit endpoint. Intended for
// tests with an httptest server.
func NewWithBaseURL(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), httpClient: httpClient}
}

// Clean uploads the file with the project name and cleaning options as a
// multipart request and decodes the worker's response. A reachable worker
// that answers with a non-success status is returned as a response, not an
// error; transport and decode failures are errors.
func (c *Client) Clean(ctx context.Context, filePath, fileName, projectName, optionsJSON string) (*CleanResponse, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("opening upload for worker: %w", err)
	}
	defer f.Close()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", fileName)
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(part, f); err != nil {
		return nil, fmt.Errorf("buffering upload: %w", err)
	}
	if err := writer.WriteField("project_name", projectName); err != nil {
		return nil, err
	}
	if err := writer.WriteField("options", optionsJSON); err != nil {
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/clean", &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		middleware.WorkerCalls.WithLabelValues("transport_error").Inc()
		return nil, fmt.Errorf("calling cleaning worker: %w", err)
	}
	defer resp.Body.Close()

	var cleanResp CleanResponse
	if err := json.NewDecoder(resp.Body).Decode(&cleanResp); err != nil {
		middleware.WorkerCalls.WithLabelValues("bad_response").Inc()
		return nil, fmt.Errorf("decoding worker response: %w", err)
	}
	if cleanResp.Success() {
		middleware.WorkerCalls.WithLabelValues("success").Inc()
	} else {
		middleware.WorkerCalls.WithLabelValues("worker_error").Inc()
	}
	return &cleanResp, nil
}

// FileURL turns a worker-relative output path into a downloadable URL.
func (c *Client) FileURL(outputPath string) string {
	return c.baseURL + "/" + strings.TrimLeft(strings.ReplaceAll(outputPath, "\\", "/"), "/")
}

// TriggerSentiment fires the worker's sentiment-analysis job for a project.
// The response body is surfaced verbatim as a status message; it is not
// parsed.
func (c *Client) TriggerSentiment(ctx context.Context, pid string) (string, error) {
	payload, err := json.Marshal(map[string]string{"pid": pid})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/sentiment/analyze", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		middleware.WorkerCalls.WithLabelValues("transport_error").Inc()
		return "", models.NewWorkerError("sentiment analysis trigger failed", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err != nil {
		return "", models.NewWorkerError("reading sentiment trigger response", err)
	}
	middleware.WorkerCalls.WithLabelValues("success").Inc()
	return string(raw), nil
}
