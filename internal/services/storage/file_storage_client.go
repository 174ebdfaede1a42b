package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/sirupsen/logrus"
)

// Client talks to the internal file-storage HTTP API. Uploads are
// multipart posts; all calls carry a static bearer token.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// uploadResponse is the storage API's reply to an upload
type uploadResponse struct {
	Success bool   `json:"success"`
	URL     string `json:"url"`
	Message string `json:"message"`
}

func NewClient() *Client {
	return &Client{
		baseURL:    getEnv("FILE_STORAGE_BASE_URL", ""),
		token:      os.Getenv("FILE_STORAGE_TOKEN"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// NewClientWithBase builds a client for a fixed endpoint (used in tests)
func NewClientWithBase(baseURL, token string) *Client {
	return &Client{
		baseURL:    baseURL,
		token:      token,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// Upload sends file bytes to the storage service and returns the public
// URL. A failed upload is a hard error for the caller: the document save
// must not proceed without a stored URL.
func (c *Client) Upload(ctx context.Context, folder, filename, contentType string, data io.Reader) (string, error) {
	if c.baseURL == "" {
		return "", fmt.Errorf("file storage base URL is not configured")
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return "", fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(part, data); err != nil {
		return "", fmt.Errorf("failed to copy file data: %w", err)
	}
	_ = writer.WriteField("filename", filename)
	_ = writer.WriteField("content_type", contentType)
	_ = writer.WriteField("folder", folder)
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/files", &body)
	if err != nil {
		return "", fmt.Errorf("failed to build upload request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("upload request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("upload failed with status %d", resp.StatusCode)
	}

	var result uploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode upload response: %w", err)
	}
	if !result.Success || result.URL == "" {
		return "", fmt.Errorf("upload rejected by storage service: %s", result.Message)
	}

	return result.URL, nil
}

// Delete removes a stored file by its URL/path. Failures here are
// logged by the caller and swallowed: a dangling blob is acceptable, a
// failed document delete is not.
func (c *Client) Delete(ctx context.Context, storedURL string) error {
	if c.baseURL == "" {
		return fmt.Errorf("file storage base URL is not configured")
	}

	endpoint := fmt.Sprintf("%s/files?path=%s", c.baseURL, url.QueryEscape(storedURL))
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to build delete request: %w", err)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("delete request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("delete failed with status %d", resp.StatusCode)
	}

	logrus.Debugf("Deleted stored file %s", storedURL)
	return nil
}

// getEnv gets environment variable with fallback default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
