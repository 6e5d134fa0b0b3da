package media

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"

	"go.uber.org/zap"

	applog "github.com/renthub/profile-service/internal/platform/logging"
)

// Client implements Uploader against the image host's multipart endpoint.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
}

// Option configures a Client.
type Option func(*Client)

// WithToken sets the Bearer token for authenticated uploads.
func WithToken(token string) Option {
	return func(c *Client) {
		c.token = token
	}
}

// NewClient creates a new image host client.
func NewClient(httpClient *http.Client, baseURL string, opts ...Option) *Client {
	c := &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type wireUpload struct {
	Reference string `json:"reference"`
}

// Upload posts the image as multipart form data and returns the stored
// reference, or "" when the host returns none.
func (c *Client) Upload(ctx context.Context, filename string, data []byte) (string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("image", filename)
	if err != nil {
		return "", fmt.Errorf("creating form file: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return "", fmt.Errorf("writing form file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("closing form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/upload", &buf)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("uploading image: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		applog.LogWarn(ctx, "image host error", zap.Int("status", resp.StatusCode))
		return "", fmt.Errorf("%w (status=%d)", ErrUpstream, resp.StatusCode)
	}

	var wu wireUpload
	if err := json.NewDecoder(resp.Body).Decode(&wu); err != nil {
		return "", fmt.Errorf("decoding upload response: %w", err)
	}
	return wu.Reference, nil
}

// Compile-time interface check
var _ Uploader = (*Client)(nil)
