package account

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	applog "github.com/renthub/profile-service/internal/platform/logging"
)

const userAgent = "profile-service"

// Client implements Service against the account backend's REST API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL sets a custom base URL (useful for testing).
func WithBaseURL(url string) Option {
	return func(c *Client) {
		c.baseURL = url
	}
}

// WithToken sets the Bearer token for authenticated requests.
func WithToken(token string) Option {
	return func(c *Client) {
		c.token = token
	}
}

// NewClient creates a new account backend client.
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

// Wire types (JSON tags matching the account backend).

type wireProfile struct {
	ID                 string `json:"id"`
	FullName           string `json:"fullName"`
	Email              string `json:"email"`
	Phone              string `json:"phone"`
	Location           string `json:"location"`
	Bio                string `json:"bio"`
	BirthDate          string `json:"birthDate,omitempty"`
	Avatar             string `json:"avatar,omitempty"`
	EmailNotifications bool   `json:"enableEmailNotifications"`
	PayLater           bool   `json:"payLater"`
	Verified           bool   `json:"verified"`
	CreatedAt          string `json:"createdAt"`
	UpdatedAt          string `json:"updatedAt"`
}

type wireCheckName struct {
	Taken bool `json:"taken"`
}

func (c *Client) doRequest(ctx context.Context, method, path string, body any) (*http.Response, error) {
	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encoding request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	return c.httpClient.Do(req)
}

func (c *Client) decodeResponse(ctx context.Context, resp *http.Response, target any) error {
	if resp.StatusCode == http.StatusOK {
		if target == nil {
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
			return fmt.Errorf("decoding account response: %w", err)
		}
		return nil
	}

	if resp.StatusCode == http.StatusNotFound {
		return &UpstreamError{Status: resp.StatusCode, cause: ErrNotFound}
	}

	applog.LogWarn(ctx, "account backend error", zap.Int("status", resp.StatusCode))
	return &UpstreamError{Status: resp.StatusCode, cause: ErrUpstream}
}

func (c *Client) Get(ctx context.Context, id string) (*Profile, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/profiles/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, fmt.Errorf("fetching profile: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	var wp wireProfile
	if err := c.decodeResponse(ctx, resp, &wp); err != nil {
		return nil, err
	}
	return fromWire(wp)
}

func (c *Client) CheckName(ctx context.Context, name string) (bool, error) {
	body := map[string]string{"fullName": name}
	resp, err := c.doRequest(ctx, http.MethodPost, "/profiles/check-name", body)
	if err != nil {
		return false, fmt.Errorf("checking name: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	var wc wireCheckName
	if err := c.decodeResponse(ctx, resp, &wc); err != nil {
		return false, err
	}
	return wc.Taken, nil
}

func (c *Client) Update(ctx context.Context, params UpdateParams) (*Profile, error) {
	body := map[string]any{
		"id":       params.ID,
		"fullName": params.FullName,
		"phone":    params.Phone,
		"location": params.Location,
		"bio":      params.Bio,
	}
	if params.BirthDate != nil {
		body["birthDate"] = params.BirthDate.UTC().Format(time.RFC3339)
	}
	if params.Preference != "" {
		body[preferenceField(params.Preference)] = params.PreferenceEnabled
	}

	resp, err := c.doRequest(ctx, http.MethodPatch, "/profiles/"+url.PathEscape(params.ID), body)
	if err != nil {
		return nil, fmt.Errorf("updating profile: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	var wp wireProfile
	if err := c.decodeResponse(ctx, resp, &wp); err != nil {
		return nil, err
	}
	return fromWire(wp)
}

func (c *Client) UpdatePreference(ctx context.Context, id string, pref Preference, enabled bool) error {
	body := map[string]any{
		"preference": string(pref),
		"enabled":    enabled,
	}
	resp, err := c.doRequest(ctx, http.MethodPost, "/profiles/"+url.PathEscape(id)+"/preferences", body)
	if err != nil {
		return fmt.Errorf("updating preference: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	return c.decodeResponse(ctx, resp, nil)
}

func (c *Client) ResendActivation(ctx context.Context, email string) error {
	body := map[string]string{"email": email}
	resp, err := c.doRequest(ctx, http.MethodPost, "/activation/resend", body)
	if err != nil {
		return fmt.Errorf("resending activation: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	return c.decodeResponse(ctx, resp, nil)
}

func preferenceField(pref Preference) string {
	if pref == PreferencePayLater {
		return "payLater"
	}
	return "enableEmailNotifications"
}

func fromWire(wp wireProfile) (*Profile, error) {
	p := &Profile{
		ID:                 wp.ID,
		FullName:           wp.FullName,
		Email:              wp.Email,
		Phone:              wp.Phone,
		Location:           wp.Location,
		Bio:                wp.Bio,
		Avatar:             wp.Avatar,
		EmailNotifications: wp.EmailNotifications,
		PayLater:           wp.PayLater,
		Verified:           wp.Verified,
	}
	if wp.BirthDate != "" {
		bd, err := time.Parse(time.RFC3339, wp.BirthDate)
		if err != nil {
			return nil, fmt.Errorf("parsing birth date %q: %w", wp.BirthDate, err)
		}
		p.BirthDate = &bd
	}
	if wp.CreatedAt != "" {
		t, err := time.Parse(time.RFC3339, wp.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("parsing created at %q: %w", wp.CreatedAt, err)
		}
		p.CreatedAt = t
	}
	if wp.UpdatedAt != "" {
		t, err := time.Parse(time.RFC3339, wp.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("parsing updated at %q: %w", wp.UpdatedAt, err)
		}
		p.UpdatedAt = t
	}
	return p, nil
}

// Compile-time interface check
var _ Service = (*Client)(nil)
