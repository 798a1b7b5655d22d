// Package api is the HTTP client for the diary backend. It owns the wire
// DTOs and translates HTTP status codes back into the shared sentinel
// errors so callers can use errors.Is.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"sollog/internal/common"
)

// VideoView mirrors the server's per-entry response.
type VideoView struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	FetchURL       string    `json:"fetchUrl"`
	IV             string    `json:"iv"`
	JWK            string    `json:"jwk"`
	SequenceNumber int64     `json:"sequenceNumber"`
	SolDay         int       `json:"solDay"`
	CreatedAt      time.Time `json:"createdAt"`
}

// UploadResult mirrors the server's upload acknowledgement.
type UploadResult struct {
	ID             string `json:"id"`
	SequenceNumber int64  `json:"sequenceNumber"`
}

// UserView mirrors the server's account/profile response.
type UserView struct {
	ID              string `json:"id"`
	Email           string `json:"email"`
	Username        string `json:"username"`
	DateOfBirth     string `json:"dateOfBirth"`
	Location        string `json:"location"`
	ProfileComplete bool   `json:"profileComplete"`
}

// Client talks to the backend API. The bearer token is held after a
// successful Register or Login and attached to every subsequent request.
type Client struct {
	baseURL    string
	httpClient *http.Client
	token      string
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

// IsAuthenticated reports whether a bearer token is held.
func (c *Client) IsAuthenticated() bool {
	return c.token != ""
}

// Logout drops the held token.
func (c *Client) Logout() {
	c.token = ""
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// errFromStatus maps a non-2xx response onto a sentinel error, folding in
// the server's error message when it sent one.
func errFromStatus(resp *http.Response) error {
	var sentinel error
	switch resp.StatusCode {
	case http.StatusBadRequest:
		sentinel = common.ErrValidation
	case http.StatusUnauthorized:
		sentinel = common.ErrUnauthorized
	case http.StatusNotFound:
		sentinel = common.ErrNotFound
	case http.StatusConflict:
		sentinel = common.ErrAlreadyExists
	default:
		sentinel = common.ErrInternal
	}

	var body errorResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil && body.Error != "" {
		return fmt.Errorf("%w: %s", sentinel, body.Error)
	}
	return sentinel
}

func (c *Client) do(req *http.Request, out any) error {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return errFromStatus(resp)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}
	return nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		buf := &bytes.Buffer{}
		if err := json.NewEncoder(buf).Encode(in); err != nil {
			return err
		}
		body = buf
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.do(req, out)
}

// Register creates an account and stores the returned token.
func (c *Client) Register(ctx context.Context, email string, password []byte) error {
	var tok tokenResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/auth/register",
		credentialsRequest{Email: email, Password: string(password)}, &tok); err != nil {
		return err
	}
	c.token = tok.Token
	return nil
}

// Login authenticates and stores the returned token.
func (c *Client) Login(ctx context.Context, email string, password []byte) error {
	var tok tokenResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/auth/login",
		credentialsRequest{Email: email, Password: string(password)}, &tok); err != nil {
		return err
	}
	c.token = tok.Token
	return nil
}

// Me returns the current account.
func (c *Client) Me(ctx context.Context) (*UserView, error) {
	var view UserView
	if err := c.doJSON(ctx, http.MethodGet, "/api/auth/me", nil, &view); err != nil {
		return nil, err
	}
	return &view, nil
}

type profileRequest struct {
	Username    string `json:"username"`
	DateOfBirth string `json:"dateOfBirth"`
	Location    string `json:"location"`
}

// UpdateProfile stores profile fields for the current account.
func (c *Client) UpdateProfile(ctx context.Context, username, dateOfBirth, location string) (*UserView, error) {
	var view UserView
	err := c.doJSON(ctx, http.MethodPut, "/api/profile",
		profileRequest{Username: username, DateOfBirth: dateOfBirth, Location: location}, &view)
	if err != nil {
		return nil, err
	}
	return &view, nil
}

// Upload sends the ciphertext and key material as a multipart form.
func (c *Client) Upload(ctx context.Context, ciphertext []byte, ivHex, jwk, title string) (*UploadResult, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	fw, err := mw.CreateFormFile("file", "clip.bin")
	if err != nil {
		return nil, err
	}
	if _, err := fw.Write(ciphertext); err != nil {
		return nil, err
	}
	for k, v := range map[string]string{"iv": ivHex, "jwk": jwk, "title": title} {
		if err := mw.WriteField(k, v); err != nil {
			return nil, err
		}
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/videos", &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var res UploadResult
	if err := c.do(req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// List returns the caller's entries, newest first.
func (c *Client) List(ctx context.Context) ([]*VideoView, error) {
	var views []*VideoView
	if err := c.doJSON(ctx, http.MethodGet, "/api/videos", nil, &views); err != nil {
		return nil, err
	}
	return views, nil
}

// Get returns one owned entry with a fresh fetch URL.
func (c *Client) Get(ctx context.Context, id string) (*VideoView, error) {
	var view VideoView
	if err := c.doJSON(ctx, http.MethodGet, "/api/videos/"+id, nil, &view); err != nil {
		return nil, err
	}
	return &view, nil
}

type renameRequest struct {
	Title string `json:"title"`
}

// Rename updates the title of an owned entry.
func (c *Client) Rename(ctx context.Context, id, title string) (*VideoView, error) {
	var view VideoView
	if err := c.doJSON(ctx, http.MethodPatch, "/api/videos/"+id, renameRequest{Title: title}, &view); err != nil {
		return nil, err
	}
	return &view, nil
}

// Delete removes an owned entry and its ciphertext.
func (c *Client) Delete(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/api/videos/"+id, nil, nil)
}

// FetchCiphertext downloads the blob behind a minted fetch URL. The URL is
// already signed; no bearer token is attached.
func (c *Client) FetchCiphertext(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrStorageRead, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: fetch url returned %d", common.ErrStorageRead, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrStorageRead, err)
	}
	return data, nil
}
