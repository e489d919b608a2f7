// Package publish opens a pull request carrying generated files against a
// Bitbucket Cloud repository.
package publish

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"path"
	"regexp"
	"strings"
	"time"
)

const (
	DefaultBaseURL = "https://api.bitbucket.org/2.0"
	DefaultTrunk   = "main"
)

var (
	ErrUnauthorized   = errors.New("authentication failed")
	ErrForbidden      = errors.New("access denied")
	ErrInvalidRequest = errors.New("invalid request")
	ErrMissingAuth    = errors.New("username and app password are required")
)

// APIError is a non-2xx answer from the hosting API.
type APIError struct {
	Step    string
	Status  int
	Message string
	Body    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Step, e.Message)
}

func (e *APIError) Unwrap() error {
	switch e.Status {
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusForbidden:
		return ErrForbidden
	case http.StatusBadRequest:
		return ErrInvalidRequest
	}
	return nil
}

type File struct {
	Path    string
	Content []byte
}

type PullRequest struct {
	RepoSlug string
	Branch   string
	Files    []File
	// CommitMessage applies to every file; empty means "Add <path>".
	CommitMessage string
	Title         string
	Description   string
}

type Credentials struct {
	Username string
	Token    string
}

// Result describes the opened pull request.
type Result struct {
	ID  int    `json:"id"`
	URL string `json:"url"`
}

type Client struct {
	BaseURL   string
	Workspace string
	Trunk     string
	HTTP      *http.Client
	Logger    *slog.Logger
	// Progress, when set, receives one human-readable line per step.
	Progress func(msg string)
}

func NewClient(workspace string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		BaseURL:   DefaultBaseURL,
		Workspace: workspace,
		Trunk:     DefaultTrunk,
		HTTP:      &http.Client{Timeout: 60 * time.Second},
		Logger:    logger,
	}
}

func (c *Client) progress(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	c.Logger.Info(msg)
	if c.Progress != nil {
		c.Progress(msg)
	}
}

func (c *Client) repoURL(slug string, parts ...string) string {
	u := strings.TrimRight(c.BaseURL, "/") + "/repositories/" + url.PathEscape(c.Workspace) + "/" + url.PathEscape(slug)
	for _, p := range parts {
		u += "/" + p
	}
	return u
}

// Publish recreates pr.Branch from the trunk, commits every file onto it and
// opens a pull request. Steps run in order and the first failure aborts;
// work already done is left in place.
func (c *Client) Publish(ctx context.Context, pr PullRequest, creds Credentials) (*Result, error) {
	if creds.Username == "" || creds.Token == "" {
		return nil, ErrMissingAuth
	}
	trunk := c.Trunk
	if trunk == "" {
		trunk = DefaultTrunk
	}
	branchURL := c.repoURL(pr.RepoSlug, "refs", "branches", pr.Branch)

	c.progress("Checking if branch '%s' exists...", pr.Branch)
	if err := c.deleteBranchIfExists(ctx, branchURL, creds); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		c.Logger.Warn("could not remove existing branch", "branch", pr.Branch, "err", err)
	}

	c.progress("Creating new branch '%s'...", pr.Branch)
	payload := map[string]any{
		"name":   pr.Branch,
		"target": map[string]string{"hash": trunk},
	}
	if _, err := c.doJSON(ctx, "create branch", http.MethodPost, c.repoURL(pr.RepoSlug, "refs", "branches"), payload, creds); err != nil {
		return nil, err
	}

	c.progress("Creating %d files...", len(pr.Files))
	for _, f := range pr.Files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		c.progress("Creating file: %s...", f.Path)
		msg := pr.CommitMessage
		if msg == "" {
			msg = "Add " + f.Path
		}
		if err := c.commitFile(ctx, pr.RepoSlug, pr.Branch, msg, f, creds); err != nil {
			return nil, err
		}
	}

	c.progress("Creating pull request...")
	prPayload := map[string]any{
		"title":       pr.Title,
		"description": pr.Description,
		"source":      map[string]any{"branch": map[string]string{"name": pr.Branch}},
		"destination": map[string]any{"branch": map[string]string{"name": trunk}},
	}
	body, err := c.doJSON(ctx, "create pull request", http.MethodPost, c.repoURL(pr.RepoSlug, "pullrequests"), prPayload, creds)
	if err != nil {
		return nil, err
	}
	var created struct {
		ID    int `json:"id"`
		Links struct {
			HTML struct {
				Href string `json:"href"`
			} `json:"html"`
		} `json:"links"`
	}
	if err := json.Unmarshal(body, &created); err != nil {
		return nil, fmt.Errorf("decode pull request: %w", err)
	}
	res := &Result{ID: created.ID, URL: created.Links.HTML.Href}
	c.progress("Pull request created successfully! URL: %s", res.URL)
	return res, nil
}

func (c *Client) deleteBranchIfExists(ctx context.Context, branchURL string, creds Credentials) error {
	resp, err := c.send(ctx, http.MethodGet, branchURL, nil, "", creds)
	if err != nil {
		return err
	}
	drain(resp)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil
	}
	c.progress("Branch exists, deleting it...")
	resp, err = c.send(ctx, http.MethodDelete, branchURL, nil, "", creds)
	if err != nil {
		return err
	}
	defer drain(resp)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("delete branch: status %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}
	return nil
}

var imageExt = regexp.MustCompile(`(?i)\.(png|ico|jpg|jpeg|gif)$`)

func (c *Client) commitFile(ctx context.Context, slug, branch, message string, f File, creds Credentials) error {
	var (
		body        io.Reader
		contentType string
	)
	if imageExt.MatchString(f.Path) {
		var buf bytes.Buffer
		w := multipart.NewWriter(&buf)
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, f.Path, path.Base(f.Path)))
		h.Set("Content-Type", imageType(f.Path))
		part, err := w.CreatePart(h)
		if err != nil {
			return err
		}
		if _, err := part.Write(f.Content); err != nil {
			return err
		}
		if err := w.WriteField("branch", branch); err != nil {
			return err
		}
		if err := w.WriteField("message", message); err != nil {
			return err
		}
		if err := w.Close(); err != nil {
			return err
		}
		body, contentType = &buf, w.FormDataContentType()
	} else {
		form := url.Values{}
		form.Set(f.Path, string(f.Content))
		form.Set("branch", branch)
		form.Set("message", message)
		body, contentType = strings.NewReader(form.Encode()), "application/x-www-form-urlencoded"
	}

	resp, err := c.send(ctx, http.MethodPost, c.repoURL(slug, "src"), body, contentType, creds)
	if err != nil {
		return fmt.Errorf("create file %s: %w", f.Path, err)
	}
	defer drain(resp)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return apiError("create file "+f.Path, resp)
	}
	return nil
}

func imageType(p string) string {
	switch strings.ToLower(path.Ext(p)) {
	case ".ico":
		return "image/x-icon"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".gif":
		return "image/gif"
	}
	return "image/png"
}

func (c *Client) doJSON(ctx context.Context, step, method, u string, payload any, creds Credentials) ([]byte, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	resp, err := c.send(ctx, method, u, bytes.NewReader(b), "application/json", creds)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", step, err)
	}
	defer drain(resp)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, apiError(step, resp)
	}
	out, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("%s: read response: %w", step, err)
	}
	return out, nil
}

func (c *Client) send(ctx context.Context, method, u string, body io.Reader, contentType string, creds Credentials) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, err
	}
	req.SetBasicAuth(creds.Username, creds.Token)
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	hc := c.HTTP
	if hc == nil {
		hc = http.DefaultClient
	}
	return hc.Do(req)
}

func apiError(step string, resp *http.Response) *APIError {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	e := &APIError{Step: step, Status: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
	switch resp.StatusCode {
	case http.StatusUnauthorized:
		e.Message = "Authentication failed. Please check your app password."
	case http.StatusForbidden:
		e.Message = "Access denied. Please check if your app password has the required permissions."
	case http.StatusBadRequest:
		var parsed struct {
			Error struct {
				Message string `json:"message"`
			} `json:"error"`
		}
		if json.Unmarshal(raw, &parsed) == nil && parsed.Error.Message != "" {
			e.Message = parsed.Error.Message
		} else {
			e.Message = "Invalid request. Please check if the branch already exists or if the target branch is valid."
		}
	default:
		e.Message = fmt.Sprintf("request failed (%d)", resp.StatusCode)
		if e.Body != "" {
			e.Message += ": " + e.Body
		}
	}
	return e
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
	_ = resp.Body.Close()
}
