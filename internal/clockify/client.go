// Package clockify is a typed client for the external time-tracking
// REST API. Authentication is a static API key sent in the X-Api-Key
// header; the header is attached by the underlying HTTP client, not
// here. Calls are synchronous; there is no built-in retry — a failed
// call aborts the enclosing operation (sync, connect, timer start).
package clockify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
)

// MaxPageSize is the largest page size the external API accepts for
// time-entry listings.
const MaxPageSize = 500

// Doer executes a single HTTP request. Satisfied by *http.Client and by
// the retrying client from internal/client.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client wraps the external REST API.
type Client struct {
	baseURL string
	http    Doer
}

// New creates a client against the given base URL (e.g.
// "https://api.clockify.me/api/v1"). The Doer must already carry the
// API key header.
func New(baseURL string, doer Doer) *Client {
	return &Client{baseURL: baseURL, http: doer}
}

// CurrentUser returns the owner of the API key. Used to validate the
// key during connect.
func (c *Client) CurrentUser(ctx context.Context) (*User, error) {
	var user User
	if err := c.doRequest(ctx, http.MethodGet, "/user", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Workspaces lists the workspaces visible to the API key.
func (c *Client) Workspaces(ctx context.Context) ([]Workspace, error) {
	var workspaces []Workspace
	if err := c.doRequest(ctx, http.MethodGet, "/workspaces", nil, &workspaces); err != nil {
		return nil, err
	}
	return workspaces, nil
}

// Projects lists projects in a workspace.
func (c *Client) Projects(
	ctx context.Context,
	workspaceID string,
	includeArchived bool,
) ([]Project, error) {
	path := fmt.Sprintf("/workspaces/%s/projects", workspaceID)
	query := url.Values{}
	if !includeArchived {
		query.Set("archived", "false")
	}
	query.Set("page-size", strconv.Itoa(MaxPageSize))

	var projects []Project
	if err := c.doRequest(ctx, http.MethodGet, path+"?"+query.Encode(), nil, &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

// CreateProject creates a new project in a workspace.
func (c *Client) CreateProject(
	ctx context.Context,
	workspaceID string,
	req CreateProjectRequest,
) (*Project, error) {
	path := fmt.Sprintf("/workspaces/%s/projects", workspaceID)
	var project Project
	if err := c.doRequest(ctx, http.MethodPost, path, req, &project); err != nil {
		return nil, err
	}
	return &project, nil
}

// TimeEntries lists a user's entries within the window, newest first.
// Only one page is fetched: entries beyond pageSize within the window
// are not returned. Callers cap pageSize at MaxPageSize.
func (c *Client) TimeEntries(
	ctx context.Context,
	workspaceID, userID string,
	window EntryWindow,
	pageSize int,
) ([]TimeEntry, error) {
	if pageSize < 1 || pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	path := fmt.Sprintf("/workspaces/%s/user/%s/time-entries", workspaceID, userID)
	query := url.Values{}
	query.Set("start", FormatTime(window.Start))
	query.Set("end", FormatTime(window.End))
	query.Set("page-size", strconv.Itoa(pageSize))

	var entries []TimeEntry
	if err := c.doRequest(ctx, http.MethodGet, path+"?"+query.Encode(), nil, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// TimeEntry fetches a single entry by its external id.
func (c *Client) TimeEntry(
	ctx context.Context,
	workspaceID, entryID string,
) (*TimeEntry, error) {
	path := fmt.Sprintf("/workspaces/%s/time-entries/%s", workspaceID, entryID)
	var entry TimeEntry
	if err := c.doRequest(ctx, http.MethodGet, path, nil, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

// CreateTimeEntry starts a new entry (no end time) in the workspace.
func (c *Client) CreateTimeEntry(
	ctx context.Context,
	workspaceID string,
	req CreateTimeEntryRequest,
) (*TimeEntry, error) {
	path := fmt.Sprintf("/workspaces/%s/time-entries", workspaceID)
	var entry TimeEntry
	if err := c.doRequest(ctx, http.MethodPost, path, req, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

// UpdateTimeEntry replaces an entry's fields.
func (c *Client) UpdateTimeEntry(
	ctx context.Context,
	workspaceID, entryID string,
	req UpdateTimeEntryRequest,
) (*TimeEntry, error) {
	path := fmt.Sprintf("/workspaces/%s/time-entries/%s", workspaceID, entryID)
	var entry TimeEntry
	if err := c.doRequest(ctx, http.MethodPut, path, req, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

// errorResponse is the external API's error body shape.
type errorResponse struct {
	Message string `json:"message"`
	Code    int    `json:"code"`
}

func (c *Client) doRequest(
	ctx context.Context,
	method, path string,
	body any,
	out any,
) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("clockify: marshal request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("clockify: build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("clockify: request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("clockify: read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return classifyError(resp.StatusCode, raw)
	}

	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("clockify: decode response: %w", err)
	}
	return nil
}

// classifyError maps upstream status codes onto the error taxonomy,
// always carrying the upstream message.
func classifyError(statusCode int, body []byte) error {
	message := upstreamMessage(body)

	switch statusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		if message != "" {
			return fmt.Errorf("%w: %s", ErrInvalidAPIKey, message)
		}
		return ErrInvalidAPIKey
	case http.StatusNotFound:
		if message != "" {
			return fmt.Errorf("%w: %s", ErrNotFound, message)
		}
		return ErrNotFound
	default:
		return &APIError{StatusCode: statusCode, Message: message}
	}
}

func upstreamMessage(body []byte) string {
	var errResp errorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Message != "" {
		return errResp.Message
	}
	// Non-JSON body; keep a bounded preview for logs
	preview := string(body)
	if len(preview) > 200 {
		preview = preview[:200] + "..."
	}
	return preview
}
