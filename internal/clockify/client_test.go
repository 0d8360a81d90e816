package clockify

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCurrentUser(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/user", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "user-1",
			"email": "a@b.c",
			"name": "Alice",
			"activeWorkspace": "ws-1",
			"defaultWorkspace": "ws-2"
		}`))
	}))
	defer srv.Close()

	c := New(srv.URL, srv.Client())
	user, err := c.CurrentUser(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "user-1", user.ID)
	assert.Equal(t, "ws-1", user.ActiveWorkspace)
	assert.Equal(t, "ws-2", user.DefaultWorkspace)
}

func TestErrorTaxonomy(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		body       string
		check      func(t *testing.T, err error)
	}{
		{
			name:       "401 maps to invalid api key",
			statusCode: http.StatusUnauthorized,
			body:       `{"message": "Api key does not exist", "code": 4003}`,
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, ErrInvalidAPIKey)
				assert.Contains(t, err.Error(), "Api key does not exist")
			},
		},
		{
			name:       "403 maps to invalid api key",
			statusCode: http.StatusForbidden,
			body:       ``,
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, ErrInvalidAPIKey)
			},
		},
		{
			name:       "404 maps to not found",
			statusCode: http.StatusNotFound,
			body:       `{"message": "Workspace not found"}`,
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, ErrNotFound)
			},
		},
		{
			name:       "500 maps to APIError",
			statusCode: http.StatusInternalServerError,
			body:       `{"message": "boom"}`,
			check: func(t *testing.T, err error) {
				var apiErr *APIError
				require.ErrorAs(t, err, &apiErr)
				assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
				assert.Equal(t, "boom", apiErr.Message)
			},
		},
		{
			name:       "non-json error body is preserved",
			statusCode: http.StatusBadGateway,
			body:       `<html>gateway error</html>`,
			check: func(t *testing.T, err error) {
				var apiErr *APIError
				require.ErrorAs(t, err, &apiErr)
				assert.Contains(t, apiErr.Message, "gateway error")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.statusCode)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c := New(srv.URL, srv.Client())
			_, err := c.CurrentUser(context.Background())
			require.Error(t, err)
			tt.check(t, err)
		})
	}
}

func TestTimeEntries_QueryParams(t *testing.T) {
	var gotQuery map[string][]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/workspaces/ws-1/user/user-1/time-entries", r.URL.Path)
		gotQuery = r.URL.Query()
		_, _ = w.Write([]byte(`[
			{
				"id": "entry-1",
				"description": "deep work",
				"projectId": "proj-1",
				"billable": true,
				"timeInterval": {"start": "2025-06-02T09:00:00Z", "end": "2025-06-02T10:30:00Z"}
			}
		]`))
	}))
	defer srv.Close()

	window := EntryWindow{
		Start: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2025, 6, 8, 0, 0, 0, 0, time.UTC),
	}

	c := New(srv.URL, srv.Client())
	entries, err := c.TimeEntries(context.Background(), "ws-1", "user-1", window, 100)
	require.NoError(t, err)

	assert.Equal(t, []string{"2025-06-01T00:00:00Z"}, gotQuery["start"])
	assert.Equal(t, []string{"2025-06-08T00:00:00Z"}, gotQuery["end"])
	assert.Equal(t, []string{"100"}, gotQuery["page-size"])

	require.Len(t, entries, 1)
	assert.Equal(t, "entry-1", entries[0].ID)

	start, err := entries[0].TimeInterval.StartTime()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC), start)

	end, err := entries[0].TimeInterval.EndTime()
	require.NoError(t, err)
	require.NotNil(t, end)
	assert.Equal(t, time.Date(2025, 6, 2, 10, 30, 0, 0, time.UTC), *end)
}

func TestTimeEntries_PageSizeClamped(t *testing.T) {
	var gotPageSize string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPageSize = r.URL.Query().Get("page-size")
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c := New(srv.URL, srv.Client())
	_, err := c.TimeEntries(context.Background(), "ws", "u", EntryWindow{}, 9999)
	require.NoError(t, err)
	assert.Equal(t, "500", gotPageSize)
}

func TestTimeInterval_RunningEntry(t *testing.T) {
	interval := TimeInterval{Start: "2025-06-02T09:00:00Z", End: ""}
	end, err := interval.EndTime()
	require.NoError(t, err)
	assert.Nil(t, end)
}

func TestIsConflict(t *testing.T) {
	assert.True(t, IsConflict(&APIError{StatusCode: 409, Message: "conflict"}))
	assert.True(t, IsConflict(&APIError{StatusCode: 400, Message: "Project with name X already exists"}))
	assert.False(t, IsConflict(&APIError{StatusCode: 400, Message: "bad request"}))
	assert.False(t, IsConflict(&APIError{StatusCode: 500, Message: "already exists"}))
	assert.False(t, IsConflict(errors.New("plain error")))
	assert.False(t, IsConflict(ErrNotFound))
}

func TestFormatTime(t *testing.T) {
	loc := time.FixedZone("EET", 2*60*60)
	ts := time.Date(2025, 6, 2, 12, 30, 45, 123456789, loc)
	assert.Equal(t, "2025-06-02T10:30:45Z", FormatTime(ts))
}
