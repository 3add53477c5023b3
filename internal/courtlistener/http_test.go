package courtlistener

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"benchwatch/pkg/platform/sentinel"
)

func TestHTTPClientListChangedFollowsCursor(t *testing.T) {
	ctx := context.Background()

	var gotAuth string
	var firstQuery map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")

		if r.URL.Query().Get("page") == "2" {
			fmt.Fprint(w, `{"next": null, "results": [{"id": 7, "name_full": "Second Page"}]}`)
			return
		}

		firstQuery = map[string]string{
			"order_by":                       r.URL.Query().Get("order_by"),
			"page_size":                      r.URL.Query().Get("page_size"),
			"positions__court__jurisdiction": r.URL.Query().Get("positions__court__jurisdiction"),
		}
		fmt.Fprintf(w, `{"next": %q, "results": [{"id": 3, "name_full": "First Page"}]}`,
			"http://"+r.Host+"/people/?page=2")
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, "secret", time.Second)

	page, err := client.ListChanged(ctx, "", ListOptions{Jurisdiction: "F", PageSize: 50})
	require.NoError(t, err)
	require.Len(t, page.Records, 1)
	assert.Equal(t, "3", page.Records[0].ID)
	assert.Equal(t, "First Page", page.Records[0].Name)
	assert.NotEmpty(t, page.Next)

	assert.Equal(t, "Token secret", gotAuth)
	assert.Equal(t, "-date_modified", firstQuery["order_by"])
	assert.Equal(t, "50", firstQuery["page_size"])
	assert.Equal(t, "F", firstQuery["positions__court__jurisdiction"])

	// The cursor is the verbatim next-page URL; following it needs no
	// re-derivation of query parameters.
	page, err = client.ListChanged(ctx, page.Next, ListOptions{})
	require.NoError(t, err)
	require.Len(t, page.Records, 1)
	assert.Equal(t, "Second Page", page.Records[0].Name)
	assert.Empty(t, page.Next, "exhausted listing ends the walk")
}

func TestHTTPClientGetJudge(t *testing.T) {
	payload := `{"id": 42, "name_full": "Ada Barnes", "positions": [{"court_full_name": "Ninth Circuit", "date_termination": ""}]}`
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/people/42/", r.URL.Path)
		fmt.Fprint(w, payload)
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, "", time.Second)
	rec, err := client.GetJudge(context.Background(), "42")
	require.NoError(t, err)

	assert.Equal(t, "42", rec.ID)
	assert.Equal(t, "Ada Barnes", rec.Name)
	assert.JSONEq(t, payload, string(rec.Raw), "raw snapshot preserves the exact payload")
	require.NotNil(t, rec.ActivePosition())
	assert.Equal(t, "Ninth Circuit", rec.ActivePosition().CourtName)
}

func TestHTTPClientErrorMapping(t *testing.T) {
	status := http.StatusNotFound
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(status)
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, "", time.Second)

	_, err := client.GetJudge(context.Background(), "1")
	assert.ErrorIs(t, err, sentinel.ErrNotFound)

	status = http.StatusTooManyRequests
	_, err = client.GetJudge(context.Background(), "1")
	assert.ErrorIs(t, err, sentinel.ErrUnavailable)

	status = http.StatusBadGateway
	_, err = client.GetJudge(context.Background(), "1")
	assert.ErrorIs(t, err, sentinel.ErrUnavailable)
}

func TestActivePosition(t *testing.T) {
	rec := &JudgeRecord{}
	assert.Nil(t, rec.ActivePosition())

	rec.Positions = []PositionRecord{
		{CourtName: "Old Court", DateTerminated: "1999-01-01"},
		{CourtName: "Current Court"},
	}
	require.NotNil(t, rec.ActivePosition())
	assert.Equal(t, "Current Court", rec.ActivePosition().CourtName)

	// All closed: fall back to the first listed.
	rec.Positions[1].DateTerminated = "2020-06-30"
	assert.Equal(t, "Old Court", rec.ActivePosition().CourtName)
}
