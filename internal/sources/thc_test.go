package sources_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"testing"

	"github.com/imroc/req/v3"
	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vahedem/subhunt/internal/apperr"
	"github.com/vahedem/subhunt/internal/sources"
	"github.com/vahedem/subhunt/internal/testutil"
)

const lookupURL = "https://ip.thc.org/api/v1/lookup/subdomains"

func newTestClient(t *testing.T) *req.Client {
	t.Helper()
	client := req.NewClient()
	httpmock.ActivateNonDefault(client.GetClient())
	t.Cleanup(httpmock.DeactivateAndReset)
	return client
}

// distinct removes duplicates while keeping first-seen order. The extractor
// over-approximates on unknown shapes, so raw candidate streams may repeat;
// the resolution stage dedupes, and these tests do the same.
func distinct(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	var out []string
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

// pageResponder serves pages keyed by the page_state field of the request body.
func pageResponder(t *testing.T, pages map[string]string) httpmock.Responder {
	t.Helper()
	return func(r *http.Request) (*http.Response, error) {
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		var params struct {
			Domain    string `json:"domain"`
			Limit     int    `json:"limit"`
			PageState string `json:"page_state"`
		}
		require.NoError(t, json.Unmarshal(body, &params))
		assert.Equal(t, "example.com", params.Domain)
		assert.Equal(t, 500, params.Limit)

		page, ok := pages[params.PageState]
		if !ok {
			return httpmock.NewStringResponse(http.StatusBadRequest, "unknown page state"), nil
		}
		return httpmock.NewStringResponse(http.StatusOK, page), nil
	}
}

func TestTHC_SinglePage(t *testing.T) {
	client := newTestClient(t)
	httpmock.RegisterResponder(http.MethodPost, lookupURL, pageResponder(t, map[string]string{
		"": `{"subdomains": ["a.example.com", "b.example.com"], "next": ""}`,
	}))

	src := sources.NewTHC(client, testutil.NopLogger(), 0)
	var got []string
	require.NoError(t, src.Run(context.Background(), "example.com", func(s string) { got = append(got, s) }))

	assert.Equal(t, []string{"a.example.com", "b.example.com"}, distinct(got))
	assert.Equal(t, 1, httpmock.GetTotalCallCount())
}

func TestTHC_PaginatesUntilEmptyCursor(t *testing.T) {
	client := newTestClient(t)
	httpmock.RegisterResponder(http.MethodPost, lookupURL, pageResponder(t, map[string]string{
		"":   `{"subdomains": ["a.example.com"], "page_state": "p2"}`,
		"p2": `{"subdomains": ["b.example.com"], "page_state": "p3"}`,
		"p3": `{"subdomains": ["c.example.com"]}`,
	}))

	src := sources.NewTHC(client, testutil.NopLogger(), 0)
	pagesDone := 0
	src.PageDone = func() { pagesDone++ }

	var got []string
	require.NoError(t, src.Run(context.Background(), "example.com", func(s string) { got = append(got, s) }))

	assert.Equal(t, []string{"a.example.com", "b.example.com", "c.example.com"}, distinct(got))
	assert.Equal(t, 3, httpmock.GetTotalCallCount())
	assert.Equal(t, 3, pagesDone, "PageDone must run once per page")
}

func TestTHC_StopsOnRepeatedCursor(t *testing.T) {
	client := newTestClient(t)
	httpmock.RegisterResponder(http.MethodPost, lookupURL, pageResponder(t, map[string]string{
		"":     `{"subdomains": ["a.example.com"], "page_state": "loop"}`,
		"loop": `{"subdomains": ["b.example.com"], "page_state": "loop"}`,
	}))

	src := sources.NewTHC(client, testutil.NopLogger(), 0)
	var got []string
	require.NoError(t, src.Run(context.Background(), "example.com", func(s string) { got = append(got, s) }))

	// A cursor identical to the previous one is "no progress": exactly two
	// pages are fetched, not one and not three.
	assert.Equal(t, 2, httpmock.GetTotalCallCount())
	assert.Equal(t, []string{"a.example.com", "b.example.com"}, distinct(got))
}

func TestTHC_FatalOnHTTPError(t *testing.T) {
	client := newTestClient(t)
	httpmock.RegisterResponder(http.MethodPost, lookupURL,
		httpmock.NewStringResponder(http.StatusUnauthorized, "missing token"),
	)

	src := sources.NewTHC(client, testutil.NopLogger(), 0)
	err := src.Run(context.Background(), "example.com", func(string) {})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrRequestFailed)
	assert.Contains(t, err.Error(), "401")
}

func TestTHC_FatalOnNetworkError(t *testing.T) {
	client := newTestClient(t)
	httpmock.RegisterResponder(http.MethodPost, lookupURL,
		httpmock.NewErrorResponder(fmt.Errorf("connection refused")),
	)

	src := sources.NewTHC(client, testutil.NopLogger(), 0)
	err := src.Run(context.Background(), "example.com", func(string) {})
	assert.ErrorIs(t, err, apperr.ErrRequestFailed)
}

func TestTHC_FatalOnNonJSONSuccess(t *testing.T) {
	client := newTestClient(t)
	httpmock.RegisterResponder(http.MethodPost, lookupURL,
		httpmock.NewStringResponder(http.StatusOK, "<html>maintenance page</html>"),
	)

	src := sources.NewTHC(client, testutil.NopLogger(), 0)
	err := src.Run(context.Background(), "example.com", func(string) {})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrBadResponse)
	assert.Equal(t, 1, httpmock.GetTotalCallCount(), "a contract break must not be retried")
}

func TestTHC_ContextCancelled(t *testing.T) {
	client := newTestClient(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	src := sources.NewTHC(client, testutil.NopLogger(), 0)
	err := src.Run(ctx, "example.com", func(string) {})
	assert.Error(t, err)
}
