package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/imroc/req/v3"

	"github.com/vahedem/subhunt/internal/apperr"
	"github.com/vahedem/subhunt/internal/extract"
	"github.com/vahedem/subhunt/internal/ratelimit"
)

// lookupURL is the thc.org passive DNS subdomain lookup endpoint.
const lookupURL = "https://ip.thc.org/api/v1/lookup/subdomains"

const (
	// DefaultPageSize is the per-page result limit requested from the API.
	DefaultPageSize = 500
	// pageInterval spaces page fetches as a rate-limit courtesy.
	pageInterval = 150 * time.Millisecond
)

// THC is the primary, paginated passive DNS source. Its response shape is
// not contractually fixed, so candidates and the next-page cursor are pulled
// out heuristically (package extract). Fatal transport or protocol errors
// propagate and abort the run.
type THC struct {
	client   *req.Client
	logger   *slog.Logger
	pageSize int
	limiter  *ratelimit.Limiter

	// PageDone, when set, runs after each page's candidates have been
	// emitted. The run loop uses it to drain completed resolutions between
	// pages, smoothing the in-flight count instead of bursting.
	PageDone func()
}

// NewTHC creates the primary source. pageSize values below 1 fall back to
// DefaultPageSize.
func NewTHC(client *req.Client, logger *slog.Logger, pageSize int) *THC {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	return &THC{
		client:   client,
		logger:   logger,
		pageSize: pageSize,
		limiter:  ratelimit.New(pageInterval),
	}
}

// Name returns the source identifier.
func (s *THC) Name() string { return "thc" }

// Run pages through the lookup API until the cursor is exhausted. A cursor
// identical to the previous one means the source is not making progress and
// terminates pagination (guards against a misbehaving upstream looping
// forever).
func (s *THC) Run(ctx context.Context, domain string, emit func(string)) error {
	cursor := ""
	for page := 1; ; page++ {
		if err := s.limiter.Wait(ctx); err != nil {
			return err
		}

		tree, err := s.fetchPage(ctx, domain, cursor)
		if err != nil {
			return err
		}

		count := 0
		for cand := range extract.Candidates(tree) {
			emit(cand)
			count++
		}
		s.logger.Debug("page processed", "source", s.Name(), "page", page, "candidates", count)

		if s.PageDone != nil {
			s.PageDone()
		}

		next := extract.Cursor(tree)
		if next == "" || next == cursor {
			return nil
		}
		cursor = next
	}
}

// fetchPage performs one lookup request and decodes the response tree.
func (s *THC) fetchPage(ctx context.Context, domain, cursor string) (any, error) {
	body, err := json.Marshal(map[string]any{
		"domain":     domain,
		"limit":      s.pageSize,
		"page_state": cursor,
	})
	if err != nil {
		return nil, fmt.Errorf("encoding lookup request for %q: %w", domain, err)
	}

	// The upstream expects a JSON body under a form content type; matching
	// its contract exactly avoids being routed to an HTML error page.
	resp, err := s.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/x-www-form-urlencoded").
		SetHeader("Accept", "application/json, */*").
		SetBodyBytes(body).
		Post(lookupURL)
	if err != nil {
		return nil, fmt.Errorf("%w: lookup request for %q: %w", apperr.ErrRequestFailed, domain, err)
	}
	if !resp.IsSuccessState() {
		return nil, fmt.Errorf("%w: lookup returned HTTP %d for %q: %q",
			apperr.ErrRequestFailed, resp.StatusCode, domain, snippet(resp.String()))
	}

	var tree any
	if err := json.Unmarshal(resp.Bytes(), &tree); err != nil {
		// A 2xx body that is not JSON signals an upstream contract break,
		// not transience; retrying would only repeat it.
		return nil, fmt.Errorf("%w: lookup response for %q is not JSON: %q",
			apperr.ErrBadResponse, domain, snippet(resp.String()))
	}
	return tree, nil
}

// snippet truncates a response body for diagnostics, flattening newlines.
func snippet(body string) string {
	if len(body) > 200 {
		body = body[:200]
	}
	return strings.ReplaceAll(body, "\n", "\\n")
}
