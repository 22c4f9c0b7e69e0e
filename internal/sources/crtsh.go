package sources

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/imroc/req/v3"

	"github.com/vahedem/subhunt/internal/validate"
)

// crtshBaseURL is the crt.sh API endpoint base for certificate transparency
// log searches. The query uses the `%.domain` wildcard form to find all
// subdomains.
const crtshBaseURL = "https://crt.sh/?q=%%.%s&output=json"

// crtshMaxEntries bounds how much of a single response is processed.
const crtshMaxEntries = 10000

// crtshEntry represents a single record returned by the crt.sh JSON API.
type crtshEntry struct {
	CommonName string `json:"common_name"`
	NameValue  string `json:"name_value"`
}

// Crtsh queries the crt.sh certificate transparency log. It is a secondary,
// best-effort source: any failure degrades to zero candidates with a warning
// instead of aborting the run.
type Crtsh struct {
	client *req.Client
	logger *slog.Logger
}

// NewCrtsh creates a new crt.sh source with the given HTTP client and logger.
func NewCrtsh(client *req.Client, logger *slog.Logger) *Crtsh {
	return &Crtsh{client: client, logger: logger}
}

// Name returns the source identifier.
func (s *Crtsh) Name() string { return "crtsh" }

// Run queries crt.sh once and emits every hostname found in the certificate
// subjects. Certificate entries may carry several newline-delimited names
// per record, and wildcard subjects are stripped to their base hostname.
// The subject fields repeat names heavily across a large response, so each
// distinct hostname is emitted once.
func (s *Crtsh) Run(ctx context.Context, domain string, emit func(string)) error {
	url := fmt.Sprintf(crtshBaseURL, domain)

	var entries []crtshEntry
	resp, err := s.client.R().
		SetContext(ctx).
		SetSuccessResult(&entries).
		Get(url)
	if err != nil {
		s.logger.Warn("secondary source degraded", "source", s.Name(), "error", err)
		return nil
	}
	if !resp.IsSuccessState() {
		s.logger.Warn("secondary source degraded", "source", s.Name(), "status", resp.StatusCode)
		return nil
	}

	if len(entries) > crtshMaxEntries {
		s.logger.Debug("truncating oversized response", "source", s.Name(), "entries", len(entries))
		entries = entries[:crtshMaxEntries]
	}
	seen := make(map[string]struct{})
	for _, entry := range entries {
		for _, name := range []string{entry.CommonName, entry.NameValue} {
			for _, sub := range strings.Split(name, "\n") {
				sub = validate.StripWildcard(strings.TrimSpace(sub))
				if sub == "" {
					continue
				}
				if _, ok := seen[sub]; ok {
					continue
				}
				seen[sub] = struct{}{}
				emit(sub)
			}
		}
	}
	return nil
}
