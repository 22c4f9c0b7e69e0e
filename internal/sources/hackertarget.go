package sources

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/imroc/req/v3"
)

// hackerTargetURL is the HackerTarget host-search endpoint. It returns plain
// "hostname,ip" CSV lines, one record per line.
const hackerTargetURL = "https://api.hackertarget.com/hostsearch/?q=%s"

// hackerTargetMaxLines bounds how much of a single response is processed.
const hackerTargetMaxLines = 10000

// HackerTarget queries the HackerTarget host-search archive. Like every
// secondary source it is best-effort: failures degrade to zero candidates.
type HackerTarget struct {
	client *req.Client
	logger *slog.Logger
}

// NewHackerTarget creates a new HackerTarget source.
func NewHackerTarget(client *req.Client, logger *slog.Logger) *HackerTarget {
	return &HackerTarget{client: client, logger: logger}
}

// Name returns the source identifier.
func (s *HackerTarget) Name() string { return "hackertarget" }

// Run issues a single host-search query and emits the hostname field of each
// CSV line. Lines without a comma (including the API's quota-exceeded error
// text) are skipped.
func (s *HackerTarget) Run(ctx context.Context, domain string, emit func(string)) error {
	url := fmt.Sprintf(hackerTargetURL, domain)

	resp, err := s.client.R().SetContext(ctx).Get(url)
	if err != nil {
		s.logger.Warn("secondary source degraded", "source", s.Name(), "error", err)
		return nil
	}
	if !resp.IsSuccessState() {
		s.logger.Warn("secondary source degraded", "source", s.Name(), "status", resp.StatusCode)
		return nil
	}

	lines := strings.Split(resp.String(), "\n")
	if len(lines) > hackerTargetMaxLines {
		s.logger.Debug("truncating oversized response", "source", s.Name(), "lines", len(lines))
		lines = lines[:hackerTargetMaxLines]
	}
	for _, line := range lines {
		host, _, ok := strings.Cut(strings.TrimSpace(line), ",")
		if !ok || host == "" {
			continue
		}
		emit(host)
	}
	return nil
}
