// Package httpclient builds the shared HTTP client and attaches the retry
// policy used by every upstream source.
package httpclient

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/imroc/req/v3"

	"github.com/vahedem/subhunt/internal/apperr"
	"github.com/vahedem/subhunt/internal/version"
)

// DefaultUserAgent is the User-Agent sent when no explicit value is configured.
// It identifies subhunt honestly so server operators can recognise its traffic.
// var (not const) because version.Version is a link-time variable, not a compile-time constant.
var DefaultUserAgent = "subhunt/" + version.Version + " (+https://github.com/vahedem/subhunt)"

// defaultTimeout bounds a single request attempt, matching the upstream
// lookup API's worst observed response time with headroom.
const defaultTimeout = 30 * time.Second

// New builds a *req.Client with optional proxy and user-agent configuration.
// If userAgent is empty, DefaultUserAgent is used.
// proxy supports http://, https://, and socks5:// URLs via req's SetProxyURL.
// When proxy is empty, HTTP_PROXY / HTTPS_PROXY / NO_PROXY environment
// variables are honoured automatically via http.ProxyFromEnvironment.
// When debug is true and logger is non-nil, an OnAfterResponse hook is
// attached that logs the HTTP method, URL, and status code at DEBUG level.
// Returns an error if the proxy URL has an unrecognised scheme.
func New(proxy, userAgent string, logger *slog.Logger, debug bool) (*req.Client, error) {
	client := req.NewClient().SetTimeout(defaultTimeout)

	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	client.SetUserAgent(userAgent)

	if proxy != "" {
		if err := validateProxy(proxy); err != nil {
			return nil, fmt.Errorf("invalid proxy URL %q: %w", proxy, err)
		}
		// SetProxyURL with a socks5:// URL forwards hostnames (not
		// pre-resolved IPs) through the proxy, preventing DNS leaks for the
		// HTTP-based sources. The resolution primitive tunnels separately
		// via resolver.System.
		client.SetProxyURL(proxy)
	} else {
		client.SetProxy(http.ProxyFromEnvironment)
	}

	if debug && logger != nil {
		attachDebugHook(client, logger)
	}

	return client, nil
}

// attachDebugHook registers an OnAfterResponse hook that logs the HTTP method,
// URL, and status code at DEBUG level, and logs a body snippet on non-2xx responses.
func attachDebugHook(client *req.Client, logger *slog.Logger) {
	client.OnAfterResponse(func(_ *req.Client, resp *req.Response) error {
		if resp.Request == nil || resp.Request.RawRequest == nil {
			return nil
		}
		logger.Debug("http response",
			"method", resp.Request.RawRequest.Method,
			"url", resp.Request.RawRequest.URL.String(),
			"status", resp.StatusCode,
		)
		if !resp.IsSuccessState() {
			body := resp.String()
			if len(body) > 512 {
				body = body[:512]
			}
			logger.Debug("http error body",
				"status", resp.StatusCode,
				"body", body,
			)
		}
		return nil
	})
}

// validateProxy performs a basic check that the proxy URL has a recognised scheme.
func validateProxy(proxy string) error {
	for _, scheme := range []string{"http://", "https://", "socks5://"} {
		if len(proxy) >= len(scheme) && proxy[:len(scheme)] == scheme {
			return nil
		}
	}
	return fmt.Errorf("%w: proxy scheme must be http://, https://, or socks5://", apperr.ErrInvalidInput)
}
