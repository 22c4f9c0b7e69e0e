// Package sources implements the passive reconnaissance sources that produce
// raw candidate hostnames. The primary source is paginated and authoritative:
// its failures abort the run. Secondary sources are one-shot, best-effort
// coverage extensions that degrade to zero candidates on any failure.
package sources

import "context"

// Source streams raw candidate hostnames for a target domain. Candidates are
// unvalidated: any case, possible trailing dots, possible out-of-scope noise.
// Normalization, scope checking, and deduplication happen downstream.
type Source interface {
	Name() string
	// Run emits every candidate the source can produce for domain. A non-nil
	// error is fatal and aborts the whole run; best-effort sources must
	// swallow their failures and return nil.
	Run(ctx context.Context, domain string, emit func(string)) error
}
