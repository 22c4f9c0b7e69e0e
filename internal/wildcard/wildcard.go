// Package wildcard learns the address-set signature of wildcard DNS zones so
// false-positive "live" hosts can be suppressed.
package wildcard

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"slices"
	"strings"

	"github.com/vahedem/subhunt/internal/resolver"
)

const (
	// probeCount is how many random non-existent labels are resolved.
	probeCount = 3
	// labelLength is the length of each random probe label. Long enough that
	// an accidental collision with a real subdomain is implausible.
	labelLength = 18
)

const labelAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// Detect probes random non-existent subdomains of domain and returns the
// address set that wildcard DNS answers with, sorted, or nil when no
// wildcard behavior is detected.
//
// Fewer than 2 non-empty observations means too little signal to conclude
// anything. Otherwise the most frequent identical address set wins if it was
// seen at least twice; requiring agreement while tolerating one anomalous
// probe (e.g. a transient resolver hiccup).
func Detect(ctx context.Context, r resolver.Resolver, domain string, logger *slog.Logger) []string {
	counts := make(map[string]int)
	sets := make(map[string][]string)

	for i := 0; i < probeCount; i++ {
		probe := randomLabel() + "." + domain
		addrs, err := r.LookupHost(ctx, probe)
		if err != nil || len(addrs) == 0 {
			logger.Debug("wildcard probe did not resolve", "probe", probe)
			continue
		}
		key := signatureKey(addrs)
		counts[key]++
		sets[key] = addrs
		logger.Debug("wildcard probe resolved", "probe", probe, "addrs", key)
	}

	var bestKey string
	bestCount := 0
	total := 0
	for key, n := range counts {
		total += n
		if n > bestCount {
			bestKey, bestCount = key, n
		}
	}

	if total < 2 || bestCount < 2 {
		return nil
	}

	signature := slices.Clone(sets[bestKey])
	slices.Sort(signature)
	logger.Debug("wildcard signature detected", "domain", domain, "signature", bestKey)
	return signature
}

// Matches reports whether addrs equals the detected signature. Both are
// compared in sorted order; a nil signature matches nothing.
func Matches(signature, addrs []string) bool {
	if len(signature) == 0 || len(signature) != len(addrs) {
		return false
	}
	sorted := slices.Clone(addrs)
	slices.Sort(sorted)
	return slices.Equal(signature, sorted)
}

func signatureKey(addrs []string) string {
	sorted := slices.Clone(addrs)
	slices.Sort(sorted)
	return strings.Join(sorted, ",")
}

func randomLabel() string {
	b := make([]byte, labelLength)
	for i := range b {
		b[i] = labelAlphabet[rand.IntN(len(labelAlphabet))] //nolint:gosec // probe labels need uniqueness, not unpredictability
	}
	return string(b)
}
