package report

import (
	"fmt"
	"net"
	"sort"
	"strings"

	"github.com/oschwald/geoip2-golang"
)

// GeoIP enriches report rows with country codes looked up in a local MaxMind
// database. Lookups never fail the report; unknown addresses contribute
// nothing to the column.
type GeoIP struct {
	db *geoip2.Reader
}

// OpenGeoIP opens a MaxMind database (GeoLite2-Country or GeoLite2-City) at path.
func OpenGeoIP(path string) (*GeoIP, error) {
	db, err := geoip2.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening GeoIP database: %w", err)
	}
	return &GeoIP{db: db}, nil
}

// Close releases the underlying database.
func (g *GeoIP) Close() error {
	return g.db.Close()
}

// Countries returns the sorted, deduplicated ISO country codes for the given
// addresses, comma-joined. Unresolvable or unlocatable addresses are skipped.
func (g *GeoIP) Countries(addrs []string) string {
	seen := make(map[string]struct{})
	for _, addr := range addrs {
		ip := net.ParseIP(addr)
		if ip == nil {
			continue
		}
		rec, err := g.db.Country(ip)
		if err != nil || rec.Country.IsoCode == "" {
			continue
		}
		seen[rec.Country.IsoCode] = struct{}{}
	}

	codes := make([]string, 0, len(seen))
	for code := range seen {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return strings.Join(codes, ", ")
}
