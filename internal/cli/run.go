package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/imroc/req/v3"

	"github.com/vahedem/subhunt/internal/config"
	"github.com/vahedem/subhunt/internal/pipeline"
	"github.com/vahedem/subhunt/internal/report"
	"github.com/vahedem/subhunt/internal/resolver"
	"github.com/vahedem/subhunt/internal/sources"
	"github.com/vahedem/subhunt/internal/wildcard"
)

// runDiscovery drives the whole discovery run: wildcard probing, source
// iteration, and the resolution pipeline. Validated hosts are printed to
// stdout as they complete; when collect is true they are also accumulated
// for the report. Returns a non-nil error only on fatal conditions from the
// primary source or its transport.
func runDiscovery(
	ctx context.Context,
	cfg *config.Config,
	client *req.Client,
	res resolver.Resolver,
	domain string,
	stdout io.Writer,
	collect bool,
	logger *slog.Logger,
) ([]report.Entry, error) {
	signature := wildcard.Detect(ctx, res, domain, logger)
	if signature != nil {
		logger.Info("wildcard DNS detected; matching answers will be suppressed", "domain", domain)
	}

	var entries []report.Entry
	emit := func(host string, addrs []string) {
		fmt.Fprintln(stdout, host)
		if collect {
			entries = append(entries, report.Entry{Host: host, Addrs: addrs})
		}
	}

	p := pipeline.New(
		pipeline.Options{Workers: cfg.Concurrency, MaxInFlight: cfg.MaxInFlight},
		res, domain, signature, emit, logger,
	)
	p.Start(ctx)

	primary := sources.NewTHC(client, logger, cfg.PageSize)
	primary.PageDone = p.DrainCompleted

	srcs := []sources.Source{primary}
	if cfg.AllSources {
		srcs = append(srcs,
			sources.NewCrtsh(client, logger),
			sources.NewHackerTarget(client, logger),
		)
	}

	for _, src := range srcs {
		logger.Debug("running source", "source", src.Name())
		if err := src.Run(ctx, domain, p.Submit); err != nil {
			return nil, fmt.Errorf("source %s: %w", src.Name(), err)
		}
	}

	p.Flush()
	logger.Debug("discovery complete", "domain", domain, "found", p.Found())
	return entries, nil
}

// saveReport writes the report table, enriching with GeoIP data when a
// database is configured. Any failure here is a warning: the results were
// already streamed to stdout.
func saveReport(path string, entries []report.Entry, geoipDB string, logger *slog.Logger) {
	var geo *report.GeoIP
	if geoipDB != "" {
		g, err := report.OpenGeoIP(geoipDB)
		if err != nil {
			logger.Warn("GeoIP enrichment unavailable", "path", geoipDB, "error", err)
		} else {
			geo = g
			defer geo.Close()
		}
	}

	if err := report.Save(path, entries, geo); err != nil {
		logger.Warn("failed to write report", "path", path, "error", err)
		return
	}
	logger.Info("report written", "path", path, "hosts", len(entries))
}
