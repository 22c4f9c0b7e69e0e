// Package pipeline implements the bounded-concurrency resolution stage that
// validates candidate hostnames. Candidates stream in from the sources on a
// single producer goroutine; a fixed worker pool resolves them; validated
// live hosts are handed to the sink exactly once each.
package pipeline

import (
	"context"
	"log/slog"
	"slices"
	"sync"

	"github.com/vahedem/subhunt/internal/resolver"
	"github.com/vahedem/subhunt/internal/validate"
	"github.com/vahedem/subhunt/internal/wildcard"
)

const (
	// DefaultWorkers is the size of the resolution worker pool.
	DefaultWorkers = 60
	// DefaultMaxInFlight caps the number of submitted-but-undrained
	// resolution tasks, bounding memory and open-socket usage no matter how
	// fast the sources produce candidates.
	DefaultMaxInFlight = 2500
)

// Emit receives each validated live host with its sorted address set.
// It is invoked from the producer goroutine, never concurrently.
type Emit func(host string, addrs []string)

// Options configures a Pipeline.
type Options struct {
	// Workers is the number of concurrent resolution goroutines.
	Workers int
	// MaxInFlight caps submitted-but-undrained tasks; Submit blocks draining
	// one completed task when the cap is reached.
	MaxInFlight int
}

// resolution is one completed lookup travelling from a worker to the drain path.
type resolution struct {
	host  string
	addrs []string
}

// Pipeline owns the seen/found sets and the worker pool.
//
// Concurrency contract: Submit, DrainCompleted, and Flush must all be called
// from the same (producer) goroutine. The seen set is written only by Submit
// and the found set only by the drain path, which runs on that same
// goroutine. This single-writer discipline keeps the pipeline correct
// without locks. Workers only resolve; they never touch either set.
type Pipeline struct {
	resolver  resolver.Resolver
	domain    string
	signature []string
	emit      Emit
	logger    *slog.Logger

	workers     int
	maxInFlight int

	tasks   chan string
	results chan resolution
	wg      sync.WaitGroup

	inFlight int
	seen     map[string]struct{}
	found    map[string]struct{}
}

// New creates a Pipeline for the given target domain. signature is the
// wildcard address-set signature to suppress, or nil when none was detected;
// it is treated as immutable for the lifetime of the pipeline.
func New(opts Options, r resolver.Resolver, domain string, signature []string, emit Emit, logger *slog.Logger) *Pipeline {
	if opts.Workers < 1 {
		opts.Workers = DefaultWorkers
	}
	if opts.MaxInFlight < 1 {
		opts.MaxInFlight = DefaultMaxInFlight
	}
	return &Pipeline{
		resolver:    r,
		domain:      domain,
		signature:   signature,
		emit:        emit,
		logger:      logger,
		workers:     opts.Workers,
		maxInFlight: opts.MaxInFlight,
		// Both channels are sized to the in-flight cap so workers never
		// block on the results side and Submit never blocks on the tasks
		// side; backpressure is enforced solely by the inFlight counter.
		tasks:   make(chan string, opts.MaxInFlight),
		results: make(chan resolution, opts.MaxInFlight),
		seen:    make(map[string]struct{}),
		found:   make(map[string]struct{}),
	}
}

// Start launches the worker pool. Must be called before the first Submit.
func (p *Pipeline) Start(ctx context.Context) {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			for host := range p.tasks {
				addrs, err := p.resolver.LookupHost(ctx, host)
				if err != nil {
					// A lookup failure of any kind is an expected miss, not
					// an error condition for the pipeline. Cancellation
					// surfaces here too: the lookup fails fast and the host
					// drains as a miss.
					addrs = nil
				}
				// The results buffer is sized to the in-flight cap, so this
				// send never blocks. Every counted submission must deliver a
				// result, or the producer's drain paths would wait forever.
				p.results <- resolution{host: host, addrs: addrs}
			}
		}()
	}
}

// Submit normalizes a raw candidate and schedules it for resolution.
// Out-of-scope and already-seen candidates are dropped. When the in-flight
// cap has been reached, Submit blocks draining one completed task before
// admitting the new one.
func (p *Pipeline) Submit(raw string) {
	host := validate.Normalize(raw)
	if host == "" || !validate.InScope(host, p.domain) {
		return
	}
	if _, ok := p.seen[host]; ok {
		return
	}
	p.seen[host] = struct{}{}

	if p.inFlight >= p.maxInFlight {
		p.handle(<-p.results)
		p.inFlight--
	}
	p.tasks <- host
	p.inFlight++
}

// DrainCompleted handles any already-completed resolutions without blocking.
// The primary source calls this between pages to keep the in-flight count
// from climbing toward the hard cap.
func (p *Pipeline) DrainCompleted() {
	for p.inFlight > 0 {
		select {
		case r := <-p.results:
			p.inFlight--
			p.handle(r)
		default:
			return
		}
	}
}

// Flush blocks until every in-flight task has been drained, then stops the
// workers. No submitted work is dropped on normal termination. The pipeline
// must not be used after Flush.
func (p *Pipeline) Flush() {
	for p.inFlight > 0 {
		p.handle(<-p.results)
		p.inFlight--
	}
	close(p.tasks)
	p.wg.Wait()
}

// InFlight returns the number of submitted-but-undrained tasks. Producer
// goroutine only; exposed for observability and tests.
func (p *Pipeline) InFlight() int { return p.inFlight }

// Found returns how many validated hosts have been emitted so far.
func (p *Pipeline) Found() int { return len(p.found) }

// handle runs on the producer goroutine for every completed resolution.
func (p *Pipeline) handle(r resolution) {
	if len(r.addrs) == 0 {
		return
	}
	if wildcard.Matches(p.signature, r.addrs) {
		p.logger.Debug("suppressing wildcard match", "host", r.host)
		return
	}
	if _, ok := p.found[r.host]; ok {
		return
	}
	p.found[r.host] = struct{}{}

	sorted := slices.Clone(r.addrs)
	slices.Sort(sorted)
	p.emit(r.host, sorted)
}
