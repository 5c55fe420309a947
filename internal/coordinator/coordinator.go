// Package coordinator owns the lifecycle of scan requests: at most one request
// is in flight, a new submission cancels the previous one, and completions of
// cancelled requests never reach the held state.
package coordinator

import (
	"context"
	"sync"

	"github.com/hashicorp/go-hclog"

	"github.com/scan-io-git/checkview/internal/catalog"
	"github.com/scan-io-git/checkview/internal/results"
	"github.com/scan-io-git/checkview/internal/scanclient"
	"github.com/scan-io-git/checkview/pkg/shared/errors"
)

// State is the lifecycle state of a Coordinator.
type State int

const (
	Idle State = iota
	Requesting
	IdleWithResults
	IdleWithError
)

func (s State) String() string {
	switch s {
	case Requesting:
		return "requesting"
	case IdleWithResults:
		return "idle-with-results"
	case IdleWithError:
		return "idle-with-error"
	default:
		return "idle"
	}
}

// Scanner issues scan requests. *scanclient.Client implements it.
type Scanner interface {
	SubmitScan(ctx context.Context, req scanclient.ScanRequest) ([]results.RepositoryScanResult, error)
}

// Snapshot is a consistent copy of the coordinator state.
type Snapshot struct {
	State      State
	Busy       bool
	Generation uint64
	Results    []results.RepositoryScanResult
	View       results.View
	// Err is the failure of the last applied request, nil after a success.
	Err error
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithLogger sets the logger used for lifecycle events.
func WithLogger(logger hclog.Logger) Option {
	return func(c *Coordinator) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithObserver registers fn to be called once per applied completion, outside
// the coordinator lock. fn must not call Close.
func WithObserver(fn func(Snapshot)) Option {
	return func(c *Coordinator) {
		c.observer = fn
	}
}

// WithClearOnEmpty makes an empty successful response replace the held
// results. By default an empty response leaves them unchanged.
func WithClearOnEmpty(enabled bool) Option {
	return func(c *Coordinator) {
		c.clearOnEmpty = enabled
	}
}

// WithCatalog sets the catalog passed along with every scan request.
func WithCatalog(cat *catalog.Catalog) Option {
	return func(c *Coordinator) {
		c.catalog = cat
	}
}

// Coordinator serialises scan submissions. All state is guarded by mu; each
// submission gets a generation number and completions for a stale generation,
// or arriving after Close, are dropped before touching state.
type Coordinator struct {
	scanner      Scanner
	logger       hclog.Logger
	observer     func(Snapshot)
	clearOnEmpty bool
	catalog      *catalog.Catalog

	mu         sync.Mutex
	state      State
	generation uint64
	held       []results.RepositoryScanResult
	view       results.View
	lastErr    error
	cancel     context.CancelFunc
	done       chan struct{}
	closed     bool

	wg sync.WaitGroup
}

// New creates an idle coordinator.
func New(scanner Scanner, opts ...Option) *Coordinator {
	c := &Coordinator{
		scanner: scanner,
		logger:  hclog.NewNullLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Submit starts a scan of targets with checks. It fails without side effects
// when either list is empty or the coordinator is closed. A request still in
// flight is cancelled first.
func (c *Coordinator) Submit(targets, checks []string) error {
	if len(targets) == 0 {
		return errors.NewPreconditionError("targets", "at least one target is required")
	}
	if len(checks) == 0 {
		return errors.NewPreconditionError("checks", "at least one check must be selected")
	}

	req := scanclient.ScanRequest{
		Targets: append([]string(nil), targets...),
		Checks:  append([]string(nil), checks...),
		Catalog: c.catalog,
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return errors.NewPreconditionError("coordinator", "closed")
	}
	if c.cancel != nil {
		c.logger.Debug("cancelling in-flight scan", "generation", c.generation)
		c.cancel()
	}
	c.generation++
	gen := c.generation
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	c.cancel = cancel
	c.done = done
	c.state = Requesting
	c.wg.Add(1)
	c.mu.Unlock()

	c.logger.Info("scan requested", "generation", gen, "targets", len(req.Targets), "checks", len(req.Checks))
	go c.run(ctx, gen, done, req)
	return nil
}

func (c *Coordinator) run(ctx context.Context, gen uint64, done chan struct{}, req scanclient.ScanRequest) {
	defer c.wg.Done()
	defer close(done)

	res, err := c.scanner.SubmitScan(ctx, req)

	c.mu.Lock()
	if c.closed || gen != c.generation {
		c.mu.Unlock()
		c.logger.Debug("dropping completion of cancelled scan", "generation", gen)
		return
	}
	c.cancel()
	c.cancel = nil
	c.apply(res, err)
	snap := c.snapshotLocked()
	observer := c.observer
	c.mu.Unlock()

	if observer != nil {
		observer(snap)
	}
}

// apply must be called with mu held.
func (c *Coordinator) apply(res []results.RepositoryScanResult, err error) {
	switch {
	case err != nil:
		c.logger.Error("scan request failed", "error", err)
		c.lastErr = err
		c.state = IdleWithError
	case len(res) == 0 && !c.clearOnEmpty:
		c.logger.Info("scan returned no results, keeping previous results")
		c.lastErr = nil
		c.state = c.idleState()
	default:
		c.held = res
		c.view = results.BuildView(res)
		c.lastErr = nil
		c.state = c.idleState()
		c.logger.Info("scan completed", "repositories", len(res), "findings", len(c.view.Rows), "errors", len(c.view.Errors))
	}
}

func (c *Coordinator) idleState() State {
	if len(c.held) == 0 {
		return Idle
	}
	return IdleWithResults
}

// Snapshot returns the current state.
func (c *Coordinator) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Coordinator) snapshotLocked() Snapshot {
	return Snapshot{
		State:      c.state,
		Busy:       c.state == Requesting,
		Generation: c.generation,
		Results:    c.held,
		View:       c.view,
		Err:        c.lastErr,
	}
}

// Wait blocks until the latest submission has completed and returns the
// resulting snapshot together with its failure, if any. Submissions made while
// waiting are waited for as well.
func (c *Coordinator) Wait(ctx context.Context) (Snapshot, error) {
	for {
		c.mu.Lock()
		done := c.done
		closed := c.closed
		c.mu.Unlock()

		if closed {
			return Snapshot{}, errors.NewPreconditionError("coordinator", "closed")
		}
		if done == nil {
			snap := c.Snapshot()
			return snap, snap.Err
		}

		select {
		case <-done:
		case <-ctx.Done():
			return Snapshot{}, ctx.Err()
		}

		c.mu.Lock()
		current := c.done
		c.mu.Unlock()
		if current == done {
			snap := c.Snapshot()
			return snap, snap.Err
		}
	}
}

// Close cancels the in-flight request and blocks until its goroutine has
// exited. No observer call happens after Close returns.
func (c *Coordinator) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	if c.state == Requesting {
		c.state = c.idleState()
	}
	c.mu.Unlock()

	c.wg.Wait()
}
