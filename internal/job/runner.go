// Package job runs one report generation at a time in the background and
// publishes its progress as events.
package job

import (
	"context"
	stderrors "errors"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/SchiavonNathan/gerador-relatorio-zabbix/internal/errors"
	"github.com/SchiavonNathan/gerador-relatorio-zabbix/internal/models"
)

// ErrBusy is returned by Start while another job is running
var ErrBusy = stderrors.New("a report is already being generated")

// DefaultEventBuffer is the capacity of the events channel
const DefaultEventBuffer = 100

// Request describes one report to generate
type Request struct {
	Group string
	Days  int
	// Output is the PDF path. Ignored when ChooseOutput is set.
	Output string
	// ChooseOutput is asked for the PDF path once data has been found.
	// It receives the suggested file name; an empty answer cancels the run.
	ChooseOutput func(suggested string) (string, error)
}

// Validate checks the request fields
func (r Request) Validate() error {
	if strings.TrimSpace(r.Group) == "" {
		return errors.New(errors.ErrConfig, "Host group name is required",
			"Pass --group or fill in the host group field")
	}
	if r.Days <= 0 {
		return errors.New(errors.ErrConfig, "Period must be a positive number of days",
			"Use a whole number of days such as 30")
	}
	return nil
}

// Result is the outcome of a finished job
type Result struct {
	Report      *models.Report
	Output      string
	SummaryPath string
	RunID       int64
	Cancelled   bool
	Err         error
}

// Runner coordinates report generation
type Runner struct {
	collector models.Collector
	renderer  models.Renderer
	summary   models.Renderer
	history   models.History
	retention int
	server    string
	logger    *logrus.Logger
	now       func() time.Time

	events chan Event

	mu      sync.Mutex
	current *handle
}

// handle tracks one started run. result is written before done is closed.
type handle struct {
	done   chan struct{}
	result Result
}

func (h *handle) wait() Result {
	<-h.done
	return h.result
}

func (h *handle) finished() bool {
	select {
	case <-h.done:
		return true
	default:
		return false
	}
}

// Option configures a Runner
type Option func(*Runner)

// WithHistory records every finished run, pruning runs older than
// retentionDays (0 keeps everything).
func WithHistory(h models.History, retentionDays int) Option {
	return func(r *Runner) {
		r.history = h
		r.retention = retentionDays
	}
}

// WithSummary also writes a plain-text summary next to the PDF
func WithSummary(s models.Renderer) Option {
	return func(r *Runner) {
		r.summary = s
	}
}

// WithServer sets the server URL shown in progress and history
func WithServer(url string) Option {
	return func(r *Runner) {
		r.server = url
	}
}

// WithLogger sets the logger events are mirrored to
func WithLogger(logger *logrus.Logger) Option {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithEventBuffer sets the events channel capacity
func WithEventBuffer(n int) Option {
	return func(r *Runner) {
		if n > 0 {
			r.events = make(chan Event, n)
		}
	}
}

// WithoutEvents stops publishing progress events. For callers that never
// read Events, such as the HTTP server; events are still logged.
func WithoutEvents() Option {
	return func(r *Runner) {
		r.events = nil
	}
}

// WithClock overrides time.Now
func WithClock(now func() time.Time) Option {
	return func(r *Runner) {
		r.now = now
	}
}

// New creates a new Runner
func New(collector models.Collector, renderer models.Renderer, opts ...Option) *Runner {
	r := &Runner{
		collector: collector,
		renderer:  renderer,
		logger:    logrus.StandardLogger(),
		now:       time.Now,
		events:    make(chan Event, DefaultEventBuffer),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Events returns the progress channel. It is shared by all runs and never
// closed; use Done to learn when the current run has finished. It is nil
// when the Runner was built WithoutEvents.
func (r *Runner) Events() <-chan Event {
	return r.events
}

// Start begins generating a report on a background goroutine
func (r *Runner) Start(ctx context.Context, req Request) error {
	_, err := r.start(ctx, req)
	return err
}

func (r *Runner) start(ctx context.Context, req Request) (*handle, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.current != nil && !r.current.finished() {
		return nil, ErrBusy
	}
	h := &handle{done: make(chan struct{})}
	r.current = h

	go r.process(ctx, req, h)
	return h, nil
}

func (r *Runner) latest() *handle {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// Running reports whether a job is in progress
func (r *Runner) Running() bool {
	h := r.latest()
	return h != nil && !h.finished()
}

// Done returns a channel closed when the current run finishes. It is nil
// before the first Start.
func (r *Runner) Done() <-chan struct{} {
	h := r.latest()
	if h == nil {
		return nil
	}
	return h.done
}

// Wait blocks until the current run finishes and returns its result
func (r *Runner) Wait() Result {
	h := r.latest()
	if h == nil {
		return Result{}
	}
	return h.wait()
}

// Run starts a job and waits for that same job, even if another caller
// starts the next one before this returns.
func (r *Runner) Run(ctx context.Context, req Request) (Result, error) {
	h, err := r.start(ctx, req)
	if err != nil {
		return Result{}, err
	}
	res := h.wait()
	return res, res.Err
}

func (r *Runner) finish(res Result, h *handle) {
	h.result = res
	close(h.done)
}
