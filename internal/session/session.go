// Package session serializes every token source into one interpreter.
//
// Typed lines, recognizer segments and IPC clients all submit work through a
// single queue drained by Run, so tokens reach the interpreter strictly one
// at a time in arrival order.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/rs/xid"

	"github.com/RCorpy/presupuestatorvoice/internal/interpreter"
	"github.com/RCorpy/presupuestatorvoice/internal/proforma"
	"github.com/RCorpy/presupuestatorvoice/internal/token"
	"github.com/RCorpy/presupuestatorvoice/internal/transcript"
)

// ErrStopped is returned for work submitted after the session ended.
var ErrStopped = errors.New("session stopped")

// Exporter writes the document somewhere and returns where.
type Exporter interface {
	Export([]proforma.Row) (string, error)
}

// Step is one word handed to the interpreter and its reply.
type Step struct {
	Token string
	Reply interpreter.Reply
}

type Options struct {
	Logger *slog.Logger
	// Rewriter maps recognizer output onto command text. Nil only folds.
	Rewriter *transcript.Rewriter
	// Dedupe drops a word equal to the previous one unless RepeatAllowed
	// lists it or it is numeric.
	Dedupe        bool
	RepeatAllowed []string
	Exporter      Exporter
	// ID names the session in logs. Empty means a fresh xid.
	ID string
}

type job struct {
	fn       func()
	finished chan struct{}
}

// Controller owns an interpreter and the queue feeding it.
type Controller struct {
	id       string
	logger   *slog.Logger
	interp   *interpreter.Interpreter
	rewriter *transcript.Rewriter
	repeats  *repeatFilter
	exporter Exporter

	jobs     chan job
	stop     chan struct{}
	stopOnce sync.Once
	done     chan struct{}
	running  atomic.Bool
}

func NewController(in *interpreter.Interpreter, opts Options) *Controller {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	id := opts.ID
	if id == "" {
		id = xid.New().String()
	}
	return &Controller{
		id:       id,
		logger:   logger,
		interp:   in,
		rewriter: opts.Rewriter,
		repeats:  newRepeatFilter(opts.Dedupe, opts.RepeatAllowed),
		exporter: opts.Exporter,
		jobs:     make(chan job),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// ID returns the session identifier.
func (c *Controller) ID() string {
	return c.id
}

// Run drains the queue until Stop or ctx cancellation. It returns nil after
// Stop and ctx.Err() after cancellation. Run may only be called once.
func (c *Controller) Run(ctx context.Context) error {
	if !c.running.CompareAndSwap(false, true) {
		return errors.New("session already running")
	}
	defer close(c.done)

	c.logger.Info("session started", "session", c.id, "rows", len(c.interp.Rows()))
	for {
		select {
		case <-ctx.Done():
			c.logger.Info("session cancelled", "session", c.id)
			return ctx.Err()
		case <-c.stop:
			c.logger.Info("session stopped", "session", c.id)
			return nil
		case j := <-c.jobs:
			j.fn()
			close(j.finished)
		}
	}
}

// Stop ends Run. It is safe to call more than once.
func (c *Controller) Stop() {
	c.stopOnce.Do(func() { close(c.stop) })
}

// Done is closed once Run has returned.
func (c *Controller) Done() <-chan struct{} {
	return c.done
}

// submit runs fn on the Run goroutine and waits for it. ctx only bounds the
// wait for the queue; once accepted, a job always runs to completion before
// submit returns, so callers may read what fn wrote.
func (c *Controller) submit(ctx context.Context, fn func()) error {
	j := job{fn: fn, finished: make(chan struct{})}
	select {
	case c.jobs <- j:
	case <-c.done:
		return ErrStopped
	case <-c.stop:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
	<-j.finished
	return nil
}

// Say rewrites text, splits it into words and hands each surviving word to
// the interpreter.
func (c *Controller) Say(ctx context.Context, text string) ([]Step, error) {
	var steps []Step
	err := c.submit(ctx, func() { steps = c.feed(text) })
	return steps, err
}

func (c *Controller) feed(text string) []Step {
	words := token.Split(transcript.Assemble([]string{text}, c.rewriter))
	steps := make([]Step, 0, len(words))
	for _, w := range words {
		if !c.repeats.allow(w) {
			c.logger.Debug("repeated token dropped", "session", c.id, "token", w)
			continue
		}
		reply := c.interp.Handle(w)
		c.logger.Debug("token",
			"session", c.id,
			"token", w,
			"mode", string(c.interp.Mode()),
			"active_row", c.interp.ActiveRow()+1,
			"outcome", reply.Outcome.String(),
		)
		steps = append(steps, Step{Token: w, Reply: reply})
	}
	return steps
}

// Snapshot copies the interpreter state.
func (c *Controller) Snapshot(ctx context.Context) (interpreter.Snapshot, error) {
	var snap interpreter.Snapshot
	err := c.submit(ctx, func() { snap = c.interp.Snapshot() })
	return snap, err
}

// Pick assigns a catalog product to the active row directly.
func (c *Controller) Pick(ctx context.Context, name string) (interpreter.Reply, error) {
	var reply interpreter.Reply
	err := c.submit(ctx, func() {
		reply = c.interp.PickProduct(name)
		c.repeats.reset()
	})
	return reply, err
}

// InsertRow adds a blank product row after the active one.
func (c *Controller) InsertRow(ctx context.Context) (interpreter.Reply, error) {
	var reply interpreter.Reply
	err := c.submit(ctx, func() { reply = c.interp.InsertProductRow() })
	return reply, err
}

// SelectRow makes the 1-based row active.
func (c *Controller) SelectRow(ctx context.Context, row int) error {
	var ok bool
	if err := c.submit(ctx, func() { ok = c.interp.SelectRow(row - 1) }); err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("row %d out of range", row)
	}
	return nil
}

// Cancel resets in-progress entry as CANCELAR would.
func (c *Controller) Cancel(ctx context.Context) error {
	return c.submit(ctx, func() {
		c.interp.Reset()
		c.repeats.reset()
	})
}

// Load replaces the document.
func (c *Controller) Load(ctx context.Context, rows []proforma.Row) error {
	return c.submit(ctx, func() {
		c.interp.Load(rows)
		c.repeats.reset()
	})
}

// Export writes the current rows with the configured exporter. The rows are
// copied on the queue and written outside it.
func (c *Controller) Export(ctx context.Context) (string, error) {
	if c.exporter == nil {
		return "", errors.New("no exporter configured")
	}
	var rows []proforma.Row
	if err := c.submit(ctx, func() { rows = c.interp.Rows() }); err != nil {
		return "", err
	}
	path, err := c.exporter.Export(rows)
	if err != nil {
		c.logger.Error("export failed", "session", c.id, "error", err)
		return "", fmt.Errorf("export: %w", err)
	}
	c.logger.Info("proforma exported", "session", c.id, "path", path, "rows", len(rows))
	return path, nil
}
