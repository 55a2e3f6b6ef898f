package reporter

import (
	"fmt"
	"sync"
)

// Reporter receives diagnostics as they are reported and decides whether to
// keep compiling. Returning a non-nil error aborts the operation that is in
// progress immediately, regardless of the diagnostic's own severity; returning
// nil lets the Handler's own severity-driven fatal-count policy decide.
type Reporter func(d Diagnostic) error

// NewReporter returns a Reporter that always continues, accumulating
// diagnostics for later inspection via a Handler's Diagnostics method.
func NewReporter() Reporter {
	return func(Diagnostic) error { return nil }
}

// Handler is the error container every pipeline stage reports into. The
// pipeline's executor (package pipeline) gives every per-file worker its own
// SubHandler, whose diagnostics are merged back into the master Handler on
// the main goroutine once that file's stage-bucket completes, matching the
// concurrency model's "workers accumulate into their own containers which
// are merged back into the master under the main thread" rule.
type Handler struct {
	mu         sync.Mutex
	reportFn   Reporter
	diags      []Diagnostic
	fatalCount int
	muted      bool
}

// NewHandler wraps r (or a default always-continue Reporter if r is nil) in
// a Handler.
func NewHandler(r Reporter) *Handler {
	if r == nil {
		r = NewReporter()
	}
	return &Handler{reportFn: r}
}

// SubHandler returns a child Handler that shares this Handler's Reporter and
// mute flag but accumulates diagnostics independently, so that concurrent
// per-file workers never contend on the same mutex. Call Merge to fold a
// SubHandler's diagnostics back into its parent.
func (h *Handler) SubHandler() *Handler {
	h.mu.Lock()
	defer h.mu.Unlock()
	return &Handler{reportFn: h.reportFn, muted: h.muted}
}

// Merge folds other's accumulated diagnostics and fatal count into h. Only
// the main goroutine driving the pipeline's stage barrier should call this.
func (h *Handler) Merge(other *Handler) {
	other.mu.Lock()
	diags := other.diags
	fatal := other.fatalCount
	other.mu.Unlock()

	h.mu.Lock()
	defer h.mu.Unlock()
	h.diags = append(h.diags, diags...)
	h.fatalCount += fatal
}

// Mute suppresses diagnostic emission for speculative evaluation, such as a
// trial macro expansion performed only to check whether it would recurse.
// Muted diagnostics are never appended and never counted towards the fatal
// count.
func (h *Handler) Mute(muted bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.muted = muted
}

func (h *Handler) IsMuted() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.muted
}

// Report records d, unless the handler is muted. It invokes the underlying
// Reporter and returns whatever error it produced; the caller decides
// whether that error should itself abort the current operation.
func (h *Handler) Report(d Diagnostic) error {
	h.mu.Lock()
	if h.muted {
		h.mu.Unlock()
		return nil
	}
	h.diags = append(h.diags, d)
	if d.Severity == Fatal {
		h.fatalCount++
	}
	fn := h.reportFn
	h.mu.Unlock()
	return fn(d)
}

func (h *Handler) HandleErrorf(pos Location, kind Kind, format string, args ...interface{}) error {
	return h.Report(Diagnostic{Kind: kind, Severity: Error, Message: sprintfSafe(format, args...), Primary: pos})
}

func (h *Handler) HandleWarningf(pos Location, kind Kind, format string, args ...interface{}) error {
	return h.Report(Diagnostic{Kind: kind, Severity: Warning, Message: sprintfSafe(format, args...), Primary: pos})
}

func (h *Handler) HandleFatalf(pos Location, kind Kind, format string, args ...interface{}) error {
	return h.Report(Diagnostic{Kind: kind, Severity: Fatal, Message: sprintfSafe(format, args...), Primary: pos})
}

// HandleErrorWithPos reports err, an ErrorWithPos, as an Error-severity
// diagnostic using its own embedded position.
func (h *Handler) HandleErrorWithPos(err ErrorWithPos, kind Kind) error {
	return h.Report(Diagnostic{Kind: kind, Severity: Error, Message: err.Unwrap().Error(), Primary: err.GetPosition()})
}

// FatalCount returns the number of Fatal-severity diagnostics reported so
// far (and merged in, if this Handler has absorbed SubHandlers).
func (h *Handler) FatalCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.fatalCount
}

// Error returns ErrInvalidSource if any fatal diagnostic has been reported,
// else nil. This is the gate the pipeline's stage barrier checks before
// advancing to the next stage (spec: "a fatal error ends the current stage
// after its current bucket of work and aborts subsequent stages").
func (h *Handler) Error() error {
	if h.FatalCount() > 0 {
		return ErrInvalidSource
	}
	return nil
}

// Diagnostics returns a snapshot of every diagnostic reported so far, in
// report order.
func (h *Handler) Diagnostics() []Diagnostic {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]Diagnostic, len(h.diags))
	copy(out, h.diags)
	return out
}

func sprintfSafe(format string, args ...interface{}) string {
	if len(args) == 0 {
		return format
	}
	return fmt.Sprintf(format, args...)
}
