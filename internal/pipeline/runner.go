package pipeline

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/alnah/go-docx2html/internal/dom"
	"github.com/alnah/go-docx2html/internal/htmlout"
)

// Serializer renders a document for snapshots.
type Serializer func(doc *dom.Document) string

// Runner executes a registry over one document at a time.
type Runner struct {
	reg         *Registry
	logger      zerolog.Logger
	snapshotDir string
	serialize   Serializer
	checks      bool
}

// Option configures a Runner.
type Option func(*Runner)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l zerolog.Logger) Option {
	return func(r *Runner) {
		r.logger = l
	}
}

// WithSnapshotDir enables the debug sink. An empty path or a directory that
// does not exist at run time disables it.
func WithSnapshotDir(dir string) Option {
	return func(r *Runner) {
		r.snapshotDir = dir
	}
}

// WithSerializer replaces the snapshot renderer.
func WithSerializer(s Serializer) Option {
	return func(r *Runner) {
		if s != nil {
			r.serialize = s
		}
	}
}

// WithInvariantChecks toggles dom.Check after each pass. Enabled by default.
func WithInvariantChecks(enabled bool) Option {
	return func(r *Runner) {
		r.checks = enabled
	}
}

// NewRunner returns a runner over reg.
func NewRunner(reg *Registry, opts ...Option) *Runner {
	r := &Runner{
		reg:       reg,
		logger:    zerolog.Nop(),
		serialize: htmlout.String,
		checks:    true,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run applies every pass to doc in order and stops at the first failure.
func (r *Runner) Run(doc *dom.Document) error {
	if doc == nil || doc.Root() == nil {
		return &PassError{Name: "<input>", Index: 0, Err: errors.New("nil document")}
	}

	sink := newSnapshotSink(r.snapshotDir, r.serialize, r.logger)
	sink.start(doc)

	start := time.Now()
	for i, p := range r.reg.passes {
		log := r.logger.With().Str("pass", p.Name).Int("index", i+1).Logger()
		log.Debug().Msg("pass started")

		passStart := time.Now()
		err := p.Apply(doc)
		if err == nil && r.checks {
			err = r.check(doc)
		}
		if err != nil {
			log.Error().Err(err).Dur("elapsed", time.Since(passStart)).Msg("pass failed")
			return &PassError{Name: p.Name, Index: i + 1, Err: err}
		}

		log.Debug().Dur("elapsed", time.Since(passStart)).Msg("pass finished")
		sink.record(i+1, p.Name, doc)
	}

	r.logger.Info().
		Int("passes", len(r.reg.passes)).
		Dur("elapsed", time.Since(start)).
		Msg("pipeline finished")
	return nil
}

func (r *Runner) check(doc *dom.Document) error {
	root := doc.Root()
	if root == nil {
		return fmt.Errorf("%w: document has no root", dom.ErrStructure)
	}
	if root.Parent() != nil {
		return fmt.Errorf("%w: root has a parent", dom.ErrStructure)
	}
	return dom.Check(root)
}
