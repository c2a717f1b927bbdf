// Package composer folds independently parsed per-file declarations into one
// resolved type graph.
//
// Composition runs in barriered phases: merge declarations, build the alias
// table, resolve references (concurrently per type), then compute the
// relationship closures. Anomalies are collected as Diagnostics; only a
// malformed input aborts with an error wrapping ErrContractViolation.
package composer

import (
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/cmmoran/typecompose/pkg/model"
)

// Input is everything the parsing collaborator produced, one entry per file.
type Input struct {
	Files []*model.FileResult
}

// Result is the composed graph. Types are sorted by global name, functions by
// name and typealiases by scoped name.
type Result struct {
	RunID       string
	Types       []*model.Type
	Functions   []*model.Method
	Typealiases []*model.Typealias
	Diagnostics Diagnostics
}

type Composer struct {
	opts *Options
	log  *slog.Logger
}

func New(opts ...Option) *Composer {
	o := NewOptions()
	for _, opt := range opts {
		opt(o)
	}
	return NewWithOpts(o)
}

// NewWithOpts uses opts as given; invalid values fall back to their defaults.
func NewWithOpts(opts *Options) *Composer {
	if opts == nil {
		opts = NewOptions()
	}
	if err := opts.Normalize(); err != nil {
		slog.Warn("invalid composer options, using defaults", "error", err)
		logger := opts.Logger
		opts = NewOptions()
		opts.Logger = logger
		_ = opts.Normalize()
	}
	return &Composer{opts: opts, log: opts.Logger}
}

func (c *Composer) Options() Options {
	return *c.opts
}

// Compose never mutates input; every run works on fresh copies, so composing
// the same input twice yields equal graphs.
func (c *Composer) Compose(input *Input) (*Result, error) {
	if input == nil {
		input = &Input{}
	}
	runID := uuid.NewString()
	log := c.log.With("run", runID)
	diags := newCollector(log)

	start := time.Now()
	m, err := newMerger(c.opts, diags).merge(input.Files)
	if err != nil {
		log.Error("composition aborted", "error", err)
		return nil, err
	}
	log.Debug("merged declarations", "files", len(input.Files), "types", len(m.types), "elapsed", time.Since(start))

	phase := time.Now()
	types := newTypeTable(m.order, diags)
	aliases := newAliasTable(m.aliases, types, diags)
	log.Debug("built alias table", "aliases", len(aliases.entries), "elapsed", time.Since(phase))

	phase = time.Now()
	newResolver(types, aliases, diags).run(m, c.opts)
	log.Debug("resolved references", "serial", c.opts.Serial, "workers", c.opts.Workers, "elapsed", time.Since(phase))

	phase = time.Now()
	newRelationBuilder(types, aliases, diags).build(m.types)
	log.Debug("built relationships", "elapsed", time.Since(phase))

	sort.SliceStable(m.aliases, func(i, j int) bool {
		return m.aliases[i].ScopedName() < m.aliases[j].ScopedName()
	})

	result := &Result{
		RunID:       runID,
		Types:       m.types,
		Functions:   m.functions,
		Typealiases: m.aliases,
		Diagnostics: diags.sorted(),
	}
	log.Info("composed", "types", len(result.Types), "functions", len(result.Functions),
		"typealiases", len(result.Typealiases), "diagnostics", len(result.Diagnostics), "elapsed", time.Since(start))
	return result, nil
}
