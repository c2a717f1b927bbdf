package composer

import (
	"log/slog"
	"runtime"
	"strings"

	"github.com/pkg/errors"

	"github.com/cmmoran/typecompose/pkg/model"
)

// OrphanPolicy decides what happens to an extension with no primary declaration.
type OrphanPolicy string

const (
	// OrphanDrop discards the extension and records a MergeAmbiguity warning.
	OrphanDrop OrphanPolicy = "drop"
	// OrphanStub keeps the extension as a stub type flagged IsUnknownExtension.
	OrphanStub OrphanPolicy = "stub"
)

// Options control composition.
//
// OrphanPolicy        – drop (default) or stub orphaned extensions.
// Serial              – resolve references on the calling goroutine only.
// Workers             – upper bound of concurrent reference resolvers (default NumCPU).
// ExcludeAccessLevels – declarations with any of these access levels are skipped.
// ExcludeTypes        – names of types to skip (case‑insensitive, local or global name).
// Logger              – destination for diagnostics and phase timings.
type Options struct {
	OrphanPolicy        OrphanPolicy        `json:"orphan_policy,omitempty" yaml:"orphan_policy,omitempty" toml:"orphan_policy,omitempty" mapstructure:"orphan_policy,omitempty"`
	Serial              bool                `json:"serial,omitempty" yaml:"serial,omitempty" toml:"serial,omitempty" mapstructure:"serial,omitempty"`
	Workers             int                 `json:"workers,omitempty" yaml:"workers,omitempty" toml:"workers,omitempty" mapstructure:"workers,omitempty"`
	ExcludeAccessLevels []model.AccessLevel `json:"exclude_access_levels,omitempty" yaml:"exclude_access_levels,omitempty" toml:"exclude_access_levels,omitempty" mapstructure:"exclude_access_levels,omitempty"`
	ExcludeTypes        []string            `json:"exclude_types,omitempty" yaml:"exclude_types,omitempty" toml:"exclude_types,omitempty" mapstructure:"exclude_types,omitempty"`
	Logger              *slog.Logger        `json:"-" yaml:"-" toml:"-" mapstructure:"-"`
}

func NewOptions() *Options {
	return &Options{
		OrphanPolicy: OrphanDrop,
		Workers:      runtime.NumCPU(),
	}
}

// Normalize fills defaults and folds comma separated access level lists
// (as given on the command line) into ExcludeAccessLevels.
func (o *Options) Normalize(excludeAccessLevelStrings ...string) error {
	for _, s := range excludeAccessLevelStrings {
		for _, part := range strings.Split(s, ",") {
			if part = strings.TrimSpace(part); part != "" {
				o.ExcludeAccessLevels = append(o.ExcludeAccessLevels, model.AccessLevel(strings.ToLower(part)))
			}
		}
	}
	for _, lvl := range o.ExcludeAccessLevels {
		switch lvl {
		case model.AccessOpen, model.AccessPublic, model.AccessInternal, model.AccessFilePrivate, model.AccessPrivate:
		default:
			return errors.Errorf("unknown access level %q", lvl)
		}
	}
	switch o.OrphanPolicy {
	case "":
		o.OrphanPolicy = OrphanDrop
	case OrphanDrop, OrphanStub:
	default:
		return errors.Errorf("unknown orphan policy %q (want %q or %q)", o.OrphanPolicy, OrphanDrop, OrphanStub)
	}
	if o.Workers <= 0 {
		o.Workers = runtime.NumCPU()
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return nil
}

// functional option pattern ---------------------------------------------------

type Option func(*Options)

func WithOrphanPolicy(p OrphanPolicy) Option { return func(o *Options) { o.OrphanPolicy = p } }
func WithSerial() Option                     { return func(o *Options) { o.Serial = true } }
func WithWorkers(n int) Option               { return func(o *Options) { o.Workers = n } }
func WithLogger(l *slog.Logger) Option       { return func(o *Options) { o.Logger = l } }
func WithExcludeAccessLevels(levels ...model.AccessLevel) Option {
	return func(o *Options) { o.ExcludeAccessLevels = append(o.ExcludeAccessLevels, levels...) }
}
func WithExcludeTypes(names ...string) Option {
	return func(o *Options) {
		for _, n := range names {
			o.ExcludeTypes = append(o.ExcludeTypes, strings.TrimSpace(n))
		}
	}
}
