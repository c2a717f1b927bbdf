package composer

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
)

type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

func (s Severity) level() slog.Level {
	switch s {
	case SeverityWarning:
		return slog.LevelWarn
	case SeverityError:
		return slog.LevelError
	}
	return slog.LevelInfo
}

// DiagnosticKind classifies an absorbed composition anomaly.
type DiagnosticKind string

const (
	// MergeAmbiguity: an extension without a primary declaration.
	MergeAmbiguity DiagnosticKind = "MergeAmbiguity"
	// DuplicateDeclaration: more than one primary declaration per global name.
	DuplicateDeclaration DiagnosticKind = "DuplicateDeclaration"
	// AliasCycle: alias substitution revisited a name.
	AliasCycle DiagnosticKind = "AliasCycle"
	// InheritanceCycle: the based-on recursion reached a type still in progress.
	InheritanceCycle DiagnosticKind = "InheritanceCycle"
	// AmbiguousReference: a bare name matched declarations in several modules.
	AmbiguousReference DiagnosticKind = "AmbiguousReference"
	// Excluded: a declaration was filtered by access level or name.
	Excluded DiagnosticKind = "Excluded"
)

type Diagnostic struct {
	Severity Severity       `json:"severity" yaml:"severity"`
	Kind     DiagnosticKind `json:"kind" yaml:"kind"`
	Subject  string         `json:"subject" yaml:"subject"`
	Message  string         `json:"message" yaml:"message"`
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s %s %s: %s", d.Severity, d.Kind, d.Subject, d.Message)
}

type Diagnostics []Diagnostic

// OfKind filters by kind, keeping order.
func (ds Diagnostics) OfKind(kind DiagnosticKind) Diagnostics {
	var out Diagnostics
	for _, d := range ds {
		if d.Kind == kind {
			out = append(out, d)
		}
	}
	return out
}

func (ds Diagnostics) Warnings() Diagnostics {
	var out Diagnostics
	for _, d := range ds {
		if d.Severity == SeverityWarning {
			out = append(out, d)
		}
	}
	return out
}

// collector is shared by every phase; the reference resolver reports from
// several goroutines.
type collector struct {
	mu     sync.Mutex
	seen   map[Diagnostic]struct{}
	items  Diagnostics
	logger *slog.Logger
}

func newCollector(logger *slog.Logger) *collector {
	return &collector{seen: map[Diagnostic]struct{}{}, logger: logger}
}

func (c *collector) add(severity Severity, kind DiagnosticKind, subject, format string, args ...any) {
	d := Diagnostic{Severity: severity, Kind: kind, Subject: subject, Message: fmt.Sprintf(format, args...)}

	c.mu.Lock()
	if _, ok := c.seen[d]; ok {
		c.mu.Unlock()
		return
	}
	c.seen[d] = struct{}{}
	c.items = append(c.items, d)
	c.mu.Unlock()

	c.logger.Log(context.Background(), severity.level(), d.Message, "kind", string(kind), "subject", subject)
}

func (c *collector) warn(kind DiagnosticKind, subject, format string, args ...any) {
	c.add(SeverityWarning, kind, subject, format, args...)
}

func (c *collector) info(kind DiagnosticKind, subject, format string, args ...any) {
	c.add(SeverityInfo, kind, subject, format, args...)
}

// sorted answers a deterministic copy, independent of goroutine scheduling.
func (c *collector) sorted() Diagnostics {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(Diagnostics, len(c.items))
	copy(out, c.items)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Kind != out[j].Kind {
			return out[i].Kind < out[j].Kind
		}
		if out[i].Subject != out[j].Subject {
			return out[i].Subject < out[j].Subject
		}
		return out[i].Message < out[j].Message
	})
	return out
}
