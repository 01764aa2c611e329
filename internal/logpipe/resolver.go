package logpipe

import (
	"sort"
	"strings"

	"github.com/hcnaf/Logging-MentoringProgram/internal/model"
)

// Override raises or lowers the minimum severity for sources whose name
// starts with Prefix.
type Override struct {
	Prefix  string
	Minimum model.Severity
}

// LevelResolver computes the effective minimum severity for a source.
// It is immutable after construction and safe for concurrent use.
type LevelResolver struct {
	global    model.Severity
	overrides []Override // longest prefix first
}

// NewLevelResolver builds a resolver. When several overrides match a source
// the longest prefix wins; equal lengths keep declaration order.
func NewLevelResolver(global model.Severity, overrides ...Override) *LevelResolver {
	sorted := make([]Override, len(overrides))
	copy(sorted, overrides)
	sort.SliceStable(sorted, func(i, j int) bool {
		return len(sorted[i].Prefix) > len(sorted[j].Prefix)
	})
	return &LevelResolver{global: global, overrides: sorted}
}

// Global returns the minimum used when no override matches.
func (r *LevelResolver) Global() model.Severity {
	return r.global
}

// EffectiveMinimum returns the minimum severity that applies to source.
func (r *LevelResolver) EffectiveMinimum(source string) model.Severity {
	for _, o := range r.overrides {
		if strings.HasPrefix(source, o.Prefix) {
			return o.Minimum
		}
	}
	return r.global
}

// Overrides returns the overrides in evaluation order.
func (r *LevelResolver) Overrides() []Override {
	out := make([]Override, len(r.overrides))
	copy(out, r.overrides)
	return out
}
