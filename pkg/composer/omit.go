package composer

import (
	"strings"

	"github.com/cmmoran/typecompose/pkg/model"
)

// shouldOmitType reports whether a declaration is filtered out before merging,
// and why.
func shouldOmitType(t *model.Type, opts *Options) (bool, string) {
	if t == nil {
		return false, ""
	}

	for _, lvl := range opts.ExcludeAccessLevels {
		if t.AccessLevel == lvl {
			return true, "access level " + string(lvl)
		}
	}

	if containsName(opts.ExcludeTypes, t.Name()) || containsName(opts.ExcludeTypes, t.GlobalName()) {
		return true, "excluded by name"
	}

	return false, ""
}

// containsName compares case-insensitively.
func containsName(names []string, name string) bool {
	if name == "" {
		return false
	}

	for _, n := range names {
		if strings.EqualFold(n, name) {
			return true
		}
	}

	return false
}
