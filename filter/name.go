// Package filter holds the node model and matching engine for squiggly
// field-selection filters. Everything in this package is immutable after
// construction and safe to share across concurrent traversals.
package filter

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/fossabot/squiggly/function"
)

// Variables resolves variable references inside a filter. See
// function.Variables.
type Variables = function.Variables

// VarMap is a map-backed Variables implementation.
type VarMap = function.VarMap

// ErrInvalidName reports a malformed name at construction time. Names are
// pre-validated, so matching never fails.
var ErrInvalidName = errors.New("invalid name")

// Reserved name literals.
const (
	AnyShallowID = "*"
	AnyDeepID    = "**"
)

// NameKind discriminates the matcher variants of a path segment.
type NameKind int

const (
	NameExact NameKind = iota
	NameVariable
	NameAnyShallow
	NameAnyDeep
	NamePattern
)

// Specificity tiers, low to high. Higher specificity wins when several
// sibling nodes match the same candidate.
const (
	specificityAnyDeep    = 0
	specificityAnyShallow = 1
	specificityPattern    = 2
	specificityExact      = 3
	specificityVariable   = 4
)

// Name matches one path segment of a candidate field. It is a closed tagged
// variant: exact literal, variable reference, shallow wildcard, deep
// wildcard, or precompiled pattern.
type Name struct {
	kind    NameKind
	name    string
	pattern *regexp.Regexp
}

// NewExactName creates a name that matches its literal only.
func NewExactName(literal string) (Name, error) {
	if literal == "" {
		return Name{}, fmt.Errorf("%w: empty literal", ErrInvalidName)
	}
	return Name{kind: NameExact, name: literal}, nil
}

// NewVariableName creates a name resolved against a variable binding at
// match time. An unresolved variable never matches.
func NewVariableName(variable string) (Name, error) {
	if variable == "" {
		return Name{}, fmt.Errorf("%w: empty variable reference", ErrInvalidName)
	}
	return Name{kind: NameVariable, name: variable}, nil
}

// AnyShallowName matches any single candidate at the current level.
func AnyShallowName() Name {
	return Name{kind: NameAnyShallow, name: AnyShallowID}
}

// AnyDeepName matches any candidate at any depth.
func AnyDeepName() Name {
	return Name{kind: NameAnyDeep, name: AnyDeepID}
}

// NewPatternName compiles a glob ('*' and '?') into a pattern matcher.
func NewPatternName(glob string) (Name, error) {
	if glob == "" {
		return Name{}, fmt.Errorf("%w: empty pattern", ErrInvalidName)
	}
	pattern, err := regexp.Compile(globToRegexp(glob))
	if err != nil {
		return Name{}, fmt.Errorf("%w: %q: %v", ErrInvalidName, glob, err)
	}
	return Name{kind: NamePattern, name: glob, pattern: pattern}, nil
}

// Name returns the declared literal: the exact text, the variable name, the
// wildcard token, or the glob source.
func (n Name) Name() string { return n.name }

func (n Name) Kind() NameKind { return n.kind }

// Matches reports whether candidate matches this name. vars is consulted
// only for variable references and may be nil.
func (n Name) Matches(candidate string, vars Variables) bool {
	switch n.kind {
	case NameExact:
		return candidate == n.name
	case NameVariable:
		if vars == nil {
			return false
		}
		resolved, ok := vars.Lookup(n.name)
		return ok && candidate == resolved
	case NameAnyShallow, NameAnyDeep:
		return true
	case NamePattern:
		return n.pattern.MatchString(candidate)
	default:
		return false
	}
}

// Specificity ranks how precisely this name targets a candidate. Used only
// for ranking among siblings, never across depths.
func (n Name) Specificity() int {
	switch n.kind {
	case NameExact:
		return specificityExact
	case NameVariable:
		return specificityVariable
	case NameAnyShallow:
		return specificityAnyShallow
	case NameAnyDeep:
		return specificityAnyDeep
	case NamePattern:
		return specificityPattern
	default:
		return specificityAnyDeep
	}
}

func globToRegexp(glob string) string {
	var b strings.Builder
	b.WriteString("^")
	for _, r := range glob {
		switch r {
		case '*':
			b.WriteString(".*")
		case '?':
			b.WriteString(".")
		default:
			b.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	b.WriteString("$")
	return b.String()
}
