package rules

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync/atomic"
)

// RoleRule is a compiled author-role matcher.
type RoleRule struct {
	match string // lowercased
	Mode  string
	Role  string
}

// Matches reports whether name is credited with this rule's role.
func (r RoleRule) Matches(name string) bool {
	n := strings.ToLower(strings.TrimSpace(name))
	switch r.Mode {
	case MatchModePrefix:
		return strings.HasPrefix(n, r.match)
	case MatchModeContains:
		return strings.Contains(n, r.match)
	default:
		return strings.HasSuffix(n, r.match)
	}
}

// VolumeAlias is a compiled volume alias: a whole-phrase match that yields
// either a fixed base value or no volume at all.
type VolumeAlias struct {
	Phrase  string  // lowercased
	Base    float64 // meaningful only when HasBase
	HasBase bool
}

// Table is the compiled, immutable form of a [RuleSet]. All patterns are
// compiled exactly once, at configuration-load time; filter calls never
// compile. A Table must not be mutated after Compile returns.
type Table struct {
	TitleFilters   []*regexp.Regexp
	SeriesSuffixes []*regexp.Regexp
	AuthorRoles    []RoleRule
	LibraryRoots   map[string]bool
	VolumeAliases  []VolumeAlias
	DropPriority   []string
}

// Compile validates a RuleSet and compiles it into a Table. Invalid regex
// patterns, malformed filter specs, unknown match modes, and unknown
// drop-priority components are all rejected here so the engine itself can
// assume every pattern is valid.
func Compile(rs RuleSet) (*Table, error) {
	t := &Table{
		LibraryRoots: make(map[string]bool, len(rs.LibraryRoots)),
	}

	var err error
	if t.TitleFilters, err = compileFilters("title_filters", rs.TitleFilters); err != nil {
		return nil, err
	}
	if t.SeriesSuffixes, err = compileFilters("series_suffixes", rs.SeriesSuffixes); err != nil {
		return nil, err
	}

	for i, spec := range rs.AuthorRoles {
		if spec.Match == "" {
			return nil, fmt.Errorf("author_roles[%d]: match is required", i)
		}
		mode := spec.Mode
		if mode == "" {
			mode = MatchModeSuffix
		}
		switch mode {
		case MatchModeSuffix, MatchModePrefix, MatchModeContains:
		default:
			return nil, fmt.Errorf("author_roles[%d]: unknown mode %q", i, spec.Mode)
		}
		role := spec.Role
		if role == "" {
			role = strings.ToLower(spec.Match)
		}
		t.AuthorRoles = append(t.AuthorRoles, RoleRule{
			match: strings.ToLower(spec.Match),
			Mode:  mode,
			Role:  role,
		})
	}

	for _, root := range rs.LibraryRoots {
		t.LibraryRoots[strings.ToLower(root)] = true
	}

	for phrase, val := range rs.VolumeAliases {
		a := VolumeAlias{Phrase: strings.ToLower(strings.TrimSpace(phrase))}
		if a.Phrase == "" {
			return nil, fmt.Errorf("volume_aliases: empty phrase")
		}
		if val != "" {
			base, perr := strconv.ParseFloat(val, 64)
			if perr != nil {
				return nil, fmt.Errorf("volume_aliases[%s]: %q is not a number", phrase, val)
			}
			a.Base = base
			a.HasBase = true
		}
		t.VolumeAliases = append(t.VolumeAliases, a)
	}

	if len(rs.DropPriority) == 0 {
		t.DropPriority = []string{ComponentArc, ComponentAuthor, ComponentYear}
	} else {
		seen := make(map[string]bool, len(rs.DropPriority))
		for i, c := range rs.DropPriority {
			switch c {
			case ComponentArc, ComponentAuthor, ComponentYear:
			default:
				return nil, fmt.Errorf("drop_priority[%d]: unknown component %q", i, c)
			}
			if seen[c] {
				return nil, fmt.Errorf("drop_priority[%d]: duplicate component %q", i, c)
			}
			seen[c] = true
		}
		t.DropPriority = append([]string(nil), rs.DropPriority...)
	}

	return t, nil
}

// compileFilters turns filter specs into compiled regexps. Phrase specs
// become quoted substring patterns; regex specs compile verbatim.
func compileFilters(section string, specs []FilterSpec) ([]*regexp.Regexp, error) {
	out := make([]*regexp.Regexp, 0, len(specs))
	for i, spec := range specs {
		switch {
		case spec.Phrase != "" && spec.Regex != "":
			return nil, fmt.Errorf("%s[%d]: phrase and regex are mutually exclusive", section, i)
		case spec.Phrase == "" && spec.Regex == "":
			return nil, fmt.Errorf("%s[%d]: phrase or regex is required", section, i)
		}

		pattern := spec.Regex
		if spec.Phrase != "" {
			pattern = regexp.QuoteMeta(spec.Phrase)
		}
		if !spec.CaseSensitive {
			pattern = "(?i)" + pattern
		}

		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("%s[%d]: %w", section, i, err)
		}
		out = append(out, re)
	}
	return out, nil
}

// Handle is a swappable reference to the live rule table, used by the
// config watcher to publish a revalidated table without interrupting
// in-flight resolutions. The zero Handle is not usable; create with
// NewHandle.
type Handle struct {
	table atomic.Pointer[Table]
}

// NewHandle creates a Handle serving t.
func NewHandle(t *Table) *Handle {
	h := &Handle{}
	h.table.Store(t)
	return h
}

// Current returns the live table.
func (h *Handle) Current() *Table {
	return h.table.Load()
}

// Swap publishes a new table.
func (h *Handle) Swap(t *Table) {
	h.table.Store(t)
}
