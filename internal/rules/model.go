package rules

// Match modes for author-role rules.
const (
	MatchModeSuffix   = "suffix"
	MatchModePrefix   = "prefix"
	MatchModeContains = "contains"
)

// Droppable path component names, in the order the default drop priority
// removes them. Series, title, and the identity tag are never droppable.
const (
	ComponentArc    = "arc"
	ComponentAuthor = "author"
	ComponentYear   = "year"
)

// FilterSpec is one title-filter rule as it appears in configuration.
// Exactly one of Phrase or Regex must be set. A phrase matches as a
// case-insensitive substring unless CaseSensitive is true; a regex is
// compiled verbatim at load time.
type FilterSpec struct {
	Phrase        string `yaml:"phrase,omitempty" json:"phrase,omitempty"`
	Regex         string `yaml:"regex,omitempty" json:"regex,omitempty"`
	CaseSensitive bool   `yaml:"case_sensitive,omitempty" json:"case_sensitive,omitempty"`
}

// RoleSpec matches a non-primary-author role in a credited name, e.g.
// "John Smith - translator". Mode selects how Match is tested against the
// name; Role is the tag reported for removed entries.
type RoleSpec struct {
	Match string `yaml:"match" json:"match"`
	Mode  string `yaml:"mode,omitempty" json:"mode,omitempty"` // defaults to suffix
	Role  string `yaml:"role" json:"role"`
}

// RuleSet is the raw, YAML-loadable naming rule configuration. It is
// validated and compiled into an immutable [Table] by [Compile]; the engine
// never consumes a RuleSet directly.
type RuleSet struct {
	// TitleFilters are removed from free-text titles: format indicators
	// ("Light Novel"), genre tags, publisher tags.
	TitleFilters []FilterSpec `yaml:"title_filters" json:"title_filters"`

	// SeriesSuffixes are stripped from the end of series names, e.g.
	// edition qualifiers a provider appends to a series slot.
	SeriesSuffixes []FilterSpec `yaml:"series_suffixes" json:"series_suffixes"`

	// AuthorRoles identify credited people who are not primary authors.
	AuthorRoles []RoleSpec `yaml:"author_roles" json:"author_roles"`

	// LibraryRoots are folder names that can never be a series folder
	// during folder-structure inference.
	LibraryRoots []string `yaml:"library_roots" json:"library_roots"`

	// VolumeAliases map whole-title phrases to a volume base value.
	// An empty value means the phrase is recognized but yields no volume
	// segment at all (e.g. "omnibus").
	VolumeAliases map[string]string `yaml:"volume_aliases" json:"volume_aliases"`

	// DropPriority is the order in which optional path components are
	// removed when a path exceeds its budget.
	DropPriority []string `yaml:"drop_priority" json:"drop_priority"`
}

// Defaults returns the built-in rule set used when configuration supplies
// none. Mirrors the conventions of the trackers this engine targets.
func Defaults() RuleSet {
	return RuleSet{
		TitleFilters: []FilterSpec{
			{Phrase: "(Unabridged)"},
			{Phrase: "(Abridged)"},
			// Longer phrases before their substrings: filters apply in
			// order, and a shorter match would leave the rest behind.
			{Phrase: "A Light Novel"},
			{Phrase: "(Light Novel)"},
			{Phrase: "Light Novel"},
			{Phrase: "A LitRPG Adventure"},
			{Phrase: "LitRPG"},
			{Phrase: "(Dramatized Adaptation)"},
			{Phrase: "[Dramatized Adaptation]"},
			{Regex: `(?i)\(podium\s+audio(books)?\)`},
			{Regex: `(?i)\(yen\s+(press|audio)\)`},
			{Regex: `(?i)\bspecial\s+edition\b`},
		},
		SeriesSuffixes: []FilterSpec{
			{Regex: `(?i)[\s,]*\(?(publication|reading|chronological|release)\s+order\)?\s*$`},
			{Regex: `(?i)\s*\[[^\]]*order[^\]]*\]\s*$`},
			{Regex: `(?i)[\s,]+series$`},
		},
		AuthorRoles: []RoleSpec{
			{Match: "translator", Mode: MatchModeSuffix, Role: "translator"},
			{Match: "illustrator", Mode: MatchModeSuffix, Role: "illustrator"},
			{Match: "editor", Mode: MatchModeSuffix, Role: "editor"},
			{Match: "adapter", Mode: MatchModeSuffix, Role: "adapter"},
			{Match: "foreword", Mode: MatchModeContains, Role: "foreword"},
			{Match: "afterword", Mode: MatchModeContains, Role: "afterword"},
		},
		LibraryRoots: []string{
			"audiobooks", "audiobook", "books", "downloads", "staging",
			"seeding", "torrents", "library", "media", "incoming",
		},
		VolumeAliases: map[string]string{
			"prequel":   "0",
			"omnibus":   "",
			"box set":   "",
			"boxed set": "",
		},
		DropPriority: []string{ComponentArc, ComponentAuthor, ComponentYear},
	}
}
