package naming

// SeriesSource identifies which input produced a resolved series.
type SeriesSource string

// Series sources, in precedence order.
const (
	SourceProvider SeriesSource = "provider"
	SourceFolder   SeriesSource = "folder_structure"
	SourceTitle    SeriesSource = "title_heuristic"
)

// Confidence assigned per source. Fixed values used only for precedence
// between disagreeing sources, never combined or accumulated.
const (
	ConfidenceProvider = 1.0
	ConfidenceFolder   = 0.9
	ConfidenceTitle    = 0.5
)

// SeriesInfo is a resolved canonical series identity.
type SeriesInfo struct {
	Name       string       `json:"name"`
	Position   string       `json:"position,omitempty"`
	Source     SeriesSource `json:"source"`
	Confidence float64      `json:"confidence"`
}

// ProviderSeries is one series slot in a metadata-provider record.
type ProviderSeries struct {
	Name     string `json:"name"`
	Position string `json:"position,omitempty"`
}

// Person is a credited name in a provider record.
type Person struct {
	Name string `json:"name"`
}

// ProviderRecord is the metadata-provider payload this engine consumes.
// The provider is known to swap Title and Subtitle inconsistently; nothing
// downstream may use the raw fields without going through [Normalize].
type ProviderRecord struct {
	Title           string          `json:"title"`
	Subtitle        string          `json:"subtitle,omitempty"`
	SeriesPrimary   *ProviderSeries `json:"seriesPrimary,omitempty"`
	SeriesSecondary *ProviderSeries `json:"seriesSecondary,omitempty"`
	Authors         []Person        `json:"authors,omitempty"`
	Narrators       []Person        `json:"narrators,omitempty"`
}

// NormalizedBook is the canonical identity of one book. Created once by
// [Normalize] and immutable afterward; exporters consume these fields, never
// the raw provider ones.
type NormalizedBook struct {
	ID              string `json:"id"`
	RawTitle        string `json:"raw_title"`
	RawSubtitle     string `json:"raw_subtitle,omitempty"`
	SeriesName      string `json:"series_name,omitempty"`
	SeriesPosition  string `json:"series_position,omitempty"`
	ArcName         string `json:"arc_name,omitempty"`
	DisplayTitle    string `json:"display_title"`
	DisplaySubtitle string `json:"display_subtitle,omitempty"`
	WasSwapped      bool   `json:"was_swapped"`
}

// RoleCredit is a name removed from the primary author list along with the
// role that caused its removal, so it can still be credited elsewhere.
type RoleCredit struct {
	Name string `json:"name"`
	Role string `json:"role"`
}
