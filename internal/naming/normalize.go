package naming

import (
	"strings"

	"github.com/sydlexius/shoreline/internal/rules"
)

// Normalize resolves the canonical display identity of one book, correcting
// the provider's known title/subtitle swap. The resolved series is ground
// truth: whichever raw field carries "Series Name Position" is the ordering
// field, the other is the story-arc name. When neither matches (standalone
// book, or series without a position) the raw mapping is kept.
//
// The result is created once and never mutated; downstream consumers must
// use its display fields, never the raw provider ones.
func Normalize(rec ProviderRecord, folderPath, id string, t *rules.Table) NormalizedBook {
	book := NormalizedBook{
		ID:          id,
		RawTitle:    rec.Title,
		RawSubtitle: rec.Subtitle,
	}

	series := ResolveSeries(&rec, folderPath, rec.Title, t)
	if series != nil {
		book.SeriesName = series.Name
		book.SeriesPosition = series.Position
	}

	title := CleanTitle(rec.Title, t)
	subtitle := CleanTitle(rec.Subtitle, t)

	if series == nil || series.Position == "" {
		book.DisplayTitle = title
		book.DisplaySubtitle = subtitle
		return book
	}

	expected := series.Name + " " + series.Position
	switch {
	case containsFold(rec.Title, expected):
		book.DisplayTitle = title
		book.DisplaySubtitle = subtitle
		book.ArcName = subtitle
	case containsFold(rec.Subtitle, expected):
		book.WasSwapped = true
		book.DisplayTitle = expected
		book.DisplaySubtitle = title
		book.ArcName = title
	default:
		book.DisplayTitle = title
		book.DisplaySubtitle = subtitle
	}
	return book
}

// containsFold reports whether s contains substr, ignoring case and runs of
// whitespace.
func containsFold(s, substr string) bool {
	return strings.Contains(foldSpace(s), foldSpace(substr))
}

func foldSpace(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
