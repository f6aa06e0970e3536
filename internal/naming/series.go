package naming

import (
	"math"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/sydlexius/shoreline/internal/rules"
)

// Folder markers that disqualify a directory from being the series folder.
var (
	reYearTag = regexp.MustCompile(`\((19|20)[0-9]{2}\)`)
	reIDTag   = regexp.MustCompile(`\{[A-Za-z]+\.[A-Za-z0-9]+\}`)
)

// Title-heuristic patterns, evaluated in order.
var (
	reTitleSeriesVol = regexp.MustCompile(
		`(?i)^(.+?)[,:]?\s+(?:vol(?:ume)?\.?|book)\s*#?([0-9]+(?:\.[0-9]+)?)\s*$`)
	reTitleTrailingNum = regexp.MustCompile(
		`^(.+?)\s+([0-9]{1,3}(?:\.[0-9]+)?)$`)

	// A fragment ending in a bare volume keyword is a leftover of the
	// first pattern, not a series name.
	reFragVolTail = regexp.MustCompile(`(?i)\b(?:vol(?:ume)?\.?|books?)\s*$`)
)

// Series fragments that are too generic to be a series name.
var seriesStopWords = map[string]bool{
	"the": true, "book": true, "books": true, "vol": true, "volume": true,
}

// How many ancestor folders above the release folder are scanned for a
// series directory.
const folderScanDepth = 3

type seriesCandidate struct {
	name     string
	position string
}

// ResolveSeries picks a canonical series name and position from the ranked
// sources: provider record (1.0), folder structure (0.9), title heuristic
// (0.5). The first source with a usable name wins the name; a missing
// position is backfilled from the next source that has one. A nil return
// means no series could be resolved, which is a valid terminal state.
func ResolveSeries(rec *ProviderRecord, folderPath, title string, t *rules.Table) *SeriesInfo {
	if title == "" && rec != nil {
		title = rec.Title
	}

	candidates := []struct {
		source     SeriesSource
		confidence float64
		cand       seriesCandidate
	}{
		{SourceProvider, ConfidenceProvider, providerCandidate(rec, title, t)},
		{SourceFolder, ConfidenceFolder, folderCandidate(rec, folderPath, t)},
		{SourceTitle, ConfidenceTitle, titleCandidate(title, t)},
	}

	var resolved *SeriesInfo
	for _, c := range candidates {
		if c.cand.name == "" {
			continue
		}
		resolved = &SeriesInfo{
			Name:       c.cand.name,
			Position:   c.cand.position,
			Source:     c.source,
			Confidence: c.confidence,
		}
		break
	}
	if resolved == nil {
		return nil
	}

	if resolved.Position == "" {
		for _, c := range candidates {
			if c.cand.position != "" {
				resolved.Position = c.cand.position
				break
			}
		}
	}
	return resolved
}

// providerCandidate reads the provider's series slots. Two slots whose
// cleaned names are equal case-insensitively are one series, not two; the
// primary slot's name wins and the position comes from whichever slot has
// one.
func providerCandidate(rec *ProviderRecord, title string, t *rules.Table) seriesCandidate {
	if rec == nil {
		return seriesCandidate{}
	}

	primary := cleanSlot(rec.SeriesPrimary, title, t)
	secondary := cleanSlot(rec.SeriesSecondary, title, t)

	switch {
	case primary.name == "":
		return secondary
	case secondary.name == "":
		return primary
	}

	if strings.EqualFold(primary.name, secondary.name) {
		if primary.position == "" {
			primary.position = secondary.position
		}
		return primary
	}
	// Disagreeing slots: the primary slot is authoritative.
	return primary
}

func cleanSlot(s *ProviderSeries, title string, t *rules.Table) seriesCandidate {
	if s == nil {
		return seriesCandidate{}
	}
	name := CleanSeriesName(s.Name, t)
	if name == "" {
		return seriesCandidate{}
	}
	name = inheritThePrefix(name, title)
	return seriesCandidate{name: name, position: strings.TrimSpace(s.Position)}
}

// folderCandidate scans ancestor folder names, nearest parent outward and
// bounded to folderScanDepth levels above the release folder, for the first
// directory that is neither an author folder, a library root, nor
// year/id/volume-tagged. The release folder itself supplies the position
// when it carries a volume token.
func folderCandidate(rec *ProviderRecord, folderPath string, t *rules.Table) seriesCandidate {
	if folderPath == "" {
		return seriesCandidate{}
	}

	authors := make(map[string]bool)
	if rec != nil {
		for _, a := range rec.Authors {
			authors[strings.ToLower(strings.TrimSpace(a.Name))] = true
		}
	}

	var cand seriesCandidate
	leaf := filepath.Base(filepath.Clean(folderPath))
	if v, ok := ParseVolume(leaf, t); ok {
		cand.position = positionString(v)
	}

	dir := filepath.Dir(filepath.Clean(folderPath))
	for i := 0; i < folderScanDepth; i++ {
		name := filepath.Base(dir)
		if name == "." || name == string(filepath.Separator) || name == "" {
			break
		}
		if isSeriesFolder(name, authors, t) {
			cand.name = inheritThePrefix(CleanSeriesName(name, t), leaf)
			return cand
		}
		dir = filepath.Dir(dir)
	}

	// No series folder found; the leaf's volume token still serves as a
	// position backfill for a higher-confidence name.
	return cand
}

func isSeriesFolder(name string, authors map[string]bool, t *rules.Table) bool {
	lower := strings.ToLower(name)
	if t.LibraryRoots[lower] || authors[lower] {
		return false
	}
	if reYearTag.MatchString(name) || reIDTag.MatchString(name) {
		return false
	}
	if _, ok := ParseVolume(name, t); ok {
		return false
	}
	return true
}

// titleCandidate matches "Series Name, Vol. N" style titles. The captured
// fragment is rejected when it is a stop word or shorter than 2 characters.
func titleCandidate(title string, t *rules.Table) seriesCandidate {
	if title == "" {
		return seriesCandidate{}
	}

	for _, re := range []*regexp.Regexp{reTitleSeriesVol, reTitleTrailingNum} {
		m := re.FindStringSubmatch(title)
		if m == nil {
			continue
		}
		frag := CleanSeriesName(m[1], t)
		if len(frag) < 2 || seriesStopWords[strings.ToLower(strings.Trim(frag, " ."))] {
			continue
		}
		if reFragVolTail.MatchString(frag) {
			continue
		}
		return seriesCandidate{name: frag, position: m[2]}
	}
	return seriesCandidate{}
}

// positionString renders a VolumeInfo as a plain position: "3", "3.5",
// "1-3", "3p1".
func positionString(v VolumeInfo) string {
	s := formatFloat(v.Base)
	switch {
	case v.Part > 0:
		return s + "p" + strconv.Itoa(v.Part)
	case v.RangeEnd > 0:
		return s + "-" + formatFloat(v.RangeEnd)
	}
	return s
}

func formatFloat(f float64) string {
	if f == math.Trunc(f) {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
