package pathing

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/cespare/xxhash/v2"

	"github.com/sydlexius/shoreline/internal/naming"
	"github.com/sydlexius/shoreline/internal/rules"
)

// Characters that cannot appear in a path segment on the destination
// filesystems.
var reUnsafe = regexp.MustCompile(`[<>:"/\\|?*` + "\x00-\x1f" + `]`)

var reSpaceRuns = regexp.MustCompile(`\s+`)

// Width of the "~xxxxxx" uniqueness suffix appended to truncated bases.
const hashSuffixLen = 7

// Build assembles the canonical components into a folder+filename pair
// whose combined relative path fits maxLength. The base string is shared by
// folder ("base [Tag]") and filename ("base.ext"), so its budget is derived
// algebraically:
//
//	with a tag:  2·base + tag + ext + part + 4 ≤ maxLength
//	without:     2·base + ext + part + 1 ≤ maxLength
//
// where part reserves the widest " - Part NN" suffix of a multi-part
// release. Over-budget bases first drop components in the table's drop
// priority (series, title, and the identity tag are never dropped), then
// hard-truncate at a word boundary with a content-hash suffix preserving
// uniqueness. Result.Length ≤ maxLength holds on every path, including the
// structureless fallback when tag and extension alone exceed the budget.
func Build(c Components, t *rules.Table, maxLength int) Result {
	if maxLength <= 0 {
		maxLength = DefaultMaxLength
	}

	series := scrub(c.Series)
	volume := strings.TrimSpace(c.Volume)
	title := scrub(c.Title)
	arc := scrub(c.Arc)
	year := strings.TrimSpace(c.Year)
	author := scrub(c.Author)
	tag := scrub(c.Tag)
	ext := strings.TrimSpace(c.Extension)

	idTag := ""
	if id := scrub(strings.Trim(c.ID, "{}")); id != "" {
		idTag = "{" + id + "}"
	}

	partLen := 0
	if c.PartCount > 1 {
		partLen = utf8.RuneCountInString(partSuffix(c.PartCount))
	}

	var maxBase int
	if tag != "" {
		maxBase = (maxLength - utf8.RuneCountInString(tag) - utf8.RuneCountInString(ext) - partLen - 4) / 2
	} else {
		maxBase = (maxLength - utf8.RuneCountInString(ext) - partLen - 1) / 2
	}

	res := Result{
		Extension: ext,
		idTag:     idTag,
		partCount: c.PartCount,
	}

	parts := baseParts{
		series: series, volume: volume, title: title,
		arc: arc, year: year, author: author, idTag: idTag,
	}

	if maxBase <= 0 {
		// Tag and extension alone exceed the budget: give up on
		// structure and truncate the raw assembled path.
		return fallbackResult(parts.assemble(), ext, maxLength, res)
	}

	base := parts.assemble()
	for _, comp := range t.DropPriority {
		if utf8.RuneCountInString(base) <= maxBase {
			break
		}
		if !parts.drop(comp) {
			continue
		}
		res.Dropped = append(res.Dropped, comp)
		base = parts.assemble()
	}

	if utf8.RuneCountInString(base) > maxBase {
		base = truncateBase(base, idTag, maxBase)
		res.Truncated = true
	}

	res.Base = trimSegment(base)
	res.Folder = res.Base
	if tag != "" {
		res.Folder = trimSegment(res.Base + " [" + tag + "]")
	}
	filename := res.Base + ext
	res.Filename = filename
	res.FullPath = joinPath(res.Folder, filename)
	res.Length = pathLength(res.Folder, res.Base, ext, c.PartCount)
	return res
}

// BuildAncillary re-checks the budget for an ancillary file (cover art,
// cue, ...) that shares the primary result's folder but carries a different
// extension. The base is truncated further only if the substituted
// extension no longer fits, independent of whether the primary was
// truncated. When the folder and extension alone exceed the budget the
// result degrades to a structureless single name, exactly like [Build]'s
// fallback, so Result.Length ≤ maxLength holds here too.
func BuildAncillary(primary Result, ext string, maxLength int) Result {
	if maxLength <= 0 {
		maxLength = DefaultMaxLength
	}

	res := Result{
		Folder:    primary.Folder,
		Base:      primary.Base,
		Extension: ext,
		Dropped:   primary.Dropped,
		idTag:     primary.idTag,
	}

	folderLen := utf8.RuneCountInString(primary.Folder)
	allowed := maxLength - folderLen - 1 - utf8.RuneCountInString(ext)
	if allowed <= 0 {
		// Folder and extension alone exceed the budget: same failure
		// semantics as the primary's structureless fallback.
		return fallbackResult(primary.Base, ext, maxLength, res)
	}
	if utf8.RuneCountInString(res.Base) > allowed {
		res.Base = trimSegment(truncateBase(res.Base, res.idTag, allowed))
		res.Truncated = true
	}

	res.Filename = res.Base + ext
	res.FullPath = joinPath(res.Folder, res.Filename)
	res.Length = folderLen + 1 + utf8.RuneCountInString(res.Filename)
	return res
}

// BuildAll builds the primary result plus one ancillary result per extra
// extension, reusing the primary base. Re-entrant: no state is shared
// between invocations.
func BuildAll(c Components, t *rules.Table, maxLength int, ancillary []string) (Result, []Result) {
	primary := Build(c, t, maxLength)
	extras := make([]Result, 0, len(ancillary))
	for _, ext := range ancillary {
		extras = append(extras, BuildAncillary(primary, ext, maxLength))
	}
	return primary, extras
}

// baseParts tracks which optional components are still present while the
// drop loop runs.
type baseParts struct {
	series, volume, title string
	arc, year, author     string
	idTag                 string
}

// assemble renders the base in fixed template order:
//
//	Series vol_NN - Title (Arc) (Year) (Author) {ID.XXXXXXXXXX}
//
// The title segment is omitted when it merely restates series+position.
func (p *baseParts) assemble() string {
	var segs []string

	sv := strings.TrimSpace(p.series + " " + p.volume)
	if sv != "" {
		segs = append(segs, sv)
	}
	if p.title != "" && !p.titleRedundant() {
		if len(segs) > 0 {
			segs = append(segs, "-", p.title)
		} else {
			segs = append(segs, p.title)
		}
	}
	for _, s := range []string{p.arc, p.year, p.author} {
		if s != "" {
			segs = append(segs, "("+s+")")
		}
	}
	if p.idTag != "" {
		segs = append(segs, p.idTag)
	}
	return strings.Join(segs, " ")
}

// titleRedundant reports whether the title restates the series name, alone
// or followed by the volume number.
func (p *baseParts) titleRedundant() bool {
	if p.series == "" {
		return false
	}
	lt, ls := strings.ToLower(p.title), strings.ToLower(p.series)
	if lt == ls {
		return true
	}
	if !strings.HasPrefix(lt, ls) {
		return false
	}
	rest := strings.Trim(lt[len(ls):], " -,")
	return rest != "" && rest == volumeNumber(p.volume)
}

// volumeNumber extracts the bare number from a canonical volume token:
// "vol_07" → "7".
func volumeNumber(token string) string {
	n := strings.TrimPrefix(token, "vol_")
	if n == token {
		return ""
	}
	n = strings.TrimLeft(n, "0")
	if n == "" || strings.HasPrefix(n, ".") {
		n = "0" + n
	}
	return n
}

// drop clears the named component. Returns false when the component was
// already absent (nothing to record).
func (p *baseParts) drop(name string) bool {
	var field *string
	switch name {
	case rules.ComponentArc:
		field = &p.arc
	case rules.ComponentAuthor:
		field = &p.author
	case rules.ComponentYear:
		field = &p.year
	default:
		return false
	}
	if *field == "" {
		return false
	}
	*field = ""
	return true
}

// truncateBase cuts base down to limit runes, preserving the trailing
// identity tag and appending "~" plus six hex digits of the untruncated
// base's hash so otherwise-identical truncated names stay distinct. The cut
// prefers the last word boundary that keeps at least half of limit.
func truncateBase(base, idTag string, limit int) string {
	if utf8.RuneCountInString(base) <= limit {
		return base
	}

	hash := fmt.Sprintf("~%06x", xxhash.Sum64String(base)&0xffffff)

	head := base
	reserve := hashSuffixLen
	if idTag != "" {
		head = strings.TrimSpace(strings.TrimSuffix(base, idTag))
		reserve += utf8.RuneCountInString(idTag) + 1
	}

	headLimit := limit - reserve
	if headLimit < 1 {
		// The identity tag alone (nearly) fills the budget; keep it
		// over the text, it is the only uniqueness guarantee left.
		return truncateRunes(idTag, limit)
	}

	r := []rune(head)
	if len(r) > headLimit {
		r = r[:headLimit]
		if cut := lastSpace(r); cut >= limit/2 {
			r = r[:cut]
		}
	}
	head = strings.TrimRight(string(r), " -,([{")

	if idTag != "" {
		return head + hash + " " + idTag
	}
	return head + hash
}

func lastSpace(r []rune) int {
	for i := len(r) - 1; i >= 0; i-- {
		if r[i] == ' ' {
			return i
		}
	}
	return -1
}

func truncateRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// fallbackResult handles a budget too small for any structure: the raw
// assembled string, extension included, is truncated to the budget with no
// folder level at all.
func fallbackResult(assembled, ext string, maxLength int, res Result) Result {
	name := truncateRunes(assembled+ext, maxLength)
	res.Truncated = true
	res.Base = trimSegment(strings.TrimSuffix(name, ext))
	res.Folder = ""
	res.Filename = name
	res.FullPath = name
	res.Length = utf8.RuneCountInString(name)
	return res
}

// pathLength measures the combined relative path, using the widest part
// suffix so the guarantee covers every file of a multi-part release.
func pathLength(folder, base, ext string, partCount int) int {
	filename := base + ext
	if partCount > 1 {
		filename = base + partSuffix(partCount) + ext
	}
	return utf8.RuneCountInString(folder) + 1 + utf8.RuneCountInString(filename)
}

// scrub romanizes a naming component and removes filesystem-unsafe
// characters. Applied to every text field entering the builder; display
// fields elsewhere keep their original script.
func scrub(s string) string {
	s = naming.Romanize(strings.TrimSpace(s))
	s = reUnsafe.ReplaceAllString(s, " ")
	s = reSpaceRuns.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}
