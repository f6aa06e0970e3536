package naming

import (
	"regexp"
	"strings"

	"github.com/sydlexius/shoreline/internal/rules"
)

// Punctuation artifacts left behind after phrase removal.
var (
	reSpaces       = regexp.MustCompile(`\s+`)
	reDoubledDash  = regexp.MustCompile(`-[\s-]*-`)
	reEmptyBracket = regexp.MustCompile(`\(\s*\)|\[\s*\]|\{\s*\}`)
	reDanglingSep  = regexp.MustCompile(`\s+([,:])`)

	// A bare number immediately preceding a volume token carrying the
	// same number, e.g. "Title 12 vol_12".
	reDupNumber = regexp.MustCompile(`(^|\s)([0-9]+(?:\.[0-9]+)?)\s+(vol_([0-9]+(?:\.[0-9]+)?)\S*)`)
)

// CleanTitle removes every configured phrase and regex match from text, then
// repairs the punctuation artifacts removal leaves behind: collapsed
// whitespace, doubled dashes, empty bracket pairs, dangling leading/trailing
// dashes, commas, and colons. A second pass removes a bare number duplicated
// immediately before a volume token, since upstream sources sometimes embed
// the same number twice.
//
// All patterns in the table are compiled at configuration-load time; this
// function never compiles and never fails.
func CleanTitle(text string, t *rules.Table) string {
	s := text
	for _, re := range t.TitleFilters {
		s = re.ReplaceAllString(s, " ")
	}
	s = tidy(s)
	s = dropDuplicateNumber(s)
	return s
}

// CleanSeriesName strips trailing order qualifiers and sorting tags from a
// series name and tidies the remainder. Shared by every series source so
// that names differing only by such suffixes collapse to the same cleaned
// form.
func CleanSeriesName(name string, t *rules.Table) string {
	s := name
	for _, re := range t.SeriesSuffixes {
		s = re.ReplaceAllString(s, "")
	}
	return tidy(s)
}

// inheritThePrefix promotes "Series" to "The Series" when the book title
// itself starts with "The" and contains the series name.
func inheritThePrefix(series, title string) string {
	ls, lt := strings.ToLower(series), strings.ToLower(title)
	if strings.HasPrefix(ls, "the ") || !strings.HasPrefix(lt, "the ") {
		return series
	}
	if !strings.Contains(lt, ls) {
		return series
	}
	return "The " + series
}

// FilterAuthors splits a credited-name list into primary authors and
// removed role credits (translator, illustrator, editor, ...). Removed
// entries keep their matched role tag so they can be credited elsewhere.
func FilterAuthors(names []string, t *rules.Table) (primary []string, removed []RoleCredit) {
	for _, name := range names {
		rule, matched := matchRole(name, t)
		if !matched {
			primary = append(primary, name)
			continue
		}
		removed = append(removed, RoleCredit{Name: name, Role: rule.Role})
	}
	return primary, removed
}

func matchRole(name string, t *rules.Table) (rules.RoleRule, bool) {
	for _, r := range t.AuthorRoles {
		if r.Matches(name) {
			return r, true
		}
	}
	return rules.RoleRule{}, false
}

// tidy normalizes the debris phrase removal leaves behind.
func tidy(s string) string {
	s = reEmptyBracket.ReplaceAllString(s, " ")
	s = reDoubledDash.ReplaceAllString(s, "-")
	s = reDanglingSep.ReplaceAllString(s, "$1")
	s = reSpaces.ReplaceAllString(s, " ")
	s = strings.Trim(s, " \t-,:")
	return strings.TrimSpace(s)
}

// dropDuplicateNumber removes a bare number that repeats the number of the
// volume token right after it: "Title 12 vol_12" becomes "Title vol_12".
func dropDuplicateNumber(s string) string {
	m := reDupNumber.FindStringSubmatchIndex(s)
	if m == nil {
		return s
	}
	bare := s[m[4]:m[5]]
	volNum := s[m[8]:m[9]]
	if parseNum(bare) != parseNum(volNum) {
		return s
	}
	// Cut the bare number and the gap up to the volume token.
	return s[:m[4]] + s[m[6]:]
}
