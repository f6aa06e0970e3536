package pathing

import (
	"fmt"
	"strings"
)

// DefaultMaxLength is the combined folder+filename budget enforced by the
// destination tracker.
const DefaultMaxLength = 225

// Components are the canonical naming fields assembled into a path. All
// text fields are optional except Title and ID; Volume is the pre-rendered
// canonical token (e.g. "vol_03"). Extension includes the leading dot.
type Components struct {
	Series    string
	Volume    string
	Title     string
	Arc       string
	Year      string
	Author    string
	ID        string // identity tag content, e.g. "ASIN.B002V0QK4C"
	Tag       string // ripper tag rendered as a bracketed folder suffix
	Extension string
	PartCount int
}

// Result is one computed folder+filename pair. Truncated and Dropped are
// observable side-channel outputs, never silent: callers log or display
// them. The engine never persists a Result; the caller does.
type Result struct {
	Folder    string   `json:"folder"`
	Filename  string   `json:"filename"`
	FullPath  string   `json:"full_path"`
	Base      string   `json:"base"`
	Extension string   `json:"extension"`
	Length    int      `json:"length"`
	Truncated bool     `json:"truncated"`
	Dropped   []string `json:"dropped_components,omitempty"`

	idTag     string
	partCount int
}

// PartFilename returns the filename for part n of a multi-part release.
// For single-part results it is identical to Filename.
func (r Result) PartFilename(n int) string {
	if r.partCount <= 1 {
		return r.Filename
	}
	return fmt.Sprintf("%s%s%s", r.Base, partSuffix(n), r.Extension)
}

// partSuffix renders the filename suffix for one part of a multi-part
// release.
func partSuffix(n int) string {
	return fmt.Sprintf(" - Part %02d", n)
}

// joinPath composes the relative path the tracker measures.
func joinPath(folder, filename string) string {
	if folder == "" {
		return filename
	}
	return folder + "/" + filename
}

// trimSegment removes the trailing dots and spaces Windows rejects on a
// path segment.
func trimSegment(s string) string {
	return strings.TrimRight(s, " .")
}
