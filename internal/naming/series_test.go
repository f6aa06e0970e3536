package naming

import (
	"testing"
)

func TestResolveSeriesProviderWins(t *testing.T) {
	table := testTable(t)

	rec := &ProviderRecord{
		Title: "The Way of Kings",
		SeriesPrimary: &ProviderSeries{
			Name:     "The Stormlight Archive",
			Position: "1",
		},
		Authors: []Person{{Name: "Brandon Sanderson"}},
	}
	// Folder disagrees on the name; provider must win.
	folder := "/downloads/Brandon Sanderson/Cosmere/The Way of Kings vol_01 (2010) {ASIN.B003P2WO5E}"

	got := ResolveSeries(rec, folder, rec.Title, table)
	if got == nil {
		t.Fatal("ResolveSeries returned nil")
	}
	if got.Name != "The Stormlight Archive" {
		t.Errorf("Name = %q, want The Stormlight Archive", got.Name)
	}
	if got.Source != SourceProvider {
		t.Errorf("Source = %q, want %q", got.Source, SourceProvider)
	}
	if got.Confidence != ConfidenceProvider {
		t.Errorf("Confidence = %v, want %v", got.Confidence, ConfidenceProvider)
	}
	if got.Position != "1" {
		t.Errorf("Position = %q, want 1", got.Position)
	}
}

func TestResolveSeriesPositionBackfill(t *testing.T) {
	table := testTable(t)

	// Provider knows the name but not the position; the release folder's
	// volume token backfills it.
	rec := &ProviderRecord{
		Title:         "Oathbringer",
		SeriesPrimary: &ProviderSeries{Name: "The Stormlight Archive"},
		Authors:       []Person{{Name: "Brandon Sanderson"}},
	}
	folder := "/audiobooks/Brandon Sanderson/The Stormlight Archive/Oathbringer vol_03 (2017) {ASIN.B0754GBNM6}"

	got := ResolveSeries(rec, folder, rec.Title, table)
	if got == nil {
		t.Fatal("ResolveSeries returned nil")
	}
	if got.Source != SourceProvider {
		t.Errorf("Source = %q, want provider (name source wins)", got.Source)
	}
	if got.Position != "3" {
		t.Errorf("Position = %q, want 3 (backfilled from folder)", got.Position)
	}
}

func TestResolveSeriesFolderInference(t *testing.T) {
	table := testTable(t)

	rec := &ProviderRecord{
		Title:   "The Way of Kings",
		Authors: []Person{{Name: "Brandon Sanderson"}},
	}

	tests := []struct {
		name     string
		folder   string
		wantName string
		wantNil  bool
	}{
		{
			name:     "series folder between author and release",
			folder:   "/downloads/Brandon Sanderson/The Stormlight Archive/The Way of Kings vol_01 (2010) {ASIN.B003P2WO5E}",
			wantName: "The Stormlight Archive",
		},
		{
			name:    "author folder directly inside a library root",
			folder:  "/audiobooks/Brandon Sanderson/The Way of Kings vol_01 (2010) {ASIN.B003P2WO5E}",
			wantNil: true,
		},
		{
			name:    "library roots are never series folders",
			folder:  "/downloads/staging/The Way of Kings (2010) {ASIN.B003P2WO5E}",
			wantNil: true,
		},
		{
			name:    "year-tagged ancestors are skipped",
			folder:  "/audiobooks/Brandon Sanderson/The Way of Kings (2010)/The Way of Kings (2010) {ASIN.B003P2WO5E}",
			wantNil: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveSeries(rec, tt.folder, "", table)
			if tt.wantNil {
				if got != nil {
					t.Fatalf("ResolveSeries = %+v, want nil", got)
				}
				return
			}
			if got == nil {
				t.Fatal("ResolveSeries returned nil")
			}
			if got.Name != tt.wantName {
				t.Errorf("Name = %q, want %q", got.Name, tt.wantName)
			}
			if got.Source != SourceFolder {
				t.Errorf("Source = %q, want %q", got.Source, SourceFolder)
			}
			if got.Confidence != ConfidenceFolder {
				t.Errorf("Confidence = %v, want %v", got.Confidence, ConfidenceFolder)
			}
		})
	}
}

func TestResolveSeriesTitleHeuristic(t *testing.T) {
	table := testTable(t)

	tests := []struct {
		title    string
		wantName string
		wantPos  string
		wantNil  bool
	}{
		{title: "Mushoku Tensei, Vol. 4", wantName: "Mushoku Tensei", wantPos: "4"},
		{title: "Overlord Vol 14", wantName: "Overlord", wantPos: "14"},
		{title: "Dungeon Crawler Carl Book 2", wantName: "Dungeon Crawler Carl", wantPos: "2"},
		{title: "Sword Art Online 7", wantName: "Sword Art Online", wantPos: "7"},
		// Stop-word and too-short fragments are rejected.
		{title: "The Vol. 3", wantNil: true},
		{title: "Vol. 3", wantNil: true},
		{title: "A 4", wantNil: true},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			got := ResolveSeries(nil, "", tt.title, table)
			if tt.wantNil {
				if got != nil {
					t.Fatalf("ResolveSeries(%q) = %+v, want nil", tt.title, got)
				}
				return
			}
			if got == nil {
				t.Fatalf("ResolveSeries(%q) returned nil", tt.title)
			}
			if got.Name != tt.wantName || got.Position != tt.wantPos {
				t.Errorf("got %q pos %q, want %q pos %q", got.Name, got.Position, tt.wantName, tt.wantPos)
			}
			if got.Source != SourceTitle {
				t.Errorf("Source = %q, want %q", got.Source, SourceTitle)
			}
			if got.Confidence != ConfidenceTitle {
				t.Errorf("Confidence = %v, want %v", got.Confidence, ConfidenceTitle)
			}
		})
	}
}

// Two provider slots whose cleaned names are equal case-insensitively are
// one series, not two.
func TestResolveSeriesDuplicateSlots(t *testing.T) {
	table := testTable(t)

	rec := &ProviderRecord{
		Title:           "Kuma Kuma Kuma Bear, Vol. 1",
		SeriesPrimary:   &ProviderSeries{Name: "Kuma Kuma Kuma Bear Series"},
		SeriesSecondary: &ProviderSeries{Name: "Kuma Kuma Kuma Bear (Publication Order)", Position: "1"},
	}

	got := ResolveSeries(rec, "", rec.Title, table)
	if got == nil {
		t.Fatal("ResolveSeries returned nil")
	}
	if got.Name != "Kuma Kuma Kuma Bear" {
		t.Errorf("Name = %q, want Kuma Kuma Kuma Bear", got.Name)
	}
	// Collapsed slot keeps the position from whichever slot has one.
	if got.Position != "1" {
		t.Errorf("Position = %q, want 1", got.Position)
	}
	if got.Source != SourceProvider {
		t.Errorf("Source = %q, want %q", got.Source, SourceProvider)
	}
}

func TestResolveSeriesSecondarySlotOnly(t *testing.T) {
	table := testTable(t)

	rec := &ProviderRecord{
		Title:           "Standalone Title",
		SeriesSecondary: &ProviderSeries{Name: "Cradle", Position: "5"},
	}

	got := ResolveSeries(rec, "", rec.Title, table)
	if got == nil {
		t.Fatal("ResolveSeries returned nil")
	}
	if got.Name != "Cradle" || got.Position != "5" {
		t.Errorf("got %q pos %q, want Cradle pos 5", got.Name, got.Position)
	}
}

func TestResolveSeriesNothingResolves(t *testing.T) {
	table := testTable(t)

	if got := ResolveSeries(nil, "", "", table); got != nil {
		t.Errorf("ResolveSeries with no inputs = %+v, want nil", got)
	}

	rec := &ProviderRecord{Title: "Project Hail Mary"}
	if got := ResolveSeries(rec, "", rec.Title, table); got != nil {
		t.Errorf("ResolveSeries on a standalone book = %+v, want nil", got)
	}
}
