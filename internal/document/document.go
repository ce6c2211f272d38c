package document

import "fmt"

// SourceManualInput marks chunks ingested from raw text rather than a file.
const SourceManualInput = "User Input"

// Page is one page of extracted source text. Numbers start at 1.
type Page struct {
	Number int
	Text   string
}

// Chunk is a bounded segment of source text, the unit of retrieval.
type Chunk struct {
	Text   string // Chunk text content
	Source string // Originating file path, or SourceManualInput
	Page   int    // Source page (1-based); 0 when the source has no pages
}

// Match is a single similarity-search hit from the vector index.
type Match struct {
	Text   string
	Source string
	Page   int
	Score  float64 // Index similarity score, higher is closer
}

// Answer is a generated response plus its citations in retrieval-rank order.
// Sources is empty but non-nil when retrieval was skipped or found nothing.
type Answer struct {
	Text    string   `json:"answer"`
	Sources []string `json:"sources"`
}

// Citation renders the user-facing attribution for one retrieved chunk,
// e.g. "data/report.pdf (Page 3)". Missing source metadata degrades to
// "Unknown" rather than failing; page 0 means the source had no pages.
func Citation(source string, page int) string {
	if source == "" {
		source = "Unknown"
	}
	return fmt.Sprintf("%s (Page %d)", source, page)
}

// Citation formats m's attribution string.
func (m Match) Citation() string {
	return Citation(m.Source, m.Page)
}
