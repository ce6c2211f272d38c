package splitter

import (
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/dgallion1/documind/internal/document"
)

// numberedWords builds "w0000 w0001 ..." so overlap between neighboring
// chunks can be measured exactly.
func numberedWords(n int) string {
	var sb strings.Builder
	for i := 0; i < n; i++ {
		if i > 0 {
			sb.WriteString(" ")
		}
		fmt.Fprintf(&sb, "w%04d", i)
	}
	return sb.String()
}

// longestOverlap returns the length of the longest suffix of a that is
// also a prefix of b.
func longestOverlap(a, b string) int {
	max := len(a)
	if len(b) < max {
		max = len(b)
	}
	for k := max; k > 0; k-- {
		if strings.HasSuffix(a, b[:k]) {
			return k
		}
	}
	return 0
}

func TestSplitText_ShortInputSingleChunk(t *testing.T) {
	s := New(1000, 200)
	chunks, err := s.SplitText(document.SourceManualInput, "The werewolf sightings peaked in 1887.")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0].Source != document.SourceManualInput {
		t.Errorf("expected source %q, got %q", document.SourceManualInput, chunks[0].Source)
	}
	if chunks[0].Page != 0 {
		t.Errorf("expected page 0 for manual input, got %d", chunks[0].Page)
	}
	if !strings.Contains(chunks[0].Text, "werewolf") {
		t.Errorf("chunk text lost content: %q", chunks[0].Text)
	}
}

func TestSplitText_RespectsChunkSizeAndOverlap(t *testing.T) {
	// 500 six-char words -> ~3000 characters, forcing several chunks.
	text := numberedWords(500)

	s := New(1000, 200)
	chunks, err := s.SplitText("corpus", text)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(chunks) < 3 {
		t.Fatalf("expected at least 3 chunks for %d chars, got %d", len(text), len(chunks))
	}
	for i, c := range chunks {
		if n := utf8.RuneCountInString(c.Text); n > 1000 {
			t.Errorf("chunk %d: %d chars exceeds limit 1000", i, n)
		}
	}
	for i := 1; i < len(chunks); i++ {
		overlap := longestOverlap(chunks[i-1].Text, chunks[i].Text)
		if overlap == 0 {
			t.Errorf("chunks %d/%d share no overlap", i-1, i)
		}
		if overlap > 200 {
			t.Errorf("chunks %d/%d overlap %d chars, want <= 200", i-1, i, overlap)
		}
	}
}

func TestSplitText_2500CharsYieldsAtLeastThreeChunks(t *testing.T) {
	// 2500 characters of plain prose at 1000/200 must step at least 3 times.
	text := strings.TrimSpace(strings.Repeat("the quick brown fox jumps over the lazy dog ", 57))
	if len(text) < 2500 {
		t.Fatalf("test corpus too small: %d chars", len(text))
	}

	s := New(1000, 200)
	chunks, err := s.SplitText("doc.pdf", text)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) < 3 {
		t.Errorf("expected >= 3 chunks for 2500+ chars, got %d", len(chunks))
	}
}

func TestSplitText_EmptyInput(t *testing.T) {
	s := New(1000, 200)
	for _, text := range []string{"", "   ", "\n\n\t"} {
		chunks, err := s.SplitText("src", text)
		if err != nil {
			t.Fatalf("unexpected error for %q: %v", text, err)
		}
		if len(chunks) != 0 {
			t.Errorf("expected 0 chunks for %q, got %d", text, len(chunks))
		}
	}
}

func TestSplitText_PrefersParagraphBoundaries(t *testing.T) {
	para1 := strings.TrimSpace(strings.Repeat("alpha beta gamma. ", 30))
	para2 := strings.TrimSpace(strings.Repeat("delta epsilon zeta. ", 30))
	text := para1 + "\n\n" + para2

	s := New(600, 0)
	chunks, err := s.SplitText("src", text)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) != 2 {
		t.Fatalf("expected paragraph split into 2 chunks, got %d", len(chunks))
	}
	if !strings.Contains(chunks[0].Text, "alpha") || strings.Contains(chunks[0].Text, "delta") {
		t.Errorf("first chunk crossed the paragraph boundary: %q", chunks[0].Text)
	}
}

func TestSplitPages_KeepsPageNumbers(t *testing.T) {
	pages := []document.Page{
		{Number: 1, Text: "Page one is short."},
		{Number: 2, Text: numberedWords(400)},
		{Number: 3, Text: "Page three closes the document."},
	}

	s := New(1000, 200)
	chunks, err := s.SplitPages("data/doc.pdf", pages)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) < 4 {
		t.Fatalf("expected page 2 to split into multiple chunks, got %d total", len(chunks))
	}

	seen := map[int]int{}
	for _, c := range chunks {
		if c.Source != "data/doc.pdf" {
			t.Errorf("chunk lost source metadata: %q", c.Source)
		}
		if c.Page < 1 || c.Page > 3 {
			t.Errorf("chunk has page %d outside document range", c.Page)
		}
		seen[c.Page]++
	}
	if seen[1] != 1 || seen[3] != 1 {
		t.Errorf("expected exactly one chunk for pages 1 and 3, got %v", seen)
	}
	if seen[2] < 2 {
		t.Errorf("expected page 2 to produce multiple chunks, got %d", seen[2])
	}
}

func TestSplitPages_SkipsEmptyPages(t *testing.T) {
	pages := []document.Page{
		{Number: 1, Text: "   "},
		{Number: 2, Text: "Real content here."},
	}

	s := New(1000, 200)
	chunks, err := s.SplitPages("data/doc.pdf", pages)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0].Page != 2 {
		t.Errorf("expected chunk from page 2, got page %d", chunks[0].Page)
	}
}
