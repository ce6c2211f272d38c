package splitter

import (
	"fmt"
	"strings"

	"github.com/dgallion1/documind/internal/document"
	"github.com/tmc/langchaingo/textsplitter"
)

// Splitter produces bounded, overlapping chunks from source text using
// recursive character splitting (paragraphs, then lines, then words).
type Splitter struct {
	inner textsplitter.RecursiveCharacter
}

// New returns a splitter targeting chunkSize characters per chunk with
// chunkOverlap characters carried over between neighbors.
func New(chunkSize, chunkOverlap int) *Splitter {
	return &Splitter{
		inner: textsplitter.NewRecursiveCharacter(
			textsplitter.WithChunkSize(chunkSize),
			textsplitter.WithChunkOverlap(chunkOverlap),
		),
	}
}

// SplitText chunks free-form text under a single source label. The chunks
// carry no page association (Page stays 0).
func (s *Splitter) SplitText(source, text string) ([]document.Chunk, error) {
	return s.split(source, 0, text)
}

// SplitPages chunks each page separately, so every chunk keeps the page
// number it came from.
func (s *Splitter) SplitPages(source string, pages []document.Page) ([]document.Chunk, error) {
	var chunks []document.Chunk
	for _, page := range pages {
		pageChunks, err := s.split(source, page.Number, page.Text)
		if err != nil {
			return nil, err
		}
		chunks = append(chunks, pageChunks...)
	}
	return chunks, nil
}

func (s *Splitter) split(source string, page int, text string) ([]document.Chunk, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	parts, err := s.inner.SplitText(text)
	if err != nil {
		return nil, fmt.Errorf("split text: %w", err)
	}

	chunks := make([]document.Chunk, 0, len(parts))
	for _, part := range parts {
		if part == "" {
			continue
		}
		chunks = append(chunks, document.Chunk{
			Text:   part,
			Source: source,
			Page:   page,
		})
	}
	return chunks, nil
}
