package ingest

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/dgallion1/documind/internal/document"
	"github.com/dgallion1/documind/internal/mongostore"
	"github.com/dgallion1/documind/internal/splitter"
)

// Embedder turns chunk texts into vectors, one batch per call.
type Embedder interface {
	EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error)
}

// Inserter persists embedding records.
type Inserter interface {
	AddDocuments(ctx context.Context, records []mongostore.Record) (int, error)
}

// PageExtractor pulls per-page text out of a PDF on disk.
type PageExtractor interface {
	ExtractPages(path string) ([]document.Page, error)
}

// Pipeline converts an input artifact into persisted embedding records:
// parse, split, embed, upsert. Every call is synchronous and stateless;
// there is no cleanup of partially-persisted chunks on failure.
type Pipeline struct {
	parser   PageExtractor
	splitter *splitter.Splitter
	embedder Embedder
	store    Inserter
	log      *slog.Logger
}

func New(parser PageExtractor, sp *splitter.Splitter, embedder Embedder, store Inserter, log *slog.Logger) *Pipeline {
	return &Pipeline{
		parser:   parser,
		splitter: sp,
		embedder: embedder,
		store:    store,
		log:      log,
	}
}

// IngestPDF parses the PDF at path into per-page text and persists one
// embedding record per chunk, with the path as source metadata. Returns
// the number of records actually stored.
func (p *Pipeline) IngestPDF(ctx context.Context, path string) (int, error) {
	pages, err := p.parser.ExtractPages(path)
	if err != nil {
		return 0, fmt.Errorf("parse pdf: %w", err)
	}

	chunks, err := p.splitter.SplitPages(path, pages)
	if err != nil {
		return 0, err
	}

	n, err := p.persist(ctx, chunks)
	if err != nil {
		return n, err
	}
	p.log.Info("document ingested", "source", path, "pages", len(pages), "chunks", n)
	return n, nil
}

// IngestText runs the same pipeline on raw text under the manual-input
// source marker.
func (p *Pipeline) IngestText(ctx context.Context, text string) (int, error) {
	chunks, err := p.splitter.SplitText(document.SourceManualInput, text)
	if err != nil {
		return 0, err
	}

	n, err := p.persist(ctx, chunks)
	if err != nil {
		return n, err
	}
	p.log.Info("text ingested", "chunks", n)
	return n, nil
}

func (p *Pipeline) persist(ctx context.Context, chunks []document.Chunk) (int, error) {
	if len(chunks) == 0 {
		return 0, nil
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}

	vectors, err := p.embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		return 0, err
	}
	if len(vectors) != len(chunks) {
		return 0, fmt.Errorf("embedding count mismatch: %d chunks, %d vectors", len(chunks), len(vectors))
	}

	records := make([]mongostore.Record, len(chunks))
	for i, c := range chunks {
		records[i] = mongostore.Record{
			ChunkID:   uuid.NewString(),
			Text:      c.Text,
			Embedding: vectors[i],
			Metadata: mongostore.Metadata{
				Source: c.Source,
				Page:   c.Page,
			},
		}
	}

	return p.store.AddDocuments(ctx, records)
}
