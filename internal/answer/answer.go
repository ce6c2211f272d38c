package answer

import (
	"context"
	"log/slog"

	"github.com/dgallion1/documind/internal/document"
)

// Generator produces a completion for a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// QueryEmbedder turns a query into a vector for similarity search.
type QueryEmbedder interface {
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// Searcher returns the best-matching chunks for a query vector, in
// descending similarity order.
type Searcher interface {
	SimilaritySearch(ctx context.Context, vector []float32, k int) ([]document.Match, error)
}

// Pipeline answers questions, optionally grounding the model on chunks
// retrieved from the vector store.
type Pipeline struct {
	embedder QueryEmbedder
	searcher Searcher
	llm      Generator
	topK     int
	log      *slog.Logger
}

func New(embedder QueryEmbedder, searcher Searcher, llm Generator, topK int, log *slog.Logger) *Pipeline {
	return &Pipeline{
		embedder: embedder,
		searcher: searcher,
		llm:      llm,
		topK:     topK,
		log:      log,
	}
}

// Answer generates a response for query. With useRAG the top matches
// from one retrieval feed both the prompt context and the returned
// citations, so the two cannot drift apart. Without RAG the query goes
// to the model verbatim and Sources stays empty.
func (p *Pipeline) Answer(ctx context.Context, query string, useRAG bool) (document.Answer, error) {
	if !useRAG {
		text, err := p.llm.Generate(ctx, query)
		if err != nil {
			return document.Answer{}, err
		}
		p.log.Info("chat answered", "use_rag", false)
		return document.Answer{Text: text, Sources: []string{}}, nil
	}

	vector, err := p.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return document.Answer{}, err
	}

	matches, err := p.searcher.SimilaritySearch(ctx, vector, p.topK)
	if err != nil {
		return document.Answer{}, err
	}

	passages := make([]string, len(matches))
	sources := make([]string, len(matches))
	for i, m := range matches {
		passages[i] = m.Text
		sources[i] = m.Citation()
	}

	text, err := p.llm.Generate(ctx, BuildRAGPrompt(passages, query))
	if err != nil {
		return document.Answer{}, err
	}

	p.log.Info("chat answered", "use_rag", true, "matches", len(matches))
	return document.Answer{Text: text, Sources: sources}, nil
}
