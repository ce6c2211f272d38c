package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"github.com/tmc/langchaingo/schema"

	"github.com/dgallion1/documind/internal/config"
)

// Client wraps the OpenAI-compatible provider used for both embeddings
// and chat completions.
type Client struct {
	llm       *openai.LLM
	embedder  *embeddings.EmbedderImpl
	chatModel string

	// Rolling latency aggregates, exposed via the stats endpoint.
	GenerateStats *Stats
	EmbedStats    *Stats
}

// New builds the provider client from configuration. One underlying
// client serves both embedding and generation calls.
func New(cfg config.Config) (*Client, error) {
	opts := []openai.Option{
		openai.WithToken(cfg.OpenAIAPIKey),
		openai.WithModel(cfg.ChatModel),
		openai.WithEmbeddingModel(cfg.EmbedModel),
	}
	if cfg.OpenAIBaseURL != "" {
		opts = append(opts, openai.WithBaseURL(cfg.OpenAIBaseURL))
	}

	client, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("init openai client: %w", err)
	}
	embedder, err := embeddings.NewEmbedder(client)
	if err != nil {
		return nil, fmt.Errorf("init embedder: %w", err)
	}

	return &Client{
		llm:           client,
		embedder:      embedder,
		chatModel:     cfg.ChatModel,
		GenerateStats: NewStats(time.Hour),
		EmbedStats:    NewStats(time.Hour),
	}, nil
}

// ChatModel reports the configured generation model identifier.
func (c *Client) ChatModel() string {
	return c.chatModel
}

// EmbedDocuments embeds a batch of chunk texts in one provider call;
// the provider decides any internal batching.
func (c *Client) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	start := time.Now()
	vectors, err := c.embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		c.EmbedStats.RecordError()
		return nil, fmt.Errorf("embed documents: %w", err)
	}
	c.EmbedStats.Record(time.Since(start).Milliseconds())
	return vectors, nil
}

// EmbedQuery embeds a single query string.
func (c *Client) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	start := time.Now()
	vector, err := c.embedder.EmbedQuery(ctx, text)
	if err != nil {
		c.EmbedStats.RecordError()
		return nil, fmt.Errorf("embed query: %w", err)
	}
	c.EmbedStats.Record(time.Since(start).Milliseconds())
	return vector, nil
}

// Generate sends one prompt to the chat model at temperature 0 and
// returns the first choice's text.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	content := []llms.MessageContent{
		llms.TextParts(schema.ChatMessageTypeHuman, prompt),
	}

	start := time.Now()
	resp, err := c.llm.GenerateContent(ctx, content,
		llms.WithModel(c.chatModel),
		llms.WithTemperature(0),
	)
	if err != nil {
		c.GenerateStats.RecordError()
		return "", fmt.Errorf("generate: %w", err)
	}
	c.GenerateStats.Record(time.Since(start).Milliseconds())

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty response from model")
	}
	return resp.Choices[0].Content, nil
}
