package nlp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/mzelenkov/claimlens/internal/model"
)

// OpenAIBackend implements Embedder, Classifier, and Rewriter against any
// OpenAI-compatible API (the BaseURL override covers local servers that
// speak the same protocol).
type OpenAIBackend struct {
	client        *openai.Client
	embedModel    string
	classifyModel string
	rewriteModel  string
	timeout       time.Duration
}

// NewOpenAIBackend creates the backend from configuration.
func NewOpenAIBackend(cfg model.NLPConfig) (*OpenAIBackend, error) {
	if cfg.APIKey == "" && cfg.BaseURL == "" {
		return nil, fmt.Errorf("openai backend requires an API key or a base URL")
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &OpenAIBackend{
		client:        openai.NewClientWithConfig(clientConfig),
		embedModel:    cfg.EmbedModel,
		classifyModel: cfg.ClassifyModel,
		rewriteModel:  cfg.RewriteModel,
		timeout:       timeout,
	}, nil
}

// Embed returns one embedding vector per text via the embeddings API.
func (b *OpenAIBackend) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	resp, err := b.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Model: openai.EmbeddingModel(b.embedModel),
		Input: texts,
	})
	if err != nil {
		return nil, fmt.Errorf("create embeddings: %w", err)
	}
	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("embeddings: got %d vectors for %d texts", len(resp.Data), len(texts))
	}

	// Response order is not guaranteed to match input order; Index is.
	vectors := make([][]float32, len(texts))
	for _, d := range resp.Data {
		if d.Index < 0 || d.Index >= len(vectors) {
			return nil, fmt.Errorf("embeddings: index %d out of range", d.Index)
		}
		vectors[d.Index] = d.Embedding
	}
	return vectors, nil
}

const classifySystemPrompt = `You are a strict natural language inference classifier.
For each numbered sentence, decide whether it ENTAILS, CONTRADICTS, or is
NEUTRAL toward the given claim, with a confidence between 0 and 1.
Respond with ONLY a JSON array, one object per sentence in order:
[{"label":"entailment|contradiction|neutral","confidence":0.0}]`

type classifyItem struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}

// Classify labels every sentence against the claim in a single chat
// completion call. Unparseable or missing entries degrade to Neutral with
// zero confidence rather than failing the batch.
func (b *OpenAIBackend) Classify(ctx context.Context, claim string, sentences []string) ([]LabelScore, error) {
	if len(sentences) == 0 {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	var prompt strings.Builder
	fmt.Fprintf(&prompt, "Claim: %s\n\nSentences:\n", claim)
	for i, s := range sentences {
		fmt.Fprintf(&prompt, "%d. %s\n", i+1, s)
	}

	resp, err := b.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: b.classifyModel,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: classifySystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt.String()},
		},
		Temperature: 0, // classification must be reproducible
	})
	if err != nil {
		return nil, fmt.Errorf("classify: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("classify: empty response")
	}

	items, err := parseClassifyResponse(resp.Choices[0].Message.Content)
	if err != nil {
		return nil, fmt.Errorf("classify: %w", err)
	}

	out := make([]LabelScore, len(sentences))
	for i := range out {
		if i < len(items) {
			out[i] = LabelScore{
				Label:      ParseLabel(items[i].Label),
				Confidence: clamp01(items[i].Confidence),
			}
		} else {
			out[i] = LabelScore{Label: model.LabelNeutral}
		}
	}
	return out, nil
}

// parseClassifyResponse extracts the JSON array from the reply, tolerating
// surrounding prose or markdown fences.
func parseClassifyResponse(content string) ([]classifyItem, error) {
	start := strings.Index(content, "[")
	end := strings.LastIndex(content, "]")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("no JSON array in response")
	}

	var items []classifyItem
	if err := json.Unmarshal([]byte(content[start:end+1]), &items); err != nil {
		return nil, fmt.Errorf("decode labels: %w", err)
	}
	return items, nil
}

const rewriteSystemPrompt = `Rewrite the given fact-check summary so it reads
naturally and clearly. Preserve every factual statement, number, and quoted
snippet exactly. Do not add sources, URLs, or new information. Reply with
the rewritten text only.`

// Rewrite rephrases text for readability. Callers append citations after
// the rewrite so the model can never drop or invent a source.
func (b *OpenAIBackend) Rewrite(ctx context.Context, text string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	resp, err := b.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: b.rewriteModel,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: rewriteSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: text},
		},
		Temperature: 0.3,
	})
	if err != nil {
		return "", fmt.Errorf("rewrite: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("rewrite: empty response")
	}

	out := strings.TrimSpace(resp.Choices[0].Message.Content)
	if out == "" {
		return "", fmt.Errorf("rewrite: blank output")
	}
	return out, nil
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
