package embed

import (
	"context"
	"errors"
	"net/http"
	"time"

	perr "liferec/internal/platform/errors"

	"github.com/sashabaranov/go-openai"
)

// DefaultModel is used when no model is configured
const DefaultModel = "text-embedding-3-small"

// OpenAI calls an OpenAI-compatible /embeddings endpoint
type OpenAI struct {
	client  *openai.Client
	model   openai.EmbeddingModel
	timeout time.Duration
}

// NewOpenAI creates a client. BaseURL lets any compatible server stand in
func NewOpenAI(c Config) (*OpenAI, error) {
	if c.APIKey == "" && c.BaseURL == "" {
		return nil, perr.InvalidArgf("embed: openai api key is required")
	}
	cc := openai.DefaultConfig(c.APIKey)
	if c.BaseURL != "" {
		cc.BaseURL = c.BaseURL
	}
	model := c.Model
	if model == "" {
		model = DefaultModel
	}
	return &OpenAI{
		client:  openai.NewClientWithConfig(cc),
		model:   openai.EmbeddingModel(model),
		timeout: c.Timeout,
	}, nil
}

// Embed requests one batch of embeddings and returns them in input order
func (o *OpenAI) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	if o.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.timeout)
		defer cancel()
	}

	resp, err := o.client.CreateEmbeddings(ctx, openai.EmbeddingRequestStrings{
		Input: texts,
		Model: o.model,
	})
	if err != nil {
		return nil, classify(err)
	}
	if len(resp.Data) != len(texts) {
		return nil, perr.Embedderf("embed: got %d vectors for %d inputs", len(resp.Data), len(texts))
	}

	out := make([][]float32, len(texts))
	for _, d := range resp.Data {
		if d.Index < 0 || d.Index >= len(out) {
			return nil, perr.Embedderf("embed: vector index %d out of range", d.Index)
		}
		out[d.Index] = L2Normalize(d.Embedding)
	}
	return out, nil
}

// Ping embeds one short string against the configured model
func (o *OpenAI) Ping(ctx context.Context) error {
	_, err := o.Embed(ctx, []string{pingText})
	return err
}

// classify maps transport failures onto our error codes
func classify(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return perr.Wrap(err, perr.ErrorCodeTimeout, "embed: request timed out")
	}
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.HTTPStatusCode == http.StatusTooManyRequests:
			return perr.Wrap(err, perr.ErrorCodeTooManyRequests, "embed: upstream rate limited")
		case apiErr.HTTPStatusCode >= 500:
			return perr.Wrap(err, perr.ErrorCodeUnavailable, "embed: upstream unavailable")
		}
	}
	return perr.Wrap(err, perr.ErrorCodeEmbedder, "embed: request failed")
}
