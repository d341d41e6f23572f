package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	appErr "ragchat/internal/pkg/errors"
)

var ErrUnavailable = errors.New("ai provider unavailable")

// IEmbedProvider converts batches of texts into vectors. The output slice
// has one vector per input, in the same order.
type IEmbedProvider interface {
	Name() string
	Embed(ctx context.Context, model string, texts []string) ([][]float32, error)
}

// IChatProvider sends one prompt to a language model and returns its raw
// text response.
type IChatProvider interface {
	Name() string
	Generate(ctx context.Context, model string, prompt string) (string, error)
}

// IEmbedder is an embed provider bound to a model, with the error taxonomy
// and per-call timeout applied. Callers never branch on provider identity.
type IEmbedder interface {
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	EmbedOne(ctx context.Context, text string) ([]float32, error)
	ModelName() string
}

// IGenerator is a chat provider bound to a model.
type IGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type embedder struct {
	provider IEmbedProvider
	model    string
	timeout  time.Duration
}

// NewEmbedder binds provider and model. A non-zero timeout bounds each
// network call. Provider failures are wrapped into ErrEmbeddingProvider;
// retry policy, if ever added, belongs here rather than in callers.
func NewEmbedder(p IEmbedProvider, model string, timeout time.Duration) IEmbedder {
	return &embedder{provider: p, model: model, timeout: timeout}
}

func (e *embedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}
	vectors, err := e.provider.Embed(ctx, e.model, texts)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", appErr.ErrEmbeddingProvider, e.provider.Name(), err)
	}
	if len(vectors) != len(texts) {
		return nil, fmt.Errorf("%w: %s returned %d vectors for %d inputs", appErr.ErrEmbeddingProvider, e.provider.Name(), len(vectors), len(texts))
	}
	return vectors, nil
}

func (e *embedder) EmbedOne(ctx context.Context, text string) ([]float32, error) {
	vectors, err := e.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

func (e *embedder) ModelName() string {
	return e.model
}

type generator struct {
	provider IChatProvider
	model    string
	timeout  time.Duration
}

// NewGenerator binds provider and model; failures wrap ErrAnsweringProvider.
func NewGenerator(p IChatProvider, model string, timeout time.Duration) IGenerator {
	return &generator{provider: p, model: model, timeout: timeout}
}

func (g *generator) Generate(ctx context.Context, prompt string) (string, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}
	resp, err := g.provider.Generate(ctx, g.model, prompt)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", appErr.ErrAnsweringProvider, g.provider.Name(), err)
	}
	text := strings.TrimSpace(resp)
	if text == "" {
		return "", fmt.Errorf("%w: %s returned an empty response", appErr.ErrAnsweringProvider, g.provider.Name())
	}
	return text, nil
}

type EmbedProviderFactory func(args interface{}) (IEmbedProvider, error)

type ChatProviderFactory func(args interface{}) (IChatProvider, error)

var (
	embedRegistry = map[string]EmbedProviderFactory{}
	chatRegistry  = map[string]ChatProviderFactory{}
)

func RegisterEmbed(name string, factory EmbedProviderFactory) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" || factory == nil {
		return
	}
	embedRegistry[key] = factory
}

func Register(name string, factory ChatProviderFactory) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" || factory == nil {
		return
	}
	chatRegistry[key] = factory
}

func NewEmbedProvider(name string, args interface{}) (IEmbedProvider, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		return nil, fmt.Errorf("%w: ai provider name is required", appErr.ErrConfiguration)
	}
	factory := embedRegistry[key]
	if factory == nil {
		return nil, fmt.Errorf("%w: unsupported embedding provider: %s", appErr.ErrConfiguration, name)
	}
	return factory(args)
}

func NewChatProvider(name string, args interface{}) (IChatProvider, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		return nil, fmt.Errorf("%w: ai provider name is required", appErr.ErrConfiguration)
	}
	factory := chatRegistry[key]
	if factory == nil {
		return nil, fmt.Errorf("%w: unsupported answering provider: %s", appErr.ErrConfiguration, name)
	}
	return factory(args)
}

func decodeConfig(args interface{}, dst interface{}) error {
	if args == nil {
		return fmt.Errorf("ai provider config is required")
	}
	data, err := json.Marshal(args)
	if err != nil {
		return fmt.Errorf("encode ai provider config: %w", err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("decode ai provider config: %w", err)
	}
	return nil
}
