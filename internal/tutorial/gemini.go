package tutorial

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/pixil98/cryptocity/internal/city"
)

const (
	DefaultGeminiEndpoint = "https://generativelanguage.googleapis.com/v1beta"
	DefaultGeminiModel    = "gemini-3-pro-preview"
)

// maxResponseBytes bounds how much of a reply is read.
const maxResponseBytes = 1 << 20

// GeminiProvider generates puzzles with the Gemini generateContent API.
type GeminiProvider struct {
	endpoint string
	model    string
	apiKey   string
	prompt   *Prompt
	client   *http.Client
}

type GeminiOpt func(*GeminiProvider)

func WithEndpoint(endpoint string) GeminiOpt {
	return func(g *GeminiProvider) {
		g.endpoint = strings.TrimRight(endpoint, "/")
	}
}

func WithModel(model string) GeminiOpt {
	return func(g *GeminiProvider) {
		g.model = model
	}
}

func WithHTTPClient(c *http.Client) GeminiOpt {
	return func(g *GeminiProvider) {
		g.client = c
	}
}

func WithPrompt(p *Prompt) GeminiOpt {
	return func(g *GeminiProvider) {
		g.prompt = p
	}
}

// NewGeminiProvider returns a provider authenticating with apiKey. A missing
// key is not an error here; every Generate call fails with
// ErrMissingCredential instead so the caller's fallback takes over.
func NewGeminiProvider(apiKey string, opts ...GeminiOpt) (*GeminiProvider, error) {
	prompt, err := NewPrompt(DefaultPromptTemplate)
	if err != nil {
		return nil, err
	}

	g := &GeminiProvider{
		endpoint: DefaultGeminiEndpoint,
		model:    DefaultGeminiModel,
		apiKey:   apiKey,
		prompt:   prompt,
		client:   http.DefaultClient,
	}

	for _, opt := range opts {
		opt(g)
	}

	return g, nil
}

type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	ResponseMimeType string         `json:"responseMimeType"`
	ResponseSchema   map[string]any `json:"responseSchema"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

func (g *GeminiProvider) Generate(ctx context.Context, topic city.Topic) (*Puzzle, error) {
	if g.apiKey == "" {
		return nil, ErrMissingCredential
	}

	text, err := g.prompt.Render(topic)
	if err != nil {
		return nil, err
	}

	body, err := json.Marshal(generateRequest{
		Contents: []content{{Role: "user", Parts: []part{{Text: text}}}},
		GenerationConfig: generationConfig{
			ResponseMimeType: "application/json",
			ResponseSchema:   generationSchema,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("marshalling request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", g.endpoint, g.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", g.apiKey)

	slog.DebugContext(ctx, "requesting tutorial", "topic", topic, "model", g.model)

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling generateContent: %w", err)
	}
	// Ignoring close error - body is fully read or abandoned
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("generateContent returned %s", resp.Status)
	}

	var gr generateResponse
	if err := json.Unmarshal(raw, &gr); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedPuzzle, err)
	}
	if len(gr.Candidates) == 0 || len(gr.Candidates[0].Content.Parts) == 0 {
		return nil, ErrEmptyResponse
	}

	var sb strings.Builder
	for _, p := range gr.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}

	p, err := decodePuzzle([]byte(sb.String()))
	if err != nil {
		return nil, err
	}
	p.ID = uuid.NewString()
	p.Topic = topic

	return p, nil
}
