package command

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/pixil98/go-errors"

	"github.com/pixil98/cryptocity/internal/storage"
	"github.com/pixil98/cryptocity/internal/tutorial"
)

const defaultAPIKeyEnv = "GEMINI_API_KEY"

type ProviderType int

const (
	ProviderTypeOffline ProviderType = iota
	ProviderTypeGemini
)

func (pt *ProviderType) UnmarshalText(text []byte) error {
	switch string(text) {
	case "", "offline":
		*pt = ProviderTypeOffline
	case "gemini":
		*pt = ProviderTypeGemini
	default:
		return fmt.Errorf("unknown tutorial provider: %s", text)
	}
	return nil
}

type TutorialConfig struct {
	Provider  ProviderType `json:"provider"`
	Model     string       `json:"model,omitempty"`
	Endpoint  string       `json:"endpoint,omitempty"`
	APIKeyEnv string       `json:"api_key_env,omitempty"`
	Timeout   string       `json:"timeout,omitempty"`
	// PromptPath overrides the built in prompt template.
	PromptPath string `json:"prompt_path,omitempty"`
}

func (c *TutorialConfig) validate() error {
	el := errors.NewErrorList()

	if c.Timeout != "" {
		d, err := time.ParseDuration(c.Timeout)
		if err != nil {
			el.Add(fmt.Errorf("parsing tutorial timeout: %w", err))
		} else if d <= 0 {
			el.Add(fmt.Errorf("tutorial timeout must be positive"))
		}
	}

	if c.PromptPath != "" {
		if _, err := os.Stat(c.PromptPath); err != nil {
			el.Add(fmt.Errorf("invalid prompt_path %q: %w", c.PromptPath, err))
		}
	}

	return el.Err()
}

func (c *TutorialConfig) apiKeyEnv() string {
	if c.APIKeyEnv != "" {
		return c.APIKeyEnv
	}
	return defaultAPIKeyEnv
}

// buildProvider returns the provider sessions use. Offline puzzles always
// back the generator.
func (c *TutorialConfig) buildProvider(puzzles, archive storage.Storer[*tutorial.Puzzle]) (tutorial.Provider, error) {
	offline := tutorial.NewOfflineProvider(puzzles)
	if c.Provider == ProviderTypeOffline {
		return offline, nil
	}

	opts := []tutorial.GeminiOpt{}
	if c.Model != "" {
		opts = append(opts, tutorial.WithModel(c.Model))
	}
	if c.Endpoint != "" {
		opts = append(opts, tutorial.WithEndpoint(c.Endpoint))
	}
	if c.PromptPath != "" {
		text, err := os.ReadFile(c.PromptPath)
		if err != nil {
			return nil, fmt.Errorf("reading prompt %q: %w", c.PromptPath, err)
		}
		prompt, err := tutorial.NewPrompt(string(text))
		if err != nil {
			return nil, fmt.Errorf("parsing prompt %q: %w", c.PromptPath, err)
		}
		opts = append(opts, tutorial.WithPrompt(prompt))
	}

	apiKey := os.Getenv(c.apiKeyEnv())
	if apiKey == "" {
		slog.Warn("no tutorial api key set, puzzles will come from the offline set", "env", c.apiKeyEnv())
	}

	gemini, err := tutorial.NewGeminiProvider(apiKey, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating gemini provider: %w", err)
	}

	var fallbackOpts []tutorial.FallbackOpt
	if c.Timeout != "" {
		d, err := time.ParseDuration(c.Timeout)
		if err != nil {
			return nil, fmt.Errorf("parsing tutorial timeout: %w", err)
		}
		fallbackOpts = append(fallbackOpts, tutorial.WithTimeout(d))
	}
	if archive != nil {
		fallbackOpts = append(fallbackOpts, tutorial.WithArchive(archive))
	}

	return tutorial.NewFallbackProvider(gemini, offline, fallbackOpts...), nil
}
