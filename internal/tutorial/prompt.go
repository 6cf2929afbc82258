package tutorial

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/Masterminds/sprig/v3"

	"github.com/pixil98/cryptocity/internal/city"
)

const DefaultPromptTemplate = `Create a short, engaging cryptography tutorial about {{ .Topic | quote }}.
Format:
1. Title
2. Tutorial: {{ .Sentences }} sentences explaining the core concept.
3. Task: A very simple question or challenge based on the tutorial.
4. Correct Answer: A single word or short phrase.
5. Explanation: Why that answer is correct.
Keep it {{ .Audience | default "beginner friendly" }} but educational.`

// PromptData is the input to the prompt template.
type PromptData struct {
	Topic     string
	Sentences string
	Audience  string
}

// Prompt renders the generation prompt for a topic.
type Prompt struct {
	tmpl *template.Template
}

func NewPrompt(text string) (*Prompt, error) {
	tmpl, err := template.New("prompt").Funcs(sprig.TxtFuncMap()).Parse(text)
	if err != nil {
		return nil, fmt.Errorf("parsing prompt template: %w", err)
	}
	return &Prompt{tmpl: tmpl}, nil
}

func (p *Prompt) Render(topic city.Topic) (string, error) {
	data := PromptData{
		Topic:     string(topic),
		Sentences: "3-4",
	}

	var buf bytes.Buffer
	if err := p.tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("executing prompt template: %w", err)
	}
	return buf.String(), nil
}
