package usecase

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kirillkom/legal-doc-simplifier/internal/core/domain"
)

const (
	LayoutChat = "chat"
	LayoutTabs = "tabs"

	documentsPlaceholder = "{{documents}}"
	questionPlaceholder  = "{{question}}"
)

//go:embed prompts.yaml
var promptsYAML []byte

// PromptBuilder interpolates document text and a question into a fixed per-mode template.
type PromptBuilder struct {
	templates map[domain.InstructionMode]string
}

func NewPromptBuilder(layout string) (*PromptBuilder, error) {
	sets, err := parsePromptSets(promptsYAML)
	if err != nil {
		return nil, err
	}

	layout = strings.ToLower(strings.TrimSpace(layout))
	if layout == "" {
		layout = LayoutChat
	}
	templates, ok := sets[layout]
	if !ok {
		return nil, fmt.Errorf("unknown prompt layout %q", layout)
	}

	byMode := make(map[domain.InstructionMode]string, len(templates))
	for name, tmpl := range templates {
		mode := domain.InstructionMode(name)
		if !mode.Valid() {
			return nil, fmt.Errorf("layout %q: unknown prompt mode %q", layout, name)
		}
		byMode[mode] = tmpl
	}
	for _, mode := range []domain.InstructionMode{
		domain.ModeAnswerQuestion,
		domain.ModeSummarize,
		domain.ModeSuggestQuestions,
		domain.ModeActionItems,
	} {
		if _, ok := byMode[mode]; !ok {
			return nil, fmt.Errorf("layout %q: missing prompt for mode %q", layout, mode)
		}
	}

	return &PromptBuilder{templates: byMode}, nil
}

func parsePromptSets(raw []byte) (map[string]map[string]string, error) {
	var sets map[string]map[string]string
	if err := yaml.Unmarshal(raw, &sets); err != nil {
		return nil, fmt.Errorf("parse prompt templates: %w", err)
	}
	return sets, nil
}

// Build returns the prompt for mode. Document texts are joined with a blank line and
// inserted verbatim; placeholders inside them are left untouched.
func (b *PromptBuilder) Build(mode domain.InstructionMode, documentTexts []string, question string) (string, error) {
	tmpl, ok := b.templates[mode]
	if !ok {
		return "", domain.WrapError(domain.ErrInvalidInput, "build prompt", fmt.Errorf("unknown mode %q", mode))
	}

	replacer := strings.NewReplacer(
		documentsPlaceholder, strings.Join(documentTexts, "\n\n"),
		questionPlaceholder, question,
	)
	return replacer.Replace(tmpl), nil
}
