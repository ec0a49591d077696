package usecase

import (
	"strings"
	"testing"

	"github.com/kirillkom/legal-doc-simplifier/internal/core/domain"
)

func TestPromptBuilderAnswerQuestionInterpolatesVerbatim(t *testing.T) {
	builder, err := NewPromptBuilder(LayoutChat)
	if err != nil {
		t.Fatalf("NewPromptBuilder() error = %v", err)
	}

	prompt, err := builder.Build(domain.ModeAnswerQuestion, []string{"Clause A.", "Clause B."}, "When do I pay?")
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	want := "Document:\nClause A.\n\nClause B.\n\nQuestion: When do I pay?\n\nAnswer in plain English."
	if prompt != want {
		t.Fatalf("unexpected prompt:\n%q\nwant:\n%q", prompt, want)
	}
}

func TestPromptBuilderIsDeterministic(t *testing.T) {
	for _, layout := range []string{LayoutChat, LayoutTabs} {
		builder, err := NewPromptBuilder(layout)
		if err != nil {
			t.Fatalf("NewPromptBuilder(%s) error = %v", layout, err)
		}
		for _, mode := range []domain.InstructionMode{
			domain.ModeAnswerQuestion, domain.ModeSummarize, domain.ModeSuggestQuestions, domain.ModeActionItems,
		} {
			first, err := builder.Build(mode, []string{"text"}, "q")
			if err != nil {
				t.Fatalf("Build(%s) error = %v", mode, err)
			}
			second, _ := builder.Build(mode, []string{"text"}, "q")
			if first != second {
				t.Fatalf("%s/%s: prompt is not deterministic", layout, mode)
			}
		}
	}
}

func TestPromptBuilderCommandsEndWithDocuments(t *testing.T) {
	builder, err := NewPromptBuilder(LayoutTabs)
	if err != nil {
		t.Fatalf("NewPromptBuilder() error = %v", err)
	}
	prompt, err := builder.Build(domain.ModeSummarize, []string{"Pay $500 by March 1."}, "")
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if !strings.HasSuffix(prompt, "Pay $500 by March 1.") {
		t.Fatalf("expected document text at the end of the prompt, got %q", prompt)
	}
}

func TestPromptBuilderDoesNotExpandPlaceholdersInDocuments(t *testing.T) {
	builder, err := NewPromptBuilder(LayoutChat)
	if err != nil {
		t.Fatalf("NewPromptBuilder() error = %v", err)
	}
	prompt, err := builder.Build(domain.ModeAnswerQuestion, []string{"see {{question}}"}, "secret")
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if !strings.Contains(prompt, "see {{question}}") {
		t.Fatalf("placeholder inside document was expanded: %q", prompt)
	}
}

func TestPromptBuilderLayoutsDiffer(t *testing.T) {
	chat, _ := NewPromptBuilder(LayoutChat)
	tabs, _ := NewPromptBuilder(LayoutTabs)
	a, _ := chat.Build(domain.ModeAnswerQuestion, []string{"x"}, "y")
	b, _ := tabs.Build(domain.ModeAnswerQuestion, []string{"x"}, "y")
	if a == b {
		t.Fatalf("expected layout-specific wording")
	}
}

func TestPromptBuilderRejectsUnknownModeAndLayout(t *testing.T) {
	builder, err := NewPromptBuilder("")
	if err != nil {
		t.Fatalf("NewPromptBuilder() error = %v", err)
	}
	chat, _ := NewPromptBuilder(LayoutChat)
	got, _ := builder.Build(domain.ModeSummarize, []string{"x"}, "")
	want, _ := chat.Build(domain.ModeSummarize, []string{"x"}, "")
	if got != want {
		t.Fatalf("expected the chat wording by default, got %q", got)
	}
	if _, err := builder.Build("translate", nil, ""); !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
	if _, err := NewPromptBuilder("grid"); err == nil {
		t.Fatalf("expected unknown layout error")
	}
}
