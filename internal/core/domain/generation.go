package domain

import "fmt"

// MaxOutputTokens caps every hosted generation call.
const MaxOutputTokens = 1500

type InstructionMode string

const (
	ModeAnswerQuestion   InstructionMode = "answer-question"
	ModeSummarize        InstructionMode = "summarize"
	ModeSuggestQuestions InstructionMode = "suggest-questions"
	ModeActionItems      InstructionMode = "action-items"
)

func (m InstructionMode) Valid() bool {
	switch m {
	case ModeAnswerQuestion, ModeSummarize, ModeSuggestQuestions, ModeActionItems:
		return true
	default:
		return false
	}
}

// IsCommand reports whether the mode runs without a user question.
func (m InstructionMode) IsCommand() bool {
	switch m {
	case ModeSummarize, ModeSuggestQuestions, ModeActionItems:
		return true
	default:
		return false
	}
}

type GenerationParams struct {
	Model           string
	Temperature     float64
	MaxOutputTokens int
}

// ClampTemperature keeps the sampling temperature inside [0,1].
func ClampTemperature(t float64) float64 {
	switch {
	case t != t:
		return 0
	case t < 0:
		return 0
	case t > 1:
		return 1
	default:
		return t
	}
}

type FailureKind string

const (
	FailureAuth        FailureKind = "auth"
	FailureQuota       FailureKind = "quota"
	FailureUnavailable FailureKind = "unavailable"
	FailureMalformed   FailureKind = "malformed"
	FailureCanceled    FailureKind = "canceled"
	FailureUnknown     FailureKind = "unknown"
)

type GenerationFailure struct {
	Kind        FailureKind `json:"kind"`
	Description string      `json:"description"`
}

// Generation is the tagged outcome of one model call: either Text or Failure is meaningful.
type Generation struct {
	Text    string             `json:"text,omitempty"`
	Failure *GenerationFailure `json:"failure,omitempty"`
}

func (g Generation) OK() bool {
	return g.Failure == nil
}

// Display renders the generation the way the chat transcript shows it.
func (g Generation) Display() string {
	if g.Failure != nil {
		return fmt.Sprintf("(Error: %s)", g.Failure.Description)
	}
	return g.Text
}
