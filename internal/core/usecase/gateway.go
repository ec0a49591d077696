package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kirillkom/legal-doc-simplifier/internal/core/domain"
	"github.com/kirillkom/legal-doc-simplifier/internal/core/ports"
)

const generationStatusOK = "ok"

// ModelGateway turns every provider call into a tagged Generation. It never returns an error.
type ModelGateway struct {
	generator ports.TextGenerator
	model     string
	recorder  ports.UsageRecorder
}

func NewModelGateway(generator ports.TextGenerator, model string, recorder ports.UsageRecorder) *ModelGateway {
	return &ModelGateway{
		generator: generator,
		model:     model,
		recorder:  recorder,
	}
}

func (g *ModelGateway) Generate(ctx context.Context, prompt string, temperature float64) domain.Generation {
	return g.GenerateForMode(ctx, "", prompt, temperature)
}

// GenerateForMode is Generate with the instruction mode attached for usage accounting.
func (g *ModelGateway) GenerateForMode(ctx context.Context, mode domain.InstructionMode, prompt string, temperature float64) (gen domain.Generation) {
	started := time.Now()
	defer func() {
		if r := recover(); r != nil {
			gen = failedGeneration(domain.FailureUnknown, fmt.Sprintf("model call panicked: %v", r))
		}
		g.record(mode, gen, len(prompt), time.Since(started))
	}()

	text, err := g.generator.Generate(ctx, prompt, domain.GenerationParams{
		Model:           g.model,
		Temperature:     domain.ClampTemperature(temperature),
		MaxOutputTokens: domain.MaxOutputTokens,
	})
	if err != nil {
		return failedGeneration(classifyFailure(err), err.Error())
	}
	return domain.Generation{Text: text}
}

func (g *ModelGateway) record(mode domain.InstructionMode, gen domain.Generation, promptChars int, duration time.Duration) {
	if g.recorder == nil {
		return
	}
	status := generationStatusOK
	if gen.Failure != nil {
		status = string(gen.Failure.Kind)
	}
	g.recorder.RecordGeneration(mode, status, promptChars, duration)
}

func failedGeneration(kind domain.FailureKind, description string) domain.Generation {
	return domain.Generation{Failure: &domain.GenerationFailure{Kind: kind, Description: description}}
}

func classifyFailure(err error) domain.FailureKind {
	switch {
	case errors.Is(err, context.Canceled):
		return domain.FailureCanceled
	case domain.IsKind(err, domain.ErrUnauthorized):
		return domain.FailureAuth
	case domain.IsKind(err, domain.ErrQuotaExceeded):
		return domain.FailureQuota
	case domain.IsKind(err, domain.ErrMalformedResponse):
		return domain.FailureMalformed
	case domain.IsKind(err, domain.ErrTemporary), errors.Is(err, context.DeadlineExceeded):
		return domain.FailureUnavailable
	default:
		return domain.FailureUnknown
	}
}
