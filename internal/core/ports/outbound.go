package ports

import (
	"context"
	"time"

	"github.com/kirillkom/legal-doc-simplifier/internal/core/domain"
)

// TextExtractor turns an uploaded file into plain text.
type TextExtractor interface {
	Extract(ctx context.Context, filename string, data []byte) (string, error)
}

// TextGenerator performs exactly one hosted text-generation call.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string, params domain.GenerationParams) (string, error)
}

// WorkspaceStore keeps per-session workspaces in memory.
type WorkspaceStore interface {
	GetOrCreate(ctx context.Context, sessionID string) (*domain.Workspace, error)
	Delete(ctx context.Context, sessionID string) error
}

// UsageRecorder receives extraction and generation outcomes for metrics.
type UsageRecorder interface {
	RecordExtraction(format domain.DocumentFormat, status string)
	RecordGeneration(mode domain.InstructionMode, status string, promptChars int, duration time.Duration)
}
